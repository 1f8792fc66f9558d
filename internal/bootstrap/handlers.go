package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/VishardMehta/pullwise-ai/internal/auth"
	"github.com/VishardMehta/pullwise-ai/internal/dashboard"
	"github.com/VishardMehta/pullwise-ai/internal/github"
	"github.com/VishardMehta/pullwise-ai/internal/metrics"
	"github.com/VishardMehta/pullwise-ai/internal/profile"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideTokenManager(cfg *Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.HMACKey, cfg.CookieSecure, cfg.CookieDomain)
}

func ProvideGitHubProvider(cfg *Config) *auth.GitHubProvider {
	return auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURL)
}

func ProvideSessionBus() *auth.Bus {
	return auth.NewBus()
}

func ProvideSyncer(store *profile.Store, gh *github.Client, m *metrics.Metrics, logger *slog.Logger) *profile.Syncer {
	return profile.NewSyncer(store, gh, m, logger.With("component", "syncer"))
}

func ProvideAuthMiddleware(tokens *auth.TokenManager, sessions *auth.SessionStore) *auth.Middleware {
	return auth.NewMiddleware(tokens, sessions)
}

func ProvideAuthHandler(
	provider *auth.GitHubProvider,
	sessions *auth.SessionStore,
	tokens *auth.TokenManager,
	bus *auth.Bus,
	m *metrics.Metrics,
	cfg *Config,
	logger *slog.Logger,
) *auth.Handler {
	return auth.NewHandler(provider, sessions, tokens, bus, m, cfg.AppURL, logger.With("handler", "auth"))
}

func ProvideDashboardHandler(
	profiles *profile.Store,
	gh *github.Client,
	m *metrics.Metrics,
	logger *slog.Logger,
) *dashboard.Handler {
	return dashboard.NewHandler(profiles, gh, m, logger.With("handler", "dashboard"))
}

// WireSessionSync subscribes the profile syncer to session-change events for
// the lifetime of the app. The subscription is torn down on shutdown through
// the same lifecycle that set it up.
func WireSessionSync(lc fx.Lifecycle, bus *auth.Bus, syncer *profile.Syncer) {
	var unsubscribe func()
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			unsubscribe = bus.Subscribe(func(sess *auth.Session) {
				syncer.Sync(context.Background(), profile.Actor{
					UserID:        sess.UserID,
					Email:         sess.Email,
					Metadata:      sess.Metadata,
					ProviderToken: sess.ProviderToken,
				})
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if unsubscribe != nil {
				unsubscribe()
			}
			return nil
		},
	})
}

type HandlerParams struct {
	fx.In

	AuthHandler      *auth.Handler
	DashboardHandler *dashboard.Handler
	AuthMiddleware   *auth.Middleware
	Metrics          *metrics.Metrics
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")

	params.AuthHandler.RegisterRoutes(api.Group("/auth"))

	sessionGroup := api.Group("/auth")
	sessionGroup.Use(params.AuthMiddleware.Authenticate)
	params.AuthHandler.RegisterSessionRoutes(sessionGroup)

	viewsGroup := api.Group("")
	viewsGroup.Use(params.AuthMiddleware.Authenticate)
	params.DashboardHandler.RegisterRoutes(viewsGroup)

	e.GET("/metrics", echo.WrapHandler(params.Metrics.Handler()))
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideTokenManager,
		ProvideGitHubProvider,
		ProvideSessionBus,
		ProvideSyncer,
		ProvideAuthMiddleware,
		ProvideAuthHandler,
		ProvideDashboardHandler,
	),
	fx.Invoke(WireSessionSync),
	fx.Invoke(RegisterRoutes),
)
