package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/VishardMehta/pullwise-ai/internal/dto"
	"github.com/VishardMehta/pullwise-ai/internal/metrics"
	"github.com/VishardMehta/pullwise-ai/internal/shared"
	"github.com/labstack/echo/v4"
)

const defaultPostLoginPath = "/dashboard"

type Handler struct {
	provider *GitHubProvider // nil when OAuth credentials are not configured
	sessions *SessionStore
	tokens   *TokenManager
	bus      *Bus
	metrics  *metrics.Metrics
	appURL   string
	logger   *slog.Logger
}

func NewHandler(
	provider *GitHubProvider,
	sessions *SessionStore,
	tokens *TokenManager,
	bus *Bus,
	m *metrics.Metrics,
	appURL string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		provider: provider,
		sessions: sessions,
		tokens:   tokens,
		bus:      bus,
		metrics:  m,
		appURL:   strings.TrimSuffix(appURL, "/"),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/github/login", h.Login)
	g.GET("/github/callback", h.Callback)
	g.POST("/logout", h.Logout)
}

func (h *Handler) RegisterSessionRoutes(g *echo.Group) {
	g.GET("/me", h.Me)
}

// Login starts the GitHub authorization-code flow. When the OAuth credentials
// are absent the action is disabled outright: no redirect, no network call,
// just a configuration error the client can surface.
func (h *Handler) Login(c echo.Context) error {
	if h.provider == nil {
		return shared.ServiceUnavailable("config_missing", "GitHub sign-in is not configured")
	}

	redirect := h.sanitizeRedirectURI(c.QueryParam("redirect_uri"))
	state := h.tokens.SignState(redirect)
	return c.Redirect(http.StatusFound, h.provider.AuthURL(state))
}

// Callback completes the flow: state check, code exchange, session creation,
// cookie issue, then a session-change event. Profile sync runs off that event
// and its failures never block sign-in; exchange failures do surface, since
// without them there is no session at all.
func (h *Handler) Callback(c echo.Context) error {
	if h.provider == nil {
		return shared.ServiceUnavailable("config_missing", "GitHub sign-in is not configured")
	}

	if errCode := c.QueryParam("error"); errCode != "" {
		h.logger.Warn("oauth flow denied by provider", "error", errCode)
		h.metrics.SignInTotal.WithLabelValues("denied").Inc()
		return h.signInError(c, "oauth_denied")
	}

	redirect, err := h.tokens.VerifyState(c.QueryParam("state"))
	if err != nil {
		return shared.BadRequest("invalid_state", "state parameter is missing or tampered")
	}

	code := c.QueryParam("code")
	if code == "" {
		return shared.BadRequest("missing_code", "authorization code is required")
	}

	ctx := c.Request().Context()
	identity, providerToken, err := h.provider.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("oauth exchange failed", "error", err)
		h.metrics.SignInTotal.WithLabelValues("exchange_failed").Inc()
		return h.signInError(c, "exchange_failed")
	}

	sess := &Session{
		UserID:        identity.UserID(),
		Email:         identity.Email,
		Metadata:      identity.HandshakeMetadata(),
		ProviderToken: providerToken,
	}
	if err := h.sessions.Create(ctx, sess); err != nil {
		h.logger.Error("failed to store session", "error", err, "user_id", sess.UserID)
		h.metrics.SignInTotal.WithLabelValues("session_failed").Inc()
		return h.signInError(c, "session_failed")
	}

	if err := h.tokens.IssueCookie(c, sess); err != nil {
		h.logger.Error("failed to issue session cookie", "error", err, "user_id", sess.UserID)
		h.metrics.SignInTotal.WithLabelValues("session_failed").Inc()
		return h.signInError(c, "session_failed")
	}

	h.bus.Publish(sess)
	h.metrics.SignInTotal.WithLabelValues("ok").Inc()

	if redirect == "" {
		redirect = defaultPostLoginPath
	}
	return c.Redirect(http.StatusFound, h.appURL+redirect)
}

// Logout deletes the server-side session and clears the cookie. No session
// event fires here: sync only runs for signed-in actors.
func (h *Handler) Logout(c echo.Context) error {
	if claims, err := h.tokens.ReadCookie(c); err == nil {
		if err := h.sessions.Delete(c.Request().Context(), claims.SessionID); err != nil {
			h.logger.Warn("failed to delete session", "error", err, "session_id", claims.SessionID)
		}
	}
	h.tokens.ClearCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	sess := GetSession(c)
	if sess == nil {
		return shared.Unauthorized("auth_required", "authentication required")
	}

	resp := dto.MeResponse{
		ID:    sess.UserID,
		Email: sess.Email,
	}
	if v, ok := sess.Metadata["user_name"].(string); ok {
		resp.Username = v
	}
	if v, ok := sess.Metadata["full_name"].(string); ok {
		resp.Name = v
	}
	if v, ok := sess.Metadata["avatar_url"].(string); ok {
		resp.AvatarURL = v
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) signInError(c echo.Context, code string) error {
	return c.Redirect(http.StatusFound, h.appURL+"/auth?error="+code)
}

// sanitizeRedirectURI only allows same-app relative paths; anything absolute
// or protocol-relative is dropped rather than followed.
func (h *Handler) sanitizeRedirectURI(uri string) string {
	if uri == "" {
		return ""
	}
	if !strings.HasPrefix(uri, "/") || strings.HasPrefix(uri, "//") {
		return ""
	}
	return uri
}
