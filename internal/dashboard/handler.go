package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/VishardMehta/pullwise-ai/internal/auth"
	"github.com/VishardMehta/pullwise-ai/internal/github"
	"github.com/VishardMehta/pullwise-ai/internal/metrics"
	"github.com/VishardMehta/pullwise-ai/internal/profile"
	"github.com/VishardMehta/pullwise-ai/internal/shared"
	"github.com/labstack/echo/v4"
)

type RepoLister interface {
	ListUserRepos(ctx context.Context, token, username string) ([]github.Repository, error)
}

type Handler struct {
	profiles *profile.Store
	github   RepoLister
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewHandler(profiles *profile.Store, gh RepoLister, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		profiles: profiles,
		github:   gh,
		metrics:  m,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/profile", h.Profile)
	g.GET("/dashboard", h.Dashboard)
}

// DashboardResponse carries the profile row plus every chart's data,
// aggregated server-side so both dashboard surfaces read one shape.
type DashboardResponse struct {
	Profile     *profile.Profile    `json:"profile"`
	Totals      Totals              `json:"totals"`
	Languages   []LanguageCount     `json:"languages"`
	TopByStars  []github.Repository `json:"top_by_stars"`
	SizeRanking []SizeEntry         `json:"size_ranking"`
	Recent      []github.Repository `json:"recent"`
}

// Profile returns the stored profile record for the signed-in user. A missing
// row means sync never succeeded for this account; the fix is to sign in
// again, so that is what the error suggests.
func (h *Handler) Profile(c echo.Context) error {
	sess := auth.GetSession(c)
	if sess == nil {
		return shared.Unauthorized("auth_required", "authentication required")
	}

	p, err := h.profiles.GetByID(c.Request().Context(), sess.UserID)
	if err == shared.ErrNotFound {
		return shared.NotFound("profile_not_found", "profile not found, sign in again to rebuild it")
	}
	if err != nil {
		h.logger.Error("failed to load profile", "error", err, "user_id", sess.UserID)
		return shared.InternalError("profile_load_failed", "failed to load profile")
	}

	return c.JSON(http.StatusOK, p)
}

// Dashboard returns the profile plus aggregations over a freshly fetched
// repository list. A failed repository fetch degrades to empty charts rather
// than failing the view.
func (h *Handler) Dashboard(c echo.Context) error {
	sess := auth.GetSession(c)
	if sess == nil {
		return shared.Unauthorized("auth_required", "authentication required")
	}

	ctx := c.Request().Context()
	p, err := h.profiles.GetByID(ctx, sess.UserID)
	if err == shared.ErrNotFound {
		return shared.NotFound("profile_not_found", "profile not found, sign in again to rebuild it")
	}
	if err != nil {
		h.logger.Error("failed to load profile", "error", err, "user_id", sess.UserID)
		return shared.InternalError("profile_load_failed", "failed to load profile")
	}

	repos := h.fetchRepos(ctx, sess.ProviderToken, p.Username)

	recent := repos
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		Profile:     p,
		Totals:      Summarize(repos),
		Languages:   LanguageDistribution(repos),
		TopByStars:  TopByStars(repos),
		SizeRanking: SizeRanking(repos),
		Recent:      recent,
	})
}

func (h *Handler) fetchRepos(ctx context.Context, token, username string) []github.Repository {
	repos, err := h.github.ListUserRepos(ctx, token, username)
	if err != nil {
		h.logger.Error("failed to fetch repositories", "error", err, "username", username)
		h.metrics.RepoFetchTotal.WithLabelValues("error").Inc()
		return nil
	}
	h.metrics.RepoFetchTotal.WithLabelValues("ok").Inc()
	return repos
}
