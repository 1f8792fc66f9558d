package profile

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/VishardMehta/pullwise-ai/internal/github"
	"github.com/VishardMehta/pullwise-ai/internal/metrics"
	"github.com/VishardMehta/pullwise-ai/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Actor is the signed-in identity a session-change event carries: the stable
// user ID, the metadata captured during the OAuth handshake, and the delegated
// GitHub token when the provider handed one back.
type Actor struct {
	UserID        string
	Email         string
	Metadata      map[string]any
	ProviderToken string
}

type GitHubAPI interface {
	FetchUser(ctx context.Context, token string) (*github.User, error)
}

// Syncer builds the canonical profile record on every session change: handshake
// metadata as the baseline, one optional GitHub enrichment call overlaid on top,
// then a full-row upsert. Every failure past the session itself is soft — the
// user stays signed in with whatever data we had.
type Syncer struct {
	store   *Store
	github  GitHubAPI
	metrics *metrics.Metrics
	logger  *slog.Logger
	group   singleflight.Group
}

func NewSyncer(store *Store, gh GitHubAPI, m *metrics.Metrics, logger *slog.Logger) *Syncer {
	return &Syncer{
		store:   store,
		github:  gh,
		metrics: m,
		logger:  logger,
	}
}

// Sync runs one sync pass for the actor. Concurrent calls for the same user ID
// coalesce into a single in-flight pass, so a burst of session-change events
// cannot race on the upsert.
func (s *Syncer) Sync(ctx context.Context, actor Actor) {
	if actor.UserID == "" {
		return
	}
	s.group.Do(actor.UserID, func() (any, error) {
		s.sync(ctx, actor)
		return nil, nil
	})
}

func (s *Syncer) sync(ctx context.Context, actor Actor) {
	merged := make(map[string]any, len(actor.Metadata)+16)
	for k, v := range actor.Metadata {
		merged[k] = v
	}

	if actor.ProviderToken != "" {
		ghUser, err := s.github.FetchUser(ctx, actor.ProviderToken)
		if err != nil {
			s.logger.Warn("github enrichment failed, using handshake metadata",
				"error", err, "user_id", actor.UserID)
			s.metrics.EnrichmentFailures.Inc()
		} else {
			overlay(merged, ghUser)
		}
	}

	record := s.buildRecord(actor, merged)
	if err := s.store.Upsert(ctx, record); err != nil {
		s.logger.Error("failed to upsert user profile",
			"error", err, "user_id", actor.UserID)
		s.metrics.SyncTotal.WithLabelValues("upsert_failed").Inc()
		return
	}
	s.metrics.SyncTotal.WithLabelValues("synced").Inc()
}

// overlay copies the enrichment response over the baseline, field by field.
// Email is deliberately skipped: GitHub's /user email is often hidden or
// stale, so the handshake email always wins.
func overlay(merged map[string]any, gh *github.User) {
	merged["sub"] = strconv.FormatInt(gh.ID, 10)
	merged["user_name"] = gh.Login
	merged["preferred_username"] = gh.Login
	merged["full_name"] = gh.Name
	merged["name"] = gh.Name
	merged["avatar_url"] = gh.AvatarURL
	merged["bio"] = gh.Bio
	merged["company"] = gh.Company
	merged["location"] = gh.Location
	merged["blog"] = gh.Blog
	merged["twitter_username"] = gh.TwitterUsername
	merged["public_repos"] = gh.PublicRepos
	merged["public_gists"] = gh.PublicGists
	merged["followers"] = gh.Followers
	merged["following"] = gh.Following
	merged["created_at"] = gh.CreatedAt
	merged["updated_at"] = gh.UpdatedAt
}

func (s *Syncer) buildRecord(actor Actor, merged map[string]any) *Profile {
	email := stringField(merged, "email")
	if email == "" {
		email = actor.Email
	}

	return &Profile{
		ID:              actor.UserID,
		GitHubID:        parseGitHubID(merged),
		Username:        firstString(merged, "user_name", "preferred_username"),
		Name:            firstString(merged, "full_name", "name"),
		Email:           email,
		AvatarURL:       stringField(merged, "avatar_url"),
		Bio:             stringField(merged, "bio"),
		Company:         stringField(merged, "company"),
		Location:        stringField(merged, "location"),
		Blog:            stringField(merged, "blog"),
		TwitterUsername: stringField(merged, "twitter_username"),
		PublicRepos:     intField(merged, "public_repos"),
		PublicGists:     intField(merged, "public_gists"),
		Followers:       intField(merged, "followers"),
		Following:       intField(merged, "following"),
		GitHubCreatedAt: timeField(merged, "created_at"),
		GitHubUpdatedAt: timeField(merged, "updated_at"),
		RawMetadata:     shared.JSONMap(merged),
	}
}

// parseGitHubID never fails the sync: an absent or unparsable id just leaves
// the column null.
func parseGitHubID(merged map[string]any) *int64 {
	sub := stringField(merged, "sub")
	if sub == "" {
		return nil
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := stringField(m, key); v != "" {
			return v
		}
	}
	return ""
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func timeField(m map[string]any, key string) *time.Time {
	raw := stringField(m, key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}
