package profile

import (
	"time"

	"github.com/VishardMehta/pullwise-ai/internal/shared"
)

// Profile is the durable, canonical profile record. One row per user ID,
// written only by the Syncer and read-only everywhere else. Both dashboard
// surfaces consume this exact shape.
type Profile struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	GitHubID        *int64         `gorm:"index" json:"github_id,omitempty"`
	Username        string         `gorm:"index" json:"github_username,omitempty"`
	Name            string         `json:"name,omitempty"`
	Email           string         `json:"email,omitempty"`
	AvatarURL       string         `json:"avatar_url,omitempty"`
	Bio             string         `json:"bio,omitempty"`
	Company         string         `json:"company,omitempty"`
	Location        string         `json:"location,omitempty"`
	Blog            string         `json:"blog,omitempty"`
	TwitterUsername string         `json:"twitter_username,omitempty"`
	PublicRepos     int            `json:"public_repos"`
	PublicGists     int            `json:"public_gists"`
	Followers       int            `json:"followers"`
	Following       int            `json:"following"`
	GitHubCreatedAt *time.Time     `json:"github_created_at,omitempty"`
	GitHubUpdatedAt *time.Time     `json:"github_updated_at,omitempty"`
	RawMetadata     shared.JSONMap `gorm:"type:jsonb" json:"raw_user_meta_data,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
