package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// Identity is what the OAuth handshake itself establishes about the actor,
// before any enrichment runs.
type Identity struct {
	Sub       string
	Login     string
	Email     string
	Name      string
	AvatarURL string
}

// UserID derives the stable internal user ID from the provider's numeric
// subject, so repeated sign-ins land on the same profile row.
func (id *Identity) UserID() string {
	return "usr_github_" + id.Sub
}

// HandshakeMetadata is the baseline metadata map the sync routine starts
// from. The enrichment call overlays it field by field, email excepted.
func (id *Identity) HandshakeMetadata() map[string]any {
	m := map[string]any{
		"sub":       id.Sub,
		"user_name": id.Login,
	}
	if id.Email != "" {
		m["email"] = id.Email
	}
	if id.Name != "" {
		m["full_name"] = id.Name
	}
	if id.AvatarURL != "" {
		m["avatar_url"] = id.AvatarURL
	}
	return m
}

type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider returns nil when the OAuth credentials are absent; the
// handlers treat a nil provider as "sign-in disabled" and answer with a
// configuration error instead of attempting the flow.
func NewGitHubProvider(clientID, clientSecret, redirectURL string) *GitHubProvider {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email", "repo", "read:org"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *GitHubProvider) Name() string {
	return "github"
}

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for the actor's identity and the
// delegated GitHub token the dashboard reuses for API reads.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Identity, string, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("token exchange failed: %w", err)
	}

	client := p.config.Client(ctx, token)

	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("user info request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	var info struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, "", fmt.Errorf("failed to parse user info: %w", err)
	}
	if info.ID == 0 {
		return nil, "", fmt.Errorf("provider returned an invalid user")
	}

	email := info.Email
	if email == "" {
		email, _ = p.fetchPrimaryEmail(client)
	}

	return &Identity{
		Sub:       fmt.Sprintf("%d", info.ID),
		Login:     info.Login,
		Email:     email,
		Name:      info.Name,
		AvatarURL: info.AvatarURL,
	}, token.AccessToken, nil
}

func (p *GitHubProvider) fetchPrimaryEmail(client *http.Client) (string, error) {
	resp, err := client.Get("https://api.github.com/user/emails")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(body, &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}
