package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.github.com"

const acceptHeader = "application/vnd.github+json"

// Client is a minimal GitHub REST client scoped to the two read-only calls the
// dashboard needs. Tokens are passed per call because every request rides on
// the signed-in user's short-lived provider token, not an app credential.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchUser returns the authenticated user's profile for the given token.
func (c *Client) FetchUser(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.get(ctx, token, "/user", &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("github: /user returned an invalid user (id = 0)")
	}
	return &user, nil
}

// ListUserRepos returns up to 100 of the user's repositories, most recently
// updated first. An unknown username yields an empty list, not an error — the
// profile row only holds a join key, nothing enforces it still resolves.
func (c *Client) ListUserRepos(ctx context.Context, token, username string) ([]Repository, error) {
	if username == "" {
		return nil, nil
	}

	path := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=100", url.PathEscape(username))
	var repos []Repository
	if err := c.get(ctx, token, path, &repos); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return repos, nil
}

type statusError struct {
	status int
	path   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("github: %s returned status %d", e.path, e.status)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}

func (c *Client) get(ctx context.Context, token, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("github: building request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github: calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &statusError{status: resp.StatusCode, path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decoding %s response: %w", path, err)
	}
	return nil
}
