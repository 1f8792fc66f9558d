package dto

type MeResponse struct {
	ID        string `json:"id" example:"usr_github_583231"`
	Email     string `json:"email,omitempty" example:"octocat@example.com"`
	Username  string `json:"username,omitempty" example:"octocat"`
	Name      string `json:"name,omitempty" example:"The Octocat"`
	AvatarURL string `json:"avatar_url,omitempty" example:"https://avatars.githubusercontent.com/u/583231"`
}
