package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_FetchUser(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 583231,
			"login": "octocat",
			"name": "The Octocat",
			"avatar_url": "https://avatars.githubusercontent.com/u/583231",
			"bio": "A mysterious cat",
			"company": "@github",
			"location": "San Francisco",
			"public_repos": 8,
			"followers": 9999,
			"following": 9,
			"created_at": "2011-01-25T18:44:36Z"
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	user, err := client.FetchUser(context.Background(), "gho_testtoken")
	if err != nil {
		t.Fatalf("FetchUser failed: %v", err)
	}

	if gotAuth != "Bearer gho_testtoken" {
		t.Errorf("expected bearer auth header, got '%s'", gotAuth)
	}
	if gotAccept != "application/vnd.github+json" {
		t.Errorf("expected github accept header, got '%s'", gotAccept)
	}
	if user.ID != 583231 {
		t.Errorf("expected id 583231, got %d", user.ID)
	}
	if user.Login != "octocat" {
		t.Errorf("expected login 'octocat', got '%s'", user.Login)
	}
	if user.Followers != 9999 {
		t.Errorf("expected 9999 followers, got %d", user.Followers)
	}
}

func TestClient_FetchUser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"Bad credentials"}`},
		{name: "server error", status: http.StatusInternalServerError, body: ``},
		{name: "zero id", status: http.StatusOK, body: `{"id":0}`},
		{name: "malformed body", status: http.StatusOK, body: `{"id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			if _, err := client.FetchUser(context.Background(), "tok"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestClient_ListUserRepos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat/repos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("sort") != "updated" {
			t.Errorf("expected sort=updated, got '%s'", r.URL.Query().Get("sort"))
		}
		if r.URL.Query().Get("per_page") != "100" {
			t.Errorf("expected per_page=100, got '%s'", r.URL.Query().Get("per_page"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"name":"hello-world","stargazers_count":42,"language":"Go","size":2048},
			{"id":2,"name":"spoon-knife","stargazers_count":7,"size":100}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	repos, err := client.ListUserRepos(context.Background(), "tok", "octocat")
	if err != nil {
		t.Fatalf("ListUserRepos failed: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("expected 2 repos, got %d", len(repos))
	}
	if repos[0].Name != "hello-world" || repos[0].StargazersCount != 42 {
		t.Errorf("first repo decoded wrong: %+v", repos[0])
	}
	if repos[1].Language != "" {
		t.Errorf("missing language should decode as empty, got '%s'", repos[1].Language)
	}
}

func TestClient_ListUserRepos_UnknownUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	repos, err := client.ListUserRepos(context.Background(), "tok", "renamed-away")
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if len(repos) != 0 {
		t.Errorf("expected empty list, got %d repos", len(repos))
	}
}

func TestClient_ListUserRepos_EmptyUsername(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	repos, err := client.ListUserRepos(context.Background(), "tok", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repos != nil {
		t.Errorf("expected nil repos, got %v", repos)
	}
	if called {
		t.Error("no request should be made without a username")
	}
}
