package bootstrap

import (
	"os"
	"strconv"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	HMACKey      []byte
	CookieSecure bool
	CookieDomain string

	// AppURL is where the browser lands after the OAuth callback.
	AppURL string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string
	GitHubAPIBaseURL   string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MetricsNamespace string
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		HMACKey:      []byte(getEnv("HMAC_KEY", "change-me-in-production")),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),

		AppURL: getEnv("APP_URL", "http://localhost:3000"),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubRedirectURL:  getEnv("GITHUB_REDIRECT_URL", ""),
		GitHubAPIBaseURL:   getEnv("GITHUB_API_BASE_URL", ""),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "pullwise"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
