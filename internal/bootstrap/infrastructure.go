package bootstrap

import (
	"github.com/VishardMehta/pullwise-ai/internal/github"
	"github.com/VishardMehta/pullwise-ai/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ProvideRedisClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func ProvideDatabase(cfg *Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func ProvideGitHubClient(cfg *Config) *github.Client {
	return github.NewClient(cfg.GitHubAPIBaseURL)
}

func ProvideMetrics(cfg *Config) *metrics.Metrics {
	return metrics.New(cfg.MetricsNamespace)
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideRedisClient,
		ProvideDatabase,
		ProvideGitHubClient,
		ProvideMetrics,
	),
)
