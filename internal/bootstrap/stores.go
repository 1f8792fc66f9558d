package bootstrap

import (
	"github.com/VishardMehta/pullwise-ai/internal/auth"
	"github.com/VishardMehta/pullwise-ai/internal/profile"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideProfileStore(db *gorm.DB) *profile.Store {
	return profile.NewStore(db)
}

func ProvideSessionStore(redisClient *redis.Client) *auth.SessionStore {
	return auth.NewSessionStore(redisClient)
}

func RunMigrations(profileStore *profile.Store) error {
	return profileStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideProfileStore,
		ProvideSessionStore,
	),
	fx.Invoke(RunMigrations),
)
