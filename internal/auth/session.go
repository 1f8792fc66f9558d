package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/VishardMehta/pullwise-ai/internal/shared"
	"github.com/redis/go-redis/v9"
)

const sessionTTL = 8 * time.Hour

// Session is the server-side record of a signed-in actor. It is replaced
// wholesale on every OAuth callback and deleted on logout; the profile row is
// the only thing that survives it.
type Session struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Email         string         `json:"email,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ProviderToken string         `json:"provider_token,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (s *Session) RedisKey() string {
	return "session:" + s.ID
}

type SessionStore struct {
	redis *redis.Client
}

func NewSessionStore(redisClient *redis.Client) *SessionStore {
	return &SessionStore{redis: redisClient}
}

func (s *SessionStore) Create(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = shared.NewID("sess_")
	}
	sess.CreatedAt = time.Now()

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sess.RedisKey(), data, sessionTTL).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, "session:"+id).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, "session:"+id).Err()
}
