package auth

import (
	"context"

	"github.com/VishardMehta/pullwise-ai/internal/shared"
	"github.com/labstack/echo/v4"
)

type contextKey string

const sessionKey contextKey = "session"

type Middleware struct {
	tokens   *TokenManager
	sessions *SessionStore
}

func NewMiddleware(tokens *TokenManager, sessions *SessionStore) *Middleware {
	return &Middleware{
		tokens:   tokens,
		sessions: sessions,
	}
}

// Authenticate resolves the session cookie to the server-side session and
// stashes it in the request context. A cookie that no longer resolves (expired
// Redis entry, revoked session) is treated the same as no cookie.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.tokens.ReadCookie(c)
		if err != nil {
			return shared.Unauthorized("auth_required", "sign in to continue")
		}

		sess, err := m.sessions.Get(c.Request().Context(), claims.SessionID)
		if err != nil {
			return shared.Unauthorized("session_expired", "session expired, sign in again")
		}
		if sess.UserID != claims.Subject {
			return shared.Unauthorized("session_mismatch", "session does not match token")
		}

		ctx := context.WithValue(c.Request().Context(), sessionKey, sess)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func GetSession(c echo.Context) *Session {
	sess, ok := c.Request().Context().Value(sessionKey).(*Session)
	if !ok {
		return nil
	}
	return sess
}

func SetSessionForTest(c echo.Context, sess *Session) {
	ctx := context.WithValue(c.Request().Context(), sessionKey, sess)
	c.SetRequest(c.Request().WithContext(ctx))
}
