package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookieName = "pullwise_session"
	sessionMaxAge     = 8 * 60 * 60
)

var ErrInvalidToken = errors.New("invalid token")

type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// TokenManager signs the browser-facing artifacts: the session cookie (a JWT
// referencing the Redis session) and the OAuth state parameter.
type TokenManager struct {
	hmacKey []byte
	secure  bool
	domain  string
}

func NewTokenManager(hmacKey []byte, secure bool, domain string) *TokenManager {
	return &TokenManager{
		hmacKey: hmacKey,
		secure:  secure,
		domain:  domain,
	}
}

func (t *TokenManager) IssueCookie(c echo.Context, sess *Session) error {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		SessionID: sess.ID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.hmacKey)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		Domain:   t.domain,
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (t *TokenManager) ReadCookie(c echo.Context) (*SessionClaims, error) {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return nil, err
	}

	var claims SessionClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.hmacKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (t *TokenManager) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   t.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignState produces the OAuth state parameter: a random nonce plus the
// optional post-login redirect target, HMAC-signed so the callback can trust
// it without server-side storage.
func (t *TokenManager) SignState(redirectURI string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}

	state := base64.URLEncoding.EncodeToString(b)
	if redirectURI != "" {
		state += "|" + redirectURI
	}
	return t.signValue(state)
}

func (t *TokenManager) VerifyState(state string) (redirectURI string, err error) {
	payload, err := t.verifyValue(state)
	if err != nil {
		return "", err
	}

	parts := strings.SplitN(payload, "|", 2)
	if len(parts) < 2 {
		return "", nil
	}
	return parts[1], nil
}

func (t *TokenManager) signValue(value string) string {
	mac := hmac.New(sha256.New, t.hmacKey)
	mac.Write([]byte(value))
	sig := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(value)) + "." + sig
}

func (t *TokenManager) verifyValue(signed string) (string, error) {
	parts := strings.SplitN(signed, ".", 2)
	if len(parts) != 2 {
		return "", errors.New("invalid signature format")
	}

	payload, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, t.hmacKey)
	mac.Write(payload)
	expectedSig := base64.URLEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[1]), []byte(expectedSig)) {
		return "", errors.New("invalid signature")
	}
	return string(payload), nil
}
