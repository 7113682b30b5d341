package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LRM-Solutions/fortelyne-app-checklist/log"
)

// Session is the authenticated state obtained at login. It is owned by
// the Client, which acquires it via Login, attaches it to every request
// and clears it on Logout or a 401 response.
type Session struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the session's token is known to be past its
// expiry. A zero ExpiresAt means the backend issued an opaque token and
// expiry is only discovered through a 401.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SessionStore persists the session between runs.
type SessionStore interface {
	LoadSession() (*Session, error)
	SaveSession(*Session) error
	ClearSession() error
}

// newSession builds a session from a bearer token, reading expiry and
// subject out of the token when it is a JWT. The signature is not (and
// cannot be) verified here; the backend remains the authority.
func newSession(token, email string) *Session {
	s := &Session{Token: token, Email: email}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		log.Debugf("client.session: token is not a JWT: %s", err)
		return s
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	if email, ok := claims["user_email"].(string); ok && email != "" {
		s.Email = email
	}
	return s
}
