package authenticator

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"gitea.com/go-chi/session"
)

// StateStore keeps the anti-forgery state between the authorization redirect
// and the callback
type StateStore interface {
	Store(r *http.Request, key, state string) error
	Verify(r *http.Request, key, state string) (bool, error)
}

// SessionStateStore keeps state in the request session
type SessionStateStore struct{}

// Store saves state under key
func (SessionStateStore) Store(r *http.Request, key, state string) error {
	sess := session.GetSession(r)
	if sess == nil {
		return ErrNoSession
	}
	return sess.Set(key, state)
}

// Verify reports whether state matches the stored one. The stored value is
// removed either way so a state can only be used once.
func (SessionStateStore) Verify(r *http.Request, key, state string) (bool, error) {
	sess := session.GetSession(r)
	if sess == nil {
		return false, ErrNoSession
	}

	stored, ok := sess.Get(key).(string)
	if err := sess.Delete(key); err != nil {
		return false, err
	}
	if !ok || stored == "" {
		return false, nil
	}
	return stored == state, nil
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
