// Package auth wraps cookie-session handling for the monitoring API.
package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName      = "easymesh-monitor-session"
	authenticatedKey = "authenticated"
	sessionMaxAge    = 86400 * 7 // 7 days
)

// SessionStore issues and validates admin sessions backed by signed
// cookies. A single admin account exists, so sessions carry only an
// authenticated flag.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates a session store signing cookies with secret.
func NewSessionStore(secret string) *SessionStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

func (s *SessionStore) session(r *http.Request) *sessions.Session {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		// Corrupted or stale cookie: start over with a fresh session.
		session, _ = s.store.New(r, sessionName)
	}
	return session
}

// IsAuthenticated reports whether the request carries a valid admin
// session.
func (s *SessionStore) IsAuthenticated(r *http.Request) bool {
	auth, ok := s.session(r).Values[authenticatedKey].(bool)
	return ok && auth
}

// Login establishes an authenticated session on the response.
func (s *SessionStore) Login(r *http.Request, w http.ResponseWriter) error {
	session := s.session(r)
	session.Values[authenticatedKey] = true
	return session.Save(r, w)
}

// Logout invalidates the session cookie.
func (s *SessionStore) Logout(r *http.Request, w http.ResponseWriter) error {
	session := s.session(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
