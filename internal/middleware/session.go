package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

const (
	flashKey = "flash"
)

// SessionManager keeps short-lived server side state for the rendered
// pages. Authentication does not use it.
type SessionManager struct {
	impl *scs.SessionManager
}

func NewSessionManager() (*SessionManager, error) {
	sm := &SessionManager{}
	sm.impl = scs.New()
	sm.impl.Lifetime = time.Hour
	sm.impl.Cookie.Name = "flash_session"
	sm.impl.Cookie.HttpOnly = true
	sm.impl.Cookie.SameSite = http.SameSiteLaxMode

	return sm, nil
}

func (s *SessionManager) Wrap(next http.Handler) http.Handler {
	return s.impl.LoadAndSave(next)
}

func (s *SessionManager) Flash(ctx context.Context, msg string) {
	s.impl.Put(ctx, flashKey, msg)
}

// PopFlash returns the pending message, if any, and removes it.
func (s *SessionManager) PopFlash(ctx context.Context) string {
	return s.impl.PopString(ctx, flashKey)
}
