package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ghaggin/taskboard/internal/auth"
)

const (
	SessionCookie = "token"
)

// ParseCookies splits a raw Cookie header into name/value pairs. Pairs
// without '=' are skipped; values are URL-unescaped when possible.
func ParseCookies(header string) map[string]string {
	cookies := map[string]string{}
	if header == "" {
		return cookies
	}

	for _, pair := range strings.Split(header, ";") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" {
			continue
		}
		if unescaped, err := url.QueryUnescape(v); err == nil {
			v = unescaped
		}
		cookies[k] = v
	}
	return cookies
}

// SetSessionCookie hands the session token to the client. The cookie is
// not marked Secure so it works over plain http during development.
func SetSessionCookie(w http.ResponseWriter, s *auth.Session) {
	maxAge := int(time.Until(s.ExpiresAt).Round(time.Second) / time.Second)
	if maxAge <= 0 {
		maxAge = -1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie asks the client to drop its cookie. The token itself
// stays valid until it expires.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
