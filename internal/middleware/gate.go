package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ghaggin/taskboard/internal/auth"
	"github.com/ghaggin/taskboard/internal/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ctxKey string

const (
	identityKey ctxKey = "identity"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Gate admits requests that carry a valid session cookie.
type Gate struct {
	tokens TokenVerifier
	log    *zap.Logger
}

type GateParams struct {
	fx.In

	Tokens *auth.Tokens
	Log    *zap.Logger
}

func NewGate(p GateParams) *Gate {
	return newGate(p.Tokens, p.Log)
}

func newGate(tokens TokenVerifier, log *zap.Logger) *Gate {
	return &Gate{tokens: tokens, log: log}
}

// RequireAuth rejects missing, malformed and expired tokens alike with a
// 401. It never refreshes the cookie.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.identify(r)
		if err != nil {
			g.log.Debug("request not authenticated",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func (g *Gate) identify(r *http.Request) (model.Identity, error) {
	token := ParseCookies(r.Header.Get("Cookie"))[SessionCookie]
	if token == "" {
		return model.Identity{}, ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return model.Identity{}, err
	}
	return claims.Identity(), nil
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}

func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok
}
