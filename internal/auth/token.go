package auth

import (
	"errors"
	"time"

	"github.com/ghaggin/taskboard/internal/config"
	"github.com/ghaggin/taskboard/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the contents of a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"uid"`
	Username string `json:"username"`
}

func (c *Claims) Identity() model.Identity {
	return model.Identity{UserID: c.UserID, Username: c.Username}
}

// Tokens signs and verifies stateless HS256 session tokens. Nothing is
// stored server side, so a token cannot be revoked before it expires.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

func NewTokensFromConfig(cfg *config.Config) *Tokens {
	return NewTokens([]byte(cfg.Auth.Secret), cfg.Auth.TokenTTL)
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

func (t *Tokens) Sign(id model.Identity) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   id.UserID,
		Username: id.Username,
	})

	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Verify checks the signature and expiry of tokenString. It returns
// ErrTokenExpired for a well-signed token past its expiry and
// ErrInvalidToken for everything else.
func (t *Tokens) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
