package auth

import (
	"context"
	"errors"
	"time"

	"github.com/ghaggin/taskboard/internal/config"
	"github.com/ghaggin/taskboard/internal/model"
	"github.com/ghaggin/taskboard/internal/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Session is the result of a successful login or registration.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  model.Identity
}

type Issuer struct {
	creds  *CredentialStore
	tokens *Tokens
	log    *zap.Logger
}

type IssuerParams struct {
	fx.In

	Creds  *CredentialStore
	Tokens *Tokens
	Log    *zap.Logger
}

func NewIssuer(p IssuerParams) (*Issuer, error) {
	return &Issuer{
		creds:  p.Creds,
		tokens: p.Tokens,
		log:    p.Log,
	}, nil
}

func (i *Issuer) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := i.creds.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			i.log.Info("login rejected", zap.String("username", username))
		}
		return nil, err
	}

	return i.issue(u)
}

// Register creates the user and logs it in.
func (i *Issuer) Register(ctx context.Context, username, password string) (*Session, error) {
	u, err := i.creds.Insert(ctx, username, password)
	if err != nil {
		return nil, err
	}

	i.log.Info("user registered", zap.String("username", u.Username), zap.Int("uid", u.ID))
	return i.issue(u)
}

func (i *Issuer) issue(u *model.User) (*Session, error) {
	id := model.Identity{UserID: u.ID, Username: u.Username}

	token, expiresAt, err := i.tokens.Sign(id)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  id,
	}, nil
}

// Seed registers the configured users, skipping names that already exist.
func (i *Issuer) Seed(ctx context.Context, users []config.SeedUser) error {
	for _, su := range users {
		_, err := i.creds.Insert(ctx, su.Username, su.Password)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return err
		}
		i.log.Info("seeded user", zap.String("username", su.Username))
	}
	return nil
}
