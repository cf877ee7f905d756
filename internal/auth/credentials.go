package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghaggin/taskboard/internal/config"
	"github.com/ghaggin/taskboard/internal/model"
	"github.com/ghaggin/taskboard/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CredentialStore keeps users with their salted password hashes.
type CredentialStore struct {
	repo repository.Repository
	cost int

	// compared against when the username is unknown, so a miss costs
	// one bcrypt round like a wrong password does
	dummyHash string
}

func NewCredentialStore(repo repository.Repository, cost int) (*CredentialStore, error) {
	dummy, err := hashPassword("taskboard-dummy-password", cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &CredentialStore{
		repo:      repo,
		cost:      cost,
		dummyHash: dummy,
	}, nil
}

func NewCredentialStoreFromConfig(repo repository.Repository, cfg *config.Config) (*CredentialStore, error) {
	return NewCredentialStore(repo, cfg.Auth.BcryptCost)
}

func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*model.User, bool, error) {
	u, err := s.repo.GetUserByName(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// Insert hashes rawPassword and stores the user. It returns
// repository.ErrConflict when the username is taken.
func (s *CredentialStore) Insert(ctx context.Context, username, rawPassword string) (*model.User, error) {
	if _, found, err := s.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if found {
		return nil, repository.ErrConflict
	}

	hash, err := hashPassword(rawPassword, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{Username: username, PasswordHash: hash}
	if err := s.repo.AddUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns ErrInvalidCredentials both for unknown users and
// wrong passwords.
func (s *CredentialStore) Authenticate(ctx context.Context, username, rawPassword string) (*model.User, error) {
	u, found, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	hash := s.dummyHash
	if found {
		hash = u.PasswordHash
	}

	ok, err := checkPassword(hash, rawPassword)
	if err != nil {
		return nil, err
	}
	if !found || !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
