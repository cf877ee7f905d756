package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ghaggin/taskboard/internal/config"
	"github.com/ghaggin/taskboard/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestIssuer(t *testing.T) (*Issuer, repository.Repository) {
	t.Helper()

	repo := repository.NewMemory(zap.NewNop())
	creds, err := NewCredentialStore(repo, bcrypt.MinCost)
	require.NoError(t, err)

	i, err := NewIssuer(IssuerParams{
		Creds:  creds,
		Tokens: NewTokens([]byte("test-secret"), time.Hour),
		Log:    zap.NewNop(),
	})
	require.NoError(t, err)
	return i, repo
}

func TestIssuer_RegisterThenLogin(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	i, repo := newTestIssuer(t)

	s, err := i.Register(ctx, "alice", "Secret1!")
	require.NoError(err)
	assert.Equal("alice", s.Identity.Username)
	assert.Equal(1, s.Identity.UserID)

	claims, err := i.tokens.Verify(s.Token)
	require.NoError(err)
	assert.Equal(s.Identity, claims.Identity())

	// the raw password is never stored
	u, err := repo.GetUserByName(ctx, "alice")
	require.NoError(err)
	assert.NotEqual("Secret1!", u.PasswordHash)
	assert.False(strings.Contains(u.PasswordHash, "Secret1!"))

	s2, err := i.Login(ctx, "alice", "Secret1!")
	require.NoError(err)
	assert.Equal(s.Identity, s2.Identity)
}

func TestIssuer_RegisterConflict(t *testing.T) {
	ctx := context.Background()
	i, _ := newTestIssuer(t)

	_, err := i.Register(ctx, "alice", "Secret1!")
	require.NoError(t, err)

	s, err := i.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Nil(t, s)
}

func TestIssuer_LoginFailuresIndistinguishable(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	i, _ := newTestIssuer(t)

	_, err := i.Register(ctx, "alice", "Secret1!")
	require.NoError(err)

	_, wrongPassword := i.Login(ctx, "alice", "nope")
	_, unknownUser := i.Login(ctx, "mallory", "Secret1!")

	require.ErrorIs(wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(unknownUser, ErrInvalidCredentials)
	require.Equal(wrongPassword.Error(), unknownUser.Error())
}

func TestIssuer_Seed(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	i, repo := newTestIssuer(t)

	seed := []config.SeedUser{{Username: "admin", Password: "admin"}}
	require.NoError(i.Seed(ctx, seed))
	// seeding twice is harmless
	require.NoError(i.Seed(ctx, seed))

	users, err := repo.GetUsers(ctx)
	require.NoError(err)
	require.Len(users, 1)

	_, err = i.Login(ctx, "admin", "admin")
	require.NoError(err)
}

func TestCredentialStore_FindByUsername(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory(zap.NewNop())
	creds, err := NewCredentialStore(repo, bcrypt.MinCost)
	require.NoError(t, err)

	_, found, err := creds.FindByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = creds.Insert(ctx, "bob", "pw")
	require.NoError(t, err)

	u, found, err := creds.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "bob", u.Username)
}
