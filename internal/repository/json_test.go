package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ghaggin/taskboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func Test_jsonRepo_AddUser(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	r := NewMemory(zap.NewNop())

	alice := &model.User{Username: "alice", PasswordHash: "h1"}
	require.NoError(r.AddUser(ctx, alice))
	assert.Equal(1, alice.ID)

	bob := &model.User{Username: "bob", PasswordHash: "h2"}
	require.NoError(r.AddUser(ctx, bob))
	assert.Equal(2, bob.ID)

	err := r.AddUser(ctx, &model.User{Username: "alice", PasswordHash: "h3"})
	assert.ErrorIs(err, ErrConflict)

	u, err := r.GetUserByName(ctx, "alice")
	require.NoError(err)
	assert.Equal("h1", u.PasswordHash)

	_, err = r.GetUserByName(ctx, "carol")
	assert.ErrorIs(err, ErrNotFound)

	users, err := r.GetUsers(ctx)
	require.NoError(err)
	assert.Len(users, 2)
}

func Test_jsonRepo_ConcurrentAddUser(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	r := NewMemory(zap.NewNop())

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every name is registered twice
			errs <- r.AddUser(ctx, &model.User{Username: fmt.Sprintf("user%d", i%50)})
		}(i)
	}
	wg.Wait()
	close(errs)

	conflicts := 0
	for err := range errs {
		if err != nil {
			require.ErrorIs(err, ErrConflict)
			conflicts++
		}
	}
	require.Equal(50, conflicts)

	users, err := r.GetUsers(ctx)
	require.NoError(err)
	seen := map[int]bool{}
	for _, u := range users {
		require.False(seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}
	require.Len(seen, 50)
}

func Test_jsonRepo_Persist(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "users.json")

	r := newJSONRepo(path, zap.NewNop())
	require.NoError(r.AddUser(ctx, &model.User{Username: "alice", PasswordHash: "h"}))
	require.NoError(r.stop(ctx))

	reloaded := newJSONRepo(path, zap.NewNop())
	require.NoError(reloaded.readfile())

	u, err := reloaded.GetUserByName(ctx, "alice")
	require.NoError(err)
	require.Equal(1, u.ID)
}

func Test_jsonRepo_readfileDir(t *testing.T) {
	r := newJSONRepo(t.TempDir(), zap.NewNop())
	assert.ErrorIs(t, r.readfile(), errTableFileIsDir)
}
