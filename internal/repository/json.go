package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/ghaggin/taskboard/internal/config"
	"github.com/ghaggin/taskboard/internal/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	errTableFileIsDir = errors.New("table file is dir")
)

type Data struct {
	Users []model.User `json:"users"`
}

type jsonRepo struct {
	path string
	log  *zap.Logger

	mu   sync.Mutex
	data *Data
}

type jsonParams struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Log    *zap.Logger
}

func NewJSON(p jsonParams) (Repository, error) {
	r := newJSONRepo(p.Config.JSONRepo.Path, p.Log)
	if r.path == "" {
		return r, nil
	}

	err := r.readfile()
	if err != nil {
		// only log, data will be empty and will overwrite when
		// the service is stopped
		r.log.Warn("failed reading json repo data file", zap.Error(err))
	}

	p.LC.Append(fx.Hook{
		OnStop: r.stop,
	})

	return r, nil
}

// NewMemory returns a Repository that is never written to disk.
func NewMemory(log *zap.Logger) Repository {
	return newJSONRepo("", log)
}

func newJSONRepo(path string, log *zap.Logger) *jsonRepo {
	return &jsonRepo{
		path: path,
		log:  log,
		data: &Data{},
	}
}

func (r *jsonRepo) stop(_ context.Context) error {
	return r.writefile()
}

func (r *jsonRepo) readfile() error {
	finfo, err := os.Stat(r.path)
	if err != nil {
		return err
	}

	if finfo.IsDir() {
		return errTableFileIsDir
	}

	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	return json.NewDecoder(f).Decode(&r.data)
}

func (r *jsonRepo) writefile() error {
	r.mu.Lock()
	b, err := json.MarshalIndent(r.data, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(b)
	return err
}

func (r *jsonRepo) GetUserByName(_ context.Context, name string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.data.Users {
		if u.Username == name {
			return &u, nil
		}
	}

	return nil, ErrNotFound
}

// AddUser assigns user.ID. Users are never deleted, so the last id + 1 is
// never a reused id.
func (r *jsonRepo) AddUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.data.Users {
		if u.Username == user.Username {
			return ErrConflict
		}
	}

	user.ID = 1
	l := len(r.data.Users)
	if l > 0 {
		user.ID = r.data.Users[l-1].ID + 1
	}

	r.data.Users = append(r.data.Users, *user)
	return nil
}

func (r *jsonRepo) GetUsers(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]model.User, len(r.data.Users))
	copy(users, r.data.Users)
	return users, nil
}
