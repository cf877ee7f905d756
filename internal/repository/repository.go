package repository

import (
	"context"
	"errors"

	"github.com/ghaggin/taskboard/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Repository holds registered users. Usernames are unique.
type Repository interface {
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	AddUser(ctx context.Context, user *model.User) error
	GetUsers(ctx context.Context) ([]model.User, error)
}

type TaskRepository interface {
	List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	Get(ctx context.Context, id int) (*model.Task, error)
	Insert(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, id int, patch model.TaskPatch) (*model.Task, error)
	Toggle(ctx context.Context, id int) (*model.Task, error)
	Delete(ctx context.Context, id int) error
}
