package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ghaggin/taskboard/internal/model"
)

type memTasks struct {
	mu     sync.Mutex
	tasks  []model.Task
	nextID int
	now    func() time.Time
}

// NewTasks returns an unpersisted TaskRepository. Tasks are kept in
// insertion order and ids are never reused.
func NewTasks() TaskRepository {
	return &memTasks{nextID: 1, now: time.Now}
}

func (m *memTasks) List(_ context.Context, filter model.TaskFilter) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Task, 0, len(m.tasks))
	for i := range m.tasks {
		if filter.Match(&m.tasks[i]) {
			out = append(out, m.tasks[i])
		}
	}
	return out, nil
}

func (m *memTasks) Get(_ context.Context, id int) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	t := m.tasks[i]
	return &t, nil
}

func (m *memTasks) Insert(_ context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = m.nextID
	m.nextID++
	task.Completed = false
	task.CreatedAt = m.now().UTC()

	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *memTasks) Update(_ context.Context, id int, patch model.TaskPatch) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	t := &m.tasks[i]
	if patch.Title != nil && *patch.Title != "" {
		t.Title = *patch.Title
	}
	if patch.DueDate != nil && *patch.DueDate != "" {
		t.DueDate = patch.DueDate
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Attachment != nil {
		t.Attachment = patch.Attachment
	}

	out := *t
	return &out, nil
}

func (m *memTasks) Toggle(_ context.Context, id int) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	m.tasks[i].Completed = !m.tasks[i].Completed

	out := m.tasks[i]
	return &out, nil
}

func (m *memTasks) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return ErrNotFound
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return nil
}

func (m *memTasks) index(id int) int {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
