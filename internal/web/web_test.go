package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghaggin/taskboard/internal/middleware"
	"github.com/ghaggin/taskboard/internal/model"
	"github.com/ghaggin/taskboard/internal/repository"
	"github.com/ghaggin/taskboard/internal/storage"
	"github.com/ghaggin/taskboard/internal/template"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSite(t *testing.T) (http.Handler, repository.TaskRepository) {
	t.Helper()

	sessions, err := middleware.NewSessionManager()
	require.NoError(t, err)
	files, err := storage.NewDisk(filepath.Join(t.TempDir(), "uploads"), zap.NewNop())
	require.NoError(t, err)
	tasks := repository.NewTasks()

	h := NewHandler(Deps{
		Log:      zap.NewNop(),
		Sessions: sessions,
		Tasks:    tasks,
		Files:    files,
		Renderer: template.NewFromDir(filepath.Join("..", "..", "web", "tmpl")),
	})
	return h, tasks
}

func postForm(h http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPages_AddAndList(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	h, tasks := newTestSite(t)

	rr := postForm(h, "/tasks", url.Values{"title": {"water plants"}, "dueDate": {"2024-06-01"}})
	assert.Equal(http.StatusSeeOther, rr.Code)
	assert.Equal("/", rr.Header().Get("Location"))
	cookies := rr.Result().Cookies()
	require.NotEmpty(cookies)

	list, err := tasks.List(context.Background(), model.FilterAll)
	require.NoError(err)
	require.Len(list, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	page := httptest.NewRecorder()
	h.ServeHTTP(page, req)

	assert.Equal(http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(body, "water plants")
	assert.Contains(body, "2024-06-01")
	assert.Contains(body, "Task added")
}

func TestPages_ToggleFilterDelete(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	h, tasks := newTestSite(t)
	require.NoError(tasks.Insert(ctx, &model.Task{Title: "first"}))
	require.NoError(tasks.Insert(ctx, &model.Task{Title: "second"}))

	rr := postForm(h, "/tasks/2/toggle", nil)
	assert.Equal(http.StatusSeeOther, rr.Code)

	apitest.New().
		Handler(h).
		Get("/").
		Query("filter", "completed").
		Expect(t).
		Status(http.StatusOK).
		Assert(func(res *http.Response, _ *http.Request) error {
			b, err := io.ReadAll(res.Body)
			require.NoError(err)
			assert.Contains(string(b), "second")
			assert.NotContains(string(b), "first")
			return nil
		}).
		End()

	rr = postForm(h, "/tasks/1/delete", nil)
	assert.Equal(http.StatusSeeOther, rr.Code)
	_, err := tasks.Get(ctx, 1)
	assert.ErrorIs(err, repository.ErrNotFound)

	// unknown ids still redirect
	assert.Equal(http.StatusSeeOther, postForm(h, "/tasks/99/toggle", nil).Code)
	assert.Equal(http.StatusSeeOther, postForm(h, "/tasks/99/delete", nil).Code)
}

func TestPages_Edit(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	h, tasks := newTestSite(t)
	require.NoError(tasks.Insert(ctx, &model.Task{Title: "draft"}))

	apitest.New().
		Handler(h).
		Get("/tasks/1/edit").
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(h).
		Get("/tasks/7/edit").
		Expect(t).
		Status(http.StatusNotFound).
		End()

	rr := postForm(h, "/tasks/1", url.Values{"title": {"final"}, "dueDate": {"2024-07-01"}})
	assert.Equal(http.StatusSeeOther, rr.Code)

	task, err := tasks.Get(ctx, 1)
	require.NoError(err)
	assert.Equal("final", task.Title)
	require.NotNil(task.DueDate)
	assert.Equal("2024-07-01", *task.DueDate)

	assert.Equal(http.StatusNotFound, postForm(h, "/tasks/7", url.Values{"title": {"x"}}).Code)
}

func TestPages_TitleRequired(t *testing.T) {
	h, tasks := newTestSite(t)

	rr := postForm(h, "/tasks", url.Values{"title": {""}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	list, err := tasks.List(context.Background(), model.FilterAll)
	require.NoError(t, err)
	assert.Empty(t, list)
}
