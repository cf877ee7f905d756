// Package web serves the server-rendered task pages. Forms post back and
// are redirected to the list, carrying a flash message in the session.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ghaggin/taskboard/internal/config"
	"github.com/ghaggin/taskboard/internal/middleware"
	"github.com/ghaggin/taskboard/internal/model"
	"github.com/ghaggin/taskboard/internal/repository"
	"github.com/ghaggin/taskboard/internal/storage"
	"github.com/ghaggin/taskboard/internal/template"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Site struct {
	log    *zap.Logger
	server *http.Server
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Config   *config.Config
	Sessions *middleware.SessionManager
	Tasks    repository.TaskRepository
	Files    storage.FileStore
	Renderer *template.Renderer
}

func New(p Params) (*Site, error) {
	return &Site{
		log: p.Log,
		server: &http.Server{
			Addr: fmt.Sprintf("%s:%d", p.Config.Server.Host, p.Config.Server.Port),
			Handler: NewHandler(Deps{
				Log:            p.Log,
				Sessions:       p.Sessions,
				Tasks:          p.Tasks,
				Files:          p.Files,
				Renderer:       p.Renderer,
				StaticDir:      p.Config.Web.StaticDir,
				MaxUploadBytes: p.Config.Uploads.MaxBytes,
			}),
		},
	}, nil
}

func RegisterHooks(lc fx.Lifecycle, s *Site) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.server.Shutdown,
	})
}

func (s *Site) Start(_ context.Context) error {
	go func() {
		s.log.Info("serving task pages", zap.String("addr", s.server.Addr))
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("error starting server", zap.Error(err))
		}
	}()
	return nil
}

type Deps struct {
	Log            *zap.Logger
	Sessions       *middleware.SessionManager
	Tasks          repository.TaskRepository
	Files          storage.FileStore
	Renderer       *template.Renderer
	StaticDir      string
	MaxUploadBytes int64
}

type pages struct {
	Deps
}

func NewHandler(d Deps) http.Handler {
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = config.Default().Uploads.MaxBytes
	}
	p := &pages{Deps: d}

	root := chi.NewRouter()
	root.Use(chimw.RequestID, middleware.AccessLog(d.Log), chimw.Recoverer)
	root.Use(d.Sessions.Wrap)

	root.Get("/", p.index)
	root.Post("/tasks", p.create)
	root.Get("/tasks/{id}/edit", p.edit)
	root.Post("/tasks/{id}", p.update)
	root.Post("/tasks/{id}/toggle", p.toggle)
	root.Post("/tasks/{id}/delete", p.remove)

	root.Handle("/uploads/*", http.StripPrefix("/uploads", d.Files))
	if d.StaticDir != "" {
		root.Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.Dir(d.StaticDir))))
	}

	return root
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, tmpl string, data *template.Data) {
	if err := p.Renderer.Render(w, tmpl, data); err != nil {
		p.Log.Error("render page", zap.String("template", tmpl), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (p *pages) back(w http.ResponseWriter, r *http.Request, flash string) {
	if flash != "" {
		p.Sessions.Flash(r.Context(), flash)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *pages) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	p.Log.Error("page request failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func taskID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (p *pages) index(w http.ResponseWriter, r *http.Request) {
	filter := model.ParseTaskFilter(r.URL.Query().Get("filter"))

	tasks, err := p.Tasks.List(r.Context(), filter)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.render(w, r, "index.html", &template.Data{
		PageTitle: "Tasks",
		Flash:     p.Sessions.PopFlash(r.Context()),
		Filter:    filter,
		Tasks:     tasks,
	})
}

func (p *pages) edit(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	task, err := p.Tasks.Get(r.Context(), id)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.render(w, r, "edit-task.html", &template.Data{
		PageTitle: "Edit task",
		Task:      task,
	})
}

// parseForm accepts both multipart and urlencoded bodies and returns the
// stored attachment name, if a file was sent.
func (p *pages) parseForm(w http.ResponseWriter, r *http.Request) (*string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, p.MaxUploadBytes)
	err := r.ParseMultipartForm(p.MaxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, r.ParseForm()
	}
	if err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("attachment")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name, err := p.Files.Save(r.Context(), header.Filename, file)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func (p *pages) create(w http.ResponseWriter, r *http.Request) {
	attachment, err := p.parseForm(w, r)
	if err != nil {
		p.back(w, r, "Could not read the form")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		p.back(w, r, "Title is required")
		return
	}

	task := &model.Task{Title: title, Attachment: attachment}
	if due := r.FormValue("dueDate"); due != "" {
		task.DueDate = &due
	}

	if err := p.Tasks.Insert(r.Context(), task); err != nil {
		p.fail(w, r, err)
		return
	}
	p.back(w, r, "Task added")
}

func (p *pages) update(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	if _, err := p.Tasks.Get(r.Context(), id); err != nil {
		p.fail(w, r, err)
		return
	}

	attachment, err := p.parseForm(w, r)
	if err != nil {
		p.back(w, r, "Could not read the form")
		return
	}

	title := r.FormValue("title")
	due := r.FormValue("dueDate")
	if _, err := p.Tasks.Update(r.Context(), id, model.TaskPatch{
		Title:      &title,
		DueDate:    &due,
		Attachment: attachment,
	}); err != nil {
		p.fail(w, r, err)
		return
	}
	p.back(w, r, "Task updated")
}

func (p *pages) toggle(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err == nil {
		_, err = p.Tasks.Toggle(r.Context(), id)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		p.fail(w, r, err)
		return
	}
	p.back(w, r, "")
}

func (p *pages) remove(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err == nil {
		err = p.Tasks.Delete(r.Context(), id)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		p.fail(w, r, err)
		return
	}
	p.back(w, r, "Task deleted")
}
