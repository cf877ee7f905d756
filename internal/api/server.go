package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ghaggin/taskboard/internal/auth"
	"github.com/ghaggin/taskboard/internal/config"
	"github.com/ghaggin/taskboard/internal/middleware"
	"github.com/ghaggin/taskboard/internal/repository"
	"github.com/ghaggin/taskboard/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	log    *zap.Logger
	server *http.Server
}

type Params struct {
	fx.In

	Log    *zap.Logger
	Config *config.Config
	Mode   config.Mode
	Tasks  repository.TaskRepository
	Files  storage.FileStore

	// absent in open mode
	Issuer *auth.Issuer      `optional:"true"`
	Gate   *middleware.Gate `optional:"true"`
}

func New(p Params) (*Server, error) {
	root, err := NewHandler(Deps{
		Log:            p.Log,
		Mode:           p.Mode,
		Issuer:         p.Issuer,
		Gate:           p.Gate,
		Tasks:          p.Tasks,
		Files:          p.Files,
		StaticDir:      p.Config.Web.StaticDir,
		MaxUploadBytes: p.Config.Uploads.MaxBytes,
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		log: p.Log,
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", p.Config.Server.Host, p.Config.Server.Port),
			Handler: root,
		},
	}, nil
}

// RegisterHooks should be invoked by fx
func RegisterHooks(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.server.Shutdown,
	})
}

func (s *Server) Start(_ context.Context) error {
	go func() {
		s.log.Info("serving task api", zap.String("addr", s.server.Addr))
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("error starting server", zap.Error(err))
		}
	}()
	return nil
}

type Deps struct {
	Log            *zap.Logger
	Mode           config.Mode
	Issuer         *auth.Issuer
	Gate           *middleware.Gate
	Tasks          repository.TaskRepository
	Files          storage.FileStore
	StaticDir      string
	MaxUploadBytes int64
}

type handler struct {
	log            *zap.Logger
	issuer         *auth.Issuer
	tasks          repository.TaskRepository
	files          storage.FileStore
	maxUploadBytes int64
}

// NewHandler builds the router for the api and open modes.
func NewHandler(d Deps) (http.Handler, error) {
	secured := d.Mode != config.ModeOpen
	if secured && (d.Issuer == nil || d.Gate == nil) {
		return nil, errors.New("api mode needs an issuer and a gate")
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = config.Default().Uploads.MaxBytes
	}

	h := &handler{
		log:            d.Log,
		issuer:         d.Issuer,
		tasks:          d.Tasks,
		files:          d.Files,
		maxUploadBytes: d.MaxUploadBytes,
	}

	root := chi.NewRouter()
	root.Use(chimw.RequestID, middleware.AccessLog(d.Log), chimw.Recoverer)

	root.Route("/api", func(r chi.Router) {
		// No Auth
		if secured {
			r.Post("/login", h.login)
			r.Post("/register", h.register)
			r.Post("/logout", h.logout)
		}

		// Auth
		r.Group(func(r chi.Router) {
			if secured {
				r.Use(d.Gate.RequireAuth)
				r.Get("/me", h.me)
			}
			r.Get("/tasks", h.listTasks)
			r.Post("/tasks", h.createTask)
			r.Get("/tasks/{id}", h.getTask)
			r.Put("/tasks/{id}", h.updateTask)
			r.Patch("/tasks/{id}/toggle", h.toggleTask)
			r.Delete("/tasks/{id}", h.deleteTask)
		})
	})

	root.Handle("/uploads/*", http.StripPrefix("/uploads", d.Files))
	if d.StaticDir != "" {
		root.Handle("/*", http.FileServer(http.Dir(d.StaticDir)))
	}

	return root, nil
}
