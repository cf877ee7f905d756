package main

import (
	"flag"

	"github.com/ghaggin/taskboard/internal/api"
	"github.com/ghaggin/taskboard/internal/auth"
	"github.com/ghaggin/taskboard/internal/config"
	"github.com/ghaggin/taskboard/internal/middleware"
	"github.com/ghaggin/taskboard/internal/repository"
	"github.com/ghaggin/taskboard/internal/storage"
	"github.com/ghaggin/taskboard/internal/web"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	var mode = flag.String("mode", string(config.ModeAPI), "one of api, open or ssr")
	var configPath = flag.String("config", "config/config.yaml", "path to the yaml config file")
	flag.Parse()

	deps := fx.Options(
		fx.Supply(
			config.Mode(*mode),
			config.Path(*configPath),
		),
		fx.Provide(
			newLogger,
			config.New,
			repository.NewJSON,
			repository.NewTasks,
			storage.New,
		),
	)

	var app *fx.App
	switch config.Mode(*mode) {
	case config.ModeAPI:
		app = fx.New(
			deps,
			auth.Module,
			fx.Provide(middleware.NewGate),
			api.Module,
			fx.Invoke(api.RegisterHooks),
		)
	case config.ModeOpen:
		app = fx.New(
			deps,
			api.Module,
			fx.Invoke(api.RegisterHooks),
		)
	case config.ModeSSR:
		app = fx.New(
			deps,
			fx.Provide(middleware.NewSessionManager),
			web.Module,
			fx.Invoke(web.RegisterHooks),
		)
	default:
		panic("unrecognized mode")
	}

	app.Run()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Log.Production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
