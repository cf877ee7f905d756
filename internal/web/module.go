package web

import (
	"github.com/ghaggin/taskboard/internal/template"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		New,
		template.New,
	),
)
