package template

import (
	"bytes"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/ghaggin/taskboard/internal/config"
	"github.com/ghaggin/taskboard/internal/model"
)

const (
	baseTemplate string = "base.html"
)

type Data struct {
	PageTitle string
	Flash     string
	Filter    model.TaskFilter
	Tasks     []model.Task
	Task      *model.Task
}

type Renderer struct {
	dir string
}

func New(cfg *config.Config) *Renderer {
	return &Renderer{dir: cfg.Web.TemplateDir}
}

func NewFromDir(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Render executes tmpl inside the base layout. Nothing is written to w if
// the template fails.
func (rd *Renderer) Render(w http.ResponseWriter, tmpl string, td any) error {
	t, err := template.ParseFiles(
		filepath.Join(rd.dir, tmpl),
		filepath.Join(rd.dir, baseTemplate),
	)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}

	err = t.ExecuteTemplate(buf, baseTemplate, td)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}
