// Package storage keeps uploaded task attachments. Files are renamed on
// the way in and served back unmodified.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/ghaggin/taskboard/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FileStore saves an upload and serves it back under its stored name.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	http.Handler
}

type Params struct {
	fx.In

	Config *config.Config
	Log    *zap.Logger
}

func New(p Params) (FileStore, error) {
	switch p.Config.Uploads.Backend {
	case "", "disk":
		return NewDisk(p.Config.Uploads.Dir, p.Log)
	case "s3":
		return NewS3(context.Background(), p.Config.Uploads.S3, p.Log)
	default:
		return nil, fmt.Errorf("unknown uploads backend %q", p.Config.Uploads.Backend)
	}
}

// storedName prefixes the base name of the upload with a millisecond
// timestamp.
func storedName(now time.Time, originalName string) string {
	base := path.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}
