package storage

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

type diskStore struct {
	dir   string
	log   *zap.Logger
	files http.Handler
	now   func() time.Time
}

func NewDisk(dir string, log *zap.Logger) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &diskStore{
		dir:   dir,
		log:   log,
		files: http.FileServer(http.Dir(dir)),
		now:   time.Now,
	}, nil
}

func (d *diskStore) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	name := storedName(d.now(), originalName)

	f, err := os.OpenFile(filepath.Join(d.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return "", err
	}

	d.log.Debug("stored upload", zap.String("name", name), zap.Int64("bytes", n))
	return name, nil
}

func (d *diskStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.files.ServeHTTP(w, r)
}
