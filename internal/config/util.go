package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	errConfigIsDir = errors.New("config file is dir")
)

// loadFile overlays the YAML file onto c. A missing file is not an error.
func loadFile(path string, c *Config) error {
	if path == "" {
		return nil
	}

	filename, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	finfo, err := os.Stat(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if finfo.IsDir() {
		return errConfigIsDir
	}

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(yamlFile, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
