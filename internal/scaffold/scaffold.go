// Package scaffold creates a new project from the embedded template.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

//go:embed all:_template
var template embed.FS

const templateRoot = "_template"

// Template returns the project template.
func Template() fs.FS {
	sub, err := fs.Sub(template, templateRoot)
	if err != nil {
		panic(err)
	}
	return sub
}

// ErrExists is returned when a template file is already present and
// overwriting was not requested.
var ErrExists = errors.New("scaffold: file already exists")

// Init writes the template into dir and returns the files it created, as
// slash separated paths. Existing files are left alone unless force is set.
// Nothing is written when a conflict is found without force.
func Init(dir string, force bool, logger log.FieldLogger) ([]string, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	tmpl := Template()

	var files []string
	err := fs.WalkDir(tmpl, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !force {
		for _, name := range files {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err == nil {
				return nil, fmt.Errorf("%w: %s", ErrExists, name)
			}
		}
	}

	for _, name := range files {
		data, err := fs.ReadFile(tmpl, name)
		if err != nil {
			return nil, err
		}
		dst := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return nil, err
		}
		logger.WithField("file", path.Join(filepath.ToSlash(dir), name)).Debug("Created")
	}
	logger.WithFields(log.Fields{"dir": dir, "files": len(files)}).Info("Project created")
	return files, nil
}
