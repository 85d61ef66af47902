// Package build compiles a command source tree, collects the command files
// and hands the result to a deployment adapter.
package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/keshon/hotslash/internal/modgraph"
	"github.com/keshon/hotslash/pkg/util"
)

// Options configures Run.
type Options struct {
	SrcDir  string
	OutDir  string
	DistDir string
	Workers int

	Transformer modgraph.Transformer
	Logger      log.FieldLogger
}

// Builder is what an adapter receives: where the compiled tree lives,
// where to put deployable output, and the collected commands.
type Builder struct {
	OutDir   string
	DistDir  string
	Commands CommandList
	Log      log.FieldLogger
}

// Run compiles every source file of SrcDir into OutDir, collects the
// command files and calls adapter. A nil adapter stops after collecting.
func Run(ctx context.Context, opts Options, adapter Adapter) (*Builder, error) {
	if opts.Transformer == nil {
		opts.Transformer = modgraph.GoTransformer{}
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}
	logger := opts.Logger.WithField("component", "build")
	start := time.Now()

	if opts.OutDir == "" || filepath.Clean(opts.OutDir) == filepath.Clean(opts.SrcDir) {
		return nil, fmt.Errorf("build: output dir %q must differ from source dir %q", opts.OutDir, opts.SrcDir)
	}

	sources, err := listSources(opts.SrcDir)
	if err != nil {
		return nil, fmt.Errorf("build: list %s: %w", opts.SrcDir, err)
	}
	if err := os.RemoveAll(opts.OutDir); err != nil {
		return nil, fmt.Errorf("build: clean %s: %w", opts.OutDir, err)
	}

	src := os.DirFS(opts.SrcDir)
	err = util.Parallel(ctx, sources, opts.Workers, func(ctx context.Context, name string) error {
		code, err := opts.Transformer.Transform(src, name)
		if err != nil {
			return err
		}
		dst := filepath.Join(opts.OutDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dst, []byte(code), 0o644)
	})
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{"files": len(sources), "out": opts.OutDir}).Info("Sources compiled")

	list, err := Collect(opts.OutDir)
	if err != nil {
		return nil, fmt.Errorf("build: collect: %w", err)
	}
	logger.WithFields(log.Fields{
		"chat":    len(list.ChatInput),
		"user":    len(list.User),
		"message": len(list.Message),
	}).Info("Commands collected")

	b := &Builder{
		OutDir:   opts.OutDir,
		DistDir:  opts.DistDir,
		Commands: list,
		Log:      logger,
	}
	if adapter != nil {
		if err := adapter.Adapt(ctx, b); err != nil {
			return nil, fmt.Errorf("build: adapter: %w", err)
		}
	}
	logger.WithField("took", time.Since(start).Round(time.Millisecond)).Info("Build finished")
	return b, nil
}

// listSources returns every source file below dir as a slash separated
// path relative to dir.
func listSources(dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(os.DirFS(dir), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if isSource(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func skipDir(name string) bool {
	return name[0] == '.' || name == "node_modules" || name == "vendor"
}
