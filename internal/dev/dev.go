// Package dev runs commands from source with hot reload: the source tree is
// watched, changed files are re-imported through the module graph, and the
// registry keeps the remote catalog in sync.
package dev

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/keshon/hotslash/internal/build"
	"github.com/keshon/hotslash/internal/loader"
	"github.com/keshon/hotslash/internal/router"
	"github.com/keshon/hotslash/pkg/command"
)

// Gateway is the streaming connection interactions arrive on.
type Gateway interface {
	Open(ctx context.Context) error
	Close() error
	OnInteraction(fn func(ev *command.Event, resp router.Responder)) func()
}

// Options configures a Runtime.
type Options struct {
	SrcDir  string
	Settle  time.Duration
	Gateway Gateway
	Loader  *loader.Loader
	Router  *router.Router
	Logger  log.FieldLogger
}

// Runtime ties the watcher, the loader and the gateway together.
type Runtime struct {
	gateway Gateway
	loader  *loader.Loader
	router  *router.Router
	watcher *Watcher
	log     log.FieldLogger
}

// New creates a runtime watching the kind directories of SrcDir.
func New(opts Options) (*Runtime, error) {
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}
	w, err := NewWatcher(opts.SrcDir, build.SourceDirs, opts.Settle, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("dev: watcher: %w", err)
	}
	return &Runtime{
		gateway: opts.Gateway,
		loader:  opts.Loader,
		router:  opts.Router,
		watcher: w,
		log:     opts.Logger.WithField("component", "dev"),
	}, nil
}

// Run serves until ctx is done or a source file fails to compile or link.
func (r *Runtime) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.watcher.Run(ctx)
	})
	g.Go(func() error {
		return r.loop(ctx, r.watcher.Events())
	})
	if r.gateway != nil {
		g.Go(func() error {
			return r.serve(ctx)
		})
	}
	return g.Wait()
}

func (r *Runtime) serve(ctx context.Context) error {
	remove := r.gateway.OnInteraction(func(ev *command.Event, resp router.Responder) {
		if err := r.router.Handle(ctx, ev, resp); err != nil {
			r.log.WithError(err).WithField("command", ev.Name).Error("Interaction failed")
		}
	})
	defer remove()

	if err := r.gateway.Open(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return r.gateway.Close()
}

func (r *Runtime) loop(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := r.apply(ctx, ev); err != nil {
				return err
			}
		}
	}
}

// apply handles one settled change. Compile and link failures are
// returned; invalid commands and files that vanished are logged.
func (r *Runtime) apply(ctx context.Context, ev Event) error {
	logger := r.log.WithFields(log.Fields{"file": ev.Path, "op": ev.Op})

	kind, ok := build.KindOf(ev.Path)
	if !ok {
		logger.Debug("Ignoring file outside the command directories")
		return nil
	}

	if ev.Op == Unlink {
		if r.loader.Unload(kind, ev.Path) {
			logger.Info("Command unloaded")
		}
		return nil
	}

	start := time.Now()
	out, err := r.loader.Load(ctx, kind, ev.Path, ev.Op == Change)
	var regErr *command.RegistrationError
	switch {
	case err == nil:
	case errors.As(err, &regErr):
		logger.WithError(err).Warn("Command rejected")
		return nil
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("File vanished before it was loaded")
		return nil
	default:
		return err
	}

	logger.WithFields(log.Fields{
		"outcome": out,
		"took":    time.Since(start).Round(time.Microsecond),
	}).Info("Command loaded")
	return nil
}
