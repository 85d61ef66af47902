// Package loader connects the module graph to the registry: it imports a
// command file and installs or removes the command it exports.
package loader

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/keshon/hotslash/internal/modgraph"
	"github.com/keshon/hotslash/internal/registry"
	"github.com/keshon/hotslash/pkg/command"
)

// Outcome describes what Load did.
type Outcome int

const (
	// Unchanged means the compiled code matched the cache and nothing was
	// re-registered.
	Unchanged Outcome = iota
	// Replaced means handlers were replaced but the remote payload is the same.
	Replaced
	// Changed means the remote payload changed and a sync was scheduled.
	Changed
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Replaced:
		return "replaced"
	case Changed:
		return "changed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Loader imports command files from a graph into a registry.
type Loader struct {
	graph    *modgraph.Graph
	registry *registry.Registry
	log      log.FieldLogger
}

// New creates a loader.
func New(graph *modgraph.Graph, reg *registry.Registry, logger log.FieldLogger) *Loader {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Loader{graph: graph, registry: reg, log: logger.WithField("component", "loader")}
}

// Load imports name and upserts the command it exports. With skipCached a
// cache hit returns Unchanged without touching the registry.
func (l *Loader) Load(ctx context.Context, kind command.Kind, name string, skipCached bool) (Outcome, error) {
	res, err := l.graph.ImportEntry(ctx, name)
	if err != nil {
		return Unchanged, err
	}
	if res.FromCache && skipCached {
		l.log.WithField("file", name).Debug("Compiled output unchanged")
		return Unchanged, nil
	}

	export, err := exported(name, res.Exports)
	if err != nil {
		return Unchanged, err
	}
	changed, err := l.registry.Upsert(kind, export)
	if err != nil {
		return Unchanged, err
	}
	if changed {
		return Changed, nil
	}
	return Replaced, nil
}

// Unload removes the command the last loaded version of name exported. It
// reports false when name was never loaded or exported nothing usable.
func (l *Loader) Unload(kind command.Kind, name string) bool {
	mod, ok := l.graph.Cached(name)
	if !ok {
		return false
	}
	export, err := exported(name, mod.Exports)
	if err != nil {
		return false
	}
	def, err := command.Normalize(kind, export)
	if err != nil {
		return false
	}
	l.registry.Remove(kind, def.Name)
	return true
}

// LoadAll loads every file of files. It stops at the first error.
func (l *Loader) LoadAll(ctx context.Context, kind command.Kind, files []string) error {
	for _, name := range files {
		if _, err := l.Load(ctx, kind, name, false); err != nil {
			return err
		}
	}
	return nil
}

func exported(name string, exports modgraph.Exports) (any, error) {
	v, ok := exports[command.ExportName]
	if !ok || !v.IsValid() || !v.CanInterface() {
		return nil, &command.RegistrationError{
			Reason: fmt.Sprintf("%s does not export %s", name, command.ExportName),
		}
	}
	return v.Interface(), nil
}
