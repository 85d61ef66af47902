// Package registry holds the live handler table and the remote catalog
// projection, and keeps the remote side in sync with debounced bulk
// overwrites.
package registry

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/keshon/hotslash/pkg/command"
)

// DefaultDebounce is the quiet period before a sync is sent.
const DefaultDebounce = 250 * time.Millisecond

// Remote replaces the whole remote command catalog in one call.
type Remote interface {
	BulkOverwrite(ctx context.Context, payloads []*Payload) error
}

// RemoteSyncError is returned when the bulk overwrite fails.
type RemoteSyncError struct {
	Commands int
	Err      error
}

func (e *RemoteSyncError) Error() string {
	return fmt.Sprintf("registry: sync of %d commands failed: %v", e.Commands, e.Err)
}

func (e *RemoteSyncError) Unwrap() error { return e.Err }

// Options configures a Registry. A nil Remote disables syncing.
type Options struct {
	Remote   Remote
	Debounce time.Duration
	Clock    clock.Clock
	Logger   log.FieldLogger
}

// Registry maps handler keys to handlers and base keys to payloads.
type Registry struct {
	mu       sync.RWMutex
	handlers map[command.HandlerKey]command.Handler
	payloads map[string]*Payload

	remote   Remote
	debounce *debouncer
	log      log.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an empty registry.
func New(opts Options) *Registry {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		handlers: make(map[command.HandlerKey]command.Handler),
		payloads: make(map[string]*Payload),
		remote:   opts.Remote,
		log:      opts.Logger.WithField("component", "registry"),
		ctx:      ctx,
		cancel:   cancel,
	}
	r.debounce = newDebouncer(opts.Clock, opts.Debounce, r.scheduledSync)
	return r
}

// Upsert validates export, replaces every handler and the cached payload of
// the command it names and schedules a sync when the payload changed. Both
// are replaced even when the payload is unchanged.
func (r *Registry) Upsert(kind command.Kind, export any) (bool, error) {
	def, err := command.Normalize(kind, export)
	if err != nil {
		return false, err
	}

	base := def.Base()
	payload := BuildPayload(def)

	changed := r.replace(def, payload)
	if changed {
		r.log.WithField("command", base).Info("Command changed, sync scheduled")
		r.scheduleSync()
	} else {
		r.log.WithField("command", base).Debug("Command handlers replaced")
	}
	return changed, nil
}

// replace swaps the handlers and the cached payload of def and reports
// whether the payload differs from the cached one.
func (r *Registry) replace(def *command.Definition, payload *Payload) bool {
	base := def.Base()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked(base)
	for _, e := range command.Keys(def) {
		r.handlers[e.Key] = e.Handler
	}
	changed := !payload.Equal(r.payloads[base])
	r.payloads[base] = payload
	return changed
}

// Remove drops every handler and the payload of a command. It does not
// schedule a sync: the command is retracted remotely by the next one.
func (r *Registry) Remove(kind command.Kind, name string) {
	base := command.BaseKey(kind, name)

	r.mu.Lock()
	r.purgeLocked(base)
	delete(r.payloads, base)
	r.mu.Unlock()

	r.log.WithField("command", base).Info("Command removed")
}

func (r *Registry) purgeLocked(base string) {
	for k := range r.handlers {
		if k.Within(base) {
			delete(r.handlers, k)
		}
	}
}

// Resolve returns the handler an event routes to.
func (r *Registry) Resolve(ev *command.Event) (command.Handler, command.HandlerKey, bool) {
	key := command.KeyFor(ev)
	if key == "" {
		return nil, key, false
	}
	r.mu.RLock()
	h, ok := r.handlers[key]
	r.mu.RUnlock()
	return h, key, ok
}

// Keys lists the installed handler keys in order.
func (r *Registry) Keys() []command.HandlerKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.handlers))
}

// Payloads returns a snapshot of the catalog sorted by base key.
func (r *Registry) Payloads() []*Payload {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Payload, 0, len(r.payloads))
	for _, base := range slices.Sorted(maps.Keys(r.payloads)) {
		out = append(out, r.payloads[base])
	}
	return out
}

// Sync sends the current catalog as a full replacement.
func (r *Registry) Sync(ctx context.Context) error {
	if r.remote == nil {
		return nil
	}
	payloads := r.Payloads()
	logger := r.log.WithFields(log.Fields{"batch": uuid.NewString(), "commands": len(payloads)})
	logger.Debug(spew.Sdump(payloads))

	start := time.Now()
	if err := r.remote.BulkOverwrite(ctx, payloads); err != nil {
		return &RemoteSyncError{Commands: len(payloads), Err: err}
	}
	logger.WithField("took", time.Since(start).Round(time.Millisecond)).Info("Commands synced")
	return nil
}

// Flush cancels a pending debounced sync and syncs now.
func (r *Registry) Flush(ctx context.Context) error {
	r.debounce.Stop()
	return r.Sync(ctx)
}

// Close cancels a pending sync and any sync in flight.
func (r *Registry) Close() {
	r.debounce.Stop()
	r.cancel()
}

func (r *Registry) scheduleSync() {
	if r.remote == nil {
		return
	}
	r.debounce.Trigger()
}

func (r *Registry) scheduledSync() {
	if r.ctx.Err() != nil {
		return
	}
	if err := r.Sync(r.ctx); err != nil {
		r.log.WithError(err).Error("Failed to sync commands")
	}
}
