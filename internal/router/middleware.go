package router

import (
	"fmt"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/keshon/hotslash/pkg/command"
)

// Middleware wraps a handler (e.g. logging, recovery).
type Middleware func(command.Handler) command.Handler

// Apply applies middlewares in order; the first in the list is the outermost.
func Apply(h command.Handler, mws ...Middleware) command.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// WithRecover turns a handler panic into an error.
func WithRecover() Middleware {
	return func(next command.Handler) command.Handler {
		return func(c *command.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("handler panic: %v\n%s", r, debug.Stack())
				}
			}()
			return next(c)
		}
	}
}

// WithLogging logs every handled interaction with its outcome.
func WithLogging(logger log.FieldLogger) Middleware {
	return func(next command.Handler) command.Handler {
		return func(c *command.Context) error {
			start := time.Now()
			err := next(c)

			ev := c.Interaction.Event
			entry := logger.WithFields(log.Fields{
				"command": ev.Name,
				"kind":    ev.Kind.String(),
				"guild":   ev.GuildID,
				"took":    time.Since(start).Round(time.Millisecond),
			})
			if ev.Caller != nil {
				entry = entry.WithField("user", ev.Caller.Username)
			}
			if err != nil {
				entry.WithError(err).Error("Command failed")
				return err
			}
			entry.Debug("Command handled")
			return nil
		}
	}
}
