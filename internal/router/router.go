// Package router dispatches inbound interactions to registered handlers,
// either over a streaming transport or as a single request/response.
package router

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/keshon/hotslash/pkg/command"
)

var (
	// ErrNoReply is returned by HandleOnce when the handler returned
	// without replying.
	ErrNoReply = errors.New("router: handler returned without replying")
	// ErrReplyTimeout is returned by HandleOnce when the context ends
	// before the handler replies.
	ErrReplyTimeout = errors.New("router: handler did not reply in time")
	// ErrUnknownCommand is returned by HandleOnce when no handler matches.
	ErrUnknownCommand = errors.New("router: unknown command")
	// ErrAlreadyReplied is returned to a handler that replies twice to a
	// one-shot interaction.
	ErrAlreadyReplied = errors.New("router: interaction already replied")
)

// ResponseType values match Discord interaction callback types.
type ResponseType int

const (
	ResponsePong               ResponseType = 1
	ResponseMessage            ResponseType = 4
	ResponseAutocompleteResult ResponseType = 8
)

// Response is what a handler sends back.
type Response struct {
	Type    ResponseType
	Reply   *command.Reply
	Choices []command.Choice
}

// Responder delivers responses for a streaming transport.
type Responder interface {
	Respond(ctx context.Context, ev *command.Event, resp *Response) error
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, ev *command.Event, resp *Response) error

func (f ResponderFunc) Respond(ctx context.Context, ev *command.Event, resp *Response) error {
	return f(ctx, ev, resp)
}

// Resolver finds the handler an event routes to.
type Resolver interface {
	Resolve(ev *command.Event) (command.Handler, command.HandlerKey, bool)
}

// Identity fetches the bot's own user.
type Identity func(ctx context.Context) (*command.User, error)

// Options configures a Router.
type Options struct {
	Resolver   Resolver
	Identity   Identity
	Middleware []Middleware
	Logger     log.FieldLogger
}

// Router turns events into handler calls.
type Router struct {
	resolver   Resolver
	identity   Identity
	middleware []Middleware
	log        log.FieldLogger
}

// New creates a router. Without explicit middleware every handler is
// wrapped with WithRecover and WithLogging.
func New(opts Options) *Router {
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}
	logger := opts.Logger.WithField("component", "router")
	if opts.Middleware == nil {
		opts.Middleware = []Middleware{WithLogging(logger), WithRecover()}
	}
	return &Router{
		resolver:   opts.Resolver,
		identity:   opts.Identity,
		middleware: opts.Middleware,
		log:        logger,
	}
}

// Handle serves ev on a streaming transport. Replies go through resp as
// the handler produces them; there is no handler deadline.
func (r *Router) Handle(ctx context.Context, ev *command.Event, resp Responder) error {
	if ev.Type == command.InteractionPing {
		return resp.Respond(ctx, ev, &Response{Type: ResponsePong})
	}

	h, ok := r.lookup(ev)
	if !ok {
		return nil
	}

	c := r.context(ctx, ev, func(res *Response) error {
		return resp.Respond(ctx, ev, res)
	})
	return Apply(h, r.middleware...)(c)
}

// HandleOnce serves ev as a single request and returns the first reply.
// Later replies fail with ErrAlreadyReplied.
func (r *Router) HandleOnce(ctx context.Context, ev *command.Event) (*Response, error) {
	if ev.Type == command.InteractionPing {
		return &Response{Type: ResponsePong}, nil
	}

	h, ok := r.lookup(ev)
	if !ok {
		return nil, ErrUnknownCommand
	}

	replies := make(chan *Response, 1)
	c := r.context(ctx, ev, func(res *Response) error {
		select {
		case replies <- res:
			return nil
		default:
			return ErrAlreadyReplied
		}
	})

	done := make(chan error, 1)
	go func() {
		done <- Apply(h, r.middleware...)(c)
	}()

	select {
	case res := <-replies:
		return res, nil
	case err := <-done:
		select {
		case res := <-replies:
			return res, nil
		default:
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrNoReply
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrReplyTimeout, ctx.Err())
	}
}

func (r *Router) lookup(ev *command.Event) (command.Handler, bool) {
	h, key, ok := r.resolver.Resolve(ev)
	if !ok {
		r.log.WithFields(log.Fields{"command": ev.Name, "key": key}).Warn("Unknown command")
		return nil, false
	}
	return h, true
}

func (r *Router) context(ctx context.Context, ev *command.Event, send func(*Response) error) *command.Context {
	in := command.NewInteraction(ev,
		func(reply command.Reply) error {
			return send(&Response{Type: ResponseMessage, Reply: &reply})
		},
		func(choices []command.Choice) error {
			return send(&Response{Type: ResponseAutocompleteResult, Choices: choices})
		},
	)
	return command.NewContext(ctx, in, r.identity)
}
