package build

import "context"

// Adapter turns a compiled tree into something deployable.
type Adapter interface {
	Adapt(ctx context.Context, b *Builder) error
}

// AdapterFunc adapts a function to Adapter.
type AdapterFunc func(ctx context.Context, b *Builder) error

func (f AdapterFunc) Adapt(ctx context.Context, b *Builder) error { return f(ctx, b) }
