package modgraph

import (
	"fmt"
)

// CompileError reports a module that failed to parse or evaluate.
type CompileError struct {
	Path string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Path, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// LinkError reports an import that could not be resolved: an unknown or
// disallowed package, a missing local file, or a cycle.
type LinkError struct {
	Path      string
	Specifier string
	Err       error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s: import %q: %v", e.Path, e.Specifier, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }
