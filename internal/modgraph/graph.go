// Package modgraph loads command source files as modules. A module is
// recompiled when its file is imported, and re-evaluated only when the
// compiled code changed. Local imports are linked through the same graph,
// so unchanged siblings keep their evaluated instance; host packages are
// resolved once and stay frozen.
package modgraph

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"path"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Exports are the exported top-level values of an evaluated module.
type Exports map[string]reflect.Value

// Module is the cached record for one path. A record is replaced, never
// mutated, when its code changes.
type Module struct {
	Path    string
	Code    string
	Package string
	Imports []string
	Exports Exports
}

// Link is one resolved import of a module: either a local module or a
// frozen host package.
type Link struct {
	Specifier string
	Module    *Module
	External  *Package
}

// Evaluator runs a module's code with its imports already linked.
type Evaluator interface {
	Evaluate(ctx context.Context, mod *Module, links []Link) (Exports, error)
}

// Result is the outcome of ImportEntry.
type Result struct {
	Module    *Module
	Exports   Exports
	FromCache bool
}

// Options configures a Graph. Zero fields fall back to GoTransformer,
// YaegiEvaluator and DefaultSymbols.
type Options struct {
	Transformer Transformer
	Evaluator   Evaluator
	Symbols     *SymbolTable
	Logger      log.FieldLogger
}

// Graph is the module cache over one source tree.
type Graph struct {
	mu      sync.Mutex
	fsys    fs.FS
	modules map[string]*Module

	transformer Transformer
	evaluator   Evaluator
	symbols     *SymbolTable
	log         log.FieldLogger
}

// New creates a graph over fsys. Module paths are slash separated and
// relative to the root of fsys.
func New(fsys fs.FS, opts Options) *Graph {
	if opts.Transformer == nil {
		opts.Transformer = GoTransformer{}
	}
	if opts.Evaluator == nil {
		opts.Evaluator = YaegiEvaluator{}
	}
	if opts.Symbols == nil {
		opts.Symbols = DefaultSymbols()
	}
	if opts.Logger == nil {
		opts.Logger = log.StandardLogger()
	}
	return &Graph{
		fsys:        fsys,
		modules:     make(map[string]*Module),
		transformer: opts.Transformer,
		evaluator:   opts.Evaluator,
		symbols:     opts.Symbols,
		log:         opts.Logger.WithField("component", "modgraph"),
	}
}

// ImportEntry compiles name and returns its exports. When the compiled code
// matches the cached record the cached exports are returned without
// evaluating anything.
func (g *Graph) ImportEntry(ctx context.Context, name string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	mod, cached, err := g.load(ctx, path.Clean(name), nil)
	if err != nil {
		return Result{}, err
	}
	return Result{Module: mod, Exports: mod.Exports, FromCache: cached}, nil
}

// Cached returns the current record for name, if one was ever loaded.
func (g *Graph) Cached(name string) (*Module, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	mod, ok := g.modules[path.Clean(name)]
	return mod, ok
}

func (g *Graph) load(ctx context.Context, name string, stack []string) (*Module, bool, error) {
	if i := slices.Index(stack, name); i >= 0 {
		chain := append(slices.Clone(stack[i:]), name)
		return nil, false, &LinkError{
			Path:      stack[len(stack)-1],
			Specifier: name,
			Err:       fmt.Errorf("import cycle: %s", strings.Join(chain, " -> ")),
		}
	}

	code, err := g.transformer.Transform(g.fsys, name)
	if err != nil {
		var compileErr *CompileError
		if errors.As(err, &compileErr) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("modgraph: read %s: %w", name, err)
	}

	if cur, ok := g.modules[name]; ok && cur.Code == code {
		return cur, true, nil
	}

	pkg, imports, err := scanImports(name, code)
	if err != nil {
		return nil, false, &CompileError{Path: name, Err: err}
	}
	mod := &Module{Path: name, Code: code, Package: pkg, Imports: imports}

	inner := append(slices.Clone(stack), name)
	links := make([]Link, 0, len(imports))
	for _, spec := range imports {
		if !isLocal(spec) {
			p, err := g.symbols.Resolve(spec)
			if err != nil {
				return nil, false, &LinkError{Path: name, Specifier: spec, Err: err}
			}
			links = append(links, Link{Specifier: spec, External: p})
			continue
		}

		target, err := g.resolveLocal(name, spec)
		if err != nil {
			return nil, false, &LinkError{Path: name, Specifier: spec, Err: err}
		}
		dep, _, err := g.load(ctx, target, inner)
		if err != nil {
			return nil, false, err
		}
		links = append(links, Link{Specifier: spec, Module: dep})
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	exports, err := g.evaluator.Evaluate(ctx, mod, links)
	if err != nil {
		return nil, false, &CompileError{Path: name, Err: err}
	}
	mod.Exports = exports
	g.modules[name] = mod

	g.log.WithFields(log.Fields{"module": name, "exports": len(exports)}).Debug("Module evaluated")
	return mod, false, nil
}

// resolveLocal maps a local specifier to a module path. Relative
// specifiers resolve against the importing file, absolute ones against the
// root. A missing .go extension is appended.
func (g *Graph) resolveLocal(from, spec string) (string, error) {
	var target string
	if strings.HasPrefix(spec, "/") {
		target = path.Clean(strings.TrimPrefix(spec, "/"))
	} else {
		target = path.Join(path.Dir(from), spec)
	}
	if !strings.HasSuffix(target, ".go") {
		target += ".go"
	}
	if !fs.ValidPath(target) {
		return "", fmt.Errorf("%s escapes the source root", spec)
	}
	if _, err := fs.Stat(g.fsys, target); err != nil {
		return "", err
	}
	return target, nil
}

func isLocal(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || strings.HasPrefix(spec, "/")
}

func scanImports(name, code string) (string, []string, error) {
	file, err := parser.ParseFile(token.NewFileSet(), name, code, parser.ImportsOnly)
	if err != nil {
		return "", nil, err
	}
	imports := make([]string, 0, len(file.Imports))
	for _, imp := range file.Imports {
		spec, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return "", nil, err
		}
		imports = append(imports, spec)
	}
	return file.Name.Name, imports, nil
}
