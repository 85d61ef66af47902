package modgraph

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
)

// localPrefix roots the synthetic import paths of local modules.
const localPrefix = "hotslash.local/"

// YaegiEvaluator evaluates each module in its own interpreter. The
// interpreter sees only the packages the module imports: frozen host
// packages and the exports of linked local modules.
type YaegiEvaluator struct{}

// Evaluate implements Evaluator.
func (YaegiEvaluator) Evaluate(ctx context.Context, mod *Module, links []Link) (Exports, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, mod.Path, mod.Code, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	bySpec := make(map[string]Link, len(links))
	for _, l := range links {
		bySpec[l.Specifier] = l
	}

	use := interp.Exports{}
	names := make(map[string]string)
	for _, imp := range file.Imports {
		spec, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, err
		}
		l, ok := bySpec[spec]
		switch {
		case !ok:
			return nil, fmt.Errorf("import %q was not linked", spec)
		case l.Module != nil:
			importPath := localImportPath(l.Module.Path)
			imp.Path.Value = strconv.Quote(importPath)
			if imp.Name == nil {
				imp.Name = ast.NewIdent(l.Module.Package)
			}
			if prev, dup := names[imp.Name.Name]; dup {
				return nil, fmt.Errorf("imports %q and %q are both named %s, rename one of them", prev, spec, imp.Name.Name)
			}
			names[imp.Name.Name] = spec
			use[importPath+"/"+l.Module.Package] = l.Module.Exports
		case l.External != nil:
			use[l.External.Key] = l.External.Symbols
		}
	}

	// Every module runs as main in its own interpreter, so its exports are
	// read back through one fixed name.
	file.Name.Name = "main"

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(use); err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	if _, err := i.EvalWithContext(ctx, buf.String()); err != nil {
		return nil, err
	}

	exports := make(Exports)
	for _, name := range exportedNames(file) {
		v, err := i.Eval("main." + name)
		if err != nil {
			return nil, fmt.Errorf("read export %s: %w", name, err)
		}
		exports[name] = v
	}
	return exports, nil
}

// localImportPath turns "commands/util/greet.go" into
// "hotslash.local/commands/util/greet".
func localImportPath(modPath string) string {
	p := strings.TrimSuffix(modPath, ".go")
	p = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '/', r == '_', r == '.':
			return r
		}
		return '_'
	}, p)
	return localPrefix + p
}

func exportedNames(file *ast.File) []string {
	var names []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.IsExported() {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			if d.Tok != token.VAR && d.Tok != token.CONST {
				// Types stay private to their module.
				continue
			}
			for _, spec := range d.Specs {
				for _, n := range spec.(*ast.ValueSpec).Names {
					if n.IsExported() {
						names = append(names, n.Name)
					}
				}
			}
		}
	}
	return names
}
