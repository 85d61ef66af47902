package modgraph

import (
	"bytes"
	"errors"
	"go/ast"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"io/fs"
)

// Transformer turns a source file into the code the graph caches and
// evaluates. Two sources that differ only in ways the transformer discards
// produce identical code.
type Transformer interface {
	Transform(fsys fs.FS, name string) (string, error)
}

// GoTransformer parses a Go file, drops its comments and prints it in a
// layout that depends only on the syntax tree.
type GoTransformer struct{}

// Transform implements Transformer. Syntax errors are returned as a
// CompileError carrying the scanner positions.
func (GoTransformer) Transform(fsys fs.FS, name string) (string, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name, src, parser.SkipObjectResolution)
	if err != nil {
		var list scanner.ErrorList
		if errors.As(err, &list) {
			list.Sort()
		}
		return "", &CompileError{Path: name, Err: err}
	}

	ast.SortImports(fset, file)

	// Collapse the line table so blank lines and removed comment lines do
	// not leak into the printed layout.
	fset.File(file.Pos()).SetLines([]int{0})

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return "", &CompileError{Path: name, Err: err}
	}
	return buf.String(), nil
}
