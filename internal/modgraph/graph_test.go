package modgraph

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"testing/fstest"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEvaluator records evaluations and the links each module received.
type countingEvaluator struct {
	evaluated map[string]int
	links     map[string][]Link
	err       error
}

func newCountingEvaluator() *countingEvaluator {
	return &countingEvaluator{evaluated: map[string]int{}, links: map[string][]Link{}}
}

func (e *countingEvaluator) Evaluate(_ context.Context, mod *Module, links []Link) (Exports, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.evaluated[mod.Path]++
	e.links[mod.Path] = links
	return Exports{"Run": reflect.ValueOf(e.evaluated[mod.Path])}, nil
}

func testLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func file(src string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(src)}
}

func newTestGraph(fsys fstest.MapFS, ev Evaluator, symbols *SymbolTable) *Graph {
	if symbols == nil {
		symbols = NewSymbolTable([]string{"example.com/lib"}, map[string]map[string]reflect.Value{
			"example.com/lib/lib": {"Answer": reflect.ValueOf(42)},
		})
	}
	return New(fsys, Options{Evaluator: ev, Symbols: symbols, Logger: testLogger()})
}

const pingSrc = `package ping

var Command = 1
`

func TestCommentOnlyEditIsCacheHit(t *testing.T) {
	fsys := fstest.MapFS{"commands/ping.go": file(pingSrc)}
	ev := newCountingEvaluator()
	g := newTestGraph(fsys, ev, nil)
	ctx := context.Background()

	first, err := g.ImportEntry(ctx, "commands/ping.go")
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	fsys["commands/ping.go"] = file(`// Package ping answers.
package ping


// Command is the exported command.
var Command = 1 // one
`)
	second, err := g.ImportEntry(ctx, "commands/ping.go")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Same(t, first.Module, second.Module)
	assert.Equal(t, 1, ev.evaluated["commands/ping.go"])
}

func TestCodeChangeReevaluates(t *testing.T) {
	fsys := fstest.MapFS{"commands/ping.go": file(pingSrc)}
	ev := newCountingEvaluator()
	g := newTestGraph(fsys, ev, nil)
	ctx := context.Background()

	first, err := g.ImportEntry(ctx, "commands/ping.go")
	require.NoError(t, err)

	fsys["commands/ping.go"] = file("package ping\n\nvar Command = 2\n")
	second, err := g.ImportEntry(ctx, "commands/ping.go")
	require.NoError(t, err)
	assert.False(t, second.FromCache)
	assert.NotSame(t, first.Module, second.Module)
	assert.Equal(t, 2, ev.evaluated["commands/ping.go"])

	cached, ok := g.Cached("commands/ping.go")
	require.True(t, ok)
	assert.Same(t, second.Module, cached)
}

func TestSiblingKeepsIdentityAcrossReevaluation(t *testing.T) {
	fsys := fstest.MapFS{
		"commands/ping.go": file("package ping\n\nimport \"../shared/words\"\n\nvar Command = words.Hello\n"),
		"shared/words.go":  file("package words\n\nvar Hello = 1\n"),
	}
	ev := newCountingEvaluator()
	g := newTestGraph(fsys, ev, nil)
	ctx := context.Background()

	_, err := g.ImportEntry(ctx, "commands/ping.go")
	require.NoError(t, err)
	require.Len(t, ev.links["commands/ping.go"], 1)
	before := ev.links["commands/ping.go"][0].Module

	fsys["commands/ping.go"] = file("package ping\n\nimport \"../shared/words\"\n\nvar Command = words.Hello + 1\n")
	_, err = g.ImportEntry(ctx, "commands/ping.go")
	require.NoError(t, err)

	after := ev.links["commands/ping.go"][0].Module
	assert.Same(t, before, after)
	assert.Equal(t, 2, ev.evaluated["commands/ping.go"])
	assert.Equal(t, 1, ev.evaluated["shared/words.go"])
}

func TestSharedSiblingEvaluatedOnce(t *testing.T) {
	fsys := fstest.MapFS{
		"commands/a.go":   file("package a\n\nimport \"/shared/words\"\n\nvar Command = words.Hello\n"),
		"commands/b.go":   file("package b\n\nimport \"../shared/words.go\"\n\nvar Command = words.Hello\n"),
		"shared/words.go": file("package words\n\nvar Hello = 1\n"),
	}
	ev := newCountingEvaluator()
	g := newTestGraph(fsys, ev, nil)
	ctx := context.Background()

	_, err := g.ImportEntry(ctx, "commands/a.go")
	require.NoError(t, err)
	_, err = g.ImportEntry(ctx, "commands/b.go")
	require.NoError(t, err)

	assert.Equal(t, 1, ev.evaluated["shared/words.go"])
	assert.Same(t, ev.links["commands/a.go"][0].Module, ev.links["commands/b.go"][0].Module)
}

func TestExternalResolvedOnce(t *testing.T) {
	fsys := fstest.MapFS{
		"commands/a.go": file("package a\n\nimport \"example.com/lib\"\n\nvar Command = lib.Answer\n"),
		"commands/b.go": file("package b\n\nimport \"example.com/lib\"\n\nvar Command = lib.Answer\n"),
	}
	ev := newCountingEvaluator()
	g := newTestGraph(fsys, ev, nil)
	ctx := context.Background()

	_, err := g.ImportEntry(ctx, "commands/a.go")
	require.NoError(t, err)

	fsys["commands/a.go"] = file("package a\n\nimport \"example.com/lib\"\n\nvar Command = lib.Answer * 2\n")
	_, err = g.ImportEntry(ctx, "commands/a.go")
	require.NoError(t, err)
	_, err = g.ImportEntry(ctx, "commands/b.go")
	require.NoError(t, err)

	a, b := ev.links["commands/a.go"][0].External, ev.links["commands/b.go"][0].External
	require.NotNil(t, a)
	assert.Same(t, a, b)
	assert.Equal(t, "lib", a.Name)
	assert.Equal(t, []string{"example.com/lib"}, g.symbols.Resolved())
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		name  string
		fsys  fstest.MapFS
		entry string
	}{
		{
			name:  "disallowed package",
			fsys:  fstest.MapFS{"commands/a.go": file("package a\n\nimport \"os\"\n\nvar Command = os.Args\n")},
			entry: "commands/a.go",
		},
		{
			name:  "missing local file",
			fsys:  fstest.MapFS{"commands/a.go": file("package a\n\nimport \"./nope\"\n\nvar Command = nope.X\n")},
			entry: "commands/a.go",
		},
		{
			name:  "escapes the root",
			fsys:  fstest.MapFS{"commands/a.go": file("package a\n\nimport \"../../etc/x\"\n\nvar Command = x.X\n")},
			entry: "commands/a.go",
		},
		{
			name: "cycle",
			fsys: fstest.MapFS{
				"commands/a.go": file("package a\n\nimport \"./b\"\n\nvar Command = b.X\n"),
				"commands/b.go": file("package b\n\nimport \"./a\"\n\nvar X = a.Command\n"),
			},
			entry: "commands/a.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := newCountingEvaluator()
			g := newTestGraph(tt.fsys, ev, nil)

			_, err := g.ImportEntry(context.Background(), tt.entry)
			var linkErr *LinkError
			require.ErrorAs(t, err, &linkErr)
			assert.Empty(t, ev.evaluated)

			_, ok := g.Cached(tt.entry)
			assert.False(t, ok)
		})
	}
}

func TestSyntaxErrorIsCompileError(t *testing.T) {
	fsys := fstest.MapFS{"commands/a.go": file("package a\n\nvar Command = {\n")}
	g := newTestGraph(fsys, newCountingEvaluator(), nil)

	_, err := g.ImportEntry(context.Background(), "commands/a.go")
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "commands/a.go", compileErr.Path)
}

func TestEvaluationFailureKeepsPreviousRecord(t *testing.T) {
	fsys := fstest.MapFS{"commands/ping.go": file(pingSrc)}
	ev := newCountingEvaluator()
	g := newTestGraph(fsys, ev, nil)
	ctx := context.Background()

	first, err := g.ImportEntry(ctx, "commands/ping.go")
	require.NoError(t, err)

	fsys["commands/ping.go"] = file("package ping\n\nvar Command = 3\n")
	ev.err = errors.New("panic in init")
	_, err = g.ImportEntry(ctx, "commands/ping.go")
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)

	cached, ok := g.Cached("commands/ping.go")
	require.True(t, ok)
	assert.Same(t, first.Module, cached)
}
