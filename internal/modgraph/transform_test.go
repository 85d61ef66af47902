package modgraph

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformIgnoresCommentsAndLayout(t *testing.T) {
	fsys := fstest.MapFS{
		"a.go": file("package a\n\nimport (\n\t\"strings\"\n\t\"fmt\"\n)\n\nfunc F() string { return fmt.Sprint(strings.ToUpper(\"x\")) }\n"),
		"b.go": file(`// Package a does things.
package a

import (
	"fmt"

	"strings"
)



// F shouts.
func F() string {
	// upper
	return fmt.Sprint(strings.ToUpper("x"))
}
`),
	}

	a, err := GoTransformer{}.Transform(fsys, "a.go")
	require.NoError(t, err)
	b, err := GoTransformer{}.Transform(fsys, "b.go")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotContains(t, a, "//")
}

func TestTransformSeesCodeChanges(t *testing.T) {
	fsys := fstest.MapFS{
		"a.go": file("package a\n\nvar X = \"a\"\n"),
		"b.go": file("package a\n\nvar X = \"b\"\n"),
	}

	a, err := GoTransformer{}.Transform(fsys, "a.go")
	require.NoError(t, err)
	b, err := GoTransformer{}.Transform(fsys, "b.go")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTransformSyntaxError(t *testing.T) {
	fsys := fstest.MapFS{"bad.go": file("package a\n\nfunc {\n")}

	_, err := GoTransformer{}.Transform(fsys, "bad.go")
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, err.Error(), "bad.go:3")
}
