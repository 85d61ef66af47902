package build

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"

	"github.com/keshon/hotslash/pkg/serverless"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TreeDir is the directory inside the dist dir that holds the embedded
// command tree. The underscore keeps the Go toolchain from building it.
const TreeDir = "_commands"

var entryTemplate = template.Must(template.New("entry").Parse(`// Code generated by hotslash build. DO NOT EDIT.

package main

import (
	"embed"

	"github.com/keshon/hotslash/pkg/serverless"
)

// Commands:
{{- range .Commands}}
//   - {{.}}
{{- end}}

//go:embed all:{{.Tree}}
var tree embed.FS

func main() {
	serverless.Main(tree, {{printf "%q" .Tree}})
}
`))

// WebhookAdapter produces a stateless HTTP entry point: the compiled tree
// and its manifest are copied into the dist dir and a main.go embedding
// them is generated next to it.
type WebhookAdapter struct{}

func (WebhookAdapter) Adapt(ctx context.Context, b *Builder) error {
	if b.DistDir == "" {
		return fmt.Errorf("webhook: dist dir is not set")
	}
	tree := filepath.Join(b.DistDir, TreeDir)
	if err := os.RemoveAll(tree); err != nil {
		return err
	}
	if err := copyTree(ctx, b.OutDir, tree); err != nil {
		return fmt.Errorf("webhook: copy %s: %w", b.OutDir, err)
	}

	manifest := serverless.Manifest{
		ChatInput: b.Commands.ChatInput,
		User:      b.Commands.User,
		Message:   b.Commands.Message,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(tree, serverless.ManifestFile), data, 0o644); err != nil {
		return err
	}

	entry, err := renderEntry(b.Commands.All)
	if err != nil {
		return err
	}
	out := filepath.Join(b.DistDir, "main.go")
	if err := os.WriteFile(out, entry, 0o644); err != nil {
		return err
	}

	b.Log.WithFields(log.Fields{"entry": out, "commands": b.Commands.Len()}).Info("Webhook entry generated")
	return nil
}

func renderEntry(commands []string) ([]byte, error) {
	var buf bytes.Buffer
	err := entryTemplate.Execute(&buf, map[string]any{
		"Commands": commands,
		"Tree":     TreeDir,
	})
	if err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(p, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
