package serverless

import (
	"context"
	"fmt"
	"io/fs"

	log "github.com/sirupsen/logrus"

	"github.com/keshon/hotslash/internal/loader"
	"github.com/keshon/hotslash/internal/modgraph"
	"github.com/keshon/hotslash/internal/registry"
	"github.com/keshon/hotslash/pkg/command"
)

// ManifestFile is the name of the manifest at the root of an embedded tree.
const ManifestFile = "manifest.json"

// Manifest lists the command files of a tree by kind. Paths are slash
// separated and relative to the tree root.
type Manifest struct {
	ChatInput []string `json:"chat_input"`
	User      []string `json:"user"`
	Message   []string `json:"message"`
}

// ReadManifest decodes the manifest at the root of fsys.
func ReadManifest(fsys fs.FS) (Manifest, error) {
	var m Manifest
	data, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return m, fmt.Errorf("serverless: read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("serverless: decode manifest: %w", err)
	}
	return m, nil
}

// Bootstrap imports every file the manifest lists and registers its
// command in a registry without a remote.
func Bootstrap(ctx context.Context, fsys fs.FS, m Manifest, logger log.FieldLogger) (*registry.Registry, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	reg := registry.New(registry.Options{Logger: logger})
	graph := modgraph.New(fsys, modgraph.Options{Logger: logger})
	l := loader.New(graph, reg, logger)

	for _, group := range []struct {
		kind  command.Kind
		files []string
	}{
		{command.KindChatInput, m.ChatInput},
		{command.KindUser, m.User},
		{command.KindMessage, m.Message},
	} {
		if err := l.LoadAll(ctx, group.kind, group.files); err != nil {
			reg.Close()
			return nil, err
		}
	}

	logger.WithField("commands", len(reg.Payloads())).Info("Commands registered")
	return reg, nil
}
