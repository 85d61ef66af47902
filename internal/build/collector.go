package build

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/keshon/hotslash/pkg/command"
)

// KindDirs maps the top-level source directories to command kinds.
var KindDirs = map[string]command.Kind{
	"commands": command.KindChatInput,
	"users":    command.KindUser,
	"messages": command.KindMessage,
}

// SourceDirs lists the kind directories in collection order.
var SourceDirs = []string{"commands", "users", "messages"}

// KindOf returns the command kind of a slash separated module path, judged
// by its top-level directory.
func KindOf(name string) (command.Kind, bool) {
	top, _, ok := strings.Cut(path.Clean(name), "/")
	if !ok {
		return 0, false
	}
	kind, ok := KindDirs[top]
	return kind, ok
}

// CommandList is the set of command files found in a compiled tree. Paths
// are slash separated and relative to the tree root.
type CommandList struct {
	ChatInput []string `json:"chat_input"`
	User      []string `json:"user"`
	Message   []string `json:"message"`
	All       []string `json:"all"`
}

// Len returns the number of command files.
func (l CommandList) Len() int { return len(l.All) }

// Collect walks the kind directories of root. A missing directory yields an
// empty list. Each list is sorted.
func Collect(root string) (CommandList, error) {
	var list CommandList
	for _, dir := range SourceDirs {
		files, err := goFiles(root, dir)
		if err != nil {
			return CommandList{}, err
		}
		switch KindDirs[dir] {
		case command.KindChatInput:
			list.ChatInput = files
		case command.KindUser:
			list.User = files
		case command.KindMessage:
			list.Message = files
		}
	}
	list.All = slices.Concat(list.ChatInput, list.User, list.Message)
	return list, nil
}

func goFiles(root, dir string) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(filepath.Join(root, dir), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSource(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// isSource reports whether a file name is a command source file.
func isSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}
