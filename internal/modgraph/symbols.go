package modgraph

import (
	"fmt"
	"maps"
	"path"
	"reflect"
	"slices"
	"sync"

	"github.com/traefik/yaegi/stdlib"

	"github.com/keshon/hotslash/pkg/command"
)

// DefaultAllowed lists the host packages command files may import.
var DefaultAllowed = []string{
	command.ImportPath,
	"bytes",
	"context",
	"encoding/base64",
	"encoding/json",
	"errors",
	"fmt",
	"maps",
	"math",
	"math/rand",
	"net/url",
	"path",
	"regexp",
	"slices",
	"sort",
	"strconv",
	"strings",
	"sync",
	"time",
	"unicode",
	"unicode/utf8",

	// Blocked: os, os/exec, net, net/http, syscall, unsafe, io/fs.
}

// Package is a host package resolved for linking. Its symbols are the host
// values themselves, so every module sees the same instance.
type Package struct {
	Path    string
	Name    string
	Key     string
	Symbols map[string]reflect.Value
}

// SymbolTable resolves non-local specifiers. A package is looked up once
// and then served frozen for the life of the table.
type SymbolTable struct {
	mu      sync.Mutex
	allowed map[string]bool
	index   map[string]string
	symbols map[string]map[string]reflect.Value
	frozen  map[string]*Package
}

// NewSymbolTable indexes tables keyed the way yaegi keys them
// ("import/path/name") and admits only the allowed import paths.
func NewSymbolTable(allowed []string, tables ...map[string]map[string]reflect.Value) *SymbolTable {
	t := &SymbolTable{
		allowed: make(map[string]bool, len(allowed)),
		index:   make(map[string]string),
		symbols: make(map[string]map[string]reflect.Value),
		frozen:  make(map[string]*Package),
	}
	for _, p := range allowed {
		t.allowed[p] = true
	}
	for _, table := range tables {
		for key, syms := range table {
			t.index[path.Dir(key)] = key
			t.symbols[key] = syms
		}
	}
	return t
}

// DefaultSymbols is the standard library plus the command package.
func DefaultSymbols() *SymbolTable {
	return NewSymbolTable(DefaultAllowed, stdlib.Symbols, command.Symbols)
}

// Resolve returns the frozen package for an import path.
func (t *SymbolTable) Resolve(importPath string) (*Package, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.frozen[importPath]; ok {
		return p, nil
	}
	if !t.allowed[importPath] {
		return nil, fmt.Errorf("package %s is not allowed", importPath)
	}
	key, ok := t.index[importPath]
	if !ok {
		return nil, fmt.Errorf("package %s is not available", importPath)
	}

	p := &Package{
		Path:    importPath,
		Name:    path.Base(key),
		Key:     key,
		Symbols: t.symbols[key],
	}
	t.frozen[importPath] = p
	return p, nil
}

// Resolved lists the import paths served so far.
func (t *SymbolTable) Resolved() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Sorted(maps.Keys(t.frozen))
}
