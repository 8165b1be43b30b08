package block

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefinitionSource resolves a block type to its definition.
type DefinitionSource interface {
	Lookup(blockType string) (Definition, bool)
}

// Library stores block definitions in memory. It is safe for concurrent use.
type Library struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewLibrary creates an empty library, optionally seeded with definitions.
// Invalid seed definitions are ignored.
func NewLibrary(defs ...Definition) *Library {
	lib := &Library{defs: make(map[string]Definition)}
	for _, def := range defs {
		_ = lib.Define(def)
	}
	return lib
}

// Define adds or replaces definitions. A definition without a type is
// rejected and nothing from the call is stored.
func (l *Library) Define(defs ...Definition) error {
	for _, def := range defs {
		if strings.TrimSpace(def.Type) == "" {
			return fmt.Errorf("%w: type is required", ErrInvalidDefinition)
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, def := range defs {
		l.defs[def.Type] = def
	}
	return nil
}

// Lookup returns the definition for a block type.
func (l *Library) Lookup(blockType string) (Definition, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	def, ok := l.defs[blockType]
	return def, ok
}

// Types returns all defined block types in sorted order.
func (l *Library) Types() []string {
	l.mu.RLock()
	types := keysOf(l.defs)
	l.mu.RUnlock()
	sort.Strings(types)
	return types
}

// Len returns the number of definitions.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.defs)
}

var _ DefinitionSource = (*Library)(nil)
