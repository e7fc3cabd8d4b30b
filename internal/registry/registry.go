// Package registry provides entity registration and name resolution for one
// traversal of a UI document. It maps "@id" references and colon-joined
// "named" paths to the C entities created for them.
package registry

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// PathSep joins named segments into registry paths.
const PathSep = ":"

// Entity describes one LVGL object or style created during generation.
type Entity struct {
	// CName is the C variable name: "button_1", "c_style_2".
	CName string
	// CType is the C type of the variable: "lv_obj_t *", "lv_style_t".
	CType string
	// IsPointer is false for styles, which are static structs.
	IsPointer bool
	// OriginalType is the document's node type: "button", "style".
	OriginalType string
	// SetterPrefix is the function prefix setters are searched under:
	// "lv_button", "lv_obj", "lv_style".
	SetterPrefix string
}

// Expr is the expression that yields a pointer to the entity.
func (e *Entity) Expr() string {
	if e.IsPointer {
		return e.CName
	}
	return "&" + e.CName
}

// PointerType is the C type of Expr.
func (e *Entity) PointerType() string {
	if e.IsPointer {
		return e.CType
	}
	return e.CType + " *"
}

// JoinPath appends a named segment to a path prefix.
func JoinPath(prefix, named string) string {
	if prefix == "" {
		return named
	}
	return prefix + PathSep + named
}

// Registry maps registered names to entities.
type Registry struct {
	mu sync.RWMutex

	// byName maps "@id" and "parent:named" keys to entities.
	// Note: a later registration of the same key replaces the earlier one
	byName map[string]*Entity

	// order keeps first-registration order for listings
	order []string

	logger *slog.Logger
}

// New creates an empty registry. A nil logger discards warnings.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		byName: make(map[string]*Entity),
		logger: logger,
	}
}

// Register adds an entity under key. Re-registering a key logs a warning
// and the new entity wins. It reports whether an entry was replaced.
func (r *Registry) Register(key string, e *Entity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, replaced := r.byName[key]
	if replaced {
		r.logger.Warn("duplicate registration, replacing earlier entity",
			slog.String("name", key),
			slog.String("previous", prev.CName),
			slog.String("entity", e.CName))
	} else {
		r.order = append(r.order, key)
	}
	r.byName[key] = e
	return replaced
}

// Resolve finds the entity a reference names. Lookup order:
//  1. "@name" (ids)
//  2. the name under the current path prefix
//  3. the name as a full path
func (r *Registry) Resolve(name, pathPrefix string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimPrefix(name, "@")

	// 1. Try id registration
	if e, ok := r.byName["@"+name]; ok {
		return e, true
	}

	// 2. Try relative to the enclosing path
	if pathPrefix != "" {
		if e, ok := r.byName[JoinPath(pathPrefix, name)]; ok {
			return e, true
		}
	}

	// 3. Try as a full path
	if e, ok := r.byName[name]; ok {
		return e, true
	}

	return nil, false
}

// Get returns the entity registered under exactly key.
func (r *Registry) Get(key string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[key]
	return e, ok
}

// Keys returns every registered key in first-registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SortedKeys returns every registered key sorted.
func (r *Registry) SortedKeys() []string {
	keys := r.Keys()
	sort.Strings(keys)
	return keys
}

// Count returns the number of registered keys.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
