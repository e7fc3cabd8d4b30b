// Package uispec holds the declarative UI document model.
//
// A document is a tree of Values. A Value is one of:
//
//	*Object       key-ordered object, duplicates preserved
//	[]Value       array
//	string
//	json.Number   number literal, kept verbatim
//	bool
//	nil           JSON null
//
// Objects keep every (key, value) pair in document order so iteration sees
// duplicates, while Get returns the last binding of a key.
package uispec

import "encoding/json"

// Value is a node of a UI document. See the package documentation for the
// dynamic types it may hold.
type Value = any

// Pair is one key/value binding of an Object.
type Pair struct {
	Key   string
	Value Value
}

// Object is an ordered list of pairs with a map overlay for lookups.
type Object struct {
	pairs []Pair
	// last maps a key to the index of its last binding in pairs.
	last map[string]int
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{last: make(map[string]int)}
}

// ObjectOf builds an object from alternating key/value arguments.
// It panics on an odd argument count or non-string key; it is meant for
// tests and literals.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("uispec.ObjectOf: odd argument count")
	}
	o := NewObject()
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("uispec.ObjectOf: key is not a string")
		}
		o.Append(k, kv[i+1])
	}
	return o
}

// Append adds a binding at the end, keeping any earlier binding of the key.
func (o *Object) Append(key string, v Value) {
	if o.last == nil {
		o.last = make(map[string]int)
	}
	o.pairs = append(o.pairs, Pair{Key: key, Value: v})
	o.last[key] = len(o.pairs) - 1
}

// Set replaces the last binding of key in place, or appends it.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.last[key]; ok {
		o.pairs[i].Value = v
		return
	}
	o.Append(key, v)
}

// Get returns the last value bound to key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.last[key]
	if !ok {
		return nil, false
	}
	return o.pairs[i].Value, true
}

// Has reports whether key is bound.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Pairs returns every binding in document order, duplicates included.
// The returned slice must not be modified.
func (o *Object) Pairs() []Pair {
	if o == nil {
		return nil
	}
	return o.pairs
}

// Len returns the number of bindings, duplicates included.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.pairs)
}

// Keys returns the distinct keys in order of first appearance.
func (o *Object) Keys() []string {
	seen := make(map[string]struct{}, len(o.Pairs()))
	keys := make([]string, 0, len(o.Pairs()))
	for _, p := range o.Pairs() {
		if _, ok := seen[p.Key]; ok {
			continue
		}
		seen[p.Key] = struct{}{}
		keys = append(keys, p.Key)
	}
	return keys
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{
		pairs: make([]Pair, len(o.pairs)),
		last:  make(map[string]int, len(o.last)),
	}
	for i, p := range o.pairs {
		c.pairs[i] = Pair{Key: p.Key, Value: Clone(p.Value)}
	}
	for k, i := range o.last {
		c.last[k] = i
	}
	return c
}

// Clone deep-copies any document value.
func Clone(v Value) Value {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []Value:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two document values are structurally equal,
// comparing object bindings in order.
func Equal(a, b Value) bool {
	switch ta := a.(type) {
	case *Object:
		tb, ok := b.(*Object)
		if !ok || ta.Len() != tb.Len() {
			return false
		}
		for i, p := range ta.pairs {
			q := tb.pairs[i]
			if p.Key != q.Key || !Equal(p.Value, q.Value) {
				return false
			}
		}
		return true
	case []Value:
		tb, ok := b.([]Value)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case json.Number:
		tb, ok := b.(json.Number)
		return ok && ta == tb
	default:
		return a == b
	}
}

// GetString returns the string stored under key, if it is a string.
func (o *Object) GetString(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// TypeName returns a short JSON type name for diagnostics.
func TypeName(v Value) string {
	switch v.(type) {
	case *Object:
		return "object"
	case []Value:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
