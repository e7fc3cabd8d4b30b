// Package enumtable builds the string-to-value table used to resolve enum
// identifiers. Entries are sorted by (djb2 hash, name) so generated C code
// can bsearch on the hash and walk equal-hash neighbours with strcmp.
package enumtable

import (
	"sort"
	"strconv"
	"strings"
)

// Djb2 is the classic h = h*33 + c string hash over bytes, starting at 5381.
func Djb2(s string) uint32 {
	h := uint32(5381)
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

// Source records where an entry came from.
type Source int

const (
	SourceAPI Source = iota
	SourceMacro
	SourceUser
)

func (s Source) String() string {
	switch s {
	case SourceAPI:
		return "api"
	case SourceMacro:
		return "macro"
	case SourceUser:
		return "user"
	}
	return "unknown"
}

// Entry is one resolvable identifier.
type Entry struct {
	Hash  uint32
	Name  string
	Value int64
	// HasValue is false when only the C expression is known.
	HasValue bool
	// Expr is the C expression for the value; empty means the numeric Value.
	Expr     string
	EnumType string
	Source   Source
}

// CValue is the C expression stored in generated tables.
func (e Entry) CValue() string {
	if e.Expr != "" {
		return e.Expr
	}
	return strconv.FormatInt(e.Value, 10)
}

// Table is an immutable (hash, name)-sorted entry list.
type Table struct {
	entries []Entry
	hash    func(string) uint32
}

// Option configures Build.
type Option func(*Table)

// WithHash replaces djb2, used to force collisions in tests.
func WithHash(fn func(string) uint32) Option {
	return func(t *Table) { t.hash = fn }
}

// Build hashes and sorts the entries. When a name appears more than once
// the first occurrence is kept, so callers list higher-priority sources
// first.
func Build(entries []Entry, opts ...Option) *Table {
	t := &Table{hash: Djb2}
	for _, opt := range opts {
		opt(t)
	}

	seen := make(map[string]bool, len(entries))
	t.entries = make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		e.Hash = t.hash(e.Name)
		t.entries = append(t.entries, e)
	}
	sort.SliceStable(t.entries, func(i, j int) bool {
		a, b := t.entries[i], t.entries[j]
		if a.Hash != b.Hash {
			return a.Hash < b.Hash
		}
		return a.Name < b.Name
	})
	return t
}

// Entries returns the sorted entries.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Len is the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Hash applies the table's hash function.
func (t *Table) Hash(s string) uint32 {
	return t.hash(s)
}

// Lookup finds the first entry with the name's hash and walks forward
// through equal-hash entries comparing names.
func (t *Table) Lookup(name string) (Entry, bool) {
	h := t.hash(name)
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Hash >= h
	})
	for ; i < len(t.entries) && t.entries[i].Hash == h; i++ {
		if t.entries[i].Name == name {
			return t.entries[i], true
		}
	}
	return Entry{}, false
}

// Collisions returns groups of distinct names sharing a hash.
func (t *Table) Collisions() [][]Entry {
	var out [][]Entry
	for i := 0; i < len(t.entries); {
		j := i + 1
		for j < len(t.entries) && t.entries[j].Hash == t.entries[i].Hash {
			j++
		}
		if j-i > 1 {
			out = append(out, t.entries[i:j])
		}
		i = j
	}
	return out
}

// Expr is a resolved identifier or OR-ed identifier list.
type Expr struct {
	// C is the C expression, e.g. "LV_PART_MAIN | LV_STATE_PRESSED".
	C string
	// Value is the OR of the numeric values when every part has one.
	Value    int64
	HasValue bool
	// EnumType is the enum type of the first part.
	EnumType string
	Parts    []Entry
}

// Resolve resolves an identifier, or several joined by '|'. Every part must
// be in the table.
func (t *Table) Resolve(s string) (Expr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Expr{}, false
	}
	parts := strings.Split(s, "|")
	ex := Expr{HasValue: true}
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		e, ok := t.Lookup(p)
		if !ok {
			return Expr{}, false
		}
		if len(ex.Parts) == 0 {
			ex.EnumType = e.EnumType
		}
		ex.Parts = append(ex.Parts, e)
		names = append(names, e.CValue())
		if e.HasValue {
			ex.Value |= e.Value
		} else {
			ex.HasValue = false
		}
	}
	ex.C = strings.Join(names, " | ")
	return ex, true
}
