package enumtable

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/uispec"
)

// DefaultMacros are the object-like LVGL macros exported when no override
// list is configured.
var DefaultMacros = []string{
	"LV_SIZE_CONTENT",
	"LV_GRID_CONTENT",
	"LV_GRID_TEMPLATE_LAST",
	"LV_COORD_MAX",
	"LV_COORD_MIN",
	"LV_RADIUS_CIRCLE",
	"LV_ANIM_REPEAT_INFINITE",
	"LV_DPI_DEF",
}

// New collects entries from the supplementary values, the API enums and the
// exported macros, in that priority order, and builds the table.
func New(ix *api.Index, macros []string, user []Entry, opts ...Option) *Table {
	var all []Entry
	all = append(all, user...)
	all = append(all, APIEntries(ix)...)
	all = append(all, MacroEntries(ix, macros)...)
	return Build(all, opts...)
}

// APIEntries lists every enum member of the API in declaration order.
func APIEntries(ix *api.Index) []Entry {
	members := ix.EnumMembers()
	out := make([]Entry, 0, len(members))
	for _, m := range members {
		out = append(out, Entry{
			Name:     m.Name,
			Value:    m.Value,
			HasValue: m.HasValue,
			Expr:     m.Name,
			EnumType: m.EnumType,
			Source:   SourceAPI,
		})
	}
	return out
}

// MacroEntries turns object-like macro names into entries whose C value is
// the macro itself. Function-like macros are skipped. Names the API does not
// describe are kept; the C compiler checks them against lvgl.h.
func MacroEntries(ix *api.Index, names []string) []Entry {
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		e := Entry{Name: name, Expr: name, EnumType: "int", Source: SourceMacro}
		if m, ok := ix.Macro(name); ok {
			if m.FunctionLike() {
				continue
			}
			if v, ok := parseIntLiteral(m.Initializer); ok {
				e.Value, e.HasValue = v, true
			}
		}
		out = append(out, e)
	}
	return out
}

// parseIntLiteral reads "(123)", "0x7FFF" or "42u".
func parseIntLiteral(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.TrimRight(s, "uUlL")
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LoadValues reads a supplementary values file (JSON or YAML). Top-level
// keys are identifiers mapped to a number or a C expression string; a
// nested object groups identifiers under an enum type name.
func LoadValues(path string) ([]Entry, error) {
	doc, err := uispec.LoadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := valuesFrom(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// DecodeValues reads a supplementary values document from JSON bytes.
func DecodeValues(data []byte) ([]Entry, error) {
	doc, err := uispec.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	return valuesFrom(doc)
}

func valuesFrom(doc uispec.Value) ([]Entry, error) {
	obj, ok := doc.(*uispec.Object)
	if !ok {
		return nil, fmt.Errorf("enum values must be an object, got %s", uispec.TypeName(doc))
	}
	var out []Entry
	for _, p := range obj.Pairs() {
		if group, ok := p.Value.(*uispec.Object); ok {
			for _, gp := range group.Pairs() {
				e, err := valueEntry(gp.Key, gp.Value, p.Key)
				if err != nil {
					return nil, err
				}
				out = append(out, e)
			}
			continue
		}
		e, err := valueEntry(p.Key, p.Value, "int")
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func valueEntry(name string, v uispec.Value, enumType string) (Entry, error) {
	e := Entry{Name: name, EnumType: enumType, Source: SourceUser}
	switch val := v.(type) {
	case json.Number:
		n, err := strconv.ParseInt(val.String(), 0, 64)
		if err != nil {
			return e, fmt.Errorf("value of %s is not an integer: %s", name, val)
		}
		e.Value, e.HasValue = n, true
	case string:
		if n, ok := parseIntLiteral(val); ok {
			e.Value, e.HasValue = n, true
		} else if strings.TrimSpace(val) == "" {
			return e, fmt.Errorf("value of %s is empty", name)
		} else {
			e.Expr = val
		}
	case bool:
		if val {
			e.Value = 1
		}
		e.HasValue = true
	default:
		return e, fmt.Errorf("value of %s must be a number or string, got %s", name, uispec.TypeName(v))
	}
	return e, nil
}
