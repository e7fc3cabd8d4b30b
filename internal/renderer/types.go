package renderer

import (
	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/emit"
)

// typeEntry is one row of the runtime type table.
type typeEntry struct {
	CType string
	Fn    string
}

type enumType struct {
	Fn    string
	CType string
}

type structField struct {
	Name  string
	CType string
}

type structType struct {
	Fn     string
	CType  string
	Fields []structField
}

// baseTypes are always present so documents can rely on them.
var baseTypes = []typeEntry{
	{"int32_t", "unmarshal_coord32"},
	{"lv_coord_t", "unmarshal_coord"},
	{"lv_opa_t", "unmarshal_opa"},
	{"lv_color_t", "unmarshal_color"},
	{"const char *", "unmarshal_string"},
	{"char *", "unmarshal_string"},
	{"bool", "unmarshal_bool"},
	{"float", "unmarshal_float"},
	{"double", "unmarshal_double"},
	{"int8_t", "unmarshal_int8"},
	{"uint8_t", "unmarshal_uint8"},
	{"int16_t", "unmarshal_int16"},
	{"uint16_t", "unmarshal_uint16"},
	{"uint32_t", "unmarshal_uint32"},
	{"int64_t", "unmarshal_int64"},
	{"uint64_t", "unmarshal_uint64"},
	{"size_t", "unmarshal_size_t"},
	{"int", "unmarshal_int"},
	{"unsigned", "unmarshal_unsigned"},
	{"unsigned int", "unmarshal_unsigned"},
	{"char", "unmarshal_char"},
	{"void *", "unmarshal_src"},
	{"const void *", "unmarshal_src"},
	{"lv_obj_t *", "unmarshal_pointer"},
	{"const int32_t *", "unmarshal_coord_array"},
	{"int32_t *", "unmarshal_coord_array"},
}

var intPrims = map[string]string{
	"int32_t":            "unmarshal_coord32",
	"int8_t":             "unmarshal_int8",
	"signed char":        "unmarshal_int8",
	"uint8_t":            "unmarshal_uint8",
	"unsigned char":      "unmarshal_uint8",
	"int16_t":            "unmarshal_int16",
	"short":              "unmarshal_int16",
	"uint16_t":           "unmarshal_uint16",
	"unsigned short":     "unmarshal_uint16",
	"uint32_t":           "unmarshal_uint32",
	"int64_t":            "unmarshal_int64",
	"long":               "unmarshal_int64",
	"long long":          "unmarshal_int64",
	"intptr_t":           "unmarshal_int64",
	"ptrdiff_t":          "unmarshal_int64",
	"ssize_t":            "unmarshal_int64",
	"uint64_t":           "unmarshal_uint64",
	"unsigned long":      "unmarshal_uint64",
	"unsigned long long": "unmarshal_uint64",
	"uintptr_t":          "unmarshal_uint64",
	"size_t":             "unmarshal_size_t",
	"int":                "unmarshal_int",
	"signed":             "unmarshal_int",
	"unsigned":           "unmarshal_unsigned",
	"unsigned int":       "unmarshal_unsigned",
	"char":               "unmarshal_char",
}

// typeMap maps C type strings to unmarshalers and collects the per-type
// wrappers the runtime needs.
type typeMap struct {
	ix      *api.Index
	entries []typeEntry
	seen    map[string]bool
	enums   []enumType
	structs []structType
	defined map[string]bool
}

func newTypeMap(ix *api.Index) *typeMap {
	m := &typeMap{ix: ix, seen: make(map[string]bool), defined: make(map[string]bool)}
	for _, e := range baseTypes {
		m.seen[e.CType] = true
		m.entries = append(m.entries, e)
	}
	return m
}

// add registers ctype in the table and returns its unmarshaler. The second
// result is false when no unmarshaler can produce the type.
func (m *typeMap) add(ctype string) (string, bool) {
	if m.seen[ctype] {
		for _, e := range m.entries {
			if e.CType == ctype {
				return e.Fn, true
			}
		}
		return "", false
	}
	m.seen[ctype] = true
	fn := m.unmarshalerFor(ctype)
	if fn == "" {
		return "", false
	}
	m.entries = append(m.entries, typeEntry{CType: ctype, Fn: fn})
	return fn, true
}

func (m *typeMap) unmarshalerFor(ctype string) string {
	info := m.ix.Describe(ctype)
	switch info.Class {
	case api.ClassInt:
		switch info.CType.Unqualified().Base {
		case "lv_coord_t":
			return "unmarshal_coord"
		case "lv_opa_t":
			return "unmarshal_opa"
		}
		return intPrims[info.Prim]
	case api.ClassBool:
		return "unmarshal_bool"
	case api.ClassFloat:
		if info.Prim == "float" {
			return "unmarshal_float"
		}
		return "unmarshal_double"
	case api.ClassEnum:
		return m.enumWrapper(info)
	case api.ClassColor:
		return "unmarshal_color"
	case api.ClassString:
		return "unmarshal_string"
	case api.ClassCoordArray:
		return "unmarshal_coord_array"
	case api.ClassPointer, api.ClassFuncPtr:
		if info.IsStringLike() {
			return "unmarshal_src"
		}
		return "unmarshal_pointer"
	case api.ClassStruct:
		return m.structUnmarshaler(ctype, info)
	}
	return ""
}

func (m *typeMap) enumWrapper(info api.TypeInfo) string {
	ctype := info.CType.Unqualified().String()
	fn := "unmarshal_enum_" + emit.Identifier(ctype)
	if !m.defined[fn] {
		m.defined[fn] = true
		m.enums = append(m.enums, enumType{Fn: fn, CType: ctype})
	}
	return fn
}

func (m *typeMap) structUnmarshaler(ctype string, info api.TypeInfo) string {
	if info.Struct == nil || !m.ix.SmallStruct(ctype) {
		return ""
	}
	name := info.CType.Unqualified().String()
	fn := "unmarshal_struct_" + emit.Identifier(name)
	if m.defined[fn] {
		return fn
	}
	st := structType{Fn: fn, CType: name}
	for _, f := range info.Struct.Fields {
		if f.IsBitfield() {
			return ""
		}
		ft := m.ix.ResolveType(f.Type, api.PosField)
		if _, ok := m.add(ft); !ok {
			return ""
		}
		st.Fields = append(st.Fields, structField{Name: f.Name, CType: ft})
	}
	m.defined[fn] = true
	m.structs = append(m.structs, st)
	return fn
}
