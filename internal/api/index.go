package api

import (
	"regexp"
	"strconv"
	"strings"
)

// Param is a resolved function parameter.
type Param struct {
	Name  string
	CType string
	Chain *Type
}

// FunctionInfo is a function with resolved C types.
type FunctionInfo struct {
	Name        string
	Return      string
	ReturnChain *Type
	Params      []Param
	Variadic    bool
	Doc         string
}

// Arity is the number of fixed parameters.
func (f *FunctionInfo) Arity() int {
	return len(f.Params)
}

// ParamTypes returns the canonical parameter types in order.
func (f *FunctionInfo) ParamTypes() []string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.CType
	}
	return out
}

// Signature returns the function's signature class.
func (f *FunctionInfo) Signature() Signature {
	return Signature{Return: f.Return, Args: f.ParamTypes()}
}

// MemberInfo describes one enum member.
type MemberInfo struct {
	Name     string
	Value    int64
	HasValue bool
	// EnumType is the canonical name of the enclosing enum type.
	EnumType string
}

// Index is the lookup structure built once from a Description.
type Index struct {
	desc *Description

	functions map[string]*FunctionInfo
	order     []*FunctionInfo

	members     map[string]MemberInfo
	memberOrder []MemberInfo
	enumTypes   map[string]string

	enums    map[string]*Enum
	typedefs map[string]*Typedef
	structs  map[string]*Struct
	macros   map[string]Macro
	// tagAlias maps a struct/union/enum tag to the typedef naming it.
	tagAlias map[string]string

	describeCache map[string]TypeInfo
	sizeCache     map[string]int
}

// NewIndex indexes an API description.
func NewIndex(d *Description) *Index {
	ix := &Index{
		desc:          d,
		functions:     make(map[string]*FunctionInfo, len(d.Functions)),
		members:       make(map[string]MemberInfo),
		enumTypes:     make(map[string]string),
		enums:         make(map[string]*Enum, len(d.Enums)),
		typedefs:      make(map[string]*Typedef, len(d.Typedefs)),
		structs:       make(map[string]*Struct, len(d.Structs)+len(d.Unions)),
		macros:        make(map[string]Macro, len(d.Macros)),
		tagAlias:      make(map[string]string),
		describeCache: make(map[string]TypeInfo),
		sizeCache:     make(map[string]int),
	}

	for i := range d.Typedefs {
		td := &d.Typedefs[i]
		if td.Name == "" {
			continue
		}
		ix.typedefs[td.Name] = td
		if td.Type != nil && td.Type.Name != "" && td.Type.Name != td.Name {
			switch td.Type.Kind {
			case KindLVGL, KindStruct, KindUnion, KindEnum, KindForwardDecl:
				if _, taken := ix.tagAlias[td.Type.Name]; !taken {
					ix.tagAlias[td.Type.Name] = td.Name
				}
			}
		}
	}
	for i := range d.Structs {
		s := &d.Structs[i]
		if s.Kind == "" {
			s.Kind = KindStruct
		}
		if s.Name != "" {
			ix.structs[s.Name] = s
		}
	}
	for i := range d.Unions {
		u := &d.Unions[i]
		u.Kind = KindUnion
		if u.Name != "" {
			ix.structs[u.Name] = u
		}
	}
	for _, m := range d.Macros {
		if m.Name != "" {
			ix.macros[m.Name] = m
		}
	}

	for i := range d.Enums {
		e := &d.Enums[i]
		typeName := ix.enumTypeName(e)
		if e.Name != "" {
			ix.enums[e.Name] = e
			ix.enumTypes[e.Name] = typeName
		}
		if typeName != "" && !IsPrimitiveName(typeName) {
			ix.enumTypes[typeName] = typeName
		}
		for _, m := range e.Members {
			if m.Name == "" {
				continue
			}
			v, ok := m.IntValue()
			info := MemberInfo{Name: m.Name, Value: v, HasValue: ok, EnumType: typeName}
			if _, dup := ix.members[m.Name]; !dup {
				ix.memberOrder = append(ix.memberOrder, info)
			}
			ix.members[m.Name] = info
		}
	}

	for i := range d.Functions {
		f := &d.Functions[i]
		if f.Name == "" {
			continue
		}
		info := ix.buildFunction(f)
		if _, dup := ix.functions[f.Name]; !dup {
			ix.order = append(ix.order, info)
		}
		ix.functions[f.Name] = info
	}
	return ix
}

// enumTypeName picks the name an enum's members are typed by.
func (ix *Index) enumTypeName(e *Enum) string {
	if e.Name != "" {
		return ix.canonicalName(e.Name)
	}
	if e.Type != nil && e.Type.Name != "" {
		return ix.canonicalName(e.Type.Name)
	}
	return "int"
}

func (ix *Index) buildFunction(f *Function) *FunctionInfo {
	info := &FunctionInfo{
		Name:        f.Name,
		Return:      ix.ResolveType(f.Type, PosReturn),
		ReturnChain: f.Type,
		Doc:         f.Docstring,
	}
	for i, a := range f.Args {
		c := ix.Resolve(a, PosArg)
		if c.Base == Variadic {
			info.Variadic = true
			continue
		}
		// "(void)" parameter lists.
		if c.Base == "void" && c.Pointers == 0 && len(f.Args) == 1 {
			continue
		}
		name := ""
		if a != nil {
			name = a.Name
		}
		if name == "" {
			name = "arg" + strconv.Itoa(i)
		}
		info.Params = append(info.Params, Param{Name: name, CType: c.String(), Chain: a})
	}
	return info
}

// Description returns the indexed description.
func (ix *Index) Description() *Description {
	return ix.desc
}

// Function looks up a function by name.
func (ix *Index) Function(name string) (*FunctionInfo, bool) {
	f, ok := ix.functions[name]
	return f, ok
}

// Functions returns every function in declaration order.
func (ix *Index) Functions() []*FunctionInfo {
	return ix.order
}

// EnumMember looks up an enum member by its C identifier.
func (ix *Index) EnumMember(name string) (MemberInfo, bool) {
	m, ok := ix.members[name]
	return m, ok
}

// EnumMembers returns every enum member in declaration order.
func (ix *Index) EnumMembers() []MemberInfo {
	return ix.memberOrder
}

// Macro looks up a macro by name.
func (ix *Index) Macro(name string) (Macro, bool) {
	m, ok := ix.macros[name]
	return m, ok
}

// Typedef looks up a typedef by name.
func (ix *Index) Typedef(name string) (*Typedef, bool) {
	t, ok := ix.typedefs[name]
	return t, ok
}

// Struct looks up a struct or union by tag or typedef name.
func (ix *Index) Struct(name string) (*Struct, bool) {
	r := ix.Underlying(name)
	if r.Kind != KindStruct && r.Kind != KindUnion {
		return nil, false
	}
	s, ok := ix.structs[r.Name]
	return s, ok
}

// IsEnumType reports whether the canonical type names an enum.
func (ix *Index) IsEnumType(ctype string) bool {
	c, err := ParseCType(ctype)
	if err != nil || c.Pointers > 0 {
		return false
	}
	if _, ok := ix.enumTypes[c.Base]; ok {
		return true
	}
	return ix.Underlying(c.Base).Kind == KindEnum
}

// Resolved is the end of a typedef walk.
type Resolved struct {
	// Name is the final named type (primitive, struct tag, enum name).
	Name string
	Kind Kind
	// Pointer is set when the typedef chain ends in a pointer type.
	Pointer bool
}

// Underlying follows typedef names until a non-typedef is reached. Cycles
// and chains deeper than maxTypeDepth end as KindUnknown.
func (ix *Index) Underlying(name string) Resolved {
	visited := make(map[string]bool)
	for depth := 0; depth <= maxTypeDepth; depth++ {
		if visited[name] {
			return Resolved{Name: name, Kind: KindUnknown}
		}
		visited[name] = true

		if IsPrimitiveName(name) {
			return Resolved{Name: name, Kind: KindPrimitive}
		}
		if _, ok := ix.enums[name]; ok {
			return Resolved{Name: name, Kind: KindEnum}
		}
		if s, ok := ix.structs[name]; ok {
			return Resolved{Name: name, Kind: s.Kind}
		}
		td, ok := ix.typedefs[name]
		if !ok || td.Type == nil {
			if isStdlibName(name) {
				return Resolved{Name: name, Kind: KindStdlib}
			}
			return Resolved{Name: name, Kind: KindUnknown}
		}
		t := td.Type
		switch t.Kind {
		case KindPointer, KindArray:
			return Resolved{Name: name, Kind: KindPointer, Pointer: true}
		case KindFuncPtr:
			return Resolved{Name: name, Kind: KindFuncPtr}
		case KindPrimitive:
			return Resolved{Name: t.Name, Kind: KindPrimitive}
		case KindStdlib:
			if _, ok := ix.typedefs[t.Name]; !ok {
				return Resolved{Name: t.Name, Kind: KindStdlib}
			}
		case KindEnum:
			if t.Name == "" {
				return Resolved{Name: name, Kind: KindEnum}
			}
		case KindStruct, KindUnion:
			if t.Name == "" {
				return Resolved{Name: name, Kind: t.Kind}
			}
			if _, ok := ix.structs[t.Name]; !ok {
				return Resolved{Name: t.Name, Kind: t.Kind}
			}
		}
		if t.Name == "" || t.Name == name {
			return Resolved{Name: name, Kind: KindUnknown}
		}
		name = t.Name
	}
	return Resolved{Name: name, Kind: KindUnknown}
}

var stdlibIntNames = map[string]bool{
	"int8_t": true, "uint8_t": true, "int16_t": true, "uint16_t": true,
	"int32_t": true, "uint32_t": true, "int64_t": true, "uint64_t": true,
	"size_t": true, "ssize_t": true, "intptr_t": true, "uintptr_t": true,
	"ptrdiff_t": true,
}

func isStdlibName(name string) bool {
	return stdlibIntNames[name]
}

// IsTargetType reports whether a parameter of this type can take the
// implicit target: a pointer to an LVGL struct or opaque handle.
func (ix *Index) IsTargetType(ctype string) bool {
	c, err := ParseCType(ctype)
	if err != nil || c.Pointers != 1 {
		return false
	}
	if IsPrimitiveName(c.Base) || isStdlibName(c.Base) {
		return false
	}
	r := ix.Underlying(c.Base)
	switch r.Kind {
	case KindStruct, KindUnion:
		return true
	case KindUnknown:
		return strings.HasPrefix(c.Base, "lv_")
	}
	return false
}

var constructorPattern = regexp.MustCompile(`^lv_([a-z0-9_]+?)_(create|add_[a-z0-9_]+)$`)

// ConstructorCandidates returns functions named lv_<widget>_create or
// lv_<widget>_add_* that return a pointer.
func (ix *Index) ConstructorCandidates() []*FunctionInfo {
	var out []*FunctionInfo
	for _, f := range ix.order {
		if !constructorPattern.MatchString(f.Name) {
			continue
		}
		c, err := ParseCType(f.Return)
		if err != nil || c.Pointers == 0 {
			continue
		}
		out = append(out, f)
	}
	return out
}

// WidgetConstructor returns lv_<widget>_create when it exists.
func (ix *Index) WidgetConstructor(widget string) (*FunctionInfo, bool) {
	return ix.Function("lv_" + widget + "_create")
}
