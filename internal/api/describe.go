package api

import (
	"fmt"
	"strings"
)

// Class is the broad category of a C type as the value formatters see it.
type Class int

const (
	ClassUnknown Class = iota
	ClassVoid
	ClassBool
	ClassInt
	ClassFloat
	ClassEnum
	ClassColor
	ClassString
	ClassCoordArray
	ClassPointer
	ClassStruct
	ClassFuncPtr
)

var classNames = [...]string{
	ClassUnknown:    "unknown",
	ClassVoid:       "void",
	ClassBool:       "bool",
	ClassInt:        "int",
	ClassFloat:      "float",
	ClassEnum:       "enum",
	ClassColor:      "color",
	ClassString:     "string",
	ClassCoordArray: "coord_array",
	ClassPointer:    "pointer",
	ClassStruct:     "struct",
	ClassFuncPtr:    "function_pointer",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// ColorType is the LVGL color struct, treated as its own class.
const ColorType = "lv_color_t"

// TypeInfo classifies a canonical C type string.
type TypeInfo struct {
	CType CType
	Class Class
	// Prim is the underlying scalar name for int, float and bool classes.
	Prim string
	// Pointee describes the target of a single-level pointer.
	Pointee string
	// Struct is set for struct-by-value and color classes.
	Struct *Struct
	// Enum is the enum type name for the enum class.
	Enum string
}

// IsStringLike reports whether a C string literal may be passed.
func (t TypeInfo) IsStringLike() bool {
	if t.Class == ClassString {
		return true
	}
	return t.Class == ClassPointer && t.CType.Pointers == 1 && t.CType.Base == "void"
}

// IsUnsigned reports whether an integer class is unsigned.
func (t TypeInfo) IsUnsigned() bool {
	return strings.HasPrefix(t.Prim, "uint") || strings.HasPrefix(t.Prim, "unsigned") || t.Prim == "size_t" || t.Prim == "uintptr_t"
}

// Describe classifies a canonical C type string, following typedef chains.
func (ix *Index) Describe(ctype string) TypeInfo {
	if info, ok := ix.describeCache[ctype]; ok {
		return info
	}
	info := ix.describe(ctype)
	ix.describeCache[ctype] = info
	return info
}

func (ix *Index) describe(ctype string) TypeInfo {
	c, err := ParseCType(ctype)
	if err != nil {
		return TypeInfo{Class: ClassUnknown}
	}
	info := TypeInfo{CType: c}
	if c.Dim >= 0 {
		info.Class = ClassPointer
		return info
	}

	if c.Pointers > 0 {
		if c.Pointers > 1 {
			info.Class = ClassPointer
			return info
		}
		info.Pointee = c.Elem().String()
		if c.Base == "char" {
			info.Class = ClassString
			return info
		}
		elem := ix.describeBase(c.Elem().Unqualified())
		if elem.Class == ClassInt && isCoordPrim(elem.Prim) {
			info.Class = ClassCoordArray
			info.Prim = elem.Prim
			return info
		}
		info.Class = ClassPointer
		return info
	}

	base := ix.describeBase(c)
	base.CType = c
	return base
}

func isCoordPrim(prim string) bool {
	return prim == "int32_t" || prim == "int16_t" || prim == "int"
}

func (ix *Index) describeBase(c CType) TypeInfo {
	info := TypeInfo{CType: c}
	name := c.Base
	if name == ColorType {
		info.Class = ClassColor
		info.Struct, _ = ix.Struct(name)
		return info
	}
	if _, ok := ix.enumTypes[name]; ok {
		info.Class = ClassEnum
		info.Enum = name
		return info
	}

	r := ix.Underlying(name)
	switch r.Kind {
	case KindPrimitive, KindStdlib:
		info.Prim = r.Name
		switch r.Name {
		case "void":
			info.Class = ClassVoid
		case "bool", "_Bool":
			info.Class = ClassBool
		case "float", "double", "long double":
			info.Class = ClassFloat
		default:
			info.Class = ClassInt
		}
	case KindEnum:
		info.Class = ClassEnum
		info.Enum = name
	case KindStruct, KindUnion:
		info.Class = ClassStruct
		info.Struct, _ = ix.Struct(name)
	case KindFuncPtr:
		info.Class = ClassFuncPtr
	case KindPointer:
		info.Class = ClassPointer
	default:
		info.Class = ClassUnknown
	}
	return info
}

// SizeOf estimates the byte size of a C type on a 64-bit target. The second
// result is false when the size cannot be determined.
func (ix *Index) SizeOf(ctype string) (int, bool) {
	if n, ok := ix.sizeCache[ctype]; ok {
		return n, n >= 0
	}
	// Recursive structs resolve as unknown.
	ix.sizeCache[ctype] = -1
	n := ix.sizeOf(ctype)
	ix.sizeCache[ctype] = n
	return n, n >= 0
}

var primSizes = map[string]int{
	"char": 1, "signed char": 1, "unsigned char": 1, "bool": 1, "_Bool": 1,
	"int8_t": 1, "uint8_t": 1,
	"short": 2, "unsigned short": 2, "int16_t": 2, "uint16_t": 2,
	"int": 4, "unsigned": 4, "unsigned int": 4, "int32_t": 4, "uint32_t": 4, "float": 4,
	"long": 8, "unsigned long": 8, "long long": 8, "unsigned long long": 8,
	"int64_t": 8, "uint64_t": 8, "double": 8, "size_t": 8, "ssize_t": 8,
	"intptr_t": 8, "uintptr_t": 8, "ptrdiff_t": 8,
}

func (ix *Index) sizeOf(ctype string) int {
	c, err := ParseCType(ctype)
	if err != nil {
		return -1
	}
	if c.Dim >= 0 {
		elem := c
		elem.Dim = UnknownDim
		n, ok := ix.SizeOf(elem.String())
		if !ok {
			return -1
		}
		return n * c.Dim
	}
	if c.Pointers > 0 {
		return 8
	}
	name := c.Unqualified().Base
	if n, ok := primSizes[name]; ok {
		return n
	}
	if _, ok := ix.enumTypes[name]; ok {
		return 4
	}
	r := ix.Underlying(name)
	switch r.Kind {
	case KindPrimitive, KindStdlib:
		if n, ok := primSizes[r.Name]; ok {
			return n
		}
		return -1
	case KindEnum:
		return 4
	case KindPointer, KindFuncPtr:
		return 8
	case KindStruct, KindUnion:
		s, ok := ix.structs[r.Name]
		if !ok {
			return -1
		}
		return ix.recordSize(s)
	}
	return -1
}

func (ix *Index) recordSize(s *Struct) int {
	size, maxAlign := 0, 1
	for _, f := range s.Fields {
		ft := ix.ResolveType(f.Type, PosField)
		n, ok := ix.SizeOf(ft)
		if !ok {
			return -1
		}
		align := alignOf(n)
		if align > maxAlign {
			maxAlign = align
		}
		if s.Kind == KindUnion {
			if n > size {
				size = n
			}
			continue
		}
		size = roundUp(size, align) + n
	}
	return roundUp(size, maxAlign)
}

func alignOf(n int) int {
	switch {
	case n >= 8:
		return 8
	case n >= 4:
		return 4
	case n >= 2:
		return 2
	}
	return 1
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// MaxByValueSize is the largest struct accepted by value.
const MaxByValueSize = 8

// UnrepresentableError explains why a function cannot be called from
// generated code.
type UnrepresentableError struct {
	Function string
	// Param is the offending parameter name, empty for the function itself.
	Param  string
	Reason string
}

func (e *UnrepresentableError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: parameter %s: %s", e.Function, e.Param, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Function, e.Reason)
}

// SmallStruct reports whether a struct can travel by value: at most
// MaxByValueSize bytes with only scalar fields.
func (ix *Index) SmallStruct(ctype string) bool {
	info := ix.Describe(ctype)
	if info.Struct == nil || info.Struct.Kind == KindUnion {
		return false
	}
	n, ok := ix.SizeOf(ctype)
	if !ok || n > MaxByValueSize {
		return false
	}
	for _, f := range info.Struct.Fields {
		switch ix.Describe(ix.ResolveType(f.Type, PosField)).Class {
		case ClassInt, ClassBool, ClassFloat, ClassEnum:
		default:
			return false
		}
	}
	return true
}

// Representable returns nil when every parameter and the return value of f
// can be produced from JSON.
func (ix *Index) Representable(f *FunctionInfo) error {
	if f.Variadic {
		return &UnrepresentableError{Function: f.Name, Reason: "variadic"}
	}
	if err := ix.representableType(f.Return, f.ReturnChain, true); err != "" {
		return &UnrepresentableError{Function: f.Name, Param: "return", Reason: err}
	}
	for _, p := range f.Params {
		if err := ix.representableType(p.CType, p.Chain, false); err != "" {
			return &UnrepresentableError{Function: f.Name, Param: p.Name, Reason: err}
		}
	}
	return nil
}

func (ix *Index) representableType(ctype string, chain *Type, isReturn bool) string {
	if !isReturn && ix.IsCallback(chain) {
		return "callback argument"
	}
	info := ix.Describe(ctype)
	if info.CType.Pointers > 1 {
		return "pointer to pointer"
	}
	switch info.Class {
	case ClassVoid:
		if !isReturn {
			return "void parameter"
		}
	case ClassFuncPtr:
		if !isReturn {
			return "callback argument"
		}
	case ClassUnknown:
		return "unknown type " + ctype
	case ClassStruct:
		if info.Struct != nil && info.Struct.Kind == KindUnion {
			return "union by value"
		}
		n, ok := ix.SizeOf(ctype)
		if !ok {
			return "struct of unknown size by value"
		}
		if n > MaxByValueSize {
			return fmt.Sprintf("struct by value larger than %d bytes", MaxByValueSize)
		}
		if !ix.SmallStruct(ctype) {
			return "struct by value with non-scalar fields"
		}
	}
	return ""
}
