// Package api models the LVGL API description and indexes it for the
// generators: function signatures, enum members, typedef chains and the
// canonical C type strings every other package keys on.
package api

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Kind is the json_type discriminator of a type chain node or record.
type Kind string

const (
	KindPrimitive   Kind = "primitive_type"
	KindStdlib      Kind = "stdlib_type"
	KindLVGL        Kind = "lvgl_type"
	KindPointer     Kind = "pointer"
	KindArray       Kind = "array"
	KindTypedef     Kind = "typedef"
	KindEnum        Kind = "enum"
	KindStruct      Kind = "struct"
	KindUnion       Kind = "union"
	KindFuncPtr     Kind = "function_pointer"
	KindSpecial     Kind = "special_type"
	KindRetType     Kind = "ret_type"
	KindArg         Kind = "arg"
	KindField       Kind = "field"
	KindForwardDecl Kind = "forward_decl"
	KindUnknown     Kind = "unknown_type"
)

// UnknownDim marks an array without a declared dimension.
const UnknownDim = -1

// Type is one node of a type chain.
type Type struct {
	Kind  Kind     `json:"json_type"`
	Name  string   `json:"name,omitempty"`
	Quals []string `json:"quals,omitempty"`
	// Type is the inner node for wrappers, pointers, arrays and typedefs,
	// and the return type of a function pointer.
	Type *Type `json:"type,omitempty"`
	// Args are the parameters of a function pointer.
	Args []*Type `json:"args,omitempty"`
	// Dim is the array dimension, UnknownDim when absent.
	Dim int `json:"-"`
}

type rawType struct {
	Kind  Kind            `json:"json_type"`
	Name  *string         `json:"name"`
	Quals []string        `json:"quals"`
	Type  *Type           `json:"type"`
	Args  []*Type         `json:"args"`
	Dim   json.RawMessage `json:"dim"`
}

// UnmarshalJSON accepts dim as a number, a numeric string or null.
func (t *Type) UnmarshalJSON(data []byte) error {
	var raw rawType
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Type{Kind: raw.Kind, Quals: raw.Quals, Type: raw.Type, Args: raw.Args, Dim: UnknownDim}
	if raw.Name != nil {
		t.Name = *raw.Name
	}
	t.Dim = parseDim(raw.Dim)
	return nil
}

// parseDim treats null, empty and symbolic dimensions ("LV_MAX") as unknown.
func parseDim(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return UnknownDim
	}
	return n
}

// HasQual reports whether q qualifies this node.
func (t *Type) HasQual(q string) bool {
	if t == nil {
		return false
	}
	for _, have := range t.Quals {
		if have == q {
			return true
		}
	}
	return false
}

// Function is a function record.
type Function struct {
	Name      string  `json:"name"`
	Type      *Type   `json:"type"`
	Args      []*Type `json:"args"`
	Docstring string  `json:"docstring,omitempty"`
}

// EnumMember is one member of an enum record.
type EnumMember struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// IntValue parses the member value, which LVGL emits as a number or as a
// decimal or hex string.
func (m EnumMember) IntValue() (int64, bool) {
	s := strings.TrimSpace(string(m.Value))
	if s == "" || s == "null" {
		return 0, false
	}
	s = strings.Trim(s, `"`)
	s = strings.TrimRight(s, "uUlL")
	n, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return n, true
	}
	u, err := strconv.ParseUint(s, 0, 64)
	if err == nil {
		return int64(u), true
	}
	return 0, false
}

// Enum is an enum record.
type Enum struct {
	Name    string       `json:"name"`
	Type    *Type        `json:"type"`
	Members []EnumMember `json:"members"`
}

// Field is a struct or union member.
type Field struct {
	Name    string          `json:"name"`
	Type    *Type           `json:"type"`
	Bitsize json.RawMessage `json:"bitsize"`
}

// IsBitfield reports whether the field declares a bit width.
func (f Field) IsBitfield() bool {
	s := strings.Trim(strings.TrimSpace(string(f.Bitsize)), `"`)
	return s != "" && s != "null"
}

// Struct is a struct or union record.
type Struct struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"json_type"`
	Fields []Field `json:"fields"`
}

// Typedef is a typedef record.
type Typedef struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// Macro is a preprocessor macro record.
type Macro struct {
	Name        string   `json:"name"`
	Params      []string `json:"params"`
	Initializer string   `json:"initializer"`
}

// FunctionLike reports whether the macro takes parameters.
func (m Macro) FunctionLike() bool {
	return m.Params != nil
}

// Description is the whole API description document.
type Description struct {
	Functions []Function `json:"functions"`
	Enums     []Enum     `json:"enums"`
	Structs   []Struct   `json:"structs"`
	Unions    []Struct   `json:"unions"`
	Typedefs  []Typedef  `json:"typedefs"`
	Macros    []Macro    `json:"macros"`
}
