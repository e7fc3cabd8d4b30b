package api

import (
	"fmt"
	"strconv"
	"strings"
)

// CType is a C type in canonical form: <const>? <base> <*>* with an
// optional array dimension for struct fields.
type CType struct {
	Base     string
	Const    bool
	Volatile bool
	Pointers int
	// Dim is the array dimension, UnknownDim when the type is not an array.
	Dim int
}

// String prints the canonical type string, e.g. "const lv_coord_t *".
func (c CType) String() string {
	var b strings.Builder
	if c.Const {
		b.WriteString("const ")
	}
	if c.Volatile {
		b.WriteString("volatile ")
	}
	b.WriteString(c.Base)
	if c.Pointers > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Repeat("*", c.Pointers))
	}
	if c.Dim >= 0 {
		fmt.Fprintf(&b, "[%d]", c.Dim)
	}
	return b.String()
}

// Elem returns the type with one pointer level removed.
func (c CType) Elem() CType {
	e := c
	if e.Pointers > 0 {
		e.Pointers--
	}
	e.Dim = UnknownDim
	return e
}

// IsPointer reports whether the type has at least one indirection.
func (c CType) IsPointer() bool {
	return c.Pointers > 0
}

// Unqualified drops const and volatile from the base.
func (c CType) Unqualified() CType {
	u := c
	u.Const = false
	u.Volatile = false
	return u
}

var primitiveWords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"bool": true, "_Bool": true,
}

// IsPrimitiveName reports whether name is a C builtin type name.
func IsPrimitiveName(name string) bool {
	for _, w := range strings.Fields(name) {
		if !primitiveWords[w] {
			return false
		}
	}
	return name != ""
}

// ParseCType reads a canonical type string back into a CType. It accepts
// the forms String produces plus loose spacing ("char*", "const  int").
func ParseCType(s string) (CType, error) {
	c := CType{Dim: UnknownDim}
	rest := strings.TrimSpace(s)
	if rest == "" {
		return c, fmt.Errorf("empty C type")
	}

	if i := strings.IndexByte(rest, '['); i >= 0 {
		if !strings.HasSuffix(rest, "]") {
			return c, fmt.Errorf("malformed array type %q", s)
		}
		dim := strings.TrimSpace(rest[i+1 : len(rest)-1])
		if dim == "" {
			c.Pointers++
		} else {
			n, err := strconv.Atoi(dim)
			if err != nil {
				return c, fmt.Errorf("bad array dimension in %q", s)
			}
			c.Dim = n
		}
		rest = strings.TrimSpace(rest[:i])
	}

	for strings.HasSuffix(rest, "*") {
		c.Pointers++
		rest = strings.TrimSpace(strings.TrimSuffix(rest, "*"))
	}

	var words []string
	for _, w := range strings.Fields(rest) {
		switch w {
		case "const":
			c.Const = true
		case "volatile":
			c.Volatile = true
		case "*":
			return c, fmt.Errorf("qualified pointer levels are not canonical: %q", s)
		default:
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return c, fmt.Errorf("missing base type in %q", s)
	}
	if len(words) > 1 && !IsPrimitiveName(strings.Join(words, " ")) &&
		words[0] != "struct" && words[0] != "union" && words[0] != "enum" {
		return c, fmt.Errorf("unexpected tokens in C type %q", s)
	}
	c.Base = strings.Join(words, " ")
	return c, nil
}

// MustParseCType is ParseCType for known-good literals.
func MustParseCType(s string) CType {
	c, err := ParseCType(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ToType rebuilds a type chain for the C type, the inverse of resolution.
func (c CType) ToType() *Type {
	base := &Type{Name: c.Base, Dim: UnknownDim}
	switch {
	case IsPrimitiveName(c.Base):
		base.Kind = KindPrimitive
	case strings.HasSuffix(c.Base, "_t") && !strings.HasPrefix(c.Base, "lv_") && !strings.HasPrefix(c.Base, "_lv_"):
		base.Kind = KindStdlib
	default:
		base.Kind = KindLVGL
	}
	if c.Const {
		base.Quals = append(base.Quals, "const")
	}
	if c.Volatile {
		base.Quals = append(base.Quals, "volatile")
	}
	t := base
	for i := 0; i < c.Pointers; i++ {
		t = &Type{Kind: KindPointer, Type: t, Dim: UnknownDim}
	}
	if c.Dim >= 0 {
		t = &Type{Kind: KindArray, Type: t, Dim: c.Dim}
	}
	return t
}
