package uispec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Form is the normalized interpretation of a document value. Every value is
// classified exactly once; emitters switch on the concrete Form type.
type Form interface {
	form()
}

type (
	// Color is a "#rgb", "#rrggbb" or "#aarrggbb" string, alpha stripped.
	Color struct{ RGB uint32 }
	// Ref is "@name": a registered entity.
	Ref struct{ Name string }
	// ContextVar is "$name": a binding of the enclosing context.
	ContextVar struct{ Name string }
	// StaticStr is "!text": a string interned with program lifetime.
	StaticStr struct{ Text string }
	// Percent is "N%": lv_pct(N) in coordinate positions.
	Percent struct{ N int64 }
	// Ident is a bare string: an enum member name (possibly OR-ed) when it
	// resolves, a string literal otherwise.
	Ident struct{ Text string }
	// Literal is a string that must be emitted verbatim, including the
	// escaped forms "@x@", "$x$", "!x!" and "N%%".
	Literal struct{ Text string }
	// Number is a numeric literal.
	Number struct{ Lit json.Number }
	// Bool is true or false.
	Bool struct{ V bool }
	// Array is a list of values; its meaning depends on the setter.
	Array struct{ Items []Value }
	// Call is {"call": F, "args": [...]}.
	Call struct {
		Fn   string
		Args []Value
	}
	// Struct is any other object, used for struct-by-value arguments.
	Struct struct{ Obj *Object }
	// Null is JSON null.
	Null struct{}
)

func (Color) form()      {}
func (Ref) form()        {}
func (ContextVar) form() {}
func (StaticStr) form()  {}
func (Percent) form()    {}
func (Ident) form()      {}
func (Literal) form()    {}
func (Number) form()     {}
func (Bool) form()       {}
func (Array) form()      {}
func (Call) form()       {}
func (Struct) form()     {}
func (Null) form()       {}

// Classify normalizes a document value into its Form.
func Classify(v Value) (Form, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool{V: t}, nil
	case json.Number:
		return Number{Lit: t}, nil
	case []Value:
		return Array{Items: t}, nil
	case *Object:
		return classifyObject(t)
	case string:
		return ClassifyString(t), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func classifyObject(o *Object) (Form, error) {
	fnv, ok := o.Get("call")
	if !ok {
		return Struct{Obj: o}, nil
	}
	fn, ok := fnv.(string)
	if !ok || fn == "" {
		return nil, fmt.Errorf("\"call\" must be a non-empty string, got %s", TypeName(fnv))
	}
	c := Call{Fn: fn}
	if av, ok := o.Get("args"); ok {
		switch a := av.(type) {
		case []Value:
			c.Args = a
		case nil:
		default:
			return nil, fmt.Errorf("\"args\" of call %s must be an array, got %s", fn, TypeName(av))
		}
	}
	return c, nil
}

// ClassifyString applies the prefix and suffix rules to a string value.
func ClassifyString(s string) Form {
	if len(s) >= 2 {
		switch s[0] {
		case '@', '$', '!':
			if s[len(s)-1] == s[0] {
				return Literal{Text: s[:len(s)-1]}
			}
		}
	}
	switch {
	case strings.HasPrefix(s, "@") && len(s) > 1:
		return Ref{Name: s[1:]}
	case strings.HasPrefix(s, "$") && len(s) > 1:
		return ContextVar{Name: s[1:]}
	case strings.HasPrefix(s, "!") && len(s) > 1:
		return StaticStr{Text: s[1:]}
	case strings.HasPrefix(s, "#"):
		if rgb, ok := ParseHexColor(s); ok {
			return Color{RGB: rgb}
		}
	case strings.HasSuffix(s, "%%"):
		if _, err := strconv.ParseInt(strings.TrimSuffix(s, "%%"), 10, 64); err == nil {
			return Literal{Text: s[:len(s)-1]}
		}
	case strings.HasSuffix(s, "%"):
		if n, err := strconv.ParseInt(strings.TrimSpace(strings.TrimSuffix(s, "%")), 10, 64); err == nil {
			return Percent{N: n}
		}
	}
	return Ident{Text: s}
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#aarrggbb" into 0xRRGGBB.
func ParseHexColor(s string) (uint32, bool) {
	if !strings.HasPrefix(s, "#") {
		return 0, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		var b strings.Builder
		for _, c := range hex {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		hex = b.String()
	case 6:
	case 8:
		hex = hex[2:]
	default:
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
