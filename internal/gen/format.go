package gen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/emit"
	"github.com/leapstack-labs/lvglgen/internal/registry"
	"github.com/leapstack-labs/lvglgen/internal/uispec"
)

// fmtCtx is the evaluation context of one argument.
type fmtCtx struct {
	scope *scope
	path  string
	// entity is prepended to calls that omit their target argument.
	entity *registry.Entity
	ptr    uispec.Pointer
	// arrayBase names static arrays produced for this argument.
	arrayBase string
	// fn is the function receiving the argument.
	fn string
}

// macroCall matches a function-like macro invocation such as LV_GRID_FR(1).
var macroCall = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*\s*\(.*\)$`)

// format turns a document value into a C expression of type ctype.
func (g *Generator) format(v uispec.Value, ctype string, c fmtCtx) (string, error) {
	form, err := uispec.Classify(v)
	if err != nil {
		return "", WrapSemanticError(c.ptr, "invalid value", err)
	}
	info := g.ix.Describe(ctype)

	switch t := form.(type) {
	case uispec.ContextVar:
		val, outer, ok := c.scope.lookup(t.Name)
		if !ok {
			return "", g.unbound(t.Name, c.scope, c.ptr)
		}
		oc := c
		oc.scope = outer
		return g.format(val, ctype, oc)

	case uispec.Ref:
		return g.formatRef(t.Name, ctype, info, c)

	case uispec.Call:
		expr, ret, err := g.formatCall(t, c)
		if err != nil {
			return "", err
		}
		if ret == "void" {
			return "", NewSemanticErrorf(c.ptr, "%s returns void and cannot be used as a value", t.Fn)
		}
		return expr, nil

	case uispec.StaticStr:
		if !info.IsStringLike() {
			return "", mismatch(c, "static string", ctype)
		}
		return g.internString(t.Text), nil

	case uispec.Literal:
		if !info.IsStringLike() {
			return "", mismatch(c, "string", ctype)
		}
		return emit.Quote(t.Text), nil

	case uispec.Color:
		return formatColor(t.RGB, ctype, info, c)

	case uispec.Percent:
		switch {
		case isPercentType(info.CType):
			return fmt.Sprintf("lv_pct(%d)", t.N), nil
		case info.IsStringLike():
			return emit.Quote(fmt.Sprintf("%d%%", t.N)), nil
		}
		return "", mismatch(c, "percentage", ctype)

	case uispec.Ident:
		return g.formatIdent(t.Text, ctype, info, c)

	case uispec.Number:
		return formatNumber(string(t.Lit), ctype, info, c)

	case uispec.Bool:
		switch info.Class {
		case api.ClassBool:
			return strconv.FormatBool(t.V), nil
		case api.ClassInt, api.ClassEnum:
			if t.V {
				return "1", nil
			}
			return "0", nil
		}
		return "", mismatch(c, "boolean", ctype)

	case uispec.Null:
		if info.CType.IsPointer() || info.Class == api.ClassFuncPtr || info.Class == api.ClassPointer {
			return "NULL", nil
		}
		return "", mismatch(c, "null", ctype)

	case uispec.Array:
		return g.formatArray(t.Items, ctype, info, c)

	case uispec.Struct:
		return g.formatStruct(t.Obj, ctype, info, c)
	}
	return "", NewSemanticErrorf(c.ptr, "unsupported value")
}

// isPercentType reports whether lv_pct may be passed. The declared name
// decides, whatever lv_coord_t is typedef'd to.
func isPercentType(c api.CType) bool {
	if c.Pointers > 0 || c.Dim >= 0 {
		return false
	}
	switch c.Unqualified().Base {
	case "lv_coord_t", "int32_t":
		return true
	}
	return false
}

func mismatch(c fmtCtx, what, ctype string) error {
	if c.fn != "" {
		return NewSemanticErrorf(c.ptr, "%s cannot be passed as %s to %s", what, ctype, c.fn)
	}
	return NewSemanticErrorf(c.ptr, "%s cannot be passed as %s", what, ctype)
}

func (g *Generator) formatRef(name, ctype string, info api.TypeInfo, c fmtCtx) (string, error) {
	if !info.CType.IsPointer() {
		return "", NewSemanticErrorf(c.ptr, "reference @%s needs a pointer parameter, got %s", name, ctype)
	}
	if e, ok := g.reg.Resolve(name, c.path); ok {
		return e.Expr(), nil
	}
	g.warn(NewSemanticErrorf(c.ptr, "unknown reference @%s, looked up in the runtime registry", name))
	g.registryExtern()
	tag := info.CType.Elem().Unqualified().Base
	return fmt.Sprintf("(%s)lvgl_json_get_registered_ptr(%s, %s)", ctype, emit.Quote(name), emit.Quote(tag)), nil
}

// formatCall formats a nested call and returns its return type. A call one
// argument short of a function taking a target gets the current entity
// prepended.
func (g *Generator) formatCall(call uispec.Call, c fmtCtx) (string, string, error) {
	fn, ok := g.ix.Function(call.Fn)
	if !ok {
		return "", "", NewSemanticErrorf(c.ptr, "unknown function %q in call", call.Fn)
	}
	if err := g.checkCallable(fn); err != nil {
		return "", "", WrapSemanticError(c.ptr, "function "+call.Fn+" cannot be called", err)
	}

	params := fn.Params
	var (
		out      []string
		selector bool
	)
	n := len(call.Args)
	switch {
	case n == len(params):
	case n == len(params)-1 && g.ix.IsTargetType(params[0].CType) && c.entity != nil:
		out = append(out, c.entity.Expr())
		params = params[1:]
	case n == len(params)-1 && g.hasSelector(fn):
		params = params[:len(params)-1]
		selector = true
	default:
		return "", "", NewSemanticErrorf(c.ptr, "%s takes %d arguments, got %d", fn.Name, len(params), n)
	}

	base := c.arrayBase
	if base == "" {
		base = emit.Identifier(fn.Name) + "_arg"
	}
	for i, arg := range call.Args {
		ac := c
		ac.ptr = c.ptr.Key("args").Index(i)
		ac.fn = fn.Name
		ac.arrayBase = base
		s, err := g.format(arg, params[i].CType, ac)
		if err != nil {
			return "", "", err
		}
		out = append(out, s)
	}
	if selector {
		out = append(out, "0")
	}
	return emit.Call(fn.Name, out...), fn.Return, nil
}

func formatColor(rgb uint32, ctype string, info api.TypeInfo, c fmtCtx) (string, error) {
	switch {
	case info.Class == api.ClassColor:
		return fmt.Sprintf("lv_color_hex(0x%06X)", rgb), nil
	case info.Class == api.ClassInt:
		return fmt.Sprintf("0x%06X", rgb), nil
	case info.IsStringLike():
		return emit.Quote(fmt.Sprintf("#%06X", rgb)), nil
	}
	return "", mismatch(c, "color", ctype)
}

func (g *Generator) formatIdent(text, ctype string, info api.TypeInfo, c fmtCtx) (string, error) {
	if info.IsStringLike() {
		return emit.Quote(text), nil
	}
	if ex, ok := g.enums.Resolve(text); ok {
		return ex.C, nil
	}
	if macroCall.MatchString(strings.TrimSpace(text)) {
		return strings.TrimSpace(text), nil
	}
	return "", NewSemanticErrorf(c.ptr, "unknown identifier %q for %s", text, ctype)
}

func formatNumber(lit, ctype string, info api.TypeInfo, c fmtCtx) (string, error) {
	isInt := !strings.ContainsAny(lit, ".eE")
	switch info.Class {
	case api.ClassInt:
		if !isInt {
			return "", NewSemanticErrorf(c.ptr, "%s needs an integer, got %s", ctype, lit)
		}
		if info.IsUnsigned() && strings.HasPrefix(lit, "-") {
			return "", NewSemanticErrorf(c.ptr, "%s is unsigned, got %s", ctype, lit)
		}
		return lit, nil
	case api.ClassEnum:
		if !isInt {
			return "", NewSemanticErrorf(c.ptr, "%s needs an integer, got %s", ctype, lit)
		}
		return "(" + ctype + ")" + lit, nil
	case api.ClassFloat:
		if isInt {
			lit += ".0"
		}
		if info.Prim == "float" {
			lit += "f"
		}
		return lit, nil
	case api.ClassBool:
		switch lit {
		case "0":
			return "false", nil
		case "1":
			return "true", nil
		}
		return "", NewSemanticErrorf(c.ptr, "bool needs 0 or 1, got %s", lit)
	case api.ClassColor:
		n, err := strconv.ParseUint(lit, 10, 32)
		if err != nil {
			return "", NewSemanticErrorf(c.ptr, "color needs a non-negative integer, got %s", lit)
		}
		return fmt.Sprintf("lv_color_hex(0x%06X)", n), nil
	case api.ClassPointer, api.ClassString, api.ClassCoordArray, api.ClassFuncPtr:
		if lit == "0" {
			return "NULL", nil
		}
		return "", NewSemanticErrorf(c.ptr, "only 0 may be passed as pointer %s, got %s", ctype, lit)
	case api.ClassUnknown:
		return lit, nil
	}
	return "", mismatch(c, "number", ctype)
}

func (g *Generator) formatArray(items []uispec.Value, ctype string, info api.TypeInfo, c fmtCtx) (string, error) {
	switch info.Class {
	case api.ClassCoordArray:
		elem := info.CType.Elem().Unqualified().String()
		vals := make([]string, 0, len(items)+1)
		for i, item := range items {
			ic := c
			ic.ptr = c.ptr.Index(i)
			s, err := g.format(item, elem, ic)
			if err != nil {
				return "", err
			}
			vals = append(vals, s)
		}
		if isGridDescriptor(c.fn) && (len(vals) == 0 || vals[len(vals)-1] != gridTemplateLast) {
			vals = append(vals, gridTemplateLast)
		}
		base := c.arrayBase
		if base == "" {
			base = "c_arr"
		}
		return g.staticArray(base, elem, vals), nil

	case api.ClassStruct, api.ClassColor:
		if info.Struct == nil {
			return "", mismatch(c, "array", ctype)
		}
		fields := info.Struct.Fields
		if len(items) != len(fields) {
			return "", NewSemanticErrorf(c.ptr, "%s has %d fields, got %d values", ctype, len(fields), len(items))
		}
		parts := make([]string, len(items))
		for i, item := range items {
			ic := c
			ic.ptr = c.ptr.Index(i)
			s, err := g.format(item, g.ix.ResolveType(fields[i].Type, api.PosField), ic)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return compoundLiteral(info, parts), nil
	}
	return "", mismatch(c, "array", ctype)
}

func isGridDescriptor(fn string) bool {
	return strings.Contains(fn, "grid") && strings.Contains(fn, "dsc")
}

func (g *Generator) formatStruct(obj *uispec.Object, ctype string, info api.TypeInfo, c fmtCtx) (string, error) {
	if (info.Class != api.ClassStruct && info.Class != api.ClassColor) || info.Struct == nil {
		return "", mismatch(c, "object", ctype)
	}
	fields := make(map[string]api.Field, len(info.Struct.Fields))
	for _, f := range info.Struct.Fields {
		fields[f.Name] = f
	}
	parts := make([]string, 0, obj.Len())
	for _, p := range obj.Pairs() {
		f, ok := fields[p.Key]
		if !ok {
			return "", NewSemanticErrorf(c.ptr.Key(p.Key), "%s has no field %q", ctype, p.Key)
		}
		fc := c
		fc.ptr = c.ptr.Key(p.Key)
		s, err := g.format(p.Value, g.ix.ResolveType(f.Type, api.PosField), fc)
		if err != nil {
			return "", err
		}
		parts = append(parts, "."+p.Key+" = "+s)
	}
	return compoundLiteral(info, parts), nil
}

func compoundLiteral(info api.TypeInfo, parts []string) string {
	return "(" + info.CType.Unqualified().String() + "){" + strings.Join(parts, ", ") + "}"
}
