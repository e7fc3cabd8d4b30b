package renderer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/emit"
	"github.com/leapstack-labs/lvglgen/internal/gen"
)

// SelectorType is the trailing parameter defaulted to 0 when omitted.
const SelectorType = gen.SelectorType

// Invoke entry flags, mirrored by the INVOKE_* macros of the runtime.
const (
	FlagTarget   = 0x01
	FlagSelector = 0x02
	FlagWhole    = 0x04
)

var createPattern = regexp.MustCompile(`^lv_[a-z0-9_]+_create$`)

// shim is the generated invoker of one signature class.
type shim struct {
	Name      string
	Signature api.Signature
	Functions []*api.FunctionInfo
	target    bool
	selector  bool
}

// invokeEntry is one row of the runtime invoke table.
type invokeEntry struct {
	Name  string
	Shim  string
	Arity int
	Flags int
	// Ret is the return type a nested call must match.
	Ret string
}

// invokeTable holds the shims and entries for the included functions.
type invokeTable struct {
	shims   []shim
	entries []invokeEntry
	creates int
}

func isCreateShape(f *api.FunctionInfo) bool {
	return createPattern.MatchString(f.Name) &&
		f.Arity() == 1 &&
		f.Params[0].CType == "lv_obj_t *" &&
		f.Return == "lv_obj_t *"
}

// buildInvokeTable groups fns by signature. Widget constructors share the
// dedicated create invoker instead of a signature shim.
func buildInvokeTable(ix *api.Index, fns []*api.FunctionInfo, types *typeMap) (*invokeTable, error) {
	t := &invokeTable{}
	var grouped []*api.FunctionInfo
	for _, f := range fns {
		if isCreateShape(f) {
			t.creates++
			continue
		}
		grouped = append(grouped, f)
	}

	shimOf := make(map[string]string)
	for i, g := range ix.GroupBySignature(grouped) {
		if g.Signature.Args == nil {
			g.Signature.Args = []string{}
		}
		s := shim{
			Name:      fmt.Sprintf("invoke_sig_%d", i+1),
			Signature: g.Signature,
			Functions: g.Functions,
		}
		args := g.Signature.Args
		s.target = len(args) > 0 && ix.IsTargetType(args[0])
		s.selector = len(args) > 1 && args[len(args)-1] == SelectorType
		for _, a := range args {
			if _, ok := types.add(a); !ok {
				return nil, fmt.Errorf("no unmarshaler for %s in %s", a, g.Signature)
			}
		}
		t.shims = append(t.shims, s)
		for _, f := range g.Functions {
			shimOf[f.Name] = s.Name
		}
	}

	for _, f := range fns {
		e := invokeEntry{Name: f.Name, Arity: f.Arity(), Ret: f.Return}
		if isCreateShape(f) {
			e.Shim = "invoke_create"
			e.Flags = FlagTarget
		} else {
			e.Shim = shimOf[f.Name]
			e.Flags = entryFlags(ix, f)
		}
		t.entries = append(t.entries, e)
	}
	return t, nil
}

func entryFlags(ix *api.Index, f *api.FunctionInfo) int {
	var flags int
	n := f.Arity()
	if n > 0 && ix.IsTargetType(f.Params[0].CType) {
		flags |= FlagTarget
	}
	if n > 1 && f.Params[n-1].CType == SelectorType {
		flags |= FlagSelector
	}
	if n > 1 {
		switch ix.Describe(f.Params[1].CType).Class {
		case api.ClassCoordArray, api.ClassStruct:
			flags |= FlagWhole
		}
	}
	return flags
}

func flagExpr(flags int) string {
	var parts []string
	if flags&FlagTarget != 0 {
		parts = append(parts, "INVOKE_TARGET")
	}
	if flags&FlagSelector != 0 {
		parts = append(parts, "INVOKE_SELECTOR")
	}
	if flags&FlagWhole != 0 {
		parts = append(parts, "INVOKE_WHOLE")
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " | ")
}

// localType is the type of a shim local holding an argument: top-level
// qualifiers are dropped from non-pointer types.
func localType(ctype string) string {
	c, err := api.ParseCType(ctype)
	if err != nil || c.Pointers > 0 {
		return ctype
	}
	return c.Unqualified().String()
}

func declarator(ctype, name string) string {
	if strings.HasSuffix(ctype, "*") {
		return ctype + name
	}
	return ctype + " " + name
}

// write emits the shims, the create invoker, the table and its lookup.
func (t *invokeTable) write(w *emit.Writer) {
	w.Line("/* Invokers */")
	w.Blank()
	if t.creates > 0 {
		writeCreate(w)
	}
	for _, s := range t.shims {
		s.write(w)
	}

	w.Line("static const invoke_entry_t g_invoke_table[] = {")
	w.Indent()
	for _, e := range t.entries {
		w.Linef("{%s, %s, (void *)%s, %d, %s, %s},", emit.Quote(e.Name), e.Shim, e.Name, e.Arity, flagExpr(e.Flags), emit.Quote(e.Ret))
	}
	w.Line("{NULL, NULL, NULL, 0, 0, NULL},")
	w.Dedent()
	w.Line("};")
	w.Blank()

	w.Block("static const invoke_entry_t *find_invoke_entry(const char *name)", func() {
		w.Line("const invoke_entry_t *e;")
		w.Block("for (e = g_invoke_table; e->name; e++)", func() {
			w.Block("if (strcmp(e->name, name) == 0)", func() {
				w.Line("return e;")
			}, "")
		}, "")
		w.Line("return NULL;")
	}, "")
	w.Blank()
}

func writeCreate(w *emit.Writer) {
	w.Line("typedef lv_obj_t *(*create_fn_t)(lv_obj_t *parent);")
	w.Blank()
	w.Comment("invoke_create calls lv_<widget>_create with target as the parent.")
	w.Block("static bool invoke_create(void *target, void *dest, cJSON *args, void *fn)", func() {
		w.Line("lv_obj_t *parent = (lv_obj_t *)target;")
		w.Line("lv_obj_t *obj;")
		w.Block("if (cJSON_GetArraySize(args) == 1)", func() {
			w.Block(`if (!unmarshal_value(cJSON_GetArrayItem(args, 0), "lv_obj_t *", &parent, target))`, func() {
				w.Line("return false;")
			}, "")
		}, "")
		w.Line("obj = ((create_fn_t)fn)(parent);")
		w.Block("if (!obj)", func() {
			w.Line("return false;")
		}, "")
		w.Block("if (dest)", func() {
			w.Line("*(lv_obj_t **)dest = obj;")
		}, "")
		w.Line("return true;")
	}, "")
	w.Blank()
}

func (s shim) write(w *emit.Writer) {
	args := s.Signature.Args
	nargs := len(args)
	typedef := strings.TrimPrefix(s.Name, "invoke_") + "_fn_t"
	params := "void"
	if nargs > 0 {
		params = strings.Join(args, ", ")
	}
	ret := localType(s.Signature.Return)
	w.Linef("typedef %s(*%s)(%s);", spaced(ret), typedef, params)
	names := make([]string, 0, len(s.Functions))
	for _, f := range s.Functions {
		names = append(names, f.Name)
	}
	w.Comment(s.Signature.String() + ": " + strings.Join(names, ", "))
	w.Block(fmt.Sprintf("static bool %s(void *target, void *dest, cJSON *args, void *fn)", s.Name), func() {
		locals := make([]string, nargs)
		for i, a := range args {
			locals[i] = fmt.Sprintf("a%d", i)
			w.Linef("%s;", declarator(localType(a), locals[i]))
		}
		w.Line("int n = cJSON_GetArraySize(args);")
		if s.target {
			w.Line("int skip = 0;")
		}
		if s.selector {
			w.Line("int tail = 0;")
		}
		if nargs == 0 {
			w.Line("(void)target;")
		}
		for _, l := range locals {
			w.Linef("memset(&%s, 0, sizeof(%s));", l, l)
		}

		w.Linef("if (n == %d) {", nargs)
		if s.target {
			w.Linef("} else if (target && n == %d) {", nargs-1)
			w.Line("    skip = 1;")
			if s.selector && nargs >= 2 {
				w.Linef("} else if (target && n == %d) {", nargs-2)
				w.Line("    skip = 1;")
				w.Line("    tail = 1;")
			}
		} else if s.selector {
			w.Linef("} else if (n == %d) {", nargs-1)
			w.Line("    tail = 1;")
		}
		w.Line("} else {")
		w.Linef("    LVGL_JSON_LOG_ERR(\"lvgl_json: %%s expects %d arguments, got %%d\", %s, n);", nargs, emit.Quote(strings.Join(names, "/")))
		w.Line("    return false;")
		w.Line("}")

		if s.target {
			w.Block("if (skip)", func() {
				w.Linef("a0 = (%s)target;", localType(args[0]))
			}, "")
		}
		for i, a := range args {
			idx := fmt.Sprint(i)
			var guards []string
			if s.target {
				idx += " - skip"
				if i == 0 {
					guards = append(guards, "!skip")
				}
			}
			if s.selector && i == nargs-1 {
				guards = append(guards, "!tail")
			}
			call := fmt.Sprintf("!unmarshal_value(cJSON_GetArrayItem(args, %s), %s, &%s, target)", idx, emit.Quote(a), locals[i])
			cond := strings.Join(append(guards, call), " && ")
			w.Block("if ("+cond+")", func() {
				w.Line("return false;")
			}, "")
		}

		invoke := fmt.Sprintf("((%s)fn)(%s)", typedef, strings.Join(locals, ", "))
		if ret == "void" {
			w.Line("(void)dest;")
			w.Linef("%s;", invoke)
		} else {
			w.Block("if (dest)", func() {
				w.Linef("*(%s)dest = %s;", pointerTo(ret), invoke)
			}, " else {")
			w.Indent()
			w.Linef("%s;", invoke)
			w.Dedent()
			w.Line("}")
		}
		w.Line("return true;")
	}, "")
	w.Blank()
}

// pointerTo is the C type of a pointer to ctype.
func pointerTo(ctype string) string {
	if strings.HasSuffix(ctype, "*") {
		return ctype + "*"
	}
	return ctype + " *"
}

// spaced appends the space a declarator needs after a non-pointer type.
func spaced(ctype string) string {
	if strings.HasSuffix(ctype, "*") {
		return ctype
	}
	return ctype + " "
}
