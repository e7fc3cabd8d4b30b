package gen

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/lvglgen/internal/emit"
)

// statics names file-scope definitions and keeps them unique.
type statics struct {
	strings map[string]string
	strN    int
	used    map[string]int
}

func newStatics() *statics {
	return &statics{
		strings: make(map[string]string),
		used:    make(map[string]int),
	}
}

// name returns base, or base_2, base_3... when base was already taken.
func (s *statics) name(base string) string {
	n := s.used[base]
	s.used[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n+1)
}

// internString returns the static holding text, defining it on first use.
func (g *Generator) internString(text string) string {
	if name, ok := g.statics.strings[text]; ok {
		return name
	}
	g.statics.strN++
	name := fmt.Sprintf("c_str_%d", g.statics.strN)
	g.statics.strings[text] = name
	g.bufs.Predecl.Linef("static const char %s[] = %s;", name, emit.Quote(text))
	return name
}

// staticArray defines a static const array and returns its name.
func (g *Generator) staticArray(base, elemType string, items []string) string {
	name := g.statics.name(base)
	g.bufs.Predecl.Linef("static const %s %s[] = {%s};", elemType, name, strings.Join(items, ", "))
	return name
}

// declareStyle defines a file-scope style.
func (g *Generator) declareStyle(name string) {
	g.bufs.Predecl.Linef("static lv_style_t %s;", name)
}

// registryExtern declares the runtime registry lookup used for references
// the document does not define.
func (g *Generator) registryExtern() {
	if g.externDeclared {
		return
	}
	g.externDeclared = true
	g.bufs.Predecl.Line("extern void *lvgl_json_get_registered_ptr(const char *name, const char *type);")
}

// declareLocal adds a local to the top of the generated function.
func (g *Generator) declareLocal(ctype, name string) {
	g.bufs.Decl.Linef("%s;", declarator(ctype, name))
}

// declarator joins a C type and a variable name: "lv_obj_t *obj_1".
func declarator(ctype, name string) string {
	if strings.HasSuffix(ctype, "*") {
		return ctype + name
	}
	return ctype + " " + name
}
