package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/emit"
	"github.com/leapstack-labs/lvglgen/internal/registry"
	"github.com/leapstack-labs/lvglgen/internal/uispec"
)

// SelectorType is the trailing parameter filled with 0 when omitted.
const SelectorType = "lv_style_selector_t"

// maxDerefDepth bounds chains of context variables bound to variables.
const maxDerefDepth = 32

// checkCallable reports why fn cannot be used, caching the answer.
func (g *Generator) checkCallable(fn *api.FunctionInfo) error {
	if err, ok := g.callable[fn.Name]; ok {
		return err
	}
	var err error
	if !g.filter.Allows(fn.Name) {
		err = fmt.Errorf("%s is excluded by the function filter", fn.Name)
	} else {
		err = g.ix.Representable(fn)
	}
	g.callable[fn.Name] = err
	return err
}

// setterNames is the lookup ladder for key on an entity, most specific first.
func setterNames(ent *registry.Entity, key string) []string {
	if ent.SetterPrefix == "lv_style" {
		return []string{"lv_style_set_" + key, "lv_style_" + key}
	}
	var names []string
	if ent.SetterPrefix != "" && ent.SetterPrefix != "lv_obj" {
		names = append(names, ent.SetterPrefix+"_set_"+key)
	}
	return append(names,
		"lv_obj_set_"+key,
		"lv_obj_"+key,
		"lv_obj_add_"+key,
		"lv_obj_set_style_"+key,
	)
}

// setterCandidates returns the callable ladder entries taking a target
// first. The error explains an empty result when some rung existed.
func (g *Generator) setterCandidates(ent *registry.Entity, key string) ([]*api.FunctionInfo, error) {
	var (
		out      []*api.FunctionInfo
		firstErr error
	)
	for _, name := range setterNames(ent, key) {
		fn, ok := g.ix.Function(name)
		if !ok {
			continue
		}
		if err := g.checkCallable(fn); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if fn.Arity() < 1 || !g.ix.IsTargetType(fn.Params[0].CType) {
			continue
		}
		out = append(out, fn)
	}
	return out, firstErr
}

// argPlan describes how a value maps onto a setter's parameters.
type argPlan struct {
	// spread passes array items positionally; otherwise the value is one
	// argument.
	spread bool
	// selector appends a 0 selector argument.
	selector bool
	// action is a zero-argument setter.
	action bool
}

func (g *Generator) hasSelector(fn *api.FunctionInfo) bool {
	n := len(fn.Params)
	return n >= 2 && fn.Params[n-1].CType == SelectorType
}

// takesWhole reports whether an array value fills a single parameter.
func (g *Generator) takesWhole(ctype string) bool {
	switch g.ix.Describe(ctype).Class {
	case api.ClassCoordArray, api.ClassStruct:
		return true
	}
	return false
}

// fit matches a value against a setter's arity.
func (g *Generator) fit(fn *api.FunctionInfo, v uispec.Value) (argPlan, bool) {
	m := fn.Arity() - 1
	sel := g.hasSelector(fn)
	arr, isArr := v.([]uispec.Value)
	if !isArr {
		switch {
		case m == 0:
			return argPlan{action: true}, true
		case m == 1:
			return argPlan{}, true
		case m == 2 && sel:
			return argPlan{selector: true}, true
		}
		return argPlan{}, false
	}
	if m >= 1 && g.takesWhole(fn.Params[1].CType) && (m == 1 || (m == 2 && sel)) {
		return argPlan{selector: m == 2}, true
	}
	n := len(arr)
	switch {
	case m > 1 && n == m:
		return argPlan{spread: true}, true
	case sel && n >= 1 && n == m-1:
		return argPlan{spread: true, selector: true}, true
	}
	return argPlan{}, false
}

// deref follows context variables until a concrete value is reached. The
// returned scope is the one the value must be evaluated in.
func (g *Generator) deref(v uispec.Value, s *scope, at uispec.Pointer) (uispec.Value, *scope, error) {
	for range maxDerefDepth {
		str, ok := v.(string)
		if !ok {
			return v, s, nil
		}
		cv, ok := uispec.ClassifyString(str).(uispec.ContextVar)
		if !ok {
			return v, s, nil
		}
		val, outer, found := s.lookup(cv.Name)
		if !found {
			return nil, nil, g.unbound(cv.Name, s, at)
		}
		v, s = val, outer
	}
	return nil, nil, NewSemanticErrorf(at, "context variables nested too deeply")
}

func (g *Generator) unbound(name string, s *scope, at uispec.Pointer) error {
	visible := s.names()
	if len(visible) == 0 {
		return NewSemanticErrorf(at, "unbound context variable $%s", name)
	}
	return NewSemanticErrorf(at, "unbound context variable $%s (visible: %s)", name, strings.Join(visible, ", "))
}

// applyAttributes emits one setter per non-meta key, in document order.
// Semantic failures are reported per attribute.
func (g *Generator) applyAttributes(ent *registry.Entity, node *uispec.Object, f frame) error {
	var grid *gridState
	if ent.OriginalType == TypeGrid {
		grid = &gridState{}
	}
	for _, p := range node.Pairs() {
		at := f.ptr.Key(p.Key)
		var err error
		switch {
		case p.Key == "with":
			err = g.applyWith(ent, p.Value, f, at)
		case IsMetaKey(p.Key):
			continue
		case grid != nil && (p.Key == "cols" || p.Key == "rows"):
			err = g.gridTemplate(ent, grid, p.Key, p.Value, f, at)
		default:
			err = g.applySetter(ent, p.Key, p.Value, f, at)
		}
		if err := g.report(err); err != nil {
			return err
		}
	}
	if grid != nil {
		g.flushGrid(ent, grid)
	}
	return nil
}

// report turns a semantic error into a warning and passes anything else on.
func (g *Generator) report(err error) error {
	if err == nil {
		return nil
	}
	var se *SemanticError
	if errors.As(err, &se) {
		g.warn(se)
		return nil
	}
	return err
}

func (g *Generator) applySetter(ent *registry.Entity, key string, raw uispec.Value, f frame, at uispec.Pointer) error {
	v, vs, err := g.deref(raw, f.scope, at)
	if err != nil {
		return err
	}
	cands, why := g.setterCandidates(ent, key)
	if len(cands) == 0 {
		if why != nil {
			return WrapSemanticError(at, fmt.Sprintf("attribute %q cannot be set", key), why)
		}
		return NewSemanticErrorf(at, "unknown attribute %q for %s", key, ent.OriginalType)
	}

	for _, fn := range cands {
		plan, ok := g.fit(fn, v)
		if !ok {
			continue
		}
		c := fmtCtx{scope: vs, path: f.path, entity: ent, ptr: at, arrayBase: ent.CName + "_" + emit.Identifier(key), fn: fn.Name}
		args, emitCall, err := g.planArgs(fn, plan, v, c)
		if err != nil {
			return err
		}
		if emitCall {
			g.bufs.Impl.Linef("%s;", emit.Call(fn.Name, append([]string{ent.Expr()}, args...)...))
		}
		return nil
	}
	return NewSemanticErrorf(at, "no setter for %q accepts %s", key, describeValue(v))
}

// planArgs formats the arguments of a fitted setter. The boolean is false
// when the value asks for no call, as false on an action does.
func (g *Generator) planArgs(fn *api.FunctionInfo, plan argPlan, v uispec.Value, c fmtCtx) ([]string, bool, error) {
	if plan.action {
		switch t := v.(type) {
		case bool:
			return nil, t, nil
		case nil:
			return nil, true, nil
		}
		return nil, false, NewSemanticErrorf(c.ptr, "%s takes no value; use true or null, got %s", fn.Name, describeValue(v))
	}

	var args []string
	if plan.spread {
		items := v.([]uispec.Value)
		for i, item := range items {
			ic := c
			ic.ptr = c.ptr.Index(i)
			s, err := g.format(item, fn.Params[i+1].CType, ic)
			if err != nil {
				return nil, false, err
			}
			args = append(args, s)
		}
	} else {
		s, err := g.format(v, fn.Params[1].CType, c)
		if err != nil {
			return nil, false, err
		}
		args = append(args, s)
	}
	if plan.selector {
		args = append(args, "0")
	}
	return args, true, nil
}

func describeValue(v uispec.Value) string {
	if arr, ok := v.([]uispec.Value); ok {
		return fmt.Sprintf("an array of %d values", len(arr))
	}
	return "a " + uispec.TypeName(v)
}

// gridState tracks the column and row templates of one grid node.
type gridState struct {
	cols, rows string
	emitted    bool
}

func (g *Generator) gridTemplate(ent *registry.Entity, gs *gridState, key string, raw uispec.Value, f frame, at uispec.Pointer) error {
	v, vs, err := g.deref(raw, f.scope, at)
	if err != nil {
		return err
	}
	items, ok := v.([]uispec.Value)
	if !ok {
		return NewSemanticErrorf(at, "grid %q must be an array, got %s", key, uispec.TypeName(v))
	}
	vals := make([]string, 0, len(items)+1)
	for i, item := range items {
		s, err := g.format(item, "lv_coord_t", fmtCtx{scope: vs, path: f.path, entity: ent, ptr: at.Index(i)})
		if err != nil {
			return err
		}
		vals = append(vals, s)
	}
	if len(vals) == 0 || vals[len(vals)-1] != gridTemplateLast {
		vals = append(vals, gridTemplateLast)
	}
	name := g.staticArray(ent.CName+"_"+key, "lv_coord_t", vals)
	if key == "cols" {
		gs.cols = name
	} else {
		gs.rows = name
	}
	if gs.cols != "" && gs.rows != "" {
		g.emitGrid(ent, gs)
	}
	return nil
}

const gridTemplateLast = "LV_GRID_TEMPLATE_LAST"

func (g *Generator) flushGrid(ent *registry.Entity, gs *gridState) {
	if !gs.emitted && (gs.cols != "" || gs.rows != "") {
		g.emitGrid(ent, gs)
	}
}

func (g *Generator) emitGrid(ent *registry.Entity, gs *gridState) {
	cols, rows := gs.cols, gs.rows
	if cols == "" {
		cols = "NULL"
	}
	if rows == "" {
		rows = "NULL"
	}
	g.bufs.Impl.Linef("%s;", emit.Call("lv_obj_set_grid_dsc_array", ent.Expr(), cols, rows))
	gs.emitted = true
}

// applyWith runs one or more with blocks against the current entity.
func (g *Generator) applyWith(ent *registry.Entity, v uispec.Value, f frame, at uispec.Pointer) error {
	switch t := v.(type) {
	case *uispec.Object:
		return g.withBlock(ent, t, f, at)
	case []uispec.Value:
		for i, item := range t {
			block, ok := item.(*uispec.Object)
			if !ok {
				return NewInputErrorf(at.Index(i), "with block must be an object, got %s", uispec.TypeName(item))
			}
			if err := g.report(g.withBlock(ent, block, f, at.Index(i))); err != nil {
				return err
			}
		}
		return nil
	default:
		return NewInputErrorf(at, "\"with\" must be an object or an array, got %s", uispec.TypeName(v))
	}
}

func (g *Generator) withBlock(ent *registry.Entity, block *uispec.Object, f frame, at uispec.Pointer) error {
	target := ent
	if ov, ok := block.Get("obj"); ok {
		t, err := g.withTarget(ov, ent, f.scope, f.path, at.Key("obj"))
		if err != nil {
			return err
		}
		target = t
	}
	do, ok, err := objectField(block, "do", at)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return g.populate(do, target, frame{parent: f.parent, scope: f.scope, path: f.path, ptr: at.Key("do")})
}

// withTarget resolves the obj of a with block to an entity.
func (g *Generator) withTarget(v uispec.Value, cur *registry.Entity, s *scope, path string, at uispec.Pointer) (*registry.Entity, error) {
	v, s, err := g.deref(v, s, at)
	if err != nil {
		return nil, err
	}
	form, err := uispec.Classify(v)
	if err != nil {
		return nil, WrapSemanticError(at, "invalid with target", err)
	}
	switch t := form.(type) {
	case uispec.Ref:
		e, ok := g.reg.Resolve(t.Name, path)
		if !ok {
			return nil, NewSemanticErrorf(at, "unknown reference @%s", t.Name)
		}
		return e, nil
	case uispec.Call:
		expr, ret, err := g.formatCall(t, fmtCtx{scope: s, path: path, entity: cur, ptr: at})
		if err != nil {
			return nil, err
		}
		if !strings.HasSuffix(ret, "*") {
			return nil, NewSemanticErrorf(at, "with target %s returns %s, not a pointer", t.Fn, ret)
		}
		g.withCount++
		name := fmt.Sprintf("with_%d", g.withCount)
		local := strings.TrimPrefix(ret, "const ")
		g.declareLocal(local, name)
		g.bufs.Impl.Linef("%s = %s;", name, castIfConst(ret, local, expr))
		return &registry.Entity{
			CName:        name,
			CType:        local,
			IsPointer:    true,
			OriginalType: "with",
			SetterPrefix: setterPrefixFor(local),
		}, nil
	default:
		return nil, NewSemanticErrorf(at, "with target must be a reference, a context variable or a call")
	}
}

func castIfConst(ret, local, expr string) string {
	if ret == local {
		return expr
	}
	return "(" + local + ")" + expr
}

// setterPrefixFor derives the setter prefix from a pointer type:
// "lv_label_t *" becomes "lv_label".
func setterPrefixFor(ctype string) string {
	c, err := api.ParseCType(ctype)
	if err != nil || !strings.HasPrefix(c.Base, "lv_") {
		return "lv_obj"
	}
	return strings.TrimSuffix(c.Base, "_t")
}
