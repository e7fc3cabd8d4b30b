package gen

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/lvglgen/internal/emit"
	"github.com/leapstack-labs/lvglgen/internal/registry"
	"github.com/leapstack-labs/lvglgen/internal/uispec"
)

// Reserved node types.
const (
	TypeComponent = "component"
	TypeUseView   = "use-view"
	TypeContext   = "context"
	TypeGrid      = "grid"
	TypeStyle     = "style"
	DefaultType   = "obj"
)

// Meta keys are never treated as setters.
var metaKeys = map[string]bool{
	"type":     true,
	"id":       true,
	"context":  true,
	"children": true,
	"named":    true,
	"with":     true,
	"do":       true,
}

// IsMetaKey reports whether key is interpreted by the node processor.
func IsMetaKey(key string) bool {
	return metaKeys[key]
}

var widgetTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// frame is the traversal position of one node.
type frame struct {
	parent *registry.Entity
	scope  *scope
	path   string
	ptr    uispec.Pointer
}

func (g *Generator) rootFrame() frame {
	return frame{parent: &registry.Entity{
		CName:        g.parentParam,
		CType:        "lv_obj_t *",
		IsPointer:    true,
		OriginalType: "parent",
		SetterPrefix: "lv_obj",
	}}
}

// processGuarded processes one node; a semantic error replaces the node
// with a warning comment and is not returned.
func (g *Generator) processGuarded(v uispec.Value, f frame) error {
	err := g.processNode(v, f)
	var se *SemanticError
	if errors.As(err, &se) {
		g.warn(se)
		return nil
	}
	return err
}

func (g *Generator) processNode(v uispec.Value, f frame) error {
	node, ok := v.(*uispec.Object)
	if !ok {
		return NewInputErrorf(f.ptr, "node must be an object, got %s", uispec.TypeName(v))
	}
	typ, _, err := stringField(node, "type", f.ptr)
	if err != nil {
		return err
	}
	if typ == "" {
		typ = DefaultType
	}

	switch typ {
	case TypeComponent:
		return g.defineComponent(node, f)
	case TypeUseView:
		return g.useView(node, f)
	case TypeContext:
		return g.contextNode(node, f)
	case TypeStyle:
		return g.createStyle(node, f)
	default:
		return g.createWidget(node, typ, f)
	}
}

// stringField reads an optional string key; any other type is a schema
// violation.
func stringField(node *uispec.Object, key string, at uispec.Pointer) (string, bool, error) {
	v, ok := node.Get(key)
	if !ok {
		return "", false, nil
	}
	s, isStr := v.(string)
	if !isStr {
		return "", true, NewInputErrorf(at.Key(key), "%q must be a string, got %s", key, uispec.TypeName(v))
	}
	return s, true, nil
}

// objectField reads an optional object key.
func objectField(node *uispec.Object, key string, at uispec.Pointer) (*uispec.Object, bool, error) {
	v, ok := node.Get(key)
	if !ok {
		return nil, false, nil
	}
	o, isObj := v.(*uispec.Object)
	if !isObj {
		return nil, true, NewInputErrorf(at.Key(key), "%q must be an object, got %s", key, uispec.TypeName(v))
	}
	return o, true, nil
}

// componentID reads the required "@name" id of component and use-view nodes.
func componentID(node *uispec.Object, kind string, at uispec.Pointer) (string, error) {
	id, ok, err := stringField(node, "id", at)
	if err != nil {
		return "", err
	}
	if !ok || len(id) < 2 || !strings.HasPrefix(id, "@") {
		return "", NewInputErrorf(at, "%s requires an id starting with '@'", kind)
	}
	return id[1:], nil
}

func (g *Generator) defineComponent(node *uispec.Object, f frame) error {
	name, err := componentID(node, TypeComponent, f.ptr)
	if err != nil {
		return err
	}
	root, ok, err := objectField(node, "root", f.ptr)
	if err != nil {
		return err
	}
	if !ok {
		return NewInputErrorf(f.ptr, "component @%s requires a \"root\" node", name)
	}
	if _, dup := g.components[name]; dup {
		g.warn(NewSemanticErrorf(f.ptr, "component @%s redefined, replacing earlier definition", name))
	}
	g.components[name] = root
	return nil
}

func (g *Generator) useView(node *uispec.Object, f frame) error {
	name, err := componentID(node, TypeUseView, f.ptr)
	if err != nil {
		return err
	}
	ctx, _, err := objectField(node, "context", f.ptr)
	if err != nil {
		return err
	}
	root, ok := g.components[name]
	if !ok {
		return NewSemanticErrorf(f.ptr, "use-view of undefined component @%s", name)
	}
	for _, k := range node.Keys() {
		if k != "type" && k != "id" && k != "context" {
			g.logger.Debug("ignoring key on use-view", "key", k, "pointer", f.ptr.Display())
		}
	}
	inst := root.Clone()
	return g.processNode(inst, frame{
		parent: f.parent,
		scope:  f.scope.extend(ctx),
		path:   f.path,
		ptr:    f.ptr,
	})
}

func (g *Generator) contextNode(node *uispec.Object, f frame) error {
	values, ok, err := objectField(node, "values", f.ptr)
	if err != nil {
		return err
	}
	if !ok {
		return NewInputErrorf(f.ptr, "context node requires a \"values\" object")
	}
	body, ok, err := objectField(node, "for", f.ptr)
	if err != nil {
		return err
	}
	if !ok {
		return NewInputErrorf(f.ptr, "context node requires a \"for\" node")
	}
	return g.processNode(body, frame{
		parent: f.parent,
		scope:  f.scope.extend(values),
		path:   f.path,
		ptr:    f.ptr.Key("for"),
	})
}

func (g *Generator) createStyle(node *uispec.Object, f frame) error {
	g.counter++
	name := fmt.Sprintf("c_style_%d", g.counter)
	g.declareStyle(name)
	g.bufs.Impl.Linef("lv_style_init(&%s);", name)
	g.entities++

	ent := &registry.Entity{
		CName:        name,
		CType:        "lv_style_t",
		IsPointer:    false,
		OriginalType: TypeStyle,
		SetterPrefix: "lv_style",
	}
	return g.populate(node, ent, f)
}

func (g *Generator) createWidget(node *uispec.Object, typ string, f frame) error {
	if !widgetTypePattern.MatchString(typ) {
		return NewSemanticErrorf(f.ptr.Key("type"), "invalid widget type %q", typ)
	}
	prefix := "lv_" + typ
	ctor := prefix + "_create"
	if typ == TypeGrid {
		prefix = "lv_obj"
		ctor = "lv_obj_create"
	}
	fn, ok := g.ix.Function(ctor)
	if !ok {
		return NewSemanticErrorf(f.ptr.Key("type"), "unknown widget type %q: no %s in the API", typ, ctor)
	}
	if err := g.checkCallable(fn); err != nil {
		return WrapSemanticError(f.ptr.Key("type"), "constructor "+ctor+" cannot be called", err)
	}
	if fn.Arity() != 1 || !strings.HasSuffix(fn.Return, "*") {
		return NewSemanticErrorf(f.ptr.Key("type"), "%s is not a constructor of the form T *(lv_obj_t *parent)", ctor)
	}

	g.counter++
	cname := fmt.Sprintf("%s_%d", emit.Identifier(typ), g.counter)
	g.bufs.Impl.Linef("%s = %s;", declarator(fn.Return, cname), emit.Call(ctor, f.parent.Expr()))
	g.entities++

	ent := &registry.Entity{
		CName:        cname,
		CType:        fn.Return,
		IsPointer:    true,
		OriginalType: typ,
		SetterPrefix: prefix,
	}
	return g.populate(node, ent, f)
}

// populate registers the entity, applies the node's attributes and renders
// its children. It serves widget nodes and with/do blocks alike.
func (g *Generator) populate(node *uispec.Object, ent *registry.Entity, f frame) error {
	nf, err := g.registerNode(node, ent, f)
	if err != nil {
		return err
	}
	if err := g.applyAttributes(ent, node, nf); err != nil {
		return err
	}

	v, ok := node.Get("children")
	if !ok {
		return nil
	}
	children, isArr := v.([]uispec.Value)
	if !isArr {
		return NewInputErrorf(f.ptr.Key("children"), "\"children\" must be an array, got %s", uispec.TypeName(v))
	}
	if !ent.IsPointer {
		g.warn(NewSemanticErrorf(f.ptr.Key("children"), "%s entities cannot have children", ent.OriginalType))
		return nil
	}
	for i, child := range children {
		cf := frame{
			parent: ent,
			scope:  nf.scope,
			path:   nf.path,
			ptr:    f.ptr.Key("children").Index(i),
		}
		if err := g.processGuarded(child, cf); err != nil {
			return err
		}
	}
	return nil
}

// registerNode handles id, named and context, returning the frame the
// node's attributes and children are evaluated in.
func (g *Generator) registerNode(node *uispec.Object, ent *registry.Entity, f frame) (frame, error) {
	nf := f
	id, ok, err := stringField(node, "id", f.ptr)
	if err != nil {
		return nf, err
	}
	if ok {
		name := strings.TrimPrefix(id, "@")
		if name == "" {
			return nf, NewInputErrorf(f.ptr.Key("id"), "\"id\" must not be empty")
		}
		g.reg.Register("@"+name, ent)
	}

	named, ok, err := stringField(node, "named", f.ptr)
	if err != nil {
		return nf, err
	}
	if ok {
		if named == "" {
			return nf, NewInputErrorf(f.ptr.Key("named"), "\"named\" must not be empty")
		}
		nf.path = registry.JoinPath(f.path, named)
		g.reg.Register(nf.path, ent)
	}

	ctx, _, err := objectField(node, "context", f.ptr)
	if err != nil {
		return nf, err
	}
	nf.scope = f.scope.extend(ctx)
	return nf, nil
}
