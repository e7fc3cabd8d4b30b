package api

// Position is where a type appears; it decides whether arrays decay.
type Position int

const (
	// PosArg is a function parameter: arrays decay to pointers.
	PosArg Position = iota
	// PosReturn is a function return type.
	PosReturn
	// PosField is a struct or union member: known dimensions are kept.
	PosField
)

// maxTypeDepth caps chain and typedef walks.
const maxTypeDepth = 16

// Variadic is the base name produced for "..." parameters.
const Variadic = "..."

// ResolveType returns the canonical C type string of a type chain.
func (ix *Index) ResolveType(t *Type, pos Position) string {
	return ix.Resolve(t, pos).String()
}

// Resolve returns the canonical C type of a type chain. Qualifiers on the
// outermost level of a non-pointer type are dropped: they do not take part
// in a C function type.
func (ix *Index) Resolve(t *Type, pos Position) CType {
	c := ix.resolve(t, pos, 0)
	if c.Pointers == 0 && c.Dim < 0 {
		c = c.Unqualified()
	}
	return c
}

func (ix *Index) resolve(t *Type, pos Position, depth int) CType {
	if t == nil || depth > maxTypeDepth {
		return CType{Base: "void", Dim: UnknownDim}
	}
	switch t.Kind {
	case KindRetType, KindArg, KindField:
		inner := ix.resolve(t.Type, pos, depth+1)
		return applyQuals(inner, t)
	case KindPointer:
		inner := ix.resolve(t.Type, pos, depth+1)
		inner.Dim = UnknownDim
		inner.Pointers++
		return inner
	case KindArray:
		inner := ix.resolve(t.Type, pos, depth+1)
		if pos == PosField && t.Dim >= 0 && inner.Dim < 0 {
			inner.Dim = t.Dim
			return inner
		}
		inner.Dim = UnknownDim
		inner.Pointers++
		return inner
	case KindFuncPtr:
		// Inline function pointers travel as opaque pointers; callers that
		// care check the chain with IsCallback.
		return CType{Base: "void", Pointers: 1, Dim: UnknownDim}
	case KindSpecial:
		return CType{Base: Variadic, Dim: UnknownDim}
	case KindPrimitive, KindStdlib:
		return applyQuals(CType{Base: t.Name, Dim: UnknownDim}, t)
	case KindTypedef:
		if t.Name == "" {
			return applyQuals(ix.resolve(t.Type, pos, depth+1), t)
		}
		return applyQuals(CType{Base: ix.canonicalName(t.Name), Dim: UnknownDim}, t)
	default:
		// lvgl_type, enum, struct, union, forward_decl, unknown_type
		if t.Name == "" {
			if t.Type != nil {
				return applyQuals(ix.resolve(t.Type, pos, depth+1), t)
			}
			return CType{Base: "int", Dim: UnknownDim}
		}
		return applyQuals(CType{Base: ix.canonicalName(t.Name), Dim: UnknownDim}, t)
	}
}

// applyQuals puts the node's qualifiers on the base of an unqualified
// pointee. Qualifiers of pointer levels are not part of the canonical form.
func applyQuals(c CType, t *Type) CType {
	if c.Pointers > 0 {
		return c
	}
	if t.HasQual("const") {
		c.Const = true
	}
	if t.HasQual("volatile") {
		c.Volatile = true
	}
	return c
}

// canonicalName maps a struct, union or enum tag to the typedef that
// aliases it, so "_lv_obj_t" prints as "lv_obj_t".
func (ix *Index) canonicalName(name string) string {
	if _, ok := ix.typedefs[name]; ok {
		return name
	}
	if alias, ok := ix.tagAlias[name]; ok {
		return alias
	}
	return name
}

// IsCallback reports whether the chain is, or names, a function pointer.
func (ix *Index) IsCallback(t *Type) bool {
	return ix.isCallback(t, 0)
}

func (ix *Index) isCallback(t *Type, depth int) bool {
	if t == nil || depth > maxTypeDepth {
		return false
	}
	switch t.Kind {
	case KindFuncPtr:
		return true
	case KindRetType, KindArg, KindField:
		return ix.isCallback(t.Type, depth+1)
	case KindPointer, KindArray:
		return false
	}
	if t.Name == "" {
		return ix.isCallback(t.Type, depth+1)
	}
	return ix.Underlying(t.Name).Kind == KindFuncPtr
}
