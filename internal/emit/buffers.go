package emit

// Buffers are the named emission targets of one generation run.
type Buffers struct {
	// Predecl holds includes, typedefs, static arrays, styles and tables.
	Predecl *Writer
	// Decl holds locals declared at the top of the generated function.
	Decl *Writer
	// Impl is the generated function body.
	Impl *Writer
	// Globals holds shims and runtime functions (renderer mode).
	Globals *Writer
}

// NewBuffers returns empty buffers. Decl and Impl start one level indented
// since they land inside a function body.
func NewBuffers() *Buffers {
	b := &Buffers{Predecl: New(), Decl: New(), Impl: New(), Globals: New()}
	b.Decl.Indent()
	b.Impl.Indent()
	return b
}
