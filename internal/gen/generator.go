// Package gen implements transpile mode: it walks a UI document once and
// emits a straight-line C function that builds the described widget tree.
package gen

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/emit"
	"github.com/leapstack-labs/lvglgen/internal/enumtable"
	"github.com/leapstack-labs/lvglgen/internal/registry"
	"github.com/leapstack-labs/lvglgen/internal/uispec"
)

// DefaultName is the UI name used when none is configured.
const DefaultName = "main"

// DefaultParentParam is the parameter name of the generated function.
const DefaultParentParam = "parent"

// Options configures a transpile run.
type Options struct {
	Index *api.Index
	// Enums resolves identifiers; nil builds the default table from Index.
	Enums *enumtable.Table
	// Filter limits the callable functions; nil allows all.
	Filter *api.Filter
	// Name is the UI name in create_ui_<name> and the output file names.
	Name string
	// ParentParam names the lv_obj_t * parameter of create_ui_<name>.
	ParentParam string
	// Source is the UI document path, quoted in the generated banner.
	Source string
	Logger *slog.Logger
}

// Output is the result of a transpile run.
type Output struct {
	FuncName   string
	SourceFile string
	HeaderFile string
	Source     string
	Header     string
	// Entities is the number of widgets and styles created.
	Entities    int
	Diagnostics Diagnostics
}

// Generator holds the state of one traversal.
type Generator struct {
	ix     *api.Index
	enums  *enumtable.Table
	filter *api.Filter
	logger *slog.Logger

	name        string
	parentParam string
	source      string

	bufs       *emit.Buffers
	reg        *registry.Registry
	components map[string]*uispec.Object

	counter   int
	withCount int
	entities  int

	statics *statics

	externDeclared bool
	callable       map[string]error
	diags          Diagnostics
}

// New creates a generator for one document.
func New(opts Options) (*Generator, error) {
	if opts.Index == nil {
		return nil, errors.New("gen: an API index is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	enums := opts.Enums
	if enums == nil {
		enums = enumtable.New(opts.Index, enumtable.DefaultMacros, nil)
	}
	name := opts.Name
	if name == "" {
		name = DefaultName
	}
	parent := opts.ParentParam
	if parent == "" {
		parent = DefaultParentParam
	}
	return &Generator{
		ix:          opts.Index,
		enums:       enums,
		filter:      opts.Filter,
		logger:      logger,
		name:        emit.Identifier(name),
		parentParam: parent,
		source:      opts.Source,
		bufs:        emit.NewBuffers(),
		reg:         registry.New(logger),
		components:  make(map[string]*uispec.Object),
		statics:     newStatics(),
		callable:    make(map[string]error),
	}, nil
}

// Transpile generates the C source and header for a UI document.
func Transpile(doc uispec.Value, opts Options) (*Output, error) {
	g, err := New(opts)
	if err != nil {
		return nil, err
	}
	if err := g.Run(doc); err != nil {
		var ie *InputError
		if errors.As(err, &ie) && ie.File == "" {
			ie.File = opts.Source
		}
		return nil, err
	}
	return g.Output(), nil
}

// Run processes the document: a node, or an array of nodes rendered in
// order under the parent parameter.
func (g *Generator) Run(doc uispec.Value) error {
	root := g.rootFrame()
	switch d := doc.(type) {
	case *uispec.Object:
		return g.processGuarded(d, root)
	case []uispec.Value:
		for i, n := range d {
			f := root
			f.ptr = root.ptr.Index(i)
			if err := g.processGuarded(n, f); err != nil {
				return err
			}
		}
		return nil
	default:
		return NewInputErrorf(uispec.Pointer{}, "UI document must be an object or an array, got %s", uispec.TypeName(doc))
	}
}

// FuncName is the generated entry point name.
func (g *Generator) FuncName() string {
	return "create_ui_" + g.name
}

// Diagnostics returns the warnings reported so far.
func (g *Generator) Diagnostics() Diagnostics {
	return g.diags
}

// Registry exposes the entities registered by the traversal.
func (g *Generator) Registry() *registry.Registry {
	return g.reg
}

// warn records a diagnostic, logs it and leaves a comment in the body.
func (g *Generator) warn(err error) {
	var (
		ptr uispec.Pointer
		msg = err.Error()
	)
	var ge Error
	if errors.As(err, &ge) {
		ptr = ge.Pointer()
		if be, ok := ge.(interface{ Message() string }); ok {
			msg = be.Message()
		}
		var se *SemanticError
		if errors.As(err, &se) && se.Cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, se.Cause)
		}
	}
	d := Diagnostic{Pointer: ptr.Display(), Message: msg}
	g.diags = append(g.diags, d)
	g.logger.Warn(msg, slog.String("pointer", d.Pointer))
	g.bufs.Impl.Comment("lvglgen: " + d.String())
}

// Output assembles the C source and header.
func (g *Generator) Output() *Output {
	fn := g.FuncName()
	header := "ui_" + g.name + ".h"
	return &Output{
		FuncName:    fn,
		SourceFile:  "ui_" + g.name + ".c",
		HeaderFile:  header,
		Source:      g.assembleSource(fn, header),
		Header:      g.assembleHeader(fn),
		Entities:    g.entities,
		Diagnostics: g.diags,
	}
}

func (g *Generator) banner() string {
	if g.source != "" {
		return fmt.Sprintf("/* Generated by lvglgen from %s. Do not edit. */\n", emit.CommentSafe(g.source))
	}
	return "/* Generated by lvglgen. Do not edit. */\n"
}

func (g *Generator) prototype(fn string) string {
	return fmt.Sprintf("void %s(lv_obj_t *%s)", fn, g.parentParam)
}

func (g *Generator) assembleSource(fn, header string) string {
	w := emit.New()
	w.Raw(g.banner())
	w.Blank()
	w.Line(`#include "lvgl.h"`)
	w.Linef(`#include "%s"`, header)
	w.Blank()
	if !g.bufs.Predecl.Empty() {
		w.Append(g.bufs.Predecl)
		w.Blank()
	}
	w.Line(g.prototype(fn) + " {")
	if !g.bufs.Decl.Empty() {
		w.Raw(g.bufs.Decl.String())
		w.Blank()
	}
	w.Raw(g.bufs.Impl.String())
	w.Line("}")
	return w.String()
}

func (g *Generator) assembleHeader(fn string) string {
	guard := strings.ToUpper("UI_"+g.name) + "_H"
	w := emit.New()
	w.Raw(g.banner())
	w.Linef("#ifndef %s", guard)
	w.Linef("#define %s", guard)
	w.Blank()
	w.Line(`#include "lvgl.h"`)
	w.Blank()
	w.Line("#ifdef __cplusplus")
	w.Line(`extern "C" {`)
	w.Line("#endif")
	w.Blank()
	w.Line(g.prototype(fn) + ";")
	w.Blank()
	w.Line("#ifdef __cplusplus")
	w.Line(`} /* extern "C" */`)
	w.Line("#endif")
	w.Blank()
	w.Linef("#endif /* %s */", guard)
	return w.String()
}
