// Package renderer implements renderer mode: it generates a C runtime that
// interprets UI documents with cJSON, backed by invocation shims for every
// callable API function, typed unmarshalers and the enum string table.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/emit"
	"github.com/leapstack-labs/lvglgen/internal/enumtable"
	"github.com/leapstack-labs/lvglgen/internal/gen"
	"github.com/leapstack-labs/lvglgen/internal/uispec"
)

// Output file names.
const (
	SourceFile = "lvgl_json_renderer.c"
	HeaderFile = "lvgl_json_renderer.h"
)

// DefaultMaxUserEnums sizes the runtime user enum table.
const DefaultMaxUserEnums = 64

// Options configures a renderer run.
type Options struct {
	Index *api.Index
	// Enums is the identifier table; nil builds the default from Index.
	Enums *enumtable.Table
	// Filter limits the functions given invokers; nil allows all.
	Filter       *api.Filter
	MaxUserEnums int
	// UI, when set, is validated and compiled into the runtime.
	UI uispec.Value
	// Source is the UI document path, used in the banner and diagnostics.
	Source string
	Logger *slog.Logger
}

// Output is the result of a renderer run.
type Output struct {
	SourceFile string
	HeaderFile string
	Source     string
	Header     string

	Included []*api.FunctionInfo
	Skipped  []api.Skipped
	// Groups is the number of signature shims.
	Groups int
	// EnumEntries is the size of the generated enum table.
	EnumEntries int
	// Diagnostics are the warnings of the embedded document.
	Diagnostics gen.Diagnostics
}

// Generate builds the runtime source and header.
func Generate(opts Options) (*Output, error) {
	if opts.Index == nil {
		return nil, errors.New("renderer: an API index is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	enums := opts.Enums
	if enums == nil {
		enums = enumtable.New(opts.Index, enumtable.DefaultMacros, nil)
	}
	maxUser := opts.MaxUserEnums
	if maxUser <= 0 {
		maxUser = DefaultMaxUserEnums
	}

	sel := opts.Index.Select(opts.Filter)
	for _, s := range sel.Skipped {
		logger.Debug("function skipped", slog.String("name", s.Function.Name), slog.String("reason", s.Reason))
	}
	logger.Info("functions selected",
		slog.Int("included", len(sel.Included)),
		slog.Int("skipped", len(sel.Skipped)),
		slog.Int("filtered", sel.Filtered))

	types := newTypeMap(opts.Index)
	table, err := buildInvokeTable(opts.Index, sel.Included, types)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	out := &Output{
		SourceFile:  SourceFile,
		HeaderFile:  HeaderFile,
		Included:    sel.Included,
		Skipped:     sel.Skipped,
		Groups:      len(table.shims),
		EnumEntries: enums.Len(),
	}

	data := &runtimeData{
		Banner:       banner(opts.Source),
		Header:       HeaderFile,
		MaxUserEnums: maxUser,
		Enums:        enumRows(enums, logger),
		EnumTypes:    types.enums,
		Structs:      types.structs,
		Types:        types.entries,
	}

	if opts.UI != nil {
		diags, lines, err := embedUI(opts, enums, logger)
		if err != nil {
			return nil, err
		}
		out.Diagnostics = diags
		data.Embedded = true
		data.UILines = lines
	}

	if out.Source, err = assemble(data, table); err != nil {
		return nil, err
	}
	if out.Header, err = execute(chunkHeader, data); err != nil {
		return nil, err
	}
	return out, nil
}

func banner(source string) string {
	if source != "" {
		return fmt.Sprintf("/* Generated by lvglgen from %s. Do not edit. */", emit.CommentSafe(source))
	}
	return "/* Generated by lvglgen. Do not edit. */"
}

// enumRows converts the table to template rows in (hash, name) order.
func enumRows(t *enumtable.Table, logger *slog.Logger) []enumRow {
	rows := make([]enumRow, 0, t.Len())
	for _, e := range t.Entries() {
		rows = append(rows, enumRow{Hash: e.Hash, Name: e.Name, Value: e.CValue()})
	}
	for _, group := range t.Collisions() {
		names := make([]string, len(group))
		for i, e := range group {
			names[i] = e.Name
		}
		logger.Debug("enum hash collision", slog.Any("names", names))
	}
	return rows
}

func assemble(data *runtimeData, table *invokeTable) (string, error) {
	w := emit.New()
	for _, name := range []string{chunkHead, chunkEnums, chunkPrims, chunkValue} {
		s, err := execute(name, data)
		if err != nil {
			return "", err
		}
		w.Raw(s)
		w.Blank()
	}
	table.write(w)
	tail := []string{chunkRender}
	if data.Embedded {
		tail = append(tail, chunkEmbed)
	}
	for _, name := range tail {
		s, err := execute(name, data)
		if err != nil {
			return "", err
		}
		w.Raw(s)
		w.Blank()
	}
	return w.String(), nil
}
