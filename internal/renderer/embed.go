package renderer

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/lvglgen/internal/emit"
	"github.com/leapstack-labs/lvglgen/internal/enumtable"
	"github.com/leapstack-labs/lvglgen/internal/gen"
	"github.com/leapstack-labs/lvglgen/internal/uispec"
)

// embedLineWidth is the byte width of each quoted piece of the embedded UI.
const embedLineWidth = 96

// embedUI checks the document with a transpile run whose output is discarded
// and returns its diagnostics and the quoted JSON pieces.
func embedUI(opts Options, enums *enumtable.Table, logger *slog.Logger) (gen.Diagnostics, []string, error) {
	dry, err := gen.Transpile(opts.UI, gen.Options{
		Index:  opts.Index,
		Enums:  enums,
		Filter: opts.Filter,
		Source: opts.Source,
		Logger: logger.With(slog.String("check", "embedded")),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("embedded UI: %w", err)
	}
	data, err := uispec.Encode(opts.UI)
	if err != nil {
		return nil, nil, fmt.Errorf("embedded UI: %w", err)
	}
	return dry.Diagnostics, quoteLines(string(data), embedLineWidth), nil
}

// quoteLines splits s into C string literals of at most width source bytes.
func quoteLines(s string, width int) []string {
	if s == "" {
		return []string{`""`}
	}
	var out []string
	for len(s) > width {
		out = append(out, emit.Quote(s[:width]))
		s = s[width:]
	}
	return append(out, emit.Quote(s))
}
