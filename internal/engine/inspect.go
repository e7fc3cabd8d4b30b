package engine

import (
	"context"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/enumtable"
)

// Report describes what a preview run would include, without writing
// anything.
type Report struct {
	Included []*api.FunctionInfo
	Skipped  []api.Skipped
	// Filtered counts functions rejected by the include/exclude patterns.
	Filtered int
	Groups   []api.SignatureGroup
	Enums    []enumtable.Entry
}

// Inspect loads the inputs and reports the function selection, the
// signature classes and the enum table.
func (e *Engine) Inspect(ctx context.Context) (*Report, error) {
	in, err := e.Load(ctx)
	if err != nil {
		return nil, err
	}
	sel := in.Index.Select(e.filter)
	return &Report{
		Included: sel.Included,
		Skipped:  sel.Skipped,
		Filtered: sel.Filtered,
		Groups:   in.Index.GroupBySignature(sel.Included),
		Enums:    e.enumTable(in).Entries(),
	}, nil
}
