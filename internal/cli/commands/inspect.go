package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/cli/output"
	"github.com/leapstack-labs/lvglgen/internal/engine"
	"github.com/spf13/cobra"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Enums     bool
	Functions bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [api.json]",
		Short: "Show what the runtime interpreter would include",
		Long: `Inspect the LVGL API description without writing any files.

Lists the signature classes of the invocation table, the functions that
cannot be invoked from JSON and why, and optionally the identifier table
used to resolve enum and macro names. The include, exclude, macros and
enum_values settings apply as they do for generate.`,
		Example: `  # Summarize the API
  lvglgen inspect lvgl_api.json

  # Include the enum table and the members of each signature class
  lvglgen inspect lvgl_api.json --enums --functions

  # Machine-readable report
  lvglgen inspect lvgl_api.json --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Enums, "enums", false, "List the enum and macro table")
	cmd.Flags().BoolVar(&opts.Functions, "functions", false, "List the functions of each signature class")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	cmdCtx := NewCommandContext(cmd, args)
	cfg := cmdCtx.Cfg
	// Nothing is written and the UI document is not read.
	cfg.Mode = string(engine.ModePreview)
	cfg.UIPath = ""
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	eng, err := createEngine(cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	rep, err := eng.Inspect(cmd.Context())
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return inspectJSON(r, rep, opts)
	}
	renderInspect(r, rep, opts)
	return nil
}

// renderInspect writes the report as headed tables; the renderer picks box
// or markdown tables.
func renderInspect(r *output.Renderer, rep *engine.Report, opts *InspectOptions) {
	r.Header(1, "API Inspection")
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue("Included", fmt.Sprintf("%d", len(rep.Included))))
		r.Println(output.FormatKeyValue("Skipped", fmt.Sprintf("%d", len(rep.Skipped))))
		r.Println(output.FormatKeyValue("Filtered by name", fmt.Sprintf("%d", rep.Filtered)))
	} else {
		muted := r.Styles().Muted
		r.Printf("%s %d  %s %d  %s %d\n",
			muted.Render("included:"), len(rep.Included),
			muted.Render("skipped:"), len(rep.Skipped),
			muted.Render("filtered:"), rep.Filtered)
	}
	r.Println("")

	r.Header(2, "Signature classes")
	sigRows := make([][]string, 0, len(rep.Groups))
	for i, g := range rep.Groups {
		row := []string{fmt.Sprintf("%d", i), g.Signature.String(), fmt.Sprintf("%d", len(g.Functions))}
		if opts.Functions {
			row = append(row, functionNames(g.Functions))
		}
		sigRows = append(sigRows, row)
	}
	sigHeader := []string{"shim", "signature", "functions"}
	if opts.Functions {
		sigHeader = append(sigHeader, "members")
	}
	r.Table(sigHeader, sigRows)
	r.Println("")

	r.Header(2, "Skipped functions")
	if len(rep.Skipped) == 0 {
		r.Println("none")
	} else {
		rows := make([][]string, 0, len(rep.Skipped))
		for _, s := range rep.Skipped {
			rows = append(rows, []string{s.Function.Name, s.Reason})
		}
		r.Table([]string{"function", "reason"}, rows)
	}

	if opts.Enums {
		r.Println("")
		r.Header(2, "Enum table")
		rows := make([][]string, 0, len(rep.Enums))
		for _, e := range rep.Enums {
			rows = append(rows, []string{fmt.Sprintf("%d", e.Hash), e.Name, e.CValue(), e.Source.String()})
		}
		r.Table([]string{"hash", "name", "value", "source"}, rows)
	}
}

func functionNames(fns []*api.FunctionInfo) string {
	names := make([]string, len(fns))
	for i, f := range fns {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

// inspectJSON outputs the report in JSON format.
func inspectJSON(r *output.Renderer, rep *engine.Report, opts *InspectOptions) error {
	out := output.InspectOutput{
		Included:   len(rep.Included),
		Filtered:   rep.Filtered,
		Signatures: make([]output.SignatureInfo, 0, len(rep.Groups)),
		Skipped:    make([]output.SkippedInfo, 0, len(rep.Skipped)),
	}
	for _, g := range rep.Groups {
		info := output.SignatureInfo{Signature: g.Signature.String()}
		for _, f := range g.Functions {
			info.Functions = append(info.Functions, f.Name)
		}
		out.Signatures = append(out.Signatures, info)
	}
	for _, s := range rep.Skipped {
		out.Skipped = append(out.Skipped, output.SkippedInfo{Function: s.Function.Name, Reason: s.Reason})
	}
	if opts.Enums {
		for _, e := range rep.Enums {
			out.Enums = append(out.Enums, output.EnumEntryInfo{
				Hash:   e.Hash,
				Name:   e.Name,
				Value:  e.CValue(),
				Source: e.Source.String(),
			})
		}
	}
	return r.JSON(out)
}
