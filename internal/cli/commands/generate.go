package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/leapstack-labs/lvglgen/internal/cli/output"
	"github.com/leapstack-labs/lvglgen/internal/engine"
	"github.com/spf13/cobra"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Watch    bool
	Debounce time.Duration
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [api.json] [output-dir]",
		Short: "Generate C sources from the LVGL API description",
		Long: `Generate C sources for LVGL from a JSON API description.

Two modes are available:
  - preview:     a runtime interpreter (lvgl_json_renderer.c/.h) that builds
                 widgets from JSON documents parsed with cJSON
  - c_transpile: a create_ui_<name>() function translated from one UI
                 document (ui_<name>.c/.h)

The API path and output directory may be given as arguments or set in
lvglgen.yaml. Warnings about the UI document do not fail the run.`,
		Example: `  # Build the runtime interpreter
  lvglgen generate lvgl_api.json build/

  # Translate a UI document into C
  lvglgen generate lvgl_api.json build/ --mode c_transpile --ui screens/settings.json

  # Regenerate whenever an input changes
  lvglgen generate --watch`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Regenerate when an input file changes")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", engine.DefaultDebounce, "Quiet period before regenerating in watch mode")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, opts *GenerateOptions) error {
	cmdCtx := NewCommandContext(cmd, args)
	r := cmdCtx.Renderer

	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	if !opts.Watch {
		res, err := eng.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		return renderGenerate(r, res)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchGenerate(ctx, r, eng, opts.Debounce)
}

// watchGenerate reports every run until ctx is done. Failed runs are
// reported and watching continues.
func watchGenerate(ctx context.Context, r *output.Renderer, eng *engine.Engine, debounce time.Duration) error {
	if r.EffectiveMode() != output.ModeJSON {
		r.Println(r.Styles().Muted.Render("Watching inputs, press Ctrl+C to stop"))
	}
	return eng.Watch(ctx, debounce, func(res *engine.Result, err error) {
		if err != nil {
			r.Error(fmt.Sprintf("generation failed: %v", err))
			return
		}
		_ = renderGenerate(r, res)
	})
}

func renderGenerate(r *output.Renderer, res *engine.Result) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return generateJSON(r, res)
	case output.ModeMarkdown:
		return generateMarkdown(r, res)
	default:
		return generateText(r, res)
	}
}

// generateDetails are the mode-specific summary lines.
func generateDetails(res *engine.Result) [][2]string {
	if res.Mode == engine.ModeTranspile {
		return [][2]string{
			{"Function", res.FuncName + "()"},
			{"Widgets and styles", fmt.Sprintf("%d", res.Entities)},
		}
	}
	return [][2]string{
		{"Functions", fmt.Sprintf("%d included, %d skipped", res.Included, len(res.Skipped))},
		{"Signature classes", fmt.Sprintf("%d", res.Groups)},
		{"Enum entries", fmt.Sprintf("%d", res.EnumEntries)},
	}
}

// generateText outputs the run summary in styled text format.
func generateText(r *output.Renderer, res *engine.Result) error {
	styles := r.Styles()

	r.Success(fmt.Sprintf("Generated %d files (%s) in %s",
		len(res.Files), res.Mode, res.Duration.Round(time.Millisecond)))
	for _, f := range res.Files {
		r.Printf("  %s\n", styles.Ident.Render(displayPath(f)))
	}
	for _, kv := range generateDetails(res) {
		r.Printf("  %s %s\n", styles.Muted.Render(kv[0]+":"), kv[1])
	}
	for _, d := range res.Diagnostics {
		r.Warning(d.String())
	}
	if n := res.Warnings(); n > 0 {
		r.Println(styles.Warning.Render(fmt.Sprintf("%d warnings", n)))
	}
	return nil
}

// generateMarkdown outputs the run summary in markdown format.
func generateMarkdown(r *output.Renderer, res *engine.Result) error {
	r.Println(output.FormatHeader(1, "Generation"))
	r.Println("")
	r.Println(output.FormatKeyValue("Mode", string(res.Mode)))
	for _, kv := range generateDetails(res) {
		r.Println(output.FormatKeyValue(kv[0], kv[1]))
	}
	r.Println(output.FormatKeyValue("Duration", res.Duration.Round(time.Millisecond).String()))
	r.Println("")

	r.Println(output.FormatHeader(2, "Files"))
	for _, f := range res.Files {
		r.Printf("- `%s`\n", displayPath(f))
	}

	if len(res.Diagnostics) > 0 {
		r.Println("")
		r.Println(output.FormatHeader(2, "Warnings"))
		for _, d := range res.Diagnostics {
			r.Printf("- `%s`: %s\n", d.Pointer, d.Message)
		}
	}
	return nil
}

// generateJSON outputs the run summary in JSON format.
func generateJSON(r *output.Renderer, res *engine.Result) error {
	out := output.GenerateOutput{
		Mode:        string(res.Mode),
		Files:       res.Files,
		FuncName:    res.FuncName,
		Entities:    res.Entities,
		Included:    res.Included,
		Skipped:     len(res.Skipped),
		Groups:      res.Groups,
		EnumEntries: res.EnumEntries,
		Warnings:    make([]output.Diagnostic, 0, len(res.Diagnostics)),
		DurationMS:  res.Duration.Milliseconds(),
	}
	for _, d := range res.Diagnostics {
		out.Warnings = append(out.Warnings, output.Diagnostic{Pointer: d.Pointer, Message: d.Message})
	}
	return r.JSON(out)
}

// displayPath shortens path relative to the working directory when it lies
// below it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
