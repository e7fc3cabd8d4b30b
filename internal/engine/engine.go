// Package engine orchestrates one generation run: it loads the API
// description, the UI document and the supplementary enum values, selects
// the mode and writes the generated files.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/enumtable"
	"github.com/leapstack-labs/lvglgen/internal/gen"
	"github.com/leapstack-labs/lvglgen/internal/renderer"
	"github.com/leapstack-labs/lvglgen/internal/uispec"
)

// Mode selects what is generated.
type Mode string

const (
	// ModePreview generates the runtime interpreter.
	ModePreview Mode = "preview"
	// ModeTranspile generates a straight-line create_ui function.
	ModeTranspile Mode = "c_transpile"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModePreview || m == ModeTranspile
}

// Config holds engine configuration.
type Config struct {
	// APIPath is the LVGL API description JSON.
	APIPath string
	// OutputDir receives the generated files; it is created if missing.
	OutputDir string
	// UIPath is the UI document; required in transpile mode.
	UIPath string
	Mode   Mode
	// Macros overrides the exported macro list; nil uses the defaults.
	Macros []string
	// EnumValuesPath is an optional supplementary values file.
	EnumValuesPath string
	// Name is the UI name; empty derives it from the UI file name.
	Name        string
	ParentParam string
	Include     []string
	Exclude     []string
	// MaxUserEnums sizes the runtime user enum table.
	MaxUserEnums int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Result summarizes a run.
type Result struct {
	Mode Mode
	// Files are the written paths, source first.
	Files []string
	// FuncName is the transpiled entry point.
	FuncName    string
	Entities    int
	Included    int
	Skipped     []api.Skipped
	Groups      int
	EnumEntries int
	Diagnostics gen.Diagnostics
	Duration    time.Duration
}

// Warnings is the number of diagnostics.
func (r *Result) Warnings() int {
	return len(r.Diagnostics)
}

// Engine runs generations for one configuration.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	filter *api.Filter
}

// New validates cfg and creates an engine.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Mode == "" {
		cfg.Mode = ModePreview
	}
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q (want %s or %s)", cfg.Mode, ModePreview, ModeTranspile)
	}
	if cfg.APIPath == "" {
		return nil, errors.New("an API description path is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("an output directory is required")
	}
	if cfg.Mode == ModeTranspile && cfg.UIPath == "" {
		return nil, errors.New("c_transpile mode requires a UI document")
	}
	include := cfg.Include
	if len(include) == 0 {
		include = []string{api.DefaultInclude}
	}
	filter, err := api.NewFilter(include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, logger: logger, filter: filter}, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Inputs are the loaded documents of one run.
type Inputs struct {
	Index  *api.Index
	UI     uispec.Value
	Values []enumtable.Entry
}

// Load reads the inputs concurrently.
func (e *Engine) Load(ctx context.Context) (*Inputs, error) {
	in := &Inputs{}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := api.LoadFile(e.cfg.APIPath)
		if err != nil {
			return err
		}
		in.Index = api.NewIndex(d)
		return nil
	})
	if e.cfg.UIPath != "" {
		g.Go(func() error {
			v, err := uispec.LoadFile(e.cfg.UIPath)
			if err != nil {
				return err
			}
			in.UI = v
			return nil
		})
	}
	if e.cfg.EnumValuesPath != "" {
		g.Go(func() error {
			vals, err := enumtable.LoadValues(e.cfg.EnumValuesPath)
			if err != nil {
				return fmt.Errorf("failed to load enum values: %w", err)
			}
			in.Values = vals
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// UIName is the configured name, or the UI file's base name in snake case.
func (e *Engine) UIName() string {
	if e.cfg.Name != "" {
		return e.cfg.Name
	}
	if e.cfg.UIPath == "" {
		return gen.DefaultName
	}
	base := filepath.Base(e.cfg.UIPath)
	return strcase.ToSnake(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Run loads the inputs, generates and writes the output files.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	in, err := e.Load(ctx)
	if err != nil {
		return nil, err
	}

	enums := e.enumTable(in)
	res := &Result{Mode: e.cfg.Mode}
	var files map[string]string
	var order []string

	switch e.cfg.Mode {
	case ModeTranspile:
		out, err := gen.Transpile(in.UI, gen.Options{
			Index:       in.Index,
			Enums:       enums,
			Filter:      e.filter,
			Name:        e.UIName(),
			ParentParam: e.cfg.ParentParam,
			Source:      e.cfg.UIPath,
			Logger:      e.logger,
		})
		if err != nil {
			return nil, err
		}
		res.FuncName = out.FuncName
		res.Entities = out.Entities
		res.Diagnostics = out.Diagnostics
		files = map[string]string{out.SourceFile: out.Source, out.HeaderFile: out.Header}
		order = []string{out.SourceFile, out.HeaderFile}

	default:
		out, err := renderer.Generate(renderer.Options{
			Index:        in.Index,
			Enums:        enums,
			Filter:       e.filter,
			MaxUserEnums: e.cfg.MaxUserEnums,
			UI:           in.UI,
			Source:       e.cfg.UIPath,
			Logger:       e.logger,
		})
		if err != nil {
			return nil, err
		}
		res.Included = len(out.Included)
		res.Skipped = out.Skipped
		res.Groups = out.Groups
		res.EnumEntries = out.EnumEntries
		res.Diagnostics = out.Diagnostics
		files = map[string]string{out.SourceFile: out.Source, out.HeaderFile: out.Header}
		order = []string{out.SourceFile, out.HeaderFile}
	}

	if err := e.write(ctx, files); err != nil {
		return nil, err
	}
	for _, name := range order {
		res.Files = append(res.Files, filepath.Join(e.cfg.OutputDir, name))
	}
	res.Duration = time.Since(start)
	e.logger.Info("generation complete",
		slog.String("mode", string(res.Mode)),
		slog.Int("files", len(res.Files)),
		slog.Int("warnings", res.Warnings()),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// enumTable builds the identifier table shared by both modes.
func (e *Engine) enumTable(in *Inputs) *enumtable.Table {
	macros := e.cfg.Macros
	if macros == nil {
		macros = enumtable.DefaultMacros
	}
	enums := enumtable.New(in.Index, macros, in.Values)
	if n := len(enums.Collisions()); n > 0 {
		e.logger.Debug("enum table hash collisions", slog.Int("groups", n))
	}
	return enums
}

func (e *Engine) write(ctx context.Context, files map[string]string) error {
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	g, _ := errgroup.WithContext(ctx)
	for name, content := range files {
		path := filepath.Join(e.cfg.OutputDir, name)
		g.Go(func() error {
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			e.logger.Debug("wrote file", slog.String("path", path), slog.Int("bytes", len(content)))
			return nil
		})
	}
	return g.Wait()
}
