package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/lvglgen/internal/cli/config"
	"github.com/leapstack-labs/lvglgen/internal/cli/output"
	"github.com/leapstack-labs/lvglgen/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
// Positional arguments override the api and output_dir settings.
func NewCommandContext(cmd *cobra.Command, args []string) *CommandContext {
	cfg := getConfig()
	if len(args) > 0 {
		cfg.APIPath = args[0]
	}
	if len(args) > 1 {
		cfg.OutputDir = args[1]
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// getConfig returns a copy of the current configuration, or the defaults
// when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		c := *cfg
		return &c
	}
	return &config.Config{
		Mode:         config.DefaultMode,
		ParentParam:  config.DefaultParentParam,
		MaxUserEnums: config.DefaultMaxUserEnums,
		OutputFormat: config.DefaultOutput,
	}
}

// createEngine validates the configuration and builds an engine.
func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateInputs(); err != nil {
		return nil, err
	}
	ec := cfg.EngineConfig()
	ec.Logger = logger
	eng, err := engine.New(ec)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return eng, nil
}
