// Package cli provides the command-line interface for lvglgen.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/lvglgen/internal/cli/commands"
	"github.com/leapstack-labs/lvglgen/internal/cli/config"
	"github.com/leapstack-labs/lvglgen/internal/cli/output"
	"github.com/leapstack-labs/lvglgen/internal/engine"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lvglgen",
		Short: "lvglgen - LVGL UI code generator",
		Long: `lvglgen turns LVGL's JSON API description into C.

It either builds a runtime interpreter that creates widgets from JSON UI
documents, or translates one UI document into a plain C function.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if !output.Mode(cfg.OutputFormat).Valid() {
				return fmt.Errorf("unknown output format %q (want auto, text, markdown or json)", cfg.OutputFormat)
			}

			logger := newLogger(cmd, cfg.Debug)
			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", slog.String("path", configFile))
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, config.LoggerKey(), logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
LVGL UI generator: JSON documents to C
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./lvglgen.yaml)")
	rootCmd.PersistentFlags().StringP("mode", "m", "", "Generation mode (preview|c_transpile)")
	rootCmd.PersistentFlags().String("ui", "", "UI document (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().String("enum-values", "", "Supplementary enum values file")
	rootCmd.PersistentFlags().String("name", "", "UI name used for create_ui_<name> (default: UI file name)")
	rootCmd.PersistentFlags().String("parent-param", "", "Parameter name of the generated create function")
	rootCmd.PersistentFlags().StringSlice("include", nil, "Function name patterns to include (default ^lv_)")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Function name patterns to exclude")
	rootCmd.PersistentFlags().StringSlice("macros", nil, "Object-like macros exported to the enum table")
	rootCmd.PersistentFlags().Int("max-user-enums", 0, "Capacity of the runtime user enum table")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug logging")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for enumerated flags
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, len(output.Modes))
		for i, m := range output.Modes {
			modes[i] = string(m)
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(engine.ModePreview), string(engine.ModeTranspile)}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger writes text records to the command's error stream.
func newLogger(cmd *cobra.Command, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: strings.TrimSpace(`
Generate shell completion scripts for lvglgen.

To load completions:

Bash:
  $ source <(lvglgen completion bash)

Zsh:
  $ lvglgen completion zsh > "${fpath[1]}/_lvglgen"

Fish:
  $ lvglgen completion fish | source

PowerShell:
  PS> lvglgen completion powershell | Out-String | Invoke-Expression
`),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
