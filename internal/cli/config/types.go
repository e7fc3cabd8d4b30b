// Package config provides configuration management for the lvglgen CLI.
package config

import (
	"github.com/leapstack-labs/lvglgen/internal/engine"
	"github.com/leapstack-labs/lvglgen/internal/gen"
	"github.com/leapstack-labs/lvglgen/internal/renderer"
)

// Config holds all CLI configuration options.
type Config struct {
	APIPath        string   `koanf:"api"`
	OutputDir      string   `koanf:"output_dir"`
	UIPath         string   `koanf:"ui"`
	Mode           string   `koanf:"mode"`
	Debug          bool     `koanf:"debug"`
	Macros         []string `koanf:"macros"`
	EnumValuesPath string   `koanf:"enum_values"`
	Name           string   `koanf:"name"`
	ParentParam    string   `koanf:"parent_param"`
	Include        []string `koanf:"include"`
	Exclude        []string `koanf:"exclude"`
	MaxUserEnums   int      `koanf:"max_user_enums"`
	OutputFormat   string   `koanf:"output"`
}

// Default configuration values.
const (
	DefaultMode         = string(engine.ModePreview)
	DefaultParentParam  = gen.DefaultParentParam
	DefaultMaxUserEnums = renderer.DefaultMaxUserEnums
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// configNames are the file names searched for, in order.
var configNames = []string{"lvglgen.yaml", "lvglgen.yml"}

// pathKeys are resolved relative to the config file that sets them.
var pathKeys = []string{"api", "output_dir", "ui", "enum_values"}

// EngineConfig converts the CLI configuration for the engine. A nil macro
// list keeps the default exported macros.
func (c *Config) EngineConfig() engine.Config {
	macros := c.Macros
	if len(macros) == 0 {
		macros = nil
	}
	return engine.Config{
		APIPath:        c.APIPath,
		OutputDir:      c.OutputDir,
		UIPath:         c.UIPath,
		Mode:           engine.Mode(c.Mode),
		Macros:         macros,
		EnumValuesPath: c.EnumValuesPath,
		Name:           c.Name,
		ParentParam:    c.ParentParam,
		Include:        c.Include,
		Exclude:        c.Exclude,
		MaxUserEnums:   c.MaxUserEnums,
	}
}
