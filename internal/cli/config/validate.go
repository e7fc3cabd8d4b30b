package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/leapstack-labs/lvglgen/internal/engine"
)

// Validate checks that the configuration can drive a generation run.
func (c *Config) Validate() error {
	mode := engine.Mode(c.Mode)
	if c.Mode != "" && !mode.Valid() {
		return fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, engine.ModePreview, engine.ModeTranspile)
	}
	if c.APIPath == "" {
		return errors.New("api is required\nHint: pass the API description as the first argument or set api in lvglgen.yaml")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required\nHint: pass the output directory as the second argument or set output_dir in lvglgen.yaml")
	}
	if mode == engine.ModeTranspile && c.UIPath == "" {
		return errors.New("c_transpile mode requires a UI document\nHint: use --ui or set ui in lvglgen.yaml")
	}
	if c.MaxUserEnums < 0 {
		return fmt.Errorf("max_user_enums must not be negative, got %d", c.MaxUserEnums)
	}
	return c.validatePatterns()
}

// validatePatterns compiles include and exclude patterns so a typo fails
// before any input is read.
func (c *Config) validatePatterns() error {
	for _, group := range []struct {
		key  string
		pats []string
	}{{"include", c.Include}, {"exclude", c.Exclude}} {
		for _, p := range group.pats {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("invalid %s pattern %q: %w", group.key, p, err)
			}
		}
	}
	return nil
}

// ValidateInputs checks that the configured input files exist.
func (c *Config) ValidateInputs() error {
	for _, in := range []struct{ key, path string }{
		{"api", c.APIPath},
		{"ui", c.UIPath},
		{"enum_values", c.EnumValuesPath},
	} {
		if in.path == "" {
			continue
		}
		if _, err := os.Stat(in.path); os.IsNotExist(err) {
			return fmt.Errorf("%s file does not exist: %s", in.key, in.path)
		}
	}
	return nil
}
