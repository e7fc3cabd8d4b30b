package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lvglgen/internal/engine"
	"github.com/leapstack-labs/lvglgen/internal/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lvglgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func stringFlags(t *testing.T, set map[string]string, names ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	for _, name := range names {
		flags.String(name, "", name)
	}
	for name, v := range set {
		require.NoError(t, flags.Set(name, v))
	}
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, GetConfigFileUsed())
	assert.Equal(t, DefaultMode, cfg.Mode)
	assert.Equal(t, "parent", cfg.ParentParam)
	assert.Equal(t, 64, cfg.MaxUserEnums)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.False(t, cfg.Debug)
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_Fixture(t *testing.T) {
	ResetConfig()
	path := testutil.Fixture(t, "lvglgen.yaml")
	dir := filepath.Dir(path)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "lvgl_api.json"), cfg.APIPath)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	assert.Equal(t, filepath.Join(dir, "ui", "settings_screen.json"), cfg.UIPath)
	assert.Equal(t, string(engine.ModeTranspile), cfg.Mode)
	assert.Equal(t, "screen", cfg.ParentParam)
	assert.Equal(t, []string{"_fmt$"}, cfg.Exclude)
	assert.Equal(t, 32, cfg.MaxUserEnums)
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateInputs())
}

func TestLoadConfig_DiscoversFileUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lvglgen.yml"), []byte("name: found\n"), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "found", cfg.Name)
	assert.Equal(t, "lvglgen.yml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_AbsoluteAndExpandedPaths(t *testing.T) {
	ResetConfig()
	t.Setenv("LVGL_ROOT_DIR", "/opt/lvgl")
	path := writeConfig(t, "api: ${LVGL_ROOT_DIR}/lvgl.json\noutput_dir: /tmp/gen\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/opt/lvgl/lvgl.json", cfg.APIPath)
	assert.Equal(t, "/tmp/gen", cfg.OutputDir)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "mode: [unclosed\n")

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "name: from_file\n")
	t.Setenv("LVGLGEN_NAME", "from_env")

	flags := stringFlags(t, map[string]string{"name": "from_flag"}, "name")
	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.Name, "flag value should override config file and env var")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "name: from_file\nparent_param: root\n")
	t.Setenv("LVGLGEN_NAME", "from_env")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Name, "env var should override config file")
	assert.Equal(t, "root", cfg.ParentParam)
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "name: from_file\n")
	t.Setenv("LVGLGEN_NAME", "from_env")

	// Registered but not set, so Changed is false
	flags := stringFlags(t, nil, "name")
	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Name, "env var should be used when flag is not set")
}

func TestLoadConfig_KebabFlags(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := stringFlags(t, map[string]string{
		"parent-param": "screen",
		"enum-values":  "values.json",
	}, "parent-param", "enum-values")
	flags.StringSlice("exclude", nil, "exclude")
	flags.Int("max-user-enums", 0, "max")
	require.NoError(t, flags.Set("exclude", "_fmt$,_cb$"))
	require.NoError(t, flags.Set("max-user-enums", "8"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "screen", cfg.ParentParam)
	assert.Equal(t, "values.json", cfg.EnumValuesPath, "flag paths stay relative to the working directory")
	assert.Equal(t, []string{"_fmt$", "_cb$"}, cfg.Exclude)
	assert.Equal(t, 8, cfg.MaxUserEnums)
}

func TestLoadConfig_MacrosFromEnv(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("LVGLGEN_MACROS", "LV_SIZE_CONTENT, LV_COORD_MAX")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"LV_SIZE_CONTENT", "LV_COORD_MAX"}, cfg.Macros)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{APIPath: "api.json", OutputDir: "out", Mode: "preview"}
	}
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "valid preview", mutate: func(*Config) {}},
		{name: "empty mode", mutate: func(c *Config) { c.Mode = "" }},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "emulate" }, errSubstr: `unknown mode "emulate"`},
		{name: "missing api", mutate: func(c *Config) { c.APIPath = "" }, errSubstr: "api is required"},
		{name: "missing output", mutate: func(c *Config) { c.OutputDir = "" }, errSubstr: "output_dir is required"},
		{name: "transpile without ui", mutate: func(c *Config) { c.Mode = "c_transpile" }, errSubstr: "requires a UI document"},
		{name: "transpile with ui", mutate: func(c *Config) { c.Mode = "c_transpile"; c.UIPath = "ui.json" }},
		{name: "negative enum slots", mutate: func(c *Config) { c.MaxUserEnums = -1 }, errSubstr: "max_user_enums"},
		{name: "bad include", mutate: func(c *Config) { c.Include = []string{"("} }, errSubstr: `invalid include pattern "("`},
		{name: "bad exclude", mutate: func(c *Config) { c.Exclude = []string{"[a-"} }, errSubstr: "invalid exclude pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_ValidateInputs(t *testing.T) {
	cfg := Config{APIPath: testutil.APIFixture(t), UIPath: filepath.Join(t.TempDir(), "missing.json")}
	err := cfg.ValidateInputs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui file does not exist")
}

func TestConfig_EngineConfig(t *testing.T) {
	cfg := Config{APIPath: "a.json", OutputDir: "out", Mode: "c_transpile", Macros: []string{}, MaxUserEnums: 16}
	ec := cfg.EngineConfig()
	assert.Equal(t, engine.ModeTranspile, ec.Mode)
	assert.Nil(t, ec.Macros)
	assert.Equal(t, 16, ec.MaxUserEnums)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR_ONE}/api.json", "value_one/api.json"},
		{"${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}
