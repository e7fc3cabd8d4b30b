package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lvglgen/internal/cli/config"
	"github.com/leapstack-labs/lvglgen/internal/cli/output"
	clitest "github.com/leapstack-labs/lvglgen/internal/cli/testutil"
	"github.com/leapstack-labs/lvglgen/internal/testutil"
)

type result struct {
	out    string
	errOut string
	err    error
}

// execute runs the root command from an empty working directory so no
// stray lvglgen.yaml is picked up.
func execute(t *testing.T, args ...string) result {
	t.Helper()
	config.ResetConfig()
	t.Chdir(t.TempDir())

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"generate", "inspect", "version", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	for _, flag := range []string{"config", "mode", "ui", "enum-values", "name", "parent-param", "include", "exclude", "macros", "max-user-enums", "debug", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestGenerate_TranspileJSON(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "build")
	res := execute(t, "generate", testutil.APIFixture(t), outDir,
		"--mode", "c_transpile",
		"--ui", testutil.Fixture(t, "ui", "settings_screen.json"),
		"--parent-param", "screen",
		"-o", "json")
	require.NoError(t, res.err, res.errOut)

	var got output.GenerateOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &got))
	assert.Equal(t, "c_transpile", got.Mode)
	assert.Equal(t, "create_ui_settings_screen", got.FuncName)
	assert.Equal(t, 6, got.Entities)
	assert.Empty(t, got.Warnings)
	require.Len(t, got.Files, 2)

	src, err := os.ReadFile(filepath.Join(outDir, "ui_settings_screen.c"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "void create_ui_settings_screen(lv_obj_t *screen) {")
}

func TestGenerate_PreviewMarkdown(t *testing.T) {
	outDir := t.TempDir()
	res := execute(t, "generate", testutil.APIFixture(t), outDir)
	require.NoError(t, res.err, res.errOut)

	clitest.AssertNoANSI(t, res.out)
	clitest.AssertValidMarkdown(t, res.out)
	assert.Contains(t, res.out, "# Generation")
	assert.Contains(t, res.out, "- **Mode:** preview")
	assert.Contains(t, res.out, "lvgl_json_renderer.c")
	assert.FileExists(t, filepath.Join(outDir, "lvgl_json_renderer.h"))
}

func TestGenerate_WarningsDoNotFail(t *testing.T) {
	ui := filepath.Join(t.TempDir(), "odd.json")
	require.NoError(t, os.WriteFile(ui, []byte(`{"type": "label", "bogus_attr": 1}`), 0600))

	res := execute(t, "generate", testutil.APIFixture(t), t.TempDir(), "--mode", "c_transpile", "--ui", ui)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "## Warnings")
	assert.Contains(t, res.out, "bogus_attr")
}

func TestGenerate_ConfigFile(t *testing.T) {
	outDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "lvglgen.yaml")
	content := "api: " + testutil.APIFixture(t) + "\noutput_dir: " + outDir + "\nmode: c_transpile\nui: " +
		testutil.Fixture(t, "ui", "hello.yaml") + "\nname: greeting\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))

	res := execute(t, "generate", "--config", cfgPath, "-o", "json")
	require.NoError(t, res.err, res.errOut)
	assert.FileExists(t, filepath.Join(outDir, "ui_greeting.c"))
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no inputs", []string{"generate"}, "api is required"},
		{"no output dir", []string{"generate", "api.json"}, "output_dir is required"},
		{"bad mode", []string{"generate", "a.json", "out", "--mode", "emulate"}, `unknown mode "emulate"`},
		{"transpile without ui", []string{"generate", "a.json", "out", "--mode", "c_transpile"}, "requires a UI document"},
		{"missing api file", []string{"generate", "missing.json", "out"}, "api file does not exist"},
		{"bad output format", []string{"generate", "-o", "yaml"}, `unknown output format "yaml"`},
		{"too many args", []string{"generate", "a", "b", "c"}, "accepts at most 2 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.wantErr)
		})
	}
}

func TestInspect_JSON(t *testing.T) {
	res := execute(t, "inspect", testutil.APIFixture(t), "--enums", "-o", "json", "--exclude", "^lv_display_")
	require.NoError(t, res.err, res.errOut)

	var got output.InspectOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &got))
	assert.Positive(t, got.Included)
	assert.Positive(t, got.Filtered)
	assert.Len(t, got.Skipped, 5)
	assert.NotEmpty(t, got.Signatures)
	assert.NotEmpty(t, got.Enums)
	for _, s := range got.Signatures {
		assert.NotEmpty(t, s.Functions)
	}
}

func TestInspect_Markdown(t *testing.T) {
	res := execute(t, "inspect", testutil.APIFixture(t))
	require.NoError(t, res.err, res.errOut)

	assert.Contains(t, res.out, "# API Inspection")
	assert.Contains(t, res.out, "## Signature Classes")
	assert.Contains(t, res.out, "## Skipped Functions")
	assert.Contains(t, res.out, "lv_label_set_text_fmt")
	assert.NotContains(t, res.out, "## Enum Table")
}

func TestDebugLogging(t *testing.T) {
	res := execute(t, "generate", testutil.APIFixture(t), t.TempDir(), "--debug")
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, "level=DEBUG")
	assert.Contains(t, res.errOut, "generation complete")
}

func TestCompletion(t *testing.T) {
	res := execute(t, "completion", "bash")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "lvglgen")
}
