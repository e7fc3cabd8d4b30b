package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/lvglgen/internal/api"
	clitest "github.com/leapstack-labs/lvglgen/internal/cli/testutil"
	"github.com/leapstack-labs/lvglgen/internal/engine"
	"github.com/leapstack-labs/lvglgen/internal/enumtable"
	"github.com/leapstack-labs/lvglgen/internal/gen"
)

func TestNewGenerateCommand(t *testing.T) {
	cmd := NewGenerateCommand()

	assert.Equal(t, "generate [api.json] [output-dir]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	for _, flag := range []string{"watch", "debounce"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewInspectCommand(t *testing.T) {
	cmd := NewInspectCommand()

	assert.Equal(t, "inspect [api.json]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	for _, flag := range []string{"enums", "functions"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func transpileResult() *engine.Result {
	return &engine.Result{
		Mode:     engine.ModeTranspile,
		Files:    []string{"/tmp/out/ui_main.c", "/tmp/out/ui_main.h"},
		FuncName: "create_ui_main",
		Entities: 3,
		Diagnostics: gen.Diagnostics{
			{Pointer: "/children/0/bogus", Message: `unknown attribute "bogus" for label`},
		},
		Duration: 12 * time.Millisecond,
	}
}

func TestRenderGenerate_Text(t *testing.T) {
	tr := clitest.NewTestRendererText()
	assert.NoError(t, renderGenerate(tr.Renderer, transpileResult()))

	out := tr.Output()
	assert.Contains(t, out, "Generated 2 files (c_transpile) in 12ms")
	assert.Contains(t, out, "create_ui_main()")
	assert.Contains(t, out, "1 warnings")
	assert.Contains(t, tr.ErrorOutput(), `unknown attribute "bogus" for label (at /children/0/bogus)`)
}

func TestRenderGenerate_Markdown(t *testing.T) {
	tr := clitest.NewTestRendererMarkdown()
	assert.NoError(t, renderGenerate(tr.Renderer, transpileResult()))

	out := tr.Output()
	clitest.AssertNoANSI(t, out)
	clitest.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "- **Function:** create_ui_main()")
	assert.Contains(t, out, "- `/tmp/out/ui_main.c`")
	assert.Contains(t, out, "- `/children/0/bogus`: unknown attribute")
}

func TestRenderGenerate_JSONPreview(t *testing.T) {
	tr := clitest.NewTestRendererJSON()
	res := &engine.Result{
		Mode:        engine.ModePreview,
		Files:       []string{"a.c", "a.h"},
		Included:    40,
		Skipped:     []api.Skipped{{Function: &api.FunctionInfo{Name: "lv_label_set_text_fmt"}, Reason: "variadic"}},
		Groups:      12,
		EnumEntries: 90,
	}
	assert.NoError(t, renderGenerate(tr.Renderer, res))

	out := tr.Output()
	assert.Contains(t, out, `"mode": "preview"`)
	assert.Contains(t, out, `"skipped": 1`)
	assert.Contains(t, out, `"warnings": []`)
	assert.NotContains(t, out, "func_name")
}

func TestRenderInspect(t *testing.T) {
	label := &api.FunctionInfo{Name: "lv_label_set_text"}
	rep := &engine.Report{
		Included: []*api.FunctionInfo{label},
		Skipped:  []api.Skipped{{Function: &api.FunctionInfo{Name: "lv_obj_add_event_cb"}, Reason: "callback parameter"}},
		Groups: []api.SignatureGroup{{
			Signature: api.Signature{Return: "void", Args: []string{"lv_obj_t *", "const char *"}},
			Functions: []*api.FunctionInfo{label},
		}},
		Enums: []enumtable.Entry{{Hash: enumtable.Djb2("LV_ALIGN_CENTER"), Name: "LV_ALIGN_CENTER", Value: 9, HasValue: true, Source: enumtable.SourceAPI}},
	}

	tr := clitest.NewTestRendererMarkdown()
	renderInspect(tr.Renderer, rep, &InspectOptions{Enums: true, Functions: true})
	out := tr.Output()

	clitest.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "- **Included:** 1")
	assert.Contains(t, out, "void (*)(lv_obj_t *, const char *)")
	assert.Contains(t, out, "lv_obj_add_event_cb")
	assert.Contains(t, out, "callback parameter")
	assert.Contains(t, out, "LV_ALIGN_CENTER")
	assert.Equal(t, 1, strings.Count(out, "lv_label_set_text"))
}

func TestFunctionNames(t *testing.T) {
	fns := []*api.FunctionInfo{{Name: "lv_obj_center"}, {Name: "lv_obj_clean"}}
	assert.Equal(t, "lv_obj_center, lv_obj_clean", functionNames(fns))
	assert.Empty(t, functionNames(nil))
}
