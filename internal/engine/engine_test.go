package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lvglgen/internal/enumtable"
	"github.com/leapstack-labs/lvglgen/internal/testutil"
)

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.APIPath == "" {
		cfg.APIPath = testutil.APIFixture(t)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = t.TempDir()
	}
	cfg.Logger = testutil.NewTestLogger(t)
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing api", Config{OutputDir: "out"}, "API description"},
		{"missing output", Config{APIPath: "api.json"}, "output directory"},
		{"transpile without ui", Config{APIPath: "api.json", OutputDir: "out", Mode: ModeTranspile}, "requires a UI document"},
		{"unknown mode", Config{APIPath: "api.json", OutputDir: "out", Mode: "fast"}, `unknown mode "fast"`},
		{"bad include", Config{APIPath: "api.json", OutputDir: "out", Include: []string{"("}}, "invalid include pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_DefaultsToPreview(t *testing.T) {
	e, err := New(Config{APIPath: "api.json", OutputDir: "out"})
	require.NoError(t, err)
	assert.Equal(t, ModePreview, e.Config().Mode)
}

func TestEngine_UIName(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{Name: "custom", UIPath: "ui/settings_screen.json"}, "custom"},
		{Config{UIPath: "ui/settings_screen.json"}, "settings_screen"},
		{Config{UIPath: "MainMenu.yaml"}, "main_menu"},
		{Config{}, "main"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			e := &Engine{cfg: tt.cfg}
			assert.Equal(t, tt.want, e.UIName())
		})
	}
}

func TestRun_Transpile(t *testing.T) {
	out := t.TempDir()
	e := newEngine(t, Config{
		Mode:        ModeTranspile,
		OutputDir:   out,
		UIPath:      testutil.Fixture(t, "ui", "settings_screen.json"),
		ParentParam: "screen",
	})

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(out, "ui_settings_screen.c"),
		filepath.Join(out, "ui_settings_screen.h"),
	}, res.Files)
	assert.Equal(t, "create_ui_settings_screen", res.FuncName)
	assert.Equal(t, 6, res.Entities)
	assert.Zero(t, res.Warnings(), res.Diagnostics.Messages())

	src := readFile(t, res.Files[0])
	assert.Contains(t, src, "void create_ui_settings_screen(lv_obj_t *screen) {")
	assert.Contains(t, src, "lv_obj_add_style(obj_2, &c_style_1, 0);")
	assert.Contains(t, src, `lv_label_set_text(label_3, "Brightness");`)
	assert.Contains(t, src, "lv_slider_set_value(slider_4, 50, LV_ANIM_OFF);")
	assert.Contains(t, src, "lv_obj_set_style_bg_opa(obj_2, LV_OPA_COVER, 0);")
	assert.Contains(t, readFile(t, res.Files[1]), "void create_ui_settings_screen(lv_obj_t *screen);")
}

func TestRun_Preview(t *testing.T) {
	out := t.TempDir()
	e := newEngine(t, Config{OutputDir: out})

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ModePreview, res.Mode)
	assert.Equal(t, []string{
		filepath.Join(out, "lvgl_json_renderer.c"),
		filepath.Join(out, "lvgl_json_renderer.h"),
	}, res.Files)
	assert.Len(t, res.Skipped, 5)
	assert.Positive(t, res.Included)
	assert.Positive(t, res.Groups)

	src := readFile(t, res.Files[0])
	assert.Contains(t, src, "bool lvgl_json_render_ui(cJSON *root, lv_obj_t *parent, cJSON *initial_context)")
	assert.NotContains(t, src, "g_embedded_ui")
}

func TestRun_PreviewEmbedsUI(t *testing.T) {
	e := newEngine(t, Config{UIPath: testutil.Fixture(t, "ui", "hello.yaml")})

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	src := readFile(t, res.Files[0])
	assert.Contains(t, src, `"{\"type\":\"button\",\"id\":\"@hello\",\"children\":[{\"type\":\"label\",\"text\":\"Hello\"}]}"`)
	assert.Contains(t, readFile(t, res.Files[1]), "bool lvgl_json_render_embedded(lv_obj_t *parent);")
}

func TestRun_EnumSources(t *testing.T) {
	e := newEngine(t, Config{
		EnumValuesPath: testutil.Fixture(t, "enum_values.json"),
		Macros:         []string{"LV_SIZE_CONTENT"},
	})

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	src := readFile(t, res.Files[0])

	row := func(name, value string) string {
		return fmt.Sprintf(`{%du, "%s", %s},`, enumtable.Djb2(name), name, value)
	}
	assert.Contains(t, src, row("MY_THEME_DARK", "1"))
	assert.Contains(t, src, row("MY_MODE_FAST", "2"))
	assert.Contains(t, src, row("MY_MODE_SLOW", "4"))
	assert.Contains(t, src, row("LV_SIZE_CONTENT", "LV_SIZE_CONTENT"))
	assert.NotContains(t, src, `"LV_RADIUS_CIRCLE"`)
}

func TestRun_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing api", Config{APIPath: filepath.Join(t.TempDir(), "nope.json")}, "nope.json"},
		{"broken ui", Config{UIPath: testutil.Fixture(t, "ui", "broken.json")}, "broken.json"},
		{"missing values", Config{EnumValuesPath: filepath.Join(t.TempDir(), "values.json")}, "enum values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.cfg)
			_, err := e.Run(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatch_RegeneratesOnChange(t *testing.T) {
	dir := t.TempDir()
	ui := filepath.Join(dir, "screen.json")
	require.NoError(t, os.WriteFile(ui, []byte(`{"type": "obj"}`), 0o644))

	e := newEngine(t, Config{
		Mode:      ModeTranspile,
		UIPath:    ui,
		OutputDir: filepath.Join(dir, "out"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *Result, 8)
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, 20*time.Millisecond, func(r *Result, err error) {
			if err == nil {
				results <- r
			}
		})
	}()

	waitResult := func() *Result {
		select {
		case r := <-results:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a run")
			return nil
		}
	}

	first := waitResult()
	assert.Equal(t, 1, first.Entities)

	require.NoError(t, os.WriteFile(ui, []byte(`{"type": "obj", "children": [{"type": "label"}]}`), 0o644))
	second := waitResult()
	assert.Equal(t, 2, second.Entities)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestInspect(t *testing.T) {
	out := t.TempDir()
	e := newEngine(t, Config{OutputDir: out, Exclude: []string{`^lv_display_`}})

	rep, err := e.Inspect(context.Background())
	require.NoError(t, err)

	assert.Len(t, rep.Skipped, 5)
	assert.Positive(t, rep.Filtered)
	assert.NotEmpty(t, rep.Groups)
	for _, fn := range rep.Included {
		assert.NotContains(t, fn.Name, "lv_display_")
	}
	grouped := 0
	for _, g := range rep.Groups {
		grouped += len(g.Functions)
	}
	assert.Equal(t, len(rep.Included), grouped)
	assert.NotEmpty(t, rep.Enums)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
