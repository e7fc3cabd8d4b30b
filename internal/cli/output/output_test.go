package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want Mode
	}{
		{"", ModeMarkdown},
		{ModeAuto, ModeMarkdown},
		{ModeText, ModeText},
		{ModeMarkdown, ModeMarkdown},
		{ModeJSON, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestMode_Valid(t *testing.T) {
	for _, m := range Modes {
		assert.True(t, m.Valid(), m)
	}
	assert.True(t, Mode("").Valid())
	assert.False(t, Mode("yaml").Valid())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Signature Classes", FormatHeader(1, "signature classes"))
	assert.Equal(t, "## Skipped", FormatHeader(2, "skipped"))
	assert.Equal(t, "# X", FormatHeader(0, "x"))
	assert.Equal(t, "- **Mode:** preview", FormatKeyValue("Mode", "preview"))
}

func TestRenderer_Messages(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Success("wrote 2 files")
	r.Warning("unknown attribute")
	r.Error("boom")

	assert.Equal(t, "✓ wrote 2 files\n", out.String())
	assert.Contains(t, errOut.String(), "! unknown attribute\n")
	assert.Contains(t, errOut.String(), "✗ boom\n")
}

func TestRenderer_Header(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeMarkdown)
	r.Header(2, "enum table")
	assert.Equal(t, "## Enum Table\n\n", out.String())
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"function", "reason"}
	rows := [][]string{{"lv_label_set_text_fmt", "variadic"}}

	t.Run("markdown", func(t *testing.T) {
		var out bytes.Buffer
		NewRenderer(&out, &bytes.Buffer{}, ModeMarkdown).Table(header, rows)
		s := out.String()
		assert.Contains(t, strings.ToLower(s), "| function | reason |")
		assert.Contains(t, s, "| lv_label_set_text_fmt | variadic |")
	})

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		NewRenderer(&out, &bytes.Buffer{}, ModeText).Table(header, rows)
		s := out.String()
		assert.Contains(t, strings.ToUpper(s), "FUNCTION")
		assert.Contains(t, s, "lv_label_set_text_fmt")
		assert.True(t, strings.HasPrefix(s, "┌"))
	})
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeJSON)
	require.NoError(t, r.JSON(SkippedInfo{Function: "f", Reason: "variadic"}))
	assert.Equal(t, "{\n  \"function\": \"f\",\n  \"reason\": \"variadic\"\n}\n", out.String())
}

func TestNewRendererWithTTY(t *testing.T) {
	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, true, ModeAuto)
	assert.Equal(t, ModeText, r.EffectiveMode())
}
