package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Indentation(t *testing.T) {
	w := New()
	w.Block("void f(void)", func() {
		w.Line("int a = 0;")
		w.Block("if (a)", func() {
			w.Linef("a = %d;", 1)
		}, "")
		w.Comment("done */ really")
	}, "")

	want := "void f(void) {\n" +
		"    int a = 0;\n" +
		"    if (a) {\n" +
		"        a = 1;\n" +
		"    }\n" +
		"    /* done * / really */\n" +
		"}\n"
	assert.Equal(t, want, w.String())
}

func TestWriter_Append(t *testing.T) {
	inner := New()
	inner.Line("x();")
	inner.Line("y();")

	w := New()
	w.Indent()
	w.Append(inner)
	w.Append(New())
	w.Dedent()
	w.Dedent()
	w.Line("z();")

	assert.Equal(t, "    x();\n    y();\nz();\n", w.String())
	assert.False(t, w.Empty())
	assert.True(t, New().Empty())
}

func TestWriter_RawAndList(t *testing.T) {
	w := New()
	w.Indent()
	w.Raw("#define A 1\n")
	w.List([]string{"a", "b", "c"})
	w.Blank()
	assert.Equal(t, "#define A 1\n    a, b, c\n", w.String())
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OK", `"OK"`},
		{`say "hi"`, `"say \"hi\""`},
		{"a\\b", `"a\\b"`},
		{"line1\nline2", `"line1\nline2"`},
		{"tab\there", `"tab\there"`},
		{"bell\x07", `"bell\007"`},
		{"??=", `"?\?="`},
		{"@x", `"@x"`},
		{"50%", `"50%"`},
		{"", `""`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"main", "main"},
		{"MainScreen", "main_screen"},
		{"my-ui", "my_ui"},
		{"settings page", "settings_page"},
		{"9", "n9"},
		{"int", "int_"},
		{"", "x"},
		{"@@", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Identifier(tt.in))
		})
	}
}

func TestCall(t *testing.T) {
	assert.Equal(t, "lv_obj_center(obj_1)", Call("lv_obj_center", "obj_1"))
	assert.Equal(t, "f()", Call("f"))
}
