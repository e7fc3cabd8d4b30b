package uispec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesOrderAndDuplicates(t *testing.T) {
	v, err := Decode(strings.NewReader(`{"b": 1, "a": 2, "b": 3, "c": [true, null, "x"]}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)

	keys := make([]string, 0, obj.Len())
	for _, p := range obj.Pairs() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"b", "a", "b", "c"}, keys)
	assert.Equal(t, []string{"b", "a", "c"}, obj.Keys())

	got, ok := obj.Get("b")
	require.True(t, ok)
	assert.Equal(t, json.Number("3"), got, "Get returns the last binding")

	arr, ok := obj.Get("c")
	require.True(t, ok)
	assert.Equal(t, []Value{true, nil, "x"}, arr)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pointer string
	}{
		{name: "truncated object", input: `{"a": {"b": `, pointer: "/a/b"},
		{name: "trailing data", input: `{} {}`, pointer: "/"},
		{name: "empty", input: ``, pointer: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.pointer, de.Pointer.Display())
		})
	}
}

func TestDecodeYAML_KeepsOrder(t *testing.T) {
	src := `
type: obj
width: 50%
style_bg_color: "#FF0000"
children:
  - type: label
    text: hello
    x: 12
    scale: 1.5
    hidden: false
`
	v, err := DecodeYAML([]byte(src))
	require.NoError(t, err)
	obj := v.(*Object)
	assert.Equal(t, []string{"type", "width", "style_bg_color", "children"}, obj.Keys())

	children, _ := obj.Get("children")
	child := children.([]Value)[0].(*Object)
	x, _ := child.Get("x")
	assert.Equal(t, json.Number("12"), x)
	scale, _ := child.Get("scale")
	assert.Equal(t, json.Number("1.5"), scale)
	hidden, _ := child.Get("hidden")
	assert.Equal(t, false, hidden)
}

func TestObject_CloneIsDeep(t *testing.T) {
	orig := MustDecode(`{"a": {"b": [1, 2]}}`).(*Object)
	c := orig.Clone()
	require.True(t, Equal(orig, c))

	inner, _ := c.Get("a")
	inner.(*Object).Set("b", "changed")
	assert.False(t, Equal(orig, c))

	b, _ := orig.Get("a")
	bv, _ := b.(*Object).Get("b")
	assert.Equal(t, []Value{json.Number("1"), json.Number("2")}, bv)
}

func TestPointer_String(t *testing.T) {
	p := Pointer{}.Key("children").Index(2).Key("a/b~c")
	assert.Equal(t, "/children/2/a~1b~0c", p.String())
	assert.Equal(t, "/", Pointer{}.Display())
}

func TestClassifyString(t *testing.T) {
	tests := []struct {
		in   string
		want Form
	}{
		{"#FF0000", Color{RGB: 0xFF0000}},
		{"#f0a", Color{RGB: 0xFF00AA}},
		{"#80112233", Color{RGB: 0x112233}},
		{"#1 rank", Ident{Text: "#1 rank"}},
		{"@btn", Ref{Name: "btn"}},
		{"@btn@", Literal{Text: "@btn"}},
		{"@@", Literal{Text: "@"}},
		{"$caption", ContextVar{Name: "caption"}},
		{"$x$", Literal{Text: "$x"}},
		{"!hello", StaticStr{Text: "hello"}},
		{"!x!", Literal{Text: "!x"}},
		{"50%", Percent{N: 50}},
		{"-10%", Percent{N: -10}},
		{"50%%", Literal{Text: "50%"}},
		{"abc%", Ident{Text: "abc%"}},
		{"LV_ALIGN_CENTER", Ident{Text: "LV_ALIGN_CENTER"}},
		{"", Ident{Text: ""}},
		{"@", Ident{Text: "@"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyString(tt.in))
		})
	}
}

func TestClassify_Objects(t *testing.T) {
	f, err := Classify(MustDecode(`{"call": "lv_color_mix", "args": ["#fff", "#000", 128]}`))
	require.NoError(t, err)
	call, ok := f.(Call)
	require.True(t, ok)
	assert.Equal(t, "lv_color_mix", call.Fn)
	assert.Len(t, call.Args, 3)

	f, err = Classify(MustDecode(`{"x": 1, "y": 2}`))
	require.NoError(t, err)
	assert.IsType(t, Struct{}, f)

	_, err = Classify(MustDecode(`{"call": 3}`))
	assert.Error(t, err)

	_, err = Classify(MustDecode(`{"call": "f", "args": 3}`))
	assert.Error(t, err)
}

func TestEncode_KeepsOrderAndDuplicates(t *testing.T) {
	src := `{"b":1,"a":"<x>","b":[true,null,2.5],"o":{}}`
	v, err := DecodeBytes([]byte(src))
	require.NoError(t, err)

	out, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestEncode_YAMLAsJSON(t *testing.T) {
	v, err := DecodeYAML([]byte("type: label\ntext: hi\nwidth: 10\n"))
	require.NoError(t, err)

	out, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"label","text":"hi","width":10}`, string(out))
}
