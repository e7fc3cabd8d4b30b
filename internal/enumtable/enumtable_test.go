package enumtable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lvglgen/internal/api"
	"github.com/leapstack-labs/lvglgen/internal/testutil"
)

func TestDjb2(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 5381},
		{"a", 177670},
		{"OK", 5862591},
		{"LV_ALIGN_CENTER", 390775409},
		{"LV_ALIGN_DEFAULT", 1292001717},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Djb2(tt.in))
		})
	}
}

func TestBuild_SortedAndDeduplicated(t *testing.T) {
	tbl := Build([]Entry{
		{Name: "B", Value: 2, HasValue: true},
		{Name: "A", Value: 1, HasValue: true},
		{Name: "B", Value: 99, HasValue: true},
		{Name: ""},
	})

	require.Equal(t, 2, tbl.Len())
	e, ok := tbl.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, int64(2), e.Value, "first occurrence wins")
	for i := 1; i < tbl.Len(); i++ {
		assert.LessOrEqual(t, tbl.Entries()[i-1].Hash, tbl.Entries()[i].Hash)
	}
}

func TestLookup_RealCollisions(t *testing.T) {
	pairs := [][2]string{
		{"hetairas", "mentioner"},
		{"heliotropes", "neurospora"},
		{"depravement", "serafins"},
		{"stylist", "subgenera"},
		{"joyful", "synaphea"},
		{"redescribed", "urites"},
		{"dram", "vivency"},
	}
	var entries []Entry
	for i, p := range pairs {
		require.Equal(t, Djb2(p[0]), Djb2(p[1]), "%s/%s must collide", p[0], p[1])
		entries = append(entries,
			Entry{Name: p[1], Value: int64(2*i + 1), HasValue: true},
			Entry{Name: p[0], Value: int64(2 * i), HasValue: true},
		)
	}
	tbl := Build(entries)

	for i, p := range pairs {
		a, ok := tbl.Lookup(p[0])
		require.True(t, ok)
		assert.Equal(t, int64(2*i), a.Value)
		b, ok := tbl.Lookup(p[1])
		require.True(t, ok)
		assert.Equal(t, int64(2*i+1), b.Value)
	}
	assert.Len(t, tbl.Collisions(), len(pairs))

	_, ok := tbl.Lookup("not-there")
	assert.False(t, ok)
}

func TestLookup_ForcedCollisions(t *testing.T) {
	constant := func(string) uint32 { return 7 }
	tbl := Build([]Entry{
		{Name: "ZETA", Value: 3, HasValue: true},
		{Name: "ALPHA", Value: 1, HasValue: true},
		{Name: "MID", Value: 2, HasValue: true},
	}, WithHash(constant))

	names := []string{}
	for _, e := range tbl.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"ALPHA", "MID", "ZETA"}, names, "equal hashes order by name")

	for name, want := range map[string]int64{"ALPHA": 1, "MID": 2, "ZETA": 3} {
		e, ok := tbl.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, e.Value)
	}
	_, ok := tbl.Lookup("OMEGA")
	assert.False(t, ok)
}

func TestTable_Uniqueness(t *testing.T) {
	d, err := api.LoadFile(testutil.APIFixture(t))
	require.NoError(t, err)
	tbl := New(api.NewIndex(d), DefaultMacros, nil)

	type key struct {
		hash uint32
		name string
	}
	seen := map[key]bool{}
	entries := tbl.Entries()
	for i, e := range entries {
		k := key{e.Hash, e.Name}
		assert.False(t, seen[k], "duplicate %v", k)
		seen[k] = true
		if i > 0 {
			prev := entries[i-1]
			require.LessOrEqual(t, prev.Hash, e.Hash)
			if prev.Hash == e.Hash {
				assert.Less(t, prev.Name, e.Name)
			}
		}
	}
}

func TestNew_FromIndex(t *testing.T) {
	d, err := api.LoadFile(testutil.APIFixture(t))
	require.NoError(t, err)
	ix := api.NewIndex(d)

	user := []Entry{
		{Name: "LV_ALIGN_CENTER", Value: 42, HasValue: true, Source: SourceUser},
		{Name: "MY_MODE", Value: 5, HasValue: true, Source: SourceUser},
	}
	tbl := New(ix, []string{"LV_GRID_TEMPLATE_LAST", "LV_RADIUS_CIRCLE", "LV_GRID_FR", "LV_DPI_DEF"}, user)

	e, ok := tbl.Lookup("LV_ALIGN_TOP_MID")
	require.True(t, ok)
	assert.Equal(t, int64(2), e.Value)
	assert.Equal(t, "lv_align_t", e.EnumType)
	assert.Equal(t, "LV_ALIGN_TOP_MID", e.CValue())

	e, ok = tbl.Lookup("LV_ALIGN_CENTER")
	require.True(t, ok)
	assert.Equal(t, SourceUser, e.Source, "supplementary values override the API")
	assert.Equal(t, "42", e.CValue())

	e, ok = tbl.Lookup("LV_RADIUS_CIRCLE")
	require.True(t, ok)
	assert.Equal(t, int64(0x7FFF), e.Value)
	assert.Equal(t, "LV_RADIUS_CIRCLE", e.CValue())

	e, ok = tbl.Lookup("LV_GRID_TEMPLATE_LAST")
	require.True(t, ok)
	assert.False(t, e.HasValue)

	_, ok = tbl.Lookup("LV_GRID_FR")
	assert.False(t, ok, "function-like macros are not table entries")

	_, ok = tbl.Lookup("LV_DPI_DEF")
	assert.True(t, ok, "macros unknown to the API are still exported")
}

func TestResolve(t *testing.T) {
	tbl := Build([]Entry{
		{Name: "LV_PART_MAIN", Value: 0, HasValue: true, Expr: "LV_PART_MAIN", EnumType: "lv_part_t"},
		{Name: "LV_STATE_PRESSED", Value: 0x20, HasValue: true, Expr: "LV_STATE_PRESSED", EnumType: "lv_state_t"},
		{Name: "MY_BIT", Value: 4, HasValue: true},
		{Name: "LV_SIZE_CONTENT", Expr: "LV_SIZE_CONTENT"},
	})

	tests := []struct {
		in       string
		c        string
		value    int64
		hasValue bool
		ok       bool
	}{
		{"LV_PART_MAIN", "LV_PART_MAIN", 0, true, true},
		{"LV_PART_MAIN | LV_STATE_PRESSED", "LV_PART_MAIN | LV_STATE_PRESSED", 0x20, true, true},
		{"LV_STATE_PRESSED|MY_BIT", "LV_STATE_PRESSED | 4", 0x24, true, true},
		{"LV_SIZE_CONTENT", "LV_SIZE_CONTENT", 0, false, true},
		{"LV_PART_MAIN | NOPE", "", 0, false, false},
		{"", "", 0, false, false},
		{"hello world", "", 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ex, ok := tbl.Resolve(tt.in)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.c, ex.C)
			assert.Equal(t, tt.hasValue, ex.HasValue)
			if tt.hasValue {
				assert.Equal(t, tt.value, ex.Value)
			}
		})
	}

	ex, _ := tbl.Resolve("LV_STATE_PRESSED | LV_PART_MAIN")
	assert.Equal(t, "lv_state_t", ex.EnumType, "first part decides the type")
}

func TestDecodeValues(t *testing.T) {
	entries, err := DecodeValues([]byte(`{
		"MY_A": 1,
		"MY_HEX": "0x10",
		"MY_EXPR": "(LV_COORD_MAX - 1)",
		"lv_my_enum_t": {"MY_E1": 1, "MY_E2": 2},
		"MY_ON": true
	}`))
	require.NoError(t, err)
	require.Len(t, entries, 6)

	assert.Equal(t, "MY_A", entries[0].Name)
	assert.Equal(t, int64(1), entries[0].Value)
	assert.Equal(t, int64(16), entries[1].Value)
	assert.Equal(t, "(LV_COORD_MAX - 1)", entries[2].Expr)
	assert.False(t, entries[2].HasValue)
	assert.Equal(t, "lv_my_enum_t", entries[3].EnumType)
	assert.Equal(t, "MY_E2", entries[4].Name)
	assert.Equal(t, int64(1), entries[5].Value)
	for _, e := range entries {
		assert.Equal(t, SourceUser, e.Source)
	}
}

func TestDecodeValues_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not an object", `[1, 2]`},
		{"float", `{"A": 1.5}`},
		{"null", `{"A": null}`},
		{"empty string", `{"A": " "}`},
		{"malformed", `{"A": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeValues([]byte(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestLoadValues_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte("MY_A: 3\nlv_x_t:\n  MY_B: \"0x2\"\n"), 0o600))

	entries, err := LoadValues(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].Value)
	assert.Equal(t, "lv_x_t", entries[1].EnumType)
	assert.Equal(t, int64(2), entries[1].Value)
}
