package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteLines(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"empty", "", 4, []string{`""`}},
		{"short", "ab", 4, []string{`"ab"`}},
		{"split", "abcdef", 4, []string{`"abcd"`, `"ef"`}},
		{"exact", "abcd", 4, []string{`"abcd"`}},
		{"escapes", `a"b`, 2, []string{`"a\""`, `"b"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteLines(tt.in, tt.width))
		})
	}
}
