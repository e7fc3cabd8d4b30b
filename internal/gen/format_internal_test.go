package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/lvglgen/internal/api"
)

func TestIsPercentType(t *testing.T) {
	tests := []struct {
		ctype string
		want  bool
	}{
		{"lv_coord_t", true},
		{"int32_t", true},
		{"const int32_t", true},
		{"int", false},
		{"int16_t", false},
		{"uint32_t", false},
		{"int32_t *", false},
		{"const lv_coord_t *", false},
	}
	for _, tt := range tests {
		t.Run(tt.ctype, func(t *testing.T) {
			assert.Equal(t, tt.want, isPercentType(api.MustParseCType(tt.ctype)))
		})
	}
}
