package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMMToDots(t *testing.T) {
	testCases := []struct {
		name     string
		mm       float64
		dpi      int
		expected int
	}{
		{"40mm at 203dpi", 40, 203, 320},
		{"30mm at 203dpi", 30, 203, 240},
		{"56mm at 203dpi", 56, 203, 448},
		{"25.4mm is one inch", 25.4, 203, 203},
		{"rounds up not truncates", 10, 203, 80}, // 79.92 -> 80
		{"rounds half to nearest", 3, 203, 24},   // 23.98 -> 24
		{"rounds down below half", 40, 300, 472}, // 472.44 -> 472
		{"zero", 0, 203, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MMToDots(tc.mm, tc.dpi))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 203, cfg.DPI)
	assert.Equal(t, 3.0, cfg.GapMM)
	assert.Equal(t, 0, cfg.Direction)
	assert.Equal(t, 8, cfg.Density)
}
