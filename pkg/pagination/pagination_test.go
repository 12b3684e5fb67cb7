package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, 0, p.Skip)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        Params
		wantSkip  int
		wantLimit int
	}{
		{"zero values get defaults", Params{}, 0, DefaultLimit},
		{"valid values kept", Params{Skip: 10, Limit: 25}, 10, 25},
		{"negative skip clamped", Params{Skip: -5, Limit: 25}, 0, 25},
		{"limit above cap clamped", Params{Limit: 500}, 0, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize()
			assert.Equal(t, tt.wantSkip, p.Skip)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}
