package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGemsForTrade(t *testing.T) {
	tests := []struct {
		name        string
		streak      int
		totalTrades int
		want        int
	}{
		{"first trade", 1, 1, 1},
		{"streak below bonus", 2, 2, 1},
		{"streak of three", 3, 3, 4},
		{"tenth trade milestone", 1, 10, 11},
		{"fifth trade milestone with streak", 4, 5, 10},
		{"twentieth trade takes ten not five", 1, 20, 11},
		{"streak and ten milestone", 10, 30, 21},
		{"fifteenth trade", 2, 15, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GemsForTrade(tt.streak, tt.totalTrades))
		})
	}
}
