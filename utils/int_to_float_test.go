// SPDX-License-Identifier: EPL-2.0

package utils

import "testing"

func TestIntToFloat32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		v        int
		bitDepth int
		want     float32
	}{
		{"16-bit half", 16384, 16, 0.5},
		{"16-bit min", -32768, 16, -1},
		{"8-bit quarter", 32, 8, 0.25},
		{"24-bit half", 4194304, 24, 0.5},
		{"32-bit min", -2147483648, 32, -1},
		{"unknown depth as 16-bit", 16384, 12, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IntToFloat32(tt.v, tt.bitDepth); got != tt.want {
				t.Errorf("IntToFloat32(%d, %d) = %v, want %v", tt.v, tt.bitDepth, got, tt.want)
			}
		})
	}
}
