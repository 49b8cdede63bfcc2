// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCubicInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		y    [4]float32
		x    float32
		want float32
		tol  float32
	}{
		{"start returns y1", [4]float32{0, 1, 2, 3}, 0, 1, 1e-6},
		{"end returns y2", [4]float32{0, 1, 2, 3}, 1, 2, 1e-6},
		{"linear ramp is exact", [4]float32{0, 1, 2, 3}, 0.25, 1.25, 1e-6},
		{"flat stays flat", [4]float32{0.5, 0.5, 0.5, 0.5}, 0.7, 0.5, 1e-6},
		{"symmetric peak", [4]float32{0, 1, 1, 0}, 0.5, 1.125, 1e-6},
		{"negative ramp", [4]float32{3, 2, 1, 0}, 0.5, 1.5, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y[0], tt.y[1], tt.y[2], tt.y[3], tt.x)
			if math.Abs(float64(got-tt.want)) > float64(tt.tol) {
				t.Errorf("CubicInterpolate(%v, %v) = %v, want %v", tt.y, tt.x, got, tt.want)
			}
		})
	}
}

// A Catmull-Rom segment through a sampled sine stays close to the sine.
func TestCubicInterpolate_Sine(t *testing.T) {
	t.Parallel()

	const step = 0.1
	sample := func(i float64) float32 { return float32(math.Sin(i * step)) }

	for i := 1.0; i < 60; i++ {
		for _, x := range []float32{0.25, 0.5, 0.75} {
			got := CubicInterpolate(sample(i-1), sample(i), sample(i+1), sample(i+2), x)
			want := math.Sin((i + float64(x)) * step)
			if math.Abs(float64(got)-want) > 1e-3 {
				t.Fatalf("at %v+%v: got %v, want %v", i, x, got, want)
			}
		}
	}
}

func TestCubicInterpolate_ZeroAllocs(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		_ = CubicInterpolate(0.1, 0.2, 0.3, 0.4, 0.5)
	})
	if allocs != 0 {
		t.Errorf("CubicInterpolate allocated %v times, want 0", allocs)
	}
}
