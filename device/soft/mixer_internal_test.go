// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestAttenuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                    string
		dist, ref, max, rolloff float32
		want                    float32
	}{
		{"inside reference", 0.5, 1, 100, 1, 1},
		{"at reference", 1, 1, 100, 1, 1},
		{"twice reference", 2, 1, 100, 1, 0.5},
		{"clamped at max", 1000, 1, 4, 1, 0.25},
		{"rolloff doubled", 2, 1, 100, 2, 1.0 / 3},
		{"no rolloff", 50, 1, 100, 0, 1},
		{"zero reference", 50, 0, 100, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, tt.want, attenuation(tt.dist, tt.ref, tt.max, tt.rolloff), 1e-6)
		})
	}
}

func TestPanFor(t *testing.T) {
	t.Parallel()

	right := mgl32.Vec3{1, 0, 0}
	tests := []struct {
		name   string
		dir    mgl32.Vec3
		radius float32
		want   float32
	}{
		{"ahead", mgl32.Vec3{0, 0, -3}, 0, 0},
		{"hard right", mgl32.Vec3{4, 0, 0}, 0, 1},
		{"hard left", mgl32.Vec3{-4, 0, 0}, 0, -1},
		{"diagonal", mgl32.Vec3{1, 0, -1}, 0, 0.70710678},
		{"inside radius", mgl32.Vec3{1, 0, 0}, 4, 0.25},
		{"outside radius", mgl32.Vec3{8, 0, 0}, 4, 1},
		{"on the listener", mgl32.Vec3{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, tt.want, panFor(tt.dir, right, tt.radius), 1e-6)
		})
	}

	require.Zero(t, panFor(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{}, 0))
}
