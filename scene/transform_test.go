// SPDX-License-Identifier: EPL-2.0

package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/ik5/spatial/scene"
)

func requireVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	require.Truef(t, want.ApproxEqualThreshold(got, 1e-4), "want %v, got %v", want, got)
}

func TestIdentityAxes(t *testing.T) {
	t.Parallel()

	id := scene.Identity()
	requireVec(t, mgl32.Vec3{0, 0, 1}, id.Forward())
	requireVec(t, mgl32.Vec3{0, 1, 0}, id.Up())
	requireVec(t, mgl32.Vec3{1, 1, 1}, id.Scale)
}

func TestLookingAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pos     mgl32.Vec3
		target  mgl32.Vec3
		forward mgl32.Vec3
		up      mgl32.Vec3
	}{
		{"along +z", mgl32.Vec3{}, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{"along +x", mgl32.Vec3{}, mgl32.Vec3{3, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{"along -z", mgl32.Vec3{0, 0, 4}, mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{"same point", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := scene.LookingAt(tt.pos, tt.target, mgl32.Vec3{0, 1, 0})
			requireVec(t, tt.pos, tr.Translation)
			requireVec(t, tt.forward, tr.Forward())
			requireVec(t, tt.up, tr.Up())
		})
	}
}

func TestLookingAtParallelUp(t *testing.T) {
	t.Parallel()

	tr := scene.LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 1, 0})
	requireVec(t, mgl32.Vec3{0, 1, 0}, tr.Forward())
	require.InDelta(t, 0, tr.Forward().Dot(tr.Up()), 1e-4)
}

func TestMul(t *testing.T) {
	t.Parallel()

	parent := scene.FromTranslation(mgl32.Vec3{10, 0, 0})
	parent.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	parent.Scale = mgl32.Vec3{2, 2, 2}

	child := scene.FromTranslation(mgl32.Vec3{0, 0, 1})

	got := parent.Mul(child)
	// +Z rotated 90 degrees about +Y is +X, scaled by 2
	requireVec(t, mgl32.Vec3{12, 0, 0}, got.Translation)
	requireVec(t, mgl32.Vec3{1, 0, 0}, got.Forward())
	requireVec(t, mgl32.Vec3{2, 2, 2}, got.Scale)
}
