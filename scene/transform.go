// SPDX-License-Identifier: EPL-2.0

package scene

import "github.com/go-gl/mathgl/mgl32"

var (
	// Forward is the local axis a transform faces along.
	Forward = mgl32.Vec3{0, 0, 1}
	// Up is the local up axis.
	Up = mgl32.Vec3{0, 1, 0}
)

// Transform places an entity relative to its parent (or the world, for roots).
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// GlobalTransform is a Transform resolved to world space by PropagateTransforms.
type GlobalTransform Transform

func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func FromTranslation(v mgl32.Vec3) Transform {
	t := Identity()
	t.Translation = v
	return t
}

// LookingAt returns a transform at pos whose Forward axis points at target.
func LookingAt(pos, target, up mgl32.Vec3) Transform {
	t := Identity()
	t.Translation = pos
	t.Rotation = lookRotation(target.Sub(pos), up)
	return t
}

func lookRotation(dir, up mgl32.Vec3) mgl32.Quat {
	if dir.Len() == 0 {
		return mgl32.QuatIdent()
	}
	f := dir.Normalize()
	r := up.Cross(f)
	if r.Len() == 0 {
		// up is parallel to dir: any perpendicular axis will do
		r = mgl32.Vec3{1, 0, 0}.Cross(f)
		if r.Len() == 0 {
			r = mgl32.Vec3{0, 0, 1}.Cross(f)
		}
	}
	r = r.Normalize()
	u := f.Cross(r)

	// columns are the images of the local X, Y and Z axes
	m := mgl32.Mat3FromCols(r, u, f)
	return mgl32.Mat4ToQuat(m.Mat4()).Normalize()
}

// Forward returns the rotated Forward axis.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(Forward)
}

// Up returns the rotated Up axis.
func (t Transform) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(Up)
}

// Mul composes t with a child transform expressed in t's space.
func (t Transform) Mul(child Transform) Transform {
	scaled := mgl32.Vec3{
		t.Scale[0] * child.Translation[0],
		t.Scale[1] * child.Translation[1],
		t.Scale[2] * child.Translation[2],
	}

	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(scaled)),
		Rotation:    t.Rotation.Mul(child.Rotation).Normalize(),
		Scale: mgl32.Vec3{
			t.Scale[0] * child.Scale[0],
			t.Scale[1] * child.Scale[1],
			t.Scale[2] * child.Scale[2],
		},
	}
}

func (g GlobalTransform) Transform() Transform { return Transform(g) }
func (g GlobalTransform) Forward() mgl32.Vec3  { return Transform(g).Forward() }
func (g GlobalTransform) Up() mgl32.Vec3       { return Transform(g).Up() }
