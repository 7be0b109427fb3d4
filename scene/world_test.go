// SPDX-License-Identifier: EPL-2.0

package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"

	"github.com/ik5/spatial/scene"
)

type tag struct{ name string }

var tagComponent = donburi.NewComponentType[tag]()

func TestComponents(t *testing.T) {
	t.Parallel()

	w := scene.NewWorld()
	e := w.Spawn(scene.With(tagComponent, tag{"a"}))

	got, ok := scene.Get(w, e, tagComponent)
	require.True(t, ok)
	require.Equal(t, "a", got.name)

	require.True(t, scene.Insert(w, e, tagComponent, tag{"b"}))
	got, _ = scene.Get(w, e, tagComponent)
	require.Equal(t, "b", got.name)

	require.False(t, scene.Has(w, e, scene.TransformComponent))
	require.True(t, scene.Insert(w, e, scene.TransformComponent, scene.Identity()))
	require.True(t, scene.Has(w, e, scene.TransformComponent))
	got, _ = scene.Get(w, e, tagComponent)
	require.Equal(t, "b", got.name)

	require.True(t, scene.Remove(w, e, tagComponent))
	require.False(t, scene.Remove(w, e, tagComponent))
	require.False(t, scene.Has(w, e, tagComponent))

	require.True(t, w.Despawn(e))
	require.False(t, w.Alive(e))
	require.False(t, w.Despawn(e))
	require.False(t, scene.Insert(w, e, tagComponent, tag{"c"}))
}

func TestSpawnLastValueWins(t *testing.T) {
	t.Parallel()

	w := scene.NewWorld()
	e := w.Spawn(scene.With(tagComponent, tag{"first"}), scene.With(tagComponent, tag{"second"}))

	got, ok := scene.Get(w, e, tagComponent)
	require.True(t, ok)
	require.Equal(t, "second", got.name)
}

func TestEachOrder(t *testing.T) {
	t.Parallel()

	w := scene.NewWorld()
	var want []scene.Entity
	for range 20 {
		want = append(want, w.Spawn(scene.With(tagComponent, tag{})))
	}
	w.Spawn(scene.Identity())
	// a second archetype holding the same component
	want = append(want, w.Spawn(scene.With(tagComponent, tag{}), scene.Identity()))

	var got []scene.Entity
	scene.Each(w, tagComponent, func(e scene.Entity, _ tag) {
		got = append(got, e)
		// callbacks may write back into the world
		scene.Insert(w, e, tagComponent, tag{"seen"})
	})
	require.Equal(t, want, got)
	require.Equal(t, 21, scene.Count(w, tagComponent))

	first, c, ok := scene.First(w, tagComponent)
	require.True(t, ok)
	require.Equal(t, want[0], first)
	require.Equal(t, "seen", c.name)
}

func TestFirstEmpty(t *testing.T) {
	t.Parallel()

	_, _, ok := scene.First(scene.NewWorld(), tagComponent)
	require.False(t, ok)
}

func TestPropagateTransforms(t *testing.T) {
	t.Parallel()

	w := scene.NewWorld()
	root := w.Spawn(scene.FromTranslation(mgl32.Vec3{10, 0, 0}))
	mid := w.Spawn(scene.With(tagComponent, tag{"no transform"}))
	leaf := w.Spawn(scene.FromTranslation(mgl32.Vec3{0, 2, 0}))

	require.True(t, w.SetParent(mid, root))
	require.True(t, w.SetParent(leaf, mid))
	w.PropagateTransforms()

	g, ok := scene.Get(w, leaf, scene.GlobalTransformComponent)
	require.True(t, ok)
	requireVec(t, mgl32.Vec3{10, 2, 0}, g.Translation)

	g, ok = scene.Get(w, root, scene.GlobalTransformComponent)
	require.True(t, ok)
	requireVec(t, mgl32.Vec3{10, 0, 0}, g.Translation)

	require.False(t, scene.Has(w, mid, scene.GlobalTransformComponent))

	w.Despawn(root)
	_, ok = w.Parent(mid)
	require.False(t, ok)
	w.PropagateTransforms()
	g, _ = scene.Get(w, leaf, scene.GlobalTransformComponent)
	requireVec(t, mgl32.Vec3{0, 2, 0}, g.Translation)
}

func TestPropagateDropsStaleGlobal(t *testing.T) {
	t.Parallel()

	w := scene.NewWorld()
	e := w.Spawn(scene.FromTranslation(mgl32.Vec3{3, 4, 5}))
	w.PropagateTransforms()
	require.True(t, scene.Has(w, e, scene.GlobalTransformComponent))

	require.True(t, scene.Remove(w, e, scene.TransformComponent))
	w.PropagateTransforms()
	require.False(t, scene.Has(w, e, scene.GlobalTransformComponent))

	_, ok := scene.ResolvedTransform(w, e)
	require.False(t, ok)
}

func TestPropagateTransformsCycle(t *testing.T) {
	t.Parallel()

	w := scene.NewWorld()
	a := w.Spawn(scene.FromTranslation(mgl32.Vec3{1, 0, 0}))
	b := w.Spawn(scene.FromTranslation(mgl32.Vec3{1, 0, 0}))
	require.True(t, w.SetParent(a, b))
	require.True(t, w.SetParent(b, a))
	require.False(t, w.SetParent(a, a))

	p, ok := w.Parent(a)
	require.True(t, ok)
	require.Equal(t, b, p)

	// terminates
	w.PropagateTransforms()
	require.True(t, scene.Has(w, a, scene.GlobalTransformComponent))
}

func TestResolvedTransform(t *testing.T) {
	t.Parallel()

	w := scene.NewWorld()
	local := w.Spawn(scene.FromTranslation(mgl32.Vec3{1, 2, 3}))
	none := w.Spawn(scene.With(tagComponent, tag{}))

	tr, ok := scene.ResolvedTransform(w, local)
	require.True(t, ok)
	requireVec(t, mgl32.Vec3{1, 2, 3}, tr.Translation)

	scene.Insert(w, local, scene.GlobalTransformComponent, scene.GlobalTransform(scene.FromTranslation(mgl32.Vec3{4, 5, 6})))
	tr, _ = scene.ResolvedTransform(w, local)
	requireVec(t, mgl32.Vec3{4, 5, 6}, tr.Translation)

	_, ok = scene.ResolvedTransform(w, none)
	require.False(t, ok)
}
