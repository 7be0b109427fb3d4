// SPDX-License-Identifier: EPL-2.0

/*
Package scene holds the entity world the audio engine synchronizes against.

A World is a donburi world behind a lock. Components are declared with
donburi.NewComponentType and attached with With, or directly for Transform.
Insert replaces and Get copies out. Pointer components (such as
*spatial.Sound) are shared, which is how systems mutate state in place.

Transforms follow the usual scene-graph rule: an entity's Transform is local
to its parent, and PropagateTransforms writes the resolved GlobalTransform for
every entity that has a Transform, dropping it from entities that no longer
do.

	w := scene.NewWorld()
	parent := w.Spawn(scene.FromTranslation(mgl32.Vec3{10, 0, 0}))
	child := w.Spawn(scene.FromTranslation(mgl32.Vec3{0, 2, 0}))
	w.SetParent(child, parent)
	w.PropagateTransforms()
	g, _ := scene.Get(w, child, scene.GlobalTransformComponent) // translation (10, 2, 0)

Orientation uses the +Z axis as forward and +Y as up.
*/
package scene
