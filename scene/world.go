// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"cmp"
	"slices"
	"sync"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// Entity identifies an object in a World.
type Entity = donburi.Entity

var (
	TransformComponent       = donburi.NewComponentType[Transform]()
	GlobalTransformComponent = donburi.NewComponentType[GlobalTransform]()

	parentComponent = donburi.NewComponentType[Entity]()
)

// maxDepth bounds parent chains so a cycle cannot hang propagation.
const maxDepth = 64

// Component is a typed value to attach when spawning an entity.
type Component interface {
	componentType() donburi.IComponentType
	apply(entry *donburi.Entry)
}

type value[T any] struct {
	ct *donburi.ComponentType[T]
	v  T
}

func (c value[T]) componentType() donburi.IComponentType { return c.ct }
func (c value[T]) apply(entry *donburi.Entry)            { c.ct.SetValue(entry, c.v) }

// With pairs a component type with its initial value.
func With[T any](ct *donburi.ComponentType[T], v T) Component {
	return value[T]{ct: ct, v: v}
}

func (t Transform) componentType() donburi.IComponentType { return TransformComponent }
func (t Transform) apply(entry *donburi.Entry)            { TransformComponent.SetValue(entry, t) }

// World wraps a donburi world with a lock so the engine and game systems can
// share it. Queries visit entities in ascending id order.
type World struct {
	mu sync.Mutex
	w  donburi.World
}

func NewWorld() *World {
	return &World{w: donburi.NewWorld()}
}

// Spawn creates an entity holding the given components. When a component
// type repeats, the last value wins.
func (w *World) Spawn(components ...Component) Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	types := make([]donburi.IComponentType, 0, len(components))
	for _, c := range components {
		if !slices.Contains(types, c.componentType()) {
			types = append(types, c.componentType())
		}
	}

	e := w.w.Create(types...)
	entry := w.w.Entry(e)
	for _, c := range components {
		c.apply(entry)
	}

	return e
}

// Despawn removes e and all of its components. Children become roots.
func (w *World) Despawn(e Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.w.Valid(e) {
		return false
	}

	var orphans []Entity
	donburi.NewQuery(filter.Contains(parentComponent)).Each(w.w, func(entry *donburi.Entry) {
		if parentComponent.GetValue(entry) == e {
			orphans = append(orphans, entry.Entity())
		}
	})
	for _, child := range orphans {
		w.w.Entry(child).RemoveComponent(parentComponent)
	}
	w.w.Remove(e)

	return true
}

func (w *World) Alive(e Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.w.Valid(e)
}

// SetParent attaches child below parent for transform propagation.
func (w *World) SetParent(child, parent Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if child == parent || !w.w.Valid(child) || !w.w.Valid(parent) {
		return false
	}
	set(w.w.Entry(child), parentComponent, parent)

	return true
}

// Parent returns the parent of e, if any.
func (w *World) Parent(e Entity) (Entity, bool) {
	return Get(w, e, parentComponent)
}

func set[T any](entry *donburi.Entry, ct *donburi.ComponentType[T], v T) {
	if !entry.HasComponent(ct) {
		entry.AddComponent(ct)
	}
	ct.SetValue(entry, v)
}

// Insert adds or replaces the ct component on e.
func Insert[T any](w *World, e Entity, ct *donburi.ComponentType[T], v T) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.w.Valid(e) {
		return false
	}
	set(w.w.Entry(e), ct, v)

	return true
}

// Remove drops the ct component from e.
func Remove[T any](w *World, e Entity, ct *donburi.ComponentType[T]) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.w.Valid(e) {
		return false
	}
	entry := w.w.Entry(e)
	if !entry.HasComponent(ct) {
		return false
	}
	entry.RemoveComponent(ct)

	return true
}

// Get returns a copy of the ct component on e.
func Get[T any](w *World, e Entity, ct *donburi.ComponentType[T]) (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var zero T
	if !w.w.Valid(e) {
		return zero, false
	}
	entry := w.w.Entry(e)
	if !entry.HasComponent(ct) {
		return zero, false
	}

	return ct.GetValue(entry), true
}

// Has reports whether e carries a ct component.
func Has[T any](w *World, e Entity, ct *donburi.ComponentType[T]) bool {
	_, ok := Get(w, e, ct)
	return ok
}

type item[T any] struct {
	e Entity
	c T
}

// snapshot copies out every ct component, sorted by entity id. Caller holds
// w.mu.
func snapshot[T any](w *World, ct *donburi.ComponentType[T]) []item[T] {
	var items []item[T]
	donburi.NewQuery(filter.Contains(ct)).Each(w.w, func(entry *donburi.Entry) {
		items = append(items, item[T]{e: entry.Entity(), c: ct.GetValue(entry)})
	})
	slices.SortFunc(items, func(a, b item[T]) int {
		return cmp.Compare(a.e.Id(), b.e.Id())
	})
	return items
}

// Each calls fn for every entity with a ct component, in ascending entity
// order. fn runs without the world lock held, so it may call back into the
// world.
func Each[T any](w *World, ct *donburi.ComponentType[T], fn func(e Entity, c T)) {
	w.mu.Lock()
	items := snapshot(w, ct)
	w.mu.Unlock()

	for _, it := range items {
		fn(it.e, it.c)
	}
}

// First returns the lowest entity carrying a ct component.
func First[T any](w *World, ct *donburi.ComponentType[T]) (Entity, T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	items := snapshot(w, ct)
	if len(items) == 0 {
		var zero T
		return 0, zero, false
	}
	return items[0].e, items[0].c, true
}

// Count returns the number of entities carrying a ct component.
func Count[T any](w *World, ct *donburi.ComponentType[T]) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return donburi.NewQuery(filter.Contains(ct)).Count(w.w)
}

// PropagateTransforms recomputes the GlobalTransform of every entity that
// has a Transform by composing it with its ancestors' transforms. Ancestors
// without a Transform count as identity. Entities that lost their Transform
// also lose their GlobalTransform.
func (w *World) PropagateTransforms() {
	w.mu.Lock()
	defer w.mu.Unlock()

	var stale []Entity
	donburi.NewQuery(filter.And(
		filter.Contains(GlobalTransformComponent),
		filter.Not(filter.Contains(TransformComponent)),
	)).Each(w.w, func(entry *donburi.Entry) {
		stale = append(stale, entry.Entity())
	})

	var resolved []item[GlobalTransform]
	donburi.NewQuery(filter.Contains(TransformComponent)).Each(w.w, func(entry *donburi.Entry) {
		global := TransformComponent.GetValue(entry)
		cur := entry
		for range maxDepth {
			if !cur.HasComponent(parentComponent) {
				break
			}
			parent := parentComponent.GetValue(cur)
			if !w.w.Valid(parent) {
				break
			}
			cur = w.w.Entry(parent)
			if cur.HasComponent(TransformComponent) {
				global = TransformComponent.GetValue(cur).Mul(global)
			}
		}
		resolved = append(resolved, item[GlobalTransform]{e: entry.Entity(), c: GlobalTransform(global)})
	})

	for _, e := range stale {
		w.w.Entry(e).RemoveComponent(GlobalTransformComponent)
	}
	for _, it := range resolved {
		set(w.w.Entry(it.e), GlobalTransformComponent, it.c)
	}
}

// ResolvedTransform returns the world-space transform of e, preferring the
// GlobalTransform over the local Transform. ok is false when e has neither.
func ResolvedTransform(w *World, e Entity) (Transform, bool) {
	if g, ok := Get(w, e, GlobalTransformComponent); ok {
		return Transform(g), true
	}
	return Get(w, e, TransformComponent)
}
