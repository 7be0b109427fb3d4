// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ik5/spatial/asset"
	"github.com/ik5/spatial/config"
	"github.com/ik5/spatial/device"
	"github.com/ik5/spatial/internal/log"
	"github.com/ik5/spatial/scene"
)

// Engine synchronizes a scene.World with an audio device.
type Engine struct {
	ctx     device.Context
	world   *scene.World
	assets  *asset.Store
	buffers *Buffers
	effects *GlobalEffects

	// serializes ticks
	mu     sync.Mutex
	closed bool

	listener     scene.Entity
	haveListener bool
	warnedSends  bool
}

// New builds an engine over an open device context. When cfg names a reverb
// preset, a slot hosting it is added to the global effects. A nil assets
// store is replaced with an empty one.
func New(ctx device.Context, world *scene.World, assets *asset.Store, cfg config.Config) (*Engine, error) {
	if ctx == nil {
		return nil, ErrNoDevice
	}
	if world == nil {
		return nil, ErrNoWorld
	}
	if assets == nil {
		assets = asset.NewStore()
	}

	e := &Engine{
		ctx:     ctx,
		world:   world,
		assets:  assets,
		buffers: NewBuffers(ctx),
		effects: &GlobalEffects{},
	}

	if cfg.Reverb != "" {
		slot, err := newReverbSlot(ctx, cfg.Reverb)
		if err != nil {
			return nil, fmt.Errorf("setting up global reverb: %w", err)
		}
		send := e.effects.Append(slot)
		log.Info(log.CatEffect, "global reverb enabled", "preset", cfg.Reverb, "send", send)
	}

	return e, nil
}

func (e *Engine) Buffers() *Buffers       { return e.buffers }
func (e *Engine) Effects() *GlobalEffects { return e.effects }
func (e *Engine) Assets() *asset.Store    { return e.assets }
func (e *Engine) World() *scene.World     { return e.world }
func (e *Engine) Device() device.Context  { return e.ctx }

// Update runs one tick: asset uploads, transform propagation, the listener
// and then every sound.
func (e *Engine) Update() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	e.processAssetEvents()
	e.world.PropagateTransforms()
	e.updateListener()
	e.updateSources()
}

// ProcessAssetEvents mirrors pending asset changes into the buffer registry.
// It panics if an asset has a channel count the device cannot represent.
func (e *Engine) ProcessAssetEvents() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.processAssetEvents()
}

func (e *Engine) processAssetEvents() {
	for _, ev := range e.assets.Drain() {
		switch ev.Kind {
		case asset.Created:
			b, ok := e.assets.Get(ev.Handle)
			if !ok {
				// removed before we got to it
				continue
			}
			if err := e.buffers.Upsert(ev.Handle, b); err != nil {
				if errors.Is(err, ErrUnsupportedChannelCount) {
					panic(err)
				}
				log.Warn(log.CatBuffer, "asset not uploaded", "asset", ev.Handle, "err", err)
			}
		case asset.Modified:
			// uploaded buffers are immutable
		case asset.Removed:
			e.buffers.Remove(ev.Handle)
		}
	}
}

// UpdateListener pushes the listener's world transform to the device, or
// the origin facing +Z with +Y up when there is no listener transform.
func (e *Engine) UpdateListener() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updateListener()
}

func (e *Engine) updateListener() {
	pos, forward, up := mgl32.Vec3{}, scene.Forward, scene.Up

	ent, _, ok := scene.First(e.world, ListenerComponent)
	if ok {
		if !e.haveListener || ent != e.listener {
			if n := scene.Count(e.world, ListenerComponent); n > 1 {
				log.Debug(log.CatListener, "several listeners, using the lowest entity", "entity", ent, "listeners", n)
			}
			e.listener, e.haveListener = ent, true
		}

		if tr, ok := scene.ResolvedTransform(e.world, ent); ok {
			pos = tr.Translation
			if f, u := tr.Forward(), tr.Up(); f.Len() > 0 && u.Len() > 0 {
				forward, up = f, u
			}
		}
	} else {
		e.haveListener = false
	}

	if err := e.ctx.SetListenerPosition(pos); err != nil {
		log.Warn(log.CatListener, "setting listener position", "err", err)
	}
	if err := e.ctx.SetListenerOrientation(forward, up); err != nil {
		log.Warn(log.CatListener, "setting listener orientation", "err", err)
	}
}

// UpdateSources reconciles every Sound and Sounds component, in entity
// order.
func (e *Engine) UpdateSources() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updateSources()
}

func (e *Engine) updateSources() {
	slots := e.effects.Slots()
	if n := e.ctx.MaxAuxSends(); len(slots) > n {
		if !e.warnedSends {
			log.Warn(log.CatEffect, "more global effects than aux sends, extra slots unused",
				"slots", len(slots), "sends", n)
			e.warnedSends = true
		}
		slots = slots[:n]
	}

	scene.Each(e.world, SoundComponent, func(ent scene.Entity, s *Sound) {
		if s != nil {
			e.reconcile(ent, "", s, slots)
		}
	})
	scene.Each(e.world, SoundsComponent, func(ent scene.Entity, sounds Sounds) {
		for _, name := range sounds.Names() {
			if s := sounds[name]; s != nil {
				e.reconcile(ent, name, s, slots)
			}
		}
	})
}

// Close releases every source in the world, the global effects and the
// buffer registry. The device context stays open.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	release := func(s *Sound) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.releaseSource()
	}
	scene.Each(e.world, SoundComponent, func(_ scene.Entity, s *Sound) {
		if s != nil {
			release(s)
		}
	})
	scene.Each(e.world, SoundsComponent, func(_ scene.Entity, sounds Sounds) {
		for _, s := range sounds {
			if s != nil {
				release(s)
			}
		}
	})

	e.effects.Close()
	e.buffers.Close()
}

// Stats counts sounds by state.
type Stats struct {
	Sounds   int
	Playing  int
	Paused   int
	Sources  int
	Buffers  int
	Effects  int
	Listener bool
}

func (e *Engine) Stats() Stats {
	st := Stats{Buffers: e.buffers.Len(), Effects: e.effects.Len()}

	count := func(s *Sound) {
		if s == nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()

		st.Sounds++
		switch s.observed {
		case Playing:
			st.Playing++
		case Paused:
			st.Paused++
		}
		if s.source != nil {
			st.Sources++
		}
	}
	scene.Each(e.world, SoundComponent, func(_ scene.Entity, s *Sound) { count(s) })
	scene.Each(e.world, SoundsComponent, func(_ scene.Entity, sounds Sounds) {
		for _, s := range sounds {
			count(s)
		}
	})
	_, _, st.Listener = scene.First(e.world, ListenerComponent)

	return st
}
