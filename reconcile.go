// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/ik5/spatial/asset"
	"github.com/ik5/spatial/device"
	"github.com/ik5/spatial/internal/log"
	"github.com/ik5/spatial/scene"
)

// placement is where a source sits. Sounds on entities without a transform
// play listener-relative at the origin.
type placement struct {
	pos     mgl32.Vec3
	spatial bool
}

func (e *Engine) placementOf(ent scene.Entity) placement {
	tr, ok := scene.ResolvedTransform(e.world, ent)
	if !ok {
		return placement{}
	}
	return placement{pos: tr.Translation, spatial: true}
}

// reconcile brings one sound's device source in line with its intent. A
// panic is contained to this sound.
func (e *Engine) reconcile(ent scene.Entity, name string, s *Sound, slots []device.AuxEffectSlot) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatSource, "reconciling sound panicked", "entity", ent, "sound", name, "panic", r)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Autoplay && !s.reconciled {
		s.State = Playing
	}
	s.reconciled = true

	if s.State == Stopped {
		if s.source != nil {
			s.releaseSource()
		}
		s.observed = Stopped
		return
	}

	if s.source != nil && e.stale(s.source, s.Buffer) {
		log.Debug(log.CatSource, "rebuilding source for new buffer",
			"entity", ent, "sound", name, "asset", s.Buffer)
		s.releaseSource()
	}

	fresh := false
	if s.source == nil {
		src, err := e.newSource(s.Buffer)
		if err != nil {
			log.Warn(log.CatSource, "creating source", "entity", ent, "sound", name, "err", err)
			return
		}
		s.source, fresh = src, true
	}

	observed := e.drive(ent, name, s, fresh, e.placementOf(ent), slots)
	s.State, s.observed = observed, observed

	if observed == Stopped {
		// finished, or the device dropped it
		s.releaseSource()
	}
}

// stale reports whether src no longer matches the buffer the sound wants.
// A source whose asset was removed keeps playing its old buffer.
func (e *Engine) stale(src *Source, want asset.Handle) bool {
	if src.handle != want {
		return true
	}
	if src.buffer == nil {
		// the asset arrived after the source was made, or was replaced
		// since the device refused it
		return e.buffers.Contains(want) && !e.buffers.current(want, src.failed)
	}
	return e.buffers.Contains(want) && !e.buffers.current(want, src.buffer)
}

func (e *Engine) newSource(h asset.Handle) (*Source, error) {
	ds, err := e.ctx.NewSource()
	if err != nil {
		return nil, err
	}
	src := &Source{src: ds, handle: h}

	buf, ok := e.buffers.Get(h)
	if !ok {
		log.Debug(log.CatSource, "source created without buffer", "source", ds.ID(), "asset", h)
		return src, nil
	}
	if err := ds.SetBuffer(buf.Device()); err != nil {
		log.Warn(log.CatSource, "binding buffer", "source", ds.ID(), "asset", h, "err", err)
		buf.Release()
		src.failed = buf
		return src, nil
	}
	src.buffer = buf

	return src, nil
}

// drive pushes the sound's properties, issues the state transition and
// returns the state the device reports afterwards. Caller holds s.mu.
func (e *Engine) drive(ent scene.Entity, name string, s *Sound, fresh bool, at placement, slots []device.AuxEffectSlot) SoundState {
	src := s.source
	src.mu.Lock()
	defer src.mu.Unlock()

	ds := src.src
	check := func(prop string, err error) {
		if err != nil {
			log.Warn(log.CatSource, "setting source property",
				"entity", ent, "sound", name, "prop", prop, "err", err)
		}
	}

	check("relative", ds.SetRelative(!at.spatial))
	check("position", ds.SetPosition(at.pos))
	check("gain", ds.SetGain(s.Gain))
	check("pitch", ds.SetPitch(s.Pitch))
	check("looping", ds.SetLooping(s.Looping))
	check("reference_distance", ds.SetReferenceDistance(s.ReferenceDistance))
	check("max_distance", ds.SetMaxDistance(s.MaxDistance))
	check("rolloff_factor", ds.SetRolloffFactor(s.RolloffFactor))
	check("radius", ds.SetRadius(s.Radius))

	if s.BypassGlobalEffects {
		for i := range src.sends {
			check("aux_send", ds.SetAuxSend(i, nil))
		}
		src.sends = 0
	} else {
		for i, slot := range slots {
			check("aux_send", ds.SetAuxSend(i, slot))
		}
		for i := len(slots); i < src.sends; i++ {
			check("aux_send", ds.SetAuxSend(i, nil))
		}
		src.sends = len(slots)
	}

	switch s.State {
	case Playing:
		// a finished source is left alone so the read-back can retire it
		if st := ds.State(); fresh || (st != device.StatePlaying && st != device.StateStopped) {
			check("play", ds.Play())
		}
	case Paused:
		if ds.State() != device.StatePaused {
			check("pause", ds.Pause())
		}
	}

	return fromDevice(ds.State())
}
