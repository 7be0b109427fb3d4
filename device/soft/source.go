// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/ik5/spatial/device"
)

// Source is a playback voice. All methods lock the owning context.
type Source struct {
	ctx     *Context
	id      string
	deleted bool

	state  device.SourceState
	buffer *Buffer
	voice  *voice  // render chain, built on the first mix after Play
	read   int     // next frame the chain pulls from the buffer
	offset float64 // frames heard since Play, scaled by pitch

	gain              float32
	pitch             float32
	looping           bool
	position          mgl32.Vec3
	relative          bool
	referenceDistance float32
	maxDistance       float32
	rolloffFactor     float32
	radius            float32
	sends             []*Slot
}

var _ device.Source = (*Source)(nil)

func (c *Context) NewSource() (device.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, device.ErrClosed
	}
	s := &Source{
		ctx:               c,
		id:                uuid.NewString(),
		state:             device.StateInitial,
		gain:              1,
		pitch:             1,
		referenceDistance: 1,
		maxDistance:       math.MaxFloat32,
		rolloffFactor:     1,
		sends:             make([]*Slot, c.attrs.MaxAuxSends),
	}
	c.sources = append(c.sources, s)

	return s, nil
}

func (s *Source) ID() string { return s.id }

// with runs fn under the context lock once the source is known to be alive.
func (s *Source) with(fn func() error) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.deleted {
		return device.ErrDeleted
	}
	return fn()
}

func nonNegative(name string, v float32) error {
	if !finite(v) || v < 0 {
		return fmt.Errorf("%s %v: %w", name, v, device.ErrInvalidValue)
	}
	return nil
}

// rewind drops the render chain and moves to state. Caller holds the
// context lock.
func (s *Source) rewind(state device.SourceState) {
	s.state = state
	s.voice = nil
	s.read = 0
	s.offset = 0
}

// SetBuffer attaches b, or detaches the current buffer when b is nil. The
// source must not be playing or paused; it returns to Initial.
func (s *Source) SetBuffer(b device.Buffer) error {
	var buf *Buffer
	if b != nil {
		var ok bool
		buf, ok = b.(*Buffer)
		if !ok || buf.ctx != s.ctx {
			return device.ErrForeignObject
		}
	}

	return s.with(func() error {
		if s.state == device.StatePlaying || s.state == device.StatePaused {
			return fmt.Errorf("set buffer while %v: %w", s.state, device.ErrInvalidOperation)
		}
		if buf != nil && buf.deleted {
			return fmt.Errorf("buffer: %w", device.ErrDeleted)
		}
		if s.buffer != nil {
			s.buffer.users--
		}
		s.buffer = buf
		if buf != nil {
			buf.users++
		}
		s.rewind(device.StateInitial)
		return nil
	})
}

func (s *Source) SetGain(gain float32) error {
	if err := nonNegative("gain", gain); err != nil {
		return err
	}
	return s.with(func() error { s.gain = gain; return nil })
}

// SetPitch needs a positive pitch.
func (s *Source) SetPitch(pitch float32) error {
	if !finite(pitch) || pitch <= 0 {
		return fmt.Errorf("pitch %v: %w", pitch, device.ErrInvalidValue)
	}
	return s.with(func() error { s.pitch = pitch; return nil })
}

func (s *Source) SetLooping(looping bool) error {
	return s.with(func() error { s.looping = looping; return nil })
}

func (s *Source) SetPosition(pos mgl32.Vec3) error {
	if !finiteVec(pos) {
		return fmt.Errorf("position %v: %w", pos, device.ErrInvalidValue)
	}
	return s.with(func() error { s.position = pos; return nil })
}

func (s *Source) SetRelative(relative bool) error {
	return s.with(func() error { s.relative = relative; return nil })
}

func (s *Source) SetReferenceDistance(d float32) error {
	if err := nonNegative("reference distance", d); err != nil {
		return err
	}
	return s.with(func() error { s.referenceDistance = d; return nil })
}

func (s *Source) SetMaxDistance(d float32) error {
	if err := nonNegative("max distance", d); err != nil {
		return err
	}
	return s.with(func() error { s.maxDistance = d; return nil })
}

func (s *Source) SetRolloffFactor(f float32) error {
	if err := nonNegative("rolloff factor", f); err != nil {
		return err
	}
	return s.with(func() error { s.rolloffFactor = f; return nil })
}

func (s *Source) SetRadius(r float32) error {
	if err := nonNegative("radius", r); err != nil {
		return err
	}
	return s.with(func() error { s.radius = r; return nil })
}

// SetAuxSend routes the source into slot on the given send. A nil slot
// disconnects the send.
func (s *Source) SetAuxSend(send int, slot device.AuxEffectSlot) error {
	var sl *Slot
	if slot != nil {
		var ok bool
		sl, ok = slot.(*Slot)
		if !ok || sl.ctx != s.ctx {
			return device.ErrForeignObject
		}
	}

	return s.with(func() error {
		if send < 0 || send >= len(s.sends) {
			return fmt.Errorf("send %d of %d: %w", send, len(s.sends), device.ErrInvalidSend)
		}
		if sl != nil && sl.deleted {
			return fmt.Errorf("slot: %w", device.ErrDeleted)
		}
		s.sends[send] = sl
		return nil
	})
}

// AuxSends returns the slot ids connected to each send, "" for none.
func (s *Source) AuxSends() []string {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	ids := make([]string, len(s.sends))
	for i, sl := range s.sends {
		if sl != nil {
			ids[i] = sl.id
		}
	}
	return ids
}

// Play starts or restarts playback. A playing source rewinds, a paused one
// resumes. Without a buffer the source stops at once.
func (s *Source) Play() error {
	return s.with(func() error {
		switch {
		case s.buffer == nil || s.buffer.frames == 0:
			s.rewind(device.StateStopped)
		case s.state == device.StatePaused:
			s.state = device.StatePlaying
		default:
			s.rewind(device.StatePlaying)
		}
		return nil
	})
}

// Pause has an effect only on a playing source.
func (s *Source) Pause() error {
	return s.with(func() error {
		if s.state == device.StatePlaying {
			s.state = device.StatePaused
		}
		return nil
	})
}

// Stop halts playback and rewinds. An Initial source stays Initial.
func (s *Source) Stop() error {
	return s.with(func() error {
		state := device.StateStopped
		if s.state == device.StateInitial {
			state = device.StateInitial
		}
		s.rewind(state)
		return nil
	})
}

// State reports StateUnknown for a deleted source.
func (s *Source) State() device.SourceState {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.deleted {
		return device.StateUnknown
	}
	return s.state
}

func (s *Source) Delete() error {
	c := s.ctx
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.deleted {
		return device.ErrDeleted
	}
	s.deleted = true
	s.voice = nil
	if s.buffer != nil {
		s.buffer.users--
		s.buffer = nil
	}
	c.sources = slices.DeleteFunc(c.sources, func(x *Source) bool { return x == s })

	return nil
}
