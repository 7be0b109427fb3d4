// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/ik5/spatial/audio"
	"github.com/ik5/spatial/device"
	"github.com/ik5/spatial/internal/log"
	"github.com/ik5/spatial/utils"
)

// Buffer holds PCM converted to the context's sample rate.
type Buffer struct {
	ctx       *Context
	id        string
	format    device.Format
	frequency int
	deleted   bool
	users     int

	channels int
	frames   int
	data     []float32 // interleaved, at ctx.rate
	mono     []float32 // downmix of data for positional playback
}

var _ device.Buffer = (*Buffer)(nil)

func (c *Context) NewBuffer(format device.Format, samples []int16, frequency int) (device.Buffer, error) {
	channels := format.Channels()
	if channels == 0 {
		return nil, fmt.Errorf("buffer format %v: %w", format, device.ErrInvalidValue)
	}
	if frequency <= 0 {
		return nil, fmt.Errorf("buffer frequency %d: %w", frequency, device.ErrInvalidValue)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%d samples for %d channels: %w", len(samples), channels, device.ErrInvalidValue)
	}

	// Conversion runs outside the lock; it can take a while for long assets.
	src := &audio.Buffer{Samples: samples, SampleRate: frequency, Channels: channels}
	converted, err := audio.Resample(src, c.rate)
	if err != nil {
		return nil, fmt.Errorf("converting buffer: %w", err)
	}
	b := &Buffer{
		ctx:       c,
		id:        uuid.NewString(),
		format:    format,
		frequency: frequency,
		channels:  channels,
		frames:    converted.Frames(),
		data:      toFloat(converted.Samples),
	}
	if channels == 2 {
		mono, err := audio.Downmix(converted)
		if err != nil {
			return nil, fmt.Errorf("converting buffer: %w", err)
		}
		b.mono = toFloat(mono.Samples)
		// the mixer indexes both layouts with the same frame count
		b.frames = min(b.frames, len(b.mono))
	} else {
		b.mono = b.data
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, device.ErrClosed
	}
	c.buffers = append(c.buffers, b)

	log.Debug(log.CatDevice, "buffer created",
		"id", b.id, "format", format, "frequency", frequency, "frames", b.frames)

	return b, nil
}

func toFloat(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, v := range samples {
		out[i] = utils.Int16ToFloat32(v)
	}
	return out
}

func (b *Buffer) ID() string            { return b.id }
func (b *Buffer) Format() device.Format { return b.format }
func (b *Buffer) Frequency() int        { return b.frequency }

// Delete frees the buffer. A buffer still attached to a source cannot be
// deleted.
func (b *Buffer) Delete() error {
	c := b.ctx
	c.mu.Lock()
	defer c.mu.Unlock()

	if b.deleted {
		return device.ErrDeleted
	}
	if b.users > 0 {
		return fmt.Errorf("buffer %s attached to %d sources: %w", b.id, b.users, device.ErrInvalidOperation)
	}
	b.deleted = true
	c.buffers = slices.DeleteFunc(c.buffers, func(x *Buffer) bool { return x == b })

	return nil
}

// Effect stores reverb parameters.
type Effect struct {
	ctx     *Context
	kind    device.EffectKind
	deleted bool
	preset  device.ReverbPreset
}

var _ device.Effect = (*Effect)(nil)

func (c *Context) NewEffect(kind device.EffectKind) (device.Effect, error) {
	switch kind {
	case device.EffectReverb, device.EffectEAXReverb:
	default:
		return nil, fmt.Errorf("effect kind %d: %w", kind, device.ErrUnknownEffectKind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, device.ErrClosed
	}
	p, _ := device.LookupReverbPreset("generic")
	e := &Effect{ctx: c, kind: kind, preset: p}
	c.effects = append(c.effects, e)

	return e, nil
}

func (e *Effect) Kind() device.EffectKind { return e.kind }

// Preset returns the parameters last applied.
func (e *Effect) Preset() device.ReverbPreset {
	e.ctx.mu.Lock()
	defer e.ctx.mu.Unlock()
	return e.preset
}

func (e *Effect) SetReverbPreset(p device.ReverbPreset) error {
	if err := p.Validate(); err != nil {
		return err
	}

	e.ctx.mu.Lock()
	defer e.ctx.mu.Unlock()

	if e.deleted {
		return device.ErrDeleted
	}
	e.preset = p
	return nil
}

func (e *Effect) Delete() error {
	c := e.ctx
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.deleted {
		return device.ErrDeleted
	}
	e.deleted = true
	c.effects = slices.DeleteFunc(c.effects, func(x *Effect) bool { return x == e })

	return nil
}

// Slot is an auxiliary effect slot.
type Slot struct {
	ctx     *Context
	id      string
	deleted bool
	effect  *Effect
}

var _ device.AuxEffectSlot = (*Slot)(nil)

func (c *Context) NewAuxEffectSlot() (device.AuxEffectSlot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, device.ErrClosed
	}
	s := &Slot{ctx: c, id: uuid.NewString()}
	c.slots = append(c.slots, s)

	return s, nil
}

func (s *Slot) ID() string { return s.id }

// Effect returns the hosted effect, or nil.
func (s *Slot) Effect() device.Effect {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.effect == nil {
		return nil
	}
	return s.effect
}

// SetEffect loads e into the slot. A nil e empties it.
func (s *Slot) SetEffect(e device.Effect) error {
	var eff *Effect
	if e != nil {
		var ok bool
		eff, ok = e.(*Effect)
		if !ok || eff.ctx != s.ctx {
			return device.ErrForeignObject
		}
	}

	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.deleted {
		return device.ErrDeleted
	}
	if eff != nil && eff.deleted {
		return fmt.Errorf("effect: %w", device.ErrDeleted)
	}
	s.effect = eff
	return nil
}

// Delete frees the slot and detaches it from every source send.
func (s *Slot) Delete() error {
	c := s.ctx
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.deleted {
		return device.ErrDeleted
	}
	s.deleted = true
	c.slots = slices.DeleteFunc(c.slots, func(x *Slot) bool { return x == s })
	for _, src := range c.sources {
		for i, slot := range src.sends {
			if slot == s {
				src.sends[i] = nil
			}
		}
	}

	return nil
}
