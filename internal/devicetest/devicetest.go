// SPDX-License-Identifier: EPL-2.0

// Package devicetest provides a recording in-memory device.Context for tests.
//
// Every call made through the fake is appended to the context's call log, and
// sources expose the last value of every property so a test can assert what
// the engine pushed. Failures are injected by setting the Fail* fields.
package devicetest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ik5/spatial/device"
)

// Call is one recorded device operation.
type Call struct {
	Object string
	Method string
}

func (c Call) String() string { return c.Object + "." + c.Method }

// Context is a fake device.Context.
type Context struct {
	mu    sync.Mutex
	calls []Call
	next  int

	Buffers []*Buffer
	Sources []*Source
	Effects []*Effect
	Slots   []*Slot

	ListenerPosition mgl32.Vec3
	ListenerForward  mgl32.Vec3
	ListenerUp       mgl32.Vec3

	Sends  int
	Closed bool

	FailNewBuffer   error
	FailNewSource   error
	FailNewEffect   error
	FailNewSlot     error
	FailListener    error
	FailSetBuffer   error
	FailSetProperty error
}

var _ device.Context = (*Context)(nil)

// New returns a fake with sends auxiliary sends per source.
func New(sends int) *Context {
	return &Context{
		Sends:           sends,
		ListenerForward: mgl32.Vec3{0, 0, -1},
		ListenerUp:      mgl32.Vec3{0, 1, 0},
	}
}

func (c *Context) record(object, method string) {
	c.calls = append(c.calls, Call{Object: object, Method: method})
}

func (c *Context) id(prefix string) string {
	c.next++
	return fmt.Sprintf("%s-%d", prefix, c.next)
}

// Calls returns a copy of the call log.
func (c *Context) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// CallsTo returns the methods recorded against one object id, in order.
func (c *Context) CallsTo(object string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	for _, call := range c.calls {
		if call.Object == object {
			out = append(out, call.Method)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (c *Context) ResetCalls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

// LiveSources returns the sources that have not been deleted.
func (c *Context) LiveSources() []*Source {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*Source
	for _, s := range c.Sources {
		if !s.deleted {
			out = append(out, s)
		}
	}
	return out
}

// LiveBuffers returns the buffers that have not been deleted.
func (c *Context) LiveBuffers() []*Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*Buffer
	for _, b := range c.Buffers {
		if !b.deleted {
			out = append(out, b)
		}
	}
	return out
}

func (c *Context) NewBuffer(format device.Format, samples []int16, frequency int) (device.Buffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record("context", "NewBuffer")
	if c.FailNewBuffer != nil {
		return nil, c.FailNewBuffer
	}
	b := &Buffer{
		ctx:       c,
		id:        c.id("buffer"),
		format:    format,
		frequency: frequency,
		Samples:   slices.Clone(samples),
	}
	c.Buffers = append(c.Buffers, b)
	return b, nil
}

func (c *Context) NewSource() (device.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record("context", "NewSource")
	if c.FailNewSource != nil {
		return nil, c.FailNewSource
	}
	s := &Source{
		ctx:      c,
		id:       c.id("source"),
		state:    device.StateInitial,
		Gain:     1,
		Pitch:    1,
		AuxSends: make(map[int]device.AuxEffectSlot),
	}
	c.Sources = append(c.Sources, s)
	return s, nil
}

func (c *Context) NewEffect(kind device.EffectKind) (device.Effect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record("context", "NewEffect")
	if c.FailNewEffect != nil {
		return nil, c.FailNewEffect
	}
	e := &Effect{ctx: c, kind: kind}
	c.Effects = append(c.Effects, e)
	return e, nil
}

func (c *Context) NewAuxEffectSlot() (device.AuxEffectSlot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record("context", "NewAuxEffectSlot")
	if c.FailNewSlot != nil {
		return nil, c.FailNewSlot
	}
	s := &Slot{ctx: c, id: c.id("slot")}
	c.Slots = append(c.Slots, s)
	return s, nil
}

func (c *Context) SetListenerPosition(pos mgl32.Vec3) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record("listener", "SetPosition")
	if c.FailListener != nil {
		return c.FailListener
	}
	c.ListenerPosition = pos
	return nil
}

func (c *Context) SetListenerOrientation(forward, up mgl32.Vec3) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record("listener", "SetOrientation")
	if c.FailListener != nil {
		return c.FailListener
	}
	c.ListenerForward, c.ListenerUp = forward, up
	return nil
}

func (c *Context) MaxAuxSends() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Sends
}

func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record("context", "Close")
	c.Closed = true
	return nil
}

// Buffer is a fake device.Buffer.
type Buffer struct {
	ctx       *Context
	id        string
	format    device.Format
	frequency int
	deleted   bool

	Samples []int16
}

func (b *Buffer) ID() string            { return b.id }
func (b *Buffer) Format() device.Format { return b.format }
func (b *Buffer) Frequency() int        { return b.frequency }

// Deleted reports whether Delete was called.
func (b *Buffer) Deleted() bool {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	return b.deleted
}

func (b *Buffer) Delete() error {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	b.ctx.record(b.id, "Delete")
	if b.deleted {
		return device.ErrDeleted
	}
	b.deleted = true
	return nil
}

// Source is a fake device.Source. The exported fields hold the last value set.
type Source struct {
	ctx     *Context
	id      string
	state   device.SourceState
	deleted bool

	Buffer            device.Buffer
	Gain              float32
	Pitch             float32
	Looping           bool
	Position          mgl32.Vec3
	Relative          bool
	ReferenceDistance float32
	MaxDistance       float32
	RolloffFactor     float32
	Radius            float32
	AuxSends          map[int]device.AuxEffectSlot
}

func (s *Source) ID() string { return s.id }

// SetState forces the state the source reports, as if playback had ended
// or the device had changed it out of band.
func (s *Source) SetState(state device.SourceState) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.state = state
}

// Deleted reports whether Delete was called.
func (s *Source) Deleted() bool {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.deleted
}

// Snapshot returns a copy of the source's properties taken under the lock.
func (s *Source) Snapshot() Source {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	cp := *s
	cp.AuxSends = make(map[int]device.AuxEffectSlot, len(s.AuxSends))
	for k, v := range s.AuxSends {
		cp.AuxSends[k] = v
	}
	return cp
}

func (s *Source) set(method string, apply func()) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.ctx.record(s.id, method)
	if s.deleted {
		return device.ErrDeleted
	}
	if s.ctx.FailSetProperty != nil {
		return s.ctx.FailSetProperty
	}
	apply()
	return nil
}

func (s *Source) SetBuffer(b device.Buffer) error {
	s.ctx.mu.Lock()
	if err := s.ctx.FailSetBuffer; err != nil && !s.deleted {
		s.ctx.record(s.id, "SetBuffer")
		s.ctx.mu.Unlock()
		return err
	}
	s.ctx.mu.Unlock()

	return s.set("SetBuffer", func() { s.Buffer = b })
}

func (s *Source) SetGain(gain float32) error {
	return s.set("SetGain", func() { s.Gain = gain })
}

func (s *Source) SetPitch(pitch float32) error {
	return s.set("SetPitch", func() { s.Pitch = pitch })
}

func (s *Source) SetLooping(looping bool) error {
	return s.set("SetLooping", func() { s.Looping = looping })
}

func (s *Source) SetPosition(pos mgl32.Vec3) error {
	return s.set("SetPosition", func() { s.Position = pos })
}

func (s *Source) SetRelative(relative bool) error {
	return s.set("SetRelative", func() { s.Relative = relative })
}

func (s *Source) SetReferenceDistance(d float32) error {
	return s.set("SetReferenceDistance", func() { s.ReferenceDistance = d })
}

func (s *Source) SetMaxDistance(d float32) error {
	return s.set("SetMaxDistance", func() { s.MaxDistance = d })
}

func (s *Source) SetRolloffFactor(f float32) error {
	return s.set("SetRolloffFactor", func() { s.RolloffFactor = f })
}

func (s *Source) SetRadius(r float32) error {
	return s.set("SetRadius", func() { s.Radius = r })
}

func (s *Source) SetAuxSend(send int, slot device.AuxEffectSlot) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.ctx.record(s.id, "SetAuxSend")
	if s.deleted {
		return device.ErrDeleted
	}
	if send < 0 || send >= s.ctx.Sends {
		return device.ErrInvalidSend
	}
	if slot == nil {
		delete(s.AuxSends, send)
		return nil
	}
	s.AuxSends[send] = slot
	return nil
}

func (s *Source) Play() error {
	return s.set("Play", func() { s.state = device.StatePlaying })
}

func (s *Source) Pause() error {
	return s.set("Pause", func() {
		if s.state == device.StatePlaying {
			s.state = device.StatePaused
		}
	})
}

func (s *Source) Stop() error {
	return s.set("Stop", func() { s.state = device.StateStopped })
}

func (s *Source) State() device.SourceState {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.ctx.record(s.id, "State")
	if s.deleted {
		return device.StateUnknown
	}
	return s.state
}

func (s *Source) Delete() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.ctx.record(s.id, "Delete")
	if s.deleted {
		return device.ErrDeleted
	}
	s.deleted = true
	return nil
}

// Effect is a fake device.Effect.
type Effect struct {
	ctx     *Context
	kind    device.EffectKind
	deleted bool

	Preset device.ReverbPreset
}

func (e *Effect) Kind() device.EffectKind { return e.kind }

func (e *Effect) SetReverbPreset(p device.ReverbPreset) error {
	e.ctx.mu.Lock()
	defer e.ctx.mu.Unlock()

	e.ctx.record("effect", "SetReverbPreset")
	if e.deleted {
		return device.ErrDeleted
	}
	e.Preset = p
	return nil
}

func (e *Effect) Delete() error {
	e.ctx.mu.Lock()
	defer e.ctx.mu.Unlock()

	e.ctx.record("effect", "Delete")
	e.deleted = true
	return nil
}

// Slot is a fake device.AuxEffectSlot.
type Slot struct {
	ctx     *Context
	id      string
	deleted bool

	Effect device.Effect
}

func (s *Slot) ID() string { return s.id }

// Deleted reports whether Delete was called.
func (s *Slot) Deleted() bool {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.deleted
}

func (s *Slot) SetEffect(e device.Effect) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.ctx.record(s.id, "SetEffect")
	if s.deleted {
		return device.ErrDeleted
	}
	s.Effect = e
	return nil
}

func (s *Slot) Delete() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.ctx.record(s.id, "Delete")
	if s.deleted {
		return device.ErrDeleted
	}
	s.deleted = true
	return nil
}
