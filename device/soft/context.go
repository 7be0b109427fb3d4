// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ik5/spatial/device"
	"github.com/ik5/spatial/internal/log"
)

const (
	DefaultSampleRate  = 48000
	DefaultMaxAuxSends = 4
	// hard limit of the EFX extension
	maxAuxSendsLimit = 16
)

// Config selects the output format and context attributes.
type Config struct {
	SampleRate int
	Attributes device.Attributes
}

// Context is an in-memory audio device. It is safe for concurrent use: the
// engine mutates it from its tick while an output goroutine reads the mix.
type Context struct {
	mu sync.Mutex

	rate   int
	attrs  device.Attributes
	closed bool

	listenerPos     mgl32.Vec3
	listenerForward mgl32.Vec3
	listenerUp      mgl32.Vec3

	buffers []*Buffer
	sources []*Source
	effects []*Effect
	slots   []*Slot

	mix [][2]float64
}

var _ device.Context = (*Context)(nil)

// Open creates a context. Zero fields of cfg take their defaults.
func Open(cfg Config) (*Context, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Attributes.MaxAuxSends == 0 {
		cfg.Attributes.MaxAuxSends = DefaultMaxAuxSends
	}
	if cfg.SampleRate < 0 {
		return nil, fmt.Errorf("sample rate %d: %w", cfg.SampleRate, device.ErrInvalidValue)
	}
	if cfg.Attributes.MaxAuxSends < 0 || cfg.Attributes.MaxAuxSends > maxAuxSendsLimit {
		return nil, fmt.Errorf("max aux sends %d: %w", cfg.Attributes.MaxAuxSends, device.ErrInvalidValue)
	}

	log.Info(log.CatDevice, "software device opened",
		"sample_rate", cfg.SampleRate,
		"hrtf", cfg.Attributes.HRTF,
		"max_aux_sends", cfg.Attributes.MaxAuxSends)

	return &Context{
		rate:            cfg.SampleRate,
		attrs:           cfg.Attributes,
		listenerForward: mgl32.Vec3{0, 0, -1},
		listenerUp:      mgl32.Vec3{0, 1, 0},
	}, nil
}

func (c *Context) SampleRate() int { return c.rate }

// HRTF reports whether HRTF was requested at open time. With HRTF the mixer
// shades the ear facing away from each source.
func (c *Context) HRTF() bool { return c.attrs.HRTF }

func (c *Context) MaxAuxSends() int { return c.attrs.MaxAuxSends }

func (c *Context) SetListenerPosition(pos mgl32.Vec3) error {
	if !finiteVec(pos) {
		return fmt.Errorf("listener position %v: %w", pos, device.ErrInvalidValue)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return device.ErrClosed
	}
	c.listenerPos = pos
	return nil
}

func (c *Context) SetListenerOrientation(forward, up mgl32.Vec3) error {
	if !finiteVec(forward) || !finiteVec(up) || forward.Len() == 0 || up.Len() == 0 {
		return fmt.Errorf("listener orientation %v %v: %w", forward, up, device.ErrInvalidValue)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return device.ErrClosed
	}
	c.listenerForward, c.listenerUp = forward, up
	return nil
}

// Listener returns the current listener position and orientation.
func (c *Context) Listener() (pos, forward, up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listenerPos, c.listenerForward, c.listenerUp
}

// SourceStatus is a point-in-time view of one source.
type SourceStatus struct {
	ID       string
	State    device.SourceState
	Gain     float32
	Position mgl32.Vec3
	Relative bool
	Looping  bool
	// Progress is the playback position as a fraction of the buffer.
	Progress float64
}

// Status lists every live source in creation order.
func (c *Context) Status() []SourceStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]SourceStatus, 0, len(c.sources))
	for _, s := range c.sources {
		st := SourceStatus{
			ID:       s.id,
			State:    s.state,
			Gain:     s.gain,
			Position: s.position,
			Relative: s.relative,
			Looping:  s.looping,
		}
		if s.buffer != nil && s.buffer.frames > 0 {
			frames := float64(s.buffer.frames)
			if s.looping {
				st.Progress = math.Mod(s.offset, frames) / frames
			} else {
				st.Progress = min(1, s.offset/frames)
			}
		}
		out = append(out, st)
	}
	return out
}

// Advance mixes and discards d worth of audio, moving every playing source
// forward as if an output had consumed it.
func (c *Context) Advance(d time.Duration) error {
	frames := int(math.Round(d.Seconds() * float64(c.rate)))
	const chunk = 1024

	buf := make([]byte, chunk*bytesPerFrame)
	for frames > 0 {
		n := min(frames, chunk)
		if _, err := c.Read(buf[:n*bytesPerFrame]); err != nil {
			return err
		}
		frames -= n
	}
	return nil
}

// Close deletes every object owned by the context. Later calls fail with
// device.ErrClosed.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	for _, s := range c.sources {
		s.deleted = true
	}
	for _, b := range c.buffers {
		b.deleted = true
	}
	for _, e := range c.effects {
		e.deleted = true
	}
	for _, s := range c.slots {
		s.deleted = true
	}
	c.sources, c.buffers, c.effects, c.slots = nil, nil, nil, nil

	log.Info(log.CatDevice, "software device closed")
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec(v mgl32.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
