// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"encoding/binary"
	"io"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/ik5/spatial/device"
	"github.com/ik5/spatial/utils"
)

// OutputChannels is the channel count of the mix.
const OutputChannels = 2

const bytesPerFrame = OutputChannels * 2

const (
	// interpolation points on each side used by the pitch resampler
	resampleQuality = 4
	// attenuation of the ear facing away from a source when HRTF is on
	headShadow = 0.3
)

// Read fills p with the next stretch of the mix as interleaved stereo 16-bit
// little-endian PCM. Only whole frames are written. After Close it returns
// io.EOF.
func (c *Context) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, io.EOF
	}

	var mixer beep.Mixer
	playing := make([]*Source, 0, len(c.sources))
	for _, s := range c.sources {
		if s.state != device.StatePlaying {
			continue
		}
		if s.buffer == nil || s.buffer.frames == 0 {
			s.rewind(device.StateStopped)
			continue
		}
		if s.voice == nil {
			s.voice = newVoice(s)
		}
		s.voice.update(c)
		mixer.Add(s.voice)
		playing = append(playing, s)
	}

	c.mix = slices.Grow(c.mix[:0], frames)[:frames]
	clear(c.mix)
	if len(playing) > 0 {
		mixer.Stream(c.mix)
	}

	for _, s := range playing {
		if s.voice.done {
			s.rewind(device.StateStopped)
		}
	}

	for i, f := range c.mix {
		binary.LittleEndian.PutUint16(p[4*i:], uint16(utils.Float32ToInt16(float32(f[0]))))
		binary.LittleEndian.PutUint16(p[4*i+2:], uint16(utils.Float32ToInt16(float32(f[1]))))
	}

	return frames * bytesPerFrame, nil
}

// cursor streams a source's buffer from its read position. It wraps around
// when the source loops and drains at the end of the buffer otherwise.
// Called with the context lock held.
type cursor struct {
	src *Source
}

func (c cursor) Stream(samples [][2]float64) (int, bool) {
	s := c.src
	b := s.buffer
	if b == nil || b.frames == 0 {
		return 0, false
	}

	data, channels := b.data, b.channels
	if channels == 2 && !s.relative {
		data, channels = b.mono, 1
	}

	n := 0
	for n < len(samples) {
		if s.read >= b.frames {
			if !s.looping {
				break
			}
			s.read = 0
		}
		if channels == 1 {
			v := float64(data[s.read])
			samples[n] = [2]float64{v, v}
		} else {
			samples[n] = [2]float64{float64(data[2*s.read]), float64(data[2*s.read+1])}
		}
		s.read++
		n++
	}

	return n, n > 0
}

func (cursor) Err() error { return nil }

// ears scales each output channel independently.
type ears struct {
	beep.Streamer
	left, right float64
}

func (e *ears) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.Streamer.Stream(samples)
	for i := range samples[:n] {
		samples[i][0] *= e.left
		samples[i][1] *= e.right
	}
	return n, ok
}

// voice is the render chain of one playing source: buffer, pitch, gain, pan
// and head shadow. It records when the chain drains.
type voice struct {
	src   *Source
	pitch *beep.Resampler
	gain  *effects.Volume
	pan   *effects.Pan
	ears  *ears
	done  bool
}

func newVoice(s *Source) *voice {
	v := &voice{src: s}
	v.pitch = beep.ResampleRatio(resampleQuality, float64(s.pitch), cursor{src: s})
	v.gain = &effects.Volume{Streamer: v.pitch, Base: 2}
	v.pan = &effects.Pan{Streamer: v.gain}
	v.ears = &ears{Streamer: v.pan, left: 1, right: 1}
	return v
}

// update applies the source properties and listener geometry.
func (v *voice) update(c *Context) {
	s := v.src
	v.pitch.SetRatio(float64(s.pitch))

	gain, pan := s.spatialize(c)
	if gain <= 0 {
		v.gain.Silent = true
	} else {
		v.gain.Silent = false
		v.gain.Volume = math.Log2(gain)
	}
	v.pan.Pan = pan

	v.ears.left, v.ears.right = 1, 1
	if c.attrs.HRTF {
		switch {
		case pan > 0:
			v.ears.left = 1 - headShadow*pan
		case pan < 0:
			v.ears.right = 1 + headShadow*pan
		}
	}
}

func (v *voice) Stream(samples [][2]float64) (int, bool) {
	n, ok := v.ears.Stream(samples)
	v.src.offset += float64(n) * float64(v.src.pitch)
	if n < len(samples) || !ok {
		v.done = true
	}
	return n, ok
}

func (v *voice) Err() error { return v.ears.Err() }

// spatialize returns the linear gain and the pan in [-1, 1] for the source's
// position relative to the listener. Stereo sources that are not downmixed
// are never panned.
func (s *Source) spatialize(c *Context) (gain, pan float64) {
	var dir, right mgl32.Vec3
	if s.relative {
		dir = s.position
		right = mgl32.Vec3{1, 0, 0}
	} else {
		dir = s.position.Sub(c.listenerPos)
		right = c.listenerForward.Cross(c.listenerUp)
	}

	dist := dir.Len()
	gain = float64(s.gain * attenuation(dist, s.referenceDistance, s.maxDistance, s.rolloffFactor))
	if s.buffer != nil && s.buffer.channels == 2 && s.relative {
		return gain, 0
	}

	return gain, float64(panFor(dir, right, s.radius))
}

// panFor projects dir onto the listener's right axis. Inside radius the
// source spreads towards the centre.
func panFor(dir, right mgl32.Vec3, radius float32) float32 {
	dist := dir.Len()
	if dist == 0 || right.Len() == 0 {
		return 0
	}
	pan := dir.Normalize().Dot(right.Normalize())
	if radius > 0 && dist < radius {
		pan *= dist / radius
	}
	return min(1, max(-1, pan))
}

// attenuation implements the inverse distance clamped model.
func attenuation(dist, ref, maxDist, rolloff float32) float32 {
	if ref <= 0 || rolloff <= 0 {
		return 1
	}
	dist = min(max(dist, ref), maxDist)
	den := ref + rolloff*(dist-ref)
	if den <= 0 {
		return 1
	}
	return min(1, ref/den)
}
