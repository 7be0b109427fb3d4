// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer averages all channels of src into a single channel.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("closing mono mixer source: %w", err)
	}
	return nil
}

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	needed := len(dst) * channels
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, max(needed, 8192))
	}
	m.tmp = m.tmp[:needed]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames := n / channels

	switch channels {
	case 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
	default:
		inv := float32(1) / float32(channels)
		for f := range frames {
			var sum float32
			for _, v := range m.tmp[f*channels : (f+1)*channels] {
				sum += v
			}
			dst[f] = sum * inv
		}
	}

	return frames, err
}

// Downmix returns a mono copy of b. Mono buffers are returned as is.
func Downmix(b *Buffer) (*Buffer, error) {
	if b.Channels == 1 {
		return b, nil
	}

	out, err := ReadAll(NewMonoMixer(NewBufferSource(b)), 4096)
	if err != nil {
		return nil, fmt.Errorf("downmixing %d channels: %w", b.Channels, err)
	}

	return out, nil
}
