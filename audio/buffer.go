// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/ik5/spatial/utils"
)

// Buffer is a fully decoded clip: interleaved 16-bit PCM with its rate and
// channel count. A Buffer is never modified after it is built.
type Buffer struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the playback length at the buffer's own sample rate.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// ReadAll drains src into a Buffer, converting float32 samples to int16 PCM.
// bufferSize is rounded down to a whole number of frames; 0 picks src.BufSize().
// The source is not closed.
func ReadAll(src Source, bufferSize int) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidChannelCount
	}
	if src.SampleRate() <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if bufferSize <= 0 {
		bufferSize = src.BufSize()
	}
	bufferSize -= bufferSize % channels
	if bufferSize == 0 {
		bufferSize = 4096 * channels
	}

	out := &Buffer{
		SampleRate: src.SampleRate(),
		Channels:   channels,
		Samples:    make([]int16, 0, bufferSize),
	}
	buf := make([]float32, bufferSize)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			out.Samples = utils.AppendFloat32AsInt16(out.Samples, buf[:n])
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			// A source that neither advances nor reports EOF is finished
			// for our purposes.
			break
		}
	}

	return out, nil
}

// bufferSource streams a Buffer as normalized float32 samples.
type bufferSource struct {
	buf *Buffer
	pos int
}

// NewBufferSource returns a Source reading b from the start.
func NewBufferSource(b *Buffer) Source {
	return &bufferSource{buf: b}
}

func (s *bufferSource) SampleRate() int { return s.buf.SampleRate }
func (s *bufferSource) Channels() int   { return s.buf.Channels }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.buf.Samples) {
		return 0, io.EOF
	}

	n := min(len(dst), len(s.buf.Samples)-s.pos)
	for i := range n {
		dst[i] = utils.Int16ToFloat32(s.buf.Samples[s.pos+i])
	}
	s.pos += n

	if s.pos >= len(s.buf.Samples) {
		return n, io.EOF
	}

	return n, nil
}

// Resample returns b converted to rate. b itself is returned when the rates
// already match.
func Resample(b *Buffer, rate int) (*Buffer, error) {
	if rate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if b.SampleRate == rate || len(b.Samples) == 0 {
		return b, nil
	}

	out, err := ReadAll(NewResampler(NewBufferSource(b), rate), 4096*b.Channels)
	if err != nil {
		return nil, fmt.Errorf("resampling %d Hz to %d Hz: %w", b.SampleRate, rate, err)
	}

	return out, nil
}
