// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/spatial/utils"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// A one-pole low-pass filter is applied to incoming frames when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames consumed per output frame
	channels int

	// interpolation window: t-1, t0, t+1, t+2. Output lies between t0 and t+1.
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool

	// fractional position between frames[1] and frames[2]
	pos float64

	srcBuf []float32
	eof    bool

	filter      bool
	filterAlpha float32
	filterState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		filter:      ratio > 1.0,
		filterAlpha: 0.5,
		filterState: make([]float32, channels),
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}
	return nil
}

// readFrame reads the next source frame into slot i of the window.
func (r *Resampler) readFrame(i int) error {
	r.hasFrame[i] = false
	if r.eof {
		return nil
	}

	n, err := r.src.ReadSamples(r.srcBuf)
	if n > 0 {
		dst := r.frames[i]
		copy(dst, r.srcBuf[:n])
		if r.filter {
			for c := range r.channels {
				dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
				r.filterState[c] = dst[c]
			}
		}
		r.hasFrame[i] = true
	}

	if err == io.EOF {
		r.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading resampler source: %w", err)
	}

	return nil
}

// prime loads the first frames. frames[0] mirrors the first frame since there
// is nothing before it.
func (r *Resampler) prime() error {
	r.primed = true

	if r.filter {
		// seed the filter with the first frame to avoid a ramp-in transient
		n, err := r.src.ReadSamples(r.srcBuf)
		if n > 0 {
			copy(r.filterState, r.srcBuf[:n])
			copy(r.frames[1], r.srcBuf[:n])
			r.hasFrame[1] = true
		}
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return fmt.Errorf("reading resampler source: %w", err)
		}
	} else if err := r.readFrame(1); err != nil {
		return err
	}

	if !r.hasFrame[1] {
		return io.EOF
	}
	copy(r.frames[0], r.frames[1])

	for i := 2; i < len(r.frames); i++ {
		if err := r.readFrame(i); err != nil {
			return err
		}
	}

	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.hasFrame[0], r.hasFrame[1], r.hasFrame[2] = r.hasFrame[1], r.hasFrame[2], r.hasFrame[3]

	if err := r.readFrame(3); err != nil {
		return err
	}
	if !r.hasFrame[1] {
		return io.EOF
	}

	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	frames := len(dst) / r.channels

	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}
		if !r.hasFrame[1] {
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		for c := range r.channels {
			y1 := r.frames[1][c]
			y0, y2, y3 := y1, y1, y1
			if r.hasFrame[0] {
				y0 = r.frames[0][c]
			}
			if r.hasFrame[2] {
				y2 = r.frames[2][c]
				y3 = y2
			}
			if r.hasFrame[2] && r.hasFrame[3] {
				y3 = r.frames[3][c]
			}

			dst[written*r.channels+c] = utils.CubicInterpolate(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
