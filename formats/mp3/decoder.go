// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/spatial/audio"
	"github.com/ik5/spatial/utils"
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	// odd byte left over from the previous read
	carry    byte
	hasCarry bool
}

func (s *source) SampleRate() int { return s.sampleRate }

// Channels is always 2: go-mp3 decodes every stream to stereo.
func (s *source) Channels() int { return 2 }
func (s *source) Close() error  { return nil }
func (s *source) BufSize() int  { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	// go-mp3 yields 16-bit little-endian PCM
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	off := 0
	if s.hasCarry {
		s.buf[0] = s.carry
		s.hasCarry = false
		off = 1
	}

	n := off
	var err error
	// a read may end mid-sample; keep going until a whole sample is available
	for n < 2 && err == nil {
		var m int
		m, err = s.dec.Read(s.buf[n:])
		if m == 0 && err == nil {
			break
		}
		n += m
	}
	if n%2 == 1 {
		s.carry = s.buf[n-1]
		s.hasCarry = true
		n--
	}

	samples := n / 2
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("reading mp3 samples: %w", err)
	}
	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening mp3 stream: %w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
