// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/ik5/spatial/audio"
	"github.com/ik5/spatial/utils"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// frameReader is the part of flac.Stream the source needs; swapped out in tests.
type frameReader interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	dec        frameReader
	sampleRate int
	channels   int
	bps        int

	// interleaved samples of the current frame not yet handed out
	pending []float32
	eof     bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 * s.channels }

func (s *source) Close() error {
	if err := s.dec.Close(); err != nil {
		return fmt.Errorf("closing flac stream: %w", err)
	}
	return nil
}

// to16 rescales a sample of s.bps bits to 16 bits.
func (s *source) to16(v int32) int16 {
	switch {
	case s.bps > 16:
		return int16(v >> (s.bps - 16))
	case s.bps < 16:
		return int16(v << (16 - s.bps))
	}
	return int16(v)
}

func (s *source) fill() error {
	f, err := s.dec.ParseNext()
	if err == io.EOF {
		s.eof = true
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("parsing flac frame: %w", err)
	}
	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: frame has %d channels, stream has %d", ErrChannelMismatch, len(f.Subframes), s.channels)
	}

	n := int(f.BlockSize)
	s.pending = s.pending[:0]
	for i := range n {
		for ch := range s.channels {
			s.pending = append(s.pending, utils.Int16ToFloat32(s.to16(f.Subframes[ch].Samples[i])))
		}
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	written := 0
	for written < len(dst) {
		if len(s.pending) == 0 {
			if s.eof {
				break
			}
			if err := s.fill(); err != nil {
				if err == io.EOF {
					break
				}
				return written, err
			}
			continue
		}

		n := copy(dst[written:], s.pending)
		s.pending = s.pending[n:]
		written += n
	}

	if written == 0 && s.eof {
		return 0, io.EOF
	}

	return written, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	if info.NChannels == 0 || info.SampleRate == 0 {
		_ = stream.Close()
		return nil, ErrUnsupportedFlacLayout
	}

	return &source{
		dec:        stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bps:        int(info.BitsPerSample),
	}, nil
}
