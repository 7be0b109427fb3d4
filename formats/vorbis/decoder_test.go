// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ik5/spatial/audio"
)

// mockOggReader simulates oggvorbis.Reader, returning at most chunk frames per call.
type mockOggReader struct {
	sampleRate int
	channels   int
	values     []float32
	chunk      int
	err        error
}

func (m *mockOggReader) SampleRate() int { return m.sampleRate }
func (m *mockOggReader) Channels() int   { return m.channels }

func (m *mockOggReader) Read(p []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if len(m.values) == 0 {
		return 0, io.EOF
	}

	n := min(len(p), m.chunk*m.channels)
	n = copy(p[:n], m.values)
	m.values = m.values[n:]
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("This is not Ogg Vorbis data"))); err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestSource_ReadAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		values   []float32
	}{
		{name: "mono", channels: 1, values: []float32{0, 0.5, -0.5, 1, -1}},
		{name: "stereo", channels: 2, values: []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := &mockOggReader{sampleRate: 44100, channels: tt.channels, values: tt.values, chunk: 2}
			src := &source{dec: dec, sampleRate: 44100, channels: tt.channels}

			clip, err := audio.ReadAll(src, 16)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if clip.Channels != tt.channels || clip.SampleRate != 44100 {
				t.Errorf("format = %d Hz / %d ch, want 44100 Hz / %d ch", clip.SampleRate, clip.Channels, tt.channels)
			}
			if len(clip.Samples) != len(tt.values) {
				t.Fatalf("len = %d, want %d", len(clip.Samples), len(tt.values))
			}
		})
	}
}

func TestSource_PartialFrameDst(t *testing.T) {
	t.Parallel()

	dec := &mockOggReader{sampleRate: 8000, channels: 2, values: []float32{1, 2, 3, 4}, chunk: 8}
	src := &source{dec: dec, sampleRate: 8000, channels: 2}

	n, err := src.ReadSamples(make([]float32, 3))
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ReadSamples(3) = %d, want one whole frame (2)", n)
	}

	n, err = src.ReadSamples(make([]float32, 1))
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggReader{channels: 1, err: io.ErrUnexpectedEOF}, sampleRate: 8000, channels: 1}

	_, err := src.ReadSamples(make([]float32, 4))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "reading vorbis samples: ") {
		t.Errorf("ReadSamples() error = %q, want %q context", err, "reading vorbis samples")
	}
}
