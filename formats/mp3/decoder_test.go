// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ik5/spatial/audio"
)

// mockMP3Reader simulates the gomp3.Decoder, serving at most chunk bytes per read.
type mockMP3Reader struct {
	sampleRate int
	pcm        []byte
	chunk      int
	err        error
}

func newMockMP3Reader(sampleRate, chunk int, samples []int16) *mockMP3Reader {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return &mockMP3Reader{sampleRate: sampleRate, pcm: pcm, chunk: chunk}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if len(m.pcm) == 0 {
		return 0, io.EOF
	}

	n := copy(buf[:min(len(buf), m.chunk)], m.pcm)
	m.pcm = m.pcm[n:]
	if len(m.pcm) == 0 {
		return n, io.EOF
	}
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("This is not MP3 data"))); err == nil {
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

	samples := []int16{0, 1000, -1000, 32767, -32768, 5, 6, 7}

	tests := []struct {
		name  string
		chunk int
	}{
		{name: "whole reads", chunk: 4096},
		{name: "odd sized reads", chunk: 3},
		{name: "single bytes", chunk: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &source{dec: newMockMP3Reader(44100, tt.chunk, samples), sampleRate: 44100}

			clip, err := audio.ReadAll(src, 4)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if clip.Channels != 2 || clip.SampleRate != 44100 {
				t.Errorf("format = %d Hz / %d ch, want 44100 Hz / 2 ch", clip.SampleRate, clip.Channels)
			}
			if len(clip.Samples) != len(samples) {
				t.Fatalf("len = %d, want %d", len(clip.Samples), len(samples))
			}
			for i := range samples {
				if clip.Samples[i] != samples[i] {
					t.Errorf("Samples[%d] = %d, want %d", i, clip.Samples[i], samples[i])
				}
			}
		})
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockMP3Reader{sampleRate: 8000, err: io.ErrUnexpectedEOF}, sampleRate: 8000}

	_, err := src.ReadSamples(make([]float32, 16))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "reading mp3 samples: ") {
		t.Errorf("ReadSamples() error = %q, want %q context", err, "reading mp3 samples")
	}
}

func TestSource_EmptyDst(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockMP3Reader(8000, 16, []int16{1, 2}), sampleRate: 8000}

	n, err := src.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
}
