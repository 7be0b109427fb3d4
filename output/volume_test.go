// SPDX-License-Identifier: EPL-2.0

package output

import (
	"bytes"
	"encoding/binary"
	"io"
	"slices"
	"testing"
	"testing/iotest"
)

func pcm(samples ...int16) []byte {
	b := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	return b
}

func decode(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out
}

func TestVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level int
		muted bool
		want  []int16
	}{
		{name: "full", level: 100, want: []int16{1000, -1000, 32767, -32768}},
		{name: "half", level: 50, want: []int16{500, -500, 16383, -16384}},
		{name: "clamped above", level: 250, want: []int16{1000, -1000, 32767, -32768}},
		{name: "clamped below", level: -5, want: []int16{0, 0, 0, 0}},
		{name: "muted", level: 100, muted: true, want: []int16{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := NewVolume(bytes.NewReader(pcm(1000, -1000, 32767, -32768)))
			v.SetLevel(tt.level)
			v.SetMuted(tt.muted)

			got, err := io.ReadAll(v)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !slices.Equal(decode(got), tt.want) {
				t.Errorf("samples = %v, want %v", decode(got), tt.want)
			}
		})
	}
}

func TestVolume_SplitSamples(t *testing.T) {
	t.Parallel()

	// one byte per read: samples arrive split across calls
	v := NewVolume(iotest.OneByteReader(bytes.NewReader(pcm(200, -400, 600))))
	v.SetLevel(50)

	got, err := io.ReadAll(v)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if want := []int16{100, -200, 300}; !slices.Equal(decode(got), want) {
		t.Errorf("samples = %v, want %v", decode(got), want)
	}
}

func TestVolume_Level(t *testing.T) {
	t.Parallel()

	v := NewVolume(bytes.NewReader(nil))
	if v.Level() != 100 || v.Muted() {
		t.Fatalf("defaults = %d %v, want 100 false", v.Level(), v.Muted())
	}
	v.SetLevel(30)
	v.SetMuted(true)
	if v.Level() != 30 || !v.Muted() {
		t.Errorf("after set = %d %v, want 30 true", v.Level(), v.Muted())
	}
}
