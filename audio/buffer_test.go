// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/ik5/spatial/audio"
	"github.com/ik5/spatial/internal/audiotest"
)

func TestReadAll_CollectsAllSamples(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(8000, 2, 1000, 0.5)

	buf, err := audio.ReadAll(src, 333)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if buf.SampleRate != 8000 || buf.Channels != 2 {
		t.Errorf("ReadAll() format = %d Hz / %d ch, want 8000 Hz / 2 ch", buf.SampleRate, buf.Channels)
	}
	if len(buf.Samples) != 2000 {
		t.Fatalf("len(Samples) = %d, want 2000", len(buf.Samples))
	}
	if buf.Frames() != 1000 {
		t.Errorf("Frames() = %d, want 1000", buf.Frames())
	}
	for i, s := range buf.Samples {
		if s != 16384 {
			t.Fatalf("Samples[%d] = %d, want 16384", i, s)
		}
	}
}

func TestReadAll_DefaultBufferSize(t *testing.T) {
	t.Parallel()

	buf, err := audio.ReadAll(audiotest.NewSilentSource(44100, 1, 10000), 0)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(buf.Samples) != 10000 {
		t.Errorf("len(Samples) = %d, want 10000", len(buf.Samples))
	}
}

func TestReadAll_InvalidFormat(t *testing.T) {
	t.Parallel()

	if _, err := audio.ReadAll(audiotest.NewSilentSource(8000, 0, 10), 0); !errors.Is(err, audio.ErrInvalidChannelCount) {
		t.Errorf("ReadAll(0 channels) error = %v, want ErrInvalidChannelCount", err)
	}
	if _, err := audio.ReadAll(audiotest.NewSilentSource(0, 1, 10), 0); !errors.Is(err, audio.ErrInvalidSampleRate) {
		t.Errorf("ReadAll(0 Hz) error = %v, want ErrInvalidSampleRate", err)
	}
}

type brokenSource struct {
	*audiotest.MockSource
}

func (brokenSource) ReadSamples([]float32) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestReadAll_PropagatesError(t *testing.T) {
	t.Parallel()

	src := brokenSource{audiotest.NewSilentSource(8000, 1, 10)}
	if _, err := audio.ReadAll(src, 0); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("ReadAll() error = %v, want io.ErrClosedPipe", err)
	}
}

func TestBuffer_Duration(t *testing.T) {
	t.Parallel()

	b := &audio.Buffer{Samples: make([]int16, 48000*2), SampleRate: 48000, Channels: 2}
	if d := b.Duration(); d != time.Second {
		t.Errorf("Duration() = %v, want 1s", d)
	}

	empty := &audio.Buffer{}
	if empty.Duration() != 0 || empty.Frames() != 0 {
		t.Error("zero Buffer should have no frames and no duration")
	}
}

func TestBufferSource_RoundTrip(t *testing.T) {
	t.Parallel()

	in := &audio.Buffer{
		Samples:    []int16{0, 100, -100, math.MaxInt16, math.MinInt16, 7},
		SampleRate: 22050,
		Channels:   2,
	}

	out, err := audio.ReadAll(audio.NewBufferSource(in), 4)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(out.Samples) != len(in.Samples) {
		t.Fatalf("len = %d, want %d", len(out.Samples), len(in.Samples))
	}
	for i := range in.Samples {
		if out.Samples[i] != in.Samples[i] {
			t.Errorf("Samples[%d] = %d, want %d", i, out.Samples[i], in.Samples[i])
		}
	}
}

func TestResample_SameRateReturnsInput(t *testing.T) {
	t.Parallel()

	in := &audio.Buffer{Samples: []int16{1, 2, 3}, SampleRate: 8000, Channels: 1}

	out, err := audio.Resample(in, 8000)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}
	if out != in {
		t.Error("Resample() to the same rate should return the input buffer")
	}
}

func TestResample_Upsample(t *testing.T) {
	t.Parallel()

	in, err := audio.ReadAll(audiotest.NewConstantSource(8000, 2, 800, 0.25), 0)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	out, err := audio.Resample(in, 16000)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	if out.SampleRate != 16000 || out.Channels != 2 {
		t.Errorf("format = %d Hz / %d ch, want 16000 Hz / 2 ch", out.SampleRate, out.Channels)
	}
	if frames := out.Frames(); frames < 1590 || frames > 1602 {
		t.Errorf("Frames() = %d, want ≈1600", frames)
	}
	for i, s := range out.Samples {
		if math.Abs(float64(s)-8192) > 2 {
			t.Fatalf("Samples[%d] = %d, want ≈8192", i, s)
		}
	}
}

func TestResample_InvalidRate(t *testing.T) {
	t.Parallel()

	in := &audio.Buffer{Samples: []int16{1}, SampleRate: 8000, Channels: 1}
	if _, err := audio.Resample(in, 0); !errors.Is(err, audio.ErrInvalidSampleRate) {
		t.Errorf("Resample(0) error = %v, want ErrInvalidSampleRate", err)
	}
}

func TestDownmix(t *testing.T) {
	t.Parallel()

	stereo := &audio.Buffer{
		Samples:    []int16{1000, 3000, -2000, -4000},
		SampleRate: 8000,
		Channels:   2,
	}

	mono, err := audio.Downmix(stereo)
	if err != nil {
		t.Fatalf("Downmix() error = %v", err)
	}
	if mono.Channels != 1 || mono.SampleRate != 8000 {
		t.Errorf("format = %d Hz / %d ch, want 8000 Hz / 1 ch", mono.SampleRate, mono.Channels)
	}

	want := []int16{2000, -3000}
	if len(mono.Samples) != len(want) {
		t.Fatalf("len = %d, want %d", len(mono.Samples), len(want))
	}
	for i := range want {
		if math.Abs(float64(mono.Samples[i]-want[i])) > 1 {
			t.Errorf("Samples[%d] = %d, want ≈%d", i, mono.Samples[i], want[i])
		}
	}

	same, _ := audio.Downmix(mono)
	if same != mono {
		t.Error("Downmix() of a mono buffer should return it unchanged")
	}
}
