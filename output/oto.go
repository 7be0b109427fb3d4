// SPDX-License-Identifier: EPL-2.0

package output

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/spatial/internal/log"
)

var ErrNotOpen = errors.New("output not opened")

// Oto streams PCM to the default audio device.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	volume     *Volume
	sampleRate int
	channels   int
}

func NewOto() *Oto {
	return &Oto{}
}

// Open creates the oto context and waits until the device is ready. A second
// Open with the same format is a no-op; a different format is an error
// because oto cannot be reinitialized.
func (o *Oto) Open(sampleRate, channels int, latency time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if o.sampleRate == sampleRate && o.channels == channels {
			return nil
		}
		return fmt.Errorf("output already open at %d Hz %d ch, cannot switch to %d Hz %d ch",
			o.sampleRate, o.channels, sampleRate, channels)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   latency,
	})
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	log.Info(log.CatOutput, "audio output opened", "sample_rate", sampleRate, "channels", channels)
	return nil
}

// Play starts pulling PCM from r. Any previous stream is closed.
func (o *Oto) Play(r io.Reader) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx == nil {
		return ErrNotOpen
	}
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Warn(log.CatOutput, "closing previous player", "err", err)
		}
	}

	level := 100
	if o.volume != nil {
		level = o.volume.Level()
	}
	o.volume = NewVolume(r)
	o.volume.SetLevel(level)

	o.player = o.otoCtx.NewPlayer(o.volume)
	o.player.Play()

	return nil
}

// SetVolume sets the playback level in percent.
func (o *Oto) SetVolume(level int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.volume != nil {
		o.volume.SetLevel(level)
	}
}

// SetMuted silences the stream without stopping it.
func (o *Oto) SetMuted(muted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.volume != nil {
		o.volume.SetMuted(muted)
	}
}

// Err reports a device error raised by oto, if any.
func (o *Oto) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx == nil {
		return nil
	}
	return o.otoCtx.Err()
}

func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var err error
	if o.player != nil {
		err = o.player.Close()
		o.player = nil
	}
	if o.otoCtx != nil {
		if serr := o.otoCtx.Suspend(); serr != nil && err == nil {
			err = serr
		}
	}
	log.Info(log.CatOutput, "audio output closed")
	return err
}
