// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ik5/spatial/audio"
	"github.com/ik5/spatial/device/soft"
	"github.com/ik5/spatial/formats/wav"
	"github.com/ik5/spatial/internal/log"
	"github.com/ik5/spatial/output"
)

const defaultRenderLength = 10 * time.Second

var (
	assetDir string
	outFile  string
	duration time.Duration
	orbit    float64
	latency  time.Duration
	useTUI   bool
)

func init() {
	f := rootCmd.Flags()
	f.StringVar(&assetDir, "assets", "", "asset folder (overrides asset_dir)")
	f.StringVarP(&outFile, "out", "o", "", "render the mix to this WAV file instead of playing it")
	f.DurationVarP(&duration, "duration", "d", 0, "stop after this long (render default: 10s)")
	f.Float64Var(&orbit, "orbit", 0.5, "emitter orbit speed in radians per second")
	f.DurationVar(&latency, "latency", 50*time.Millisecond, "output buffer latency")
	f.BoolVar(&useTUI, "tui", false, "show a live status monitor")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	if assetDir != "" {
		cfg.AssetDir = assetDir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := newDemo(ctx, cfg, orbit)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Warn(log.CatDevice, "closing device", "err", err)
		}
	}()

	if outFile != "" {
		length := duration
		if length <= 0 {
			length = defaultRenderLength
		}
		return render(ctx, d, outFile, length)
	}

	return play(ctx, d)
}

// play streams the device mix to the default output and ticks the engine
// until ctx is done or the duration elapses.
func play(ctx context.Context, d *demo) error {
	out := output.NewOto()
	if err := out.Open(d.device.SampleRate(), soft.OutputChannels, latency); err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Warn(log.CatOutput, "closing output", "err", err)
		}
	}()

	if err := out.Play(d.device); err != nil {
		return fmt.Errorf("starting playback: %w", err)
	}

	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	if !useTUI {
		fmt.Printf("Playing %s, press Ctrl+C to stop\n", d.clip)
		return tick(ctx, d, out)
	}

	// records would scribble over the alternate screen
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newMonitor(d, out), tea.WithAltScreen(), tea.WithContext(ctx))
	errc := make(chan error, 1)
	go func() {
		errc <- tick(ctx, d, out)
		p.Quit()
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running monitor: %w", err)
	}
	cancel()

	return <-errc
}

func tick(ctx context.Context, d *demo, out *output.Oto) error {
	t := time.NewTicker(tickInterval)
	defer t.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			d.step(now.Sub(last))
			last = now

			if err := out.Err(); err != nil {
				return fmt.Errorf("audio output: %w", err)
			}
		}
	}
}

// render mixes length of audio offline, one engine tick at a time, and
// writes it as 16-bit stereo WAV.
func render(ctx context.Context, d *demo, path string, length time.Duration) error {
	rate := d.device.SampleRate()
	total := int(length.Seconds() * float64(rate))

	mix := &audio.Buffer{
		SampleRate: rate,
		Channels:   soft.OutputChannels,
		Samples:    make([]int16, 0, total*soft.OutputChannels),
	}
	chunk := make([]byte, 0, (rate/tickRate+1)*soft.OutputChannels*2)

	for i, done := 0, 0; done < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.step(tickInterval)

		// frame count per tick is rounded so the total never drifts
		next := min(total, int(int64(i+1)*int64(rate)/tickRate))
		n := (next - done) * soft.OutputChannels * 2
		chunk = chunk[:n]
		if _, err := io.ReadFull(d.device, chunk); err != nil {
			return fmt.Errorf("reading mix: %w", err)
		}
		for j := 0; j < n; j += 2 {
			mix.Samples = append(mix.Samples, int16(binary.LittleEndian.Uint16(chunk[j:])))
		}
		done = next
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := wav.Encode(f, mix); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	st := d.engine.Stats()
	log.Info(log.CatOutput, "render complete",
		"path", path, "duration", mix.Duration(), "sources", st.Sources, "playing", st.Playing)
	return nil
}
