// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	spatial "github.com/ik5/spatial"
	"github.com/ik5/spatial/asset"
	"github.com/ik5/spatial/config"
	"github.com/ik5/spatial/device/soft"
	"github.com/ik5/spatial/internal/log"
	"github.com/ik5/spatial/scene"
)

const (
	soundName    = "footstep"
	orbitRadius  = 15
	tickRate     = 60
	tickInterval = time.Second / tickRate
)

var errNoAssets = errors.New("no playable assets found")

// demo owns the device, the world and the engine driving them.
type demo struct {
	device  *soft.Context
	world   *scene.World
	engine  *spatial.Engine
	emitter scene.Entity
	sound   *spatial.Sound
	clip    string

	// orbit speed in radians per second, 0 keeps the emitter still
	orbit float64
	angle float64
}

func newDemo(ctx context.Context, c config.Config, orbit float64) (*demo, error) {
	dev, err := soft.Open(soft.Config{SampleRate: c.SampleRate, Attributes: c.Attributes()})
	if err != nil {
		return nil, fmt.Errorf("opening device: %w", err)
	}

	store := asset.NewStore()
	handles, err := asset.NewLoader(store, asset.DefaultDecoders()).LoadFolder(ctx, c.AssetDir)
	if err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("loading %s: %w", c.AssetDir, err)
	}
	if len(handles) == 0 {
		_ = dev.Close()
		return nil, fmt.Errorf("%s: %w", c.AssetDir, errNoAssets)
	}

	world := scene.NewWorld()
	engine, err := spatial.New(dev, world, store, c)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}

	paths := make([]string, 0, len(handles))
	for p := range handles {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	sound := spatial.NewSound(handles[paths[0]])
	sound.Autoplay = true
	sound.Looping = true

	world.Spawn(scene.With(spatial.ListenerComponent, spatial.Listener{}), scene.Identity())
	emitter := world.Spawn(
		scene.FromTranslation(mgl32.Vec3{orbitRadius, 0, 0}),
		scene.With(spatial.SoundsComponent, spatial.Sounds{soundName: sound}),
	)

	log.Info(log.CatAsset, "demo scene ready", "clip", paths[0], "assets", len(paths))

	return &demo{
		device:  dev,
		world:   world,
		engine:  engine,
		emitter: emitter,
		sound:   sound,
		clip:    paths[0],
		orbit:   orbit,
	}, nil
}

// step moves the emitter along its orbit and runs one engine tick.
func (d *demo) step(dt time.Duration) {
	if d.orbit != 0 {
		d.angle = math.Mod(d.angle+d.orbit*dt.Seconds(), 2*math.Pi)
		pos := mgl32.Vec3{
			float32(orbitRadius * math.Cos(d.angle)),
			0,
			float32(orbitRadius * math.Sin(d.angle)),
		}
		scene.Insert(d.world, d.emitter, scene.TransformComponent, scene.FromTranslation(pos))
	}
	d.engine.Update()
}

// togglePause flips the sound between playing and paused.
func (d *demo) togglePause() {
	if d.sound.Observed() == spatial.Playing {
		d.sound.Pause()
		return
	}
	d.sound.Play()
}

func (d *demo) Close() error {
	d.engine.Close()
	return d.device.Close()
}
