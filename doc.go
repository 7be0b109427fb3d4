// SPDX-License-Identifier: EPL-2.0

/*
Package spatial keeps 3D positional audio in sync with a scene.World.

Entities declare what they want to hear with a *Sound (SoundComponent) or a
named Sounds collection (SoundsComponent), and where they are with a
scene.Transform. One entity carries the Listener tag (ListenerComponent). Every tick, Engine.Update brings the audio device in line with
that declaration:

 1. ProcessAssetEvents uploads decoded assets into the device through the
    Buffers registry, and drops them again when they are removed.
 2. The world resolves GlobalTransforms.
 3. UpdateListener pushes the listener's position and orientation.
 4. UpdateSources creates, updates and releases one device source per sound,
    then reads the playback state back into Sound.State.

Sound.State is both the command and the status: set it to Playing and the
next tick starts the sound; once a non-looping sound finishes the engine sets
it back to Stopped. A sound holds a device source exactly while its state is
not Stopped.

# Quick Start

	ctx, _ := soft.Open(soft.Config{})
	world := scene.NewWorld()
	store := asset.NewStore()
	eng, _ := spatial.New(ctx, world, store, config.Defaults())

	h, _ := asset.NewLoader(store, nil).Load("assets/footstep.wav")

	world.Spawn(scene.With(spatial.ListenerComponent, spatial.Listener{}), scene.Identity())
	snd := spatial.NewSound(h)
	snd.Looping = true
	snd.Play()
	world.Spawn(scene.With(spatial.SoundComponent, snd), scene.FromTranslation(mgl32.Vec3{15, 0, 0}))

	for range ticker.C {
		eng.Update()
	}

# Errors

Device failures during a tick are logged and the entity is left degraded
(silent, bufferless or unpositioned); one entity never stops the others from
being reconciled. The only fatal case is an asset with a channel count the
device cannot represent, which makes ProcessAssetEvents panic with an error
wrapping ErrUnsupportedChannelCount.
*/
package spatial
