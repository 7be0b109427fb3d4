// SPDX-License-Identifier: EPL-2.0

/*
Package soft is a software implementation of device.Context.

It keeps every buffer, source and effect in memory and mixes playing sources
into interleaved stereo 16-bit little-endian PCM at the context's sample rate.
The Context itself is an io.Reader over that mix, so it can be handed to an
audio output (see package output) or drained headless with Advance.

Every playing source is rendered by a chain of beep streamers: the buffer,
a resampler for pitch, effects.Volume for gain and effects.Pan for position,
summed by a beep.Mixer. The geometry follows the OpenAL conventions closely
enough for the engine to drive:

  - buffers are resampled to the device rate when they are created
  - gain uses the inverse distance clamped model
  - mono sources are panned against the listener's right axis
    (forward x up); stereo buffers are downmixed when the source is
    positional and played as is when it is listener-relative
  - with HRTF on, the ear facing away from the source is shaded
  - a non-looping source moves to Stopped once its buffer runs out; playing a
    source that has no buffer stops it immediately

Auxiliary sends and reverb effects are tracked but not rendered.
*/
package soft
