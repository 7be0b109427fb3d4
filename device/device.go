// SPDX-License-Identifier: EPL-2.0

package device

import "github.com/go-gl/mathgl/mgl32"

// Format is the sample layout of a device buffer.
type Format int

const (
	FormatMono16 Format = iota + 1
	FormatStereo16
)

func (f Format) String() string {
	switch f {
	case FormatMono16:
		return "mono16"
	case FormatStereo16:
		return "stereo16"
	}
	return "unknown"
}

// Channels returns the channel count of the format, or 0 if unknown.
func (f Format) Channels() int {
	switch f {
	case FormatMono16:
		return 1
	case FormatStereo16:
		return 2
	}
	return 0
}

// SourceState is the playback status a device reports for a source.
type SourceState int

const (
	StateInitial SourceState = iota
	StatePlaying
	StatePaused
	StateStopped
	StateUnknown
)

func (s SourceState) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// EffectKind selects the algorithm of an Effect.
type EffectKind int

const (
	EffectReverb EffectKind = iota + 1
	EffectEAXReverb
)

func (k EffectKind) String() string {
	switch k {
	case EffectReverb:
		return "reverb"
	case EffectEAXReverb:
		return "eaxreverb"
	}
	return "unknown"
}

// Attributes configure a context when it is created.
type Attributes struct {
	// HRTF enables head-related transfer function spatialization.
	HRTF bool
	// MaxAuxSends is the number of auxiliary sends per source. 0 picks the
	// device default.
	MaxAuxSends int
}

// Buffer is device-resident PCM data.
type Buffer interface {
	ID() string
	Format() Format
	Frequency() int
	Delete() error
}

// Source plays a Buffer. All setters are synchronous.
type Source interface {
	ID() string

	SetBuffer(b Buffer) error
	SetGain(gain float32) error
	SetPitch(pitch float32) error
	SetLooping(looping bool) error
	SetPosition(pos mgl32.Vec3) error
	SetRelative(relative bool) error
	SetReferenceDistance(d float32) error
	SetMaxDistance(d float32) error
	SetRolloffFactor(f float32) error
	SetRadius(r float32) error
	// SetAuxSend routes the source into slot through auxiliary send number send.
	SetAuxSend(send int, slot AuxEffectSlot) error

	Play() error
	Pause() error
	Stop() error
	State() SourceState

	Delete() error
}

// Effect is a configurable DSP effect.
type Effect interface {
	Kind() EffectKind
	SetReverbPreset(p ReverbPreset) error
	Delete() error
}

// AuxEffectSlot hosts one Effect that sources can send into.
type AuxEffectSlot interface {
	ID() string
	SetEffect(e Effect) error
	Delete() error
}

// Context is an open device plus its listener.
type Context interface {
	NewBuffer(format Format, samples []int16, frequency int) (Buffer, error)
	NewSource() (Source, error)
	NewEffect(kind EffectKind) (Effect, error)
	NewAuxEffectSlot() (AuxEffectSlot, error)

	SetListenerPosition(pos mgl32.Vec3) error
	SetListenerOrientation(forward, up mgl32.Vec3) error

	// MaxAuxSends is the number of auxiliary sends each source has.
	MaxAuxSends() int

	Close() error
}

// FormatForChannels maps a channel count to the matching buffer format.
func FormatForChannels(channels int) (Format, error) {
	switch channels {
	case 1:
		return FormatMono16, nil
	case 2:
		return FormatStereo16, nil
	}
	return 0, ErrUnsupportedChannelCount
}
