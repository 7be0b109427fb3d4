// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"math"
	"slices"
	"sync"

	"github.com/ik5/spatial/asset"
	"github.com/ik5/spatial/device"
	"github.com/ik5/spatial/internal/log"
)

// SoundState is the playback state of a Sound.
type SoundState int

const (
	Stopped SoundState = iota
	Playing
	Paused
)

func (s SoundState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// fromDevice maps a device-reported state onto a SoundState.
func fromDevice(s device.SourceState) SoundState {
	switch s {
	case device.StatePlaying:
		return Playing
	case device.StatePaused:
		return Paused
	}
	// Initial, Stopped and anything unrecognised
	return Stopped
}

// Listener tags the entity whose transform is the listener. When several
// entities carry it, the one with the lowest id is used.
type Listener struct{}

// Sound is the audio component of an entity. The exported fields are the
// desired configuration; they are pushed to the device every tick.
//
// State is written by the caller to request a transition and overwritten by
// the engine with what the device reports. Use Play, Pause and Stop from
// goroutines other than the one running Engine.Update.
type Sound struct {
	Buffer asset.Handle
	State  SoundState

	Gain              float32
	Pitch             float32
	Looping           bool
	ReferenceDistance float32
	MaxDistance       float32
	RolloffFactor     float32
	Radius            float32

	// BypassGlobalEffects keeps the sound out of the global aux sends.
	BypassGlobalEffects bool
	// Autoplay starts the sound on its first reconciliation.
	Autoplay bool

	mu         sync.Mutex
	source     *Source
	observed   SoundState
	reconciled bool
}

// NewSound returns a stopped sound for buffer with the default properties.
func NewSound(buffer asset.Handle) *Sound {
	return &Sound{
		Buffer:            buffer,
		State:             Stopped,
		Gain:              1,
		Pitch:             1,
		ReferenceDistance: 1,
		MaxDistance:       math.MaxFloat32,
		RolloffFactor:     1,
	}
}

// Source returns the device source, or nil when the sound has none.
func (s *Sound) Source() *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Observed returns the state the device reported at the last tick.
func (s *Sound) Observed() SoundState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observed
}

// Play requests playback and starts an existing source right away.
func (s *Sound) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.State = Playing
	if s.source != nil {
		s.source.command(device.Source.Play, "play")
	}
}

// Pause requests a pause and pauses an existing source right away.
func (s *Sound) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.State = Paused
	if s.source != nil {
		s.source.command(device.Source.Pause, "pause")
	}
}

// Stop stops and releases the source immediately.
func (s *Sound) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.State = Stopped
	s.observed = Stopped
	if s.source != nil {
		s.source.release()
		s.source = nil
	}
}

// releaseSource drops the source. Caller holds s.mu.
func (s *Sound) releaseSource() {
	if s.source != nil {
		s.source.release()
		s.source = nil
	}
}

// Sounds is a named set of sounds on one entity. They are reconciled in
// name order.
type Sounds map[string]*Sound

// Names returns the sound names in reconciliation order.
func (s Sounds) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Source is a device source bound to one asset. Every call into the device
// source goes through its lock.
type Source struct {
	mu     sync.Mutex
	src    device.Source
	handle asset.Handle
	buffer *DeviceBuffer
	failed *DeviceBuffer // registered buffer the device refused to bind
	sends  int           // aux sends currently wired
}

func (s *Source) ID() string { return s.src.ID() }

// Handle is the asset the source was created for.
func (s *Source) Handle() asset.Handle { return s.handle }

// Buffer is the bound buffer, nil when the source was created before the
// asset was available.
func (s *Source) Buffer() *DeviceBuffer { return s.buffer }

// Do runs fn with exclusive access to the device source.
func (s *Source) Do(fn func(device.Source) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.src)
}

// State returns the device-reported state.
func (s *Source) State() device.SourceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.State()
}

func (s *Source) command(fn func(device.Source) error, name string) {
	if err := s.Do(fn); err != nil {
		log.Warn(log.CatSource, "source command failed", "cmd", name, "source", s.src.ID(), "err", err)
	}
}

// release stops and deletes the device source and drops its buffer
// reference.
func (s *Source) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.src.Stop(); err != nil {
		log.Debug(log.CatSource, "stopping released source", "source", s.src.ID(), "err", err)
	}
	if err := s.src.Delete(); err != nil {
		log.Warn(log.CatSource, "deleting source", "source", s.src.ID(), "err", err)
	}
	if s.buffer != nil {
		s.buffer.Release()
		s.buffer = nil
	}
	log.Debug(log.CatSource, "source released", "source", s.src.ID(), "asset", s.handle)
}
