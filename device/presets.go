// SPDX-License-Identifier: EPL-2.0

package device

import (
	"slices"
	"strings"
)

// ReverbPreset holds the standard (non-EAX) reverb parameters, using the
// values and units of the EFX reverb presets.
type ReverbPreset struct {
	Name                string
	Density             float32
	Diffusion           float32
	Gain                float32
	GainHF              float32
	DecayTime           float32 // seconds
	DecayHFRatio        float32
	ReflectionsGain     float32
	ReflectionsDelay    float32 // seconds
	LateReverbGain      float32
	LateReverbDelay     float32 // seconds
	AirAbsorptionGainHF float32
	RoomRolloffFactor   float32
	DecayHFLimit        bool
}

var reverbPresets = map[string]ReverbPreset{
	"generic":     {Name: "generic", Density: 1, Diffusion: 1, Gain: 0.3162, GainHF: 0.8913, DecayTime: 1.49, DecayHFRatio: 0.83, ReflectionsGain: 0.05, ReflectionsDelay: 0.007, LateReverbGain: 1.2589, LateReverbDelay: 0.011, AirAbsorptionGainHF: 0.9943, DecayHFLimit: true},
	"room":        {Name: "room", Density: 0.4287, Diffusion: 1, Gain: 0.3162, GainHF: 0.5929, DecayTime: 0.4, DecayHFRatio: 0.83, ReflectionsGain: 0.1503, ReflectionsDelay: 0.002, LateReverbGain: 1.0629, LateReverbDelay: 0.003, AirAbsorptionGainHF: 0.9943, DecayHFLimit: true},
	"bathroom":    {Name: "bathroom", Density: 0.1715, Diffusion: 1, Gain: 0.3162, GainHF: 0.2512, DecayTime: 1.49, DecayHFRatio: 0.54, ReflectionsGain: 0.6531, ReflectionsDelay: 0.007, LateReverbGain: 3.2734, LateReverbDelay: 0.011, AirAbsorptionGainHF: 0.9943, DecayHFLimit: true},
	"hallway":     {Name: "hallway", Density: 0.3645, Diffusion: 1, Gain: 0.3162, GainHF: 0.7079, DecayTime: 1.49, DecayHFRatio: 0.59, ReflectionsGain: 0.2458, ReflectionsDelay: 0.007, LateReverbGain: 1.6615, LateReverbDelay: 0.011, AirAbsorptionGainHF: 0.9943, DecayHFLimit: true},
	"concerthall": {Name: "concerthall", Density: 1, Diffusion: 1, Gain: 0.3162, GainHF: 0.5623, DecayTime: 3.92, DecayHFRatio: 0.7, ReflectionsGain: 0.2427, ReflectionsDelay: 0.02, LateReverbGain: 0.9977, LateReverbDelay: 0.029, AirAbsorptionGainHF: 0.9943, DecayHFLimit: true},
	"cave":        {Name: "cave", Density: 1, Diffusion: 1, Gain: 0.3162, GainHF: 1, DecayTime: 2.91, DecayHFRatio: 1.3, ReflectionsGain: 0.5, ReflectionsDelay: 0.015, LateReverbGain: 0.7063, LateReverbDelay: 0.022, AirAbsorptionGainHF: 0.9943},
	"arena":       {Name: "arena", Density: 1, Diffusion: 1, Gain: 0.3162, GainHF: 0.4477, DecayTime: 7.24, DecayHFRatio: 0.33, ReflectionsGain: 0.2612, ReflectionsDelay: 0.02, LateReverbGain: 1.0186, LateReverbDelay: 0.03, AirAbsorptionGainHF: 0.9943, DecayHFLimit: true},
	"hangar":      {Name: "hangar", Density: 1, Diffusion: 1, Gain: 0.3162, GainHF: 0.3162, DecayTime: 10.05, DecayHFRatio: 0.23, ReflectionsGain: 0.5, ReflectionsDelay: 0.02, LateReverbGain: 1.256, LateReverbDelay: 0.03, AirAbsorptionGainHF: 0.9943, DecayHFLimit: true},
}

// LookupReverbPreset finds a preset by case-insensitive name.
func LookupReverbPreset(name string) (ReverbPreset, bool) {
	p, ok := reverbPresets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// ReverbPresetNames lists the known presets in sorted order.
func ReverbPresetNames() []string {
	names := make([]string, 0, len(reverbPresets))
	for name := range reverbPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks every parameter against the EFX reverb ranges.
func (p ReverbPreset) Validate() error {
	in := func(v, lo, hi float32) bool { return v >= lo && v <= hi }

	switch {
	case !in(p.Density, 0, 1), !in(p.Diffusion, 0, 1),
		!in(p.Gain, 0, 1), !in(p.GainHF, 0, 1),
		!in(p.DecayTime, 0.1, 20), !in(p.DecayHFRatio, 0.1, 2),
		!in(p.ReflectionsGain, 0, 3.16), !in(p.ReflectionsDelay, 0, 0.3),
		!in(p.LateReverbGain, 0, 10), !in(p.LateReverbDelay, 0, 0.1),
		!in(p.AirAbsorptionGainHF, 0.892, 1), !in(p.RoomRolloffFactor, 0, 10):
		return ErrInvalidValue
	}
	return nil
}
