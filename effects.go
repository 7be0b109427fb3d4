// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ik5/spatial/device"
	"github.com/ik5/spatial/internal/log"
)

// GlobalEffects is the ordered list of aux effect slots every non-bypassing
// source sends into. Slot i is connected to aux send i.
type GlobalEffects struct {
	mu    sync.RWMutex
	slots []device.AuxEffectSlot
}

// Append adds slot and returns the send it will occupy.
func (g *GlobalEffects) Append(slot device.AuxEffectSlot) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.slots = append(g.slots, slot)
	return len(g.slots) - 1
}

func (g *GlobalEffects) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.slots)
}

// Slots returns a snapshot in send order.
func (g *GlobalEffects) Slots() []device.AuxEffectSlot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.slots)
}

// Close deletes every slot and empties the list.
func (g *GlobalEffects) Close() {
	g.mu.Lock()
	slots := g.slots
	g.slots = nil
	g.mu.Unlock()

	for _, s := range slots {
		if err := s.Delete(); err != nil {
			log.Warn(log.CatEffect, "deleting aux effect slot", "slot", s.ID(), "err", err)
		}
	}
}

// newReverbSlot builds an aux slot hosting the named reverb preset. The
// effect object is not needed once loaded into the slot.
func newReverbSlot(ctx device.Context, name string) (device.AuxEffectSlot, error) {
	preset, ok := device.LookupReverbPreset(name)
	if !ok {
		return nil, fmt.Errorf("reverb %q: %w", name, device.ErrUnknownPreset)
	}

	effect, err := ctx.NewEffect(device.EffectEAXReverb)
	if err != nil {
		return nil, fmt.Errorf("creating reverb effect: %w", err)
	}
	defer func() {
		if err := effect.Delete(); err != nil {
			log.Debug(log.CatEffect, "deleting reverb effect", "err", err)
		}
	}()

	if err := effect.SetReverbPreset(preset); err != nil {
		return nil, fmt.Errorf("applying reverb preset %q: %w", name, err)
	}

	slot, err := ctx.NewAuxEffectSlot()
	if err != nil {
		return nil, fmt.Errorf("creating aux effect slot: %w", err)
	}
	if err := slot.SetEffect(effect); err != nil {
		_ = slot.Delete()
		return nil, fmt.Errorf("loading reverb into slot: %w", err)
	}

	return slot, nil
}
