// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ik5/spatial/asset"
	"github.com/ik5/spatial/audio"
	"github.com/ik5/spatial/device"
	"github.com/ik5/spatial/internal/log"
)

// DeviceBuffer is a reference-counted device.Buffer. The registry holds one
// reference and every source bound to the buffer holds another; the device
// buffer is deleted when the last one is released.
type DeviceBuffer struct {
	buf    device.Buffer
	handle asset.Handle
	refs   atomic.Int32
}

func newDeviceBuffer(h asset.Handle, buf device.Buffer) *DeviceBuffer {
	b := &DeviceBuffer{buf: buf, handle: h}
	b.refs.Store(1)
	return b
}

// Device returns the underlying device buffer.
func (b *DeviceBuffer) Device() device.Buffer { return b.buf }

// Handle returns the asset the buffer was built from.
func (b *DeviceBuffer) Handle() asset.Handle { return b.handle }

// Refs returns the number of live references.
func (b *DeviceBuffer) Refs() int { return int(b.refs.Load()) }

func (b *DeviceBuffer) acquire() *DeviceBuffer {
	b.refs.Add(1)
	return b
}

// Release drops one reference.
func (b *DeviceBuffer) Release() {
	n := b.refs.Add(-1)
	switch {
	case n > 0:
		return
	case n < 0:
		log.Error(log.CatBuffer, "buffer released too many times", "asset", b.handle)
		return
	}

	if err := b.buf.Delete(); err != nil {
		log.Warn(log.CatBuffer, "deleting device buffer", "asset", b.handle, "err", err)
		return
	}
	log.Debug(log.CatBuffer, "device buffer deleted", "asset", b.handle)
}

// Buffers maps asset handles to device buffers.
type Buffers struct {
	ctx device.Context

	mu sync.RWMutex
	m  map[asset.Handle]*DeviceBuffer
}

func NewBuffers(ctx device.Context) *Buffers {
	return &Buffers{ctx: ctx, m: make(map[asset.Handle]*DeviceBuffer)}
}

// Upsert uploads b and makes it the buffer for h, releasing the registry's
// reference on any buffer it replaces. The device buffer is fully built
// before it becomes visible to Get.
func (r *Buffers) Upsert(h asset.Handle, b *audio.Buffer) error {
	format, err := device.FormatForChannels(b.Channels)
	if err != nil {
		return fmt.Errorf("asset %s with %d channels: %w", h, b.Channels, err)
	}

	buf, err := r.ctx.NewBuffer(format, b.Samples, b.SampleRate)
	if err != nil {
		return fmt.Errorf("creating device buffer for asset %s: %w", h, err)
	}
	db := newDeviceBuffer(h, buf)

	r.mu.Lock()
	old := r.m[h]
	r.m[h] = db
	r.mu.Unlock()

	if old != nil {
		old.Release()
	}

	log.Debug(log.CatBuffer, "buffer registered",
		"asset", h, "format", format, "rate", b.SampleRate, "replaced", old != nil)

	return nil
}

// Remove drops the mapping for h. The device buffer lives on until every
// source using it lets go.
func (r *Buffers) Remove(h asset.Handle) bool {
	r.mu.Lock()
	old, ok := r.m[h]
	delete(r.m, h)
	r.mu.Unlock()

	if !ok {
		return false
	}
	old.Release()
	log.Debug(log.CatBuffer, "buffer unregistered", "asset", h, "refs", old.Refs())

	return true
}

// Get returns the current buffer for h with a reference held for the caller,
// who must Release it.
func (r *Buffers) Get(h asset.Handle) (*DeviceBuffer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.m[h]
	if !ok {
		return nil, false
	}
	return b.acquire(), true
}

// current reports whether b is the buffer registered for h right now.
func (r *Buffers) current(h asset.Handle, b *DeviceBuffer) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.m[h] == b
}

// Contains reports whether h has a buffer.
func (r *Buffers) Contains(h asset.Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.m[h]
	return ok
}

func (r *Buffers) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Close releases the registry's reference on every buffer.
func (r *Buffers) Close() {
	r.mu.Lock()
	m := r.m
	r.m = make(map[asset.Handle]*DeviceBuffer)
	r.mu.Unlock()

	for _, b := range m {
		b.Release()
	}
}
