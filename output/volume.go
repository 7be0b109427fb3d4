// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"io"
	"sync/atomic"
)

// Volume scales a signed 16-bit little-endian stream. It is safe to change
// the level while another goroutine reads.
type Volume struct {
	r     io.Reader
	level atomic.Int32 // percent
	muted atomic.Bool
	odd   []byte // a trailing byte held back from the previous read
}

// NewVolume wraps r at full volume.
func NewVolume(r io.Reader) *Volume {
	v := &Volume{r: r}
	v.level.Store(100)
	return v
}

// SetLevel clamps level to [0, 100] percent.
func (v *Volume) SetLevel(level int) {
	v.level.Store(int32(min(max(level, 0), 100)))
}

func (v *Volume) Level() int { return int(v.level.Load()) }

func (v *Volume) SetMuted(muted bool) { v.muted.Store(muted) }

func (v *Volume) Muted() bool { return v.muted.Load() }

func (v *Volume) multiplier() int32 {
	if v.muted.Load() {
		return 0
	}
	return v.level.Load()
}

// Read scales whole samples only; a split sample is completed on the next
// call.
func (v *Volume) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := copy(p, v.odd)
	v.odd = v.odd[:0]

	m, err := v.r.Read(p[n:])
	n += m

	whole := n &^ 1
	if whole < n {
		v.odd = append(v.odd, p[whole])
		n = whole
	}

	mul := v.multiplier()
	if mul != 100 {
		for i := 0; i+1 < n; i += 2 {
			s := int32(int16(binary.LittleEndian.Uint16(p[i:])))
			binary.LittleEndian.PutUint16(p[i:], uint16(int16(s*mul/100)))
		}
	}

	if err == io.EOF && len(v.odd) > 0 {
		// a dangling half sample at the end of the stream is dropped
		v.odd = v.odd[:0]
	}
	return n, err
}
