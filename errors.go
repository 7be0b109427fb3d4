// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"errors"

	"github.com/ik5/spatial/device"
)

var (
	// ErrUnsupportedChannelCount is returned for assets that are neither mono
	// nor stereo.
	ErrUnsupportedChannelCount = device.ErrUnsupportedChannelCount

	// ErrNoDevice is returned by New when no device context is given.
	ErrNoDevice = errors.New("no audio device context")
	// ErrNoWorld is returned by New when no world is given.
	ErrNoWorld = errors.New("no scene world")
)
