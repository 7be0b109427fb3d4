// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	ErrNotFlacFile           = errors.New("not a FLAC file")
	ErrUnsupportedFlacLayout = errors.New("unsupported FLAC layout")
	ErrChannelMismatch       = errors.New("flac frame channel count mismatch")
)
