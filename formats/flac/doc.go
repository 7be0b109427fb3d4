// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files with github.com/mewkiz/flac.
//
// Frames are decoded lazily as samples are read. Samples of any bit depth
// are rescaled to 16 bits by shifting, which is what the device buffers hold.
package flac
