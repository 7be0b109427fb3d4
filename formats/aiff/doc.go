// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit PCM AIFF files with github.com/go-audio/aiff.
//
// go-audio needs random access, so readers that are not io.ReadSeeker are
// buffered in memory first.
package aiff
