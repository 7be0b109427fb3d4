// SPDX-License-Identifier: EPL-2.0

// Package output plays a signed 16-bit little-endian PCM stream, such as the
// mix read from a soft.Context, through the system audio device with oto.
//
// oto allows one context per process, so an Oto keeps the format it was
// first opened with.
package output
