// SPDX-License-Identifier: EPL-2.0

// Package device describes the audio device capability the synchronization
// engine drives: buffers, sources, effects and auxiliary effect slots of an
// OpenAL/EFX style context.
//
// The interfaces mirror the OpenAL object model closely so a cgo binding can
// implement them directly. The repository ships a pure Go implementation in
// device/soft.
//
// All calls are synchronous. Implementations must be safe for concurrent use
// since the mixer of a real device runs in its own thread.
package device
