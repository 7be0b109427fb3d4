// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved stereo 16-bit PCM, so the returned
// source reports two channels even for mono files:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	clip, err := audio.ReadAll(src, 0) // clip.Channels == 2
package mp3
