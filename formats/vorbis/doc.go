// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	clip, err := audio.ReadAll(src, 0)
//
// The decoder is registered for the "ogg" extension by asset.DefaultDecoders.
package vorbis
