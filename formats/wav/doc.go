// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes 16-bit PCM WAV files using go-audio/wav.
//
// # Decoding
//
//	src, err := wav.Decoder{}.Decode(file)
//	clip, err := audio.ReadAll(src, 0)
//
// Mono and stereo files at any sample rate are accepted. Other bit depths and
// compressed WAV variants are rejected with ErrOnlyPCM16bitSupported.
//
// # Encoding
//
// Encode writes an audio.Buffer back to disk; the spatialdemo command uses it
// to render the software mixer offline:
//
//	f, _ := os.Create("out.wav")
//	defer f.Close()
//	err := wav.Encode(f, clip)
package wav
