// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
)

// WAV returns a canonical 44-byte-header PCM WAV file holding samples.
func WAV(sampleRate, channels int, samples []int16) []byte {
	return WAVWithBits(sampleRate, channels, 16, samples)
}

// WAVWithBits is WAV with a custom bits-per-sample header field. The sample
// data is always written as 16-bit values.
func WAVWithBits(sampleRate, channels, bitsPerSample int, samples []int16) []byte {
	buf := new(bytes.Buffer)

	numChannels := uint16(channels)
	bits := uint16(bitsPerSample)
	byteRate := uint32(sampleRate) * uint32(numChannels) * uint32(bits/8)
	blockAlign := numChannels * (bits / 8)
	dataSize := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, numChannels)
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, byteRate)
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, bits)

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
	_ = binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
