// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/spatial/audio"
)

// Encode writes b as a 16-bit PCM WAV file. go-audio patches the header
// sizes after the data is written, hence the io.WriteSeeker.
func Encode(w io.Writer, b *audio.Buffer) error {
	ws, ok := w.(io.WriteSeeker)
	if !ok {
		return ErrNotSeekable
	}

	enc := gowav.NewEncoder(ws, b.SampleRate, 16, b.Channels, 1)

	const chunk = 8192
	data := make([]int, 0, min(chunk, len(b.Samples)))
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: b.Channels, SampleRate: b.SampleRate},
		SourceBitDepth: 16,
	}

	for i := 0; i < len(b.Samples); i += chunk {
		data = data[:0]
		for _, s := range b.Samples[i:min(i+chunk, len(b.Samples))] {
			data = append(data, int(s))
		}
		buf.Data = data

		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing wav samples: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}

	return nil
}
