// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM primitives shared by the decoders, the asset
// store and the software device.
//
//   - Source: a stream of interleaved float32 samples in [-1, 1]
//   - Decoder and Registry: decoders looked up by file extension
//   - Buffer: a fully decoded, immutable 16-bit clip
//   - Resampler and MonoMixer: stream adapters used when a clip is uploaded
//     to a device running at another rate, or played through a spatialized
//     (mono) source
//
// # Decoding a clip
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//
//	dec, ok := registry.Lookup(filepath.Ext(path))
//	src, err := dec.Decode(file)
//	clip, err := audio.ReadAll(src, 0)
//
// ReadAll drains the stream and converts it to int16. The resulting Buffer is
// never modified afterwards, so it can be shared freely between goroutines.
//
// # Conversions
//
//	clip48k, err := audio.Resample(clip, 48000)
//	mono, err := audio.Downmix(clip48k)
//
// Both return their input unchanged when there is nothing to convert.
//
// # Error Handling
//
// Streams return io.EOF when no more data is available, possibly together
// with the last samples:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
