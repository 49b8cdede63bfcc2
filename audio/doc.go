// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM primitives the rest of the module is built on.
//
//   - Source interface for streamed audio
//   - Buffer, a fully decoded clip held in memory (the resource an asset
//     resolves to)
//   - Resampler for sample rate conversion
//   - MonoMixer for channel downmixing
//   - Registry for decoders keyed by file extension
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders in the formats packages and the processors here all implement it,
// so they can be chained.
//
// # Buffers
//
// Asset loaders decode a whole file up front:
//
//	src, _ := dec.Decode(file)
//	clip, err := audio.ReadBufferAt(src, 44100) // resample to the mixer rate
//
// Positional playback uses clip.Mono(), which is computed once per clip.
// clip.Reader() streams a clip back out as a Source.
//
// # Resampling
//
// The Resampler uses Catmull-Rom cubic interpolation and a one-pole low-pass
// when downsampling:
//
//	resampler := audio.NewResampler(source, 16000)
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, err := registry.ForPath("sfx/door.wav")
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0] and interleaved by channel. ReadInt16
// converts a stream to 16-bit PCM for writing WAV files.
//
// # Error Handling
//
// Sources return io.EOF at the end of the stream, possibly together with the
// final samples. Other errors are wrapped and can be tested with errors.Is
// against the sentinels in this package.
package audio
