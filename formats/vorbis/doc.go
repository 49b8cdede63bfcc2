// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis
// files. Samples come out of the decoder as float32 already, so reads go
// straight into the caller's buffer.
//
// # Supported Formats
//
// The decoder supports:
//   - Ogg Vorbis (.ogg and .oga files)
//   - Variable bitrates
//   - Any channel count the stream declares
//   - Any sample rate
//
// # Decoding Vorbis Files
//
// Use the Decoder to read Ogg Vorbis files:
//
//	file, _ := os.Open("rain.ogg")
//	source, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read samples as float32 in range [-1.0, 1.0]
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// # Channel Layout
//
// For stereo files, samples are interleaved:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// To convert to mono:
//
//	mono := audio.NewMonoMixer(source)
//
// # Registering the Decoder
//
// Register binds the decoder to the "ogg" and "oga" extensions:
//
//	registry := audio.NewRegistry()
//	vorbis.Register(registry)
//
// # Limitations
//
// Note:
//   - Vorbis encoding is not supported (decoding only)
//   - Streams declaring zero channels fail with audio.ErrInvalidFormat
//
// # Example: Vorbis to WAV Conversion
//
//	oggFile, _ := os.Open("input.ogg")
//	source, _ := vorbis.Decoder{}.Decode(oggFile)
//
//	// Resample and convert to mono
//	pcm16, rate, _ := audsrc.ResampleToMono16(source, 16000, 4096)
//
//	// Write as WAV
//	wavFile, _ := os.Create("output.wav")
//	wav.WriteWAV16(wavFile, rate, 1, pcm16)
package vorbis
