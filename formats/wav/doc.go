// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding goes through github.com/go-audio/wav, so any RIFF chunk layout
// is accepted as long as the audio is integer PCM.
//
// # Supported Formats
//
// Currently supported:
//   - Integer PCM at 8, 16, 24 and 32 bits
//   - Any channel count
//   - Any sample rate
//
// 8-bit files are unsigned on disk and are re-centred around zero.
// Floating point and compressed WAV files are rejected.
//
// # Decoding WAV Files
//
// Use the Decoder to read WAV files:
//
//	file, _ := os.Open("door.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read interleaved samples
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The decoder returns an audio.Source that provides samples as float32
// values in the range [-1.0, 1.0]. Readers that cannot seek are buffered
// in memory first.
//
// # Registering the Decoder
//
// Register binds the decoder to the "wav" and "wave" extensions:
//
//	registry := audio.NewRegistry()
//	wav.Register(registry)
//
// formats.NewRegistry does this for every bundled format, and an
// asset.FileLoader then picks the decoder from the asset's file name.
//
// # Writing WAV Files
//
// Use WriteWAV16 to write interleaved 16-bit PCM:
//
//	samples := []int16{100, -100, 200, -200}
//	out, _ := os.Create("render.wav")
//	err := wav.WriteWAV16(out, 44100, 2, samples)
//
// The writer never seeks, so a render can stream straight to stdout.
//
// # Error Handling
//
// The package defines several errors:
//   - ErrNotWavFile: The input has no RIFF/WAVE header
//   - ErrUnsupportedWavLayout: The fmt chunk is missing or malformed
//   - ErrOnlyPCMSupported: The file is not integer PCM
//   - ErrUnsupportedBitDepth: The bit depth is not 8, 16, 24 or 32
//   - ErrInvalidChannels: WriteWAV16 got a bad channel count
//
// Example:
//
//	source, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    fmt.Println("Not a WAV file")
//	}
//
// # File Format
//
// Files written by WriteWAV16 consist of:
//   - RIFF header (12 bytes)
//   - fmt chunk (24 bytes): audio format, sample rate, channels, bit depth
//   - data chunk: little-endian samples
package wav
