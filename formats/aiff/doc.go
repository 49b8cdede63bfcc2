// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
//
// # Supported Formats
//
// Currently supported:
//   - AIFF (Audio Interchange File Format)
//   - Integer PCM at 8, 16, 24 and 32 bits
//   - Any channel count
//   - Any sample rate
//
// # Decoding AIFF Files
//
// Use the Decoder to read AIFF files:
//
//	file, _ := os.Open("bell.aif")
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read samples as float32 in range [-1.0, 1.0]
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Readers that cannot seek are buffered in memory first.
//
// # Error Handling
//
// The package defines several errors:
//   - ErrNotAiffFile: The input has no FORM/AIFF header
//   - ErrUnsupportedBitDepth: The bit depth is not 8, 16, 24 or 32
//   - ErrUnsupportedAiffLayout: The COMM chunk is missing or malformed
//
// Example:
//
//	source, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    fmt.Println("Not an AIFF file")
//	}
//
// # AIFF vs. WAV
//
// AIFF is similar to WAV but:
//   - Uses big-endian byte order (WAV uses little-endian)
//   - Stores sample rate as an 80-bit float (WAV uses a 32-bit int)
//   - Stores 8-bit samples signed (WAV stores them unsigned)
//
// The decoder handles these differences, so both produce the same
// float32 samples.
//
// # Registering the Decoder
//
// Register binds the decoder to the "aiff" and "aif" extensions:
//
//	registry := audio.NewRegistry()
//	aiff.Register(registry)
//
// # Limitations
//
// Note:
//   - AIFF writing is not supported (decoding only)
//   - AIFF-C compressed files (.aifc) are not supported
//
// # Example: AIFF to WAV Conversion
//
//	aiffFile, _ := os.Open("input.aif")
//	source, _ := aiff.Decoder{}.Decode(aiffFile)
//
//	// Resample to 8kHz mono
//	pcm16, rate, _ := audsrc.ResampleToMono16(source, 8000, 4096)
//
//	// Write as WAV
//	wavFile, _ := os.Create("output.wav")
//	wav.WriteWAV16(wavFile, rate, 1, pcm16)
package aiff
