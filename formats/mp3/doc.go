// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
//
// # Supported Formats
//
// The decoder supports:
//   - MP3 (MPEG-1 Audio Layer 3)
//   - Constant and variable bitrates
//   - Mono and stereo files
//
// # Decoding MP3 Files
//
// Use the Decoder to read MP3 files:
//
//	file, _ := os.Open("theme.mp3")
//	source, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read samples as float32 in range [-1.0, 1.0]
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// # Output Format
//
// MP3 decoder output:
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: always 2, mono files are duplicated by go-mp3
//   - Sample rate: the file's own rate (typically 44.1kHz or 48kHz)
//
// To bring a clip to the mixer rate, read it with audio.ReadBufferAt:
//
//	clip, err := audio.ReadBufferAt(source, 48000)
//
// For a single channel wrap the source in audio.NewMonoMixer.
//
// # Registering the Decoder
//
// Register binds the decoder to the "mp3" extension:
//
//	registry := audio.NewRegistry()
//	mp3.Register(registry)
//
// # Limitations
//
// Note:
//   - MP3 writing is not supported (decoding only)
//   - Output is always stereo (use MonoMixer to convert)
//
// # Example: MP3 to WAV Conversion
//
//	mp3File, _ := os.Open("input.mp3")
//	source, _ := mp3.Decoder{}.Decode(mp3File)
//
//	// Resample and convert to mono
//	pcm16, rate, _ := audsrc.ResampleToMono16(source, 8000, 4096)
//
//	// Write as WAV
//	wavFile, _ := os.Create("output.wav")
//	wav.WriteWAV16(wavFile, rate, 1, pcm16)
package mp3
