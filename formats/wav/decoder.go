// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/intpcm"
)

// Extensions lists the file extensions Register binds.
var Extensions = []string{"wav", "wave"}

const formatPCM = 1

type Decoder struct{}

// Decode parses the RIFF header and returns a Source over the PCM chunk.
// Chunks before "data" (LIST, fact, ...) are skipped by go-audio.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := intpcm.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}
	if dec.WavAudioFormat != formatPCM {
		return nil, ErrOnlyPCMSupported
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit", ErrUnsupportedBitDepth, bitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	return intpcm.NewSource(dec, format.SampleRate, format.NumChannels, bitDepth, bitDepth == 8), nil
}

// Register binds Decoder to Extensions in r.
func Register(r *audio.Registry) {
	for _, ext := range Extensions {
		r.Register(ext, Decoder{})
	}
}
