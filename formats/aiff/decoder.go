// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/intpcm"
)

// Extensions lists the file extensions Register binds.
var Extensions = []string{"aiff", "aif"}

type Decoder struct{}

// Decode reads the COMM chunk and returns a Source over the SSND chunk.
// Non-seekable readers are buffered in memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := intpcm.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit", ErrUnsupportedBitDepth, bitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	// AIFF stores signed samples at every depth.
	return intpcm.NewSource(dec, format.SampleRate, format.NumChannels, bitDepth, false), nil
}

// Register binds Decoder to Extensions in r.
func Register(r *audio.Registry) {
	for _, ext := range Extensions {
		r.Register(ext, Decoder{})
	}
}
