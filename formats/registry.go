// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled decoder into one registry.
package formats

import (
	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/formats/aiff"
	"github.com/ik5/audsrc/formats/mp3"
	"github.com/ik5/audsrc/formats/vorbis"
	"github.com/ik5/audsrc/formats/wav"
)

// NewRegistry returns a registry with the wav, mp3, vorbis and aiff
// decoders bound to their extensions.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	wav.Register(r)
	mp3.Register(r)
	vorbis.Register(r)
	aiff.Register(r)
	return r
}
