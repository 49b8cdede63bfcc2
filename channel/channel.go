// SPDX-License-Identifier: EPL-2.0

package channel

import (
	"fmt"
	"strings"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/scene"
)

// Mode tells whether a channel is attenuated by distance.
type Mode int

const (
	NonPositional Mode = iota
	Positional
)

func (m Mode) String() string {
	if m == Positional {
		return "positional"
	}
	return "non-positional"
}

// DistanceModel selects the positional attenuation curve.
type DistanceModel int

const (
	Linear DistanceModel = iota
	Inverse
	Exponential
)

var distanceModelNames = [...]string{"linear", "inverse", "exponential"}

func (d DistanceModel) String() string {
	if d < 0 || int(d) >= len(distanceModelNames) {
		return fmt.Sprintf("DistanceModel(%d)", int(d))
	}
	return distanceModelNames[d]
}

// ParseDistanceModel accepts the names printed by String, case-insensitive.
func ParseDistanceModel(s string) (DistanceModel, error) {
	for i, name := range distanceModelNames {
		if strings.EqualFold(s, name) {
			return DistanceModel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDistanceModel, s)
}

// Params is the playback state a channel is started with. Distance fields
// are only used by positional channels.
type Params struct {
	Loop          bool
	Volume        float64
	Pitch         float64
	MinDistance   float64
	MaxDistance   float64
	RollOffFactor float64
	DistanceModel DistanceModel
}

// Channel is one live playback instance.
type Channel interface {
	Mode() Mode
	// SupportsDistance reports whether the distance setters and
	// SetPosition have any effect.
	SupportsDistance() bool

	Pause()
	Unpause()
	Stop()
	Paused() bool
	// Suspended is set by the backend while output is suspended.
	Suspended() bool
	// Playing is true while the channel is audible: started, not ended or
	// stopped, not paused and not suspended.
	Playing() bool
	// Restore forces both flags, used after a channel is rebuilt.
	Restore(paused, suspended bool)

	SetLoop(loop bool)
	SetVolume(volume float64)
	SetPitch(pitch float64)
	SetMinDistance(d float64)
	SetMaxDistance(d float64)
	SetRollOffFactor(f float64)
	SetDistanceModel(m DistanceModel)
	SetPosition(p scene.Vec3)
}

// Backend starts channels.
type Backend interface {
	PlaySound(buf *audio.Buffer, p Params) Channel
	PlaySound3D(buf *audio.Buffer, position scene.Vec3, p Params) Channel
}
