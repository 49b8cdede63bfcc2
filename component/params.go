// SPDX-License-Identifier: EPL-2.0

package component

import "github.com/ik5/audsrc/channel"

// Params is the settable state of an AudioSource.
type Params struct {
	Loop          bool
	Volume        float64
	Pitch         float64
	Positional    bool
	MinDistance   float64
	MaxDistance   float64
	RollOffFactor float64
	DistanceModel channel.DistanceModel
	// AutoActivate starts playback of the current source when enabled.
	AutoActivate bool
}

func DefaultParams() Params {
	return Params{
		Volume:        1,
		Pitch:         1,
		Positional:    true,
		MinDistance:   1,
		MaxDistance:   10000,
		RollOffFactor: 1,
		DistanceModel: channel.Inverse,
		AutoActivate:  true,
	}
}

func (p Params) channelParams() channel.Params {
	return channel.Params{
		Loop:          p.Loop,
		Volume:        p.Volume,
		Pitch:         p.Pitch,
		MinDistance:   p.MinDistance,
		MaxDistance:   p.MaxDistance,
		RollOffFactor: p.RollOffFactor,
		DistanceModel: p.DistanceModel,
	}
}
