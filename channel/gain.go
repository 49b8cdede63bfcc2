// SPDX-License-Identifier: EPL-2.0

package channel

import "math"

// Gain returns the attenuation in [0,1] for a source at distance from the
// listener. The curves follow the Web Audio PannerNode definitions, with
// ref as the distance where attenuation starts.
func Gain(model DistanceModel, distance, ref, maxDistance, rollOff float64) float64 {
	if ref <= 0 {
		return 1
	}
	if distance < ref {
		distance = ref
	}

	var g float64
	switch model {
	case Linear:
		if maxDistance <= ref {
			return 1
		}
		distance = math.Min(distance, maxDistance)
		g = 1 - math.Min(rollOff, 1)*(distance-ref)/(maxDistance-ref)
	case Exponential:
		g = math.Pow(distance/ref, -rollOff)
	default:
		g = ref / (ref + rollOff*(distance-ref))
	}

	return math.Max(0, math.Min(1, g))
}
