// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/channel"
	"github.com/ik5/audsrc/scene"
	"github.com/ik5/audsrc/utils"
)

// Voice is one playing clip, implementing channel.Channel.
type Voice struct {
	m    *Mixer
	mode channel.Mode

	clip      *clipStreamer
	resampler *beep.Resampler
	volume    *effects.Volume
	pan       *effects.Pan
	ctrl      *beep.Ctrl

	params   channel.Params
	position scene.Vec3

	paused    bool
	suspended bool
	stopped   bool
}

func (v *Voice) Mode() channel.Mode     { return v.mode }
func (v *Voice) SupportsDistance() bool { return v.mode == channel.Positional }

func (v *Voice) Pause()   { v.update(func() { v.paused = true }) }
func (v *Voice) Unpause() { v.update(func() { v.paused = false }) }

// Stop detaches the voice from the mix. It cannot be restarted.
func (v *Voice) Stop() {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	v.stopped = true
	v.ctrl.Streamer = nil
	delete(v.m.voices, v)
}

func (v *Voice) Paused() bool {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	return v.paused
}

func (v *Voice) Suspended() bool {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	return v.suspended
}

func (v *Voice) Playing() bool {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	return !v.stopped && !v.clip.done && !v.paused && !v.suspended
}

func (v *Voice) Restore(paused, suspended bool) {
	v.update(func() {
		v.paused = paused
		v.suspended = suspended
	})
}

func (v *Voice) SetLoop(loop bool) {
	v.update(func() {
		v.params.Loop = loop
		v.clip.loop = loop
	})
}

func (v *Voice) SetVolume(volume float64) {
	v.update(func() { v.params.Volume = volume })
}

func (v *Voice) SetPitch(pitch float64) {
	v.update(func() {
		v.params.Pitch = pitch
		v.resampler.SetRatio(v.ratio())
	})
}

func (v *Voice) SetMinDistance(d float64) {
	v.update(func() { v.params.MinDistance = d })
}

func (v *Voice) SetMaxDistance(d float64) {
	v.update(func() { v.params.MaxDistance = d })
}

func (v *Voice) SetRollOffFactor(f float64) {
	v.update(func() { v.params.RollOffFactor = f })
}

func (v *Voice) SetDistanceModel(dm channel.DistanceModel) {
	v.update(func() { v.params.DistanceModel = dm })
}

func (v *Voice) SetPosition(p scene.Vec3) {
	v.update(func() { v.position = p })
}

// update runs fn under the mixer lock and reapplies gain and pause state.
func (v *Voice) update(fn func()) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()

	if v.stopped {
		return
	}
	fn()
	v.applyGain()
	v.syncCtrl()
}

// ratio converts the clip rate to the mix rate, scaled by pitch.
func (v *Voice) ratio() float64 {
	pitch := v.params.Pitch
	if pitch < minPitch {
		pitch = minPitch
	}
	return float64(v.clip.buf.SampleRate) / float64(v.m.rate) * pitch
}

// applyGain must hold the mixer lock.
func (v *Voice) applyGain() {
	gain := v.params.Volume
	pan := 0.0

	if v.mode == channel.Positional {
		rel := v.position.Sub(v.m.listener)
		dist := rel.Len()
		gain *= channel.Gain(v.params.DistanceModel, dist,
			v.params.MinDistance, v.params.MaxDistance, v.params.RollOffFactor)
		if dist > 0 {
			pan = utils.Clamp(rel.X/dist, -1, 1)
		}
	}

	// effects.Pan folds the far side into the near one, so a panned
	// voice peaks at (1+|pan|) times its input. Scale it back so the
	// louder side never exceeds volume times the distance gain.
	setGain(v.volume, gain/(1+math.Abs(pan)))
	v.pan.Pan = pan
}

func (v *Voice) syncCtrl() {
	v.ctrl.Paused = v.paused || v.suspended
}

// clipStreamer plays a Buffer as beep stereo frames. Mono is duplicated
// to both sides, channels past the second are dropped.
type clipStreamer struct {
	buf  *audio.Buffer
	pos  int
	loop bool
	done bool
}

func (c *clipStreamer) Stream(samples [][2]float64) (int, bool) {
	if c.done {
		return 0, false
	}

	frames := c.buf.Frames()
	ch := c.buf.Channels
	n := 0
	for n < len(samples) && frames > 0 {
		if c.pos >= frames {
			if !c.loop {
				break
			}
			c.pos = 0
		}
		i := c.pos * ch
		l := float64(c.buf.Samples[i])
		r := l
		if ch > 1 {
			r = float64(c.buf.Samples[i+1])
		}
		samples[n] = [2]float64{l, r}
		n++
		c.pos++
	}

	if n == 0 {
		c.done = true
		return 0, false
	}
	return n, true
}

func (c *clipStreamer) Err() error { return nil }
