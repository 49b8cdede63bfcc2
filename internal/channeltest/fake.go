// SPDX-License-Identifier: EPL-2.0

// Package channeltest provides call-counting fakes of channel.Channel and
// channel.Backend.
package channeltest

import (
	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/channel"
	"github.com/ik5/audsrc/scene"
)

// Channel records every call made to it.
type Channel struct {
	ModeValue channel.Mode
	Buffer    *audio.Buffer
	Params    channel.Params
	Position  scene.Vec3

	paused    bool
	suspended bool
	stopped   bool
	calls     map[string]int
}

func NewChannel(mode channel.Mode, buf *audio.Buffer, p channel.Params, pos scene.Vec3) *Channel {
	return &Channel{
		ModeValue: mode,
		Buffer:    buf,
		Params:    p,
		Position:  pos,
		calls:     make(map[string]int),
	}
}

// Calls returns how many times method was invoked.
func (c *Channel) Calls(method string) int { return c.calls[method] }

// TotalCalls counts every recorded call.
func (c *Channel) TotalCalls() int {
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

// SetSuspended flips the flag the way a backend would, without recording
// a call.
func (c *Channel) SetSuspended(s bool) { c.suspended = s }

func (c *Channel) Stopped() bool { return c.stopped }

func (c *Channel) Mode() channel.Mode     { return c.ModeValue }
func (c *Channel) SupportsDistance() bool { return c.ModeValue == channel.Positional }
func (c *Channel) Paused() bool           { return c.paused }
func (c *Channel) Suspended() bool        { return c.suspended }
func (c *Channel) Playing() bool          { return !c.stopped && !c.paused && !c.suspended }

func (c *Channel) Pause() {
	c.calls["Pause"]++
	c.paused = true
}

func (c *Channel) Unpause() {
	c.calls["Unpause"]++
	c.paused = false
}

func (c *Channel) Stop() {
	c.calls["Stop"]++
	c.stopped = true
}

func (c *Channel) Restore(paused, suspended bool) {
	c.calls["Restore"]++
	c.paused = paused
	c.suspended = suspended
}

func (c *Channel) SetLoop(loop bool) {
	c.calls["SetLoop"]++
	c.Params.Loop = loop
}

func (c *Channel) SetVolume(v float64) {
	c.calls["SetVolume"]++
	c.Params.Volume = v
}

func (c *Channel) SetPitch(p float64) {
	c.calls["SetPitch"]++
	c.Params.Pitch = p
}

func (c *Channel) SetMinDistance(d float64) {
	c.calls["SetMinDistance"]++
	c.Params.MinDistance = d
}

func (c *Channel) SetMaxDistance(d float64) {
	c.calls["SetMaxDistance"]++
	c.Params.MaxDistance = d
}

func (c *Channel) SetRollOffFactor(f float64) {
	c.calls["SetRollOffFactor"]++
	c.Params.RollOffFactor = f
}

func (c *Channel) SetDistanceModel(m channel.DistanceModel) {
	c.calls["SetDistanceModel"]++
	c.Params.DistanceModel = m
}

func (c *Channel) SetPosition(p scene.Vec3) {
	c.calls["SetPosition"]++
	c.Position = p
}

// Backend hands out Channels and keeps every one it created.
type Backend struct {
	// Suspended makes new channels start suspended.
	Suspended bool
	Channels  []*Channel
}

func (b *Backend) PlaySound(buf *audio.Buffer, p channel.Params) channel.Channel {
	return b.start(channel.NonPositional, buf, p, scene.Vec3{})
}

func (b *Backend) PlaySound3D(buf *audio.Buffer, pos scene.Vec3, p channel.Params) channel.Channel {
	return b.start(channel.Positional, buf, p, pos)
}

func (b *Backend) start(mode channel.Mode, buf *audio.Buffer, p channel.Params, pos scene.Vec3) *Channel {
	c := NewChannel(mode, buf, p, pos)
	c.suspended = b.Suspended
	b.Channels = append(b.Channels, c)
	return c
}

// Last returns the most recently created channel, or nil.
func (b *Backend) Last() *Channel {
	if len(b.Channels) == 0 {
		return nil
	}
	return b.Channels[len(b.Channels)-1]
}
