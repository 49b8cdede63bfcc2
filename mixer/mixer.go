// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/channel"
	"github.com/ik5/audsrc/scene"
)

const (
	DefaultSampleRate = 44100
	DefaultQuality    = 4
	minPitch          = 0.01
)

type Options struct {
	SampleRate int
	// Quality of the beep resampler, 1 to 64.
	Quality int
	// MasterVolume is a linear gain. Zero means 1.
	MasterVolume float64
	Logger       *slog.Logger
}

// Mixer is a channel.Backend that mixes every live channel into one
// stereo beep.Streamer. It is safe to stream from the audio device
// goroutine while channels are controlled from another.
type Mixer struct {
	mu sync.Mutex

	rate    beep.SampleRate
	quality int
	log     *slog.Logger

	mix    *beep.Mixer
	master *beep.Ctrl
	out    *effects.Volume

	masterVolume float64
	listener     scene.Vec3
	suspended    bool
	voices       map[*Voice]struct{}
}

func New(opts Options) *Mixer {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Quality < 1 || opts.Quality > 64 {
		opts.Quality = DefaultQuality
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	m := &Mixer{
		rate:    beep.SampleRate(opts.SampleRate),
		quality: opts.Quality,
		log:     opts.Logger.With("component", "mixer"),
		mix:     &beep.Mixer{},
		voices:  make(map[*Voice]struct{}),
	}
	m.master = &beep.Ctrl{Streamer: m.mix}
	m.out = &effects.Volume{Streamer: m.master, Base: 2}
	m.setMasterVolume(1)
	if opts.MasterVolume > 0 {
		m.setMasterVolume(opts.MasterVolume)
	}
	return m
}

func (m *Mixer) SampleRate() beep.SampleRate { return m.rate }

// Stream implements beep.Streamer. It never drains.
func (m *Mixer) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.out.Stream(samples)
	return len(samples), true
}

func (m *Mixer) Err() error { return nil }

// Render mixes the next frames into a new slice.
func (m *Mixer) Render(frames int) [][2]float64 {
	out := make([][2]float64, frames)
	m.Stream(out)
	return out
}

func (m *Mixer) PlaySound(buf *audio.Buffer, p channel.Params) channel.Channel {
	return m.start(channel.NonPositional, buf, scene.Vec3{}, p)
}

func (m *Mixer) PlaySound3D(buf *audio.Buffer, pos scene.Vec3, p channel.Params) channel.Channel {
	return m.start(channel.Positional, buf, pos, p)
}

func (m *Mixer) start(mode channel.Mode, buf *audio.Buffer, pos scene.Vec3, p channel.Params) *Voice {
	m.mu.Lock()
	defer m.mu.Unlock()

	clip := &clipStreamer{buf: buf, loop: p.Loop}
	v := &Voice{
		m:         m,
		mode:      mode,
		clip:      clip,
		params:    p,
		position:  pos,
		suspended: m.suspended,
	}
	v.resampler = beep.ResampleRatio(m.quality, v.ratio(), clip)
	v.volume = &effects.Volume{Streamer: v.resampler, Base: 2}
	v.pan = &effects.Pan{Streamer: v.volume}
	v.ctrl = &beep.Ctrl{Streamer: v.pan}
	v.applyGain()
	v.syncCtrl()

	m.voices[v] = struct{}{}
	m.mix.Add(v.ctrl)
	m.log.Debug("channel started", "mode", mode, "frames", buf.Frames(), "loop", p.Loop)
	return v
}

// Active counts channels that are neither stopped nor finished.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	for v := range m.voices {
		if v.clip.done {
			delete(m.voices, v)
		}
	}
	return len(m.voices)
}

// SetListener moves the listener and re-attenuates positional channels.
func (m *Mixer) SetListener(pos scene.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listener = pos
	for v := range m.voices {
		v.applyGain()
	}
}

func (m *Mixer) Listener() scene.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener
}

// Suspend silences output and marks every live channel suspended.
func (m *Mixer) Suspend() { m.setSuspended(true) }

// Resume undoes Suspend.
func (m *Mixer) Resume() { m.setSuspended(false) }

func (m *Mixer) Suspended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suspended
}

func (m *Mixer) setSuspended(s bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.suspended == s {
		return
	}
	m.suspended = s
	m.master.Paused = s
	for v := range m.voices {
		v.suspended = s
		v.syncCtrl()
	}
	m.log.Debug("output suspended", "suspended", s)
}

func (m *Mixer) SetMasterVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setMasterVolume(v)
}

func (m *Mixer) MasterVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.masterVolume
}

func (m *Mixer) setMasterVolume(v float64) {
	m.masterVolume = v
	setGain(m.out, v)
}

// Source exposes the next frames of the mix as a stereo audio.Source.
func (m *Mixer) Source(frames int) audio.Source {
	return &mixSource{m: m, remaining: frames}
}

type mixSource struct {
	m         *Mixer
	remaining int
	tmp       [][2]float64
}

func (s *mixSource) SampleRate() int { return int(s.m.rate) }
func (s *mixSource) Channels() int   { return 2 }
func (s *mixSource) BufSize() int    { return 2048 }
func (s *mixSource) Close() error    { return nil }

func (s *mixSource) ReadSamples(dst []float32) (int, error) {
	frames := min(len(dst)/2, s.remaining)
	if frames == 0 {
		if s.remaining == 0 {
			return 0, io.EOF
		}
		return 0, nil
	}

	if cap(s.tmp) < frames {
		s.tmp = make([][2]float64, frames)
	}
	tmp := s.tmp[:frames]
	s.m.Stream(tmp)
	for i, f := range tmp {
		dst[2*i] = float32(f[0])
		dst[2*i+1] = float32(f[1])
	}

	s.remaining -= frames
	if s.remaining == 0 {
		return frames * 2, io.EOF
	}
	return frames * 2, nil
}

// setGain drives a beep volume effect with a linear gain.
func setGain(v *effects.Volume, gain float64) {
	if gain <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(gain)
}
