// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audsrc/asset"
	"github.com/ik5/audsrc/channel"
	"github.com/ik5/audsrc/component"
	"github.com/ik5/audsrc/scene"
)

const sceneYAML = `
audio:
  sample_rate: 48000
  quality: 2
  master_volume: 0.5
log:
  level: debug
  format: json
assets:
  - {id: step, name: footstep, file: sfx/step.wav, preload: true}
  - {id: door, file: sfx/door.ogg}
listener: {x: 1, y: 2, z: 3}
sources:
  - name: hall
    assets: [step, door]
    position: {x: 4}
    loop: true
    distance_model: linear
  - name: radio
    assets: [door]
    positional: false
    volume: 0.25
    auto_activate: false
`

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(sceneYAML))
	require.NoError(t, err)

	assert.Equal(t, Audio{SampleRate: 48000, BufferMS: DefaultBufferMS, Quality: 2, MasterVolume: 0.5}, cfg.Audio)
	assert.Equal(t, Log{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, scene.Vec3{X: 1, Y: 2, Z: 3}, cfg.Listener.Vec3())

	require.Len(t, cfg.Assets, 2)
	assert.Equal(t, asset.Spec{ID: "step", Name: "footstep", File: "sfx/step.wav", Preload: true}, cfg.Assets[0].Spec())

	require.Len(t, cfg.Sources, 2)
	hall := cfg.Sources[0]
	assert.Equal(t, []asset.ID{"step", "door"}, hall.AssetIDs())
	assert.True(t, hall.Enabled)

	p, err := hall.Params()
	require.NoError(t, err)
	want := component.DefaultParams()
	want.Loop = true
	want.DistanceModel = channel.Linear
	assert.Equal(t, want, p)

	p, err = cfg.Sources[1].Params()
	require.NoError(t, err)
	assert.False(t, p.Positional)
	assert.False(t, p.AutoActivate)
	assert.Equal(t, 0.25, p.Volume)
	assert.Equal(t, 1.0, p.Pitch, "unset fields keep defaults")
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("audio:\n  sample_rat: 8000\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, "audio.sample_rate"},
		{"buffer", func(c *Config) { c.Audio.BufferMS = -1 }, "audio.buffer_ms"},
		{"quality", func(c *Config) { c.Audio.Quality = 65 }, "audio.quality"},
		{"master volume", func(c *Config) { c.Audio.MasterVolume = -0.1 }, "audio.master_volume"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"asset file", func(c *Config) { c.Assets = []Asset{{ID: "a"}} }, "assets[0].file"},
		{"duplicate asset", func(c *Config) {
			c.Assets = []Asset{{ID: "a", File: "a.wav"}, {ID: "a", File: "b.wav"}}
		}, "duplicate of assets[0]"},
		{"source name", func(c *Config) { c.Sources = []Source{DefaultSource()} }, "sources[0].name"},
		{"duplicate source", func(c *Config) {
			s := DefaultSource()
			s.Name = "x"
			c.Sources = []Source{s, s}
		}, "duplicate of sources[0]"},
		{"unknown asset", func(c *Config) {
			s := DefaultSource()
			s.Name = "x"
			s.Assets = []string{"nope"}
			c.Sources = []Source{s}
		}, `unknown asset "nope"`},
		{"pitch", func(c *Config) { c.Sources = []Source{source(func(s *Source) { s.Pitch = 0 })} }, "pitch"},
		{"volume", func(c *Config) { c.Sources = []Source{source(func(s *Source) { s.Volume = -1 })} }, "volume"},
		{"min distance", func(c *Config) { c.Sources = []Source{source(func(s *Source) { s.MinDistance = -1 })} }, "min_distance"},
		{"max distance", func(c *Config) { c.Sources = []Source{source(func(s *Source) { s.MaxDistance = 0.5 })} }, "max_distance"},
		{"roll off", func(c *Config) { c.Sources = []Source{source(func(s *Source) { s.RollOffFactor = -2 })} }, "roll_off_factor"},
		{"distance model", func(c *Config) { c.Sources = []Source{source(func(s *Source) { s.DistanceModel = "cubic" })} }, "distance_model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Audio.SampleRate = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio.sample_rate")
	assert.Contains(t, err.Error(), "log.format")
}

func source(mutate func(*Source)) Source {
	s := DefaultSource()
	s.Name = "s"
	mutate(&s)
	return s
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "overrides",
			env:  map[string]string{EnvMasterVolume: "40", EnvSampleRate: "22050", EnvLogLevel: "warn"},
			want: Config{Audio: Audio{SampleRate: 22050, BufferMS: DefaultBufferMS, Quality: DefaultQuality, MasterVolume: 0.4}, Log: Log{Level: "warn", Format: "text"}},
		},
		{
			name: "volume clamped",
			env:  map[string]string{EnvMasterVolume: "250"},
			want: Config{Audio: Audio{SampleRate: DefaultSampleRate, BufferMS: DefaultBufferMS, Quality: DefaultQuality, MasterVolume: 1}, Log: Log{Level: "info", Format: "text"}},
		},
		{
			name: "garbage ignored",
			env:  map[string]string{EnvMasterVolume: "loud", EnvSampleRate: "-5"},
			want: *Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			cfg.ApplyEnv(func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			})
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0o600))
	t.Setenv(EnvSampleRate, "16000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16000, cfg.Audio.SampleRate)
	assert.Len(t, cfg.Sources, 2)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("audio: [1, 2"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestLog_NewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Log{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "json output: %s", out)
	assert.Contains(t, out, `"k":1`)

	level, err := Log{}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
