// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audsrc/asset"
	"github.com/ik5/audsrc/channel"
	"github.com/ik5/audsrc/component"
	"github.com/ik5/audsrc/scene"
)

// Config is the YAML manifest of an audsrc scene.
type Config struct {
	Audio    Audio    `yaml:"audio"`
	Log      Log      `yaml:"log"`
	Assets   []Asset  `yaml:"assets"`
	Listener Vec      `yaml:"listener"`
	Sources  []Source `yaml:"sources"`
}

type Audio struct {
	SampleRate int `yaml:"sample_rate"`
	// BufferMS is the device buffer length used by the speaker.
	BufferMS     int     `yaml:"buffer_ms"`
	Quality      int     `yaml:"quality"`
	MasterVolume float64 `yaml:"master_volume"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Asset struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	Preload bool   `yaml:"preload"`
}

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Source is one audio source attached to a scene node of the same name.
// Fields left out of the YAML keep the component defaults.
type Source struct {
	Name          string   `yaml:"name"`
	Assets        []string `yaml:"assets"`
	Position      Vec      `yaml:"position"`
	Enabled       bool     `yaml:"enabled"`
	Loop          bool     `yaml:"loop"`
	Volume        float64  `yaml:"volume"`
	Pitch         float64  `yaml:"pitch"`
	Positional    bool     `yaml:"positional"`
	MinDistance   float64  `yaml:"min_distance"`
	MaxDistance   float64  `yaml:"max_distance"`
	RollOffFactor float64  `yaml:"roll_off_factor"`
	DistanceModel string   `yaml:"distance_model"`
	AutoActivate  bool     `yaml:"auto_activate"`
}

const (
	DefaultSampleRate = 44100
	DefaultBufferMS   = 100
	DefaultQuality    = 4
)

func Default() *Config {
	return &Config{
		Audio: Audio{
			SampleRate:   DefaultSampleRate,
			BufferMS:     DefaultBufferMS,
			Quality:      DefaultQuality,
			MasterVolume: 1,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// DefaultSource returns a source with the component defaults.
func DefaultSource() Source {
	p := component.DefaultParams()
	return Source{
		Enabled:       true,
		Loop:          p.Loop,
		Volume:        p.Volume,
		Pitch:         p.Pitch,
		Positional:    p.Positional,
		MinDistance:   p.MinDistance,
		MaxDistance:   p.MaxDistance,
		RollOffFactor: p.RollOffFactor,
		DistanceModel: p.DistanceModel.String(),
		AutoActivate:  p.AutoActivate,
	}
}

func (s *Source) UnmarshalYAML(n *yaml.Node) error {
	type plain Source
	p := plain(DefaultSource())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = Source(p)
	return nil
}

// Params converts s into component parameters.
func (s Source) Params() (component.Params, error) {
	dm, err := channel.ParseDistanceModel(s.DistanceModel)
	if err != nil {
		return component.Params{}, err
	}
	return component.Params{
		Loop:          s.Loop,
		Volume:        s.Volume,
		Pitch:         s.Pitch,
		Positional:    s.Positional,
		MinDistance:   s.MinDistance,
		MaxDistance:   s.MaxDistance,
		RollOffFactor: s.RollOffFactor,
		DistanceModel: dm,
		AutoActivate:  s.AutoActivate,
	}, nil
}

func (s Source) AssetIDs() []asset.ID {
	ids := make([]asset.ID, len(s.Assets))
	for i, id := range s.Assets {
		ids[i] = asset.ID(id)
	}
	return ids
}

func (a Asset) Spec() asset.Spec {
	return asset.Spec{ID: asset.ID(a.ID), Name: a.Name, File: a.File, Preload: a.Preload}
}

func (v Vec) Vec3() scene.Vec3 { return scene.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// Load reads the file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates a YAML document. Environment overrides are
// not applied.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Audio.SampleRate <= 0 {
		add("audio.sample_rate %d must be positive", c.Audio.SampleRate)
	}
	if c.Audio.BufferMS <= 0 {
		add("audio.buffer_ms %d must be positive", c.Audio.BufferMS)
	}
	if c.Audio.Quality < 1 || c.Audio.Quality > 64 {
		add("audio.quality %d is out of range [1, 64]", c.Audio.Quality)
	}
	if c.Audio.MasterVolume < 0 {
		add("audio.master_volume %.2f must not be negative", c.Audio.MasterVolume)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		add("log.level %q is invalid; valid values: debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		add("log.format %q is invalid; valid values: text, json", c.Log.Format)
	}

	ids := make(map[string]int, len(c.Assets))
	for i, a := range c.Assets {
		prefix := fmt.Sprintf("assets[%d]", i)
		if a.File == "" {
			add("%s.file is required", prefix)
		}
		if a.ID == "" {
			continue
		}
		if prev, ok := ids[a.ID]; ok {
			add("%s.id %q is a duplicate of assets[%d]", prefix, a.ID, prev)
			continue
		}
		ids[a.ID] = i
	}

	names := make(map[string]int, len(c.Sources))
	for i, s := range c.Sources {
		prefix := fmt.Sprintf("sources[%d]", i)
		if s.Name == "" {
			add("%s.name is required", prefix)
		} else if prev, ok := names[s.Name]; ok {
			add("%s.name %q is a duplicate of sources[%d]", prefix, s.Name, prev)
		} else {
			names[s.Name] = i
		}
		for _, id := range s.Assets {
			if _, ok := ids[id]; !ok {
				add("%s.assets: unknown asset %q", prefix, id)
			}
		}
		if s.Volume < 0 {
			add("%s.volume %.2f must not be negative", prefix, s.Volume)
		}
		if s.Pitch <= 0 {
			add("%s.pitch %.2f must be positive", prefix, s.Pitch)
		}
		if s.MinDistance < 0 {
			add("%s.min_distance %.2f must not be negative", prefix, s.MinDistance)
		}
		if s.MaxDistance < s.MinDistance {
			add("%s.max_distance %.2f is below min_distance %.2f", prefix, s.MaxDistance, s.MinDistance)
		}
		if s.RollOffFactor < 0 {
			add("%s.roll_off_factor %.2f must not be negative", prefix, s.RollOffFactor)
		}
		if _, err := channel.ParseDistanceModel(s.DistanceModel); err != nil {
			add("%s.distance_model: %w", prefix, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
