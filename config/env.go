// SPDX-License-Identifier: EPL-2.0

package config

import (
	"strconv"
)

const (
	EnvMasterVolume = "AUDSRC_MASTER_VOLUME"
	EnvSampleRate   = "AUDSRC_SAMPLE_RATE"
	EnvLogLevel     = "AUDSRC_LOG_LEVEL"
)

// ApplyEnv overrides settings from the environment. Master volume is given
// in percent (0-100) and clamped. Unparsable values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvMasterVolume); ok && v != "" {
		if pct, err := strconv.Atoi(v); err == nil {
			c.Audio.MasterVolume = min(max(float64(pct)/100, 0), 1)
		}
	}

	if v, ok := lookup(EnvSampleRate); ok && v != "" {
		if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
			c.Audio.SampleRate = rate
		}
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}
