// SPDX-License-Identifier: EPL-2.0

// Package mixer is a channel.Backend built on github.com/gopxl/beep.
//
// Each channel is a chain of beep streamers: the decoded clip, a
// resampler driven by the clip rate and pitch, a volume stage that folds
// in distance attenuation, a pan stage for positional channels and a Ctrl
// for pause and suspend. Every chain feeds one beep.Mixer behind a master
// Ctrl and volume.
//
// A Mixer is itself a beep.Streamer, so it can be handed to
// speaker.Play, or pulled offline through Render or Source.
package mixer
