// SPDX-License-Identifier: EPL-2.0

// Package audsrc attaches playable audio to scene objects. An audio
// source resolves a list of asset references into decoded clips, keeps
// track of the one that is current, and drives a single playback channel
// whose volume, pitch, loop and distance falloff follow the source state
// across enable, disable and asset changes.
//
// # Packages
//
//   - component: the AudioSource, its resource Resolver and the System
//     that owns them.
//   - asset: the asset Store (background loads, events delivered on Pump),
//     file loaders and an fsnotify watcher for hot reload.
//   - channel: the backend contract and distance gain models.
//   - mixer: a beep based backend with positional gain and pan.
//   - scene: vectors and a minimal node that owns sources.
//   - config: the YAML scene manifest.
//   - audio, formats/...: decoding wav, mp3, ogg vorbis and aiff into
//     float32 PCM, resampling and mono downmix.
//
// # Quick Start
//
// Engine wires all of it from a config:
//
//	cfg, _ := config.Load("scene.yaml")
//	e, _ := audsrc.New(cfg, audsrc.Options{Root: "assets"})
//	defer e.Close()
//
//	e.Start()
//	for range ticker.C {
//	    e.Step() // deliver loads, sync positions
//	}
//
// The mixer is a beep.Streamer, so it can be handed to a speaker, or
// mixed offline:
//
//	pcm16, _ := e.RenderMono16(2*time.Second, 8000)
//
// ResampleToMono16 exposes the same conversion for any audio.Source.
//
// # Threading
//
// Asset loads run on goroutines, but every callback runs on the goroutine
// that calls Step or Settle. Sources and the system are not locked and
// must only be used from that goroutine. The mixer can be streamed from
// the audio device goroutine at the same time.
package audsrc
