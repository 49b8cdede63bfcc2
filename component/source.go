// SPDX-License-Identifier: EPL-2.0

package component

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/ik5/audsrc/asset"
	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/channel"
	"github.com/ik5/audsrc/scene"
)

// AudioSource plays the clips of a list of assets on behalf of an owner,
// through at most one live channel. It is not safe for concurrent use; all
// calls, and the asset events it reacts to, must come from the goroutine
// that pumps the asset registry.
type AudioSource struct {
	system   *System
	owner    scene.Owner
	log      *slog.Logger
	resolver *Resolver
	unwatch  func()

	params  Params
	assets  []asset.ID
	sources SourceMap
	current string
	ch      channel.Channel
	enabled bool
}

func (a *AudioSource) Owner() scene.Owner       { return a.owner }
func (a *AudioSource) Params() Params           { return a.params }
func (a *AudioSource) Channel() channel.Channel { return a.ch }
func (a *AudioSource) Enabled() bool            { return a.enabled }

// CurrentSource is the name selected for playback, "" when none.
func (a *AudioSource) CurrentSource() string { return a.current }

func (a *AudioSource) Assets() []asset.ID { return slices.Clone(a.assets) }

func (a *AudioSource) Sources() SourceMap { return maps.Clone(a.sources) }

func (a *AudioSource) IsPlaying() bool { return a.ch != nil && a.ch.Playing() }
func (a *AudioSource) IsPaused() bool  { return a.ch != nil && a.ch.Paused() }

// Resolving reports whether the asset list is still being loaded.
func (a *AudioSource) Resolving() bool { return a.resolver.Resolving() }

func (a *AudioSource) active() bool {
	return a.enabled && a.owner.Enabled()
}

// Play stops the live channel and starts name from the source map. It
// does nothing while the source or its owner is disabled, and starts no
// channel when name is not in the map.
func (a *AudioSource) Play(name string) {
	a.play(name)
}

// play reports whether a new channel was started.
func (a *AudioSource) play(name string) bool {
	if !a.active() {
		a.log.Debug("play ignored while disabled", "source", name)
		return false
	}
	a.Stop()

	buf, ok := a.sources[name]
	if !ok {
		a.log.Debug("play of unknown source", "source", name)
		return false
	}

	if a.params.Positional {
		a.ch = a.system.backend.PlaySound3D(buf, a.owner.Position(), a.params.channelParams())
	} else {
		a.ch = a.system.backend.PlaySound(buf, a.params.channelParams())
	}
	a.current = name
	return true
}

func (a *AudioSource) Pause() {
	if a.ch != nil {
		a.ch.Pause()
	}
}

// Unpause resumes a paused channel.
func (a *AudioSource) Unpause() {
	if a.ch != nil && a.ch.Paused() {
		a.ch.Unpause()
	}
}

// Stop stops and releases the live channel.
func (a *AudioSource) Stop() {
	if a.ch != nil {
		a.ch.Stop()
		a.ch = nil
	}
}

// restart replays name and forces the captured flags on the new channel.
func (a *AudioSource) restart(name string, paused, suspended bool) {
	if a.play(name) {
		a.ch.Restore(paused, suspended)
	}
}

func (a *AudioSource) flags() (paused, suspended bool) {
	if a.ch == nil {
		return false, false
	}
	return a.ch.Paused(), a.ch.Suspended()
}

func (a *AudioSource) SetLoop(loop bool) {
	if a.params.Loop == loop {
		return
	}
	a.params.Loop = loop
	if a.ch != nil {
		a.ch.SetLoop(loop)
	}
}

func (a *AudioSource) SetVolume(volume float64) {
	if a.params.Volume == volume {
		return
	}
	a.params.Volume = volume
	if a.ch != nil {
		a.ch.SetVolume(volume)
	}
}

func (a *AudioSource) SetPitch(pitch float64) {
	if a.params.Pitch == pitch {
		return
	}
	a.params.Pitch = pitch
	if a.ch != nil {
		a.ch.SetPitch(pitch)
	}
}

// distanceChannel returns the live channel if distance settings apply to
// it. Otherwise they wait for the next positional play.
func (a *AudioSource) distanceChannel() channel.Channel {
	if a.ch == nil || !a.ch.SupportsDistance() {
		return nil
	}
	return a.ch
}

func (a *AudioSource) SetMinDistance(d float64) {
	if a.params.MinDistance == d {
		return
	}
	a.params.MinDistance = d
	if ch := a.distanceChannel(); ch != nil {
		ch.SetMinDistance(d)
	}
}

func (a *AudioSource) SetMaxDistance(d float64) {
	if a.params.MaxDistance == d {
		return
	}
	a.params.MaxDistance = d
	if ch := a.distanceChannel(); ch != nil {
		ch.SetMaxDistance(d)
	}
}

func (a *AudioSource) SetRollOffFactor(f float64) {
	if a.params.RollOffFactor == f {
		return
	}
	a.params.RollOffFactor = f
	if ch := a.distanceChannel(); ch != nil {
		ch.SetRollOffFactor(f)
	}
}

func (a *AudioSource) SetDistanceModel(m channel.DistanceModel) {
	if a.params.DistanceModel == m {
		return
	}
	a.params.DistanceModel = m
	if ch := a.distanceChannel(); ch != nil {
		ch.SetDistanceModel(m)
	}
}

// SetPositional switches between positional and non-positional playback.
// Once the system is initialized, the current source is rebuilt in the
// new mode with the paused and suspended flags it had.
func (a *AudioSource) SetPositional(positional bool) {
	if a.params.Positional == positional {
		return
	}
	a.params.Positional = positional

	if a.system.initialized && a.current != "" {
		paused, suspended := a.flags()
		a.restart(a.current, paused, suspended)
	}
}

func (a *AudioSource) SetAutoActivate(on bool) { a.params.AutoActivate = on }

// SetAssets replaces the asset list. The current source is stopped and
// cleared when it came from the old list, then the new list is resolved.
func (a *AudioSource) SetAssets(ids []asset.ID) {
	old := a.assets
	a.assets = slices.Clone(ids)
	a.resolver.Revoke()

	if a.current != "" && a.fromAssets(old, a.current) {
		a.Stop()
		a.current = ""
	}
	a.resolve()
}

func (a *AudioSource) fromAssets(ids []asset.ID, name string) bool {
	for _, id := range ids {
		if h, ok := a.system.registry.Get(id); ok && h.Name() == name {
			return true
		}
	}
	return false
}

func (a *AudioSource) resolve() {
	a.resolver.Resolve(a.assets, a.active, a.loaded)
}

// loaded receives the result of a finished batch.
func (a *AudioSource) loaded(sources SourceMap, current string) {
	a.sources = sources
	a.current = current
	a.log.Debug("sources resolved", "count", len(sources), "current", current)

	if a.active() && a.params.AutoActivate && current != "" {
		a.OnEnable()
	}
}

// SetEnabled toggles the source. Lifecycle hooks only run while the owner
// is enabled.
func (a *AudioSource) SetEnabled(enabled bool) {
	if a.enabled == enabled {
		return
	}
	a.enabled = enabled
	if !a.owner.Enabled() {
		return
	}
	if enabled {
		a.OnEnable()
	} else {
		a.OnDisable()
	}
}

// OnEnable requests loads of assets that are not loaded yet. Once the
// system is initialized it starts the current source when AutoActivate is
// set and no channel is live, otherwise it resumes a paused channel.
func (a *AudioSource) OnEnable() {
	for _, id := range a.assets {
		if h, ok := a.system.registry.Get(id); ok && !h.Loaded() {
			a.system.registry.Load(h)
		}
	}

	if !a.system.initialized {
		return
	}
	if a.params.AutoActivate && a.ch == nil {
		a.Play(a.current)
	} else {
		a.Unpause()
	}
}

// OnDisable pauses the live channel so it can resume later.
func (a *AudioSource) OnDisable() {
	a.Pause()
}

// Update moves a positional channel to the owner position.
func (a *AudioSource) Update() {
	if ch := a.distanceChannel(); ch != nil {
		ch.SetPosition(a.owner.Position())
	}
}

func (a *AudioSource) ownerToggled(enabled bool) {
	if !a.enabled {
		return
	}
	if enabled {
		a.OnEnable()
	} else {
		a.OnDisable()
	}
}

func (a *AudioSource) sourceAdded(name string, buf *audio.Buffer) {
	a.sources[name] = buf
}

// sourceChanged swaps the clip and restarts it if it is the one playing.
func (a *AudioSource) sourceChanged(name string, buf *audio.Buffer) {
	a.sources[name] = buf
	if name != a.current || a.ch == nil {
		return
	}
	paused, suspended := a.flags()
	a.restart(name, paused, suspended)
}

func (a *AudioSource) sourceRemoved(name string) {
	if name == a.current {
		a.Stop()
		a.current = ""
	}
	delete(a.sources, name)
}
