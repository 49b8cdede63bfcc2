// SPDX-License-Identifier: EPL-2.0

package component

import (
	"log/slog"
	"slices"

	"github.com/ik5/audsrc/asset"
	"github.com/ik5/audsrc/channel"
	"github.com/ik5/audsrc/scene"
)

// watchable owners report enable transitions, like scene.Node.
type watchable interface {
	Watch(fn func(enabled bool)) (cancel func())
}

type named interface {
	Name() string
}

// System creates audio sources and drives their shared lifecycle.
type System struct {
	registry asset.Registry
	backend  channel.Backend
	log      *slog.Logger

	initialized bool
	sources     []*AudioSource
}

func NewSystem(registry asset.Registry, backend channel.Backend, logger *slog.Logger) *System {
	if logger == nil {
		logger = slog.Default()
	}
	return &System{
		registry: registry,
		backend:  backend,
		log:      logger.With("component", "audio.system"),
	}
}

// Add attaches a new enabled source to owner and starts resolving ids.
func (s *System) Add(owner scene.Owner, p Params, ids ...asset.ID) *AudioSource {
	log := s.log
	if n, ok := owner.(named); ok {
		log = log.With("owner", n.Name())
	}

	a := &AudioSource{
		system:  s,
		owner:   owner,
		log:     log,
		params:  p,
		sources: make(SourceMap),
		enabled: true,
	}
	a.resolver = NewResolver(s.registry, ResolverEvents{
		Added:   a.sourceAdded,
		Changed: a.sourceChanged,
		Removed: a.sourceRemoved,
	}, log)
	if w, ok := owner.(watchable); ok {
		a.unwatch = w.Watch(a.ownerToggled)
	}
	s.sources = append(s.sources, a)

	a.SetAssets(ids)
	if s.initialized && a.active() {
		a.OnEnable()
	}
	return a
}

// Initialize marks the system ready for playback and enables every
// active source. Calling it again does nothing.
func (s *System) Initialize() {
	if s.initialized {
		return
	}
	s.initialized = true
	s.log.Debug("audio system initialized", "sources", len(s.sources))

	for _, a := range slices.Clone(s.sources) {
		if a.active() {
			a.OnEnable()
		}
	}
}

func (s *System) Initialized() bool { return s.initialized }

// Update syncs positional channels with their owners.
func (s *System) Update() {
	for _, a := range s.sources {
		a.Update()
	}
}

// Remove stops a, revokes its asset subscriptions and detaches it from
// its owner.
func (s *System) Remove(a *AudioSource) {
	i := slices.Index(s.sources, a)
	if i < 0 {
		return
	}
	s.sources = slices.Delete(s.sources, i, i+1)

	a.Stop()
	a.resolver.Revoke()
	if a.unwatch != nil {
		a.unwatch()
		a.unwatch = nil
	}
}

func (s *System) Sources() []*AudioSource { return slices.Clone(s.sources) }
