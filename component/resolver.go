// SPDX-License-Identifier: EPL-2.0

package component

import (
	"log/slog"

	"github.com/ik5/audsrc/asset"
	"github.com/ik5/audsrc/audio"
)

// SourceMap maps asset names to decoded clips.
type SourceMap map[string]*audio.Buffer

// ResolverEvents receives changes that arrive after a batch finalized.
// Any field may be nil.
type ResolverEvents struct {
	// Added reports an asset that resolved after its batch finalized:
	// one registered late, or one that failed and later loaded.
	Added func(name string, buf *audio.Buffer)
	// Changed reports a new resource for a resolved asset.
	Changed func(name string, buf *audio.Buffer)
	// Removed reports that an asset left the registry.
	Removed func(name string)
}

// Resolver turns a list of asset ids into a SourceMap. Each Resolve call
// starts a new batch: subscriptions of the previous batch are revoked and
// only the newest batch may finalize.
type Resolver struct {
	registry asset.Registry
	events   ResolverEvents
	log      *slog.Logger

	gen   uint64
	batch *batch
	subs  map[asset.ID][]*asset.Subscription
	adds  map[asset.ID]*asset.Subscription
	names map[asset.ID]string
}

type batch struct {
	gen      uint64
	ids      []asset.ID
	pending  int
	present  map[asset.ID]bool
	settled  map[asset.ID]bool
	resolved map[asset.ID]bool
	entries  SourceMap
	done     func(SourceMap, string)
}

func NewResolver(registry asset.Registry, events ResolverEvents, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		registry: registry,
		events:   events,
		log:      logger,
		subs:     make(map[asset.ID][]*asset.Subscription),
		adds:     make(map[asset.ID]*asset.Subscription),
		names:    make(map[asset.ID]string),
	}
}

// Generation is the number of batches started so far.
func (r *Resolver) Generation() uint64 { return r.gen }

// Resolving reports whether a batch is waiting for assets to settle.
func (r *Resolver) Resolving() bool { return r.batch != nil }

// Resolve starts a batch over ids. done is called exactly once with the
// resolved map and the name of the first id, in input order, that loaded;
// an empty ids list completes before Resolve returns. load is asked each
// time an asset is tracked, including ids registered later; when it
// reports false, assets that are not loaded yet are waited for but not
// requested. A nil load never requests.
func (r *Resolver) Resolve(ids []asset.ID, load func() bool, done func(SourceMap, string)) {
	r.Revoke()
	r.gen++
	clear(r.names)

	b := &batch{
		gen:      r.gen,
		ids:      dedupe(ids),
		present:  make(map[asset.ID]bool),
		settled:  make(map[asset.ID]bool),
		resolved: make(map[asset.ID]bool),
		entries:  make(SourceMap),
		done:     done,
	}
	r.batch = b

	var present []asset.Handle
	for _, id := range b.ids {
		h, ok := r.registry.Get(id)
		if !ok {
			r.awaitAdd(b.gen, id, load)
			continue
		}
		present = append(present, h)
		b.present[id] = true
	}

	// Count before subscribing: Ready fires synchronously for loaded assets.
	b.pending = len(present)
	r.log.Debug("resolve started", "generation", b.gen, "ids", len(b.ids), "pending", b.pending)
	if b.pending == 0 {
		r.finalize(b)
		return
	}

	for _, h := range present {
		r.track(b.gen, h, load)
	}
}

// Revoke drops every subscription and abandons the in-flight batch.
func (r *Resolver) Revoke() {
	for id, subs := range r.subs {
		for _, s := range subs {
			s.Unsubscribe()
		}
		delete(r.subs, id)
	}
	for id, s := range r.adds {
		s.Unsubscribe()
		delete(r.adds, id)
	}
	r.batch = nil
}

// Subscriptions counts live subscriptions, per handle and for pending adds.
func (r *Resolver) Subscriptions() int {
	n := 0
	for _, subs := range r.subs {
		for _, s := range subs {
			if s.Active() {
				n++
			}
		}
	}
	for _, s := range r.adds {
		if s.Active() {
			n++
		}
	}
	return n
}

// track subscribes to h for generation gen and requests its load.
func (r *Resolver) track(gen uint64, h asset.Handle, load func() bool) {
	id := h.ID()
	for _, s := range r.subs[id] {
		s.Unsubscribe()
	}

	r.subs[id] = []*asset.Subscription{
		h.On(asset.EventChange, func(e asset.Event) { r.onChange(gen, e) }),
		h.On(asset.EventRemove, func(e asset.Event) { r.onRemove(gen, e) }),
		h.On(asset.EventError, func(e asset.Event) { r.onError(gen, e) }),
	}
	// Appended after the call: a loaded asset runs the callback inside Ready.
	ready := h.Ready(func(h asset.Handle) { r.onReady(gen, h) })
	r.subs[id] = append(r.subs[id], ready)

	if h.Loaded() {
		return
	}
	switch {
	case load != nil && load():
		r.registry.Load(h)
	case h.Err() != nil:
		// Nothing will retry it, settle as a failure.
		r.settle(gen, h, false)
	}
}

// awaitAdd waits for id to be registered. A late asset never joins the
// pending count of its batch.
func (r *Resolver) awaitAdd(gen uint64, id asset.ID, load func() bool) {
	r.adds[id] = r.registry.Once(asset.AddEvent(id), func(h asset.Handle) {
		if gen != r.gen {
			return
		}
		delete(r.adds, id)
		r.log.Debug("late asset registered", "id", id)
		r.track(gen, h, load)
	})
}

func (r *Resolver) batchFor(gen uint64) *batch {
	if r.batch != nil && r.batch.gen == gen {
		return r.batch
	}
	return nil
}

func (r *Resolver) onReady(gen uint64, h asset.Handle) {
	if gen != r.gen {
		return
	}
	r.settle(gen, h, true)
}

func (r *Resolver) onError(gen uint64, e asset.Event) {
	if gen != r.gen {
		return
	}
	r.log.Warn("asset failed to load", "id", e.Asset.ID(), "error", e.Err)
	r.settle(gen, e.Asset, false)
}

// settle records the outcome of h. Outcomes of assets that are not part
// of the pending count, or that already settled, only matter on success.
func (r *Resolver) settle(gen uint64, h asset.Handle, ok bool) {
	id := h.ID()
	b := r.batchFor(gen)

	if b == nil || !b.present[id] || b.settled[id] {
		if ok {
			r.inject(b, h)
		}
		return
	}

	b.settled[id] = true
	if ok {
		b.resolved[id] = true
		b.entries[h.Name()] = h.Resource()
		r.names[id] = h.Name()
	}
	b.pending--
	if b.pending == 0 {
		r.finalize(b)
	}
}

// inject adds h outside the completion flow: into the accumulator while
// its batch is pending, otherwise through the Added event.
func (r *Resolver) inject(b *batch, h asset.Handle) {
	name := h.Name()
	r.names[h.ID()] = name
	if b != nil {
		b.entries[name] = h.Resource()
		return
	}
	if r.events.Added != nil {
		r.events.Added(name, h.Resource())
	}
}

func (r *Resolver) finalize(b *batch) {
	r.batch = nil

	current := ""
	for _, id := range b.ids {
		if b.resolved[id] {
			current = r.names[id]
			break
		}
	}
	r.log.Debug("resolve finished", "generation", b.gen, "sources", len(b.entries), "current", current)
	if b.done != nil {
		b.done(b.entries, current)
	}
}

func (r *Resolver) onChange(gen uint64, e asset.Event) {
	if gen != r.gen || e.Attribute != asset.AttrResource {
		return
	}
	id := e.Asset.ID()
	name, known := r.names[id]
	if !known {
		// Not resolved yet; its Ready delivers the new resource.
		return
	}

	if b := r.batchFor(gen); b != nil {
		b.entries[name] = e.Asset.Resource()
		return
	}
	if r.events.Changed != nil {
		r.events.Changed(name, e.Asset.Resource())
	}
}

func (r *Resolver) onRemove(gen uint64, e asset.Event) {
	if gen != r.gen {
		return
	}
	id := e.Asset.ID()
	for _, s := range r.subs[id] {
		s.Unsubscribe()
	}
	delete(r.subs, id)
	name, known := r.names[id]
	delete(r.names, id)

	if b := r.batchFor(gen); b != nil {
		if known {
			delete(b.entries, name)
			delete(b.resolved, id)
		}
		if b.present[id] && !b.settled[id] {
			// It will never settle now.
			b.settled[id] = true
			b.pending--
			if b.pending == 0 {
				r.finalize(b)
			}
		}
		return
	}
	if known && r.events.Removed != nil {
		r.events.Removed(name)
	}
}

func dedupe(ids []asset.ID) []asset.ID {
	seen := make(map[asset.ID]bool, len(ids))
	out := make([]asset.ID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
