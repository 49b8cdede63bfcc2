// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"slices"

	"github.com/ik5/audsrc/audio"
)

// ID identifies an asset in a Registry.
type ID string

// EventKind names a lifecycle event fired on a Handle.
type EventKind string

const (
	EventChange EventKind = "change"
	EventRemove EventKind = "remove"
	EventError  EventKind = "error"
	EventLoad   EventKind = "load"
)

// Attribute tells which part of an asset a change event touched.
type Attribute string

const (
	AttrResource Attribute = "resource"
	AttrName     Attribute = "name"
	AttrFile     Attribute = "file"
)

// AddEvent is the registry event fired once when id is registered.
func AddEvent(id ID) string { return "add:" + string(id) }

// Event is delivered to handlers registered with Handle.On.
type Event struct {
	Kind      EventKind
	Asset     Handle
	Attribute Attribute // set for EventChange
	Err       error     // set for EventError
}

// Handle is a registered asset. All methods must be called from the
// goroutine that pumps the owning registry.
type Handle interface {
	ID() ID
	Name() string
	File() string
	// Resource is nil until the first successful load.
	Resource() *audio.Buffer
	Loaded() bool
	// Err is the error of the last failed load, nil after a success.
	Err() error

	// Ready calls fn once the resource is available. An already loaded
	// asset calls fn before Ready returns.
	Ready(fn func(Handle)) *Subscription
	On(kind EventKind, fn func(Event)) *Subscription
}

// Registry is the lookup and loading surface consumers depend on.
type Registry interface {
	Get(id ID) (Handle, bool)
	Load(h Handle)
	// Once registers fn for a single delivery of a registry event such as
	// AddEvent(id).
	Once(event string, fn func(Handle)) *Subscription
}

// Subscription revokes a registered handler. Unsubscribe is idempotent and
// safe on a nil receiver.
type Subscription struct {
	cancel func()
	done   bool
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

func (s *Subscription) Unsubscribe() {
	if s == nil || s.done {
		return
	}
	s.done = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Active reports whether the handler can still be called.
func (s *Subscription) Active() bool {
	return s != nil && !s.done
}

type listener[T any] struct {
	fn      func(T)
	removed bool
	sub     *Subscription
}

type listenerList[T any] struct {
	items []*listener[T]
}

func (l *listenerList[T]) add(fn func(T)) *Subscription {
	ln := &listener[T]{fn: fn}
	l.items = append(l.items, ln)

	ln.sub = newSubscription(func() {
		ln.removed = true
		l.items = slices.DeleteFunc(l.items, func(x *listener[T]) bool { return x == ln })
	})
	return ln.sub
}

// emit calls every listener registered before the call. Handlers removed
// by an earlier handler in the same emit are skipped.
func (l *listenerList[T]) emit(v T) {
	for _, ln := range slices.Clone(l.items) {
		if !ln.removed {
			ln.fn(v)
		}
	}
}

// emitOnce drains the list, then calls each listener. Their
// subscriptions become inactive.
func (l *listenerList[T]) emitOnce(v T) {
	items := l.items
	l.items = nil
	for _, ln := range items {
		if ln.removed {
			continue
		}
		ln.removed = true
		ln.sub.done = true
		ln.fn(v)
	}
}

func (l *listenerList[T]) len() int { return len(l.items) }
