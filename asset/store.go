// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/ik5/audsrc/audio"
)

// Spec describes an asset to register.
type Spec struct {
	// ID is generated when empty.
	ID   ID
	Name string
	File string
	// Preload starts loading as soon as the asset is added.
	Preload bool
}

type entry struct {
	store    *Store
	id       ID
	name     string
	file     string
	resource *audio.Buffer
	err      error
	loading  bool
	removed  bool
	version  uint64

	events map[EventKind]*listenerList[Event]
	ready  listenerList[Handle]
}

func (e *entry) ID() ID                  { return e.id }
func (e *entry) Name() string            { return e.name }
func (e *entry) File() string            { return e.file }
func (e *entry) Resource() *audio.Buffer { return e.resource }
func (e *entry) Loaded() bool            { return e.resource != nil }
func (e *entry) Err() error              { return e.err }

func (e *entry) Ready(fn func(Handle)) *Subscription {
	if e.resource != nil {
		fn(e)
		return &Subscription{done: true}
	}
	return e.ready.add(fn)
}

func (e *entry) On(kind EventKind, fn func(Event)) *Subscription {
	l, ok := e.events[kind]
	if !ok {
		l = &listenerList[Event]{}
		e.events[kind] = l
	}
	return l.add(fn)
}

func (e *entry) emit(ev Event) {
	if l, ok := e.events[ev.Kind]; ok {
		l.emit(ev)
	}
}

// Store is the in-memory Registry. Loads run on background goroutines, but
// every callback and event is delivered from Pump or Settle, on the
// goroutine that calls them. Apart from Post and Close, Store methods must
// only be called from that goroutine.
type Store struct {
	loader Loader
	log    *slog.Logger
	sem    *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}

	assets   map[ID]*entry
	order    []ID
	once     map[string]*listenerList[Handle]
	inflight int
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithConcurrency bounds the number of loads running at once.
func WithConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

const defaultConcurrency = 4

func NewStore(loader Loader, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		loader: loader,
		log:    slog.Default(),
		sem:    semaphore.NewWeighted(defaultConcurrency),
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		assets: make(map[ID]*entry),
		once:   make(map[string]*listenerList[Handle]),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "asset.store")
	return s
}

// Add registers spec and fires its AddEvent listeners.
func (s *Store) Add(spec Spec) (Handle, error) {
	if s.isClosed() {
		return nil, ErrStoreClosed
	}
	if spec.ID == "" {
		spec.ID = ID(uuid.NewString())
	}
	if _, ok := s.assets[spec.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAsset, spec.ID)
	}
	if spec.Name == "" {
		spec.Name = path.Base(spec.File)
	}

	e := &entry{
		store:  s,
		id:     spec.ID,
		name:   spec.Name,
		file:   path.Clean(spec.File),
		events: make(map[EventKind]*listenerList[Event]),
	}
	s.assets[e.id] = e
	s.order = append(s.order, e.id)
	s.log.Debug("asset added", "id", e.id, "name", e.name, "file", e.file)

	key := AddEvent(e.id)
	if l, ok := s.once[key]; ok {
		delete(s.once, key)
		l.emitOnce(e)
	}

	if spec.Preload {
		s.Load(e)
	}
	return e, nil
}

// Remove unregisters id and fires EventRemove on its handle. Results of
// loads still in flight are dropped.
func (s *Store) Remove(id ID) error {
	e, ok := s.assets[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	delete(s.assets, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	e.removed = true
	e.loading = false
	e.version++
	s.log.Debug("asset removed", "id", id)

	e.emit(Event{Kind: EventRemove, Asset: e})
	return nil
}

func (s *Store) Get(id ID) (Handle, bool) {
	e, ok := s.assets[id]
	if !ok {
		return nil, false
	}
	return e, true
}

// Assets lists registered handles in insertion order.
func (s *Store) Assets() []Handle {
	out := make([]Handle, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.assets[id])
	}
	return out
}

// Load starts loading h unless it is loaded, loading, or not owned by s.
// A failed asset is retried.
func (s *Store) Load(h Handle) {
	e, ok := h.(*entry)
	if !ok || e.store != s || e.removed || e.loading || e.resource != nil {
		return
	}
	if s.isClosed() {
		s.log.Debug("load after close ignored", "id", e.id)
		return
	}
	s.startLoad(e)
}

// Reload fetches the file of id again. A successful reload of a loaded
// asset fires EventChange with AttrResource.
func (s *Store) Reload(id ID) error {
	e, ok := s.assets[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	if s.isClosed() {
		return ErrStoreClosed
	}
	s.startLoad(e)
	return nil
}

func (s *Store) Rename(id ID, name string) error {
	e, ok := s.assets[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	if e.name == name {
		return nil
	}
	e.name = name
	e.emit(Event{Kind: EventChange, Asset: e, Attribute: AttrName})
	return nil
}

func (s *Store) Once(event string, fn func(Handle)) *Subscription {
	l, ok := s.once[event]
	if !ok {
		l = &listenerList[Handle]{}
		s.once[event] = l
	}
	return l.add(fn)
}

// Post queues fn to run on the pumping goroutine. It is safe to call from
// any goroutine.
func (s *Store) Post(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.queue = append(s.queue, fn)
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Notify is signaled whenever work is posted.
func (s *Store) Notify() <-chan struct{} { return s.wake }

// Pump runs queued callbacks, including ones they queue, and returns how
// many ran.
func (s *Store) Pump() int {
	n := 0
	for {
		s.mu.Lock()
		q := s.queue
		s.queue = nil
		s.mu.Unlock()

		if len(q) == 0 {
			return n
		}
		for _, fn := range q {
			fn()
			n++
		}
	}
}

// Pending is the number of loads whose results have not been pumped yet.
func (s *Store) Pending() int { return s.inflight }

// Settle pumps until no load is pending or ctx is done.
func (s *Store) Settle(ctx context.Context) error {
	for {
		s.Pump()
		if s.inflight == 0 {
			return nil
		}
		select {
		case <-s.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels running loads and waits for their goroutines. Queued
// callbacks are discarded.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.queue = nil
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Store) startLoad(e *entry) {
	e.loading = true
	e.version++
	version := e.version
	file := e.file
	s.inflight++

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		buf, err := s.fetch(file)
		if perr := s.Post(func() { s.finishLoad(e, version, buf, err) }); perr != nil {
			s.log.Debug("load result dropped", "id", e.id, "error", perr)
		}
	}()
}

func (s *Store) fetch(file string) (*audio.Buffer, error) {
	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	buf, err := s.loader.Load(s.ctx, file)
	if err == nil && buf == nil {
		err = audio.ErrEmptyBuffer
	}
	return buf, err
}

func (s *Store) finishLoad(e *entry, version uint64, buf *audio.Buffer, err error) {
	s.inflight--
	if e.removed || e.version != version {
		return
	}
	e.loading = false

	if err != nil {
		e.err = err
		s.log.Warn("asset load failed", "id", e.id, "file", e.file, "error", err)
		e.emit(Event{Kind: EventError, Asset: e, Err: err})
		return
	}

	reloaded := e.resource != nil
	e.resource = buf
	e.err = nil
	s.log.Debug("asset loaded", "id", e.id, "frames", buf.Frames(), "reload", reloaded)

	if reloaded {
		e.emit(Event{Kind: EventChange, Asset: e, Attribute: AttrResource})
	}
	e.emit(Event{Kind: EventLoad, Asset: e})
	e.ready.emitOnce(e)
}

// byFile returns the assets backed by file, in insertion order.
func (s *Store) byFile(file string) []ID {
	file = path.Clean(file)
	var out []ID
	for _, id := range s.order {
		if s.assets[id].file == file {
			out = append(out, id)
		}
	}
	return out
}
