// SPDX-License-Identifier: EPL-2.0

package component

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ik5/audsrc/asset"
	"github.com/ik5/audsrc/audio"
	"github.com/ik5/audsrc/internal/channeltest"
	"github.com/ik5/audsrc/scene"
)

var errDecode = errors.New("decode failed")

// testLoader fails files containing "broken" or marked failing, and
// blocks held files until they are released. Every successful load
// returns a fresh buffer whose length counts the loads of that file.
type testLoader struct {
	mu      sync.Mutex
	held    map[string]chan struct{}
	failing map[string]bool
	loads   map[string]int
}

func newTestLoader() *testLoader {
	return &testLoader{
		held:    make(map[string]chan struct{}),
		failing: make(map[string]bool),
		loads:   make(map[string]int),
	}
}

func (l *testLoader) setFailing(file string, failing bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failing[file] = failing
}

func (l *testLoader) hold(file string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held[file] = make(chan struct{})
}

func (l *testLoader) release(file string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ch, ok := l.held[file]; ok {
		close(ch)
		delete(l.held, file)
	}
}

func (l *testLoader) Load(ctx context.Context, file string) (*audio.Buffer, error) {
	l.mu.Lock()
	ch := l.held[file]
	l.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if strings.Contains(file, "broken") || l.failing[file] {
		return nil, errDecode
	}
	l.loads[file]++
	n := l.loads[file]
	return &audio.Buffer{SampleRate: 8000, Channels: 1, Samples: make([]float32, n)}, nil
}

type fixture struct {
	t       *testing.T
	loader  *testLoader
	store   *asset.Store
	backend *channeltest.Backend
	system  *System
	node    *scene.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loader := newTestLoader()
	store := asset.NewStore(loader)
	t.Cleanup(func() { _ = store.Close() })
	backend := &channeltest.Backend{}

	return &fixture{
		t:       t,
		loader:  loader,
		store:   store,
		backend: backend,
		system:  NewSystem(store, backend, nil),
		node:    scene.NewNode("speaker", scene.Vec3{X: 1, Y: 2, Z: 3}),
	}
}

// add registers assets named after their ids. Ids containing "broken"
// fail to load.
func (f *fixture) add(ids ...asset.ID) {
	f.t.Helper()
	for _, id := range ids {
		_, err := f.store.Add(asset.Spec{ID: id, Name: string(id), File: string(id) + ".wav"})
		require.NoError(f.t, err)
	}
}

func (f *fixture) handle(id asset.ID) asset.Handle {
	f.t.Helper()
	h, ok := f.store.Get(id)
	require.True(f.t, ok, "asset %s", id)
	return h
}

// preload loads ids and waits for them.
func (f *fixture) preload(ids ...asset.ID) {
	f.t.Helper()
	for _, id := range ids {
		f.store.Load(f.handle(id))
	}
	f.settle()
}

func (f *fixture) settle() {
	f.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(f.t, f.store.Settle(ctx))
}

// pumpUntil pumps the store until cond holds.
func (f *fixture) pumpUntil(cond func() bool) {
	f.t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		f.store.Pump()
		if cond() {
			return
		}
		select {
		case <-f.store.Notify():
		case <-time.After(10 * time.Millisecond):
		}
	}
	f.t.Fatal("condition not met before deadline")
}

// playing creates an initialized system with one source playing "a".
func (f *fixture) playing(p Params) (*AudioSource, *channeltest.Channel) {
	f.t.Helper()
	f.add("a", "b")
	f.preload("a", "b")
	f.system.Initialize()
	src := f.system.Add(f.node, p, "a", "b")
	if src.Channel() == nil {
		src.Play("a")
	}
	ch := f.backend.Last()
	require.NotNil(f.t, ch)
	return src, ch
}

type doneRecorder struct {
	calls   int
	sources SourceMap
	current string
}

func (d *doneRecorder) done(m SourceMap, current string) {
	d.calls++
	d.sources = m
	d.current = current
}
