// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reloads assets when their files under root change on disk and
// removes them when the file is deleted. Work is posted to the store, so
// it happens on the next Pump.
type Watcher struct {
	store   *Store
	root    string
	watcher *fsnotify.Watcher
	log     *slog.Logger

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches root and every directory holding a registered asset.
// Call it from the goroutine that pumps store.
func NewWatcher(store *Store, root string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := map[string]struct{}{root: {}}
	for _, h := range store.Assets() {
		dirs[filepath.Join(root, filepath.FromSlash(path.Dir(h.File())))] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		store:   store,
		root:    root,
		watcher: fw,
		log:     logger.With("component", "asset.watcher"),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

// run posts a file once no event has arrived for it within watchDebounce,
// so a write in several chunks reloads the final content.
func (w *Watcher) run() {
	defer close(w.done)

	due := make(map[string]time.Time)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil {
				continue
			}
			due[filepath.ToSlash(rel)] = time.Now().Add(watchDebounce)
			timer.Reset(time.Until(earliest(due)))
		case now := <-timer.C:
			for rel, at := range due {
				if at.After(now) {
					continue
				}
				delete(due, rel)
				if err := w.store.Post(func() { w.apply(rel) }); err != nil {
					return
				}
			}
			if len(due) > 0 {
				timer.Reset(time.Until(earliest(due)))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		case <-w.closeCh:
			return
		}
	}
}

func earliest(due map[string]time.Time) time.Time {
	var first time.Time
	for _, at := range due {
		if first.IsZero() || at.Before(first) {
			first = at
		}
	}
	return first
}

// apply runs on the pumping goroutine.
func (w *Watcher) apply(file string) {
	ids := w.store.byFile(file)
	if len(ids) == 0 {
		return
	}

	_, statErr := os.Stat(filepath.Join(w.root, filepath.FromSlash(file)))
	for _, id := range ids {
		var err error
		if statErr != nil {
			w.log.Info("asset file gone", "id", id, "file", file)
			err = w.store.Remove(id)
		} else {
			w.log.Info("asset file changed", "id", id, "file", file)
			err = w.store.Reload(id)
		}
		if err != nil {
			w.log.Debug("watch apply failed", "id", id, "error", err)
		}
	}
}
