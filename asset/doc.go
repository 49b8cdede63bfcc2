// SPDX-License-Identifier: EPL-2.0

// Package asset holds audio assets and delivers their lifecycle events.
//
// Store is a single-threaded registry: loads run on goroutines but their
// results, and every event they cause, are queued and delivered by Pump or
// Settle on the caller's goroutine. Handlers registered with Handle.On,
// Handle.Ready or Registry.Once return a Subscription that revokes them.
//
//	store := asset.NewStore(asset.FileLoader{FS: os.DirFS("sfx"), Codecs: formats.NewRegistry()})
//	h, _ := store.Add(asset.Spec{ID: "door", File: "door.wav"})
//	h.Ready(func(h asset.Handle) { fmt.Println(h.Resource().Duration()) })
//	store.Load(h)
//	_ = store.Settle(ctx)
package asset
