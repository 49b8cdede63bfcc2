// SPDX-License-Identifier: EPL-2.0

// Package scene provides the minimal owning object an audio source
// attaches to: a position and an enabled flag.
package scene

import (
	"math"
	"slices"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dist is the euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// Owner is the object an audio source belongs to.
type Owner interface {
	Position() Vec3
	Enabled() bool
}

// Node is a named Owner that reports enable transitions to watchers.
type Node struct {
	name     string
	position Vec3
	enabled  bool
	nextID   int
	watchers map[int]func(enabled bool)
}

func NewNode(name string, position Vec3) *Node {
	return &Node{
		name:     name,
		position: position,
		enabled:  true,
		watchers: make(map[int]func(bool)),
	}
}

func (n *Node) Name() string         { return n.name }
func (n *Node) Position() Vec3       { return n.position }
func (n *Node) SetPosition(p Vec3)   { n.position = p }
func (n *Node) Translate(delta Vec3) { n.position = n.position.Add(delta) }
func (n *Node) Enabled() bool        { return n.enabled }

// SetEnabled notifies watchers when the flag actually changes.
func (n *Node) SetEnabled(enabled bool) {
	if n.enabled == enabled {
		return
	}
	n.enabled = enabled
	for _, id := range n.watcherIDs() {
		if fn, ok := n.watchers[id]; ok {
			fn(enabled)
		}
	}
}

// Watch registers fn for enable transitions and returns a function that
// removes it.
func (n *Node) Watch(fn func(enabled bool)) (cancel func()) {
	id := n.nextID
	n.nextID++
	n.watchers[id] = fn
	return func() { delete(n.watchers, id) }
}

// watcherIDs returns registration order so notifications are stable.
func (n *Node) watcherIDs() []int {
	ids := make([]int, 0, len(n.watchers))
	for id := range n.watchers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
