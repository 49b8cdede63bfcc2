// SPDX-License-Identifier: EPL-2.0

package scene

import (
	"math"
	"testing"
)

func TestVec3(t *testing.T) {
	t.Parallel()

	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 3}

	if got := a.Add(b); got != (Vec3{5, 8, 6}) {
		t.Errorf("Add() = %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 4, 0}) {
		t.Errorf("Sub() = %v", got)
	}
	if got := a.Dist(b); math.Abs(got-5) > 1e-12 {
		t.Errorf("Dist() = %v, want 5", got)
	}
	if got := (Vec3{}).Len(); got != 0 {
		t.Errorf("zero Len() = %v", got)
	}
}

func TestNode_Watch(t *testing.T) {
	t.Parallel()

	n := NewNode("door", Vec3{X: 1})
	if !n.Enabled() {
		t.Fatal("new node must be enabled")
	}

	var got []bool
	cancel := n.Watch(func(enabled bool) { got = append(got, enabled) })
	var order []int
	n.Watch(func(bool) { order = append(order, 1) })
	n.Watch(func(bool) { order = append(order, 2) })

	n.SetEnabled(true) // unchanged
	n.SetEnabled(false)
	n.SetEnabled(true)
	cancel()
	n.SetEnabled(false)

	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("transitions = %v, want [false true]", got)
	}
	if len(order) != 6 || order[0] != 1 || order[1] != 2 {
		t.Errorf("watchers ran as %v, want registration order", order)
	}

	n.Translate(Vec3{Y: 2})
	if n.Position() != (Vec3{X: 1, Y: 2}) {
		t.Errorf("Position() = %v", n.Position())
	}
}
