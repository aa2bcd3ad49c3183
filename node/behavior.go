// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/gviegas/scenegraph/linear"
)

// Visitor is what a Behavior receives during an update
// pass.
type Visitor interface {
	// DeltaTime returns the time elapsed since the
	// previous update, in seconds.
	DeltaTime() float32

	// RequestRemoval schedules n to be removed from its
	// parent once the current pass completes.
	RequestRemoval(n *Node)
}

// Behavior is the interface that defines per-node hooks
// called by an update pass.
// UpdateBefore is called before the node's transform is
// rebuilt and UpdateAfter after all of its descendants
// were updated.
// Hooks must not change the graph directly; use
// Visitor.RequestRemoval instead.
type Behavior interface {
	UpdateBefore(n *Node, v Visitor)
	UpdateAfter(n *Node, v Visitor)
}

// BehaviorFuncs is a Behavior made of functions.
// Nil functions are skipped.
type BehaviorFuncs struct {
	Before func(*Node, Visitor)
	After  func(*Node, Visitor)
}

// UpdateBefore implements Behavior.
func (b BehaviorFuncs) UpdateBefore(n *Node, v Visitor) {
	if b.Before != nil {
		b.Before(n, v)
	}
}

// UpdateAfter implements Behavior.
func (b BehaviorFuncs) UpdateAfter(n *Node, v Visitor) {
	if b.After != nil {
		b.After(n, v)
	}
}

// Behavior returns the behavior of n, if any.
func (n *Node) Behavior() Behavior { return n.behavior }

// SetBehavior sets the behavior of n.
func (n *Node) SetBehavior(b Behavior) { n.behavior = b }

// FrameMask indicates which properties of a Frame are
// set.
type FrameMask int

// Frame mask flags.
const (
	FLocation FrameMask = 1 << iota
	FRotation
	FScale
)

// Frame is the state of a node at a point of an
// animation.
type Frame struct {
	Mask     FrameMask
	Location linear.V3
	Rotation linear.Q
	Scale    linear.V3
}

// Animation is the interface that provides animation
// frames for a node.
// How frames are interpolated is up to the
// implementation.
type Animation interface {
	// Frame returns the frame at time t, where t is in
	// [0, 1] and spans the whole animation.
	Frame(t float32) Frame
}

// FrameFunc is an Animation made of a function.
type FrameFunc func(t float32) Frame

// Frame implements Animation.
func (f FrameFunc) Frame(t float32) Frame { return f(t) }

// Animation returns the animation of n, if any.
func (n *Node) Animation() Animation { return n.anim }

// SetAnimation sets the animation of n.
// It does not change whether animation is enabled.
func (n *Node) SetAnimation(a Animation) { n.anim = a }

// ContainsAnimation returns whether n or any of its
// descendants has an Animation.
func (n *Node) ContainsAnimation() bool {
	has := n.anim != nil
	if !has {
		n.Until(func(x *Node) bool {
			has = x.anim != nil
			return !has
		})
	}
	return has
}

// IsAnimationEnabled returns whether EstablishAnimationFrame
// applies n's animation. It is enabled by default.
func (n *Node) IsAnimationEnabled() bool { return !n.animOff }

// EnableAnimation enables animation of n alone.
func (n *Node) EnableAnimation() { n.animOff = false }

// DisableAnimation disables animation of n alone.
func (n *Node) DisableAnimation() { n.animOff = true }

// EnableAllAnimation enables animation of n and all of
// its descendants.
func (n *Node) EnableAllAnimation() {
	n.animOff = false
	n.ForEach(func(x *Node) { x.animOff = false })
}

// DisableAllAnimation disables animation of n and all of
// its descendants.
func (n *Node) DisableAllAnimation() {
	n.animOff = true
	n.ForEach(func(x *Node) { x.animOff = true })
}

// EstablishAnimationFrame sets the properties of n and
// its descendants from their animations at time t.
// t is clamped to [0, 1].
// Nodes without an animation, or whose animation is
// disabled, are left unchanged.
func (n *Node) EstablishAnimationFrame(t float32) {
	t = max(0, min(t, 1))
	n.establishFrame(t)
	n.ForEach(func(x *Node) { x.establishFrame(t) })
}

func (n *Node) establishFrame(t float32) {
	if n.anim == nil || n.animOff {
		return
	}
	f := n.anim.Frame(t)
	if f.Mask&FLocation != 0 {
		n.SetLocation(f.Location)
	}
	if f.Mask&FRotation != 0 {
		n.SetQuaternion(f.Rotation)
	}
	if f.Mask&FScale != 0 {
		n.SetScale(f.Scale)
	}
}
