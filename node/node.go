// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package node provides the elements of the scene graph.
//
// A Node has a local transform (location, rotation and
// scale relative to its parent) from which its world
// transform is derived. World transforms are rebuilt
// lazily, top-down, by calling Rebuild on the root of
// the graph (usually through a Scene).
package node

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/rotation"
)

// Node represents a single node in a scene graph.
// Nodes have at most one immediate ancestor and
// an arbitrary number of immediate descendants.
type Node struct {
	// Immediate ancestor. It does not own n.
	parent *Node
	// Siblings.
	next *Node
	prev *Node
	// First and last immediate descendants.
	sub  *Node
	tail *Node

	id uuid.UUID

	location linear.V3
	scale    linear.V3
	rot      rotation.State

	world    linear.M4
	worldInv linear.M4
	dirty    bool
	invDirty bool

	visible    bool
	autoremove bool

	content  Content
	behavior Behavior
	anim     Animation
	animOff  bool

	// Name for the node.
	// It is not used by node code other than NodeNamed.
	Name string
}

// New creates an initialized node.
func New() *Node { return new(Node).Init() }

// Init initializes node n.
// n must not be part of a graph.
func (n *Node) Init() *Node {
	*n = Node{
		id:       uuid.New(),
		scale:    linear.One3,
		rot:      rotation.New(),
		world:    linear.I4(),
		worldInv: linear.I4(),
		dirty:    true,
		visible:  true,
	}
	return n
}

// ID returns the node's unique identifier.
func (n *Node) ID() uuid.UUID { return n.id }

// Visible returns whether the node should be drawn.
func (n *Node) Visible() bool { return n.visible }

// SetVisible sets whether the node should be drawn.
// It does not affect descendants.
func (n *Node) SetVisible(v bool) { n.visible = v }

// Autoremove returns whether n removes itself from its
// parent when its last child is removed.
func (n *Node) Autoremove() bool { return n.autoremove }

// SetAutoremove sets whether n removes itself from its
// parent when its last child is removed.
func (n *Node) SetAutoremove(v bool) { n.autoremove = v }

// Parent returns the immediate ancestor of n, or nil if
// n has none.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the immediate descendants of n in the
// order they were added.
func (n *Node) Children() []*Node {
	var s []*Node
	for c := n.sub; c != nil; c = c.next {
		s = append(s, c)
	}
	return s
}

// HasChildren returns whether n has immediate descendants.
func (n *Node) HasChildren() bool { return n.sub != nil }

// RootAncestor returns the topmost ancestor of n.
// It returns n itself if n has no parent.
func (n *Node) RootAncestor() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// IsDescendantOf returns whether anc is an ancestor of n.
// A node is not a descendant of itself.
func (n *Node) IsDescendantOf(anc *Node) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p == anc {
			return true
		}
	}
	return false
}

// AddChild inserts sub as the last immediate descendant
// of n, removing it from its current parent first.
// It does nothing if sub is nil, is n, is already a child
// of n or is an ancestor of n.
// sub's transform is marked dirty, since it is now
// relative to n.
func (n *Node) AddChild(sub *Node) {
	if sub == nil || sub == n || sub.parent == n || n.IsDescendantOf(sub) {
		return
	}
	sub.Remove()
	sub.parent = n
	sub.prev = n.tail
	if n.tail != nil {
		n.tail.next = sub
	} else {
		n.sub = sub
	}
	n.tail = sub
	sub.dirty = true
}

// AddAndLocalizeChild is like AddChild, but it first sets
// sub's location, rotation and scale such that its world
// transform does not change.
// World transforms of both n and sub are computed from
// their current ancestry, so neither needs to have been
// rebuilt beforehand.
// Shear that cannot be expressed by a local transform
// (e.g., non-uniform scale of n combined with rotation of
// sub) is discarded.
func (n *Node) AddAndLocalizeChild(sub *Node) {
	if sub == nil || sub == n || sub.parent == n || n.IsDescendantOf(sub) {
		return
	}
	pw := n.freshWorld()
	w := sub.freshWorld()
	sub.localize(&pw, &w)
	n.AddChild(sub)
}

// unlink removes sub, which must be an immediate
// descendant of n, from n's list of children.
func (n *Node) unlink(sub *Node) {
	if sub.prev != nil {
		sub.prev.next = sub.next
	} else {
		n.sub = sub.next
	}
	if sub.next != nil {
		sub.next.prev = sub.prev
	} else {
		n.tail = sub.prev
	}
	sub.parent = nil
	sub.prev = nil
	sub.next = nil
	sub.dirty = true
}

// RemoveChild removes sub from n's immediate descendants.
// It does nothing if sub is not a child of n.
// If n is set to autoremove and sub was its last child,
// n is removed from its own parent.
func (n *Node) RemoveChild(sub *Node) {
	if sub == nil || sub.parent != n {
		return
	}
	n.unlink(sub)
	n.checkAutoremove()
}

// RemoveAllChildren removes every immediate descendant
// of n.
// If n is set to autoremove and had children, n is
// removed from its own parent.
func (n *Node) RemoveAllChildren() {
	if n.sub == nil {
		return
	}
	for n.sub != nil {
		n.unlink(n.sub)
	}
	n.checkAutoremove()
}

func (n *Node) checkAutoremove() {
	if n.autoremove && n.sub == nil {
		n.Remove()
	}
}

// Remove removes node n from its immediate ancestor.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ForEach calls f for each descendant of node n.
// Ancestors are processed first.
// The scene graph must not be changed until this
// method returns.
func (n *Node) ForEach(f func(*Node)) {
	if n.sub == nil {
		return
	}
	que := []*Node{n.sub}
	for len(que) > 0 {
		for nd := que[0]; nd != nil; nd = nd.next {
			f(nd)
			if sub := nd.sub; sub != nil {
				que = append(que, sub)
			}
		}
		que = que[1:]
	}
}

// Until calls f for each descendant of node n.
// Ancestors are processed first. If f returns false,
// Until returns immediately.
// The scene graph must not be changed until this
// method returns.
func (n *Node) Until(f func(*Node) bool) {
	if n.sub == nil {
		return
	}
	que := []*Node{n.sub}
	for len(que) > 0 {
		for nd := que[0]; nd != nil; nd = nd.next {
			if !f(nd) {
				return
			}
			if sub := nd.sub; sub != nil {
				que = append(que, sub)
			}
		}
		que = que[1:]
	}
}

// Flatten returns n and all of its descendants, in
// depth-first order (each node precedes its children,
// which precede its next sibling).
func (n *Node) Flatten() []*Node {
	s := []*Node{n}
	for c := n.sub; c != nil; c = c.next {
		s = append(s, c.Flatten()...)
	}
	return s
}

// NodeNamed returns the first node named name among n
// and its descendants, or nil if there is none.
// n is checked first, then descendants as in ForEach.
func (n *Node) NodeNamed(name string) (nd *Node) {
	if n.Name == name {
		return n
	}
	n.Until(func(x *Node) bool {
		if x.Name == name {
			nd = x
			return false
		}
		return true
	})
	return
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	name := n.Name
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("%s(%s)", name, n.id.String()[:8])
}

// Describe returns a multi-line description of the
// graph rooted at n, one node per line.
func (n *Node) Describe() string {
	var b strings.Builder
	n.describe(&b, 0)
	return b.String()
}

func (n *Node) describe(b *strings.Builder, depth int) {
	fmt.Fprintf(b, "%s%v", strings.Repeat("  ", depth), n)
	switch c := n.content.(type) {
	case *Mesh:
		fmt.Fprintf(b, " mesh(%d vertices)", c.vertexCount())
	case *Light:
		fmt.Fprintf(b, " light(%v)", c.Type)
	case *Camera:
		fmt.Fprintf(b, " camera(%v)", c.Projection)
	}
	if !n.visible {
		b.WriteString(" hidden")
	}
	b.WriteByte('\n')
	for c := n.sub; c != nil; c = c.next {
		c.describe(b, depth+1)
	}
}
