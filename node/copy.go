// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/google/uuid"
)

// Copy creates a deep copy of n and its descendants.
// The copy has a new ID and no parent.
// Mesh vertex data is shared with n, while lights and
// cameras are duplicated. Behavior and Animation values
// are shared.
func (n *Node) Copy() *Node {
	c := new(Node)
	*c = *n
	c.parent = nil
	c.next = nil
	c.prev = nil
	c.sub = nil
	c.tail = nil
	c.id = uuid.New()
	c.dirty = true
	c.content = copyContent(n.content)
	for x := n.sub; x != nil; x = x.next {
		c.AddChild(x.Copy())
	}
	return c
}

func copyContent(c Content) Content {
	switch c := c.(type) {
	case *Mesh:
		m := *c
		return &m
	case *Light:
		l := *c
		return &l
	case *Camera:
		cam := *c
		return &cam
	default:
		return c
	}
}
