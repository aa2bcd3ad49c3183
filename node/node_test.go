// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logGraph outputs the scene graph whose root is n.
func (n *Node) logGraph(t *testing.T) {
	t.Helper()
	t.Log("\n" + n.Describe())
}

// checkLinks checks that the list of children of n is
// consistent in both directions.
func (n *Node) checkLinks(t *testing.T) {
	t.Helper()
	var prev *Node
	for c := n.sub; c != nil; c = c.next {
		if c.prev != prev {
			t.Fatalf("%v: c.prev\nhave %v\nwant %v", c, c.prev, prev)
		}
		if c.parent != n {
			t.Fatalf("%v: c.parent\nhave %v\nwant %v", c, c.parent, n)
		}
		prev = c
	}
	if n.tail != prev {
		t.Fatalf("%v: n.tail\nhave %v\nwant %v", n, n.tail, prev)
	}
}

// testAddChild calls n.AddChild and checks that it works
// as expected.
func (n *Node) testAddChild(sub *Node, t *testing.T) {
	t.Helper()
	n.AddChild(sub)
	if n.tail != sub {
		t.Fatalf("n.AddChild: n.tail\nhave %v\nwant %v", n.tail, sub)
	}
	if sub.parent != n {
		t.Fatalf("n.AddChild: sub.parent\nhave %v\nwant %v", sub.parent, n)
	}
	if !sub.dirty {
		t.Fatal("n.AddChild: sub.dirty\nhave false\nwant true")
	}
	n.checkLinks(t)
}

// testRemove calls n.Remove and checks that it works
// as expected.
func (n *Node) testRemove(t *testing.T) {
	t.Helper()
	anc := n.parent
	n.Remove()
	if n.next != nil {
		t.Fatalf("n.Remove: n.next\nhave %v\nwant nil", n.next)
	}
	if n.prev != nil {
		t.Fatalf("n.Remove: n.prev\nhave %v\nwant nil", n.prev)
	}
	if n.parent != nil {
		t.Fatalf("n.Remove: n.parent\nhave %v\nwant nil", n.parent)
	}
	if anc != nil {
		anc.checkLinks(t)
	}
}

func named(name string) *Node {
	n := New()
	n.Name = name
	return n
}

func TestNode(t *testing.T) {
	n1 := named("n1")
	n2 := named("n2")
	n3 := named("n3")
	n4 := named("n4")
	n5 := named("n5")

	n1.testAddChild(n2, t)
	n1.testAddChild(n3, t)
	n1.testAddChild(n4, t)
	n3.testAddChild(n5, t)
	n1.logGraph(t)
	assert.Equal(t, []*Node{n2, n3, n4}, n1.Children())
	n3.testRemove(t)
	n2.testRemove(t)
	n1.testRemove(t)
	n5.testRemove(t)
	n4.testRemove(t)
	assert.False(t, n1.HasChildren())
	assert.False(t, n3.HasChildren())

	n5.testAddChild(n4, t)
	n4.testAddChild(n3, t)
	n3.testAddChild(n2, t)
	n2.testAddChild(n1, t)
	n5.logGraph(t)
	assert.Same(t, n5, n1.RootAncestor())
	assert.True(t, n1.IsDescendantOf(n5))
	assert.False(t, n5.IsDescendantOf(n1))
	assert.False(t, n1.IsDescendantOf(n1))
	n3.testRemove(t)
	assert.Same(t, n3, n1.RootAncestor())
	assert.Nil(t, n4.sub)

	// Reparenting.
	n5.testAddChild(n2, t)
	assert.Nil(t, n3.sub)
	assert.Equal(t, []*Node{n4, n2}, n5.Children())
}

func TestAddChildNoop(t *testing.T) {
	a := named("a")
	b := named("b")
	c := named("c")
	a.AddChild(b)
	b.AddChild(c)
	b.dirty = false

	a.AddChild(a)
	assert.Nil(t, a.parent, "self")
	a.AddChild(b)
	assert.Equal(t, []*Node{b}, a.Children(), "existing child")
	assert.False(t, b.dirty, "existing child is left alone")
	c.AddChild(a)
	assert.Nil(t, a.parent, "ancestor")
	assert.Equal(t, []*Node(nil), c.Children())
	a.AddChild(nil)
	a.checkLinks(t)
	b.checkLinks(t)

	x := named("x")
	a.RemoveChild(x)
	a.RemoveChild(c)
	a.RemoveChild(nil)
	assert.Equal(t, []*Node{b}, a.Children(), "non-children")
}

func TestAutoremove(t *testing.T) {
	root := named("root")
	grp := named("grp")
	only := named("only")
	root.AddChild(grp)
	grp.AddChild(only)
	grp.SetAutoremove(true)

	grp.RemoveChild(only)
	assert.Nil(t, grp.Parent())
	assert.False(t, root.HasChildren())

	// Chained.
	root.AddChild(grp)
	outer := named("outer")
	outer.SetAutoremove(true)
	root.AddChild(outer)
	outer.AddChild(grp)
	grp.AddChild(only)
	grp.AddChild(named("other"))
	grp.RemoveAllChildren()
	assert.Nil(t, grp.Parent())
	assert.Nil(t, outer.Parent())
	assert.False(t, root.HasChildren())

	// Without the flag.
	root.AddChild(grp)
	grp.SetAutoremove(false)
	grp.AddChild(only)
	only.Remove()
	assert.Same(t, root, grp.Parent())

	// Reparenting the last child empties the old parent.
	grp.SetAutoremove(true)
	grp.AddChild(only)
	root.AddChild(only)
	assert.Nil(t, grp.Parent())
	assert.Equal(t, []*Node{only}, root.Children())
}

func TestTraversal(t *testing.T) {
	//      r
	//    / | \
	//   a  b  c
	//  / \     \
	// d   e     f
	r := named("r")
	var m = map[string]*Node{}
	for _, s := range []string{"a", "b", "c", "d", "e", "f"} {
		m[s] = named(s)
	}
	r.AddChild(m["a"])
	r.AddChild(m["b"])
	r.AddChild(m["c"])
	m["a"].AddChild(m["d"])
	m["a"].AddChild(m["e"])
	m["c"].AddChild(m["f"])

	var bfs string
	r.ForEach(func(n *Node) { bfs += n.Name })
	assert.Equal(t, "abcdef", bfs)

	var dfs string
	for _, n := range r.Flatten() {
		dfs += n.Name
	}
	assert.Equal(t, "radebcf", dfs)

	var cnt int
	r.Until(func(n *Node) bool {
		cnt++
		return n.Name != "c"
	})
	assert.Equal(t, 3, cnt)

	assert.Same(t, m["e"], r.NodeNamed("e"))
	assert.Same(t, r, r.NodeNamed("r"))
	assert.Nil(t, r.NodeNamed("z"))
	assert.Nil(t, m["b"].NodeNamed("a"))
	require.Contains(t, r.Describe(), "    f(")
}
