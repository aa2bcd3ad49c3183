// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"github.com/gviegas/scenegraph/node"
	"github.com/gviegas/scenegraph/vertex"
)

// Renderer is the interface that draws nodes.
type Renderer interface {
	// DrawNode is called once per visible node in a draw
	// pass, parents before children.
	DrawNode(n *node.Node, dc *DrawContext)
}

// RendererFunc is a Renderer made of a function.
type RendererFunc func(n *node.Node, dc *DrawContext)

// DrawNode implements Renderer.
func (f RendererFunc) DrawNode(n *node.Node, dc *DrawContext) { f(n, dc) }

// DrawContext holds state of the current draw pass.
// It is reset by Scene.ResetDrawState.
type DrawContext struct {
	scene *Scene
	frame int64
	last  *vertex.Store
	binds int
	nodes int
}

// Bind records data as the vertex data being drawn.
// It returns whether data differs from the previous data
// bound in this pass, in which case the renderer must
// bind it anew.
func (c *DrawContext) Bind(data *vertex.Store) (changed bool) {
	if data == c.last {
		return false
	}
	c.last = data
	c.binds++
	return true
}

// Frame returns the number of draw passes started by the
// scene, including the current one.
func (c *DrawContext) Frame() int64 { return c.frame }

// Binds returns how many times Bind reported a change in
// the current pass.
func (c *DrawContext) Binds() int { return c.binds }

// Nodes returns how many nodes were handed to the
// renderer in the current pass.
func (c *DrawContext) Nodes() int { return c.nodes }

// RequestRemoval calls Scene.RequestRemoval.
func (c *DrawContext) RequestRemoval(n *node.Node) { c.scene.RequestRemoval(n) }

func (c *DrawContext) reset() {
	c.frame++
	c.last = nil
	c.binds = 0
	c.nodes = 0
}

// ResetDrawState resets the scene's DrawContext.
// It is called by Draw before any node is drawn.
func (s *Scene) ResetDrawState() { s.draw.reset() }

// DrawContext returns the scene's DrawContext.
func (s *Scene) DrawContext() *DrawContext { return &s.draw }

// Draw runs a draw pass over the graph.
// Visible nodes are handed to r depth-first, parents
// before children. Invisible nodes are skipped along with
// their descendants.
// World transforms are used as of the last Update.
// Removals requested during the pass are applied when it
// completes.
func (s *Scene) Draw(r Renderer) {
	s.ResetDrawState()
	s.passing = true
	s.drawNode(s.root, r)
	s.passing = false
	s.drainRemoval()
}

func (s *Scene) drawNode(n *node.Node, r Renderer) {
	if !n.Visible() {
		return
	}
	s.draw.nodes++
	r.DrawNode(n, &s.draw)
	for _, c := range n.Children() {
		s.drawNode(c, r)
	}
}
