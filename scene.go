// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scenegraph provides functionality for creating,
// updating and drawing scene graphs.
//
// A Scene owns a root node.Node and drives it through
// update passes, which run node behaviors and rebuild
// world transforms top-down, and draw passes, which hand
// visible nodes to a Renderer. Mesh vertex data is
// buffered into GPU memory provided by the driver named
// in the scene's Config.
package scenegraph

import (
	"github.com/pkg/errors"

	"github.com/gviegas/scenegraph/internal/ctxt"
	"github.com/gviegas/scenegraph/internal/logx"
	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/loader"
	"github.com/gviegas/scenegraph/node"
	"github.com/gviegas/scenegraph/vertex"
)

const prefix = "scenegraph: "

// Scene defines a scene graph.
type Scene struct {
	root  *node.Node
	cfg   Config
	alloc vertex.Allocator
	arena *vertex.Arena

	retain []vertex.Kind
	skip   []vertex.Kind

	dt      float32
	passing bool
	removal []*node.Node

	draw DrawContext
}

// New creates a new scene configured by cfg.
// A nil cfg means DefaultConfig.
// It loads the driver named by cfg.Driver if no such
// driver is loaded yet.
// cfg.ArenaSize must not exceed the driver's MaxBuffer
// limit.
func New(cfg *Config) (*Scene, error) {
	c := DefaultConfig()
	if cfg != nil {
		c = cfg.Clone()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := ctxt.Load(c.Driver); err != nil {
		return nil, errors.Wrap(err, prefix+"new scene")
	}
	if lim := ctxt.Limits().MaxBuffer; c.ArenaSize > lim {
		return nil, errors.Errorf(prefix+"arena size %d exceeds the driver's buffer limit %d", c.ArenaSize, lim)
	}
	s := &Scene{cfg: c}
	s.retain, _ = parseKinds(c.Retain)
	s.skip, _ = parseKinds(c.SkipBuffering)
	gpu := ctxt.GPU()
	if c.ArenaSize > 0 {
		a, err := vertex.NewArena(gpu, c.ArenaSize)
		if err != nil {
			return nil, errors.Wrap(err, prefix+"new scene")
		}
		s.arena = a
		s.alloc = a
	} else {
		s.alloc = vertex.Dedicated{GPU: gpu}
	}
	s.root = node.New()
	s.root.Name = "root"
	s.draw.scene = s
	logx.L().Debug("scene created", "driver", ctxt.Driver().Name(), "arena", c.ArenaSize)
	return s, nil
}

// Root returns the root node of s.
func (s *Scene) Root() *node.Node { return s.root }

// Config returns the configuration of s.
func (s *Scene) Config() Config { return s.cfg.Clone() }

// Allocator returns the allocator used to buffer mesh
// data.
func (s *Scene) Allocator() vertex.Allocator { return s.alloc }

// DeltaTime returns the time passed to the current (or
// last) call to Update.
// It implements node.Visitor.
func (s *Scene) DeltaTime() float32 { return s.dt }

// RequestRemoval removes n from its parent.
// During an update or draw pass, the removal is deferred
// until the pass completes. Outside of a pass, it happens
// immediately.
// It implements node.Visitor.
func (s *Scene) RequestRemoval(n *node.Node) {
	if n == nil {
		return
	}
	if !s.passing {
		n.Remove()
		return
	}
	s.removal = append(s.removal, n)
}

func (s *Scene) drainRemoval() {
	if len(s.removal) == 0 {
		return
	}
	for i, n := range s.removal {
		n.Remove()
		s.removal[i] = nil
	}
	logx.L().Debug("deferred removals applied", "count", len(s.removal))
	s.removal = s.removal[:0]
}

// Update runs an update pass over the graph.
// Every node is visited depth-first, and for each node:
// its behavior's UpdateBefore is called, its transform is
// rebuilt if needed, its children are updated and then
// its behavior's UpdateAfter is called.
// Removals requested during the pass are applied when it
// completes.
func (s *Scene) Update(dt float32) {
	s.dt = dt
	s.passing = true
	i := linear.I4()
	s.update(s.root, &i, false)
	s.passing = false
	s.drainRemoval()
}

func (s *Scene) update(n *node.Node, parentWorld *linear.M4, parentDirty bool) {
	b := n.Behavior()
	if b != nil {
		b.UpdateBefore(n, s)
	}
	dirty := n.UpdateTransform(parentWorld, parentDirty)
	w := n.World()
	for _, c := range n.Children() {
		s.update(c, &w, dirty)
	}
	if b != nil {
		b.UpdateAfter(n, s)
	}
}

// Load reads the default scene of the glTF file at path
// and adds it to the root of s.
// It returns the root of the loaded subgraph.
// Vertex data of the new meshes is not buffered until
// CreateGPUBuffers is called.
func (s *Scene) Load(path string) (*node.Node, error) {
	n, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	s.root.AddChild(n)
	logx.L().Info("scene loaded", "path", path, "nodes", len(n.Flatten()))
	return n, nil
}

// EstablishAnimationFrame sets every animated node to
// its animation's state at t, in [0, 1].
// The changes take effect in the next Update.
func (s *Scene) EstablishAnimationFrame(t float32) { s.root.EstablishAnimationFrame(t) }

// meshes calls f for every mesh node with vertex data.
// Shared vertex data is visited once per node.
func (s *Scene) meshes(f func(*node.Node, *vertex.Store) error) error {
	for _, n := range s.root.Flatten() {
		if d := n.MeshData(); d != nil {
			if err := f(n, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateGPUBuffers buffers the vertex data of every mesh
// node in the graph.
// Retain and SkipBuffering of the configuration are
// applied to each store first. If ReleaseRedundantData is
// set in the configuration, CPU copies are released
// afterwards.
// Calling it more than once is harmless, so it can be
// called again after adding new meshes.
func (s *Scene) CreateGPUBuffers() error {
	err := s.meshes(func(n *node.Node, d *vertex.Store) error {
		for _, k := range s.retain {
			d.Retain(k)
		}
		for _, k := range s.skip {
			d.SkipBuffering(k)
		}
		if err := d.CreateGPUBuffers(s.alloc); err != nil {
			return errors.Wrapf(err, prefix+"node %v", n)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.cfg.ReleaseRedundantData {
		s.ReleaseRedundantData()
	}
	return nil
}

// DeleteGPUBuffers frees the GPU memory of every mesh
// node in the graph.
func (s *Scene) DeleteGPUBuffers() {
	s.meshes(func(_ *node.Node, d *vertex.Store) error {
		d.DeleteGPUBuffers()
		return nil
	})
}

// ReleaseRedundantData releases CPU copies of vertex data
// that is buffered and not retained, for every mesh node
// in the graph.
func (s *Scene) ReleaseRedundantData() {
	s.meshes(func(_ *node.Node, d *vertex.Store) error {
		d.ReleaseRedundantData()
		return nil
	})
}

// Close deletes GPU buffers of s.
// The scene must not be used afterwards.
func (s *Scene) Close() {
	s.DeleteGPUBuffers()
	if s.arena != nil {
		s.arena.Destroy()
		s.arena = nil
	}
	s.alloc = nil
}
