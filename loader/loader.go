// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package loader creates node graphs and vertex data from
// glTF 2.0 documents.
package loader

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/gviegas/scenegraph/internal/logx"
	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/node"
	"github.com/gviegas/scenegraph/vertex"
)

const prefix = "loader: "

// Loader converts the contents of a glTF document.
// Vertex data of a given mesh primitive is loaded once
// and shared by every node that uses it.
type Loader struct {
	doc    *gltf.Document
	stores map[[2]int]*vertex.Store
}

// New creates a Loader for doc.
func New(doc *gltf.Document) *Loader {
	return &Loader{doc: doc, stores: make(map[[2]int]*vertex.Store)}
}

// Load opens the glTF file (.gltf or .glb) at path and
// creates a graph from its default scene (or its first
// scene if no default is set).
func Load(path string) (*node.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, prefix+"open %s", path)
	}
	scene := 0
	if doc.Scene != nil {
		scene = int(*doc.Scene)
	}
	return New(doc).Scene(scene)
}

// Nodes creates a graph from the given scene of doc.
func Nodes(doc *gltf.Document, scene int) (*node.Node, error) { return New(doc).Scene(scene) }

// MeshStore creates vertex data from a primitive of a
// mesh of doc.
func MeshStore(doc *gltf.Document, mesh, prim int) (*vertex.Store, error) {
	return New(doc).MeshStore(mesh, prim)
}

// Scene creates a graph from the given scene.
// The root of the graph is a group node named after the
// scene whose children are the scene's root nodes.
func (l *Loader) Scene(i int) (*node.Node, error) {
	if i < 0 || i >= len(l.doc.Scenes) {
		return nil, errors.Errorf(prefix+"scene %d out of range", i)
	}
	s := l.doc.Scenes[i]
	root := node.New()
	root.Name = s.Name
	for _, j := range s.Nodes {
		n, err := l.Node(int(j))
		if err != nil {
			return nil, err
		}
		root.AddChild(n)
	}
	logx.L().Debug("glTF scene loaded", "scene", i, "nodes", len(root.Flatten()))
	return root, nil
}

// Node creates a graph from the given node and its
// descendants.
// A glTF node whose mesh has more than one primitive
// becomes a group with one mesh node per primitive.
func (l *Loader) Node(i int) (*node.Node, error) {
	return l.node(i, 0)
}

// Node hierarchies in valid documents are trees, so depth
// is bounded by the number of nodes.
func (l *Loader) node(i, depth int) (*node.Node, error) {
	if i < 0 || i >= len(l.doc.Nodes) {
		return nil, errors.Errorf(prefix+"node %d out of range", i)
	}
	if depth > len(l.doc.Nodes) {
		return nil, errors.Errorf(prefix+"node %d: cycle in node hierarchy", i)
	}
	gn := l.doc.Nodes[i]
	n := node.New()
	n.Name = gn.Name
	setTransform(n, gn)

	if gn.Mesh != nil {
		mi := int(*gn.Mesh)
		if mi >= len(l.doc.Meshes) {
			return nil, errors.Errorf(prefix+"node %d: mesh %d out of range", i, mi)
		}
		prims := l.doc.Meshes[mi].Primitives
		for pi, p := range prims {
			d, err := l.MeshStore(mi, pi)
			if err != nil {
				return nil, errors.Wrapf(err, prefix+"node %d", i)
			}
			m := node.NewMesh(d)
			if p.Material != nil && int(*p.Material) < len(l.doc.Materials) && l.doc.Materials[*p.Material].DoubleSided {
				m.CullBack = false
			}
			if len(prims) == 1 {
				n.SetContent(m)
				break
			}
			sub := node.New()
			sub.Name = fmt.Sprintf("%s#%d", gn.Name, pi)
			sub.SetContent(m)
			n.AddChild(sub)
		}
	}

	if gn.Camera != nil {
		c, err := l.camera(int(*gn.Camera))
		if err != nil {
			return nil, errors.Wrapf(err, prefix+"node %d", i)
		}
		if n.HasLocalContent() || n.HasChildren() {
			sub := node.New()
			sub.Name = gn.Name + "#camera"
			sub.SetContent(c)
			n.AddChild(sub)
		} else {
			n.SetContent(c)
		}
	}

	for _, j := range gn.Children {
		c, err := l.node(int(j), depth+1)
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}
	return n, nil
}

// setTransform sets the local transform of n from gn.
// Zero scale and rotation values are the defaults of
// nodes created in code rather than decoded, and are
// taken as identity.
func setTransform(n *node.Node, gn *gltf.Node) {
	m := linear.M4(gn.Matrix)
	if m != (linear.M4{}) && m != linear.I4() {
		n.SetWorldMatrix(m)
		return
	}
	n.SetLocation(gn.Translation)
	if r := gn.Rotation; r != [4]float32{} {
		n.SetQuaternion(linear.Q{W: r[3], V: linear.V3{r[0], r[1], r[2]}})
	}
	if s := gn.Scale; s != [3]float32{} {
		n.SetScale(s)
	}
}

func (l *Loader) camera(i int) (*node.Camera, error) {
	if i < 0 || i >= len(l.doc.Cameras) {
		return nil, errors.Errorf(prefix+"camera %d out of range", i)
	}
	gc := l.doc.Cameras[i]
	switch {
	case gc.Perspective != nil:
		p := gc.Perspective
		c := &node.Camera{
			Projection: node.Perspective,
			YFov:       p.Yfov,
			Aspect:     1,
			ZNear:      p.Znear,
			ZFar:       1e6,
		}
		if p.AspectRatio != nil {
			c.Aspect = *p.AspectRatio
		}
		if p.Zfar != nil {
			c.ZFar = *p.Zfar
		}
		return c, nil
	case gc.Orthographic != nil:
		o := gc.Orthographic
		c := &node.Camera{
			Projection: node.Orthographic,
			Height:     2 * o.Ymag,
			Aspect:     1,
			ZNear:      o.Znear,
			ZFar:       o.Zfar,
		}
		if o.Ymag != 0 {
			c.Aspect = o.Xmag / o.Ymag
		}
		return c, nil
	default:
		return nil, errors.Errorf(prefix+"camera %d has no projection", i)
	}
}
