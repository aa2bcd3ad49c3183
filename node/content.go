// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/vertex"
)

// Content is the node-specific data of a Node.
// It is one of *Mesh, *Light or *Camera. A Node
// without Content is a group.
type Content interface {
	isContent()
}

// Content returns the content of n, or nil if n is a
// group.
func (n *Node) Content() Content { return n.content }

// SetContent sets the content of n.
// A nil c turns n into a group.
func (n *Node) SetContent(c Content) { n.content = c }

// HasLocalContent returns whether n has content of its
// own to draw or light with.
func (n *Node) HasLocalContent() bool { return n.content != nil }

// IsMeshNode returns whether n's content is a Mesh.
func (n *Node) IsMeshNode() bool {
	_, ok := n.content.(*Mesh)
	return ok
}

// MeshData returns the vertex data of n, or nil if n
// is not a mesh node.
func (n *Node) MeshData() *vertex.Store {
	if m, ok := n.content.(*Mesh); ok {
		return m.Data
	}
	return nil
}

// BoundingBox returns the axis-aligned box enclosing the
// vertices of n's mesh, in local space.
// ok is false if n has no mesh or the mesh's locations
// are not available.
func (n *Node) BoundingBox() (lo, hi linear.V3, ok bool) {
	if d := n.MeshData(); d != nil {
		return d.Bounds()
	}
	return
}

// GlobalBoundingBox is like BoundingBox, but the box
// encloses the local box transformed by World.
func (n *Node) GlobalBoundingBox() (lo, hi linear.V3, ok bool) {
	l, h, ok := n.BoundingBox()
	if !ok {
		return
	}
	for i := 0; i < 8; i++ {
		c := l
		for j := 0; j < 3; j++ {
			if i&(1<<j) != 0 {
				c[j] = h[j]
			}
		}
		p := linear.Point(&n.world, c)
		if i == 0 {
			lo, hi = p, p
			continue
		}
		for j := range p {
			lo[j] = min(lo[j], p[j])
			hi[j] = max(hi[j], p[j])
		}
	}
	return
}

// Mesh is the content of a mesh node.
// Data may be shared among any number of meshes.
type Mesh struct {
	Data *vertex.Store
	// Whether back and front faces should be culled.
	CullBack  bool
	CullFront bool
}

// NewMesh creates a mesh that culls back faces.
func NewMesh(data *vertex.Store) *Mesh { return &Mesh{Data: data, CullBack: true} }

func (*Mesh) isContent() {}

func (m *Mesh) vertexCount() int {
	if m.Data == nil {
		return 0
	}
	return m.Data.VertexCount()
}

// LightType is the type of a Light.
type LightType int

// Light types.
const (
	DistantLight LightType = iota
	PointLight
	SpotLight
)

// String implements fmt.Stringer.
func (t LightType) String() string {
	switch t {
	case DistantLight:
		return "distant"
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	default:
		return "[!] invalid LightType value"
	}
}

// Light is the content of a light node.
// Direction and position come from the node's world
// transform (the light points towards its -Z axis).
type Light struct {
	Type      LightType
	Color     linear.V3
	Intensity float32
	// Falloff range. Zero means infinite.
	// Ignored by distant lights.
	Range float32
	// Cone angles in radians.
	// Only spot lights use these.
	InnerCone float32
	OuterCone float32
}

func (*Light) isContent() {}

// SetConeAngles sets the inner/outer cone angles of l.
// Cone angles that exceed math.Pi/2, or that are less
// than zero, will be clamped. The inner angle will be
// adjusted such that it is less than the outer angle.
func (l *Light) SetConeAngles(inner, outer float32) {
	var (
		i = max(0, min(float64(inner), math.Pi/2-1e-6))
		o = max(i+1e-6, min(float64(outer), math.Pi/2))
	)
	l.InnerCone = float32(i)
	l.OuterCone = float32(o)
}

// LightDirection returns the world-space direction of a light
// held by n.
func (n *Node) LightDirection() linear.V3 {
	return linear.Direction(&n.world, linear.V3{0, 0, -1}).Normalize()
}

// Projection is the type of projection of a Camera.
type Projection int

// Projections.
const (
	Perspective Projection = iota
	Orthographic
)

// String implements fmt.Stringer.
func (p Projection) String() string {
	switch p {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	default:
		return "[!] invalid Projection value"
	}
}

// Camera is the content of a camera node.
// The camera looks towards its -Z axis.
type Camera struct {
	Projection Projection
	// Vertical field of view in radians.
	// Perspective only.
	YFov float32
	// Height of the view volume.
	// Orthographic only.
	Height float32
	Aspect float32
	ZNear  float32
	ZFar   float32
}

func (*Camera) isContent() {}

// ProjectionMatrix returns c's projection transform.
func (c *Camera) ProjectionMatrix() linear.M4 {
	switch c.Projection {
	case Orthographic:
		y := c.Height / 2
		x := y * c.Aspect
		return mgl32.Ortho(-x, x, -y, y, c.ZNear, c.ZFar)
	default:
		return mgl32.Perspective(c.YFov, c.Aspect, c.ZNear, c.ZFar)
	}
}

// ViewMatrix returns the view transform of a camera held
// by n.
func (n *Node) ViewMatrix() linear.M4 { return n.WorldInverse() }
