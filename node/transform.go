// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/chewxy/math32"

	"github.com/gviegas/scenegraph/linear"
)

// Setters only mark n itself as dirty. Descendants are
// invalidated during the next rebuild.

// Location returns the location of n relative to its
// parent.
func (n *Node) Location() linear.V3 { return n.location }

// SetLocation sets the location of n relative to its
// parent.
func (n *Node) SetLocation(v linear.V3) {
	n.location = v
	n.dirty = true
}

// Translate adds d to the location of n.
func (n *Node) Translate(d linear.V3) { n.SetLocation(n.location.Add(d)) }

// Scale returns the scale of n relative to its parent.
func (n *Node) Scale() linear.V3 { return n.scale }

// SetScale sets the scale of n relative to its parent.
func (n *Node) SetScale(v linear.V3) {
	n.scale = v
	n.dirty = true
}

// UniformScale returns the scale of n as a single value.
// If the scale is not uniform, it returns the length of
// the scale vector divided by the length of the unit
// cube's diagonal.
func (n *Node) UniformScale() float32 {
	if linear.Uniform(n.scale) {
		return n.scale[0]
	}
	return n.scale.Len() / math32.Sqrt(3)
}

// SetUniformScale sets the scale of n to s in every axis.
func (n *Node) SetUniformScale(s float32) { n.SetScale(linear.V3{s, s, s}) }

// Rotation returns the rotation of n as Euler angles,
// in degrees.
func (n *Node) Rotation() linear.V3 { return n.rot.Euler() }

// SetRotation sets the rotation of n from Euler angles,
// in degrees (Y-X-Z order).
func (n *Node) SetRotation(e linear.V3) {
	n.rot.SetEuler(e)
	n.dirty = true
}

// Rotate adds e to the Euler angles of n.
func (n *Node) Rotate(e linear.V3) { n.SetRotation(n.rot.Euler().Add(e)) }

// Quaternion returns the rotation of n as a quaternion.
func (n *Node) Quaternion() linear.Q { return n.rot.Quaternion() }

// SetQuaternion sets the rotation of n from a quaternion.
func (n *Node) SetQuaternion(q linear.Q) {
	n.rot.SetQuaternion(q)
	n.dirty = true
}

// RotationAxis returns the axis of rotation of n.
// It is the zero vector if n is not rotated.
func (n *Node) RotationAxis() linear.V3 { return n.rot.Axis() }

// SetRotationAxis sets the axis of rotation of n,
// keeping the current angle.
func (n *Node) SetRotationAxis(axis linear.V3) {
	n.rot.SetAxis(axis)
	n.dirty = true
}

// RotationAngle returns the angle of rotation of n
// about RotationAxis, in degrees.
func (n *Node) RotationAngle() float32 { return n.rot.Angle() }

// SetRotationAngle sets the angle of rotation of n,
// keeping the current axis.
func (n *Node) SetRotationAngle(angle float32) {
	n.rot.SetAngle(angle)
	n.dirty = true
}

// SetAxisAngle sets both axis and angle of rotation.
func (n *Node) SetAxisAngle(axis linear.V3, angle float32) {
	n.rot.SetAxisAngle(axis, angle)
	n.dirty = true
}

// RotationMatrix returns the rotation of n as a matrix.
func (n *Node) RotationMatrix() linear.M4 { return n.rot.Matrix() }

// IsTransformDirty returns whether the world transform of
// n is known to be out of date.
// A clean n may still be out of date if one of its
// ancestors is dirty.
func (n *Node) IsTransformDirty() bool { return n.dirty }

// MarkTransformDirty forces the world transform of n to
// be rebuilt.
func (n *Node) MarkTransformDirty() { n.dirty = true }

// Local returns the local transform of n, T ⋅ R ⋅ S.
func (n *Node) Local() linear.M4 {
	r := n.rot.Matrix()
	return linear.Compose(n.location, &r, n.scale)
}

// UpdateTransform rebuilds the world transform of n alone
// if n or its parent is dirty.
// parentWorld is the world transform of n's parent (the
// identity for a root) and parentDirty whether it was
// rebuilt in the current pass.
// It returns whether n was rebuilt, which must be passed
// to the children's UpdateTransform.
func (n *Node) UpdateTransform(parentWorld *linear.M4, parentDirty bool) (rebuilt bool) {
	if !n.dirty && !parentDirty {
		return false
	}
	local := n.Local()
	n.world = parentWorld.Mul4(local)
	n.dirty = false
	n.invDirty = true
	return true
}

// Rebuild calls UpdateTransform on n and then on each of
// its descendants, parents before children.
func (n *Node) Rebuild(parentWorld *linear.M4, parentDirty bool) {
	dirty := n.UpdateTransform(parentWorld, parentDirty)
	for c := n.sub; c != nil; c = c.next {
		c.Rebuild(&n.world, dirty)
	}
}

// UpdateTransformMatrices rebuilds the world transforms
// of n and its descendants using the current world
// transform of n's parent.
// n is rebuilt unconditionally.
func (n *Node) UpdateTransformMatrices() {
	pw := linear.I4()
	if n.parent != nil {
		pw = n.parent.world
	}
	n.dirty = true
	n.Rebuild(&pw, false)
}

// World returns the world transform of n, as of the
// last rebuild.
// It is the identity if n was never rebuilt.
func (n *Node) World() linear.M4 { return n.world }

// WorldInverse returns the inverse of World.
// It is computed on demand and cached until the next
// rebuild.
func (n *Node) WorldInverse() linear.M4 {
	if n.invDirty {
		n.worldInv = linear.Invert(&n.world)
		n.invDirty = false
	}
	return n.worldInv
}

// freshWorld computes the world transform of n from the
// local transforms of n and its ancestors, regardless of
// dirty state. It does not update any node.
func (n *Node) freshWorld() linear.M4 {
	local := n.Local()
	if n.parent == nil {
		return local
	}
	pw := n.parent.freshWorld()
	return pw.Mul4(local)
}

// localize sets the local transform of n such that it
// produces world when the parent's world transform is
// parentWorld.
func (n *Node) localize(parentWorld, world *linear.M4) {
	inv := linear.Invert(parentWorld)
	local := inv.Mul4(*world)
	t, r, s := linear.Decompose(&local)
	n.location = t
	n.scale = s
	n.rot.SetMatrix(r)
	n.dirty = true
}

// SetWorldMatrix sets the local transform of n such that
// its world transform becomes m.
// The parent's world transform is computed from the
// current ancestry.
func (n *Node) SetWorldMatrix(m linear.M4) {
	pw := linear.I4()
	if n.parent != nil {
		pw = n.parent.freshWorld()
	}
	n.localize(&pw, &m)
}

// Global properties are derived from World, so they are
// only as current as the last rebuild.

// GlobalLocation returns the location of n in world
// space.
func (n *Node) GlobalLocation() linear.V3 {
	return linear.V3{n.world[12], n.world[13], n.world[14]}
}

// GlobalRotation returns the rotation of n in world
// space, as Euler angles in degrees.
func (n *Node) GlobalRotation() linear.V3 {
	_, r, _ := linear.Decompose(&n.world)
	return linear.MatrixEuler(&r)
}

// GlobalScale returns the scale of n in world space.
func (n *Node) GlobalScale() linear.V3 { return linear.ScaleOf(&n.world) }

// IsUniformlyScaledLocally returns whether the scale of
// n is the same in every axis.
func (n *Node) IsUniformlyScaledLocally() bool { return linear.Uniform(n.scale) }

// IsUniformlyScaledGlobally returns whether n and all of
// its ancestors are uniformly scaled.
func (n *Node) IsUniformlyScaledGlobally() bool {
	for x := n; x != nil; x = x.parent {
		if !x.IsUniformlyScaledLocally() {
			return false
		}
	}
	return true
}

// IsTransformRigid returns whether neither n nor any of
// its ancestors is scaled, so that the world transform
// only rotates and translates.
func (n *Node) IsTransformRigid() bool {
	for x := n; x != nil; x = x.parent {
		if !linear.ApproxEqual3(x.scale, linear.One3, linear.Epsilon) {
			return false
		}
	}
	return true
}
