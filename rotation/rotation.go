// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package rotation implements the rotational state of a
// node.
//
// A rotation can be set as Euler angles, as an angle about
// an arbitrary axis or as a quaternion, and read back in any
// of these forms. Whichever form was set last is kept
// verbatim and is authoritative; the others are derived on
// demand through a rotation matrix and cached.
package rotation

import (
	"github.com/gviegas/scenegraph/linear"
)

// Source identifies the representation from which the
// rotation matrix must be rebuilt.
type Source int

// Sources.
const (
	// The matrix is current.
	None Source = iota
	// The matrix must be rebuilt from the Euler angles.
	Euler
	// The matrix must be rebuilt from the quaternion.
	Quaternion
	// The matrix must be rebuilt from the axis and angle.
	AxisAngle
)

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case None:
		return "None"
	case Euler:
		return "Euler"
	case Quaternion:
		return "Quaternion"
	case AxisAngle:
		return "AxisAngle"
	default:
		return "[!] invalid Source value"
	}
}

// State is the rotational state of a node.
// The zero value is not valid; use New or Init.
// State has no references, so copying it copies the
// whole state.
type State struct {
	euler  linear.V3
	quat   linear.Q
	axis   linear.V3
	angle  float32
	matrix linear.M4

	dirtyBy     Source
	eulerDirty  bool
	quatDirty   bool
	axisDirty   bool
	matrixDirty bool
}

// New returns an identity rotation.
func New() State {
	var s State
	s.Init()
	return s
}

// Init sets s to the identity rotation.
func (s *State) Init() {
	*s = State{
		quat:   linear.IQ(),
		matrix: linear.I4(),
	}
}

// DirtyBy returns the representation that is authoritative
// while the rotation matrix is stale, or None.
func (s *State) DirtyBy() Source { return s.dirtyBy }

// invalidate marks the matrix and every representation
// other than src as stale.
func (s *State) invalidate(src Source) {
	s.dirtyBy = src
	s.matrixDirty = true
	s.eulerDirty = src != Euler
	s.quatDirty = src != Quaternion
	s.axisDirty = src != AxisAngle
}

// SetEuler sets the rotation as Euler angles in degrees.
// Rotation is applied in Y-X-Z order. Each angle is
// converted to modulo ±360 degrees.
func (s *State) SetEuler(e linear.V3) {
	s.euler = linear.NormAngles(e)
	s.invalidate(Euler)
}

// Euler returns the rotation as Euler angles in degrees.
func (s *State) Euler() linear.V3 {
	if s.eulerDirty {
		m := s.Matrix()
		s.euler = linear.MatrixEuler(&m)
		s.eulerDirty = false
	}
	return s.euler
}

// SetQuaternion sets the rotation as a quaternion.
// q is stored as given.
func (s *State) SetQuaternion(q linear.Q) {
	s.quat = q
	s.invalidate(Quaternion)
}

// Quaternion returns the rotation as a quaternion.
func (s *State) Quaternion() linear.Q {
	if s.quatDirty {
		m := s.Matrix()
		s.quat = linear.MatrixQuat(&m)
		s.quatDirty = false
	}
	return s.quat
}

// SetAxisAngle sets the rotation as angle degrees about
// axis. The angle is converted to modulo ±360 degrees.
func (s *State) SetAxisAngle(axis linear.V3, angle float32) {
	s.axis = axis
	s.angle = linear.NormAngle(angle)
	s.invalidate(AxisAngle)
}

// SetAxis sets the rotation axis, keeping the current
// rotation angle.
func (s *State) SetAxis(axis linear.V3) {
	s.SetAxisAngle(axis, s.Angle())
}

// SetAngle sets the rotation angle, keeping the current
// rotation axis.
func (s *State) SetAngle(angle float32) {
	s.SetAxisAngle(s.Axis(), angle)
}

// Axis returns the rotation axis.
// The identity rotation has no axis, in which case the
// zero vector is returned.
func (s *State) Axis() linear.V3 {
	s.resolveAxisAngle()
	return s.axis
}

// Angle returns the rotation angle about Axis, in degrees.
func (s *State) Angle() float32 {
	s.resolveAxisAngle()
	return s.angle
}

func (s *State) resolveAxisAngle() {
	if s.axisDirty {
		m := s.Matrix()
		s.axis, s.angle = linear.MatrixAxisAngle(&m)
		s.axisDirty = false
	}
}

// SetMatrix sets the rotation from a rotation matrix.
// Only the upper 3x3 of m is used and it must be
// orthonormal.
func (s *State) SetMatrix(m linear.M4) {
	s.matrix = m
	s.matrix[3], s.matrix[7], s.matrix[11] = 0, 0, 0
	s.matrix[12], s.matrix[13], s.matrix[14], s.matrix[15] = 0, 0, 0, 1
	s.invalidate(None)
	s.matrixDirty = false
}

// Matrix returns the rotation matrix, rebuilding it from
// the authoritative representation if needed.
func (s *State) Matrix() linear.M4 {
	if s.matrixDirty {
		switch s.dirtyBy {
		case Euler:
			s.matrix = linear.EulerMatrix(s.euler)
		case Quaternion:
			s.matrix = linear.QuatMatrix(s.quat)
		case AxisAngle:
			s.matrix = linear.AxisAngleMatrix(s.axis, s.angle)
		}
		s.matrixDirty = false
		s.dirtyBy = None
	}
	return s.matrix
}

// IsIdentity reports whether s is the identity rotation.
func (s *State) IsIdentity() bool {
	m := s.Matrix()
	i := linear.I4()
	return linear.ApproxEqual(&m, &i, linear.Epsilon)
}
