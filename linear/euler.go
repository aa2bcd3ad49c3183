// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// EulerMatrix returns the rotation matrix for the Euler
// angles e, in degrees.
// Rotation is performed in Y-X-Z order, so the result is
// Ry ⋅ Rx ⋅ Rz.
func EulerMatrix(e V3) M4 {
	y := mgl32.HomogRotate3DY(mgl32.DegToRad(e[1]))
	x := mgl32.HomogRotate3DX(mgl32.DegToRad(e[0]))
	z := mgl32.HomogRotate3DZ(mgl32.DegToRad(e[2]))
	return y.Mul4(x).Mul4(z)
}

// MatrixEuler extracts Y-X-Z Euler angles, in degrees, from
// the rotation matrix m.
// At the gimbal singularity (X rotation of ±90 degrees) the
// Z angle is set to zero and Y absorbs the whole rotation
// about the vertical axis.
func MatrixEuler(m *M4) V3 {
	m23 := clamp(m.At(1, 2))
	x := math32.Asin(-m23)
	var y, z float32
	if abs(m23) < 1-Epsilon {
		y = math32.Atan2(m.At(0, 2), m.At(2, 2))
		z = math32.Atan2(m.At(1, 0), m.At(1, 1))
	} else {
		y = math32.Atan2(-m.At(2, 0), m.At(0, 0))
	}
	return V3{mgl32.RadToDeg(x), mgl32.RadToDeg(y), mgl32.RadToDeg(z)}
}

// AxisAngleMatrix returns the rotation matrix for a rotation
// of angle degrees about axis.
// The zero axis yields an identity matrix.
func AxisAngleMatrix(axis V3, angle float32) M4 {
	if axis.Len() < Epsilon {
		return I4()
	}
	return mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize())
}

// MatrixAxisAngle extracts a unit rotation axis and an angle
// in degrees, in [0, 180], from the rotation matrix m.
// The identity rotation has no axis: it returns the zero
// vector and 0.
func MatrixAxisAngle(m *M4) (axis V3, angle float32) {
	tr := m.At(0, 0) + m.At(1, 1) + m.At(2, 2)
	rad := math32.Acos(clamp((tr - 1) / 2))
	if rad < Epsilon {
		return
	}
	angle = mgl32.RadToDeg(rad)
	if math32.Pi-rad > 1e-3 {
		axis = V3{
			m.At(2, 1) - m.At(1, 2),
			m.At(0, 2) - m.At(2, 0),
			m.At(1, 0) - m.At(0, 1),
		}
		if l := axis.Len(); l > Epsilon {
			axis = axis.Mul(1 / l)
			return
		}
	}
	// Near 180 degrees the antisymmetric part vanishes,
	// so the axis is recovered from R = 2aaᵀ - I.
	xx := math32.Sqrt(max(0, (m.At(0, 0)+1)/2))
	yy := math32.Sqrt(max(0, (m.At(1, 1)+1)/2))
	zz := math32.Sqrt(max(0, (m.At(2, 2)+1)/2))
	switch {
	case xx >= yy && xx >= zz:
		axis = V3{xx, (m.At(0, 1) + m.At(1, 0)) / (4 * xx), (m.At(0, 2) + m.At(2, 0)) / (4 * xx)}
	case yy >= zz:
		axis = V3{(m.At(0, 1) + m.At(1, 0)) / (4 * yy), yy, (m.At(1, 2) + m.At(2, 1)) / (4 * yy)}
	default:
		axis = V3{(m.At(0, 2) + m.At(2, 0)) / (4 * zz), (m.At(1, 2) + m.At(2, 1)) / (4 * zz), zz}
	}
	if l := axis.Len(); l > Epsilon {
		axis = axis.Mul(1 / l)
	} else {
		axis, angle = V3{}, 0
	}
	return
}
