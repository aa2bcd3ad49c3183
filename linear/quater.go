// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Q is a quaternion of float32.
type Q = mgl32.Quat

// IQ returns the identity quaternion.
func IQ() Q { return mgl32.QuatIdent() }

// QuatMatrix returns the rotation matrix of q.
// q need not be normalized. The zero quaternion yields an
// identity matrix.
func QuatMatrix(q Q) M4 {
	if q.Len() < Epsilon {
		return I4()
	}
	return q.Normalize().Mat4()
}

// MatrixQuat returns the unit quaternion equivalent to the
// rotation matrix m.
// The result has a non-negative real part.
func MatrixQuat(m *M4) Q {
	q := mgl32.Mat4ToQuat(*m).Normalize()
	if q.W < 0 {
		q.W = -q.W
		q.V = q.V.Mul(-1)
	}
	return q
}
