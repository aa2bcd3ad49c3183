// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/go-gl/mathgl/mgl32"
)

// M3 is a column-major 3x3 matrix of float32.
type M3 = mgl32.Mat3

// M4 is a column-major 4x4 matrix of float32.
type M4 = mgl32.Mat4

// I4 returns an identity matrix.
func I4() M4 { return mgl32.Ident4() }

// Compose returns the local transform T ⋅ R ⋅ S, where T
// translates by t, R is the rotation matrix r and S scales
// by s.
// Only the upper 3x3 of r is used.
func Compose(t V3, r *M4, s V3) (m M4) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i*4+j] = r[i*4+j] * s[i]
		}
	}
	m[12] = t[0]
	m[13] = t[1]
	m[14] = t[2]
	m[15] = 1
	return
}

// Decompose factors m into translation, rotation and scale
// such that Compose(t, &r, s) reproduces m whenever m has no
// shear.
// The scale of each axis is the length of the corresponding
// column of the upper 3x3. A negative determinant (reflection)
// is folded into the X scale. Any shear left in the normalized
// columns is discarded by re-orthonormalizing them
// (Gram-Schmidt, X first, then Y, Z derived by cross product).
// If any axis has zero scale, the rotation is the identity.
// If Y is parallel to X, an arbitrary axis perpendicular
// to X replaces it.
func Decompose(m *M4) (t V3, r M4, s V3) {
	t = V3{m[12], m[13], m[14]}
	x := V3{m[0], m[1], m[2]}
	y := V3{m[4], m[5], m[6]}
	z := V3{m[8], m[9], m[10]}
	s = V3{x.Len(), y.Len(), z.Len()}
	if x.Cross(y).Dot(z) < 0 {
		s[0] = -s[0]
	}
	if abs(s[0]) < Epsilon || abs(s[1]) < Epsilon || abs(s[2]) < Epsilon {
		r = I4()
		return
	}
	x = x.Mul(1 / s[0])
	y = y.Sub(x.Mul(x.Dot(y)))
	if n := y.Len(); n < Epsilon {
		// Y is parallel to X; any perpendicular axis will do.
		y = perpendicular(x)
	} else {
		y = y.Mul(1 / n)
	}
	z = x.Cross(y)
	r = mgl32.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), V4{0, 0, 0, 1})
	return
}

// ScaleOf returns the length of each of the first three
// columns of m.
func ScaleOf(m *M4) V3 {
	return V3{
		V3{m[0], m[1], m[2]}.Len(),
		V3{m[4], m[5], m[6]}.Len(),
		V3{m[8], m[9], m[10]}.Len(),
	}
}

// Invert returns the general inverse of m.
// A singular m yields the zero matrix.
func Invert(m *M4) M4 { return m.Inv() }

// ApproxEqual reports whether l and r differ by less than
// eps in every element.
func ApproxEqual(l, r *M4, eps float32) bool {
	for i := range l {
		if abs(l[i]-r[i]) >= eps {
			return false
		}
	}
	return true
}

// perpendicular returns a unit vector perpendicular to the
// unit vector v.
func perpendicular(v V3) V3 {
	a := V3{1, 0, 0}
	if abs(v[0]) > 0.9 {
		a = V3{0, 1, 0}
	}
	return a.Sub(v.Mul(v.Dot(a))).Normalize()
}
