// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements math for 3D graphics.
//
// Vector, matrix and quaternion types are the mgl32 ones.
// Matrices are column-major and vectors are column vectors,
// so a transform M applied to v is M ⋅ v.
package linear

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// V2 is a 2-component vector of float32.
type V2 = mgl32.Vec2

// V3 is a 3-component vector of float32.
type V3 = mgl32.Vec3

// V4 is a 4-component vector of float32.
type V4 = mgl32.Vec4

// Epsilon is the tolerance used by approximate comparisons
// and by decompositions to detect degenerate input.
const Epsilon = 1e-5

// Zero3 is the zero vector.
var Zero3 = V3{}

// One3 is the vector whose components are all one.
var One3 = V3{1, 1, 1}

// Point transforms the point p by m (w = 1).
func Point(m *M4, p V3) V3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// Direction transforms the direction d by m (w = 0).
func Direction(m *M4, d V3) V3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// Uniform reports whether all components of v are equal
// within Epsilon.
func Uniform(v V3) bool {
	return abs(v[0]-v[1]) < Epsilon && abs(v[1]-v[2]) < Epsilon
}

// ApproxEqual3 reports whether l and r differ by less than
// eps in every component.
func ApproxEqual3(l, r V3, eps float32) bool {
	return abs(l[0]-r[0]) < eps && abs(l[1]-r[1]) < eps && abs(l[2]-r[2]) < eps
}

// NormAngle converts deg to modulo ±360 degrees.
// The result is in (-360, 360].
func NormAngle(deg float32) float32 {
	r := math32.Mod(deg, 360)
	if r == 0 {
		// Drop negative zero.
		return 0
	}
	return r
}

// NormAngles calls NormAngle on every component of v.
func NormAngles(v V3) V3 {
	return V3{NormAngle(v[0]), NormAngle(v[1]), NormAngle(v[2])}
}

// clamp restricts x to [-1, 1].
func clamp(x float32) float32 {
	switch {
	case x < -1:
		return -1
	case x > 1:
		return 1
	}
	return x
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
