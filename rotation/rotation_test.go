// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package rotation

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/scenegraph/linear"
)

const tol = 1e-3

func assertM4(t *testing.T, want, have linear.M4, msg string) {
	t.Helper()
	if !linear.ApproxEqual(&want, &have, tol) {
		t.Fatalf("%s\nhave %v\nwant %v", msg, have, want)
	}
}

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, None, s.DirtyBy())
	assert.Equal(t, linear.Zero3, s.Euler())
	assert.Equal(t, linear.IQ(), s.Quaternion())
	assert.Equal(t, linear.Zero3, s.Axis(), "identity has no axis")
	assert.Zero(t, s.Angle())
	assert.Equal(t, linear.I4(), s.Matrix())
	assert.True(t, s.IsIdentity())
}

func TestSetEuler(t *testing.T) {
	s := New()
	s.SetEuler(linear.V3{370, -45, 720})
	assert.Equal(t, Euler, s.DirtyBy())
	assert.Equal(t, linear.V3{10, -45, 0}, s.Euler(), "angles are stored modulo 360")
	assertM4(t, linear.EulerMatrix(linear.V3{10, -45, 0}), s.Matrix(), "Matrix")
	assert.Equal(t, None, s.DirtyBy())
	// Still verbatim after the matrix was built.
	assert.Equal(t, linear.V3{10, -45, 0}, s.Euler())
}

func TestSetQuaternion(t *testing.T) {
	s := New()
	q := linear.Q{W: 0.5, V: linear.V3{0.5, 0.5, 0.5}}
	s.SetQuaternion(q)
	assert.Equal(t, Quaternion, s.DirtyBy())
	assert.Equal(t, q, s.Quaternion())

	// setQuaternion -> Euler -> matrix must match the
	// matrix derived directly from q.
	e := s.Euler()
	assertM4(t, linear.QuatMatrix(q), linear.EulerMatrix(e), "EulerMatrix(Euler())")

	axis, angle := s.Axis(), s.Angle()
	want := linear.V3{1, 1, 1}.Normalize()
	assert.InDelta(t, 120, angle, tol)
	assert.InDeltaSlice(t, want[:], axis[:], tol)
	assert.Equal(t, q, s.Quaternion(), "reading other forms must not change the quaternion")
}

func TestSetAxisAngle(t *testing.T) {
	s := New()
	s.SetAxisAngle(linear.V3{0, 2, 0}, -450)
	assert.Equal(t, AxisAngle, s.DirtyBy())
	assert.Equal(t, linear.V3{0, 2, 0}, s.Axis())
	assert.Equal(t, float32(-90), s.Angle())
	e := s.Euler()
	assert.InDeltaSlice(t, []float32{0, -90, 0}, e[:], tol)
	q := s.Quaternion()
	assertM4(t, linear.QuatMatrix(q), s.Matrix(), "QuatMatrix(Quaternion())")
}

func TestSetAxisAndAngle(t *testing.T) {
	s := New()
	s.SetEuler(linear.V3{0, 0, 30})
	s.SetAxis(linear.V3{1, 0, 0})
	assert.Equal(t, linear.V3{1, 0, 0}, s.Axis())
	assert.InDelta(t, 30, s.Angle(), tol, "SetAxis keeps the angle")

	s.SetAngle(60)
	assert.Equal(t, linear.V3{1, 0, 0}, s.Axis(), "SetAngle keeps the axis")
	assert.Equal(t, float32(60), s.Angle())
	e := s.Euler()
	assert.InDeltaSlice(t, []float32{60, 0, 0}, e[:], tol)
}

func TestSetMatrix(t *testing.T) {
	s := New()
	m := linear.AxisAngleMatrix(linear.V3{0, 0, 1}, 90)
	m[12] = 5 // translation is dropped
	s.SetMatrix(m)
	assert.Equal(t, None, s.DirtyBy())
	have := s.Matrix()
	assert.Zero(t, have[12])
	e := s.Euler()
	assert.InDeltaSlice(t, []float32{0, 0, 90}, e[:], tol)
	assert.InDelta(t, 90, s.Angle(), tol)
}

func TestIsIdentity(t *testing.T) {
	s := New()
	// Rotating 180 degrees about every axis ends where it
	// started, with signed zeros and rounding in the matrix.
	s.SetEuler(linear.V3{180, 180, 180})
	assert.True(t, s.IsIdentity())
	s.SetAxisAngle(linear.V3{0, 1, 0}, 360)
	assert.True(t, s.IsIdentity())
	s.SetEuler(linear.V3{0, 0.5, 0})
	assert.False(t, s.IsIdentity())
}

func TestWriteInvalidatesOthers(t *testing.T) {
	s := New()
	s.SetEuler(linear.V3{0, 45, 0})
	_ = s.Quaternion()
	_ = s.Axis()
	s.SetQuaternion(linear.IQ())
	assert.Equal(t, linear.Zero3, s.Euler())
	assert.Equal(t, linear.Zero3, s.Axis())
	assert.Zero(t, s.Angle())
	assert.True(t, s.IsIdentity())
}

func TestNoNaN(t *testing.T) {
	for _, q := range [...]linear.Q{
		{W: 1},
		{W: 0, V: linear.V3{1, 0, 0}},
		{W: 0, V: linear.V3{0, 1, 0}},
		{W: 0, V: linear.V3{0, 0, 1}},
		{W: 0.7071068, V: linear.V3{0.7071068, 0, 0}},
		{W: 1.0000001},
		{},
	} {
		s := New()
		s.SetQuaternion(q)
		e := s.Euler()
		axis := s.Axis()
		angle := s.Angle()
		for _, x := range append(e[:], axis[0], axis[1], axis[2], angle) {
			require.False(t, math32.IsNaN(x), "NaN from quaternion %v", q)
		}
	}
}

func TestCopy(t *testing.T) {
	s := New()
	s.SetEuler(linear.V3{10, 20, 30})
	c := s
	c.SetEuler(linear.V3{})
	assert.Equal(t, linear.V3{10, 20, 30}, s.Euler(), "copies must not share state")
	assert.Equal(t, linear.Zero3, c.Euler())
}

func TestSourceString(t *testing.T) {
	for k, v := range map[Source]string{
		None:       "None",
		Euler:      "Euler",
		Quaternion: "Quaternion",
		AxisAngle:  "AxisAngle",
	} {
		assert.Equal(t, v, k.String())
	}
}
