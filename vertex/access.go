// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package vertex

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/gviegas/scenegraph/linear"
)

// elem returns the CPU bytes of element i of the given
// kind and the element's byte offset.
// It panics if the data is unavailable or i is out of
// bounds.
func (s *Store) elem(kind Kind, i int) (b []byte, off int) {
	a := &s.attrs[kind]
	if a.data == nil {
		if a.present {
			panic(errors.Wrapf(ErrDataUnavailable, "%s[%d] (released)", kind, i))
		}
		panic(errors.Wrapf(ErrDataUnavailable, "%s[%d] (never set)", kind, i))
	}
	if i < 0 || i >= a.count {
		panic(errors.Errorf(prefix+"%s index %d out of bounds [0, %d)", kind, i, a.count))
	}
	off = a.offset + i*a.stride
	return a.data[off : off+a.format.Size()], off
}

// mirror copies element bytes written at off into the
// kind's GPU span, if any.
func (s *Store) mirror(kind Kind, b []byte, off int) {
	a := &s.attrs[kind]
	if !a.buffered() {
		return
	}
	if dst := a.span.Bytes(); dst != nil {
		copy(dst[off:], b)
	}
}

// AttributeAt returns element i of the given kind.
// Components not present in the kind's format are zero.
func (s *Store) AttributeAt(kind Kind, i int) linear.V4 {
	b, _ := s.elem(kind, i)
	return s.attrs[kind].format.decode(b)
}

// SetAttributeAt sets element i of the given kind.
// Components not present in the kind's format are
// ignored.
func (s *Store) SetAttributeAt(kind Kind, i int, v linear.V4) {
	b, off := s.elem(kind, i)
	s.attrs[kind].format.encode(b, v)
	s.mirror(kind, b, off)
}

// LocationAt returns the location of vertex i.
func (s *Store) LocationAt(i int) linear.V3 { return s.AttributeAt(Location, i).Vec3() }

// SetLocationAt sets the location of vertex i.
func (s *Store) SetLocationAt(i int, v linear.V3) { s.SetAttributeAt(Location, i, v.Vec4(0)) }

// NormalAt returns the normal of vertex i.
func (s *Store) NormalAt(i int) linear.V3 { return s.AttributeAt(Normal, i).Vec3() }

// SetNormalAt sets the normal of vertex i.
func (s *Store) SetNormalAt(i int, v linear.V3) { s.SetAttributeAt(Normal, i, v.Vec4(0)) }

// Color4FAt returns the float color of vertex i.
func (s *Store) Color4FAt(i int) linear.V4 { return s.AttributeAt(Color4F, i) }

// SetColor4FAt sets the float color of vertex i.
func (s *Store) SetColor4FAt(i int, v linear.V4) { s.SetAttributeAt(Color4F, i, v) }

// Color4BAt returns the byte color of vertex i.
func (s *Store) Color4BAt(i int) (c [4]uint8) {
	b, _ := s.elem(Color4B, i)
	if s.attrs[Color4B].format == Unorm8x4 {
		copy(c[:], b)
		return
	}
	v := s.attrs[Color4B].format.decode(b)
	for j := range c {
		c[j] = uint8(math32.Round(min(max(v[j], 0), 1) * 255))
	}
	return
}

// SetColor4BAt sets the byte color of vertex i.
func (s *Store) SetColor4BAt(i int, c [4]uint8) {
	s.SetAttributeAt(Color4B, i, linear.V4{
		float32(c[0]) / 255,
		float32(c[1]) / 255,
		float32(c[2]) / 255,
		float32(c[3]) / 255,
	})
}

// TexCoordAt returns the texture coordinates of vertex i
// for the given texture unit.
func (s *Store) TexCoordAt(unit, i int) linear.V2 {
	v := s.AttributeAt(TexCoord(unit), i)
	return linear.V2{v[0], v[1]}
}

// SetTexCoordAt sets the texture coordinates of vertex i
// for the given texture unit.
func (s *Store) SetTexCoordAt(unit, i int, v linear.V2) {
	s.SetAttributeAt(TexCoord(unit), i, linear.V4{v[0], v[1]})
}

// IndexAt returns index i.
func (s *Store) IndexAt(i int) uint32 {
	b, _ := s.elem(Index, i)
	return s.attrs[Index].format.decodeIndex(b)
}

// SetIndexAt sets index i.
func (s *Store) SetIndexAt(i int, x uint32) {
	b, off := s.elem(Index, i)
	s.attrs[Index].format.encodeIndex(b, x)
	s.mirror(Index, b, off)
}

// SetLocations sets vertex locations.
func (s *Store) SetLocations(v []linear.V3) { s.setPacked(Location, encodeV3(v), len(v)) }

// SetNormals sets vertex normals.
func (s *Store) SetNormals(v []linear.V3) { s.setPacked(Normal, encodeV3(v), len(v)) }

// SetColors4F sets float vertex colors.
func (s *Store) SetColors4F(v []linear.V4) { s.setPacked(Color4F, encodeV4(v), len(v)) }

// SetColors4B sets byte vertex colors.
func (s *Store) SetColors4B(v [][4]uint8) {
	b := make([]byte, len(v)*4)
	for i := range v {
		copy(b[i*4:], v[i][:])
	}
	s.setPacked(Color4B, b, len(v))
}

// SetTexCoords sets texture coordinates for the given
// texture unit.
func (s *Store) SetTexCoords(unit int, v []linear.V2) {
	s.setPacked(TexCoord(unit), encodeV2(v), len(v))
}

// SetIndices sets 16-bit indices.
func (s *Store) SetIndices(x []uint16) {
	b := make([]byte, len(x)*2)
	for i := range x {
		Uint16.encodeIndex(b[i*2:], uint32(x[i]))
	}
	s.setPacked(Index, b, len(x))
}

// SetIndices32 sets 32-bit indices.
func (s *Store) SetIndices32(x []uint32) {
	b := make([]byte, len(x)*4)
	for i := range x {
		Uint32.encodeIndex(b[i*4:], x[i])
	}
	if err := s.SetData(Index, Uint32, b, len(x), 0, 0); err != nil {
		panic(err)
	}
}

// Bounds returns the axis-aligned box enclosing every
// vertex location.
// ok is false if there are no locations available.
func (s *Store) Bounds() (lo, hi linear.V3, ok bool) {
	if !s.Available(Location) || s.VertexCount() == 0 {
		return
	}
	lo = s.LocationAt(0)
	hi = lo
	for i := 1; i < s.VertexCount(); i++ {
		v := s.LocationAt(i)
		for j := range v {
			lo[j] = min(lo[j], v[j])
			hi[j] = max(hi[j], v[j])
		}
	}
	return lo, hi, true
}

// Rect is a normalized texture sub-rectangle.
type Rect struct {
	X, Y, W, H float32
}

// FullRect covers the whole texture.
var FullRect = Rect{0, 0, 1, 1}

// AlignTexCoords remaps texture coordinates of the given
// unit into r, so they address a region of a larger
// texture. If flipV is true, the V coordinate is flipped
// before the remapping.
// This modifies the stored data and can only be done
// once per unit; later calls fail with ErrAlreadyAligned.
func (s *Store) AlignTexCoords(unit int, r Rect, flipV bool) error {
	kind := TexCoord(unit)
	if s.aligned[unit] {
		return errors.Wrapf(ErrAlreadyAligned, "unit %d", unit)
	}
	if !s.Available(kind) {
		return errors.Wrapf(ErrDataUnavailable, "%s", kind)
	}
	for i := 0; i < s.Count(kind); i++ {
		uv := s.TexCoordAt(unit, i)
		if flipV {
			uv[1] = 1 - uv[1]
		}
		s.SetTexCoordAt(unit, i, linear.V2{r.X + uv[0]*r.W, r.Y + uv[1]*r.H})
	}
	s.aligned[unit] = true
	s.texRect[unit] = r
	return nil
}

// TexRect returns the rectangle that texture coordinates
// of the given unit were aligned to.
func (s *Store) TexRect(unit int) Rect {
	if !s.aligned[unit] {
		return FullRect
	}
	return s.texRect[unit]
}
