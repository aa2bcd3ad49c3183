// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package vertex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/scenegraph/driver/hostmem"
	"github.com/gviegas/scenegraph/linear"
)

func newGPU(t *testing.T) *hostmem.GPU {
	t.Helper()
	d := &hostmem.Driver{}
	gpu, err := d.Open()
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return gpu.(*hostmem.GPU)
}

func triangle() *Store {
	s := New()
	s.SetLocations([]linear.V3{{0, 0, 0}, {1, 0, 0}, {0, 2, -1}})
	s.SetNormals([]linear.V3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	s.SetTexCoords(0, []linear.V2{{0, 0}, {1, 0}, {0, 1}})
	s.SetIndices([]uint16{0, 1, 2})
	return s
}

func TestStoreEmpty(t *testing.T) {
	var s Store
	for k := Kind(0); k < MaxKind; k++ {
		assert.False(t, s.Has(k), "%s", k)
		assert.False(t, s.Buffered(k), "%s", k)
		assert.False(t, s.Available(k), "%s", k)
	}
	s.DeleteGPUBuffers()
	s.ReleaseRedundantData()
	_, _, ok := s.Bounds()
	assert.False(t, ok)
}

func TestAccessors(t *testing.T) {
	s := triangle()
	assert.Equal(t, 3, s.VertexCount())
	assert.Equal(t, 3, s.IndexCount())
	assert.Equal(t, linear.V3{0, 2, -1}, s.LocationAt(2))
	assert.Equal(t, linear.V3{0, 0, 1}, s.NormalAt(1))
	assert.Equal(t, linear.V2{1, 0}, s.TexCoordAt(0, 1))
	assert.Equal(t, uint32(2), s.IndexAt(2))

	s.SetLocationAt(1, linear.V3{4, 5, 6})
	assert.Equal(t, linear.V3{4, 5, 6}, s.LocationAt(1))
	assert.Equal(t, linear.V4{4, 5, 6, 0}, s.AttributeAt(Location, 1))
	s.SetIndexAt(0, 2)
	assert.Equal(t, uint32(2), s.IndexAt(0))

	assert.Panics(t, func() { s.LocationAt(3) })
	assert.Panics(t, func() { s.LocationAt(-1) })
}

func TestColors(t *testing.T) {
	s := New()
	s.SetColors4B([][4]uint8{{255, 0, 128, 255}})
	s.SetColors4F([]linear.V4{{0.5, 0.25, 1, 1}})
	assert.Equal(t, [4]uint8{255, 0, 128, 255}, s.Color4BAt(0))
	assert.InDelta(t, float32(128)/255, s.AttributeAt(Color4B, 0)[2], 1e-6)
	assert.Equal(t, linear.V4{0.5, 0.25, 1, 1}, s.Color4FAt(0))

	s.SetColor4BAt(0, [4]uint8{1, 2, 3, 4})
	assert.Equal(t, [4]uint8{1, 2, 3, 4}, s.Color4BAt(0))
	s.SetColor4FAt(0, linear.V4{0, 0, 0, 1})
	assert.Equal(t, linear.V4{0, 0, 0, 1}, s.Color4FAt(0))
}

func TestSetDataStrided(t *testing.T) {
	// Interleaved location (Float32x3) + color (Unorm8x4),
	// 16-byte stride.
	s := New()
	buf := make([]byte, 32)
	Float32x3.encode(buf[0:], linear.V4{1, 2, 3})
	Unorm8x4.encode(buf[12:], linear.V4{1, 0, 1, 1})
	Float32x3.encode(buf[16:], linear.V4{4, 5, 6})
	Unorm8x4.encode(buf[28:], linear.V4{0, 1, 0, 1})
	require.NoError(t, s.SetData(Location, Float32x3, buf, 2, 16, 0))
	require.NoError(t, s.SetData(Color4B, Unorm8x4, buf, 2, 16, 12))
	assert.Equal(t, linear.V3{4, 5, 6}, s.LocationAt(1))
	assert.Equal(t, [4]uint8{0, 255, 0, 255}, s.Color4BAt(1))
	assert.Equal(t, 16, s.Stride(Location))

	assert.Error(t, s.SetData(Location, Float32x3, buf, 3, 16, 0), "too few bytes")
	assert.Error(t, s.SetData(Location, Float32x3, buf, 1, 8, 0), "stride too small")
	assert.Error(t, s.SetData(MaxKind, Float32x3, buf, 1, 0, 0), "invalid kind")
}

func TestCreateGPUBuffers(t *testing.T) {
	gpu := newGPU(t)
	s := triangle()
	s.SkipBuffering(Normal)
	require.NoError(t, s.CreateGPUBuffers(Dedicated{gpu}))
	assert.True(t, s.Buffered(Location))
	assert.True(t, s.Buffered(Index))
	assert.True(t, s.Buffered(TexCoord0))
	assert.False(t, s.Buffered(Normal), "skipped")
	assert.False(t, s.Buffered(Color4F), "never set")
	live := gpu.Live()
	assert.Equal(t, 3, live)

	var spans [MaxKind]Span
	for k := Kind(0); k < MaxKind; k++ {
		spans[k], _ = s.Span(k)
	}
	require.NoError(t, s.CreateGPUBuffers(Dedicated{gpu}))
	assert.Equal(t, live, gpu.Live(), "second call must not allocate")
	for k := Kind(0); k < MaxKind; k++ {
		sp, _ := s.Span(k)
		assert.Equal(t, spans[k], sp, "%s", k)
	}

	sp, ok := s.Span(Location)
	require.True(t, ok)
	assert.Equal(t, s.attrs[Location].data, sp.Bytes())

	s.DeleteGPUBuffers()
	assert.Zero(t, gpu.Live())
	assert.True(t, s.Available(Location), "CPU data is untouched")
	s.DeleteGPUBuffers()
	assert.Zero(t, gpu.Live())
}

func TestWriteThrough(t *testing.T) {
	gpu := newGPU(t)
	s := triangle()
	require.NoError(t, s.CreateGPUBuffers(Dedicated{gpu}))
	s.SetLocationAt(2, linear.V3{7, 8, 9})
	sp, _ := s.Span(Location)
	assert.Equal(t, linear.V4{7, 8, 9}, Float32x3.decode(sp.Bytes()[24:]))
	s.SetIndexAt(1, 0)
	sp, _ = s.Span(Index)
	assert.Equal(t, uint32(0), Uint16.decodeIndex(sp.Bytes()[2:]))
}

func TestReleaseRedundantData(t *testing.T) {
	gpu := newGPU(t)
	s := triangle()
	s.Retain(Location)
	s.SkipBuffering(Normal)

	s.ReleaseRedundantData()
	assert.True(t, s.Available(Index), "not buffered yet")

	require.NoError(t, s.CreateGPUBuffers(Dedicated{gpu}))
	s.ReleaseRedundantData()
	assert.True(t, s.Available(Location), "retained")
	assert.True(t, s.Available(Normal), "not buffered")
	assert.False(t, s.Available(Index))
	assert.False(t, s.Available(TexCoord0))
	assert.True(t, s.Has(Index))
	assert.True(t, s.Retained(Location))

	assert.NotPanics(t, func() { s.LocationAt(0) })
	func() {
		defer func() {
			err, ok := recover().(error)
			require.True(t, ok)
			assert.ErrorIs(t, err, ErrDataUnavailable)
		}()
		s.IndexAt(0)
	}()

	// The released kinds are gone for good once their
	// spans are deleted.
	s.DeleteGPUBuffers()
	require.NoError(t, s.CreateGPUBuffers(Dedicated{gpu}))
	assert.False(t, s.Buffered(Index))
	assert.True(t, s.Buffered(Location))
}

func TestReleaseSkippedAfterBuffering(t *testing.T) {
	gpu := newGPU(t)
	s := triangle()
	require.NoError(t, s.CreateGPUBuffers(Dedicated{gpu}))
	s.SkipBuffering(Normal)
	s.ReleaseRedundantData()
	assert.True(t, s.Buffered(Normal))
	assert.True(t, s.Available(Normal), "skipped kinds keep CPU data")
	assert.False(t, s.Available(Location))
	assert.NotPanics(t, func() { s.NormalAt(0) })
}

func TestRetainSkipAll(t *testing.T) {
	gpu := newGPU(t)
	s := triangle()
	s.RetainAll()
	require.NoError(t, s.CreateGPUBuffers(Dedicated{gpu}))
	s.ReleaseRedundantData()
	for k := Kind(0); k < MaxKind; k++ {
		assert.Equal(t, s.Has(k), s.Available(k), "%s", k)
	}
	s.DeleteGPUBuffers()
	s.SkipAll()
	require.NoError(t, s.CreateGPUBuffers(Dedicated{gpu}))
	assert.Zero(t, gpu.Live())
	assert.True(t, s.Skipped(Index))
}

func TestSetDataFreesSpan(t *testing.T) {
	gpu := newGPU(t)
	s := triangle()
	require.NoError(t, s.CreateGPUBuffers(Dedicated{gpu}))
	n := gpu.Live()
	s.SetLocations([]linear.V3{{1, 1, 1}})
	assert.False(t, s.Buffered(Location))
	assert.Equal(t, n-1, gpu.Live())
}

func TestAlignTexCoords(t *testing.T) {
	s := triangle()
	r := Rect{0.5, 0.25, 0.5, 0.5}
	require.NoError(t, s.AlignTexCoords(0, r, true))
	assert.Equal(t, r, s.TexRect(0))
	assert.Equal(t, linear.V2{0.5, 0.75}, s.TexCoordAt(0, 0))
	assert.Equal(t, linear.V2{1, 0.75}, s.TexCoordAt(0, 1))
	assert.Equal(t, linear.V2{0.5, 0.25}, s.TexCoordAt(0, 2))

	err := s.AlignTexCoords(0, r, false)
	assert.ErrorIs(t, err, ErrAlreadyAligned)
	assert.Equal(t, linear.V2{1, 0.75}, s.TexCoordAt(0, 1), "must not compound")

	assert.Equal(t, FullRect, s.TexRect(1))
	assert.ErrorIs(t, s.AlignTexCoords(1, r, false), ErrDataUnavailable)
}

func TestBounds(t *testing.T) {
	s := triangle()
	lo, hi, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, linear.V3{0, 0, -1}, lo)
	assert.Equal(t, linear.V3{1, 2, 0}, hi)
}

func TestIndices32(t *testing.T) {
	s := New()
	s.SetIndices32([]uint32{70000, 1})
	assert.Equal(t, Uint32, s.Format(Index))
	assert.Equal(t, uint32(70000), s.IndexAt(0))
}

func TestParseKind(t *testing.T) {
	for k := Kind(0); k < MaxKind; k++ {
		have, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, have)
	}
	k, err := ParseKind("texcoord2")
	require.NoError(t, err)
	assert.Equal(t, TexCoord2, k)
	_, err = ParseKind("tangent")
	assert.Error(t, err)
	assert.Panics(t, func() { TexCoord(MaxTexUnit) })
}
