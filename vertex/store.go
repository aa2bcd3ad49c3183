// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package vertex implements storage of mesh vertex data.
//
// A Store holds one attribute array per Kind. Arrays are
// populated in bulk (usually by a loader), copied to GPU
// memory on demand and then, optionally, released from
// CPU memory.
package vertex

import (
	"github.com/pkg/errors"

	"github.com/gviegas/scenegraph/internal/logx"
)

const prefix = "vertex: "

var (
	// ErrDataUnavailable means that an attribute's CPU data
	// was released. Element access panics with an error
	// wrapping it.
	ErrDataUnavailable = errors.New(prefix + "data unavailable")

	// ErrAlreadyAligned is returned by AlignTexCoords when
	// called more than once for the same texture unit.
	ErrAlreadyAligned = errors.New(prefix + "texture coordinates already aligned")

	// ErrArenaFull means that an Arena could not fit a
	// new span.
	ErrArenaFull = errors.New(prefix + "arena is full")
)

// attribute is a single vertex attribute array.
type attribute struct {
	format Format
	stride int
	offset int
	count  int
	// CPU data. nil when never set or released.
	data []byte
	// Whether data was ever set.
	present bool

	span  Span
	alloc Allocator

	retain bool
	skip   bool
}

func (a *attribute) buffered() bool { return a.span.Valid() }

// Store is a collection of vertex attribute arrays.
// The zero value is an empty Store ready for use.
//
// Store is not safe for concurrent use. A single Store
// may be shared by any number of nodes.
type Store struct {
	attrs   [MaxKind]attribute
	aligned [MaxTexUnit]bool
	texRect [MaxTexUnit]Rect
}

// New creates a new, empty Store.
func New() *Store { return new(Store) }

// SetData replaces the data of the given kind.
// Elements are read from data at offset + i*stride.
// If stride is 0, elements are assumed to be tightly
// packed. data is used directly (not copied).
// Any GPU span for kind is freed.
func (s *Store) SetData(kind Kind, f Format, data []byte, count, stride, offset int) error {
	if kind < 0 || kind >= MaxKind {
		return errors.Errorf(prefix+"invalid kind %d", kind)
	}
	if stride == 0 {
		stride = f.Size()
	}
	switch {
	case count < 0 || offset < 0:
		return errors.Errorf(prefix+"%s: invalid count/offset (%d/%d)", kind, count, offset)
	case stride < f.Size():
		return errors.Errorf(prefix+"%s: stride %d smaller than %s", kind, stride, f)
	case count > 0 && len(data) < offset+(count-1)*stride+f.Size():
		return errors.Errorf(prefix+"%s: %d bytes cannot hold %d elements", kind, len(data), count)
	}
	a := &s.attrs[kind]
	s.free(kind, a)
	a.format = f
	a.stride = stride
	a.offset = offset
	a.count = count
	a.data = data
	a.present = true
	if kind.IsTexCoord() {
		s.aligned[kind-TexCoord0] = false
		s.texRect[kind-TexCoord0] = Rect{}
	}
	return nil
}

func (s *Store) setPacked(kind Kind, data []byte, count int) {
	if err := s.SetData(kind, kind.format(), data, count, 0, 0); err != nil {
		panic(err)
	}
}

// Has returns whether data of the given kind was set.
// Released data still counts.
func (s *Store) Has(kind Kind) bool { return s.attrs[kind].present }

// Available returns whether elements of the given kind
// can be accessed from the CPU.
func (s *Store) Available(kind Kind) bool { return s.attrs[kind].data != nil }

// Buffered returns whether data of the given kind is
// stored in GPU memory.
func (s *Store) Buffered(kind Kind) bool { return s.attrs[kind].buffered() }

// Span returns the GPU span holding data of the given
// kind, if any.
func (s *Store) Span(kind Kind) (Span, bool) {
	a := &s.attrs[kind]
	return a.span, a.buffered()
}

// Format returns the format of the given kind.
func (s *Store) Format(kind Kind) Format { return s.attrs[kind].format }

// Stride returns the distance in bytes between
// consecutive elements of the given kind.
func (s *Store) Stride(kind Kind) int { return s.attrs[kind].stride }

// Count returns the number of elements of the given kind.
func (s *Store) Count(kind Kind) int { return s.attrs[kind].count }

// VertexCount returns the number of vertices.
func (s *Store) VertexCount() int { return s.attrs[Location].count }

// IndexCount returns the number of indices.
func (s *Store) IndexCount() int { return s.attrs[Index].count }

// Retain marks the given kind so ReleaseRedundantData
// keeps its CPU data.
func (s *Store) Retain(kind Kind) { s.attrs[kind].retain = true }

// Retained returns whether Retain was called for kind.
func (s *Store) Retained(kind Kind) bool { return s.attrs[kind].retain }

// RetainAll calls Retain for every kind.
func (s *Store) RetainAll() {
	for i := range s.attrs {
		s.attrs[i].retain = true
	}
}

// SkipBuffering marks the given kind so CreateGPUBuffers
// does not copy it to GPU memory.
func (s *Store) SkipBuffering(kind Kind) { s.attrs[kind].skip = true }

// Skipped returns whether SkipBuffering was called for
// kind.
func (s *Store) Skipped(kind Kind) bool { return s.attrs[kind].skip }

// SkipAll calls SkipBuffering for every kind.
func (s *Store) SkipAll() {
	for i := range s.attrs {
		s.attrs[i].skip = true
	}
}

// CreateGPUBuffers copies to GPU memory every attribute
// array that has CPU data, is not yet buffered and was
// not marked with SkipBuffering.
// Calling it again has no effect on already buffered
// kinds.
func (s *Store) CreateGPUBuffers(alloc Allocator) error {
	for k := Kind(0); k < MaxKind; k++ {
		a := &s.attrs[k]
		if a.buffered() || a.skip || len(a.data) == 0 || a.count == 0 {
			continue
		}
		n := a.offset + (a.count-1)*a.stride + a.format.Size()
		span, err := alloc.Alloc(n, k.usage())
		if err != nil {
			return errors.Wrapf(err, prefix+"%s", k)
		}
		dst := span.Bytes()
		if dst == nil {
			alloc.Free(span)
			return errors.Errorf(prefix+"%s: span is not host visible", k)
		}
		copy(dst, a.data[:n])
		a.span = span
		a.alloc = alloc
		logx.L().Debug("vertex buffer created", "kind", k, "span", span)
	}
	return nil
}

// DeleteGPUBuffers frees every GPU span.
// CPU data is not affected, so kinds whose data was
// released become unavailable.
func (s *Store) DeleteGPUBuffers() {
	for k := Kind(0); k < MaxKind; k++ {
		a := &s.attrs[k]
		if !a.buffered() {
			continue
		}
		if a.data == nil {
			logx.L().Warn("deleting the only copy of vertex data", "kind", k)
		}
		s.free(k, a)
	}
}

func (s *Store) free(k Kind, a *attribute) {
	if !a.buffered() {
		return
	}
	a.alloc.Free(a.span)
	logx.L().Debug("vertex buffer deleted", "kind", k, "span", a.span)
	a.span = Span{}
	a.alloc = nil
}

// ReleaseRedundantData releases CPU data of every kind
// that is buffered and was marked with neither Retain nor
// SkipBuffering.
func (s *Store) ReleaseRedundantData() {
	for k := Kind(0); k < MaxKind; k++ {
		a := &s.attrs[k]
		if a.buffered() && !a.retain && !a.skip && a.data != nil {
			a.data = nil
			logx.L().Debug("vertex data released", "kind", k)
		}
	}
}
