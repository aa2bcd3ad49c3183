// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package vertex

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/gviegas/scenegraph/driver"
	"github.com/gviegas/scenegraph/internal/bitvec"
)

// Span identifies a range of a GPU buffer.
type Span struct {
	Buf driver.Buffer
	Off int64
	Len int64
}

// Valid returns whether s refers to a buffer.
func (s Span) Valid() bool { return s.Buf != nil }

// Bytes returns the span's range of the buffer's memory.
// If the buffer is not host visible, it returns nil.
func (s Span) Bytes() []byte {
	b := s.Buf.Bytes()
	if b == nil {
		return nil
	}
	return b[s.Off : s.Off+s.Len]
}

// String implements fmt.Stringer.
func (s Span) String() string {
	return fmt.Sprintf("{%d(%dB)}", s.Off, s.Len)
}

// Allocator is the interface that provides GPU memory
// for vertex data.
type Allocator interface {
	// Alloc allocates a span of at least size bytes.
	// The span's buffer must be host visible.
	Alloc(size int, usg driver.Usage) (Span, error)

	// Free releases a span created by Alloc.
	Free(s Span)
}

// Dedicated is an Allocator that creates a separate
// buffer for every span.
type Dedicated struct {
	GPU driver.GPU
}

// Alloc implements Allocator.
func (d Dedicated) Alloc(size int, usg driver.Usage) (Span, error) {
	buf, err := d.GPU.NewBuffer(int64(size), true, usg)
	if err != nil {
		return Span{}, errors.Wrap(err, prefix+"dedicated allocation failed")
	}
	return Span{Buf: buf, Len: int64(size)}, nil
}

// Free implements Allocator.
func (Dedicated) Free(s Span) {
	if s.Buf != nil {
		s.Buf.Destroy()
	}
}

const (
	// Size of an Arena block in bytes.
	arenaBlock = 512
	// Number of blocks tracked by a bitvec.V element.
	arenaNBit = 32

	// ArenaGranularity is the granularity of an Arena's
	// capacity.
	ArenaGranularity = arenaBlock * arenaNBit
)

// Arena is an Allocator that sub-allocates spans from
// a single host-visible buffer.
// It is safe for concurrent use.
type Arena struct {
	mu     sync.Mutex
	buf    driver.Buffer
	blocks bitvec.V[uint32]
}

// NewArena creates a new Arena whose buffer has size
// bytes of capacity.
// size must be a positive multiple of ArenaGranularity
// and must not exceed the GPU's MaxBuffer limit.
// Spans start at block boundaries, so the GPU's
// BufferAlign limit must divide the block size.
func NewArena(gpu driver.GPU, size int64) (*Arena, error) {
	n := size / ArenaGranularity
	if n <= 0 || size != n*ArenaGranularity {
		return nil, errors.Errorf(prefix+"invalid arena size %d", size)
	}
	lim := gpu.Limits()
	if size > lim.MaxBuffer {
		return nil, errors.Errorf(prefix+"arena size %d exceeds buffer limit %d", size, lim.MaxBuffer)
	}
	if lim.BufferAlign > 0 && arenaBlock%lim.BufferAlign != 0 {
		return nil, errors.Errorf(prefix+"buffer alignment %d not supported by arena", lim.BufferAlign)
	}
	buf, err := gpu.NewBuffer(size, true, driver.UVertexData|driver.UIndexData)
	if err != nil {
		return nil, errors.Wrap(err, prefix+"arena buffer creation failed")
	}
	a := &Arena{buf: buf}
	a.blocks.Grow(int(n))
	return a, nil
}

func nblock(size int64) int { return int((size + arenaBlock - 1) / arenaBlock) }

// Alloc implements Allocator.
// It fails with ErrArenaFull if no contiguous range of
// blocks can hold size bytes.
func (a *Arena) Alloc(size int, _ driver.Usage) (Span, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buf == nil {
		return Span{}, errors.Wrap(driver.ErrClosed, prefix+"arena destroyed")
	}
	ns := nblock(int64(size))
	is, ok := a.blocks.SearchRange(ns)
	if !ok {
		return Span{}, errors.Wrapf(ErrArenaFull, prefix+"no room for %d bytes", size)
	}
	a.blocks.SetRange(is, ns)
	return Span{Buf: a.buf, Off: int64(is) * arenaBlock, Len: int64(size)}, nil
}

// Free implements Allocator.
// Spans not allocated from a are ignored.
func (a *Arena) Free(s Span) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s.Buf == nil || s.Buf != a.buf {
		return
	}
	a.blocks.UnsetRange(int(s.Off/arenaBlock), nblock(s.Len))
}

// Avail returns the number of unused bytes.
// They need not be contiguous.
func (a *Arena) Avail() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int64(a.blocks.Rem()) * arenaBlock
}

// Buffer returns the arena's buffer.
func (a *Arena) Buffer() driver.Buffer { return a.buf }

// Destroy destroys the arena's buffer.
// Spans allocated from a become invalid.
func (a *Arena) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buf != nil {
		a.buf.Destroy()
		a.buf = nil
		a.blocks.Clear()
	}
}
