// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitvec defines a bit vector type used to track
// block usage in GPU buffer sub-allocation.
package bitvec

import (
	"unsafe"
)

// Uint represents the granularity of a bit vector.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// V is a growable bit vector with custom granularity.
// A set bit marks a block in use.
type V[T Uint] struct {
	s   []T
	rem int
}

// nbit returns the number of bits in T.
func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return len(v.s) * v.nbit() }

// Rem returns the number of unset bits in the vector.
func (v *V[_]) Rem() int { return v.rem }

// Grow resizes the vector to contain nplus additional Uints.
// The new extent is appended as a contiguous range of unset
// bits.
// It returns the value of v.Len prior to growing.
func (v *V[T]) Grow(nplus int) (index int) {
	index = v.Len()
	if nplus > 0 {
		v.rem += nplus * v.nbit()
		v.s = append(v.s, make([]T, nplus)...)
	}
	return
}

// Set sets a given bit.
func (v *V[T]) Set(index int) {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

// Unset unsets a given bit.
func (v *V[T]) Unset(index int) {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

// SetRange sets the bits in [index, index+n).
func (v *V[T]) SetRange(index, n int) {
	for i := index; i < index+n; i++ {
		v.Set(i)
	}
}

// UnsetRange unsets the bits in [index, index+n).
func (v *V[T]) UnsetRange(index, n int) {
	for i := index; i < index+n; i++ {
		v.Unset(i)
	}
}

// IsSet checks whether a given bit is set.
func (v *V[T]) IsSet(index int) bool {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	return v.s[i]&b != 0
}

// Search attempts to locate an unset bit in the vector.
// It fails only when v.Rem() == 0.
func (v *V[T]) Search() (index int, ok bool) {
	if v.Rem() == 0 {
		return
	}
	for i, x := range v.s {
		if x == ^T(0) {
			continue
		}
		var b int
		for ; x&(1<<b) != 0; b++ {
		}
		return i*v.nbit() + b, true
	}
	return
}

// SearchRange attempts to locate a contiguous range of n
// unset bits, returning the first (lowest) such range.
// If ok is true, then every bit in [index, index+n) is unset.
// It calls Search if n <= 1.
func (v *V[T]) SearchRange(n int) (index int, ok bool) {
	if n <= 1 {
		return v.Search()
	}
	if v.Rem() < n {
		return
	}
	nb := v.nbit()
	var cnt, start int
	for i, x := range v.s {
		switch x {
		case ^T(0):
			cnt = 0
			continue
		case 0:
			if cnt == 0 {
				start = i * nb
			}
			cnt += nb
			if cnt >= n {
				return start, true
			}
			continue
		}
		for b := 0; b < nb; b++ {
			if x&(1<<b) != 0 {
				cnt = 0
				continue
			}
			if cnt == 0 {
				start = i*nb + b
			}
			cnt++
			if cnt >= n {
				return start, true
			}
		}
	}
	return
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	clear(v.s)
	v.rem = v.Len()
}
