// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package vertex

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"

	"github.com/gviegas/scenegraph/linear"
)

// Element data is little-endian, matching what GPUs
// consume.

// decode decodes one element of format f from b.
// Components absent from f are zero.
func (f Format) decode(b []byte) (v linear.V4) {
	switch f {
	case Float32x2, Float32x3, Float32x4:
		n := f.Size() / 4
		for i := 0; i < n; i++ {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		}
	case Unorm8x4:
		for i := 0; i < 4; i++ {
			v[i] = float32(b[i]) / 255
		}
	case Uint16:
		v[0] = float32(binary.LittleEndian.Uint16(b))
	case Uint32:
		v[0] = float32(binary.LittleEndian.Uint32(b))
	default:
		panic("invalid Format value")
	}
	return
}

// encode encodes v as one element of format f into b.
// Unorm8x4 components are clamped to [0, 1].
func (f Format) encode(b []byte, v linear.V4) {
	switch f {
	case Float32x2, Float32x3, Float32x4:
		n := f.Size() / 4
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v[i]))
		}
	case Unorm8x4:
		for i := 0; i < 4; i++ {
			b[i] = uint8(math32.Round(min(max(v[i], 0), 1) * 255))
		}
	case Uint16:
		binary.LittleEndian.PutUint16(b, uint16(v[0]))
	case Uint32:
		binary.LittleEndian.PutUint32(b, uint32(v[0]))
	default:
		panic("invalid Format value")
	}
}

// decodeIndex decodes an index without going through
// float32, which cannot represent every uint32.
func (f Format) decodeIndex(b []byte) uint32 {
	switch f {
	case Uint16:
		return uint32(binary.LittleEndian.Uint16(b))
	case Uint32:
		return binary.LittleEndian.Uint32(b)
	default:
		return uint32(f.decode(b)[0])
	}
}

func (f Format) encodeIndex(b []byte, x uint32) {
	switch f {
	case Uint16:
		binary.LittleEndian.PutUint16(b, uint16(x))
	case Uint32:
		binary.LittleEndian.PutUint32(b, x)
	default:
		f.encode(b, linear.V4{float32(x)})
	}
}

func encodeV3(s []linear.V3) []byte {
	b := make([]byte, len(s)*12)
	for i, v := range s {
		Float32x3.encode(b[i*12:], v.Vec4(0))
	}
	return b
}

func encodeV4(s []linear.V4) []byte {
	b := make([]byte, len(s)*16)
	for i, v := range s {
		Float32x4.encode(b[i*16:], v)
	}
	return b
}

func encodeV2(s []linear.V2) []byte {
	b := make([]byte, len(s)*8)
	for i, v := range s {
		Float32x2.encode(b[i*8:], linear.V4{v[0], v[1]})
	}
	return b
}
