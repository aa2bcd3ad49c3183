// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package vertex

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/gviegas/scenegraph/driver"
)

// Kind identifies a vertex attribute array of a Store.
type Kind int

// Kinds.
const (
	Location Kind = iota
	Normal
	Color4F
	Color4B
	TexCoord0
	TexCoord1
	TexCoord2
	TexCoord3
	Index

	MaxKind = iota
)

// MaxTexUnit is the number of texture units that can
// have their own texture coordinates.
const MaxTexUnit = int(TexCoord3-TexCoord0) + 1

// TexCoord returns the Kind holding texture coordinates
// for the given texture unit.
func TexCoord(unit int) Kind {
	if unit < 0 || unit >= MaxTexUnit {
		panic("invalid texture unit")
	}
	return TexCoord0 + Kind(unit)
}

// IsTexCoord reports whether k is one of the texture
// coordinate kinds.
func (k Kind) IsTexCoord() bool { return k >= TexCoord0 && k <= TexCoord3 }

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Location:
		return "Location"
	case Normal:
		return "Normal"
	case Color4F:
		return "Color4F"
	case Color4B:
		return "Color4B"
	case TexCoord0:
		return "TexCoord0"
	case TexCoord1:
		return "TexCoord1"
	case TexCoord2:
		return "TexCoord2"
	case TexCoord3:
		return "TexCoord3"
	case Index:
		return "Index"
	default:
		return "[!] invalid Kind value"
	}
}

// ParseKind returns the Kind whose String is s.
// Matching is case insensitive.
func ParseKind(s string) (Kind, error) {
	for k := Kind(0); k < MaxKind; k++ {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return 0, errors.Errorf(prefix+"unknown kind %q", s)
}

// usage returns the driver.Usage of GPU buffers holding
// k's data.
func (k Kind) usage() driver.Usage {
	if k == Index {
		return driver.UIndexData
	}
	return driver.UVertexData
}

// format returns the format that typed setters use for k.
func (k Kind) format() Format {
	switch {
	case k == Location, k == Normal:
		return Float32x3
	case k == Color4F:
		return Float32x4
	case k == Color4B:
		return Unorm8x4
	case k.IsTexCoord():
		return Float32x2
	case k == Index:
		return Uint16
	default:
		panic("invalid Kind value")
	}
}

// Format is the format of a single element of a vertex
// attribute array.
type Format int

// Formats.
const (
	Float32x2 Format = iota
	Float32x3
	Float32x4
	Unorm8x4
	Uint16
	Uint32
)

// Size returns the size in bytes of an element.
func (f Format) Size() int {
	switch f {
	case Float32x2:
		return 8
	case Float32x3:
		return 12
	case Float32x4:
		return 16
	case Unorm8x4:
		return 4
	case Uint16:
		return 2
	case Uint32:
		return 4
	default:
		panic("invalid Format value")
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case Float32x2:
		return "Float32x2"
	case Float32x3:
		return "Float32x3"
	case Float32x4:
		return "Float32x4"
	case Unorm8x4:
		return "Unorm8x4"
	case Uint16:
		return "Uint16"
	case Uint32:
		return "Uint32"
	default:
		return "[!] invalid Format value"
	}
}
