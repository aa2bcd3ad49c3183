// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package loader

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/vertex"
)

// MeshStore returns the vertex data of the given
// primitive of the given mesh.
// The Store is created on first use and cached.
func (l *Loader) MeshStore(mesh, prim int) (*vertex.Store, error) {
	key := [2]int{mesh, prim}
	if s, ok := l.stores[key]; ok {
		return s, nil
	}
	if mesh < 0 || mesh >= len(l.doc.Meshes) {
		return nil, errors.Errorf(prefix+"mesh %d out of range", mesh)
	}
	m := l.doc.Meshes[mesh]
	if prim < 0 || prim >= len(m.Primitives) {
		return nil, errors.Errorf(prefix+"mesh %d: primitive %d out of range", mesh, prim)
	}
	s, err := l.store(m.Primitives[prim])
	if err != nil {
		return nil, errors.Wrapf(err, prefix+"mesh %d (%s) primitive %d", mesh, m.Name, prim)
	}
	l.stores[key] = s
	return s, nil
}

func (l *Loader) accessor(i uint32) (*gltf.Accessor, error) {
	if int(i) >= len(l.doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", i)
	}
	return l.doc.Accessors[i], nil
}

func (l *Loader) store(p *gltf.Primitive) (*vertex.Store, error) {
	if p.Mode != gltf.PrimitiveTriangles {
		return nil, errors.Errorf("unsupported primitive mode %v", p.Mode)
	}
	ai, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("primitive has no POSITION")
	}
	s := vertex.New()
	acr, err := l.accessor(ai)
	if err != nil {
		return nil, err
	}
	pos, err := modeler.ReadPosition(l.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "read POSITION")
	}
	s.SetLocations(v3s(pos))
	count := len(pos)

	if ai, ok := p.Attributes[gltf.NORMAL]; ok {
		acr, err := l.accessor(ai)
		if err != nil {
			return nil, err
		}
		nrm, err := modeler.ReadNormal(l.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "read NORMAL")
		}
		if len(nrm) != count {
			return nil, errors.Errorf("NORMAL count %d differs from POSITION count %d", len(nrm), count)
		}
		s.SetNormals(v3s(nrm))
	}

	for unit := 0; unit < vertex.MaxTexUnit; unit++ {
		ai, ok := p.Attributes[fmt.Sprintf("TEXCOORD_%d", unit)]
		if !ok {
			continue
		}
		acr, err := l.accessor(ai)
		if err != nil {
			return nil, err
		}
		uv, err := modeler.ReadTextureCoord(l.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "read TEXCOORD_%d", unit)
		}
		if len(uv) != count {
			return nil, errors.Errorf("TEXCOORD_%d count %d differs from POSITION count %d", unit, len(uv), count)
		}
		v := make([]linear.V2, len(uv))
		for i := range uv {
			v[i] = uv[i]
		}
		s.SetTexCoords(unit, v)
	}

	if ai, ok := p.Attributes[gltf.COLOR_0]; ok {
		acr, err := l.accessor(ai)
		if err != nil {
			return nil, err
		}
		col, err := modeler.ReadColor(l.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "read COLOR_0")
		}
		if len(col) != count {
			return nil, errors.Errorf("COLOR_0 count %d differs from POSITION count %d", len(col), count)
		}
		s.SetColors4B(col)
	}

	if p.Indices != nil {
		acr, err := l.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		idx, err := modeler.ReadIndices(l.doc, acr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "read indices")
		}
		if err := setIndices(s, idx, count); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// setIndices stores idx in s as 16-bit indices if every
// vertex is addressable by them, and as 32-bit indices
// otherwise.
func setIndices(s *vertex.Store, idx []uint32, count int) error {
	for _, x := range idx {
		if int(x) >= count {
			return errors.Errorf("index %d out of range [0, %d)", x, count)
		}
	}
	if count > 1<<16 {
		s.SetIndices32(idx)
		return nil
	}
	i16 := make([]uint16, len(idx))
	for i, x := range idx {
		i16[i] = uint16(x)
	}
	s.SetIndices(i16)
	return nil
}

func v3s(s [][3]float32) []linear.V3 {
	v := make([]linear.V3, len(s))
	for i := range s {
		v[i] = s[i]
	}
	return v
}
