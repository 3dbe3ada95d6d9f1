package memhost

import (
	"fmt"

	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/mathutil"
)

// edit is one atomic edit transaction. Mutations land in the layer's
// staging state; Commit publishes them and bumps the generation, which
// invalidates every accessor acquired earlier. Edge handles resolve only
// against topology committed before this transaction began.
type edit struct {
	l         *Layer
	baseEdges int
	begun     bool
	done      bool
}

func (e *edit) begin() {
	if !e.begun {
		e.baseEdges = len(e.l.edges)
		e.begun = true
	}
}

func (e *edit) checkOpen() error {
	if e.done {
		return fmt.Errorf("memhost: edit used after commit")
	}
	e.begin()
	return nil
}

func (e *edit) Clear() {
	if err := e.checkOpen(); err != nil {
		panic(err)
	}
	l := e.l
	l.verts = nil
	l.selVert = nil
	l.polys = nil
	l.selPoly = nil
	l.edges = nil
	l.edgeIdx = map[[2]hostmesh.VertRef]hostmesh.EdgeRef{}
	l.maps = nil
	e.baseEdges = 0
}

func (e *edit) AddVertex(p mathutil.Vec3) hostmesh.VertRef {
	if err := e.checkOpen(); err != nil {
		panic(err)
	}
	return e.l.AddVertexDirect(p)
}

func (e *edit) AddPolygon(verts []hostmesh.VertRef) (hostmesh.PolyRef, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	if len(verts) < 3 {
		return 0, fmt.Errorf("memhost: polygon needs at least 3 vertices, got %d", len(verts))
	}
	for _, v := range verts {
		if int(v) < 0 || int(v) >= len(e.l.verts) {
			return 0, fmt.Errorf("memhost: polygon references unknown vertex %d", v)
		}
	}
	own := make([]hostmesh.VertRef, len(verts))
	copy(own, verts)
	return e.l.AddPolygonDirect(hostmesh.KindFace, "", own...), nil
}

func (e *edit) SetMaterialTag(p hostmesh.PolyRef, tag string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if int(p) < 0 || int(p) >= len(e.l.polys) {
		return fmt.Errorf("memhost: no polygon %d", p)
	}
	e.l.polys[p].tag = tag
	return nil
}

func (e *edit) EnsureMap(t hostmesh.MapType, d hostmesh.Domain, name string) (hostmesh.MapID, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	id, _ := e.l.ensureMap(t, d, name)
	return id, nil
}

func (e *edit) mapByID(id hostmesh.MapID) (*mapLayer, error) {
	if int(id) < 0 || int(id) >= len(e.l.maps) {
		return nil, fmt.Errorf("memhost: unknown map id %d", id)
	}
	return e.l.maps[id], nil
}

func (e *edit) checkValue(m *mapLayer, vals []float64) error {
	if len(vals) != m.info.Type.Dim() {
		return fmt.Errorf("memhost: map %q wants %d values, got %d", m.info.Name, m.info.Type.Dim(), len(vals))
	}
	return nil
}

func (e *edit) SetVertMapValue(id hostmesh.MapID, v hostmesh.VertRef, vals []float64) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	m, err := e.mapByID(id)
	if err != nil {
		return err
	}
	if err := e.checkValue(m, vals); err != nil {
		return err
	}
	if int(v) < 0 || int(v) >= len(e.l.verts) {
		return fmt.Errorf("memhost: no vertex %d", v)
	}
	m.vert[v] = vals
	return nil
}

func (e *edit) SetEdgeMapValue(id hostmesh.MapID, eg hostmesh.EdgeRef, vals []float64) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	m, err := e.mapByID(id)
	if err != nil {
		return err
	}
	if err := e.checkValue(m, vals); err != nil {
		return err
	}
	// edge-keyed writes are only well-defined against committed topology
	if int(eg) < 0 || int(eg) >= e.baseEdges {
		return fmt.Errorf("memhost: edge %d not committed", eg)
	}
	m.edge[eg] = vals
	return nil
}

func (e *edit) SetPolyMapValue(id hostmesh.MapID, p hostmesh.PolyRef, vals []float64) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	m, err := e.mapByID(id)
	if err != nil {
		return err
	}
	if err := e.checkValue(m, vals); err != nil {
		return err
	}
	if int(p) < 0 || int(p) >= len(e.l.polys) {
		return fmt.Errorf("memhost: no polygon %d", p)
	}
	m.poly[p] = vals
	return nil
}

func (e *edit) SetCornerMapValue(id hostmesh.MapID, p hostmesh.PolyRef, v hostmesh.VertRef, vals []float64) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	m, err := e.mapByID(id)
	if err != nil {
		return err
	}
	if err := e.checkValue(m, vals); err != nil {
		return err
	}
	if int(p) < 0 || int(p) >= len(e.l.polys) {
		return fmt.Errorf("memhost: no polygon %d", p)
	}
	m.corner[cornerKey{p, v}] = vals
	return nil
}

func (e *edit) LookupEdge(a, b hostmesh.VertRef) (hostmesh.EdgeRef, bool) {
	if err := e.checkOpen(); err != nil {
		return 0, false
	}
	ref, ok := e.l.edgeIdx[edgeKey(a, b)]
	if !ok || int(ref) >= e.baseEdges {
		return 0, false
	}
	return ref, true
}

func (e *edit) Commit() error {
	if e.done {
		return fmt.Errorf("memhost: double commit")
	}
	e.done = true
	e.l.gen++
	return nil
}
