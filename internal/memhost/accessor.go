package memhost

import (
	"fmt"

	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/mathutil"
)

// meshAccessor is a generation-stamped read view. Any use after the layer
// commits an edit panics: the real host invalidates accessors on commit
// and reusing one is a codec bug, not a runtime condition.
type meshAccessor struct {
	l   *Layer
	gen int
}

func (m *meshAccessor) check() {
	if m.gen != m.l.gen {
		panic("memhost: mesh accessor used after commit")
	}
}

func (m *meshAccessor) Vertices() []hostmesh.VertRef {
	m.check()
	out := make([]hostmesh.VertRef, len(m.l.verts))
	for i := range out {
		out[i] = hostmesh.VertRef(i)
	}
	return out
}

func (m *meshAccessor) Position(v hostmesh.VertRef) mathutil.Vec3 {
	m.check()
	return m.l.verts[v]
}

func (m *meshAccessor) VertSelected(v hostmesh.VertRef) bool {
	m.check()
	return m.l.selVert[v]
}

func (m *meshAccessor) Edges() []hostmesh.EdgeRef {
	m.check()
	out := make([]hostmesh.EdgeRef, len(m.l.edges))
	for i := range out {
		out[i] = hostmesh.EdgeRef(i)
	}
	return out
}

func (m *meshAccessor) EdgeEnds(e hostmesh.EdgeRef) (hostmesh.VertRef, hostmesh.VertRef) {
	m.check()
	pair := m.l.edges[e]
	return pair[0], pair[1]
}

func (m *meshAccessor) Polygons() []hostmesh.PolyRef {
	m.check()
	out := make([]hostmesh.PolyRef, len(m.l.polys))
	for i := range out {
		out[i] = hostmesh.PolyRef(i)
	}
	return out
}

func (m *meshAccessor) PolygonKind(p hostmesh.PolyRef) hostmesh.PolygonKind {
	m.check()
	return m.l.polys[p].kind
}

func (m *meshAccessor) PolygonVerts(p hostmesh.PolyRef) []hostmesh.VertRef {
	m.check()
	return m.l.polys[p].verts
}

func (m *meshAccessor) PolySelected(p hostmesh.PolyRef) bool {
	m.check()
	return m.l.selPoly[p]
}

func (m *meshAccessor) MaterialTag(p hostmesh.PolyRef) string {
	m.check()
	return m.l.polys[p].tag
}

func (m *meshAccessor) Maps() []hostmesh.MapInfo {
	m.check()
	out := make([]hostmesh.MapInfo, len(m.l.maps))
	for i, ml := range m.l.maps {
		out[i] = ml.info
	}
	return out
}

func (m *meshAccessor) mapByID(id hostmesh.MapID) *mapLayer {
	if int(id) < 0 || int(id) >= len(m.l.maps) {
		panic(fmt.Sprintf("memhost: unknown map id %d", id))
	}
	return m.l.maps[id]
}

func (m *meshAccessor) VertMapValue(id hostmesh.MapID, v hostmesh.VertRef) ([]float64, bool) {
	m.check()
	vals, ok := m.mapByID(id).vert[v]
	return vals, ok
}

func (m *meshAccessor) EdgeMapValue(id hostmesh.MapID, e hostmesh.EdgeRef) ([]float64, bool) {
	m.check()
	vals, ok := m.mapByID(id).edge[e]
	return vals, ok
}

func (m *meshAccessor) PolyMapValue(id hostmesh.MapID, p hostmesh.PolyRef) ([]float64, bool) {
	m.check()
	vals, ok := m.mapByID(id).poly[p]
	return vals, ok
}

func (m *meshAccessor) CornerMapValue(id hostmesh.MapID, p hostmesh.PolyRef, v hostmesh.VertRef) ([]float64, bool) {
	m.check()
	vals, ok := m.mapByID(id).corner[cornerKey{p, v}]
	return vals, ok
}
