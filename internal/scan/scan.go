// Package scan builds the dense, selection-scoped index space over host
// mesh elements that every document index field is expressed in.
package scan

import (
	"errors"

	"mesh-clipboard/internal/hostmesh"
)

// ErrNoSelection means nothing is exportable: the mesh has no eligible
// polygons even after the all-polygons fallback.
var ErrNoSelection = errors.New("scan: nothing selected and no eligible polygons")

// Index is the dense 0..n-1 space assigned in host iteration order to
// the elements passing the selection predicate.
type Index struct {
	Verts []hostmesh.VertRef
	Edges []hostmesh.EdgeRef
	Polys []hostmesh.PolyRef

	// Fallback is set when the active mode's selection was empty and the
	// export degraded to every eligible polygon in the mesh.
	Fallback bool

	vertIdx map[hostmesh.VertRef]int
	polyIdx map[hostmesh.PolyRef]int
}

// VertIndex maps a host vertex handle to its dense index.
func (x *Index) VertIndex(v hostmesh.VertRef) (int, bool) {
	i, ok := x.vertIdx[v]
	return i, ok
}

// PolyIndex maps a host polygon handle to its dense index.
func (x *Index) PolyIndex(p hostmesh.PolyRef) (int, bool) {
	i, ok := x.polyIdx[p]
	return i, ok
}

// Build scans the mesh once per element class. Edges qualify only when
// both endpoints independently pass the vertex predicate; polygons only
// when marked and of a renderable kind. With zero selected elements in
// the active mode, the scan falls back to the whole mesh.
func Build(m hostmesh.Mesh, mode hostmesh.SelectionMode) (*Index, error) {
	x := collect(m, func(v hostmesh.VertRef) bool { return m.VertSelected(v) },
		func(p hostmesh.PolyRef) bool { return m.PolySelected(p) })

	empty := false
	switch mode {
	case hostmesh.SelectVertex:
		empty = len(x.Verts) == 0
	case hostmesh.SelectEdge:
		empty = len(x.Edges) == 0
	default:
		empty = len(x.Polys) == 0
	}

	if empty {
		x = collect(m, func(hostmesh.VertRef) bool { return true },
			func(hostmesh.PolyRef) bool { return true })
		x.Fallback = true
	}

	if len(x.Polys) == 0 && len(x.Verts) == 0 {
		return nil, ErrNoSelection
	}
	return x, nil
}

func collect(m hostmesh.Mesh, vertSel func(hostmesh.VertRef) bool, polySel func(hostmesh.PolyRef) bool) *Index {
	x := &Index{
		vertIdx: map[hostmesh.VertRef]int{},
		polyIdx: map[hostmesh.PolyRef]int{},
	}

	for _, v := range m.Vertices() {
		if vertSel(v) {
			x.vertIdx[v] = len(x.Verts)
			x.Verts = append(x.Verts, v)
		}
	}

	for _, e := range m.Edges() {
		a, b := m.EdgeEnds(e)
		if vertSel(a) && vertSel(b) {
			x.Edges = append(x.Edges, e)
		}
	}

	for _, p := range m.Polygons() {
		if !m.PolygonKind(p).Renderable() {
			continue
		}
		if polySel(p) {
			x.polyIdx[p] = len(x.Polys)
			x.Polys = append(x.Polys, p)
		}
	}
	return x
}
