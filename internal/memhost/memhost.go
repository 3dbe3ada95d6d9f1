// Package memhost is an in-memory implementation of the hostmesh
// capability interfaces. It backs the package tests and the CLI tools,
// and enforces the accessor-invalidation contract: read accessors are
// generation-stamped and panic when used across a commit.
package memhost

import (
	"fmt"

	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/mathutil"
)

// Scene holds layers, materials and the active selection mode.
type Scene struct {
	layers    []*Layer
	materials []hostmesh.Material
	matAlive  []bool
	mode      hostmesh.SelectionMode
	active    int // index into layers, -1 none
}

func NewScene() *Scene {
	return &Scene{active: -1}
}

func (s *Scene) SetSelectionMode(m hostmesh.SelectionMode) { s.mode = m }

func (s *Scene) SelectionMode() hostmesh.SelectionMode { return s.mode }

// AddLayer creates a layer and makes it active.
func (s *Scene) AddLayer(name string) *Layer {
	l := &Layer{
		scene:  s,
		id:     hostmesh.LayerRef(len(s.layers)),
		name:   name,
		parent: -1,
		transform: hostmesh.Transform{
			Rotation: mathutil.QuatIdentity(),
			Scale:    mathutil.Vec3{1, 1, 1},
		},
		edgeIdx: map[[2]hostmesh.VertRef]hostmesh.EdgeRef{},
	}
	s.layers = append(s.layers, l)
	s.active = len(s.layers) - 1
	return l
}

func (s *Scene) Layers() []hostmesh.Layer {
	out := make([]hostmesh.Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l
	}
	return out
}

func (s *Scene) ActiveLayer() (hostmesh.Layer, bool) {
	if s.active < 0 || s.active >= len(s.layers) {
		return nil, false
	}
	return s.layers[s.active], true
}

func (s *Scene) CreateLayer(name string) (hostmesh.Layer, error) {
	return s.AddLayer(name), nil
}

func (s *Scene) Materials() []hostmesh.MaterialRef {
	var out []hostmesh.MaterialRef
	for i := range s.materials {
		if s.matAlive[i] {
			out = append(out, hostmesh.MaterialRef(i))
		}
	}
	return out
}

func (s *Scene) MaterialInfo(r hostmesh.MaterialRef) hostmesh.Material {
	return s.materials[r]
}

func (s *Scene) CreateMaterial(m hostmesh.Material) (hostmesh.MaterialRef, error) {
	s.materials = append(s.materials, m)
	s.matAlive = append(s.matAlive, true)
	return hostmesh.MaterialRef(len(s.materials) - 1), nil
}

func (s *Scene) RemoveMaterial(r hostmesh.MaterialRef) error {
	if int(r) < 0 || int(r) >= len(s.materials) || !s.matAlive[r] {
		return fmt.Errorf("memhost: no material %d", r)
	}
	s.matAlive[r] = false
	return nil
}

// Layer is one mesh layer. Geometry and attribute maps live in committed
// state; an Edit mutates them in place and bumps the generation on commit.
type Layer struct {
	scene     *Scene
	id        hostmesh.LayerRef
	name      string
	parent    hostmesh.LayerRef // -1 none
	transform hostmesh.Transform
	gen       int

	verts   []mathutil.Vec3
	selVert []bool

	polys   []polyRec
	selPoly []bool

	edges   [][2]hostmesh.VertRef
	edgeIdx map[[2]hostmesh.VertRef]hostmesh.EdgeRef

	maps []*mapLayer
}

type polyRec struct {
	kind  hostmesh.PolygonKind
	verts []hostmesh.VertRef
	tag   string
}

type cornerKey struct {
	p hostmesh.PolyRef
	v hostmesh.VertRef
}

type mapLayer struct {
	info   hostmesh.MapInfo
	vert   map[hostmesh.VertRef][]float64
	edge   map[hostmesh.EdgeRef][]float64
	poly   map[hostmesh.PolyRef][]float64
	corner map[cornerKey][]float64
}

func newMapLayer(info hostmesh.MapInfo) *mapLayer {
	return &mapLayer{
		info:   info,
		vert:   map[hostmesh.VertRef][]float64{},
		edge:   map[hostmesh.EdgeRef][]float64{},
		poly:   map[hostmesh.PolyRef][]float64{},
		corner: map[cornerKey][]float64{},
	}
}

func (l *Layer) ID() hostmesh.LayerRef { return l.id }

func (l *Layer) Name() string { return l.name }

func (l *Layer) Parent() (hostmesh.LayerRef, bool) {
	if l.parent < 0 {
		return 0, false
	}
	return l.parent, true
}

// SetParent links this layer under another (test/CLI setup helper).
func (l *Layer) SetParent(p *Layer) { l.parent = p.id }

func (l *Layer) Transform() hostmesh.Transform { return l.transform }

func (l *Layer) SetTransform(t hostmesh.Transform) { l.transform = t }

func (l *Layer) Mesh() (hostmesh.Mesh, error) {
	return &meshAccessor{l: l, gen: l.gen}, nil
}

func (l *Layer) BeginEdit() (hostmesh.Edit, error) {
	return &edit{l: l}, nil
}

// --- setup helpers used by tests and the CLI tools ---

// AddVertexDirect adds a vertex to committed state without a transaction.
func (l *Layer) AddVertexDirect(p mathutil.Vec3) hostmesh.VertRef {
	l.verts = append(l.verts, p)
	l.selVert = append(l.selVert, false)
	return hostmesh.VertRef(len(l.verts) - 1)
}

// AddPolygonDirect adds a polygon to committed state and registers its
// boundary edges.
func (l *Layer) AddPolygonDirect(kind hostmesh.PolygonKind, tag string, verts ...hostmesh.VertRef) hostmesh.PolyRef {
	l.polys = append(l.polys, polyRec{kind: kind, verts: verts, tag: tag})
	l.selPoly = append(l.selPoly, false)
	l.registerEdges(verts)
	return hostmesh.PolyRef(len(l.polys) - 1)
}

func (l *Layer) SelectVerts(refs ...hostmesh.VertRef) {
	for _, r := range refs {
		l.selVert[r] = true
	}
}

func (l *Layer) SelectPolys(refs ...hostmesh.PolyRef) {
	for _, r := range refs {
		l.selPoly[r] = true
		// host semantics: selecting the polygon marks its points too
		for _, v := range l.polys[r].verts {
			l.selVert[v] = true
		}
	}
}

// EnsureMapDirect adds an attribute layer to committed state.
func (l *Layer) EnsureMapDirect(t hostmesh.MapType, d hostmesh.Domain, name string) hostmesh.MapID {
	id, _ := l.ensureMap(t, d, name)
	return id
}

// SetVertValueDirect writes a vertex-keyed value into committed state.
func (l *Layer) SetVertValueDirect(id hostmesh.MapID, v hostmesh.VertRef, vals []float64) {
	l.maps[id].vert[v] = vals
}

// SetEdgeValueDirect writes an edge-keyed value into committed state.
func (l *Layer) SetEdgeValueDirect(id hostmesh.MapID, e hostmesh.EdgeRef, vals []float64) {
	l.maps[id].edge[e] = vals
}

// SetPolyValueDirect writes a polygon-keyed value into committed state.
func (l *Layer) SetPolyValueDirect(id hostmesh.MapID, p hostmesh.PolyRef, vals []float64) {
	l.maps[id].poly[p] = vals
}

// SetCornerValueDirect writes a corner-keyed value into committed state.
func (l *Layer) SetCornerValueDirect(id hostmesh.MapID, p hostmesh.PolyRef, v hostmesh.VertRef, vals []float64) {
	l.maps[id].corner[cornerKey{p, v}] = vals
}

// EdgeBetween resolves a committed edge by endpoints.
func (l *Layer) EdgeBetween(a, b hostmesh.VertRef) (hostmesh.EdgeRef, bool) {
	e, ok := l.edgeIdx[edgeKey(a, b)]
	return e, ok
}

func (l *Layer) ensureMap(t hostmesh.MapType, d hostmesh.Domain, name string) (hostmesh.MapID, bool) {
	for _, m := range l.maps {
		if m.info.Type == t && m.info.Name == name {
			return m.info.ID, false
		}
	}
	info := hostmesh.MapInfo{
		ID:     hostmesh.MapID(len(l.maps)),
		Type:   t,
		Name:   name,
		Domain: d,
	}
	if t == hostmesh.MapColor {
		info.DataType = "FLOAT_COLOR"
	}
	l.maps = append(l.maps, newMapLayer(info))
	return info.ID, true
}

func edgeKey(a, b hostmesh.VertRef) [2]hostmesh.VertRef {
	if b < a {
		a, b = b, a
	}
	return [2]hostmesh.VertRef{a, b}
}

func (l *Layer) registerEdges(verts []hostmesh.VertRef) {
	n := len(verts)
	for i := 0; i < n; i++ {
		k := edgeKey(verts[i], verts[(i+1)%n])
		if _, ok := l.edgeIdx[k]; !ok {
			l.edgeIdx[k] = hostmesh.EdgeRef(len(l.edges))
			l.edges = append(l.edges, k)
		}
	}
}
