// Package hostmesh declares the capability interfaces the codec consumes
// from a host 3D application: handle-based mesh iteration, tagged
// attribute-layer access, selection testing, shading-assignment queries
// and two-phase edit commits. The codec never leaks these handles into a
// document; selection-scoped dense indices are minted by the scanner.
package hostmesh

import "mesh-clipboard/internal/mathutil"

// Opaque, stable element handles minted by the host. They are only
// meaningful against the accessor that produced them.
type (
	VertRef     int
	EdgeRef     int
	PolyRef     int
	LayerRef    int
	MapID       int
	MaterialRef int
)

// SelectionMode is the host's active component selection mode.
type SelectionMode int

const (
	SelectVertex SelectionMode = iota
	SelectEdge
	SelectPolygon
)

// PolygonKind classifies a polygon record. Only renderable kinds take
// part in export; everything else is skipped at every stage.
type PolygonKind int

const (
	KindFace PolygonKind = iota
	KindSubdiv
	KindSubdivPatch
	KindCurve
	KindOther
)

// Renderable reports whether polygons of this kind are eligible for export.
func (k PolygonKind) Renderable() bool {
	switch k {
	case KindFace, KindSubdiv, KindSubdivPatch:
		return true
	}
	return false
}

// MapType is the semantic kind of an attribute layer. Each kind has a
// fixed value width; hosts reject writes of the wrong arity.
type MapType int

const (
	MapWeight MapType = iota // per-vertex weight, 1 float
	MapMorph                 // relative shape deltas, 3 floats
	MapSpot                  // absolute shape positions, 3 floats
	MapUV                    // per-corner texture coords, 2 floats
	MapColor                 // per-corner or per-vertex color, 4 floats
	MapPick                  // boolean selection set, 1 float (0/1)
	MapCrease                // per-edge subdivision sharpness, 1 float
	MapSeam                  // per-edge UV seam flag, 1 float (0/1)
)

// Dim returns the fixed value width of the map type.
func (t MapType) Dim() int {
	switch t {
	case MapMorph, MapSpot:
		return 3
	case MapUV:
		return 2
	case MapColor:
		return 4
	}
	return 1
}

// Domain is the element class a map is keyed by.
type Domain int

const (
	DomainVert Domain = iota
	DomainEdge
	DomainPoly
	DomainCorner
)

// MapInfo describes one attribute layer.
type MapInfo struct {
	ID     MapID
	Type   MapType
	Name   string
	Domain Domain
	// DataType is a host storage hint carried through for color layers
	// (e.g. "FLOAT_COLOR"); empty elsewhere.
	DataType string
}

// FreestyleEdgeMap is the reserved pick-layer name marking freestyle
// edges; pick layers with any other name export as generic selection sets.
const FreestyleEdgeMap = "freestyle_edge"

// Transform is a decomposed local transform.
type Transform struct {
	Translation mathutil.Vec3
	Rotation    mathutil.Quat
	Scale       mathutil.Vec3
}

// TextureSlot binds an image to a UV layer on a host material.
type TextureSlot struct {
	Type  string // e.g. "diffuse"
	Image string // image path or name, resolved by the material resolver
	UVMap string
}

// Material is a host material together with its shading-assignment
// container tag. An empty Tag means the material has no container.
type Material struct {
	Name      string
	Tag       string
	BaseColor []float64
	Textures  []TextureSlot
}

// Mesh is a read accessor bound to one committed mesh state. Handles and
// values read from it are valid until the owning layer commits an edit;
// using a stale accessor afterwards is a programming error and hosts are
// free to panic.
type Mesh interface {
	Vertices() []VertRef
	Position(VertRef) mathutil.Vec3
	VertSelected(VertRef) bool

	Edges() []EdgeRef
	EdgeEnds(EdgeRef) (VertRef, VertRef)

	Polygons() []PolyRef
	PolygonKind(PolyRef) PolygonKind
	PolygonVerts(PolyRef) []VertRef
	PolySelected(PolyRef) bool
	MaterialTag(PolyRef) string

	Maps() []MapInfo
	VertMapValue(MapID, VertRef) ([]float64, bool)
	EdgeMapValue(MapID, EdgeRef) ([]float64, bool)
	PolyMapValue(MapID, PolyRef) ([]float64, bool)
	CornerMapValue(MapID, PolyRef, VertRef) ([]float64, bool)
}

// Edit is one atomic edit transaction. Commit publishes the changes and
// invalidates every Mesh accessor acquired before it; edge handles only
// become resolvable in a transaction opened after the topology committed.
type Edit interface {
	Clear()
	AddVertex(mathutil.Vec3) VertRef
	AddPolygon(verts []VertRef) (PolyRef, error)
	SetMaterialTag(PolyRef, string) error

	EnsureMap(MapType, Domain, string) (MapID, error)
	SetVertMapValue(MapID, VertRef, []float64) error
	SetEdgeMapValue(MapID, EdgeRef, []float64) error
	SetPolyMapValue(MapID, PolyRef, []float64) error
	SetCornerMapValue(MapID, PolyRef, VertRef, []float64) error

	// LookupEdge resolves a committed edge by its endpoints. Edges
	// created by the current transaction are not visible until Commit.
	LookupEdge(VertRef, VertRef) (EdgeRef, bool)

	Commit() error
}

// Layer is one mesh layer (item) in the host scene.
type Layer interface {
	ID() LayerRef
	Name() string
	Parent() (LayerRef, bool)
	Transform() Transform
	SetTransform(Transform)

	// Mesh returns a fresh read accessor for the current committed state.
	Mesh() (Mesh, error)
	BeginEdit() (Edit, error)
}

// Scene is the host scene: exported layers, the active selection mode,
// and the shading-assignment graph.
type Scene interface {
	Layers() []Layer
	ActiveLayer() (Layer, bool)
	CreateLayer(name string) (Layer, error)
	SelectionMode() SelectionMode

	Materials() []MaterialRef
	MaterialInfo(MaterialRef) Material
	// CreateMaterial adds a material plus its shading-assignment
	// container. Hosts never de-duplicate; callers own that policy.
	CreateMaterial(Material) (MaterialRef, error)
	RemoveMaterial(MaterialRef) error
}
