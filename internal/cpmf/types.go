// Package cpmf defines the portable mesh-interchange document (CPMF) and
// its JSON / CBOR codecs. The field names and nesting here are the wire
// compatibility contract with the paired application; all index fields are
// 0-based and dense within the exported selection.
package cpmf

import "mesh-clipboard/internal/mathutil"

const (
	DocType = "CPMF"
	Version = "1.0"
)

// Selection-set element types.
const (
	SelVert = "VERT"
	SelEdge = "EDGE"
	SelFace = "FACE"
)

// Color-layer domains.
const (
	DomainCorner = "CORNER"
	DomainPoint  = "POINT"
)

type Document struct {
	Type     string   `json:"type"`
	Version  string   `json:"version"`
	Metadata Metadata `json:"metadata"`
	Objects  []Object `json:"objects"`
}

type Metadata struct {
	SourceApp        string  `json:"source_app"`
	CoordinateSystem string  `json:"coordinate_system"`
	UnitScale        float64 `json:"unit_scale"`
	Timestamp        string  `json:"timestamp"`
	Custom           *Custom `json:"custom,omitempty"`
}

type Custom struct {
	BaseDir string `json:"base_dir,omitempty"`
}

type Object struct {
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Parent    *int            `json:"parent,omitempty"`
	Transform ObjectTransform `json:"object_transform"`
	Mesh      MeshData        `json:"mesh"`
}

type ObjectTransform struct {
	Translation  mathutil.Vec3 `json:"translation"`
	RotationQuat mathutil.Quat `json:"rotation_quat"`
	Scale        mathutil.Vec3 `json:"scale"`
}

type MeshData struct {
	Positions      []mathutil.Vec3 `json:"positions,omitempty"`
	Edges          []Edge          `json:"edges,omitempty"`
	Polygons       []Polygon       `json:"polygons,omitempty"`
	Materials      []Material      `json:"materials,omitempty"`
	UVSets         []UVSet         `json:"uv_sets,omitempty"`
	Colors         []ColorSet      `json:"colors,omitempty"`
	VertexGroups   []VertexGroup   `json:"vertex_groups,omitempty"`
	Shapekeys      []Shapekey      `json:"shapekeys,omitempty"`
	FreestyleEdges []FreestyleEdge `json:"freestyle_edges,omitempty"`
	SelectionSets  []SelectionSet  `json:"selection_sets,omitempty"`
}

type Edge struct {
	Vertices   [2]int         `json:"vertices"`
	Attributes EdgeAttributes `json:"attributes"`
}

type EdgeAttributes struct {
	CreaseEdge float64 `json:"crease_edge,omitempty"`
	Seam       bool    `json:"seam,omitempty"`
}

type Polygon struct {
	Vertices   []int             `json:"vertices"`
	Attributes PolygonAttributes `json:"attributes"`
}

type PolygonAttributes struct {
	MaterialIndex int `json:"material_index"`
}

type Material struct {
	Name      string    `json:"name"`
	BaseColor []float64 `json:"base_color"`
	Textures  []Texture `json:"textures,omitempty"`
}

type Texture struct {
	Type  string `json:"type"`
	Image string `json:"image"`
	UVMap string `json:"uv_map"`
}

type UVSet struct {
	Name string    `json:"name"`
	UVs  []FaceUVs `json:"uvs"`
}

// FaceUVs carries one UV pair per corner of the polygon record at Index.
type FaceUVs struct {
	Index  int          `json:"index"`
	Values [][2]float64 `json:"values"`
}

type ColorSet struct {
	Name     string       `json:"name"`
	Domain   string       `json:"domain"`
	DataType string       `json:"data_type"`
	Colors   []FaceColors `json:"colors"`
}

// FaceColors carries colors for one element: per corner of the polygon
// record at Index for CORNER domain, a single color for POINT domain
// (Index is then a vertex index).
type FaceColors struct {
	Index  int         `json:"index"`
	Values [][]float64 `json:"values"`
}

type VertexGroup struct {
	Name    string         `json:"name"`
	Weights []VertexWeight `json:"weights"`
}

type VertexWeight struct {
	Index  int     `json:"index"`
	Weight float64 `json:"weight"`
}

type Shapekey struct {
	Name      string           `json:"name"`
	Relative  bool             `json:"relative"`
	Positions []VertexPosition `json:"positions"`
}

type VertexPosition struct {
	Index    int           `json:"index"`
	Position mathutil.Vec3 `json:"position"`
}

type FreestyleEdge struct {
	Vertices         [2]int `json:"vertices"`
	UseFreestyleMark bool   `json:"use_freestyle_mark"`
}

type SelectionSet struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indices []int  `json:"indices"`
}

// BasisName is the shapekey whose positions supply the reference for
// decoding relative deltas. Matched case-insensitively.
const BasisName = "Basis"
