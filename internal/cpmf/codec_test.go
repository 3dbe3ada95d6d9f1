package cpmf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-clipboard/internal/mathutil"
)

func quadDoc() *Document {
	return &Document{
		Type:    DocType,
		Version: Version,
		Metadata: Metadata{
			SourceApp:        "test",
			CoordinateSystem: "y_up_rh",
			UnitScale:        1.0,
			Timestamp:        "2026-01-01T00:00:00Z",
		},
		Objects: []Object{{
			Name: "Quad",
			Type: "MESH",
			Transform: ObjectTransform{
				RotationQuat: mathutil.QuatIdentity(),
				Scale:        mathutil.Vec3{1, 1, 1},
			},
			Mesh: MeshData{
				Positions: []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
				Polygons:  []Polygon{{Vertices: []int{0, 1, 2, 3}}},
				Materials: []Material{{Name: "Red", BaseColor: []float64{1, 0, 0, 1}}},
			},
		}},
	}
}

func TestJSONFieldNames(t *testing.T) {
	data, err := Encode(quadDoc(), JSON)
	require.NoError(t, err)

	// the wire field names are the compatibility contract
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "CPMF", raw["type"])
	assert.Equal(t, "1.0", raw["version"])

	meta := raw["metadata"].(map[string]any)
	assert.Equal(t, "y_up_rh", meta["coordinate_system"])
	assert.Equal(t, 1.0, meta["unit_scale"])
	assert.Equal(t, "test", meta["source_app"])

	obj := raw["objects"].([]any)[0].(map[string]any)
	assert.Contains(t, obj, "object_transform")
	mesh := obj["mesh"].(map[string]any)
	assert.Contains(t, mesh, "positions")
	assert.Contains(t, mesh, "polygons")
	poly := mesh["polygons"].([]any)[0].(map[string]any)
	attrs := poly["attributes"].(map[string]any)
	assert.Contains(t, attrs, "material_index")
}

func TestJSONRoundTrip(t *testing.T) {
	doc := quadDoc()
	data, err := Encode(doc, JSON)
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestCBORRoundTrip(t *testing.T) {
	doc := quadDoc()
	data, err := Encode(doc, CBOR)
	require.NoError(t, err)
	assert.False(t, looksLikeJSON(data))

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, JSON, FormatForPath("/tmp/cpmf_clipboard.json"))
	assert.Equal(t, JSON, FormatForPath(""))
	assert.Equal(t, CBOR, FormatForPath("doc.cbor"))
	assert.Equal(t, CBOR, FormatForPath("doc.CPMFB"))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode([]byte("{not json"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode([]byte(`{"type":"NOPE","version":"1.0"}`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestValidateRejectsBadTopology(t *testing.T) {
	doc := quadDoc()
	doc.Objects[0].Mesh.Polygons[0].Vertices = []int{0, 1}
	assert.ErrorIs(t, Validate(doc), ErrDecode)

	doc = quadDoc()
	doc.Objects[0].Mesh.Polygons[0].Vertices = []int{0, 1, 99}
	assert.ErrorIs(t, Validate(doc), ErrDecode)

	doc = quadDoc()
	doc.Objects[0].Mesh.Edges = []Edge{{Vertices: [2]int{0, 42}}}
	assert.ErrorIs(t, Validate(doc), ErrDecode)

	doc = quadDoc()
	bad := 7
	doc.Objects[0].Parent = &bad
	assert.ErrorIs(t, Validate(doc), ErrDecode)
}

func TestValidateNormalizes(t *testing.T) {
	doc := quadDoc()
	doc.Metadata.UnitScale = 0
	doc.Objects[0].Mesh.Polygons[0].Attributes.MaterialIndex = 9
	require.NoError(t, Validate(doc))

	assert.Equal(t, 1.0, doc.Metadata.UnitScale)
	// out-of-range material_index defaults to 0
	assert.Equal(t, 0, doc.Objects[0].Mesh.Polygons[0].Attributes.MaterialIndex)
}

func TestIsBasis(t *testing.T) {
	assert.True(t, IsBasis("Basis"))
	assert.True(t, IsBasis("basis"))
	assert.True(t, IsBasis("BASIS"))
	assert.False(t, IsBasis("Smile"))
}
