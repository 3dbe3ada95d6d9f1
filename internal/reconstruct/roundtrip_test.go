package reconstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-clipboard/internal/coords"
	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/extract"
	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/mathutil"
	"mesh-clipboard/internal/memhost"
)

func roundTripScene(t *testing.T) *memhost.Scene {
	t.Helper()
	sc := memhost.NewScene()
	_, err := sc.CreateMaterial(hostmesh.Material{Name: "M_Stone", Tag: "Stone", BaseColor: []float64{1, 0, 0, 1}})
	require.NoError(t, err)

	l := sc.AddLayer("Quad")
	for _, p := range []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}} {
		l.AddVertexDirect(p)
	}
	l.AddPolygonDirect(hostmesh.KindFace, "Stone", 0, 1, 2, 3)

	uv := l.EnsureMapDirect(hostmesh.MapUV, hostmesh.DomainCorner, "UVMap")
	for ci, v := range []hostmesh.VertRef{0, 1, 2, 3} {
		l.SetCornerValueDirect(uv, 0, v, []float64{float64(ci), float64(ci) * 2})
	}
	w := l.EnsureMapDirect(hostmesh.MapWeight, hostmesh.DomainVert, "Group")
	l.SetVertValueDirect(w, 3, []float64{0.25})
	crease := l.EnsureMapDirect(hostmesh.MapCrease, hostmesh.DomainEdge, "crease")
	e01, _ := l.EdgeBetween(0, 1)
	l.SetEdgeValueDirect(crease, e01, []float64{0.9})
	return sc
}

// Copying, shipping through the codec, pasting into a fresh scene and
// copying again must give the same mesh payload.
func roundTripVia(t *testing.T, conv coords.Convention) (first, second cpmf.MeshData) {
	t.Helper()
	src := roundTripScene(t)
	doc1, err := extract.Copy(src, extract.Options{Convention: conv})
	require.NoError(t, err)

	data, err := cpmf.Encode(doc1, cpmf.JSON)
	require.NoError(t, err)
	doc2, err := cpmf.Decode(data)
	require.NoError(t, err)

	dst := memhost.NewScene()
	require.NoError(t, Paste(dst, doc2, Options{NewMesh: true}))

	doc3, err := extract.Copy(dst, extract.Options{Convention: conv})
	require.NoError(t, err)
	require.Len(t, doc3.Objects, 1)
	return doc1.Objects[0].Mesh, doc3.Objects[0].Mesh
}

func TestRoundTripStable(t *testing.T) {
	for _, conv := range []coords.Convention{coords.YUpRH, coords.ZUpRH, coords.YUpLH} {
		t.Run(conv.String(), func(t *testing.T) {
			first, second := roundTripVia(t, conv)

			assert.Equal(t, first.Positions, second.Positions)
			assert.Equal(t, first.Polygons, second.Polygons)
			assert.Equal(t, first.Edges, second.Edges)
			assert.Equal(t, first.UVSets, second.UVSets)
			assert.Equal(t, first.VertexGroups, second.VertexGroups)
		})
	}
}

func TestRoundTripMaterialsRecreated(t *testing.T) {
	src := roundTripScene(t)
	doc, err := extract.Copy(src, extract.Options{})
	require.NoError(t, err)

	dst := memhost.NewScene()
	require.NoError(t, Paste(dst, doc, Options{NewMesh: true}))

	refs := dst.Materials()
	require.Len(t, refs, 1)
	assert.Equal(t, "M_Stone", dst.MaterialInfo(refs[0]).Name)
	assert.Equal(t, "Stone", dst.MaterialInfo(refs[0]).Tag)

	// the pasted mesh carries the container tag on its polygon, so a
	// re-export resolves the same material
	layer := dst.Layers()[0].(*memhost.Layer)
	m, err := layer.Mesh()
	require.NoError(t, err)
	assert.Equal(t, "Stone", m.MaterialTag(0))
}
