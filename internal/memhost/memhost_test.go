package memhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/mathutil"
)

func quadLayer(t *testing.T) *Layer {
	t.Helper()
	sc := NewScene()
	l := sc.AddLayer("quad")
	for _, p := range []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}} {
		l.AddVertexDirect(p)
	}
	l.AddPolygonDirect(hostmesh.KindFace, "Stone", 0, 1, 2, 3)
	return l
}

func TestAccessorPanicsAfterCommit(t *testing.T) {
	l := quadLayer(t)
	m, err := l.Mesh()
	require.NoError(t, err)
	assert.Len(t, m.Vertices(), 4)

	ed, err := l.BeginEdit()
	require.NoError(t, err)
	ed.AddVertex(mathutil.Vec3{2, 0, 0})
	require.NoError(t, ed.Commit())

	assert.PanicsWithValue(t, "memhost: mesh accessor used after commit", func() {
		m.Vertices()
	})

	// a freshly acquired accessor sees the new vertex
	m2, err := l.Mesh()
	require.NoError(t, err)
	assert.Len(t, m2.Vertices(), 5)
}

func TestEditRejectsAfterCommit(t *testing.T) {
	l := quadLayer(t)
	ed, err := l.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, ed.Commit())

	err = ed.Commit()
	assert.ErrorContains(t, err, "double commit")
	err = ed.SetMaterialTag(0, "x")
	assert.ErrorContains(t, err, "after commit")
}

func TestLookupEdgeOnlyCommittedTopology(t *testing.T) {
	l := quadLayer(t)

	ed, err := l.BeginEdit()
	require.NoError(t, err)

	// the quad's boundary edges predate the transaction
	e01, ok := ed.LookupEdge(0, 1)
	require.True(t, ok)
	_, ok = ed.LookupEdge(1, 0)
	assert.True(t, ok, "endpoint order must not matter")

	// edges created by polygons added inside this transaction stay
	// unresolvable until the next one
	v := ed.AddVertex(mathutil.Vec3{2, 0, 0})
	_, err = ed.AddPolygon([]hostmesh.VertRef{1, v, 2})
	require.NoError(t, err)
	_, ok = ed.LookupEdge(1, v)
	assert.False(t, ok)

	id, err := ed.EnsureMap(hostmesh.MapCrease, hostmesh.DomainEdge, "crease")
	require.NoError(t, err)
	assert.NoError(t, ed.SetEdgeMapValue(id, e01, []float64{0.5}))

	newEdge, ok := l.EdgeBetween(1, v)
	require.True(t, ok)
	err = ed.SetEdgeMapValue(id, newEdge, []float64{0.5})
	assert.ErrorContains(t, err, "not committed")
	require.NoError(t, ed.Commit())

	// second transaction: the edge is committed now
	ed2, err := l.BeginEdit()
	require.NoError(t, err)
	got, ok := ed2.LookupEdge(1, v)
	require.True(t, ok)
	assert.Equal(t, newEdge, got)
	assert.NoError(t, ed2.SetEdgeMapValue(id, got, []float64{0.5}))
	require.NoError(t, ed2.Commit())
}

func TestClearResetsLayer(t *testing.T) {
	l := quadLayer(t)
	l.EnsureMapDirect(hostmesh.MapUV, hostmesh.DomainCorner, "UVMap")

	ed, err := l.BeginEdit()
	require.NoError(t, err)
	ed.Clear()
	v0 := ed.AddVertex(mathutil.Vec3{0, 0, 0})
	v1 := ed.AddVertex(mathutil.Vec3{1, 0, 0})
	v2 := ed.AddVertex(mathutil.Vec3{0, 1, 0})
	_, err = ed.AddPolygon([]hostmesh.VertRef{v0, v1, v2})
	require.NoError(t, err)
	require.NoError(t, ed.Commit())

	m, err := l.Mesh()
	require.NoError(t, err)
	assert.Len(t, m.Vertices(), 3)
	assert.Len(t, m.Polygons(), 1)
	assert.Empty(t, m.Maps(), "Clear drops attribute layers")
}

func TestAddPolygonValidation(t *testing.T) {
	l := quadLayer(t)
	ed, err := l.BeginEdit()
	require.NoError(t, err)

	_, err = ed.AddPolygon([]hostmesh.VertRef{0, 1})
	assert.ErrorContains(t, err, "at least 3")
	_, err = ed.AddPolygon([]hostmesh.VertRef{0, 1, 99})
	assert.ErrorContains(t, err, "unknown vertex")
}

func TestMapValueArity(t *testing.T) {
	l := quadLayer(t)
	ed, err := l.BeginEdit()
	require.NoError(t, err)

	uv, err := ed.EnsureMap(hostmesh.MapUV, hostmesh.DomainCorner, "UVMap")
	require.NoError(t, err)
	assert.NoError(t, ed.SetCornerMapValue(uv, 0, 1, []float64{0.5, 0.5}))
	err = ed.SetCornerMapValue(uv, 0, 1, []float64{0.5})
	assert.ErrorContains(t, err, "wants 2 values")

	w, err := ed.EnsureMap(hostmesh.MapWeight, hostmesh.DomainVert, "Group")
	require.NoError(t, err)
	assert.NoError(t, ed.SetVertMapValue(w, 2, []float64{1}))
	require.NoError(t, ed.Commit())

	m, err := l.Mesh()
	require.NoError(t, err)
	vals, ok := m.CornerMapValue(uv, 0, 1)
	require.True(t, ok)
	assert.Equal(t, []float64{0.5, 0.5}, vals)
}

func TestEnsureMapIsIdempotent(t *testing.T) {
	l := quadLayer(t)
	a := l.EnsureMapDirect(hostmesh.MapUV, hostmesh.DomainCorner, "UVMap")
	b := l.EnsureMapDirect(hostmesh.MapUV, hostmesh.DomainCorner, "UVMap")
	assert.Equal(t, a, b)

	c := l.EnsureMapDirect(hostmesh.MapUV, hostmesh.DomainCorner, "UVMap2")
	assert.NotEqual(t, a, c)
}

func TestSceneMaterials(t *testing.T) {
	sc := NewScene()
	r1, err := sc.CreateMaterial(hostmesh.Material{Name: "M_Stone", Tag: "Stone"})
	require.NoError(t, err)
	r2, err := sc.CreateMaterial(hostmesh.Material{Name: "M_Wood", Tag: "Wood"})
	require.NoError(t, err)
	assert.Len(t, sc.Materials(), 2)

	require.NoError(t, sc.RemoveMaterial(r1))
	refs := sc.Materials()
	require.Len(t, refs, 1)
	assert.Equal(t, r2, refs[0])
	assert.Equal(t, "Wood", sc.MaterialInfo(r2).Tag)

	assert.Error(t, sc.RemoveMaterial(r1), "double remove")
}

func TestSelectPolysMarksVerts(t *testing.T) {
	l := quadLayer(t)
	l.SelectPolys(0)
	m, err := l.Mesh()
	require.NoError(t, err)
	for _, v := range m.Vertices() {
		assert.True(t, m.VertSelected(v))
	}
	assert.True(t, m.PolySelected(0))
	assert.Equal(t, "Stone", m.MaterialTag(0))
}
