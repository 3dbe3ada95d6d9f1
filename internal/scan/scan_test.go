package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/mathutil"
	"mesh-clipboard/internal/memhost"
)

// twoQuads builds two quads sharing vertices 1 and 2:
//
//	3--2--5
//	|  |  |
//	0--1--4
func twoQuads(t *testing.T) (*memhost.Layer, hostmesh.Mesh) {
	t.Helper()
	sc := memhost.NewScene()
	l := sc.AddLayer("mesh")
	pts := []mathutil.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {2, 0, 0}, {2, 1, 0},
	}
	for _, p := range pts {
		l.AddVertexDirect(p)
	}
	l.AddPolygonDirect(hostmesh.KindFace, "", 0, 1, 2, 3)
	l.AddPolygonDirect(hostmesh.KindFace, "", 1, 4, 5, 2)
	m, err := l.Mesh()
	require.NoError(t, err)
	return l, m
}

func TestBuildSelectedPolygon(t *testing.T) {
	l, m := twoQuads(t)
	l.SelectPolys(0)

	x, err := Build(m, hostmesh.SelectPolygon)
	require.NoError(t, err)

	assert.False(t, x.Fallback)
	assert.Len(t, x.Polys, 1)
	assert.Len(t, x.Verts, 4)

	// dense indices follow host iteration order
	for want, v := range x.Verts {
		got, ok := x.VertIndex(v)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := x.VertIndex(hostmesh.VertRef(4))
	assert.False(t, ok)
	i, ok := x.PolyIndex(hostmesh.PolyRef(0))
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestBuildEdgeNeedsBothEndpoints(t *testing.T) {
	l, m := twoQuads(t)
	l.SelectVerts(0, 1, 2)

	x, err := Build(m, hostmesh.SelectVertex)
	require.NoError(t, err)
	require.False(t, x.Fallback)

	// of the selected triangle of vertices only edges 0-1 and 1-2 exist;
	// edges touching vertex 3, 4 or 5 have an unselected endpoint
	assert.Len(t, x.Edges, 2)
	for _, e := range x.Edges {
		a, b := m.EdgeEnds(e)
		assert.True(t, m.VertSelected(a))
		assert.True(t, m.VertSelected(b))
	}
}

func TestBuildFallbackWhenNothingSelected(t *testing.T) {
	_, m := twoQuads(t)

	x, err := Build(m, hostmesh.SelectPolygon)
	require.NoError(t, err)

	assert.True(t, x.Fallback)
	assert.Len(t, x.Polys, 2)
	assert.Len(t, x.Verts, 6)
	assert.Len(t, x.Edges, 7)
}

func TestBuildSkipsNonRenderableKinds(t *testing.T) {
	l, m := twoQuads(t)
	l.AddPolygonDirect(hostmesh.KindCurve, "", 0, 1, 4)

	// re-acquire after mutating committed state directly
	x, err := Build(m, hostmesh.SelectPolygon)
	require.NoError(t, err)
	assert.True(t, x.Fallback)
	assert.Len(t, x.Polys, 2)
	_, ok := x.PolyIndex(hostmesh.PolyRef(2))
	assert.False(t, ok)
}

func TestBuildEmptyMesh(t *testing.T) {
	sc := memhost.NewScene()
	l := sc.AddLayer("empty")
	m, err := l.Mesh()
	require.NoError(t, err)

	_, err = Build(m, hostmesh.SelectPolygon)
	assert.ErrorIs(t, err, ErrNoSelection)
}
