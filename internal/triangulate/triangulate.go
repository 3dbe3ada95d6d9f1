// Package triangulate resolves "keyhole" polygons, where an outer loop is
// bridged to an inner hole loop through a duplicated back-and-forth edge,
// into manifold triangles over the original point indices. Ordinary polygons
// pass through untouched; this is deliberately not a general
// polygon-with-holes tessellator.
package triangulate

import "mesh-clipboard/internal/mathutil"

// keyholeMinVerts is the fixed heuristic floor: a bridged hole needs an
// outer loop, an inner loop and the doubled bridge, so small polygons
// can never qualify.
const keyholeMinVerts = 8

// IsKeyhole reports whether the polygon's directed boundary-edge cycle
// revisits a reversed edge at cycle position > 2.
func IsKeyhole(verts []int) bool {
	if len(verts) < keyholeMinVerts {
		return false
	}
	type dirEdge struct{ a, b int }
	seen := make(map[dirEdge]bool, len(verts))
	n := len(verts)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		if i > 2 && seen[dirEdge{b, a}] {
			return true
		}
		seen[dirEdge{a, b}] = true
	}
	return false
}

// Triangulate splits the polygon into triangles of original indices by
// ear clipping in the polygon's dominant plane. The bridged boundary is a
// weakly simple cycle, so clipping must tolerate coincident bridge
// vertices; when no ear can be clipped the remainder falls back to a fan.
func Triangulate(verts []int, pos func(int) mathutil.Vec3) [][3]int {
	n := len(verts)
	if n < 3 {
		return nil
	}
	if n == 3 {
		return [][3]int{{verts[0], verts[1], verts[2]}}
	}

	normal := newellNormal(verts, pos)
	u, v := planeBasis(normal)

	// Project onto the dominant plane once.
	idx := make([]int, n)
	pts := make([][2]float64, n)
	for i, vi := range verts {
		idx[i] = i
		p := pos(vi)
		pts[i] = [2]float64{p.Dot(u), p.Dot(v)}
	}

	var tris [][3]int
	emit := func(a, b, c int) {
		tris = append(tris, [3]int{verts[a], verts[b], verts[c]})
	}

	for len(idx) > 3 {
		clipped := false
		m := len(idx)
		for i := 0; i < m; i++ {
			ia, ib, ic := idx[(i+m-1)%m], idx[i], idx[(i+1)%m]
			if !isEar(pts, idx, ia, ib, ic) {
				continue
			}
			emit(ia, ib, ic)
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Degenerate remainder: fan from the first remaining corner.
			for i := 1; i < len(idx)-1; i++ {
				emit(idx[0], idx[i], idx[i+1])
			}
			return tris
		}
	}
	emit(idx[0], idx[1], idx[2])
	return tris
}

func newellNormal(verts []int, pos func(int) mathutil.Vec3) mathutil.Vec3 {
	var n mathutil.Vec3
	for i := range verts {
		a := pos(verts[i])
		b := pos(verts[(i+1)%len(verts)])
		n[0] += (a[1] - b[1]) * (a[2] + b[2])
		n[1] += (a[2] - b[2]) * (a[0] + b[0])
		n[2] += (a[0] - b[0]) * (a[1] + b[1])
	}
	return n.Normalize()
}

// planeBasis returns two orthonormal axes spanning the plane with the
// given normal.
func planeBasis(n mathutil.Vec3) (mathutil.Vec3, mathutil.Vec3) {
	ref := mathutil.Vec3{1, 0, 0}
	if n[0]*n[0] > 0.9 {
		ref = mathutil.Vec3{0, 1, 0}
	}
	u := n.Cross(ref).Normalize()
	if u.Len() < 1e-9 {
		u = mathutil.Vec3{1, 0, 0}
	}
	v := n.Cross(u)
	return u, v
}

func cross2(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// isEar checks convexity of corner b and that no other boundary vertex
// lies strictly inside triangle (a, b, c). Vertices coincident with the
// triangle corners (the doubled bridge points) are ignored.
func isEar(pts [][2]float64, idx []int, a, b, c int) bool {
	area := cross2(pts[a], pts[b], pts[c])
	if area <= 1e-12 {
		return false
	}
	for _, j := range idx {
		if j == a || j == b || j == c {
			continue
		}
		p := pts[j]
		if samePoint(p, pts[a]) || samePoint(p, pts[b]) || samePoint(p, pts[c]) {
			continue
		}
		if inTriangle(p, pts[a], pts[b], pts[c]) {
			return false
		}
	}
	return true
}

func samePoint(p, q [2]float64) bool {
	const eps = 1e-12
	dx, dy := p[0]-q[0], p[1]-q[1]
	return dx*dx+dy*dy < eps
}

func inTriangle(p, a, b, c [2]float64) bool {
	d1 := cross2(p, a, b)
	d2 := cross2(p, b, c)
	d3 := cross2(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
