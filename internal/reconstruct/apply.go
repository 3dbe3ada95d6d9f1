package reconstruct

import (
	"fmt"

	"mesh-clipboard/internal/coords"
	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/mathutil"
)

// applyUV writes each uv_set into a corner-domain UV layer. Per-corner
// value arrays follow the same winding reversal as the polygons they
// belong to.
func applyUV(edit hostmesh.Edit, md *cpmf.MeshData, polys []polyRec, lh bool, diag *diagnostics) {
	for _, set := range md.UVSets {
		id, err := edit.EnsureMap(hostmesh.MapUV, hostmesh.DomainCorner, set.Name)
		if err != nil {
			diag.skip("uv set "+set.Name, err)
			continue
		}
		for _, face := range set.UVs {
			if face.Index < 0 || face.Index >= len(polys) {
				diag.skip(set.Name, fmt.Errorf("uv entry references polygon %d of %d", face.Index, len(polys)))
				continue
			}
			rec := polys[face.Index]
			values := face.Values
			if lh {
				values = reversedUVs(values)
			}
			if len(values) != len(rec.corners) {
				diag.skip(set.Name, fmt.Errorf("polygon %d: %d uv values for %d corners", face.Index, len(values), len(rec.corners)))
				continue
			}
			for ci, v := range rec.corners {
				if err := edit.SetCornerMapValue(id, rec.ref, v, []float64{values[ci][0], values[ci][1]}); err != nil {
					diag.skip(set.Name, err)
				}
			}
		}
	}
}

func reversedUVs(values [][2]float64) [][2]float64 {
	out := make([][2]float64, len(values))
	for i := range values {
		out[i] = values[len(values)-1-i]
	}
	return out
}

func applyColors(edit hostmesh.Edit, md *cpmf.MeshData, polys []polyRec, verts []hostmesh.VertRef, lh bool, diag *diagnostics) {
	for _, set := range md.Colors {
		if set.Domain == cpmf.DomainPoint {
			id, err := edit.EnsureMap(hostmesh.MapColor, hostmesh.DomainVert, set.Name)
			if err != nil {
				diag.skip("color set "+set.Name, err)
				continue
			}
			for _, c := range set.Colors {
				if c.Index < 0 || c.Index >= len(verts) || len(c.Values) == 0 {
					diag.skip(set.Name, fmt.Errorf("point color entry %d out of range", c.Index))
					continue
				}
				if err := edit.SetVertMapValue(id, verts[c.Index], normColor(c.Values[0])); err != nil {
					diag.skip(set.Name, err)
				}
			}
			continue
		}

		id, err := edit.EnsureMap(hostmesh.MapColor, hostmesh.DomainCorner, set.Name)
		if err != nil {
			diag.skip("color set "+set.Name, err)
			continue
		}
		for _, c := range set.Colors {
			if c.Index < 0 || c.Index >= len(polys) {
				diag.skip(set.Name, fmt.Errorf("corner color entry references polygon %d of %d", c.Index, len(polys)))
				continue
			}
			rec := polys[c.Index]
			values := c.Values
			if lh {
				values = reversedColors(values)
			}
			if len(values) != len(rec.corners) {
				diag.skip(set.Name, fmt.Errorf("polygon %d: %d colors for %d corners", c.Index, len(values), len(rec.corners)))
				continue
			}
			for ci, v := range rec.corners {
				if err := edit.SetCornerMapValue(id, rec.ref, v, normColor(values[ci])); err != nil {
					diag.skip(set.Name, err)
				}
			}
		}
	}
}

func reversedColors(values [][]float64) [][]float64 {
	out := make([][]float64, len(values))
	for i := range values {
		out[i] = values[len(values)-1-i]
	}
	return out
}

// normColor pads or truncates a color to RGBA.
func normColor(c []float64) []float64 {
	out := []float64{0, 0, 0, 1}
	copy(out, c)
	return out
}

func applyWeights(edit hostmesh.Edit, md *cpmf.MeshData, verts []hostmesh.VertRef, diag *diagnostics) {
	for _, group := range md.VertexGroups {
		id, err := edit.EnsureMap(hostmesh.MapWeight, hostmesh.DomainVert, group.Name)
		if err != nil {
			diag.skip("vertex group "+group.Name, err)
			continue
		}
		for _, w := range group.Weights {
			if w.Index < 0 || w.Index >= len(verts) {
				diag.skip(group.Name, fmt.Errorf("weight entry %d out of range", w.Index))
				continue
			}
			if err := edit.SetVertMapValue(id, verts[w.Index], []float64{w.Weight}); err != nil {
				diag.skip(group.Name, err)
			}
		}
	}
}

// applyShapekeys decodes shape positions into morph (relative) or spot
// (absolute) layers. Relative deltas are taken against the "Basis" entry
// converted into working space; without one, against the vertex position
// created earlier in this paste.
func applyShapekeys(edit hostmesh.Edit, md *cpmf.MeshData, verts []hostmesh.VertRef, live []mathutil.Vec3, conv coords.Convention, scale float64, diag *diagnostics) {
	var basis map[int]mathutil.Vec3
	for _, key := range md.Shapekeys {
		if cpmf.IsBasis(key.Name) {
			basis = make(map[int]mathutil.Vec3, len(key.Positions))
			for _, p := range key.Positions {
				basis[p.Index] = coords.PositionToNative(p.Position, conv, scale)
			}
			break
		}
	}

	for _, key := range md.Shapekeys {
		if cpmf.IsBasis(key.Name) {
			continue
		}
		mapType := hostmesh.MapSpot
		if key.Relative {
			mapType = hostmesh.MapMorph
		}
		id, err := edit.EnsureMap(mapType, hostmesh.DomainVert, key.Name)
		if err != nil {
			diag.skip("shapekey "+key.Name, err)
			continue
		}
		for _, p := range key.Positions {
			if p.Index < 0 || p.Index >= len(verts) {
				diag.skip(key.Name, fmt.Errorf("shapekey entry %d out of range", p.Index))
				continue
			}
			abs := coords.PositionToNative(p.Position, conv, scale)
			value := abs
			if key.Relative {
				base, ok := basis[p.Index]
				if !ok {
					base = live[p.Index]
				}
				value = abs.Sub(base)
			}
			if err := edit.SetVertMapValue(id, verts[p.Index], []float64{value[0], value[1], value[2]}); err != nil {
				diag.skip(key.Name, err)
			}
		}
	}
}

// applyEdgeAttributes writes crease and seam values against committed
// topology. Unresolvable edges are individual skips, not failures.
func applyEdgeAttributes(edit hostmesh.Edit, md *cpmf.MeshData, verts []hostmesh.VertRef, diag *diagnostics) {
	if len(md.Edges) == 0 {
		return
	}
	creaseID, errC := edit.EnsureMap(hostmesh.MapCrease, hostmesh.DomainEdge, "crease")
	seamID, errS := edit.EnsureMap(hostmesh.MapSeam, hostmesh.DomainEdge, "seam")

	for i, e := range md.Edges {
		ref, ok := lookupDocEdge(edit, e.Vertices, verts)
		if !ok {
			diag.skip("edge attributes", fmt.Errorf("edge %d (%d-%d) not present in committed topology", i, e.Vertices[0], e.Vertices[1]))
			continue
		}
		if e.Attributes.CreaseEdge != 0 {
			if errC != nil {
				diag.skip("crease", errC)
			} else if err := edit.SetEdgeMapValue(creaseID, ref, []float64{e.Attributes.CreaseEdge}); err != nil {
				diag.skip("crease", err)
			}
		}
		if e.Attributes.Seam {
			if errS != nil {
				diag.skip("seam", errS)
			} else if err := edit.SetEdgeMapValue(seamID, ref, []float64{1}); err != nil {
				diag.skip("seam", err)
			}
		}
	}
}

func applyFreestyle(edit hostmesh.Edit, md *cpmf.MeshData, verts []hostmesh.VertRef, diag *diagnostics) {
	if len(md.FreestyleEdges) == 0 {
		return
	}
	id, err := edit.EnsureMap(hostmesh.MapPick, hostmesh.DomainEdge, hostmesh.FreestyleEdgeMap)
	if err != nil {
		diag.skip("freestyle", err)
		return
	}
	for _, fe := range md.FreestyleEdges {
		if !fe.UseFreestyleMark {
			continue
		}
		ref, ok := lookupDocEdge(edit, fe.Vertices, verts)
		if !ok {
			diag.skip("freestyle", fmt.Errorf("edge %d-%d not present", fe.Vertices[0], fe.Vertices[1]))
			continue
		}
		if err := edit.SetEdgeMapValue(id, ref, []float64{1}); err != nil {
			diag.skip("freestyle", err)
		}
	}
}

func applySelectionSets(edit hostmesh.Edit, md *cpmf.MeshData, polys []polyRec, verts []hostmesh.VertRef, diag *diagnostics) {
	for _, set := range md.SelectionSets {
		switch set.Type {
		case cpmf.SelVert:
			id, err := edit.EnsureMap(hostmesh.MapPick, hostmesh.DomainVert, set.Name)
			if err != nil {
				diag.skip("selection set "+set.Name, err)
				continue
			}
			for _, i := range set.Indices {
				if i < 0 || i >= len(verts) {
					diag.skip(set.Name, fmt.Errorf("vertex index %d out of range", i))
					continue
				}
				if err := edit.SetVertMapValue(id, verts[i], []float64{1}); err != nil {
					diag.skip(set.Name, err)
				}
			}
		case cpmf.SelEdge:
			id, err := edit.EnsureMap(hostmesh.MapPick, hostmesh.DomainEdge, set.Name)
			if err != nil {
				diag.skip("selection set "+set.Name, err)
				continue
			}
			for _, i := range set.Indices {
				if i < 0 || i >= len(md.Edges) {
					diag.skip(set.Name, fmt.Errorf("edge index %d out of range", i))
					continue
				}
				ref, ok := lookupDocEdge(edit, md.Edges[i].Vertices, verts)
				if !ok {
					diag.skip(set.Name, fmt.Errorf("edge %d not present", i))
					continue
				}
				if err := edit.SetEdgeMapValue(id, ref, []float64{1}); err != nil {
					diag.skip(set.Name, err)
				}
			}
		case cpmf.SelFace:
			id, err := edit.EnsureMap(hostmesh.MapPick, hostmesh.DomainPoly, set.Name)
			if err != nil {
				diag.skip("selection set "+set.Name, err)
				continue
			}
			for _, i := range set.Indices {
				if i < 0 || i >= len(polys) {
					diag.skip(set.Name, fmt.Errorf("polygon index %d out of range", i))
					continue
				}
				if err := edit.SetPolyMapValue(id, polys[i].ref, []float64{1}); err != nil {
					diag.skip(set.Name, err)
				}
			}
		default:
			diag.skip("selection set "+set.Name, fmt.Errorf("unknown element type %q", set.Type))
		}
	}
}

func lookupDocEdge(edit hostmesh.Edit, pair [2]int, verts []hostmesh.VertRef) (hostmesh.EdgeRef, bool) {
	a, b := pair[0], pair[1]
	if a < 0 || a >= len(verts) || b < 0 || b >= len(verts) {
		return 0, false
	}
	return edit.LookupEdge(verts[a], verts[b])
}
