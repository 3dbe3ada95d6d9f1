package extract

import (
	"mesh-clipboard/internal/coords"
	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/mathutil"
	"mesh-clipboard/internal/scan"
)

// mapInventory sorts the host's attribute layers by semantic kind once
// per export.
type mapInventory struct {
	uv     []hostmesh.MapInfo
	color  []hostmesh.MapInfo
	weight []hostmesh.MapInfo
	shape  []hostmesh.MapInfo // morph and spot layers, host order
	pick   []hostmesh.MapInfo
	crease hostmesh.MapID // -1 when absent
	seam   hostmesh.MapID // -1 when absent
}

func inventory(maps []hostmesh.MapInfo) mapInventory {
	inv := mapInventory{crease: -1, seam: -1}
	for _, m := range maps {
		switch m.Type {
		case hostmesh.MapUV:
			inv.uv = append(inv.uv, m)
		case hostmesh.MapColor:
			inv.color = append(inv.color, m)
		case hostmesh.MapWeight:
			inv.weight = append(inv.weight, m)
		case hostmesh.MapMorph, hostmesh.MapSpot:
			inv.shape = append(inv.shape, m)
		case hostmesh.MapPick:
			inv.pick = append(inv.pick, m)
		case hostmesh.MapCrease:
			if inv.crease < 0 {
				inv.crease = m.ID
			}
		case hostmesh.MapSeam:
			if inv.seam < 0 {
				inv.seam = m.ID
			}
		}
	}
	return inv
}

func (inv mapInventory) uvNames() map[string]bool {
	names := make(map[string]bool, len(inv.uv))
	for _, m := range inv.uv {
		names[m.Name] = true
	}
	return names
}

// emitUV writes one uv_set per UV layer, with one entry per emitted
// polygon record and exactly one UV pair per corner.
func emitUV(md *cpmf.MeshData, mesh hostmesh.Mesh, plan []record, inv mapInventory) {
	for _, info := range inv.uv {
		set := cpmf.UVSet{Name: info.Name}
		for i, r := range plan {
			face := cpmf.FaceUVs{Index: i, Values: make([][2]float64, len(r.corners))}
			for ci, v := range r.corners {
				if vals, ok := mesh.CornerMapValue(info.ID, r.src, v); ok && len(vals) >= 2 {
					face.Values[ci] = [2]float64{vals[0], vals[1]}
				}
			}
			set.UVs = append(set.UVs, face)
		}
		if len(set.UVs) > 0 {
			md.UVSets = append(md.UVSets, set)
		}
	}
}

// emitColors writes corner-domain layers per polygon record (only when a
// corner sampled non-null) and point-domain layers per vertex.
func emitColors(md *cpmf.MeshData, mesh hostmesh.Mesh, x *scan.Index, plan []record, inv mapInventory) {
	for _, info := range inv.color {
		set := cpmf.ColorSet{Name: info.Name, DataType: info.DataType}

		if info.Domain == hostmesh.DomainVert {
			set.Domain = cpmf.DomainPoint
			for di, v := range x.Verts {
				if vals, ok := mesh.VertMapValue(info.ID, v); ok {
					set.Colors = append(set.Colors, cpmf.FaceColors{
						Index:  di,
						Values: [][]float64{vals},
					})
				}
			}
		} else {
			set.Domain = cpmf.DomainCorner
			for i, r := range plan {
				face := cpmf.FaceColors{Index: i, Values: make([][]float64, len(r.corners))}
				any := false
				for ci, v := range r.corners {
					if vals, ok := mesh.CornerMapValue(info.ID, r.src, v); ok {
						face.Values[ci] = vals
						any = true
					} else {
						face.Values[ci] = []float64{0, 0, 0, 1}
					}
				}
				if any {
					set.Colors = append(set.Colors, face)
				}
			}
		}

		if len(set.Colors) > 0 {
			md.Colors = append(md.Colors, set)
		}
	}
}

// emitWeights writes one vertex_group per weight layer. Weights of
// exactly 0.0 carry no information and are omitted.
func emitWeights(md *cpmf.MeshData, mesh hostmesh.Mesh, x *scan.Index, inv mapInventory) {
	for _, info := range inv.weight {
		group := cpmf.VertexGroup{Name: info.Name}
		for di, v := range x.Verts {
			vals, ok := mesh.VertMapValue(info.ID, v)
			if !ok || len(vals) == 0 || vals[0] == 0.0 {
				continue
			}
			group.Weights = append(group.Weights, cpmf.VertexWeight{Index: di, Weight: vals[0]})
		}
		if len(group.Weights) > 0 {
			md.VertexGroups = append(md.VertexGroups, group)
		}
	}
}

// emitShapekeys writes the synthetic "Basis" entry with the absolute
// positions of the exported vertices, then one entry per morph/spot
// layer, always as absolute positions: relativity is decoded at paste
// time, never encoded.
func emitShapekeys(md *cpmf.MeshData, mesh hostmesh.Mesh, x *scan.Index, inv mapInventory, conv coords.Convention, unitScale float64) {
	if len(inv.shape) == 0 {
		return
	}

	basis := cpmf.Shapekey{Name: cpmf.BasisName, Relative: true}
	for di, v := range x.Verts {
		basis.Positions = append(basis.Positions, cpmf.VertexPosition{
			Index:    di,
			Position: coords.PositionFromNative(mesh.Position(v), conv, unitScale),
		})
	}
	md.Shapekeys = append(md.Shapekeys, basis)

	for _, info := range inv.shape {
		key := cpmf.Shapekey{Name: info.Name, Relative: info.Type == hostmesh.MapMorph}
		for di, v := range x.Verts {
			vals, ok := mesh.VertMapValue(info.ID, v)
			if !ok || len(vals) < 3 {
				continue
			}
			var abs mathutil.Vec3
			if info.Type == hostmesh.MapMorph {
				// morph layers store deltas from the live position
				abs = mesh.Position(v).Add(mathutil.Vec3{vals[0], vals[1], vals[2]})
			} else {
				abs = mathutil.Vec3{vals[0], vals[1], vals[2]}
			}
			key.Positions = append(key.Positions, cpmf.VertexPosition{
				Index:    di,
				Position: coords.PositionFromNative(abs, conv, unitScale),
			})
		}
		if len(key.Positions) > 0 {
			md.Shapekeys = append(md.Shapekeys, key)
		}
	}
}

// emitFreestyle writes the freestyle mark list from the reserved edge
// pick layer; only marked edges are emitted.
func emitFreestyle(md *cpmf.MeshData, mesh hostmesh.Mesh, x *scan.Index, inv mapInventory) {
	for _, info := range inv.pick {
		if info.Name != hostmesh.FreestyleEdgeMap || info.Domain != hostmesh.DomainEdge {
			continue
		}
		for _, e := range x.Edges {
			vals, ok := mesh.EdgeMapValue(info.ID, e)
			if !ok || len(vals) == 0 || vals[0] == 0 {
				continue
			}
			a, b := mesh.EdgeEnds(e)
			da, ok1 := x.VertIndex(a)
			db, ok2 := x.VertIndex(b)
			if !ok1 || !ok2 {
				continue
			}
			md.FreestyleEdges = append(md.FreestyleEdges, cpmf.FreestyleEdge{
				Vertices:         [2]int{da, db},
				UseFreestyleMark: true,
			})
		}
	}
}

// emitSelectionSets writes every non-freestyle pick layer as a named
// index list over its element class. Edge sets can only reference edges
// present in the document edges array.
func emitSelectionSets(md *cpmf.MeshData, mesh hostmesh.Mesh, x *scan.Index, plan []record, edgeDoc map[hostmesh.EdgeRef]int, inv mapInventory) {
	for _, info := range inv.pick {
		if info.Name == hostmesh.FreestyleEdgeMap {
			continue
		}
		set := cpmf.SelectionSet{Name: info.Name}
		switch info.Domain {
		case hostmesh.DomainVert:
			set.Type = cpmf.SelVert
			for di, v := range x.Verts {
				if vals, ok := mesh.VertMapValue(info.ID, v); ok && len(vals) > 0 && vals[0] != 0 {
					set.Indices = append(set.Indices, di)
				}
			}
		case hostmesh.DomainEdge:
			set.Type = cpmf.SelEdge
			for _, e := range x.Edges {
				di, inDoc := edgeDoc[e]
				if !inDoc {
					continue
				}
				if vals, ok := mesh.EdgeMapValue(info.ID, e); ok && len(vals) > 0 && vals[0] != 0 {
					set.Indices = append(set.Indices, di)
				}
			}
		case hostmesh.DomainPoly:
			set.Type = cpmf.SelFace
			for i, r := range plan {
				if vals, ok := mesh.PolyMapValue(info.ID, r.src); ok && len(vals) > 0 && vals[0] != 0 {
					set.Indices = append(set.Indices, i)
				}
			}
		default:
			continue
		}
		if len(set.Indices) > 0 {
			md.SelectionSets = append(md.SelectionSets, set)
		}
	}
}
