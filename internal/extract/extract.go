// Package extract builds a CPMF document from the host scene: the "copy"
// half of the codec. Per layer the emission order is fixed: scan the
// selection, inventory attribute layers, then geometry, materials, UV,
// colors, weights, shapekeys, freestyle marks and selection sets.
package extract

import (
	"fmt"
	"log/slog"
	"time"

	"mesh-clipboard/internal/coords"
	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/material"
	"mesh-clipboard/internal/mathutil"
	"mesh-clipboard/internal/scan"
	"mesh-clipboard/internal/texture"
	"mesh-clipboard/internal/triangulate"
)

// Options configures one export run.
type Options struct {
	SourceApp  string
	Convention coords.Convention // target document convention
	UnitScale  float64
	BaseDir    string
	TexIndex   *texture.Index
}

func (o *Options) defaults() {
	if o.SourceApp == "" {
		o.SourceApp = "mesh-clipboard"
	}
	if o.UnitScale == 0 {
		o.UnitScale = 1.0
	}
}

// Copy extracts every exportable layer of the scene into one document.
// Layers with nothing to export are skipped; if none survives the whole
// export fails before any transport write.
func Copy(scene hostmesh.Scene, opts Options) (*cpmf.Document, error) {
	opts.defaults()

	layers := scene.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no mesh layer in scene", scan.ErrNoSelection)
	}

	doc := &cpmf.Document{
		Type:    cpmf.DocType,
		Version: cpmf.Version,
		Metadata: cpmf.Metadata{
			SourceApp:        opts.SourceApp,
			CoordinateSystem: opts.Convention.String(),
			UnitScale:        opts.UnitScale,
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
		},
	}
	if opts.BaseDir != "" {
		doc.Metadata.Custom = &cpmf.Custom{BaseDir: opts.BaseDir}
	}

	// layer identity → index into doc.Objects, for parent back-references
	objIndex := map[hostmesh.LayerRef]int{}
	var exported []hostmesh.Layer

	for _, layer := range layers {
		obj, err := copyLayer(layer, scene, opts)
		if err != nil {
			slog.Warn("skipping layer", "layer", layer.Name(), "err", err)
			continue
		}
		objIndex[layer.ID()] = len(doc.Objects)
		doc.Objects = append(doc.Objects, *obj)
		exported = append(exported, layer)
	}
	if len(doc.Objects) == 0 {
		return nil, fmt.Errorf("%w: no exportable layer", scan.ErrNoSelection)
	}

	// Parents resolve only across the exported set.
	for i, layer := range exported {
		if pid, ok := layer.Parent(); ok {
			if pi, ok := objIndex[pid]; ok {
				p := pi
				doc.Objects[i].Parent = &p
			}
		}
	}
	return doc, nil
}

// record is one emitted polygon: either a source polygon in host order,
// or one triangle of a resolved keyhole polygon.
type record struct {
	src     hostmesh.PolyRef
	corners []hostmesh.VertRef
}

func copyLayer(layer hostmesh.Layer, scene hostmesh.Scene, opts Options) (*cpmf.Object, error) {
	mesh, err := layer.Mesh()
	if err != nil {
		return nil, fmt.Errorf("extract: mesh accessor: %w", err)
	}

	x, err := scan.Build(mesh, scene.SelectionMode())
	if err != nil {
		return nil, err
	}

	conv := opts.Convention
	obj := &cpmf.Object{
		Name:      layer.Name(),
		Type:      "MESH",
		Transform: exportTransform(layer.Transform(), conv, opts.UnitScale),
	}
	md := &obj.Mesh

	// attribute layer inventory
	inv := inventory(mesh.Maps())

	plan := buildPlan(mesh, x, conv.LeftHanded())

	// positions
	md.Positions = make([]mathutil.Vec3, len(x.Verts))
	for i, v := range x.Verts {
		md.Positions[i] = coords.PositionFromNative(mesh.Position(v), conv, opts.UnitScale)
	}

	// materials
	tags := make([]string, len(plan))
	for i, r := range plan {
		tags[i] = mesh.MaterialTag(r.src)
	}
	table := material.BuildTable(scene, tags, inv.uvNames(), material.ExportOptions{
		BaseDir: opts.BaseDir,
		Index:   opts.TexIndex,
	})
	md.Materials = table.Materials

	// edges, attribute-driven: only crease/seam-marked edges are worth
	// carrying, keeping payload proportional to marked edges
	edgeDoc := map[hostmesh.EdgeRef]int{}
	for _, e := range x.Edges {
		a, b := mesh.EdgeEnds(e)
		da, ok1 := x.VertIndex(a)
		db, ok2 := x.VertIndex(b)
		if !ok1 || !ok2 {
			continue
		}
		var attrs cpmf.EdgeAttributes
		if inv.crease >= 0 {
			if vals, ok := mesh.EdgeMapValue(inv.crease, e); ok && len(vals) > 0 {
				attrs.CreaseEdge = vals[0]
			}
		}
		if inv.seam >= 0 {
			if vals, ok := mesh.EdgeMapValue(inv.seam, e); ok && len(vals) > 0 && vals[0] != 0 {
				attrs.Seam = true
			}
		}
		if attrs.CreaseEdge == 0 && !attrs.Seam {
			continue
		}
		edgeDoc[e] = len(md.Edges)
		md.Edges = append(md.Edges, cpmf.Edge{Vertices: [2]int{da, db}, Attributes: attrs})
	}

	// polygons
	for _, r := range plan {
		verts := make([]int, len(r.corners))
		for i, v := range r.corners {
			verts[i], _ = x.VertIndex(v)
		}
		md.Polygons = append(md.Polygons, cpmf.Polygon{
			Vertices:   verts,
			Attributes: cpmf.PolygonAttributes{MaterialIndex: table.IndexOf(mesh.MaterialTag(r.src))},
		})
	}

	emitUV(md, mesh, plan, inv)
	emitColors(md, mesh, x, plan, inv)
	emitWeights(md, mesh, x, inv)
	emitShapekeys(md, mesh, x, inv, conv, opts.UnitScale)
	emitFreestyle(md, mesh, x, inv)
	emitSelectionSets(md, mesh, x, plan, edgeDoc, inv)

	return obj, nil
}

func exportTransform(t hostmesh.Transform, conv coords.Convention, unitScale float64) cpmf.ObjectTransform {
	return cpmf.ObjectTransform{
		Translation:  coords.PositionFromNative(t.Translation, conv, unitScale),
		RotationQuat: coords.QuatFromNative(t.Rotation, conv),
		Scale:        t.Scale,
	}
}

// buildPlan maps each selected polygon to its emitted records, resolving
// keyhole polygons into triangles. With a left-handed target the corner
// order of every record is reversed here, so per-corner attribute
// emission follows automatically.
func buildPlan(mesh hostmesh.Mesh, x *scan.Index, leftHanded bool) []record {
	var plan []record
	for _, p := range x.Polys {
		hostVerts := mesh.PolygonVerts(p)
		dense := make([]int, 0, len(hostVerts))
		complete := true
		for _, v := range hostVerts {
			di, ok := x.VertIndex(v)
			if !ok {
				complete = false
				break
			}
			dense = append(dense, di)
		}
		if !complete {
			slog.Warn("skipping polygon outside selection scope", "poly", int(p))
			continue
		}

		if triangulate.IsKeyhole(dense) {
			tris := triangulate.Triangulate(dense, func(di int) mathutil.Vec3 {
				return mesh.Position(x.Verts[di])
			})
			for _, tri := range tris {
				corners := []hostmesh.VertRef{x.Verts[tri[0]], x.Verts[tri[1]], x.Verts[tri[2]]}
				plan = append(plan, record{src: p, corners: orient(corners, leftHanded)})
			}
			continue
		}
		corners := make([]hostmesh.VertRef, len(hostVerts))
		copy(corners, hostVerts)
		plan = append(plan, record{src: p, corners: orient(corners, leftHanded)})
	}
	return plan
}

func orient(corners []hostmesh.VertRef, reverse bool) []hostmesh.VertRef {
	if reverse {
		for i, j := 0, len(corners)-1; i < j; i, j = i+1, j-1 {
			corners[i], corners[j] = corners[j], corners[i]
		}
	}
	return corners
}
