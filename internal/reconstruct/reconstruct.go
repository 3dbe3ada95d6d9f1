// Package reconstruct rebuilds host mesh layers from a CPMF document: the
// "paste" half of the codec. Geometry lands in a first edit transaction;
// edge-keyed attributes, freestyle marks and selection sets land in a
// second one opened after the topology committed, because edge handles
// are only resolvable against committed topology.
package reconstruct

import (
	"errors"
	"fmt"
	"log/slog"

	"mesh-clipboard/internal/coords"
	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/material"
	"mesh-clipboard/internal/mathutil"
)

// ErrNoTarget means paste needed an existing mesh layer and none is active.
var ErrNoTarget = errors.New("reconstruct: no mesh layer to paste into")

// Options are the paste-time flags, read once per invocation from the
// settings collaborator.
type Options struct {
	NewMesh          bool // create a new layer instead of pasting into the active one
	ReplaceMesh      bool // clear the target layer first
	ReplaceMaterials bool // remove tag-colliding host materials before creating
	ApplyTransform   bool // apply the document object transform to the layer
}

// Paste reconstructs every object of the document. Decode/validation has
// already happened; from here only individual attribute writes may fail,
// and those are skipped with a diagnostic rather than aborting.
func Paste(scene hostmesh.Scene, doc *cpmf.Document, opts Options) error {
	conv := coords.Parse(doc.Metadata.CoordinateSystem)
	scale := doc.Metadata.UnitScale
	if scale == 0 {
		scale = 1.0
	}
	baseDir := ""
	if doc.Metadata.Custom != nil {
		baseDir = doc.Metadata.Custom.BaseDir
	}

	// replace clears a target layer once per invocation, not once per
	// object: later objects of the same document append
	cleared := map[hostmesh.LayerRef]bool{}
	for oi := range doc.Objects {
		obj := &doc.Objects[oi]
		layer, err := resolveTarget(scene, obj.Name, opts)
		if err != nil {
			return err
		}
		clearFirst := opts.ReplaceMesh && !opts.NewMesh && !cleared[layer.ID()]
		cleared[layer.ID()] = true
		if err := pasteObject(scene, layer, obj, conv, scale, baseDir, clearFirst, opts); err != nil {
			return fmt.Errorf("reconstruct: object %q: %w", obj.Name, err)
		}
	}
	return nil
}

func resolveTarget(scene hostmesh.Scene, name string, opts Options) (hostmesh.Layer, error) {
	if opts.NewMesh {
		if name == "" {
			name = "Mesh"
		}
		return scene.CreateLayer(name)
	}
	layer, ok := scene.ActiveLayer()
	if !ok {
		return nil, ErrNoTarget
	}
	return layer, nil
}

func pasteObject(scene hostmesh.Scene, layer hostmesh.Layer, obj *cpmf.Object, conv coords.Convention, scale float64, baseDir string, clearFirst bool, opts Options) error {
	md := &obj.Mesh
	lh := conv.LeftHanded()

	edit, err := layer.BeginEdit()
	if err != nil {
		return err
	}
	if clearFirst {
		edit.Clear()
	}

	// vertices
	verts := make([]hostmesh.VertRef, len(md.Positions))
	live := make([]mathutil.Vec3, len(md.Positions))
	for i, p := range md.Positions {
		live[i] = coords.PositionToNative(p, conv, scale)
		verts[i] = edit.AddVertex(live[i])
	}

	// polygons; winding reverses under a left-handed source so outward
	// normals survive the handedness flip
	polys := make([]polyRec, 0, len(md.Polygons))
	for pi, p := range md.Polygons {
		order := make([]hostmesh.VertRef, len(p.Vertices))
		for i, vi := range p.Vertices {
			order[i] = verts[vi]
		}
		if lh {
			reverseRefs(order)
		}
		ref, err := edit.AddPolygon(order)
		if err != nil {
			return fmt.Errorf("polygon %d: %w", pi, err)
		}
		if len(md.Materials) > 0 {
			mi := p.Attributes.MaterialIndex
			if err := edit.SetMaterialTag(ref, md.Materials[mi].Name); err != nil {
				slog.Warn("material tag rejected", "polygon", pi, "err", err)
			}
		}
		polys = append(polys, polyRec{ref: ref, corners: order})
	}

	// materials and shading containers: one fresh set per paste
	if err := material.CreateMaterials(scene, md.Materials, baseDir, opts.ReplaceMaterials); err != nil {
		return err
	}

	diag := &diagnostics{}
	applyUV(edit, md, polys, lh, diag)
	applyColors(edit, md, polys, verts, lh, diag)
	applyWeights(edit, md, verts, diag)
	applyShapekeys(edit, md, verts, live, conv, scale, diag)

	// first transaction: points, polygons, vertex/corner layers
	if err := edit.Commit(); err != nil {
		return fmt.Errorf("geometry commit: %w", err)
	}

	// second transaction against the committed topology; accessors and
	// handles from before the commit are not reused for edge writes
	attr, err := layer.BeginEdit()
	if err != nil {
		return err
	}
	applyEdgeAttributes(attr, md, verts, diag)
	applyFreestyle(attr, md, verts, diag)
	applySelectionSets(attr, md, polys, verts, diag)
	if err := attr.Commit(); err != nil {
		return fmt.Errorf("attribute commit: %w", err)
	}

	if opts.ApplyTransform {
		layer.SetTransform(hostmesh.Transform{
			Translation: coords.PositionToNative(obj.Transform.Translation, conv, scale),
			Rotation:    coords.QuatToNative(obj.Transform.RotationQuat, conv),
			Scale:       obj.Transform.Scale,
		})
	}

	if diag.skipped > 0 {
		slog.Warn("paste finished with skipped attribute writes", "object", obj.Name, "skipped", diag.skipped)
	}
	return nil
}

type polyRec struct {
	ref     hostmesh.PolyRef
	corners []hostmesh.VertRef
}

type diagnostics struct {
	skipped int
}

func (d *diagnostics) skip(what string, err error) {
	d.skipped++
	slog.Warn("skipping attribute write", "what", what, "err", err)
}

func reverseRefs(s []hostmesh.VertRef) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
