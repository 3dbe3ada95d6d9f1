// Package objio loads and saves Wavefront OBJ geometry into the
// in-memory host scene, giving the CLI tools something real to copy from
// and paste into. Only the subset the interchange cares about is
// handled: v, f, o and usemtl records.
package objio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/mathutil"
	"mesh-clipboard/internal/memhost"
)

// Load reads an OBJ file into a fresh scene. Each `o` record starts a new
// layer; files without one get a single layer named after the file.
func Load(path string) (*memhost.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objio: open %s: %w", path, err)
	}
	defer f.Close()

	scene := memhost.NewScene()
	var layer *memhost.Layer
	// vertex numbering is file-global, but each handle is only valid in
	// the layer that owned the v record
	type vertEntry struct {
		layer *memhost.Layer
		ref   hostmesh.VertRef
	}
	var verts []vertEntry
	tag := ""

	ensureLayer := func() *memhost.Layer {
		if layer == nil {
			layer = scene.AddLayer(strings.TrimSuffix(path, ".obj"))
		}
		return layer
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(strings.TrimSpace(sc.Text()))
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "o":
			// vertex numbering stays global across objects
			if len(fields) > 1 {
				layer = scene.AddLayer(fields[1])
				tag = ""
			}
		case "usemtl":
			if len(fields) > 1 {
				tag = fields[1]
			}
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("objio: %s:%d: short vertex record", path, line)
			}
			var p mathutil.Vec3
			for i := 0; i < 3; i++ {
				p[i], err = strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("objio: %s:%d: %w", path, line, err)
				}
			}
			l := ensureLayer()
			verts = append(verts, vertEntry{layer: l, ref: l.AddVertexDirect(p)})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("objio: %s:%d: face needs 3 vertices", path, line)
			}
			face := make([]hostmesh.VertRef, 0, len(fields)-1)
			for _, fv := range fields[1:] {
				// f entries are v, v/vt, or v/vt/vn; only v matters here
				idxStr := strings.SplitN(fv, "/", 2)[0]
				idx, err := strconv.Atoi(idxStr)
				if err != nil {
					return nil, fmt.Errorf("objio: %s:%d: %w", path, line, err)
				}
				if idx < 0 {
					idx = len(verts) + idx + 1
				}
				if idx < 1 || idx > len(verts) {
					return nil, fmt.Errorf("objio: %s:%d: vertex %d out of range", path, line, idx)
				}
				entry := verts[idx-1]
				if entry.layer != ensureLayer() {
					return nil, fmt.Errorf("objio: %s:%d: vertex %d belongs to object %q", path, line, idx, entry.layer.Name())
				}
				face = append(face, entry.ref)
			}
			ensureLayer().AddPolygonDirect(hostmesh.KindFace, tag, face...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("objio: read %s: %w", path, err)
	}
	if layer == nil {
		return nil, fmt.Errorf("objio: %s: no geometry", path)
	}
	return scene, nil
}

// Save writes every layer of the scene as OBJ.
func Save(scene *memhost.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("objio: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	base := 1
	for _, l := range scene.Layers() {
		mesh, err := l.Mesh()
		if err != nil {
			return fmt.Errorf("objio: layer %s: %w", l.Name(), err)
		}
		fmt.Fprintf(w, "o %s\n", l.Name())

		verts := mesh.Vertices()
		index := make(map[hostmesh.VertRef]int, len(verts))
		for i, v := range verts {
			p := mesh.Position(v)
			fmt.Fprintf(w, "v %g %g %g\n", p[0], p[1], p[2])
			index[v] = base + i
		}

		lastTag := ""
		for _, p := range mesh.Polygons() {
			if tag := mesh.MaterialTag(p); tag != lastTag && tag != "" {
				fmt.Fprintf(w, "usemtl %s\n", tag)
				lastTag = tag
			}
			w.WriteString("f")
			for _, v := range mesh.PolygonVerts(p) {
				fmt.Fprintf(w, " %d", index[v])
			}
			w.WriteByte('\n')
		}
		base += len(verts)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("objio: write %s: %w", path, err)
	}
	return nil
}
