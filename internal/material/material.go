// Package material maps host material and shading assignments to the
// document material table on export, and recreates materials with their
// shading-assignment containers on import.
package material

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/hostmesh"
	"mesh-clipboard/internal/texture"
)

// DefaultName is the synthetic entry covering polygons with no material
// tag at all.
const DefaultName = "Default"

// defaultBaseColor matches a freshly created host material.
var defaultBaseColor = []float64{0.8, 0.8, 0.8, 1.0}

// ExportOptions controls texture descriptor resolution.
type ExportOptions struct {
	BaseDir string
	Index   *texture.Index
}

// Table is the emitted material list plus the tag lookup polygons
// resolve their material_index through.
type Table struct {
	Materials []cpmf.Material
	byTag     map[string]int
}

// BuildTable enumerates host materials named by their shading-assignment
// container tag; untagged host materials are omitted. A synthetic
// "Default" entry is appended only when at least one exported polygon
// carries no tag. uvNames guards texture descriptors: one is retained
// only when both its image resolves to a decodable file and the
// referenced UV layer was exported.
func BuildTable(scene hostmesh.Scene, polyTags []string, uvNames map[string]bool, opts ExportOptions) *Table {
	t := &Table{byTag: map[string]int{}}

	for _, ref := range scene.Materials() {
		m := scene.MaterialInfo(ref)
		if m.Tag == "" {
			continue
		}
		if _, dup := t.byTag[m.Tag]; dup {
			continue
		}
		entry := cpmf.Material{
			Name:      m.Tag,
			BaseColor: m.BaseColor,
		}
		if len(entry.BaseColor) == 0 {
			entry.BaseColor = defaultBaseColor
		}
		for _, slot := range m.Textures {
			tex, ok := resolveTexture(slot, uvNames, opts)
			if !ok {
				continue
			}
			entry.Textures = append(entry.Textures, tex)
		}
		t.byTag[m.Tag] = len(t.Materials)
		t.Materials = append(t.Materials, entry)
	}

	for _, tag := range polyTags {
		if tag == "" {
			t.byTag[""] = len(t.Materials)
			t.Materials = append(t.Materials, cpmf.Material{
				Name:      DefaultName,
				BaseColor: defaultBaseColor,
			})
			break
		}
	}
	return t
}

// IndexOf resolves a polygon material tag to its table index; unresolved
// tags default to 0.
func (t *Table) IndexOf(tag string) int {
	if i, ok := t.byTag[tag]; ok {
		return i
	}
	return 0
}

func resolveTexture(slot hostmesh.TextureSlot, uvNames map[string]bool, opts ExportOptions) (cpmf.Texture, bool) {
	if slot.Image == "" || slot.UVMap == "" || !uvNames[slot.UVMap] {
		return cpmf.Texture{}, false
	}
	path, ok := texture.Resolve(slot.Image, opts.BaseDir, opts.Index)
	if !ok {
		return cpmf.Texture{}, false
	}
	if err := texture.Probe(path); err != nil {
		slog.Warn("skipping texture", "image", slot.Image, "err", err)
		return cpmf.Texture{}, false
	}
	typ := slot.Type
	if typ == "" {
		typ = "diffuse"
	}
	return cpmf.Texture{Type: typ, Image: path, UVMap: slot.UVMap}, true
}

// CreateMaterials makes one fresh host material plus shading container
// per document material. There is deliberately no de-duplication against
// existing host materials: pasting the same document twice produces two
// independent material sets. With replace set, existing materials whose
// container tag collides are removed first.
func CreateMaterials(scene hostmesh.Scene, mats []cpmf.Material, baseDir string, replace bool) error {
	if replace {
		existing := map[string][]hostmesh.MaterialRef{}
		for _, ref := range scene.Materials() {
			info := scene.MaterialInfo(ref)
			existing[info.Tag] = append(existing[info.Tag], ref)
		}
		for _, m := range mats {
			for _, ref := range existing[m.Name] {
				if err := scene.RemoveMaterial(ref); err != nil {
					slog.Warn("could not remove material", "tag", m.Name, "err", err)
				}
			}
		}
	}

	for _, m := range mats {
		host := hostmesh.Material{
			Name:      "M_" + m.Name,
			Tag:       m.Name,
			BaseColor: m.BaseColor,
		}
		for _, tex := range m.Textures {
			image := tex.Image
			if image != "" && !filepath.IsAbs(image) && baseDir != "" {
				image = filepath.Join(baseDir, image)
			}
			host.Textures = append(host.Textures, hostmesh.TextureSlot{
				Type:  tex.Type,
				Image: image,
				UVMap: tex.UVMap,
			})
		}
		if _, err := scene.CreateMaterial(host); err != nil {
			return fmt.Errorf("material: create %q: %w", m.Name, err)
		}
	}
	return nil
}
