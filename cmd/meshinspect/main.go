package main

import (
	"flag"
	"fmt"
	"os"

	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/transport"
)

func main() {
	inPath := flag.String("in", "", "Document file (default: read the tempfile transport)")
	flag.Parse()

	path := *inPath
	if path == "" {
		path = transport.DefaultTempPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	doc, err := cpmf.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		os.Exit(1)
	}

	md := doc.Metadata
	fmt.Printf("%s v%s from %s\n", doc.Type, doc.Version, md.SourceApp)
	fmt.Printf("  coords: %s, unit scale: %g, timestamp: %s\n", md.CoordinateSystem, md.UnitScale, md.Timestamp)
	if md.Custom != nil && md.Custom.BaseDir != "" {
		fmt.Printf("  base dir: %s\n", md.Custom.BaseDir)
	}

	for i, obj := range doc.Objects {
		m := obj.Mesh
		fmt.Printf("[%d] %q (%s)\n", i, obj.Name, obj.Type)
		if obj.Parent != nil {
			fmt.Printf("    parent: object %d\n", *obj.Parent)
		}
		fmt.Printf("    verts %d, edges %d, polys %d, materials %d\n",
			len(m.Positions), len(m.Edges), len(m.Polygons), len(m.Materials))
		for _, mat := range m.Materials {
			fmt.Printf("    material %q (%d textures)\n", mat.Name, len(mat.Textures))
		}
		for _, uv := range m.UVSets {
			fmt.Printf("    uv set %q (%d faces)\n", uv.Name, len(uv.UVs))
		}
		for _, c := range m.Colors {
			fmt.Printf("    color set %q %s (%d entries)\n", c.Name, c.Domain, len(c.Colors))
		}
		for _, g := range m.VertexGroups {
			fmt.Printf("    vertex group %q (%d weights)\n", g.Name, len(g.Weights))
		}
		for _, k := range m.Shapekeys {
			rel := "absolute"
			if k.Relative {
				rel = "relative"
			}
			fmt.Printf("    shapekey %q %s (%d positions)\n", k.Name, rel, len(k.Positions))
		}
		if n := len(m.FreestyleEdges); n > 0 {
			fmt.Printf("    freestyle edges: %d\n", n)
		}
		for _, s := range m.SelectionSets {
			fmt.Printf("    selection set %q %s (%d)\n", s.Name, s.Type, len(s.Indices))
		}
	}
}
