package main

import (
	"flag"
	"fmt"
	"os"

	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/memhost"
	"mesh-clipboard/internal/objio"
	"mesh-clipboard/internal/reconstruct"
	"mesh-clipboard/internal/settings"
	"mesh-clipboard/internal/transport"
)

func main() {
	objPath := flag.String("obj", "", "OBJ file to paste into (default: empty scene)")
	outPath := flag.String("out", "", "OBJ file to write the result to")
	settingsPath := flag.String("settings", settings.DefaultPath(), "Settings file")
	transportKind := flag.String("transport", "", "Transport override: clipboard or tempfile")
	filePath := flag.String("file", "", "Temp-file path override")
	newMesh := flag.Bool("new", false, "Paste into a new layer")
	replaceMesh := flag.Bool("replace", false, "Clear the target layer first")
	replaceMats := flag.Bool("replace-materials", false, "Replace tag-colliding materials")
	flag.Parse()

	cfg, err := settings.Load(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}
	cfg.Resolve(settings.Flags{Transport: *transportKind, TempFilePath: *filePath})

	tr, err := transport.New(cfg.Transport, cfg.TempFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	data, err := tr.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Transport read failed: %v\n", err)
		os.Exit(1)
	}
	doc, err := cpmf.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		os.Exit(1)
	}

	var scene *memhost.Scene
	if *objPath != "" {
		scene, err = objio.Load(*objPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
			os.Exit(1)
		}
	} else {
		scene = memhost.NewScene()
		scene.AddLayer("Mesh")
	}

	opts := reconstruct.Options{
		NewMesh:          *newMesh || cfg.NewMesh,
		ReplaceMesh:      *replaceMesh || cfg.ReplaceMesh,
		ReplaceMaterials: *replaceMats || cfg.ReplaceMaterials,
		ApplyTransform:   cfg.ApplyTransform,
	}
	if err := reconstruct.Paste(scene, doc, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Paste failed: %v\n", err)
		os.Exit(1)
	}

	for _, obj := range doc.Objects {
		fmt.Printf("Pasted %q: %d verts, %d polys, %d materials\n",
			obj.Name, len(obj.Mesh.Positions), len(obj.Mesh.Polygons), len(obj.Mesh.Materials))
	}

	if *outPath != "" {
		if err := objio.Save(scene, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outPath)
	}
}
