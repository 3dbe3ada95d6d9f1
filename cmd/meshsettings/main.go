package main

import (
	"flag"
	"fmt"
	"os"

	"mesh-clipboard/internal/settings"
)

func main() {
	path := flag.String("path", settings.DefaultPath(), "Settings file")
	show := flag.Bool("show", false, "Print current settings and exit")
	transportKind := flag.String("transport", "", "Transport kind: clipboard or tempfile")
	tempPath := flag.String("file", "", "Temp-file path")
	newMesh := flag.String("new-mesh", "", "Paste into a new layer (true/false)")
	replaceMesh := flag.String("replace-mesh", "", "Clear target layer on paste (true/false)")
	replaceMats := flag.String("replace-materials", "", "Replace materials on paste (true/false)")
	applyTransform := flag.String("apply-transform", "", "Apply document transform on paste (true/false)")
	flag.Parse()

	cfg, err := settings.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	if *show {
		print(cfg)
		return
	}

	changed := false
	if *transportKind != "" {
		cfg.Transport = *transportKind
		changed = true
	}
	if *tempPath != "" {
		cfg.TempFilePath = *tempPath
		changed = true
	}
	changed = setBool(&cfg.NewMesh, *newMesh) || changed
	changed = setBool(&cfg.ReplaceMesh, *replaceMesh) || changed
	changed = setBool(&cfg.ReplaceMaterials, *replaceMats) || changed
	changed = setBool(&cfg.ApplyTransform, *applyTransform) || changed

	if !changed {
		print(cfg)
		return
	}

	if err := settings.Save(cfg, *path); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %s\n", *path)
}

func setBool(dst *bool, val string) bool {
	switch val {
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		return false
	}
	return true
}

func print(cfg settings.Settings) {
	fmt.Printf("transport:         %s\n", cfg.Transport)
	if cfg.TempFilePath != "" {
		fmt.Printf("tempfile_path:     %s\n", cfg.TempFilePath)
	}
	fmt.Printf("new_mesh:          %v\n", cfg.NewMesh)
	fmt.Printf("replace_mesh:      %v\n", cfg.ReplaceMesh)
	fmt.Printf("replace_materials: %v\n", cfg.ReplaceMaterials)
	fmt.Printf("apply_transform:   %v\n", cfg.ApplyTransform)
}
