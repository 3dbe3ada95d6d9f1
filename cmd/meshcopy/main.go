package main

import (
	"flag"
	"fmt"
	"os"

	"mesh-clipboard/internal/coords"
	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/extract"
	"mesh-clipboard/internal/objio"
	"mesh-clipboard/internal/settings"
	"mesh-clipboard/internal/texture"
	"mesh-clipboard/internal/transport"
)

func main() {
	objPath := flag.String("obj", "", "OBJ file to copy from")
	settingsPath := flag.String("settings", settings.DefaultPath(), "Settings file")
	transportKind := flag.String("transport", "", "Transport override: clipboard or tempfile")
	filePath := flag.String("file", "", "Temp-file path override")
	coordSys := flag.String("coords", coords.NativeName, "Target coordinate system")
	unitScale := flag.Float64("unit", 1.0, "Document unit scale")
	baseDir := flag.String("basedir", "", "Base directory recorded for texture paths")
	texDir := flag.String("texdir", "", "Directory to index for texture images")
	flag.Parse()

	if *objPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -obj is required")
		os.Exit(1)
	}

	cfg, err := settings.Load(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}
	cfg.Resolve(settings.Flags{Transport: *transportKind, TempFilePath: *filePath})

	scene, err := objio.Load(*objPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	opts := extract.Options{
		Convention: coords.Parse(*coordSys),
		UnitScale:  *unitScale,
		BaseDir:    *baseDir,
	}
	if *texDir != "" {
		opts.TexIndex = texture.BuildIndex(*texDir)
	}

	doc, err := extract.Copy(scene, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Copy failed: %v\n", err)
		os.Exit(1)
	}

	tr, err := transport.New(cfg.Transport, cfg.TempFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := cpmf.Encode(doc, cpmf.FormatForPath(tr.Path()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encode failed: %v\n", err)
		os.Exit(1)
	}
	if err := tr.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "Transport write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Copied %d object(s) to %s (%d bytes)\n", len(doc.Objects), describe(tr), len(data))
}

func describe(t transport.Transport) string {
	if p := t.Path(); p != "" {
		return p
	}
	return "clipboard"
}
