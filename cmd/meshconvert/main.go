package main

import (
	"flag"
	"fmt"
	"os"

	"mesh-clipboard/internal/cpmf"
	"mesh-clipboard/internal/extract"
	"mesh-clipboard/internal/memhost"
	"mesh-clipboard/internal/reconstruct"
)

// meshconvert re-encodes a CPMF document between JSON and the compact
// CBOR form (picked by output extension), optionally normalizing it to
// the native coordinate system by running a full paste/copy round trip
// through the in-memory host.
func main() {
	inPath := flag.String("in", "", "Input document")
	outPath := flag.String("out", "", "Output document (.json, .cbor or .cpmfb)")
	normalize := flag.Bool("normalize", false, "Re-emit in the native coordinate system")
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -in and -out are required")
		os.Exit(1)
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *inPath, err)
		os.Exit(1)
	}
	doc, err := cpmf.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		os.Exit(1)
	}

	if *normalize {
		scene := memhost.NewScene()
		if err := reconstruct.Paste(scene, doc, reconstruct.Options{NewMesh: true, ApplyTransform: true}); err != nil {
			fmt.Fprintf(os.Stderr, "Normalize paste failed: %v\n", err)
			os.Exit(1)
		}
		doc, err = extract.Copy(scene, extract.Options{SourceApp: doc.Metadata.SourceApp})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Normalize copy failed: %v\n", err)
			os.Exit(1)
		}
	}

	out, err := cpmf.Encode(doc, cpmf.FormatForPath(*outPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encode failed: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", *outPath, len(out))
}
