package cpmf

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Error classes crossing the codec boundary. Callers wrap them with
// context; commands test them with errors.Is.
var (
	ErrEncode = errors.New("cpmf: encode failed")
	ErrDecode = errors.New("cpmf: decode failed")
)

// Format selects the wire encoding of a document.
type Format int

const (
	JSON Format = iota
	// CBOR is the compact binary map form (RFC 8949). It reuses the same
	// structs: the cbor codec falls back to json struct tags.
	CBOR
)

// FormatForPath picks the encoding by file-extension convention.
// Clipboard payloads are always JSON; only file transports reach CBOR.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbor", ".cpmfb":
		return CBOR
	default:
		return JSON
	}
}

// Encode serializes d in the given format. On failure nothing is written
// anywhere; the caller must not have touched the transport yet.
func Encode(d *Document, f Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case CBOR:
		data, err = cbor.Marshal(d)
	default:
		data, err = marshalJSONIndent(d)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

// Decode parses a document, sniffing JSON versus CBOR from the payload,
// then validates and normalizes it.
func Decode(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}

	var d Document
	var err error
	if looksLikeJSON(data) {
		err = unmarshalJSON(data, &d)
	} else {
		err = cbor.Unmarshal(data, &d)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if err := Validate(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func looksLikeJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// Validate checks the schema invariants the reconstructor relies on and
// normalizes lenient fields (unit scale, material indices). It never
// mutates the host; a violation aborts the whole paste.
func Validate(d *Document) error {
	if d.Type != DocType {
		return fmt.Errorf("%w: document type %q, want %q", ErrDecode, d.Type, DocType)
	}
	if d.Metadata.UnitScale == 0 {
		d.Metadata.UnitScale = 1.0
	}

	for oi := range d.Objects {
		obj := &d.Objects[oi]
		if obj.Parent != nil && (*obj.Parent < 0 || *obj.Parent >= len(d.Objects)) {
			return fmt.Errorf("%w: object %d: parent %d out of range", ErrDecode, oi, *obj.Parent)
		}
		m := &obj.Mesh
		nv := len(m.Positions)

		for pi, p := range m.Polygons {
			if len(p.Vertices) < 3 {
				return fmt.Errorf("%w: object %d: polygon %d has %d vertices", ErrDecode, oi, pi, len(p.Vertices))
			}
			for _, v := range p.Vertices {
				if v < 0 || v >= nv {
					return fmt.Errorf("%w: object %d: polygon %d references vertex %d of %d", ErrDecode, oi, pi, v, nv)
				}
			}
			// material_index is valid or defaults to 0
			if p.Attributes.MaterialIndex < 0 || p.Attributes.MaterialIndex >= max(len(m.Materials), 1) {
				m.Polygons[pi].Attributes.MaterialIndex = 0
			}
		}
		for ei, e := range m.Edges {
			if e.Vertices[0] < 0 || e.Vertices[0] >= nv || e.Vertices[1] < 0 || e.Vertices[1] >= nv {
				return fmt.Errorf("%w: object %d: edge %d references vertex out of range", ErrDecode, oi, ei)
			}
		}
	}
	return nil
}

// IsBasis reports whether a shapekey name is the basis entry.
func IsBasis(name string) bool {
	return strings.EqualFold(name, BasisName)
}
