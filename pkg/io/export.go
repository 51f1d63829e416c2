package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON encodes r as indented JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalize(r)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the compact encoding of r.
func MarshalJSON(r *Report) ([]byte, error) {
	data, err := json.Marshal(normalize(r))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// ExportJSON writes r to a JSON file at path.
func ExportJSON(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(r, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// normalize replaces nil slices so that empty reports encode as [] rather
// than null.
func normalize(r *Report) *Report {
	if r.Circuits != nil && r.Links != nil {
		return r
	}
	out := *r
	if out.Circuits == nil {
		out.Circuits = []Circuit{}
	}
	if out.Links == nil {
		out.Links = []Link{}
	}
	return &out
}
