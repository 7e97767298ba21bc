package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/morph"
)

type document struct {
	Soma     shape     `json:"soma"`
	Sections []section `json:"sections"`
}

type shape struct {
	Points    [][3]float64 `json:"points"`
	Diameters []float64    `json:"diameters"`
}

type section struct {
	ID        int          `json:"id"`
	Parent    int          `json:"parent"`
	Type      int          `json:"type"`
	Points    [][3]float64 `json:"points"`
	Diameters []float64    `json:"diameters"`
}

func toArrays(pts []r3.Vec) [][3]float64 {
	out := make([][3]float64, len(pts))
	for i, p := range pts {
		out[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return out
}

// WriteJSON encodes a morphology as JSON and writes it to w.
// Sections are listed in pre-order with their arena ids, so a parent always
// precedes its children. This format can be re-imported with [ReadJSON].
func WriteJSON(m *morph.Morphology, w io.Writer) error {
	out := document{
		Soma: shape{
			Points:    toArrays(m.Soma.Points),
			Diameters: m.Soma.Diameters,
		},
		Sections: []section{},
	}
	for s := range m.IterAll() {
		parent, _ := m.Parent(s.ID)
		out.Sections = append(out.Sections, section{
			ID:        int(s.ID),
			Parent:    int(parent),
			Type:      int(s.Type),
			Points:    toArrays(s.Points),
			Diameters: s.Diameters,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a morphology to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(m *morph.Morphology, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, f)
}
