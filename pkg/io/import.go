package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/morph"
)

func fromArrays(pts [][3]float64) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
	}
	return out
}

// ReadJSON decodes a JSON morphology from r.
//
// The input must be an object with a "soma" and a "sections" array:
//
//	{
//	  "soma": {"points": [[0, 0, 0]], "diameters": [10]},
//	  "sections": [
//	    {"id": 0, "parent": -1, "type": 2, "points": [[0,0,0],[0,5,0]], "diameters": [1,1]},
//	    {"id": 1, "parent": 0, "type": 2, "points": [[0,5,0],[3,8,0]], "diameters": [1,1]}
//	  ]
//	}
//
// A parent of -1 marks a root. Parents must appear before their children.
// Ids in the input are only used to resolve links; the returned morphology
// assigns its own ids in input order. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*morph.Morphology, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	m := morph.New()
	m.Soma.Points = fromArrays(data.Soma.Points)
	m.Soma.Diameters = data.Soma.Diameters

	ids := make(map[int]morph.SectionID, len(data.Sections))
	for _, s := range data.Sections {
		if _, dup := ids[s.ID]; dup {
			return nil, fmt.Errorf("section %d: duplicate id", s.ID)
		}
		var id morph.SectionID
		var err error
		if s.Parent < 0 {
			id, err = m.AddRoot(morph.SectionType(s.Type), fromArrays(s.Points), s.Diameters)
		} else {
			parent, ok := ids[s.Parent]
			if !ok {
				return nil, fmt.Errorf("section %d: parent %d: %w", s.ID, s.Parent, morph.ErrUnknownSection)
			}
			id, err = m.AppendSectionWithType(parent, morph.SectionType(s.Type), fromArrays(s.Points), s.Diameters)
		}
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", s.ID, err)
		}
		ids[s.ID] = id
	}
	return m, nil
}

// ImportJSON reads a JSON file at path and returns the decoded morphology.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (*morph.Morphology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
