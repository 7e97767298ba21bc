package rescale

import (
	"path"

	pkgio "github.com/matzehuels/neuroc/pkg/io"
	"github.com/matzehuels/neuroc/pkg/morph"
)

// ScaleCell multiplies Y coordinates by f.Y, X and Z by f.XZ and diameters by
// f.Diam, in place. The soma is left as is.
func ScaleCell(m *morph.Morphology, f Factors) {
	for s := range m.Sections() {
		for i, p := range s.Points {
			p.X *= f.XZ
			p.Y *= f.Y
			p.Z *= f.XZ
			s.Points[i] = p
		}
		for i := range s.Diameters {
			s.Diameters[i] *= f.Diam
		}
	}
}

// OutputName returns the file name of a scaled rat cell:
// "{stem}_-_Y-Scale_{y}_-_XZ-Scale_{xz}_-_Diam-Scale_{diam}{ext}".
func OutputName(location string, f Factors) string {
	return pkgio.Stem(location) +
		"_-_Y-Scale_" + pkgio.FormatFloat(f.Y) +
		"_-_XZ-Scale_" + pkgio.FormatFloat(f.XZ) +
		"_-_Diam-Scale_" + pkgio.FormatFloat(f.Diam) +
		path.Ext(location)
}
