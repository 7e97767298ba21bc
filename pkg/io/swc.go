package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/errors"
	"github.com/matzehuels/neuroc/pkg/morph"
)

type sample struct {
	id     int
	typ    morph.SectionType
	point  r3.Vec
	diam   float64
	parent int
}

// ReadSWC decodes an SWC stream into a morphology.
//
// Samples of type 1 form the soma. Every other sample chain is split into
// sections at branch points and at type changes. A section that starts at a
// branch point repeats the parent's last point as its first point; sections
// attached to the soma (or with no parent) become roots and start at their own
// first sample. Diameters are twice the SWC radius.
func ReadSWC(r io.Reader) (*morph.Morphology, error) {
	var samples []sample
	byID := make(map[int]int)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		s, err := parseSample(fields)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", lineNo)
		}
		if _, dup := byID[s.id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: duplicate sample id %d", lineNo, s.id)
		}
		byID[s.id] = len(samples)
		samples = append(samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read swc: %w", err)
	}

	children := make(map[int][]int, len(samples))
	for i, s := range samples {
		if s.parent == -1 {
			continue
		}
		if _, ok := byID[s.parent]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "sample %d: unknown parent %d", s.id, s.parent)
		}
		children[s.parent] = append(children[s.parent], i)
	}

	m := morph.New()
	isSoma := func(id int) bool {
		i, ok := byID[id]
		return ok && samples[i].typ == morph.Soma
	}

	type start struct {
		parent morph.SectionID
		first  int // sample index of the section's first own sample
	}
	var pending []start
	for i, s := range samples {
		if s.typ == morph.Soma {
			m.Soma.Points = append(m.Soma.Points, s.point)
			m.Soma.Diameters = append(m.Soma.Diameters, s.diam)
			continue
		}
		if s.parent == -1 || isSoma(s.parent) {
			pending = append(pending, start{parent: morph.NoParent, first: i})
		}
	}

	visited := 0
	for len(pending) > 0 {
		st := pending[0]
		pending = pending[1:]

		var pts []r3.Vec
		var diams []float64
		cur := samples[st.first]
		if st.parent != morph.NoParent {
			p := samples[byID[cur.parent]]
			pts = append(pts, p.point)
			diams = append(diams, p.diam)
		}
		for {
			visited++
			pts = append(pts, cur.point)
			diams = append(diams, cur.diam)
			next := children[cur.id]
			if len(next) != 1 || samples[next[0]].typ != cur.typ {
				break
			}
			cur = samples[next[0]]
		}

		var id morph.SectionID
		var err error
		if st.parent == morph.NoParent {
			id, err = m.AddRoot(samples[st.first].typ, pts, diams)
		} else {
			id, err = m.AppendSectionWithType(st.parent, samples[st.first].typ, pts, diams)
		}
		if err != nil {
			return nil, err
		}
		for _, c := range children[cur.id] {
			if samples[c].typ == morph.Soma {
				continue
			}
			pending = append(pending, start{parent: id, first: c})
		}
	}

	if want := len(samples) - len(m.Soma.Points); visited != want {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%d samples are not connected to a root", want-visited)
	}
	return m, nil
}

func parseSample(fields []string) (sample, error) {
	if len(fields) < 7 {
		return sample{}, fmt.Errorf("expected 7 columns, got %d", len(fields))
	}
	var s sample
	var err error
	if s.id, err = strconv.Atoi(fields[0]); err != nil {
		return s, fmt.Errorf("id: %w", err)
	}
	typ, err := strconv.Atoi(fields[1])
	if err != nil {
		return s, fmt.Errorf("type: %w", err)
	}
	s.typ = morph.SectionType(typ)
	var v [4]float64
	for i := range v {
		if v[i], err = strconv.ParseFloat(fields[2+i], 64); err != nil {
			return s, fmt.Errorf("column %d: %w", 3+i, err)
		}
	}
	s.point = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	s.diam = 2 * v[3]
	if s.parent, err = strconv.Atoi(fields[6]); err != nil {
		return s, fmt.Errorf("parent: %w", err)
	}
	if s.parent < -1 {
		s.parent = -1
	}
	return s, nil
}

// WriteSWC encodes m as SWC. Soma points come first, then sections in
// pre-order. The duplicated first point of non-root sections is not written;
// its child samples attach to the parent's last sample instead.
func WriteSWC(m *morph.Morphology, w io.Writer) error {
	bw := bufio.NewWriter(w)
	next := 1
	emit := func(typ morph.SectionType, p r3.Vec, d float64, parent int) int {
		id := next
		next++
		fmt.Fprintf(bw, "%d %d %s %s %s %s %d\n", id, int(typ),
			formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z), formatFloat(d/2), parent)
		return id
	}

	fmt.Fprintln(bw, "# index type x y z radius parent")
	somaLast := -1
	for i, p := range m.Soma.Points {
		somaLast = emit(morph.Soma, p, m.Soma.Diameters[i], somaLast)
	}

	last := make(map[morph.SectionID]int)
	for s := range m.IterAll() {
		parent := somaLast
		from := 0
		if pid, ok := m.Parent(s.ID); ok {
			parent = last[pid]
			from = 1
		}
		for i := from; i < len(s.Points); i++ {
			parent = emit(s.Type, s.Points[i], s.Diameters[i], parent)
		}
		last[s.ID] = parent
	}
	return bw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
