package io

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/errors"
	"github.com/matzehuels/neuroc/pkg/morph"
)

// simpleSWC is a soma with a forking dendrite and a forking axon.
const simpleSWC = `# index type x y z radius parent
1 1 0 0 0 1 -1
2 3 0 0 0 1 1
3 3 0 5 0 1 2
4 3 -5 5 0 1 3
5 3 6 5 0 1 3
6 2 0 0 0 1 1
7 2 0 -4 0 1 6
8 2 6 -4 0 1 7
9 2 -5 -4 0 1 7
`

func TestReadSWC(t *testing.T) {
	m, err := ReadSWC(strings.NewReader(simpleSWC))
	if err != nil {
		t.Fatalf("ReadSWC() error = %v", err)
	}

	if len(m.Soma.Points) != 1 || m.Soma.Diameters[0] != 2 {
		t.Errorf("soma = %+v, want one point with diameter 2", m.Soma)
	}
	if got := len(m.Roots()); got != 2 {
		t.Fatalf("roots = %d, want 2", got)
	}
	if m.SectionCount() != 6 {
		t.Errorf("SectionCount() = %d, want 6", m.SectionCount())
	}

	dend, _ := m.Section(m.Roots()[0])
	if dend.Type != morph.BasalDendrite {
		t.Errorf("first root type = %v, want basal_dendrite", dend.Type)
	}
	if want := []r3.Vec{{}, {Y: 5}}; !slices.Equal(dend.Points, want) {
		t.Errorf("dendrite root points = %v, want %v", dend.Points, want)
	}

	kids := m.Children(dend.ID)
	if len(kids) != 2 {
		t.Fatalf("dendrite children = %v, want 2", kids)
	}
	left, _ := m.Section(kids[0])
	if want := []r3.Vec{{Y: 5}, {X: -5, Y: 5}}; !slices.Equal(left.Points, want) {
		t.Errorf("child points = %v, want %v", left.Points, want)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestReadSWC_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short line", "1 1 0 0 0\n"},
		{"bad float", "1 1 0 x 0 1 -1\n"},
		{"duplicate id", "1 1 0 0 0 1 -1\n1 3 0 0 0 1 -1\n"},
		{"unknown parent", "1 3 0 0 0 1 7\n"},
		{"cycle", "1 3 0 0 0 1 2\n2 3 0 1 0 1 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSWC(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadSWC() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestSWC_RoundTrip(t *testing.T) {
	m, err := ReadSWC(strings.NewReader(simpleSWC))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteSWC(m, &buf); err != nil {
		t.Fatal(err)
	}
	back, err := ReadSWC(&buf)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}

	if back.SectionCount() != m.SectionCount() {
		t.Fatalf("SectionCount() = %d, want %d", back.SectionCount(), m.SectionCount())
	}
	orig := collect(m)
	got := collect(back)
	for i := range orig {
		if orig[i].Type != got[i].Type || !slices.Equal(orig[i].Points, got[i].Points) ||
			!slices.Equal(orig[i].Diameters, got[i].Diameters) {
			t.Errorf("section %d differs after round trip", i)
		}
	}
}

func TestWriteSWC_NoSoma(t *testing.T) {
	m := morph.New()
	root, _ := m.AddRoot(morph.Axon, []r3.Vec{{}, {Y: -1}}, []float64{1, 1})
	_, _ = m.AppendSection(root, []r3.Vec{{Y: -1}, {X: 1, Y: -1}}, []float64{1, 0.5})

	var buf bytes.Buffer
	if err := WriteSWC(m, &buf); err != nil {
		t.Fatal(err)
	}
	want := "# index type x y z radius parent\n" +
		"1 2 0 0 0 0.5 -1\n" +
		"2 2 0 -1 0 0.5 1\n" +
		"3 2 1 -1 0 0.25 2\n"
	if buf.String() != want {
		t.Errorf("WriteSWC() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func collect(m *morph.Morphology) []*morph.Section {
	return slices.Collect(m.IterAll())
}
