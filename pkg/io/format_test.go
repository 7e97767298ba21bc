package io

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/viant/afs"

	"github.com/matzehuels/neuroc/pkg/errors"
)

func TestIsMorphologyFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"cell.swc", true},
		{"cell.SWC", true},
		{"cell.asc", true},
		{"cell.h5", true},
		{"cell.xml", false},
		{"cell.json", false},
		{"cell", false},
	}
	for _, tt := range tests {
		if got := IsMorphologyFile(tt.name); got != tt.want {
			t.Errorf("IsMorphologyFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDecodable(t *testing.T) {
	for name, want := range map[string]bool{
		"cell.swc":  true,
		"cell.SWC":  true,
		"cell.json": true,
		"cell.asc":  false,
		"cell.h5":   false,
	} {
		if got := Decodable(name); got != want {
			t.Errorf("Decodable(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/a/b/C010398B-P2.swc"); got != "C010398B-P2" {
		t.Errorf("Stem() = %q", got)
	}
}

func TestDecode_Unsupported(t *testing.T) {
	for _, name := range []string{"cell.asc", "cell.h5"} {
		if _, err := Decode(name, nil); !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("Decode(%q) error = %v, want UNSUPPORTED", name, err)
		}
	}
	if _, err := Decode("cell.txt", nil); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Decode(txt) error = %v, want INVALID_FORMAT", err)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	m, err := Decode("cell.swc", []byte(simpleSWC))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Encode("cell.json", m)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if back.SectionCount() != m.SectionCount() || len(back.Soma.Points) != 1 {
		t.Errorf("round trip lost sections: %d vs %d", back.SectionCount(), m.SectionCount())
	}
	if err := back.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestReadJSON_UnknownParent(t *testing.T) {
	input := `{"soma":{"points":[],"diameters":[]},"sections":[{"id":3,"parent":9,"type":2,"points":[[0,0,0]],"diameters":[1]}]}`
	if _, err := ReadJSON(bytes.NewBufferString(input)); err == nil {
		t.Error("ReadJSON() expected error for unknown parent")
	}
}

func TestStorage(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	dir := t.TempDir()

	m, err := Decode("cell.swc", []byte(simpleSWC))
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	if err := EnsureDir(ctx, fs, out); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	for _, name := range []string{"b.swc", "a.swc"} {
		if err := Save(ctx, fs, filepath.Join(out, name), m); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}
	if err := Upload(ctx, fs, filepath.Join(out, "a.xml"), []byte("<root/>")); err != nil {
		t.Fatal(err)
	}

	files, err := ListMorphologies(ctx, fs, out)
	if err != nil {
		t.Fatalf("ListMorphologies() error = %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if !slices.Equal(names, []string{"a.swc", "b.swc"}) {
		t.Errorf("ListMorphologies() = %v, want [a.swc b.swc]", names)
	}

	back, err := Load(ctx, fs, files[0])
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if back.SectionCount() != m.SectionCount() {
		t.Errorf("loaded %d sections, want %d", back.SectionCount(), m.SectionCount())
	}

	if _, err := Load(ctx, fs, filepath.Join(out, "missing.swc")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{10, "10.0"},
		{-5, "-5.0"},
		{0.125, "0.125"},
		{11.5, "11.5"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
