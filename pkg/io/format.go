package io

import (
	"bytes"
	"path"
	"strconv"
	"strings"

	"github.com/matzehuels/neuroc/pkg/errors"
	"github.com/matzehuels/neuroc/pkg/morph"
)

// Format is a morphology file format, identified by extension.
type Format string

const (
	FormatSWC  Format = ".swc"
	FormatASC  Format = ".asc"
	FormatH5   Format = ".h5"
	FormatJSON Format = ".json"
)

// morphologyExts are the extensions batch drivers pick up from a folder.
var morphologyExts = []Format{FormatSWC, FormatASC, FormatH5}

// FormatOf returns the format of name by its (case-insensitive) extension.
func FormatOf(name string) Format {
	return Format(strings.ToLower(path.Ext(name)))
}

// IsMorphologyFile reports whether name has a morphology extension
// (.swc, .asc or .h5, any case).
func IsMorphologyFile(name string) bool {
	f := FormatOf(name)
	for _, ext := range morphologyExts {
		if f == ext {
			return true
		}
	}
	return false
}

// Decodable reports whether Decode can read name.
func Decodable(name string) bool {
	f := FormatOf(name)
	return f == FormatSWC || f == FormatJSON
}

// Stem returns the base name of name without its extension.
func Stem(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Decode parses data according to the extension of name.
// Neurolucida (.asc) and HDF5 (.h5) files are recognized but not decoded.
func Decode(name string, data []byte) (*morph.Morphology, error) {
	switch FormatOf(name) {
	case FormatSWC:
		return ReadSWC(bytes.NewReader(data))
	case FormatJSON:
		m, err := ReadJSON(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", name)
		}
		return m, nil
	case FormatASC, FormatH5:
		return nil, errors.New(errors.ErrCodeUnsupported, "%s: format %s is not supported", name, FormatOf(name))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown morphology extension", name)
}

// Encode serializes m according to the extension of name.
func Encode(name string, m *morph.Morphology) ([]byte, error) {
	var buf bytes.Buffer
	switch FormatOf(name) {
	case FormatSWC:
		if err := WriteSWC(m, &buf); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := WriteJSON(m, &buf); err != nil {
			return nil, err
		}
	case FormatASC, FormatH5:
		return nil, errors.New(errors.ErrCodeUnsupported, "%s: format %s is not supported", name, FormatOf(name))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown morphology extension", name)
	}
	return buf.Bytes(), nil
}

// FormatFloat renders f in its shortest form, keeping a trailing ".0" on
// integral values ("10.0", "-5.0", "0.125"). Output file names and annotation
// attributes use this form.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
