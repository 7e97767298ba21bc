package rescale

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/neuroc/pkg/errors"
)

// All selects every cell of a layer, on either side of a mapping.
const All = "all"

// MTypeMapping associates one human mtype (or All) with rat mtypes (or a
// single All).
type MTypeMapping struct {
	Human string
	Rats  []string
}

// RatsAll reports whether the rat side is the single element All.
func (m MTypeMapping) RatsAll() bool {
	return len(m.Rats) == 1 && strings.EqualFold(m.Rats[0], All)
}

// HumanAll reports whether the human side is All.
func (m MTypeMapping) HumanAll() bool {
	return strings.EqualFold(m.Human, All)
}

// LayerMapping is the mapping of one layer, in file order.
type LayerMapping struct {
	Layer   string
	Entries []MTypeMapping
}

// Mapping is the human-to-rat mtype mapping file:
//
//	L1:
//	  all: [all]
//	L2:
//	  PC: [TPC, UPC]
//
// Layers and entries keep their order from the file.
type Mapping []LayerMapping

// UnmarshalYAML decodes the nested mapping while keeping key order.
func (m *Mapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: mapping must be a map of layers", value.Line)
	}
	var out Mapping
	for i := 0; i+1 < len(value.Content); i += 2 {
		layer := LayerMapping{Layer: value.Content[i].Value}
		body := value.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: layer %s must map human mtypes to rat mtypes", body.Line, layer.Layer)
		}
		for j := 0; j+1 < len(body.Content); j += 2 {
			entry := MTypeMapping{Human: body.Content[j].Value}
			if err := body.Content[j+1].Decode(&entry.Rats); err != nil {
				return fmt.Errorf("layer %s, mtype %s: %w", layer.Layer, entry.Human, err)
			}
			layer.Entries = append(layer.Entries, entry)
		}
		out = append(out, layer)
	}
	*m = out
	return nil
}

// ParseMapping decodes and validates a mapping file. All on the rat side must
// be the only element.
func ParseMapping(data []byte) (Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse mtype mapping")
	}
	for _, layer := range m {
		for _, e := range layer.Entries {
			if e.RatsAll() {
				continue
			}
			for _, r := range e.Rats {
				if strings.EqualFold(r, All) {
					return nil, errors.New(errors.ErrCodeInvalidInput,
						"the human -> rat mtype mapping is: %s -> %v; if you specify \"all\", it should be the only element of the mapping",
						e.Human, e.Rats)
				}
			}
		}
	}
	return m, nil
}

// l23MTypes are interneuron mtypes that share one name across layers 2 and 3.
var l23MTypes = map[string]bool{
	"LBC": true, "BP": true, "BTC": true, "CHC": true, "DBC": true,
	"MC": true, "NBC": true, "NGC": true, "SBC": true,
}

// MTypeName returns the rat mtype name of mtype in layer: "L23_" for the
// shared layer 2/3 interneurons, "{layer}_" otherwise.
func MTypeName(layer, mtype string) string {
	switch strings.ToUpper(layer) {
	case "L2", "L3":
		if l23MTypes[mtype] {
			return "L23_" + mtype
		}
	}
	return layer + "_" + mtype
}
