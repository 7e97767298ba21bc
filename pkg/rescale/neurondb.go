package rescale

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/neuroc/pkg/errors"
)

// NeuronDBFile is the name of the rat morphology index.
const NeuronDBFile = "neuronDB.xml"

// subtypeSeparator splits an mtype from its subtype ("L5_TPC:A").
const subtypeSeparator = ":"

// Entry is one morphology listed in a neuronDB.xml file.
type Entry struct {
	Name  string
	MType string
	Layer string
}

// BaseMType returns the mtype without its subtype.
func (e Entry) BaseMType() string {
	mtype, _, _ := strings.Cut(e.MType, subtypeSeparator)
	return mtype
}

// InLayer reports whether the entry belongs to layer ("L1", "L23", ...).
func (e Entry) InLayer(layer string) bool {
	if len(layer) < 2 {
		return false
	}
	return strings.EqualFold(e.Layer, layer[1:])
}

// ParseNeuronDB reads the morphology elements of a neuronDB.xml document:
//
//	<neurondb><listing>
//	  <morphology><name>C010398B-P2</name><mtype>L5_TPC:A</mtype><layer>5</layer></morphology>
//	</listing></neurondb>
func ParseNeuronDB(data []byte) ([]Entry, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", NeuronDBFile)
	}
	var out []Entry
	for _, el := range doc.FindElements("//morphology") {
		e := Entry{
			Name:  childText(el, "name"),
			MType: childText(el, "mtype"),
			Layer: childText(el, "layer"),
		}
		if e.Name == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}
