// Package annotation reads and updates the XML placement-rule sidecar that
// accompanies a morphology.
//
// A sidecar holds one placement element per neurite type:
//
//	<annotations>
//	  <placement rule="dendrite" y_min="0" y_max="10"/>
//	  <placement rule="axon" y_min="100" y_max="200"/>
//	</annotations>
//
// [Document] keeps the full XML tree, so [Document.UpdateRule] changes only
// the y_min and y_max attributes of one rule and leaves every other element
// and attribute untouched when the document is written back.
package annotation

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/matzehuels/neuroc/pkg/errors"
	pkgio "github.com/matzehuels/neuroc/pkg/io"
)

// Rule names used by the axon shrinker.
const (
	RuleAxon     = "axon"
	RuleDendrite = "dendrite"
)

// Interval is a vertical extent along Y.
type Interval struct {
	YMin float64
	YMax float64
}

// Shift returns the interval moved by dy.
func (iv Interval) Shift(dy float64) Interval {
	return Interval{YMin: iv.YMin + dy, YMax: iv.YMax + dy}
}

// Rules maps a neurite type name to its placement interval.
type Rules map[string]Interval

// Document is a parsed annotation file.
type Document struct {
	doc *etree.Document
}

// Parse reads an annotation document.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse annotation")
	}
	if doc.Root() == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "annotation has no root element")
	}
	return &Document{doc: doc}, nil
}

// Rules returns every placement rule carrying both y_min and y_max. Rules
// with other attributes only are ignored. A malformed number is an error.
func (d *Document) Rules() (Rules, error) {
	rules := make(Rules)
	for _, el := range d.placements() {
		name := el.SelectAttrValue("rule", "")
		lo := el.SelectAttr("y_min")
		hi := el.SelectAttr("y_max")
		if name == "" || lo == nil || hi == nil {
			continue
		}
		yMin, err := strconv.ParseFloat(lo.Value, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "rule %s: y_min", name)
		}
		yMax, err := strconv.ParseFloat(hi.Value, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "rule %s: y_max", name)
		}
		rules[name] = Interval{YMin: yMin, YMax: yMax}
	}
	return rules, nil
}

// UpdateRule sets y_min and y_max on every placement element of the named
// rule. It reports an error when the rule does not exist.
func (d *Document) UpdateRule(name string, iv Interval) error {
	found := false
	for _, el := range d.placements() {
		if el.SelectAttrValue("rule", "") != name {
			continue
		}
		el.CreateAttr("y_min", pkgio.FormatFloat(iv.YMin))
		el.CreateAttr("y_max", pkgio.FormatFloat(iv.YMax))
		found = true
	}
	if !found {
		return fmt.Errorf("rule %q not found", name)
	}
	return nil
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	return &Document{doc: d.doc.Copy()}
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	return d.doc.WriteToBytes()
}

func (d *Document) placements() []*etree.Element {
	return d.doc.FindElements("//placement")
}
