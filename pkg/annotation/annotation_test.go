package annotation

import (
	"strings"
	"testing"

	"github.com/matzehuels/neuroc/pkg/errors"
)

const sample = `<?xml version="1.0"?>
<annotations morphology="C010398B-P2">
  <placement rule="dendrite" y_min="0" y_max="10"/>
  <placement rule="axon" y_min="100" y_max="200" strict="true"/>
  <placement rule="L1_hard_limit" segment_type="axon"/>
  <note>keep me</note>
</annotations>
`

func TestRules(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rules, err := doc.Rules()
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}

	want := Rules{
		RuleDendrite: {YMin: 0, YMax: 10},
		RuleAxon:     {YMin: 100, YMax: 200},
	}
	if len(rules) != len(want) {
		t.Fatalf("Rules() = %v, want %v", rules, want)
	}
	for k, v := range want {
		if rules[k] != v {
			t.Errorf("rule %s = %+v, want %+v", k, rules[k], v)
		}
	}
}

func TestUpdateRule_PreservesDocument(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	orig := doc.Clone()

	if err := doc.UpdateRule(RuleAxon, Interval{YMin: 100, YMax: 200}.Shift(-4)); err != nil {
		t.Fatalf("UpdateRule() error = %v", err)
	}
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{
		`y_min="96.0"`,
		`y_max="196.0"`,
		`strict="true"`,
		`<note>keep me</note>`,
		`morphology="C010398B-P2"`,
		`rule="dendrite" y_min="0" y_max="10"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}

	rules, _ := orig.Rules()
	if rules[RuleAxon].YMin != 100 {
		t.Errorf("Clone() shares state: axon y_min = %v", rules[RuleAxon].YMin)
	}
}

func TestUpdateRule_Missing(t *testing.T) {
	doc, _ := Parse([]byte(sample))
	if err := doc.UpdateRule("soma", Interval{}); err == nil {
		t.Error("UpdateRule() expected error for unknown rule")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not xml", "<<<"},
		{"empty", ""},
		{"bad number", `<a><placement rule="axon" y_min="x" y_max="1"/></a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			if err == nil {
				_, err = doc.Rules()
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}
