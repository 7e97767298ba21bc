package pipeline

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/viant/afs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/neuroc/pkg/annotation"
	"github.com/matzehuels/neuroc/pkg/cache"
	"github.com/matzehuels/neuroc/pkg/errors"
	pkgio "github.com/matzehuels/neuroc/pkg/io"
	"github.com/matzehuels/neuroc/pkg/jitter"
	"github.com/matzehuels/neuroc/pkg/morph"
	"github.com/matzehuels/neuroc/pkg/observability"
	"github.com/matzehuels/neuroc/pkg/report"
)

// cellSWC has a short dendrite and an axon running up the Y axis to a fork
// at y=5.5.
const cellSWC = `# index type x y z radius parent
1 1 0 0 0 1 -1
2 3 0 0 0 0.5 1
3 3 0 -1 0 0.5 2
4 2 0 0 0 0.5 1
5 2 0 1 0 0.5 4
6 2 0 2 0 0.5 5
7 2 0 4 0 0.5 6
8 2 0 5 0 0.5 7
9 2 0 5.5 0 0.5 8
10 2 0 6 1 0.5 9
11 2 0 7 2 0.5 9
`

const noAxonSWC = `1 1 0 0 0 1 -1
2 3 0 0 0 0.5 1
3 3 0 -1 0 0.5 2
`

const cellXML = `<?xml version="1.0"?>
<annotations>
  <placement rule="dendrite" y_min="-1" y_max="1.5"/>
  <placement rule="axon" y_min="4.5" y_max="8"/>
</annotations>
`

const noRuleXML = `<annotations><placement rule="dendrite" y_min="-1" y_max="1.5"/></annotations>`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	r := NewRunner(afs.New(), c, nil, nil)
	r.Workers = 2
	return r
}

// highest returns the point with the largest Y of m.
func highest(m *morph.Morphology) r3.Vec {
	best := r3.Vec{Y: math.Inf(-1)}
	for s := range m.Sections() {
		for _, p := range s.Points {
			if p.Y > best.Y {
				best = p
			}
		}
	}
	return best
}

func TestOptionsValidate(t *testing.T) {
	type validator interface{ Validate() error }
	tests := []struct {
		name    string
		opts    validator
		wantErr bool
	}{
		{"shrink ok", &ShrinkOptions{Input: "a", Annotations: "b", Output: "c"}, false},
		{"shrink no annotations", &ShrinkOptions{Input: "a", Output: "c"}, true},
		{"shrink bad height", &ShrinkOptions{Input: "a", Annotations: "b", Output: "c", Heights: []float64{math.NaN()}}, true},
		{"clone zero", &CloneOptions{Input: "a", Output: "b", Params: jitter.DefaultClone()}, true},
		{"clone ok", &CloneOptions{Input: "a", Output: "b", N: 2, Params: jitter.DefaultClone()}, false},
		{"scale zero", &ScaleOptions{Input: "a", Output: "b"}, true},
		{"scale negative", &ScaleOptions{Input: "a", Output: "b", Scaling: -1}, true},
		{"scale ok", &ScaleOptions{Input: "a", Output: "b", Scaling: 2}, false},
		{"rat-to-human missing", &RatToHumanOptions{HumanDir: "h", RatDir: "r", Output: "o"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	s := ShrinkOptions{}
	s.SetDefaults()
	if s.NSamples != DefaultNSamples {
		t.Errorf("NSamples = %d, want %d", s.NSamples, DefaultNSamples)
	}
	s = ShrinkOptions{Heights: []float64{1}}
	s.SetDefaults()
	if s.NSamples != 0 {
		t.Errorf("NSamples = %d with explicit heights, want 0", s.NSamples)
	}

	c := CloneOptions{}
	c.SetDefaults()
	if c.N != DefaultClones || c.Seed != DefaultSeed || c.Params != jitter.DefaultClone() {
		t.Errorf("CloneOptions defaults = %+v", c)
	}
}

func TestShrinkName(t *testing.T) {
	if got := ShrinkName("/in/cell.swc", -2.5); got != "cell_height_-2.5.swc" {
		t.Errorf("ShrinkName() = %q", got)
	}
	o := ShrinkOutput{Name: "cell_height_2.0.swc"}
	if got := o.AnnotationName(); got != "cell_height_2.0.xml" {
		t.Errorf("AnnotationName() = %q", got)
	}
}

func TestShrinkAll(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"in/cell.swc":            cellSWC,
		"in/noaxon.swc":          noAxonSWC,
		"in/norule.swc":          cellSWC,
		"in/notes.txt":           "ignored",
		"annotations/cell.xml":   cellXML,
		"annotations/noaxon.xml": cellXML,
		"annotations/norule.xml": noRuleXML,
	})
	out := filepath.Join(root, "out", "nested")

	r := newTestRunner(t, nil)
	summary, err := r.ShrinkAll(ctx, ShrinkOptions{
		Input:       filepath.Join(root, "in"),
		Annotations: filepath.Join(root, "annotations"),
		Output:      out,
		Heights:     []float64{0, 2},
	})
	if err != nil {
		t.Fatalf("ShrinkAll() error = %v", err)
	}
	if summary.Processed != 3 || summary.Written != 4 {
		t.Errorf("summary = %+v, want 3 processed and 4 written", summary)
	}

	var codes []errors.Code
	for _, f := range summary.Failures {
		codes = append(codes, f.Code)
	}
	if want := []errors.Code{errors.ErrCodeNoAxon, errors.ErrCodeNoAxonAnnotation}; !slices.Equal(codes, want) {
		t.Errorf("failure codes = %v, want %v", codes, want)
	}
	if summary.Failures[0].Message != "Neuron has no axon" {
		t.Errorf("failure message = %q", summary.Failures[0].Message)
	}

	for _, tt := range []struct {
		height   float64
		name     string
		axonYMin float64
	}{
		{0, "cell_height_0.0", 0.5},
		{2, "cell_height_2.0", 2.5},
	} {
		m, err := pkgio.Load(ctx, r.FS, filepath.Join(out, tt.name+".swc"))
		if err != nil {
			t.Fatalf("Load(%s) error = %v", tt.name, err)
		}
		// The fork tip (0, 7, 2) moves to the bridge end plus 1.5.
		if got, want := highest(m), (r3.Vec{Y: 3 + tt.height, Z: 2}); r3.Norm(r3.Sub(got, want)) > 1e-9 {
			t.Errorf("%s: highest point = %v, want %v", tt.name, got, want)
		}

		data, err := os.ReadFile(filepath.Join(out, tt.name+".xml"))
		if err != nil {
			t.Fatal(err)
		}
		doc, err := annotation.Parse(data)
		if err != nil {
			t.Fatal(err)
		}
		rules, err := doc.Rules()
		if err != nil {
			t.Fatal(err)
		}
		if got := rules[annotation.RuleAxon].YMin; math.Abs(got-tt.axonYMin) > 1e-9 {
			t.Errorf("%s: axon y_min = %v, want %v", tt.name, got, tt.axonYMin)
		}
		if got := rules[annotation.RuleDendrite]; got != (annotation.Interval{YMin: -1, YMax: 1.5}) {
			t.Errorf("%s: dendrite rule changed to %+v", tt.name, got)
		}
	}
}

func TestShrinkAll_SampledHeights(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"in/cell.swc":          cellSWC,
		"annotations/cell.xml": cellXML,
	})
	r := newTestRunner(t, nil)
	summary, err := r.ShrinkAll(ctx, ShrinkOptions{
		Input:       filepath.Join(root, "in", "cell.swc"),
		Annotations: filepath.Join(root, "annotations"),
		Output:      filepath.Join(root, "out"),
		NSamples:    3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Written != 6 {
		t.Errorf("Written = %d, want 6", summary.Written)
	}
	names, err := pkgio.ListNames(ctx, r.FS, filepath.Join(root, "out"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"cell_height_0.0.swc", "cell_height_0.0.xml",
		"cell_height_1.5.swc", "cell_height_1.5.xml",
		"cell_height_3.0.swc", "cell_height_3.0.xml",
	}
	if !slices.Equal(names, want) {
		t.Errorf("outputs = %v, want %v", names, want)
	}
}

func TestShrinkAll_MissingAnnotationIsFatal(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"in/cell.swc": cellSWC})
	if err := os.MkdirAll(filepath.Join(root, "annotations"), 0o755); err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(t, nil)
	_, err := r.ShrinkAll(ctx, ShrinkOptions{
		Input:       filepath.Join(root, "in"),
		Annotations: filepath.Join(root, "annotations"),
		Output:      filepath.Join(root, "out"),
	})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ShrinkAll() error = %v, want FILE_NOT_FOUND", err)
	}
}

type countingCacheHooks struct {
	hits, misses, sets atomic.Int32
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits.Add(1) }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses.Add(1) }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets.Add(1) }

func TestShrink_CacheHit(t *testing.T) {
	ctx := context.Background()
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(t, fc)

	first, err := r.Shrink(ctx, "cell.swc", []byte(cellSWC), []byte(cellXML), []float64{1}, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Shrink(ctx, "cell.swc", []byte(cellSWC), []byte(cellXML), []float64{1}, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if hooks.misses.Load() != 1 || hooks.hits.Load() != 1 || hooks.sets.Load() != 1 {
		t.Errorf("cache events: %d misses, %d hits, %d sets; want 1 each",
			hooks.misses.Load(), hooks.hits.Load(), hooks.sets.Load())
	}
	if string(first[0].Morphology) != string(second[0].Morphology) || string(first[0].Annotation) != string(second[0].Annotation) {
		t.Error("cached output differs from computed output")
	}

	if _, err := r.Shrink(ctx, "cell.swc", []byte(cellSWC), []byte(cellXML), []float64{1}, 0, true); err != nil {
		t.Fatal(err)
	}
	if hooks.hits.Load() != 1 {
		t.Error("refresh should bypass the cache")
	}
}

func TestCloneAll_Deterministic(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"cell.swc": cellSWC})

	outputs := make([][]string, 2)
	for run, workers := range []int{1, 4} {
		out := filepath.Join(root, "out", string(rune('a'+run)))
		r := newTestRunner(t, nil)
		r.Workers = workers
		summary, err := r.CloneAll(ctx, CloneOptions{
			Input:  filepath.Join(root, "cell.swc"),
			Output: out,
			N:      3,
			Seed:   7,
		})
		if err != nil {
			t.Fatalf("CloneAll() error = %v", err)
		}
		if summary.Written != 3 || !summary.OK() {
			t.Errorf("summary = %+v", summary)
		}
		for i := range 3 {
			data, err := os.ReadFile(filepath.Join(out, jitter.CloneName("cell.swc", i)))
			if err != nil {
				t.Fatal(err)
			}
			outputs[run] = append(outputs[run], string(data))
		}
	}
	if !slices.Equal(outputs[0], outputs[1]) {
		t.Error("clones depend on the number of workers")
	}
	if outputs[0][0] == outputs[0][1] {
		t.Error("clones 0 and 1 are identical")
	}
	if outputs[0][0] == cellSWC {
		t.Error("clone equals its input")
	}
}

func TestScaleFolder(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"in/cell.swc": cellSWC})
	r := newTestRunner(t, nil)

	summary, err := r.ScaleFolder(ctx, ScaleOptions{
		Input:   filepath.Join(root, "in"),
		Output:  filepath.Join(root, "out"),
		Scaling: 2,
	})
	if err != nil {
		t.Fatalf("ScaleFolder() error = %v", err)
	}
	if summary.Written != 1 {
		t.Errorf("Written = %d, want 1", summary.Written)
	}
	m, err := pkgio.Load(ctx, r.FS, filepath.Join(root, "out", "cell.swc"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := highest(m), (r3.Vec{Y: 14, Z: 4}); r3.Norm(r3.Sub(got, want)) > 1e-9 {
		t.Errorf("highest point = %v, want %v", got, want)
	}
}

func TestScaleFolder_SkipsUndecodable(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"in/cell.swc":  cellSWC,
		"in/cell2.h5":  "not hdf5",
		"in/cell3.asc": "(not neurolucida)",
	})
	r := newTestRunner(t, nil)

	summary, err := r.ScaleFolder(ctx, ScaleOptions{
		Input:   filepath.Join(root, "in"),
		Output:  filepath.Join(root, "out"),
		Scaling: 2,
	})
	if err != nil {
		t.Fatalf("ScaleFolder() error = %v", err)
	}
	if summary.Processed != 1 || summary.Written != 1 || len(summary.Failures) != 0 {
		t.Errorf("summary = %+v, want one scaled file", summary)
	}
	if _, err := os.Stat(filepath.Join(root, "out", "cell2.h5")); !os.IsNotExist(err) {
		t.Errorf("cell2.h5 was written: %v", err)
	}
}

func TestScaleFolder_ZeroScaling(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"in/cell.swc": cellSWC})
	_, err := newTestRunner(t, nil).ScaleFolder(context.Background(), ScaleOptions{
		Input:  filepath.Join(root, "in"),
		Output: filepath.Join(root, "out"),
	})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ScaleFolder(scaling 0) error = %v, want INVALID_INPUT", err)
	}
	if _, err := os.Stat(filepath.Join(root, "out")); !os.IsNotExist(err) {
		t.Error("output folder created for an invalid factor")
	}
}

// humanDendriteSWC and halfSWC have the same dendrite at two sizes; halfSWC
// also has an axon, which rescaling must ignore when measuring.
const halfSWC = `1 1 0 0 0 0.5 -1
2 3 0 0 0 0.25 1
3 3 1 -0.5 0 0.25 2
4 2 0 0 0 0.25 1
5 2 0 0.5 0 0.25 4
`

const humanDendriteSWC = `1 1 0 0 0 1 -1
2 3 0 0 0 0.5 1
3 3 2 -1 0 0.5 2
`

const ratNeuronDB = `<neurondb><listing>
  <morphology><name>rat1</name><mtype>L2_TPC:A</mtype><layer>2</layer></morphology>
</listing></neurondb>`

func TestRatToHuman(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"human/L2/PC_a.swc": humanDendriteSWC,
		"rat/neuronDB.xml":  ratNeuronDB,
		"rat/rat1.swc":      halfSWC,
		"mapping.yaml":      "L2:\n  PC: [TPC, IPC]\n  IN: [MC]\n",
	})
	r := newTestRunner(t, nil)
	out := filepath.Join(root, "out")
	res, err := r.RatToHuman(ctx, RatToHumanOptions{
		HumanDir: filepath.Join(root, "human"),
		RatDir:   filepath.Join(root, "rat"),
		Mapping:  filepath.Join(root, "mapping.yaml"),
		Output:   out,
	})
	if err != nil {
		t.Fatalf("RatToHuman() error = %v", err)
	}
	if len(res.Missing) != 2 {
		t.Errorf("Missing = %+v, want L2_IPC and L23_MC", res.Missing)
	}
	if len(res.Records) != 1 {
		t.Fatalf("Records = %+v, want 1", res.Records)
	}
	rec := res.Records[0]
	if rec.Y != 2 || rec.XZ != 2 || rec.Diam != 2 {
		t.Errorf("factors = %+v, want 2 each", rec)
	}

	name := "rat1_-_Y-Scale_2.0_-_XZ-Scale_2.0_-_Diam-Scale_2.0.swc"
	m, err := pkgio.Load(ctx, r.FS, filepath.Join(out, name))
	if err != nil {
		t.Fatalf("Load(%s) error = %v", name, err)
	}
	if got := highest(m); got != (r3.Vec{Y: 1}) {
		t.Errorf("highest point = %v, want (0, 1, 0)", got)
	}

	f, err := os.Open(filepath.Join(out, report.MetadataFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := report.ReadMetadata(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || filepath.Base(records[0].Name) != "rat1.swc" {
		t.Errorf("metadata = %+v", records)
	}
}

func TestRatToHuman_InvalidFolder(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"human/L7/PC_a.swc": humanDendriteSWC,
		"rat/neuronDB.xml":  "<neurondb/>",
		"mapping.yaml":      "L2:\n  PC: [TPC]\n",
	})
	r := newTestRunner(t, nil)
	_, err := r.RatToHuman(ctx, RatToHumanOptions{
		HumanDir: filepath.Join(root, "human"),
		RatDir:   filepath.Join(root, "rat"),
		Mapping:  filepath.Join(root, "mapping.yaml"),
		Output:   filepath.Join(root, "out"),
	})
	if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "L7") {
		t.Errorf("RatToHuman() error = %v, want INVALID_INPUT naming L7", err)
	}
}
