package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/viant/afs"

	"github.com/matzehuels/neuroc/pkg/errors"
)

func TestWriteMetadata(t *testing.T) {
	records := []ScaleRecord{
		{Name: "/rat/a.swc", Y: 2, XZ: 1.5, Diam: 0.75},
		{Name: "/rat/b,c.swc", Y: 1, XZ: 1, Diam: 1},
	}
	var buf bytes.Buffer
	if err := WriteMetadata(&buf, records); err != nil {
		t.Fatal(err)
	}
	want := "name,y,xz,diam\n/rat/a.swc,2.0,1.5,0.75\n\"/rat/b,c.swc\",1.0,1.0,1.0\n"
	if buf.String() != want {
		t.Errorf("WriteMetadata() =\n%s\nwant\n%s", buf.String(), want)
	}

	back, err := ReadMetadata(&buf)
	if err != nil {
		t.Fatalf("ReadMetadata() error = %v", err)
	}
	if !slices.Equal(back, records) {
		t.Errorf("ReadMetadata() = %+v, want %+v", back, records)
	}
}

func TestReadMetadata_Errors(t *testing.T) {
	tests := []string{
		"name,y,xz,diam\na.swc,1,2\n",
		"name,y,xz,diam\na.swc,1,x,2\n",
	}
	for _, in := range tests {
		if _, err := ReadMetadata(strings.NewReader(in)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ReadMetadata(%q) error = %v, want INVALID_FORMAT", in, err)
		}
	}
}

func TestNewFailure(t *testing.T) {
	f := NewFailure("cell.swc", errors.New(errors.ErrCodeNoAxon, "Neuron has no axon"))
	if f.Code != errors.ErrCodeNoAxon || f.Message != "Neuron has no axon" {
		t.Errorf("NewFailure() = %+v", f)
	}
	var buf bytes.Buffer
	if err := WriteFailures(&buf, Summary{Failures: []Failure{f}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "cell.swc: Neuron has no axon\n" {
		t.Errorf("WriteFailures() = %q", buf.String())
	}
}

func TestCSVSink(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "runs.csv")
	sink := NewCSVSink(afs.New(), location)
	defer sink.Close(ctx)

	if err := sink.WriteSummary(ctx, Summary{RunID: "r1", Operation: "shrink", Processed: 2}); err != nil {
		t.Fatal(err)
	}
	failed := Summary{
		RunID:     "r2",
		Operation: "clone",
		Processed: 1,
		Failures:  []Failure{{File: "a.swc", Code: errors.ErrCodeNoAxon, Message: "Neuron has no axon"}},
	}
	if err := sink.WriteSummary(ctx, failed); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		t.Fatal(err)
	}
	want := "run_id,operation,processed,file,code,message\n" +
		"r1,shrink,2,,,\n" +
		"r2,clone,1,a.swc,NO_AXON,Neuron has no axon\n"
	if string(data) != want {
		t.Errorf("file =\n%s\nwant\n%s", data, want)
	}
}
