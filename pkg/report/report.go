// Package report records the outcome of batch runs.
//
// A [Summary] lists every item that failed with an expected domain error, so
// a batch over thousands of cells can finish and report the few it skipped.
// Rat-to-human runs also produce [ScaleRecord] rows, written as
// metadata.csv next to the scaled cells ([WriteMetadata]).
//
// Summaries can be sent to a [Sink]: [CSVSink] appends them to a file through
// afs and [MongoSink] inserts them as documents.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/matzehuels/neuroc/pkg/errors"
	pkgio "github.com/matzehuels/neuroc/pkg/io"
)

// MetadataFile is the name of the rat-to-human scaling table.
const MetadataFile = "metadata.csv"

// Failure is an item skipped because of an expected domain error.
type Failure struct {
	File    string      `json:"file" bson:"file"`
	Code    errors.Code `json:"code" bson:"code"`
	Message string      `json:"message" bson:"message"`
}

// NewFailure builds a Failure from a coded error.
func NewFailure(file string, err error) Failure {
	return Failure{File: file, Code: errors.GetCode(err), Message: errors.UserMessage(err)}
}

// Summary describes one batch run.
type Summary struct {
	RunID     string        `json:"run_id" bson:"run_id"`
	Operation string        `json:"operation" bson:"operation"`
	Started   time.Time     `json:"started" bson:"started"`
	Duration  time.Duration `json:"duration" bson:"duration"`
	Processed int           `json:"processed" bson:"processed"`
	Written   int           `json:"written" bson:"written"`
	Failures  []Failure     `json:"failures" bson:"failures"`
}

// OK reports whether no item failed.
func (s Summary) OK() bool { return len(s.Failures) == 0 }

// Sink receives batch summaries.
type Sink interface {
	WriteSummary(ctx context.Context, s Summary) error
	Close(ctx context.Context) error
}

// ScaleRecord is one row of metadata.csv. Name is the location of the original
// rat cell.
type ScaleRecord struct {
	Name string
	Y    float64
	XZ   float64
	Diam float64
}

// WriteMetadata writes records as CSV with the header "name,y,xz,diam".
func WriteMetadata(w io.Writer, records []ScaleRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "y", "xz", "diam"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.Name, pkgio.FormatFloat(r.Y), pkgio.FormatFloat(r.XZ), pkgio.FormatFloat(r.Diam)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMetadata parses a metadata.csv written by WriteMetadata.
func ReadMetadata(r io.Reader) ([]ScaleRecord, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", MetadataFile)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]ScaleRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != 4 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s line %d: want 4 columns, got %d", MetadataFile, i+2, len(row))
		}
		rec := ScaleRecord{Name: row[0]}
		for j, dst := range []*float64{&rec.Y, &rec.XZ, &rec.Diam} {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s line %d", MetadataFile, i+2)
			}
			*dst = v
		}
		out = append(out, rec)
	}
	return out, nil
}

// WriteFailures writes one "file: message" line per failure.
func WriteFailures(w io.Writer, s Summary) error {
	for _, f := range s.Failures {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.File, f.Message); err != nil {
			return err
		}
	}
	return nil
}
