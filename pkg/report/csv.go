package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"github.com/viant/afs"

	pkgio "github.com/matzehuels/neuroc/pkg/io"
)

// CSVSink appends one row per failure to a CSV file:
// run_id,operation,processed,file,code,message. A run without failures adds one
// row with empty failure columns so every run is listed.
type CSVSink struct {
	fs       afs.Service
	location string
}

// NewCSVSink returns a sink writing to location.
func NewCSVSink(fs afs.Service, location string) *CSVSink {
	return &CSVSink{fs: fs, location: location}
}

var csvHeader = []string{"run_id", "operation", "processed", "file", "code", "message"}

// WriteSummary appends the rows of s to the file, creating it with a header
// when needed.
func (c *CSVSink) WriteSummary(ctx context.Context, s Summary) error {
	var existing []byte
	ok, err := c.fs.Exists(ctx, c.location)
	if err != nil {
		return err
	}
	if ok {
		if existing, err = pkgio.Download(ctx, c.fs, c.location); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	buf.Write(existing)
	w := csv.NewWriter(&buf)
	if len(existing) == 0 {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	processed := strconv.Itoa(s.Processed)
	if s.OK() {
		if err := w.Write([]string{s.RunID, s.Operation, processed, "", "", ""}); err != nil {
			return err
		}
	}
	for _, f := range s.Failures {
		if err := w.Write([]string{s.RunID, s.Operation, processed, f.File, string(f.Code), f.Message}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return pkgio.Upload(ctx, c.fs, c.location, buf.Bytes())
}

// Close does nothing.
func (c *CSVSink) Close(context.Context) error { return nil }

var _ Sink = (*CSVSink)(nil)
