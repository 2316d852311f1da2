/*
PURPOSE:
  Writes timing samples to a CSV file.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Output to CSV.
  - Keep file handle open for flushing.

  Implementation-discovered:
  - Flush after every write: a crashed run must keep every finished
    iteration's sample.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.TimingSample

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (critical for crash resilience).
  - Use Mutex if concurrent writes are expected.

USAGE:
  w, err := output.NewCSVWriter("samples.csv")
  w.Write(sample)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when TimingSample changes.
*/

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/daryltucker/sandbox-runner/internal/model"
)

// CSVWriter handles writing samples to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)

	header := []string{
		"provider", "iteration", "timestamp",
		"tti_ms", "workload_ms", "total_ms", "error",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes a single sample to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(s model.TimingSample) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	record := []string{
		s.Provider,
		fmt.Sprintf("%d", s.Iteration),
		s.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		msField(s.TTIMs),
		msField(s.WorkloadMs),
		msField(s.TotalMs),
		s.Error,
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}

// msField renders a millisecond value, leaving unset metrics blank rather
// than a misleading 0.
func msField(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}
