package output

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer appends CSV rows to a file one race at a time.
type Writer struct {
	path string
	f    *os.File
	gz   *gzip.Writer
	out  io.Writer
}

// Create opens path for writing. With resume set and the file present, rows
// are appended and no header is written. Compressed files gain a new gzip
// member per session.
func Create(path string, header []string, compress, resume bool) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	writeHeader := true
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if resume {
		if st, err := os.Stat(path); err == nil && st.Size() > 0 {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
			writeHeader = false
		}
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	w := &Writer{path: path, f: f, out: f}
	if compress {
		w.gz = gzip.NewWriter(f)
		w.out = w.gz
	}

	if writeHeader {
		if err := w.WriteRace([][]string{header}); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Writer) Path() string { return w.path }

// WriteRace encodes every row first and hands the file a single write, so
// a race is never left half written.
func (w *Writer) WriteRace(rows [][]string) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("output: encode: %w", err)
	}
	if _, err := w.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("output: write %s: %w", w.path, err)
	}
	if w.gz != nil {
		if err := w.gz.Flush(); err != nil {
			return fmt.Errorf("output: flush %s: %w", w.path, err)
		}
	}
	return nil
}

func (w *Writer) Close() error {
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			_ = w.f.Close()
			return fmt.Errorf("output: close %s: %w", w.path, err)
		}
	}
	return w.f.Close()
}

// WriteJSON writes v indented to path, creating parent directories.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return os.WriteFile(path, b, 0o644)
}
