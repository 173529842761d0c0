package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/wrangle/internal/model"
)

// LineSink writes one JSON document per line, each followed by a comma.
// The file as a whole is not a JSON array; downstream loaders read it line
// by line.
type LineSink struct {
	w      *bufio.Writer
	closer io.Closer
	pretty bool
	count  int
}

// NewLineSink writes to w. Close flushes but does not close w.
func NewLineSink(w io.Writer, pretty bool) *LineSink {
	return &LineSink{
		w:      bufio.NewWriter(w),
		pretty: pretty,
	}
}

// CreateLineSink creates (or truncates) path and writes to it
func CreateLineSink(path string, pretty bool) (*LineSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	s := NewLineSink(f, pretty)
	s.closer = f
	return s, nil
}

// Put appends rec to the output buffer. Close flushes it.
func (s *LineSink) Put(ctx context.Context, rec *model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(rec, "", "  ")
	} else {
		data, err = json.Marshal(rec)
	}
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if _, err := s.w.WriteString(",\n"); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	s.count++
	return nil
}

// Count returns how many records were written
func (s *LineSink) Count() int {
	return s.count
}

// Close flushes buffered records and closes the file it created
func (s *LineSink) Close() error {
	if err := s.w.Flush(); err != nil {
		if s.closer != nil {
			_ = s.closer.Close()
		}
		return fmt.Errorf("flush output: %w", err)
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
