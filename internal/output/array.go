package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrClosed is returned when writing to a finished or aborted writer.
var ErrClosed = errors.New("array writer closed")

// ArrayWriter streams values as one pretty-printed JSON array. The array is
// only terminated by Close, so the separator and bracket bookkeeping never
// leaks to callers.
type ArrayWriter struct {
	w      io.Writer
	count  int
	closed bool
}

// NewArrayWriter returns an ArrayWriter writing to w.
func NewArrayWriter(w io.Writer) *ArrayWriter {
	return &ArrayWriter{w: w}
}

// Count returns the number of values written so far.
func (a *ArrayWriter) Count() int {
	return a.count
}

// Write appends v to the array.
func (a *ArrayWriter) Write(v any) error {
	if a.closed {
		return ErrClosed
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding record %d: %w", a.count+1, err)
	}

	sep := ",\n"
	if a.count == 0 {
		sep = "[\n"
	}
	if _, err := io.WriteString(a.w, sep); err != nil {
		return fmt.Errorf("writing record %d: %w", a.count+1, err)
	}
	if _, err := a.w.Write(bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
		return fmt.Errorf("writing record %d: %w", a.count+1, err)
	}
	a.count++
	return nil
}

// Close terminates the array. An array with no values is written as "[]".
func (a *ArrayWriter) Close() error {
	if a.closed {
		return ErrClosed
	}
	a.closed = true

	tail := "\n]\n"
	if a.count == 0 {
		tail = "[]\n"
	}
	if _, err := io.WriteString(a.w, tail); err != nil {
		return fmt.Errorf("terminating array: %w", err)
	}
	return nil
}

// File is an ArrayWriter backed by a file. Records go to a temporary file
// next to the target, which is renamed into place by Close. Until then the
// target path is never left holding a truncated array.
type File struct {
	*ArrayWriter

	path string
	tmp  *os.File
	buf  *bufio.Writer
	done bool
}

// Create starts a JSON array file at path, creating parent directories.
func Create(path string) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}

	buf := bufio.NewWriter(tmp)
	return &File{
		ArrayWriter: NewArrayWriter(buf),
		path:        path,
		tmp:         tmp,
		buf:         buf,
	}, nil
}

// Path returns the final output path.
func (f *File) Path() string {
	return f.path
}

// Close terminates the array, flushes it and moves it to its final path.
func (f *File) Close() error {
	if f.done {
		return ErrClosed
	}
	f.done = true

	if err := f.ArrayWriter.Close(); err != nil {
		f.discard()
		return err
	}
	if err := f.buf.Flush(); err != nil {
		f.discard()
		return fmt.Errorf("flushing output: %w", err)
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Chmod(f.tmp.Name(), 0o644); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("moving output to %s: %w", f.path, err)
	}
	return nil
}

// Abort discards everything written. Calling Abort after Close is a no-op.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.ArrayWriter.closed = true
	f.discard()
}

func (f *File) discard() {
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
}
