// Package report writes terminal components as JSON lines.
//
// Every component becomes one object:
//
//	{"component": 1, "states": [{"state": 0, "intervals": [[0, 0.3], [0.7, 1]]}]}
//
// Output can be compressed with zstd or lz4; Create picks the codec from the
// file extension (".zst", ".lz4").
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/attractor"
	"github.com/hupe1980/attractor/color"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("report: writer closed")

// CompressionType defines the compression algorithm of a report stream.
type CompressionType uint8

const (
	// CompressionNone writes plain JSON lines.
	CompressionNone CompressionType = 0
	// CompressionLZ4 writes an lz4 frame.
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD writes a zstd stream.
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("CompressionType(%d)", uint8(c))
	}
}

// CompressionFromPath selects the compression by file extension.
func CompressionFromPath(path string) CompressionType {
	switch filepath.Ext(path) {
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// StateColor is the color of one state as member intervals.
type StateColor struct {
	State     attractor.State `json:"state"`
	Intervals [][2]float64    `json:"intervals"`
}

// Component is one reported terminal component.
type Component struct {
	Component int          `json:"component"`
	States    []StateColor `json:"states"`
}

// Writer encodes components to an underlying stream. It is safe for
// concurrent use.
type Writer struct {
	mu      sync.Mutex
	alg     *color.Interval
	buf     *bufio.Writer
	enc     *gojson.Encoder
	closers []io.Closer
	count   int
	covered *roaring.Bitmap
	err     error
	closed  bool
}

// NewWriter writes reports to w using compression c. Closing the Writer
// flushes the codec but does not close w.
func NewWriter(w io.Writer, alg *color.Interval, c CompressionType) (*Writer, error) {
	rw := &Writer{alg: alg, covered: roaring.New()}

	switch c {
	case CompressionNone:
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		rw.closers = append(rw.closers, zw)
		w = zw
	case CompressionZSTD:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		rw.closers = append(rw.closers, zw)
		w = zw
	default:
		return nil, fmt.Errorf("report: unsupported compression %v", c)
	}

	rw.buf = bufio.NewWriter(w)
	rw.enc = gojson.NewEncoder(rw.buf)
	return rw, nil
}

// Create writes reports to the file at path, compressed according to its
// extension. Close closes the file.
func Create(path string, alg *color.Interval) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, alg, CompressionFromPath(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closers = append(w.closers, f)
	return w, nil
}

// Write encodes one component. States are listed in ascending order.
func (w *Writer) Write(component *attractor.StateMap[color.Params]) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.err != nil {
		return w.err
	}

	members := component.Members()
	rec := Component{
		Component: w.count + 1,
		States:    make([]StateColor, 0, members.GetCardinality()),
	}
	it := members.Iterator()
	for it.HasNext() {
		s := attractor.State(it.Next())
		rec.States = append(rec.States, StateColor{
			State:     s,
			Intervals: w.alg.Intervals(component.Get(s)),
		})
	}

	if err := w.enc.Encode(&rec); err != nil {
		w.err = fmt.Errorf("report: encode component %d: %w", rec.Component, err)
		return w.err
	}
	w.count++
	w.covered.Or(members)
	return nil
}

// Add writes component and keeps a failure for Close. Its signature matches
// the FindComponents callback.
func (w *Writer) Add(component *attractor.StateMap[color.Params]) {
	_ = w.Write(component)
}

// Count returns the number of components written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Covered returns the states that appear in at least one written component.
func (w *Writer) Covered() *roaring.Bitmap {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.covered.Clone()
}

// Close flushes buffered output and closes the codec and any owned file.
// It returns the first error seen by Write or during shutdown.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return w.err
	}
	w.closed = true

	errs := []error{w.err, w.buf.Flush()}
	for _, c := range w.closers {
		errs = append(errs, c.Close())
	}
	w.err = errors.Join(errs...)
	return w.err
}

// Read decodes every component from r.
func Read(r io.Reader, c CompressionType) ([]Component, error) {
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		r = lz4.NewReader(r)
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	default:
		return nil, fmt.Errorf("report: unsupported compression %v", c)
	}

	var out []Component
	dec := gojson.NewDecoder(bufio.NewReader(r))
	for {
		var rec Component
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("report: decode component %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
}

// ReadFile decodes the report at path, choosing the codec by extension.
func ReadFile(path string) ([]Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, CompressionFromPath(path))
}
