// Package seqio reads and writes disorder series in their text artifact format:
// one decimal integer per line, no header, a newline after every value.
// Sampled subsets use two space-separated integers per line: index and value.
//
// Paths ending in ".lz4" are transparently wrapped in an LZ4 frame, and "-"
// stands for standard input or output.
package seqio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/exp/constraints"

	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
)

// StdioPath selects standard input or output instead of a file.
const StdioPath = "-"

// LZ4Extension marks artifacts stored inside an LZ4 frame.
const LZ4Extension = ".lz4"

const (
	decimalBase   = 10
	int64Bits     = 64
	pointFields   = 2
	fileMode      = 0o644
	maxLineLength = 1 << 20
)

// ErrMalformedLine is returned when a line does not hold the expected integers.
var ErrMalformedLine = errors.New("malformed line")

// WriteInts writes values one per line.
func WriteInts[T constraints.Integer](w io.Writer, values []T) error {
	bw := bufio.NewWriter(w)

	var buf []byte

	for _, v := range values {
		buf = appendInt(buf[:0], v)
		buf = append(buf, '\n')

		_, err := bw.Write(buf)
		if err != nil {
			return fmt.Errorf("write value: %w", err)
		}
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("flush values: %w", err)
	}

	return nil
}

// WritePoints writes sampled points as "index value" lines.
func WritePoints[T constraints.Integer](w io.Writer, points []disorder.Point[T]) error {
	bw := bufio.NewWriter(w)

	var buf []byte

	for _, p := range points {
		buf = strconv.AppendInt(buf[:0], int64(p.Index), decimalBase)
		buf = append(buf, ' ')
		buf = appendInt(buf, p.Value)
		buf = append(buf, '\n')

		_, err := bw.Write(buf)
		if err != nil {
			return fmt.Errorf("write point: %w", err)
		}
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("flush points: %w", err)
	}

	return nil
}

// ReadInts parses one integer per line. Blank lines are skipped.
func ReadInts(r io.Reader) ([]int64, error) {
	var values []int64

	err := scanLines(r, func(lineNo int, line string) error {
		v, parseErr := strconv.ParseInt(line, decimalBase, int64Bits)
		if parseErr != nil {
			return fmt.Errorf("%w %d: %q", ErrMalformedLine, lineNo, line)
		}

		values = append(values, v)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

// ReadPoints parses "index value" lines written by WritePoints.
func ReadPoints(r io.Reader) ([]disorder.Point[int64], error) {
	var points []disorder.Point[int64]

	err := scanLines(r, func(lineNo int, line string) error {
		fields := strings.Fields(line)
		if len(fields) != pointFields {
			return fmt.Errorf("%w %d: want index and value, got %q", ErrMalformedLine, lineNo, line)
		}

		idx, idxErr := strconv.Atoi(fields[0])
		val, valErr := strconv.ParseInt(fields[1], decimalBase, int64Bits)

		if idxErr != nil || valErr != nil {
			return fmt.Errorf("%w %d: %q", ErrMalformedLine, lineNo, line)
		}

		points = append(points, disorder.Point[int64]{Index: idx, Value: val})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return points, nil
}

func scanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineLength)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := fn(lineNo, line)
		if err != nil {
			return err
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("scan lines: %w", err)
	}

	return nil
}

func appendInt[T constraints.Integer](buf []byte, v T) []byte {
	if v < 0 {
		return strconv.AppendInt(buf, int64(v), decimalBase)
	}

	return strconv.AppendUint(buf, uint64(v), decimalBase)
}

// Create opens path for writing an artifact. The returned closer flushes any
// LZ4 frame before closing the file. StdioPath writes to os.Stdout and its
// closer leaves stdout open.
func Create(path string) (io.WriteCloser, error) {
	if path == StdioPath || path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	if !strings.HasSuffix(path, LZ4Extension) {
		return file, nil
	}

	return &lz4WriteCloser{Writer: lz4.NewWriter(file), file: file}, nil
}

// Open opens an artifact for reading, decompressing LZ4 frames by extension.
// StdioPath reads from os.Stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == StdioPath || path == "" {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if !strings.HasSuffix(path, LZ4Extension) {
		return file, nil
	}

	return &lz4ReadCloser{Reader: lz4.NewReader(file), file: file}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type lz4WriteCloser struct {
	*lz4.Writer

	file *os.File
}

func (w *lz4WriteCloser) Close() error {
	return errors.Join(w.Writer.Close(), w.file.Close())
}

type lz4ReadCloser struct {
	*lz4.Reader

	file *os.File
}

func (r *lz4ReadCloser) Close() error {
	return r.file.Close()
}
