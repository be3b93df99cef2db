// Package trace loads arrival sequences from event trace files: a timestamp
// column of a CSV trip log, a plain artifact holding one integer per line, or
// a packed sequence block.
package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/disorder/pkg/seqio"
)

// DefaultColumn is the trip start column of bike-share trip logs.
const DefaultColumn = "starttime"

const (
	csvExtension   = ".csv"
	blockExtension = ".blk"
	utf8BOM        = "\ufeff"
	int64Bits      = 64
	decimalBase    = 10
)

// Unit is the resolution of the loaded timestamps.
type Unit string

// Supported timestamp units.
const (
	UnitSeconds      Unit = "s"
	UnitMilliseconds Unit = "ms"
	UnitMicroseconds Unit = "us"
	UnitNanoseconds  Unit = "ns"
)

// Format selects how a trace file is parsed.
type Format string

// Supported trace formats.
const (
	FormatAuto  Format = "auto"
	FormatCSV   Format = "csv"
	FormatLines Format = "lines"
	FormatBlock Format = "block"
)

// Sentinel errors.
var (
	ErrColumnNotFound = errors.New("timestamp column not found")
	ErrBadTimestamp   = errors.New("unparseable timestamp")
	ErrUnknownUnit    = errors.New("unknown timestamp unit")
	ErrUnknownFormat  = errors.New("unknown trace format")
	ErrEmptyHeader    = errors.New("csv input has no header row")
)

// fallbackLayouts are tried in order when no layout is configured.
// Parsing accepts fractional seconds after the seconds field even when the
// layout omits them, so "2019-07-01 00:00:00.1310" matches the first entry.
var fallbackLayouts = []string{
	time.DateTime,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// Options controls trace loading.
type Options struct {
	// Format of the file. FormatAuto picks CSV for ".csv" (optionally ".csv.lz4"),
	// a packed block for ".blk" and one-integer-per-line otherwise.
	Format Format
	// Column is the CSV header naming the timestamp column (case-insensitive).
	Column string
	// Layout is a Go time layout. Empty tries integers then the fallback layouts.
	Layout string
	// Unit is the resolution of the produced values.
	Unit Unit
	// Location interprets layouts without a zone. Nil means UTC.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatAuto
	}

	if o.Column == "" {
		o.Column = DefaultColumn
	}

	if o.Unit == "" {
		o.Unit = UnitSeconds
	}

	if o.Location == nil {
		o.Location = time.UTC
	}

	return o
}

// LoadFile reads the arrival sequence stored at path ("-" reads stdin).
func LoadFile(path string, opts Options) ([]int64, error) {
	opts = opts.withDefaults()

	format := opts.Format
	if format == FormatAuto {
		format = detectFormat(path)
	}

	r, err := seqio.Open(path)
	if err != nil {
		return nil, err
	}

	defer r.Close()

	opts.Format = format

	values, err := Load(r, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	slog.Default().Info("trace loaded", "path", path, "format", string(format), "values", humanize.Comma(int64(len(values))))

	return values, nil
}

// Load reads a sequence from r. FormatAuto is treated as FormatLines since a
// stream has no name to detect from.
func Load(r io.Reader, opts Options) ([]int64, error) {
	opts = opts.withDefaults()

	switch opts.Format {
	case FormatCSV:
		return LoadCSV(r, opts)
	case FormatLines, FormatAuto:
		return seqio.ReadInts(r)
	case FormatBlock:
		return seqio.UnpackBlock(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

func detectFormat(path string) Format {
	name := strings.TrimSuffix(strings.ToLower(path), seqio.LZ4Extension)

	switch filepath.Ext(name) {
	case csvExtension:
		return FormatCSV
	case blockExtension:
		return FormatBlock
	default:
		return FormatLines
	}
}

// LoadCSV reads the configured timestamp column of a CSV stream with a header row.
func LoadCSV(r io.Reader, opts Options) ([]int64, error) {
	opts = opts.withDefaults()

	convert, err := unitConverter(opts.Unit)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyHeader
	}

	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := findColumn(header, opts.Column)
	if col < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, opts.Column)
	}

	var values []int64

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("read csv: %w", readErr)
		}

		line, _ := reader.FieldPos(col)

		v, parseErr := parseTimestamp(record[col], opts, convert)
		if parseErr != nil {
			return nil, fmt.Errorf("line %d: %w", line, parseErr)
		}

		values = append(values, v)
	}

	return values, nil
}

func findColumn(header []string, name string) int {
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if strings.EqualFold(h, name) {
			return i
		}
	}

	return -1
}

// parseTimestamp turns a cell into the configured unit. Bare integers are taken
// to already be in that unit.
func parseTimestamp(cell string, opts Options, convert func(time.Time) int64) (int64, error) {
	cell = strings.TrimSpace(cell)

	if opts.Layout != "" {
		t, err := time.ParseInLocation(opts.Layout, cell, opts.Location)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %w", ErrBadTimestamp, cell, err)
		}

		return convert(t), nil
	}

	if v, err := strconv.ParseInt(cell, decimalBase, int64Bits); err == nil {
		return v, nil
	}

	for _, layout := range fallbackLayouts {
		t, err := time.ParseInLocation(layout, cell, opts.Location)
		if err == nil {
			return convert(t), nil
		}
	}

	return 0, fmt.Errorf("%w %q", ErrBadTimestamp, cell)
}

func unitConverter(unit Unit) (func(time.Time) int64, error) {
	switch unit {
	case UnitSeconds:
		return time.Time.Unix, nil
	case UnitMilliseconds:
		return time.Time.UnixMilli, nil
	case UnitMicroseconds:
		return time.Time.UnixMicro, nil
	case UnitNanoseconds:
		return time.Time.UnixNano, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
}

// ParseUnit validates a unit name.
func ParseUnit(s string) (Unit, error) {
	unit := Unit(strings.ToLower(strings.TrimSpace(s)))

	_, err := unitConverter(unit)
	if err != nil {
		return "", err
	}

	return unit, nil
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatCSV, FormatLines, FormatBlock:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}
