package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/lintang-b-s/roaddist/pkg/datastructure"
)

type HeaderMode int

const (
	// HeaderAuto. first row is a header if none of its first three fields is a number.
	HeaderAuto HeaderMode = iota
	HeaderPresent
	HeaderAbsent
)

func ParseHeaderMode(s string) (HeaderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return HeaderAuto, nil
	case "present", "yes", "true":
		return HeaderPresent, nil
	case "absent", "none", "no", "false":
		return HeaderAbsent, nil
	}
	return HeaderAuto, fmt.Errorf("unknown header mode %q", s)
}

type options struct {
	header     HeaderMode
	srcColumn  string
	dstColumn  string
	weightCol  string
	comma      rune
	comment    rune
	zstdStream bool
}

type Option func(*options)

func WithHeader(mode HeaderMode) Option {
	return func(o *options) {
		o.header = mode
	}
}

// WithColumns. names of the source, destination & weight columns, resolved against the header row.
// ignored when the input has no header.
func WithColumns(src, dst, weight string) Option {
	return func(o *options) {
		o.srcColumn = src
		o.dstColumn = dst
		o.weightCol = weight
	}
}

func WithComma(comma rune) Option {
	return func(o *options) {
		o.comma = comma
	}
}

func WithComment(comment rune) Option {
	return func(o *options) {
		o.comment = comment
	}
}

// WithZstd. input stream is zstd compressed.
func WithZstd() Option {
	return func(o *options) {
		o.zstdStream = true
	}
}

/*
EdgeLoader. parse rows (src_raw, dst_raw, length) of a comma separated edge list into EdgeRecord.

rows come out in input order, nothing is deduplicated.
length must be a finite number >= 0, non-negative weights are a precondition of dijkstra.
*/
type EdgeLoader struct {
	r       *csv.Reader
	opts    options
	closers []io.Closer

	srcIdx, dstIdx, weightIdx int
	minFields                 int

	pending []string // first data row read while looking for the header
	started bool
	row     int
}

func NewEdgeLoader(r io.Reader, opts ...Option) (*EdgeLoader, error) {
	o := options{
		header: HeaderAuto,
		comma:  ',',
	}
	for _, opt := range opts {
		opt(&o)
	}

	l := &EdgeLoader{
		opts:      o,
		srcIdx:    0,
		dstIdx:    1,
		weightIdx: 2,
		minFields: 3,
	}

	if o.zstdStream {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		r = dec
		l.closers = append(l.closers, closerFunc(func() error {
			dec.Close()
			return nil
		}))
	}

	cr := csv.NewReader(r)
	cr.Comma = o.comma
	cr.Comment = o.comment
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	l.r = cr

	return l, nil
}

// Open. open an edge list file. files ending with .zst are decompressed on the fly.
// the returned loader must be closed.
func Open(path string, opts ...Option) (*EdgeLoader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open edge list %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".zst") {
		opts = append(opts, WithZstd())
	}
	l, err := NewEdgeLoader(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	l.closers = append(l.closers, f)
	return l, nil
}

func (l *EdgeLoader) Close() error {
	var errs []error
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	l.closers = nil
	return errors.Join(errs...)
}

// Row. number of input lines consumed so far (header included).
func (l *EdgeLoader) Row() int {
	return l.row
}

func (l *EdgeLoader) readRow() ([]string, error) {
	fields, err := l.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, datastructure.NewDataError(pe.Line, nil, "malformed row", pe.Err)
		}
		return nil, err
	}
	line, _ := l.r.FieldPos(0)
	l.row = line
	// ReuseRecord: copy so error values keep their own fields.
	return append([]string(nil), fields...), nil
}

func (l *EdgeLoader) start() error {
	l.started = true

	first, err := l.readRow()
	if err != nil {
		return err
	}

	isHeader := false
	switch l.opts.header {
	case HeaderPresent:
		isHeader = true
	case HeaderAbsent:
		isHeader = false
	case HeaderAuto:
		isHeader = looksLikeHeader(first)
	}

	if !isHeader {
		l.pending = first
		return nil
	}

	if l.opts.srcColumn == "" && l.opts.dstColumn == "" && l.opts.weightCol == "" {
		return nil
	}
	return l.resolveColumns(first)
}

func (l *EdgeLoader) resolveColumns(header []string) error {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	lookup := func(name string, fallback int) (int, error) {
		if name == "" {
			return fallback, nil
		}
		idx, ok := index[strings.ToLower(name)]
		if !ok {
			return 0, datastructure.NewDataError(l.row, header, fmt.Sprintf("unknown column %q", name), nil)
		}
		return idx, nil
	}

	var err error
	if l.srcIdx, err = lookup(l.opts.srcColumn, 0); err != nil {
		return err
	}
	if l.dstIdx, err = lookup(l.opts.dstColumn, 1); err != nil {
		return err
	}
	if l.weightIdx, err = lookup(l.opts.weightCol, 2); err != nil {
		return err
	}
	l.minFields = max(l.srcIdx, l.dstIdx, l.weightIdx) + 1
	return nil
}

// looksLikeHeader. a header names its columns: none of the first three fields is a number.
// a row with some numeric fields is data, a bad field there is reported instead of skipped.
func looksLikeHeader(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields[:min(len(fields), 3)] {
		if _, err := strconv.ParseFloat(strings.TrimSpace(f), 64); err == nil {
			return false
		}
	}
	return true
}

// Next. return the next edge record, io.EOF when the input is exhausted.
func (l *EdgeLoader) Next() (datastructure.EdgeRecord, error) {
	if !l.started {
		if err := l.start(); err != nil {
			return datastructure.EdgeRecord{}, err
		}
	}

	var fields []string
	if l.pending != nil {
		fields, l.pending = l.pending, nil
	} else {
		var err error
		fields, err = l.readRow()
		if err != nil {
			return datastructure.EdgeRecord{}, err
		}
	}

	return l.parse(fields)
}

func (l *EdgeLoader) parse(fields []string) (datastructure.EdgeRecord, error) {
	if len(fields) < l.minFields {
		return datastructure.EdgeRecord{}, datastructure.NewDataError(l.row, fields,
			fmt.Sprintf("expected at least %d fields, got %d", l.minFields, len(fields)), nil)
	}

	from, err := strconv.ParseInt(strings.TrimSpace(fields[l.srcIdx]), 10, 64)
	if err != nil {
		return datastructure.EdgeRecord{}, datastructure.NewDataError(l.row, fields, "invalid source vertex id", err)
	}
	to, err := strconv.ParseInt(strings.TrimSpace(fields[l.dstIdx]), 10, 64)
	if err != nil {
		return datastructure.EdgeRecord{}, datastructure.NewDataError(l.row, fields, "invalid destination vertex id", err)
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(fields[l.weightIdx]), 64)
	if err != nil {
		return datastructure.EdgeRecord{}, datastructure.NewDataError(l.row, fields, "non-numeric weight", err)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return datastructure.EdgeRecord{}, datastructure.NewDataError(l.row, fields, "non-finite weight", nil)
	}
	if weight < 0 {
		return datastructure.EdgeRecord{}, datastructure.NewDataError(l.row, fields, "negative weight", nil)
	}

	return datastructure.NewEdgeRecord(from, to, weight, l.row), nil
}

// LoadAll. drain the loader.
func (l *EdgeLoader) LoadAll() ([]datastructure.EdgeRecord, error) {
	records := make([]datastructure.EdgeRecord, 0)
	for {
		rec, err := l.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
