package datastructure

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrData              = errors.New("invalid edge data")
	ErrOutOfRange        = errors.New("vertex out of range")
	ErrResourceExhausted = errors.New("resource exhausted")
)

// DataError. malformed row, bad weight or a vertex id that normalizes below zero.
type DataError struct {
	Row    int
	Fields []string
	Reason string
	Err    error
}

func NewDataError(row int, fields []string, reason string, err error) *DataError {
	return &DataError{
		Row:    row,
		Fields: fields,
		Reason: reason,
		Err:    err,
	}
}

func (e *DataError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: row %d", ErrData, e.Row)
	if len(e.Fields) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(e.Fields, ","))
	}
	fmt.Fprintf(&sb, ": %s", e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *DataError) Is(target error) bool {
	return target == ErrData
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// OutOfRangeError. requested vertex is not in [0, N) of the graph.
// Vertex is reported the way the caller passed it (raw id when it came through Normalize).
type OutOfRangeError struct {
	Vertex      int64
	NumVertices int
	BaseOffset  int64
}

func (e *OutOfRangeError) Error() string {
	lo, hi := e.BaseOffset, e.BaseOffset+int64(e.NumVertices)
	return fmt.Sprintf("%s: vertex %d not in [%d, %d)", ErrOutOfRange, e.Vertex, lo, hi)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// ResourceError. graph too large for the configured limits or the int32 id space.
type ResourceError struct {
	What      string
	Requested int64
	Limit     int64
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %s %d exceeds limit %d", ErrResourceExhausted, e.What, e.Requested, e.Limit)
}

func (e *ResourceError) Is(target error) bool {
	return target == ErrResourceExhausted
}

// DistanceOverflowError. the only way to reach To is over a path whose length overflows float64.
// From & To are in the input numbering.
type DistanceOverflowError struct {
	From     RawVertexID
	To       RawVertexID
	Distance float64
	Weight   float64
}

func (e *DistanceOverflowError) Error() string {
	return fmt.Sprintf("%s: path length overflow on edge %d -> %d (distance %g + weight %g)",
		ErrResourceExhausted, e.From, e.To, e.Distance, e.Weight)
}

func (e *DistanceOverflowError) Is(target error) bool {
	return target == ErrResourceExhausted
}
