// Package errors defines the error taxonomy shared across volreg3d's core
// packages: a small set of sentinel values for errors.Is matching, plus a
// Kind+Op envelope so a caller (the CLI driver in particular) can map a
// failure to an exit code without string matching.
package errors

import "errors"

// Kind classifies an Error for programmatic dispatch.
type Kind int

const (
	Unknown Kind = iota
	IORead
	IOWrite
	UnsupportedFormat
	BadDimensions
	OutOfMemory
	Numeric
	InsufficientInliers
	Config
)

func (k Kind) String() string {
	switch k {
	case IORead:
		return "io_read"
	case IOWrite:
		return "io_write"
	case UnsupportedFormat:
		return "unsupported_format"
	case BadDimensions:
		return "bad_dimensions"
	case OutOfMemory:
		return "out_of_memory"
	case Numeric:
		return "numeric"
	case InsufficientInliers:
		return "insufficient_inliers"
	case Config:
		return "config"
	default:
		return "unknown"
	}
}

// Sentinel values usable with errors.Is, independent of any particular Op.
var (
	ErrIORead              = errors.New("io read error")
	ErrIOWrite             = errors.New("io write error")
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrBadDimensions       = errors.New("bad dimensions")
	ErrOutOfMemory         = errors.New("out of memory")
	ErrNumeric             = errors.New("numeric error")
	ErrInsufficientInliers = errors.New("insufficient inliers")
	ErrConfig              = errors.New("invalid configuration")
)

var sentinels = map[Kind]error{
	IORead:              ErrIORead,
	IOWrite:             ErrIOWrite,
	UnsupportedFormat:   ErrUnsupportedFormat,
	BadDimensions:       ErrBadDimensions,
	OutOfMemory:         ErrOutOfMemory,
	Numeric:             ErrNumeric,
	InsufficientInliers: ErrInsufficientInliers,
	Config:              ErrConfig,
}

// Error wraps an underlying cause with the operation that raised it and a
// Kind for dispatch. Op names the failing function, e.g. "pyramid.Build".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target matches either the wrapped error or the sentinel
// associated with e.Kind, so callers can write errors.Is(err, errors.ErrConfig)
// without caring whether the producer wrapped the sentinel directly.
func (e *Error) Is(target error) bool {
	if sentinel, ok := sentinels[e.Kind]; ok && sentinel == target {
		return true
	}
	return errors.Is(e.Err, target)
}

// New constructs an *Error, wrapping err (which may be nil) under op and kind.
func New(kind Kind, op string, err error) *Error {
	if err == nil {
		err = sentinels[kind]
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
