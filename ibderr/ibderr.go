// Package ibderr defines the error taxonomy shared by every decoder package
// in this module. A forensic reader cannot simply bail out on the first bad
// byte, so callers need to tell "stop walking this page" apart from "warn
// and keep enumerating"; Kind carries that distinction.
package ibderr

import (
	"errors"
	"fmt"
)

// Kind classifies why a decode operation failed.
type Kind int

const (
	// Io means the underlying read failed.
	Io Kind = iota
	// OutOfRange means a page number or byte offset fell past the end of the file.
	OutOfRange
	// BadMagic means an inode or SDI magic constant did not match.
	BadMagic
	// ChecksumMismatch means the FIL header and trailer checksums disagree.
	ChecksumMismatch
	// Corrupt means a structural invariant was violated (e.g. a record chain
	// that does not end on supremum after n_recs steps).
	Corrupt
	// Unsupported means the input uses a format this reader does not decode
	// (REDUNDANT row format, compressed pages, encryption).
	Unsupported
	// SchemaUnavailable means the SDI root page could not be located.
	SchemaUnavailable
	// Compression means a zlib inflate failed or its length did not match.
	Compression
	// Schema means the SDI JSON did not have the expected shape.
	Schema
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "Io"
	case OutOfRange:
		return "OutOfRange"
	case BadMagic:
		return "BadMagic"
	case ChecksumMismatch:
		return "ChecksumMismatch"
	case Corrupt:
		return "Corrupt"
	case Unsupported:
		return "Unsupported"
	case SchemaUnavailable:
		return "SchemaUnavailable"
	case Compression:
		return "Compression"
	case Schema:
		return "Schema"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every ibd* package.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, letting callers
// write errors.Is(err, ibderr.Corrupt) style checks via New(kind, "", nil).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New builds an Error of the given kind for operation op, optionally
// wrapping a lower-level cause.
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
