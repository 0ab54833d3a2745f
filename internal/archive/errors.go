package archive

import (
	"errors"
	"fmt"

	"github.com/szmslab/quickzip/internal/codec"
)

var (
	// ErrIO matches failures to access the filesystem: creating directories,
	// opening, reading or writing files.
	ErrIO = errors.New("archive: i/o error")

	// ErrFormat matches failures reported by the codec: malformed archives,
	// bad passwords, unsupported encodings or settings.
	ErrFormat = errors.New("archive: format error")
)

// ErrorKind classifies an Error.
type ErrorKind int

const (
	KindIO ErrorKind = iota + 1
	KindFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Error is returned by Compress, Extract and List. The cause stays reachable
// through errors.Unwrap.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%v] %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("[%v] %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrFormat:
		return e.Kind == KindFormat
	}
	return false
}

func ioError(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// codecError classifies an error returned through the codec boundary. Anything
// the codec tags as a format problem is KindFormat; the rest came from the
// filesystem underneath it.
func codecError(op, path string, err error) error {
	kind := KindIO
	if errors.Is(err, codec.ErrFormat) {
		kind = KindFormat
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
