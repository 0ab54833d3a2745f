package codec

import "errors"

var (
	// ErrFormat is the root of every failure that originates in the archive format
	// or its ciphers: malformed archives, bad passwords, unsupported settings.
	ErrFormat = errors.New("zip: format error")

	// ErrPasswordRequired is returned by PutEntry when encryption is requested without a password.
	ErrPasswordRequired = fmtError("zip: encryption requires a password")

	// ErrUnsupportedCharset is returned when a filename encoding cannot be resolved.
	ErrUnsupportedCharset = fmtError("zip: unsupported filename encoding")

	// ErrUnsupportedMethod is returned for compression methods the writer cannot produce.
	ErrUnsupportedMethod = fmtError("zip: unsupported compression method")

	// ErrUnsupportedEncryption is returned for cipher settings the writer cannot produce.
	ErrUnsupportedEncryption = fmtError("zip: unsupported encryption method")

	// ErrInsecurePath is returned when an entry name would escape the extraction directory.
	ErrInsecurePath = fmtError("zip: insecure file path")

	// ErrEntryState is returned when Writer calls are made out of order.
	ErrEntryState = fmtError("zip: invalid entry state")
)

// formatError is a sentinel that also matches ErrFormat.
type formatError struct{ msg string }

func fmtError(msg string) error { return &formatError{msg: msg} }

func (e *formatError) Error() string { return e.msg }

func (e *formatError) Is(target error) bool { return target == ErrFormat }
