// Package codec is the boundary between quickzip and the library that implements the
// ZIP format, DEFLATE and the ZipCrypto/AES ciphers. Callers select and parameterise
// the codec; they never see local headers, CRCs or cipher framing.
package codec

import (
	"context"
	"fmt"
	"io/fs"
	"time"
)

// Method is the compression method recorded for an entry.
type Method uint16

const (
	Store   Method = 0 // No compression
	Deflate Method = 8 // DEFLATE

	// AESMarker is the method id WinZip AES entries carry in their headers. The
	// real method lives in the AES extra field; an entry reports AESMarker only
	// when that field is missing.
	AESMarker Method = 99
)

func (m Method) String() string {
	switch m {
	case Store:
		return "store"
	case Deflate:
		return "deflate"
	case AESMarker:
		return "aes"
	default:
		return fmt.Sprintf("method(%d)", uint16(m))
	}
}

// Encryption selects the cipher family used for an entry.
type Encryption int

const (
	EncryptionNone     Encryption = iota // Plaintext
	EncryptionStandard                   // Legacy ZipCrypto
	EncryptionAES                        // WinZip AES, see Params.KeyStrength
)

func (e Encryption) String() string {
	switch e {
	case EncryptionNone:
		return "none"
	case EncryptionStandard:
		return "standard"
	case EncryptionAES:
		return "aes"
	default:
		return fmt.Sprintf("encryption(%d)", int(e))
	}
}

const (
	// LevelUnset marks a Params value whose method carries no level (Store).
	LevelUnset = -1

	// KeyStrengthUnset marks a Params value that is not AES encrypted.
	KeyStrengthUnset = -1
)

// Params are the per-entry settings handed to Writer.PutEntry.
type Params struct {
	Method      Method
	Level       int // 1-9 for Deflate, LevelUnset for Store
	Encrypt     bool
	Encryption  Encryption
	KeyStrength int // 128, 192 or 256 for AES, KeyStrengthUnset otherwise
	Password    string
}

// Validate reports whether the writer can honour p.
// An encrypting Params value without a password is rejected here, at write time.
func (p Params) Validate() error {
	switch p.Method {
	case Store:
	case Deflate:
		if p.Level < 0 || p.Level > 9 {
			return fmt.Errorf("%w: deflate level %d", ErrFormat, p.Level)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, p.Method)
	}

	if !p.Encrypt {
		return nil
	}
	if p.Password == "" {
		return ErrPasswordRequired
	}

	switch p.Encryption {
	case EncryptionStandard:
		return nil
	case EncryptionAES:
		switch p.KeyStrength {
		case 128, 192, 256:
			return nil
		}
		return fmt.Errorf("%w: aes key strength %d", ErrUnsupportedEncryption, p.KeyStrength)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEncryption, p.Encryption)
	}
}

// EntryHeader describes one entry about to be written.
// Name is archive-relative, uses '/' separators and ends with '/' for directories.
type EntryHeader struct {
	Name  string
	IsDir bool
	Info  fs.FileInfo // Optional; supplies mode and modification time
}

// Entry describes one entry of an existing archive.
type Entry struct {
	Name             string
	IsDir            bool
	Encrypted        bool
	Method           Method
	CompressedSize   uint64
	UncompressedSize uint64
	Modified         time.Time
}

// Writer appends entries to a new archive. Entries are written one at a time:
// PutEntry, any number of Write calls, then CloseEntry.
type Writer interface {
	PutEntry(h EntryHeader, p Params) error
	Write(b []byte) (int, error)
	CloseEntry() error

	// Close writes the central directory and releases the underlying file.
	// It is safe to call more than once.
	Close() error
}

// Reader gives access to an existing archive.
type Reader interface {
	IsEncrypted() bool
	SetPassword(password string)
	Entries() []Entry

	// ExtractAll writes every entry below dir, creating directories as needed.
	// onEntry, when non-nil, is called after each entry is written.
	ExtractAll(ctx context.Context, dir string, onEntry func(Entry)) error

	Close() error
}

// Codec opens archives for writing and reading. charset names the text encoding
// used for entry names inside the archive.
type Codec interface {
	Create(path, charset string) (Writer, error)
	Open(path, charset string) (Reader, error)
}
