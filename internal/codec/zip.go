package codec

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	kzip "github.com/klauspost/compress/zip"
	"github.com/yeka/zip"
)

// Zip is the default Codec. Archives are written with github.com/klauspost/compress/zip,
// which takes a DEFLATE compressor per writer, so every entry gets the level its
// Params ask for. Encrypted entries are framed by this package (see cipher.go).
// Archives are read with github.com/yeka/zip, which decrypts ZipCrypto and WinZip AES.
type Zip struct{}

// NewZip returns the default codec.
func NewZip() *Zip {
	return &Zip{}
}

func (z *Zip) Create(path, charset string) (Writer, error) {
	cs, err := LookupCharset(charset)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &zipWriter{
		file:    f,
		zw:      kzip.NewWriter(f),
		charset: cs,
	}, nil
}

func (z *Zip) Open(path, charset string) (Reader, error) {
	cs, err := LookupCharset(charset)
	if err != nil {
		return nil, err
	}

	rc, err := zip.OpenReader(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, path, err)
	}

	entries := make([]Entry, 0, len(rc.File))
	for _, f := range rc.File {
		name, err := cs.Decode(f.Name, f.Flags)
		if err != nil {
			rc.Close()
			return nil, err
		}
		entries = append(entries, Entry{
			Name:             name,
			IsDir:            strings.HasSuffix(name, "/") || f.Mode().IsDir(),
			Encrypted:        f.IsEncrypted(),
			Method:           Method(f.Method),
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
			Modified:         f.ModTime(),
		})
	}

	return &zipReader{
		rc:      rc,
		charset: cs,
		entries: entries,
	}, nil
}

type zipReader struct {
	rc       *zip.ReadCloser
	charset  Charset
	entries  []Entry
	password string
}

func (r *zipReader) IsEncrypted() bool {
	for _, e := range r.entries {
		if e.Encrypted {
			return true
		}
	}
	return false
}

func (r *zipReader) SetPassword(password string) {
	r.password = password
}

func (r *zipReader) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *zipReader) Close() error {
	return r.rc.Close()
}
