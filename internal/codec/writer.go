package codec

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"
	kzip "github.com/klauspost/compress/zip"
	"go.uber.org/multierr"
)

const (
	flagEncrypted      = 0x1
	flagDataDescriptor = 0x8

	zipVersion20    = 20
	zipVersion45    = 45 // ZIP64
	zipVersionAES   = 51
	creatorVersions = 0xff00
)

type zipWriter struct {
	file    *os.File
	zw      *kzip.Writer
	charset Charset
	entry   io.Writer
	sealed  *sealedEntry // Set while an encrypted entry is open
	name    string
	closed  bool
}

func (w *zipWriter) PutEntry(h EntryHeader, p Params) error {
	if w.closed {
		return fmt.Errorf("%w: writer is closed", ErrEntryState)
	}
	if w.entry != nil {
		return fmt.Errorf("%w: entry %s is still open", ErrEntryState, w.name)
	}

	// Directories are never encrypted, but an encrypting build without a
	// password is rejected no matter what its first entry is.
	if err := p.Validate(); err != nil {
		return err
	}

	name, err := w.charset.Encode(h.Name)
	if err != nil {
		return err
	}

	if h.IsDir {
		if !strings.HasSuffix(name, "/") {
			name += "/"
		}
		entry, err := w.zw.CreateHeader(w.header(name, h, Store))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFormat, h.Name, err)
		}
		w.entry, w.name = entry, h.Name
		return nil
	}

	fh := w.header(name, h, p.Method)
	if p.Encrypt {
		sealed, err := w.createSealed(fh, p)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFormat, h.Name, err)
		}
		w.entry, w.sealed, w.name = sealed, sealed, h.Name
		return nil
	}

	if p.Method == Deflate {
		w.zw.RegisterCompressor(kzip.Deflate, deflater(p.Level))
	}
	entry, err := w.zw.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFormat, h.Name, err)
	}
	w.entry, w.name = entry, h.Name
	return nil
}

func (w *zipWriter) header(name string, h EntryHeader, method Method) *kzip.FileHeader {
	fh := &kzip.FileHeader{Name: name}
	if h.Info != nil {
		if info, err := kzip.FileInfoHeader(h.Info); err == nil {
			fh = info
			fh.Name = name
		}
	}
	fh.Method = uint16(method)
	if w.charset.IsUTF8() {
		if !isASCII(name) {
			fh.Flags |= utf8NameFlag
		}
	} else {
		fh.NonUTF8 = true
	}
	return fh
}

// createSealed starts an encrypted entry. The writer takes the entry's bytes
// as they will appear in the archive, so compression and encryption happen
// here and the sizes and CRC are filled in when the entry is closed.
func (w *zipWriter) createSealed(fh *kzip.FileHeader, p Params) (*sealedEntry, error) {
	fh.Flags |= flagEncrypted | flagDataDescriptor
	fh.CreatorVersion = fh.CreatorVersion&creatorVersions | zipVersion20
	fh.ReaderVersion = zipVersion20
	fh.CompressedSize64, fh.UncompressedSize64 = 0, 0

	aes := p.Encryption == EncryptionAES
	if aes {
		fh.Extra = append(fh.Extra, aesExtra(p.KeyStrength, fh.Method)...)
		fh.Method = uint16(AESMarker)
		fh.ReaderVersion = zipVersionAES
	}

	raw, err := w.zw.CreateRaw(fh)
	if err != nil {
		return nil, err
	}

	s := &sealedEntry{
		fh:  fh,
		out: &countWriter{w: raw},
		crc: crc32.NewIEEE(),
		aes: aes,
	}

	if aes {
		s.cipher, err = newAESWriter(s.out, p.Password, p.KeyStrength)
	} else {
		s.cipher, err = newZipCryptoWriter(s.out, p.Password, fh.ModifiedTime)
	}
	if err != nil {
		return nil, err
	}

	if p.Method == Deflate {
		if s.comp, err = deflater(p.Level)(s.cipher); err != nil {
			return nil, err
		}
	} else {
		s.comp = nopCloser{s.cipher}
	}

	return s, nil
}

func (w *zipWriter) Write(b []byte) (int, error) {
	if w.entry == nil {
		return 0, fmt.Errorf("%w: no open entry", ErrEntryState)
	}
	return w.entry.Write(b)
}

// CloseEntry ends the current entry. Plain entries are finished by the library
// when the next entry starts or the archive is closed; encrypted entries are
// sealed here.
func (w *zipWriter) CloseEntry() error {
	if w.entry == nil {
		return fmt.Errorf("%w: no open entry", ErrEntryState)
	}
	var err error
	if w.sealed != nil {
		if serr := w.sealed.close(); serr != nil {
			err = fmt.Errorf("%w: %s: %w", ErrFormat, w.name, serr)
		}
	}
	w.entry, w.sealed, w.name = nil, nil, ""
	return err
}

func (w *zipWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if w.sealed != nil {
		if serr := w.sealed.close(); serr != nil {
			err = fmt.Errorf("%w: %s: %w", ErrFormat, w.name, serr)
		}
	}
	w.entry, w.sealed = nil, nil

	if zerr := w.zw.Close(); zerr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: finish archive: %w", ErrFormat, zerr))
	}
	return multierr.Append(err, w.file.Close())
}

// sealedEntry compresses, encrypts and counts one encrypted entry.
type sealedEntry struct {
	fh     *kzip.FileHeader
	out    *countWriter
	cipher io.WriteCloser
	comp   io.WriteCloser
	crc    hash.Hash32
	size   uint64
	aes    bool
}

func (s *sealedEntry) Write(b []byte) (int, error) {
	n, err := s.comp.Write(b)
	s.crc.Write(b[:n])
	s.size += uint64(n)
	return n, err
}

func (s *sealedEntry) close() error {
	if err := s.comp.Close(); err != nil {
		return err
	}
	if err := s.cipher.Close(); err != nil {
		return err
	}

	fh := s.fh
	// AE-2 entries carry no CRC; the authentication code replaces it.
	if !s.aes {
		fh.CRC32 = s.crc.Sum32()
	}
	fh.CompressedSize64 = s.out.n
	fh.UncompressedSize64 = s.size
	if fh.CompressedSize64 >= math.MaxUint32 || fh.UncompressedSize64 >= math.MaxUint32 {
		fh.CompressedSize = math.MaxUint32
		fh.UncompressedSize = math.MaxUint32
		fh.ReaderVersion = zipVersion45
	} else {
		fh.CompressedSize = uint32(fh.CompressedSize64)
		fh.UncompressedSize = uint32(fh.UncompressedSize64)
	}
	return nil
}

func deflater(level int) kzip.Compressor {
	return func(out io.Writer) (io.WriteCloser, error) {
		fw, err := flate.NewWriter(out, level)
		if err != nil {
			return nil, err
		}
		return fw, nil
	}
}

type countWriter struct {
	w io.Writer
	n uint64
}

func (c *countWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += uint64(n)
	return n, err
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
