package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/szmslab/quickzip/internal/codec"
	"go.uber.org/multierr"
)

const copyBufferSize = 8 * 1024

// Compressor builds ZIP archives from files and directories. A Compressor is
// immutable once constructed; use With to derive a differently configured copy.
type Compressor struct {
	encoding    string
	compression CompressionLevel
	encryption  EncryptionMethod
	password    string
	rootPath    string
	codec       codec.Codec
	progress    ProgressFunc
}

func NewCompressor(opts ...CompressOption) *Compressor {
	c := &Compressor{
		encoding:    DefaultEncoding,
		compression: DefaultCompression,
		encryption:  DefaultEncryption,
		codec:       codec.NewZip(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// With returns a copy of c with opts applied on top of its current settings.
func (c *Compressor) With(opts ...CompressOption) *Compressor {
	cp := *c
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

func (c *Compressor) Encoding() string              { return c.encoding }
func (c *Compressor) Compression() CompressionLevel { return c.compression }
func (c *Compressor) Encryption() EncryptionMethod  { return c.encryption }
func (c *Compressor) Password() string              { return c.password }
func (c *Compressor) RootPath() string              { return c.rootPath }

// Compress writes paths into a new archive at archivePath and returns archivePath.
// Directories are walked depth-first; a directory that has children contributes
// only its children, an empty one is stored as a directory entry. On failure the
// archive may be left partially written.
func (c *Compressor) Compress(ctx context.Context, archivePath string, paths ...string) (_ string, err error) {
	if dir := filepath.Dir(archivePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", ioError("create directory", dir, err)
		}
	}

	w, err := c.codec.Create(archivePath, c.encoding)
	if err != nil {
		return "", codecError("create archive", archivePath, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = multierr.Append(err, codecError("close archive", archivePath, cerr))
		}
	}()

	b := &build{
		ctx:      ctx,
		w:        w,
		params:   CodecParams(c.compression, c.encryption, c.password),
		buf:      make([]byte, copyBufferSize),
		progress: c.progress,
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", ioError("resolve", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", ioError("stat", p, err)
		}
		if err := b.visit(abs, info, c.rootPath); err != nil {
			return "", err
		}
	}

	return archivePath, nil
}

// build carries the state of a single Compress call.
type build struct {
	ctx      context.Context
	w        codec.Writer
	params   codec.Params
	buf      []byte
	progress ProgressFunc
	count    int
}

func (b *build) visit(path string, info os.FileInfo, prefix string) error {
	if err := b.ctx.Err(); err != nil {
		return err
	}

	if info.IsDir() {
		children, err := os.ReadDir(path)
		if err != nil {
			return ioError("read directory", path, err)
		}
		if len(children) > 0 {
			sub := prefix + info.Name() + "/"
			for _, child := range children {
				childPath := filepath.Join(path, child.Name())
				childInfo, err := os.Stat(childPath)
				if err != nil {
					return ioError("stat", childPath, err)
				}
				if err := b.visit(childPath, childInfo, sub); err != nil {
					return err
				}
			}
			return nil
		}
	}

	return b.put(path, info, prefix+info.Name())
}

func (b *build) put(path string, info os.FileInfo, name string) error {
	h := codec.EntryHeader{Name: name, IsDir: info.IsDir(), Info: info}
	if h.IsDir {
		h.Name += "/"
	}

	if err := b.w.PutEntry(h, b.params); err != nil {
		return codecError("put entry", h.Name, err)
	}

	if !h.IsDir {
		if err := b.copyFile(path, h.Name); err != nil {
			return err
		}
	}

	if err := b.w.CloseEntry(); err != nil {
		return codecError("close entry", h.Name, err)
	}

	b.count++
	if b.progress != nil {
		b.progress(h.Name, b.count)
	}
	return nil
}

func (b *build) copyFile(path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return ioError("open", path, err)
	}
	defer f.Close()

	for {
		n, rerr := f.Read(b.buf)
		if n > 0 {
			if _, werr := b.w.Write(b.buf[:n]); werr != nil {
				return codecError("write entry", name, werr)
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return ioError("read", path, rerr)
		}
	}
}
