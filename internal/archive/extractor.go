package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/szmslab/quickzip/internal/codec"
)

// Extractor unpacks ZIP archives. Like Compressor it is immutable once built.
type Extractor struct {
	encoding      string
	autoCreateDir bool
	codec         codec.Codec
	progress      ProgressFunc
}

func NewExtractor(opts ...ExtractOption) *Extractor {
	e := &Extractor{
		encoding: DefaultEncoding,
		codec:    codec.NewZip(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) With(opts ...ExtractOption) *Extractor {
	cp := *e
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

func (e *Extractor) Encoding() string          { return e.encoding }
func (e *Extractor) AutoCreateDirectory() bool { return e.autoCreateDir }

// TargetDirectory returns the directory Extract writes into for archivePath.
func (e *Extractor) TargetDirectory(targetDir, archivePath string) string {
	if !e.autoCreateDir {
		return targetDir
	}
	base := filepath.Base(archivePath)
	return filepath.Join(targetDir, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Extract writes every entry of archivePath below targetDir and returns the
// directory that received them. The password is applied only when the archive
// has encrypted entries and password is not empty; otherwise a missing password
// is reported by the codec when the first encrypted entry is read.
func (e *Extractor) Extract(ctx context.Context, targetDir, archivePath, password string) (string, error) {
	dir := e.TargetDirectory(targetDir, archivePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", ioError("create directory", dir, err)
	}

	r, err := e.codec.Open(archivePath, e.encoding)
	if err != nil {
		return "", codecError("open archive", archivePath, err)
	}
	defer r.Close()

	if r.IsEncrypted() && password != "" {
		r.SetPassword(password)
	}

	count := 0
	err = r.ExtractAll(ctx, dir, func(entry codec.Entry) {
		count++
		if e.progress != nil {
			e.progress(entry.Name, count)
		}
	})
	if err != nil {
		if err == ctx.Err() {
			return "", err
		}
		return "", codecError("extract", archivePath, err)
	}

	return dir, nil
}

// List returns the entries of archivePath without extracting them.
func (e *Extractor) List(ctx context.Context, archivePath string) ([]codec.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := e.codec.Open(archivePath, e.encoding)
	if err != nil {
		return nil, codecError("open archive", archivePath, err)
	}
	defer r.Close()

	return r.Entries(), nil
}
