package codec

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeka/zip"
)

const copyBufferSize = 64 * 1024

func (r *zipReader) ExtractAll(ctx context.Context, dir string, onEntry func(Entry)) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	buf := make([]byte, copyBufferSize)

	for i, f := range r.rc.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry := r.entries[i]
		target, err := SecurePath(root, entry.Name)
		if err != nil {
			return err
		}

		if entry.IsDir {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		} else {
			if target == root {
				return fmt.Errorf("%w: %s", ErrInsecurePath, entry.Name)
			}
			if err := r.extractFile(f, entry, target, buf); err != nil {
				return err
			}
		}

		if onEntry != nil {
			onEntry(entry)
		}
	}

	return nil
}

// extractFile decodes one entry into target. The entry is opened before anything
// is created on disk, so an authentication failure leaves no trace; a failure
// while copying removes the partially written file.
func (r *zipReader) extractFile(f *zip.File, entry Entry, target string, buf []byte) (err error) {
	if f.IsEncrypted() {
		f.SetPassword(r.password)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrFormat, entry.Name, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(target)
		}
	}()

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("%w: read %s: %w", ErrFormat, entry.Name, rerr)
		}
	}

	// Best effort; some filesystems do not keep times.
	if mod := entry.Modified; !mod.IsZero() {
		os.Chtimes(target, mod, mod)
	}

	return nil
}

// SecurePath joins an archive entry name onto root and rejects names that would
// resolve outside of it.
func SecurePath(root, name string) (string, error) {
	cleanRoot := filepath.Clean(root)
	path := filepath.Join(cleanRoot, filepath.FromSlash(name))

	if path != cleanRoot && !strings.HasPrefix(path, cleanRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrInsecurePath, name)
	}

	return path, nil
}
