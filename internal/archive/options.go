package archive

import (
	"strings"

	"github.com/szmslab/quickzip/internal/codec"
)

// ProgressFunc is called after each entry is written or extracted. count is the
// number of entries handled so far, including name.
type ProgressFunc func(name string, count int)

type CompressOption func(*Compressor)

// WithEncoding sets the charset used for entry names. An empty name is ignored;
// HostEncodingName selects HostEncoding.
func WithEncoding(name string) CompressOption {
	return func(c *Compressor) {
		if enc := resolveEncoding(name); enc != "" {
			c.encoding = enc
		}
	}
}

// WithCompression sets the compression level. Unset or unknown levels are ignored.
func WithCompression(level CompressionLevel) CompressOption {
	return func(c *Compressor) {
		if level.Valid() {
			c.compression = level
		}
	}
}

// WithEncryption sets the encryption method and its password together. Unset or
// unknown methods are ignored and leave the previous password in place.
func WithEncryption(method EncryptionMethod, password string) CompressOption {
	return func(c *Compressor) {
		if !method.Valid() {
			return
		}
		c.encryption = method
		if method == NoEncryption {
			c.password = ""
			return
		}
		c.password = password
	}
}

// WithRootPath sets the prefix prepended to every entry name. It always applies;
// an empty path clears the prefix.
func WithRootPath(p string) CompressOption {
	return func(c *Compressor) {
		c.rootPath = NormalizeRootPath(p)
	}
}

func WithCodec(cd codec.Codec) CompressOption {
	return func(c *Compressor) {
		if cd != nil {
			c.codec = cd
		}
	}
}

func WithProgress(fn ProgressFunc) CompressOption {
	return func(c *Compressor) {
		c.progress = fn
	}
}

type ExtractOption func(*Extractor)

func WithExtractEncoding(name string) ExtractOption {
	return func(e *Extractor) {
		if enc := resolveEncoding(name); enc != "" {
			e.encoding = enc
		}
	}
}

// WithAutoCreateDirectory makes Extract write into a subdirectory of the target
// named after the archive.
func WithAutoCreateDirectory(enabled bool) ExtractOption {
	return func(e *Extractor) {
		e.autoCreateDir = enabled
	}
}

func WithExtractCodec(cd codec.Codec) ExtractOption {
	return func(e *Extractor) {
		if cd != nil {
			e.codec = cd
		}
	}
}

func WithExtractProgress(fn ProgressFunc) ExtractOption {
	return func(e *Extractor) {
		e.progress = fn
	}
}

func resolveEncoding(name string) string {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, HostEncodingName) {
		return HostEncoding()
	}
	return name
}
