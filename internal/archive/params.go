package archive

import (
	"regexp"
	"strings"

	"github.com/szmslab/quickzip/internal/codec"
)

// CodecParams derives the codec settings for one build. The result is applied
// unchanged to every file entry of that build.
func CodecParams(level CompressionLevel, method EncryptionMethod, password string) codec.Params {
	var p codec.Params

	switch {
	case level == Store:
		p.Method = codec.Store
		p.Level = codec.LevelUnset
	case level.Valid():
		p.Method = codec.Deflate
		p.Level = int(level - Store)
	default:
		p.Method = codec.Deflate
		p.Level = int(DefaultCompression - Store)
	}

	p.KeyStrength = codec.KeyStrengthUnset

	switch method {
	case ZipCrypto:
		p.Encrypt = true
		p.Encryption = codec.EncryptionStandard
		p.Password = password
	case AES128:
		p.Encrypt = true
		p.Encryption = codec.EncryptionAES
		p.KeyStrength = 128
		p.Password = password
	case AES256:
		p.Encrypt = true
		p.Encryption = codec.EncryptionAES
		p.KeyStrength = 256
		p.Password = password
	default:
		p.Encryption = codec.EncryptionNone
	}

	return p
}

var backslashRun = regexp.MustCompile(`\\+`)

// NormalizeRootPath turns a caller-supplied archive prefix into canonical form:
// '/' separators, no leading '/', and a trailing '/' unless empty.
func NormalizeRootPath(p string) string {
	p = backslashRun.ReplaceAllString(p, "/")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
