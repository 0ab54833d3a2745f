package archive

import (
	"fmt"
	"runtime"
	"strings"
)

// CompressionLevel selects how entries are compressed: Store, or DEFLATE at one of
// nine levels from fastest to strongest. The zero value is unset.
type CompressionLevel int

const (
	Store CompressionLevel = iota + 1
	DeflateFastest
	DeflateFaster
	DeflateFast
	DeflateNormalFast
	DeflateNormal
	DeflateNormalHigh
	DeflateHigh
	DeflateHigher
	DeflateHighest
)

var compressionNames = map[CompressionLevel]string{
	Store:             "store",
	DeflateFastest:    "deflate_fastest",
	DeflateFaster:     "deflate_faster",
	DeflateFast:       "deflate_fast",
	DeflateNormalFast: "deflate_normal_fast",
	DeflateNormal:     "deflate_normal",
	DeflateNormalHigh: "deflate_normal_high",
	DeflateHigh:       "deflate_high",
	DeflateHigher:     "deflate_higher",
	DeflateHighest:    "deflate_highest",
}

// CompressionLevels lists every level in order.
func CompressionLevels() []CompressionLevel {
	return []CompressionLevel{
		Store, DeflateFastest, DeflateFaster, DeflateFast, DeflateNormalFast,
		DeflateNormal, DeflateNormalHigh, DeflateHigh, DeflateHigher, DeflateHighest,
	}
}

func (c CompressionLevel) Valid() bool {
	return c >= Store && c <= DeflateHighest
}

func (c CompressionLevel) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("compression(%d)", int(c))
}

// ParseCompressionLevel accepts the names returned by String, case-insensitively,
// with '-' and '_' treated alike.
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	key := normalizeName(s)
	for level, name := range compressionNames {
		if name == key {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown compression level: %q", s)
}

// EncryptionMethod selects how file entries are encrypted. The zero value is unset.
type EncryptionMethod int

const (
	NoEncryption EncryptionMethod = iota + 1
	ZipCrypto
	AES128
	AES256
)

var encryptionNames = map[EncryptionMethod]string{
	NoEncryption: "none",
	ZipCrypto:    "zip_crypto",
	AES128:       "aes_128",
	AES256:       "aes_256",
}

// EncryptionMethods lists every method in order.
func EncryptionMethods() []EncryptionMethod {
	return []EncryptionMethod{NoEncryption, ZipCrypto, AES128, AES256}
}

func (e EncryptionMethod) Valid() bool {
	return e >= NoEncryption && e <= AES256
}

func (e EncryptionMethod) String() string {
	if name, ok := encryptionNames[e]; ok {
		return name
	}
	return fmt.Sprintf("encryption(%d)", int(e))
}

// ParseEncryptionMethod accepts the names returned by String. "no_encryption" is
// accepted as an alias of "none".
func ParseEncryptionMethod(s string) (EncryptionMethod, error) {
	key := normalizeName(s)
	if key == "no_encryption" {
		return NoEncryption, nil
	}
	for method, name := range encryptionNames {
		if name == key {
			return method, nil
		}
	}
	return 0, fmt.Errorf("unknown encryption method: %q", s)
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

const (
	// DefaultEncoding is used for entry names unless configured otherwise,
	// on every platform.
	DefaultEncoding = "UTF-8"

	// WindowsEncoding is the legacy multi-byte encoding used by Windows archivers
	// in Japanese locales.
	WindowsEncoding = "Windows-31J"

	// HostEncodingName is the keyword that selects HostEncoding.
	HostEncodingName = "host"

	DefaultCompression = DeflateNormalHigh
	DefaultEncryption  = NoEncryption
)

// HostEncoding returns WindowsEncoding on Windows and DefaultEncoding elsewhere.
// It is only used when a caller asks for it with HostEncodingName.
func HostEncoding() string {
	if runtime.GOOS == "windows" {
		return WindowsEncoding
	}
	return DefaultEncoding
}
