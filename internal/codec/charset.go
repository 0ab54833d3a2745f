package codec

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// utf8NameFlag is general purpose bit 11: the entry name is UTF-8.
const utf8NameFlag = 0x800

// Names that are common in archive tooling but are not IANA names or aliases.
var charsetAliases = map[string]string{
	"ms932": "Windows-31J",
	"cp932": "Windows-31J",
	"sjis":  "Shift_JIS",
	"cp437": "IBM437",
	"cp866": "IBM866",
	"utf8":  "UTF-8",
}

// Charset converts entry names between Go strings and the bytes stored in an archive.
type Charset struct {
	name string
	enc  encoding.Encoding
	utf8 bool
}

// LookupCharset resolves an IANA charset name (or one of the common aliases above).
func LookupCharset(name string) (Charset, error) {
	key := strings.TrimSpace(name)
	if key == "" {
		return Charset{}, fmt.Errorf("%w: empty name", ErrUnsupportedCharset)
	}
	if alias, ok := charsetAliases[strings.ToLower(key)]; ok {
		key = alias
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return Charset{}, fmt.Errorf("%w: %s: %w", ErrUnsupportedCharset, name, err)
	}

	canonical := key
	if enc == nil {
		// The IANA index may know Windows-31J without providing an encoding.
		// The Shift_JIS codec follows the WHATWG table, which is Windows-31J.
		if !strings.EqualFold(key, "Windows-31J") {
			return Charset{}, fmt.Errorf("%w: %s", ErrUnsupportedCharset, name)
		}
		enc = japanese.ShiftJIS
	} else if n, err := ianaindex.IANA.Name(enc); err == nil {
		canonical = n
	}

	return Charset{
		name: canonical,
		enc:  enc,
		utf8: enc == unicode.UTF8,
	}, nil
}

// Name returns the canonical IANA name.
func (c Charset) Name() string { return c.name }

// IsUTF8 reports whether names are stored as UTF-8.
func (c Charset) IsUTF8() bool { return c.utf8 }

// Encode converts an entry name into the archive's byte representation.
func (c Charset) Encode(name string) (string, error) {
	if c.utf8 || isASCII(name) {
		return name, nil
	}
	out, err := c.enc.NewEncoder().String(name)
	if err != nil {
		return "", fmt.Errorf("%w: cannot encode %q as %s: %w", ErrFormat, name, c.name, err)
	}
	return out, nil
}

// Decode converts a stored entry name back into a Go string.
// Names flagged as UTF-8 by the writer are returned unchanged.
func (c Charset) Decode(raw string, flags uint16) (string, error) {
	if flags&utf8NameFlag != 0 || c.utf8 || isASCII(raw) {
		return raw, nil
	}
	out, err := c.enc.NewDecoder().String(raw)
	if err != nil {
		return "", fmt.Errorf("%w: cannot decode entry name as %s: %w", ErrFormat, c.name, err)
	}
	return out, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
