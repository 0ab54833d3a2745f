package archive

import (
	"testing"

	"github.com/szmslab/quickzip/internal/codec"
)

func TestCodecParams_Compression(t *testing.T) {
	tests := []struct {
		level      CompressionLevel
		wantMethod codec.Method
		wantLevel  int
	}{
		{Store, codec.Store, codec.LevelUnset},
		{DeflateFastest, codec.Deflate, 1},
		{DeflateFaster, codec.Deflate, 2},
		{DeflateFast, codec.Deflate, 3},
		{DeflateNormalFast, codec.Deflate, 4},
		{DeflateNormal, codec.Deflate, 5},
		{DeflateNormalHigh, codec.Deflate, 6},
		{DeflateHigh, codec.Deflate, 7},
		{DeflateHigher, codec.Deflate, 8},
		{DeflateHighest, codec.Deflate, 9},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			p := CodecParams(tt.level, NoEncryption, "")
			if p.Method != tt.wantMethod || p.Level != tt.wantLevel {
				t.Errorf("CodecParams(%v) = (%v, %d), want (%v, %d)",
					tt.level, p.Method, p.Level, tt.wantMethod, tt.wantLevel)
			}
		})
	}
}

func TestCodecParams_Encryption(t *testing.T) {
	tests := []struct {
		method EncryptionMethod
		want   codec.Params
	}{
		{NoEncryption, codec.Params{Encrypt: false, Encryption: codec.EncryptionNone, KeyStrength: codec.KeyStrengthUnset}},
		{ZipCrypto, codec.Params{Encrypt: true, Encryption: codec.EncryptionStandard, KeyStrength: codec.KeyStrengthUnset, Password: "secret"}},
		{AES128, codec.Params{Encrypt: true, Encryption: codec.EncryptionAES, KeyStrength: 128, Password: "secret"}},
		{AES256, codec.Params{Encrypt: true, Encryption: codec.EncryptionAES, KeyStrength: 256, Password: "secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			p := CodecParams(Store, tt.method, "secret")
			if p.Encrypt != tt.want.Encrypt ||
				p.Encryption != tt.want.Encryption ||
				p.KeyStrength != tt.want.KeyStrength ||
				p.Password != tt.want.Password {
				t.Errorf("CodecParams(%v) = %+v, want %+v", tt.method, p, tt.want)
			}
		})
	}
}

func TestCodecParams_UnsetFallsBackToDefaults(t *testing.T) {
	p := CodecParams(0, 0, "secret")
	if p.Method != codec.Deflate || p.Level != 6 {
		t.Errorf("unset compression = (%v, %d), want (deflate, 6)", p.Method, p.Level)
	}
	if p.Encrypt || p.Password != "" {
		t.Errorf("unset encryption = %+v, want plaintext", p)
	}
}

func TestNormalizeRootPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{`\\`, ""},
		{"root", "root/"},
		{"/root", "root/"},
		{"root/", "root/"},
		{`\root\`, "root/"},
		{`\\root\\`, "root/"},
		{"//root", "root/"},
		{`a\\b\c`, "a/b/c/"},
		{"a/b/", "a/b/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeRootPath(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeRootPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeRootPath(got); again != got {
				t.Errorf("NormalizeRootPath is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	for _, level := range CompressionLevels() {
		got, err := ParseCompressionLevel(level.String())
		if err != nil || got != level {
			t.Errorf("ParseCompressionLevel(%q) = %v, %v", level.String(), got, err)
		}
	}
	if got, err := ParseCompressionLevel("Deflate-Highest"); err != nil || got != DeflateHighest {
		t.Errorf("ParseCompressionLevel(Deflate-Highest) = %v, %v", got, err)
	}
	if _, err := ParseCompressionLevel("bzip2"); err == nil {
		t.Error("ParseCompressionLevel(bzip2) succeeded")
	}

	for _, method := range EncryptionMethods() {
		got, err := ParseEncryptionMethod(method.String())
		if err != nil || got != method {
			t.Errorf("ParseEncryptionMethod(%q) = %v, %v", method.String(), got, err)
		}
	}
	if got, err := ParseEncryptionMethod("NO_ENCRYPTION"); err != nil || got != NoEncryption {
		t.Errorf("ParseEncryptionMethod(NO_ENCRYPTION) = %v, %v", got, err)
	}
	if _, err := ParseEncryptionMethod("rot13"); err == nil {
		t.Error("ParseEncryptionMethod(rot13) succeeded")
	}
}
