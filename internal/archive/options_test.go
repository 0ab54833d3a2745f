package archive

import "testing"

func TestNewCompressor_Defaults(t *testing.T) {
	c := NewCompressor()
	if c.Encoding() != DefaultEncoding {
		t.Errorf("Encoding() = %q, want %q", c.Encoding(), DefaultEncoding)
	}
	if c.Compression() != DeflateNormalHigh {
		t.Errorf("Compression() = %v, want %v", c.Compression(), DeflateNormalHigh)
	}
	if c.Encryption() != NoEncryption || c.Password() != "" {
		t.Errorf("Encryption() = %v, %q", c.Encryption(), c.Password())
	}
	if c.RootPath() != "" {
		t.Errorf("RootPath() = %q", c.RootPath())
	}
}

func TestCompressorOptions_IgnoreInvalid(t *testing.T) {
	base := NewCompressor(
		WithEncoding("Shift_JIS"),
		WithCompression(Store),
		WithEncryption(AES256, "secret"),
		WithRootPath("data"),
	)

	c := base.With(
		WithEncoding(""),
		WithEncoding("  "),
		WithCompression(0),
		WithCompression(CompressionLevel(42)),
		WithEncryption(0, "other"),
		WithEncryption(EncryptionMethod(9), "other"),
	)

	if c.Encoding() != "Shift_JIS" {
		t.Errorf("Encoding() = %q, want Shift_JIS", c.Encoding())
	}
	if c.Compression() != Store {
		t.Errorf("Compression() = %v, want store", c.Compression())
	}
	if c.Encryption() != AES256 || c.Password() != "secret" {
		t.Errorf("Encryption() = %v, %q, want aes_256, secret", c.Encryption(), c.Password())
	}
	if c.RootPath() != "data/" {
		t.Errorf("RootPath() = %q, want data/", c.RootPath())
	}
}

func TestCompressorOptions_LaterValueWins(t *testing.T) {
	c := NewCompressor(
		WithCompression(Store),
		WithCompression(DeflateFastest),
		WithEncryption(ZipCrypto, "one"),
		WithEncryption(AES128, "two"),
		WithRootPath("first"),
		WithRootPath(""),
	)

	if c.Compression() != DeflateFastest {
		t.Errorf("Compression() = %v", c.Compression())
	}
	if c.Encryption() != AES128 || c.Password() != "two" {
		t.Errorf("Encryption() = %v, %q", c.Encryption(), c.Password())
	}
	if c.RootPath() != "" {
		t.Errorf("RootPath() = %q, want empty", c.RootPath())
	}
}

func TestCompressorOptions_NoEncryptionClearsPassword(t *testing.T) {
	c := NewCompressor(WithEncryption(ZipCrypto, "secret")).With(WithEncryption(NoEncryption, "ignored"))
	if c.Encryption() != NoEncryption || c.Password() != "" {
		t.Errorf("Encryption() = %v, %q", c.Encryption(), c.Password())
	}
}

func TestCompressorWith_DoesNotModifyReceiver(t *testing.T) {
	base := NewCompressor()
	_ = base.With(WithCompression(Store), WithRootPath("x"), WithEncoding("Shift_JIS"))

	if base.Compression() != DefaultCompression || base.RootPath() != "" || base.Encoding() != DefaultEncoding {
		t.Errorf("With modified its receiver: %v %q %q", base.Compression(), base.RootPath(), base.Encoding())
	}
}

func TestHostEncodingKeyword(t *testing.T) {
	c := NewCompressor(WithEncoding("host"))
	if c.Encoding() != HostEncoding() {
		t.Errorf("Encoding() = %q, want %q", c.Encoding(), HostEncoding())
	}

	e := NewExtractor(WithExtractEncoding("HOST"))
	if e.Encoding() != HostEncoding() {
		t.Errorf("extractor Encoding() = %q, want %q", e.Encoding(), HostEncoding())
	}
}

func TestExtractorOptions(t *testing.T) {
	e := NewExtractor()
	if e.Encoding() != DefaultEncoding || e.AutoCreateDirectory() {
		t.Errorf("defaults = %q, %v", e.Encoding(), e.AutoCreateDirectory())
	}

	e2 := e.With(WithExtractEncoding("Shift_JIS"), WithAutoCreateDirectory(true), WithExtractEncoding(""))
	if e2.Encoding() != "Shift_JIS" || !e2.AutoCreateDirectory() {
		t.Errorf("With = %q, %v", e2.Encoding(), e2.AutoCreateDirectory())
	}
	if e.AutoCreateDirectory() {
		t.Error("With modified its receiver")
	}
}
