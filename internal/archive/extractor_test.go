package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var roundTripTree = map[string]string{
	"tree/a.txt":            "alpha",
	"tree/nested/b.txt":     strings.Repeat("bravo ", 2048),
	"tree/nested/deep/c.md": "",
	"tree/empty/":           "",
	"top.bin":               string([]byte{0x00, 0xff, 0x10, 0x80, 0x7f}),
}

func buildRoundTripArchive(t *testing.T, c *Compressor) string {
	t.Helper()
	src := t.TempDir()
	makeTree(t, src, roundTripTree)

	out := filepath.Join(t.TempDir(), "roundtrip.zip")
	if _, err := c.Compress(context.Background(), out, filepath.Join(src, "tree"), filepath.Join(src, "top.bin")); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	return out
}

func assertTree(t *testing.T, dir string) {
	t.Helper()
	got := readTree(t, dir)
	for name, content := range roundTripTree {
		if data, ok := got[name]; !ok || data != content {
			t.Errorf("%s: present=%v, %d bytes, want %d bytes", name, ok, len(data), len(content))
		}
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	for name := range readTree(t, dir) {
		if !strings.HasSuffix(name, "/") {
			n++
		}
	}
	return n
}

func TestRoundTrip_AllSettings(t *testing.T) {
	for _, level := range CompressionLevels() {
		for _, method := range EncryptionMethods() {
			t.Run(level.String()+"/"+method.String(), func(t *testing.T) {
				password := ""
				if method != NoEncryption {
					password = "pa55-" + method.String()
				}
				c := NewCompressor(WithCompression(level), WithEncryption(method, password))
				archivePath := buildRoundTripArchive(t, c)

				entries, err := NewExtractor().List(context.Background(), archivePath)
				if err != nil {
					t.Fatalf("List: %v", err)
				}
				for _, e := range entries {
					if !e.IsDir && e.Encrypted != (method != NoEncryption) {
						t.Errorf("%s: encrypted = %v", e.Name, e.Encrypted)
					}
				}

				dst := t.TempDir()
				dir, err := NewExtractor().Extract(context.Background(), dst, archivePath, password)
				if err != nil {
					t.Fatalf("Extract: %v", err)
				}
				if dir != dst {
					t.Errorf("Extract returned %q, want %q", dir, dst)
				}
				assertTree(t, dst)
			})
		}
	}
}

func TestExtract_WrongOrMissingPassword(t *testing.T) {
	for _, method := range []EncryptionMethod{ZipCrypto, AES128, AES256} {
		c := NewCompressor(WithEncryption(method, "correct horse"))
		archivePath := buildRoundTripArchive(t, c)

		for _, password := range []string{"", "battery staple"} {
			t.Run(method.String()+"/"+password, func(t *testing.T) {
				dst := t.TempDir()
				_, err := NewExtractor().Extract(context.Background(), dst, archivePath, password)
				if !errors.Is(err, ErrFormat) {
					t.Fatalf("Extract error = %v, want ErrFormat", err)
				}
				if n := countFiles(t, dst); n != 0 {
					t.Errorf("%d files written despite the bad password", n)
				}
			})
		}
	}
}

func TestExtract_PasswordIgnoredForPlainArchive(t *testing.T) {
	archivePath := buildRoundTripArchive(t, NewCompressor())

	dst := t.TempDir()
	if _, err := NewExtractor().Extract(context.Background(), dst, archivePath, "unused"); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	assertTree(t, dst)
}

func TestExtract_AutoCreateDirectory(t *testing.T) {
	src := t.TempDir()
	makeTree(t, src, map[string]string{"x.txt": "x"})

	archivePath := filepath.Join(t.TempDir(), "archive.zip")
	if _, err := NewCompressor().Compress(context.Background(), archivePath, filepath.Join(src, "x.txt")); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	t.Run("enabled", func(t *testing.T) {
		target := t.TempDir()
		dir, err := NewExtractor(WithAutoCreateDirectory(true)).Extract(context.Background(), target, archivePath, "")
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		want := filepath.Join(target, "archive")
		if dir != want {
			t.Errorf("Extract returned %q, want %q", dir, want)
		}
		if data, err := os.ReadFile(filepath.Join(want, "x.txt")); err != nil || string(data) != "x" {
			t.Errorf("archive/x.txt = %q, %v", data, err)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		target := t.TempDir()
		dir, err := NewExtractor(WithAutoCreateDirectory(false)).Extract(context.Background(), target, archivePath, "")
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if dir != target {
			t.Errorf("Extract returned %q, want %q", dir, target)
		}
		if _, err := os.Stat(filepath.Join(target, "x.txt")); err != nil {
			t.Errorf("x.txt not extracted into target: %v", err)
		}
		if _, err := os.Stat(filepath.Join(target, "archive")); !os.IsNotExist(err) {
			t.Errorf("unexpected archive/ subdirectory: %v", err)
		}
	})

	t.Run("missing target is created", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "does", "not", "exist")
		if _, err := NewExtractor().Extract(context.Background(), target, archivePath, ""); err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if _, err := os.Stat(filepath.Join(target, "x.txt")); err != nil {
			t.Errorf("x.txt not extracted: %v", err)
		}
	})
}

func TestExtractor_TargetDirectory(t *testing.T) {
	e := NewExtractor(WithAutoCreateDirectory(true))
	tests := []struct {
		archive string
		want    string
	}{
		{"archive.zip", "archive"},
		{"/tmp/backup.tar.zip", "backup.tar"},
		{"noext", "noext"},
		{"dir/.hidden", ""},
	}
	for _, tt := range tests {
		got := e.TargetDirectory("T", tt.archive)
		if want := filepath.Join("T", tt.want); got != want {
			t.Errorf("TargetDirectory(T, %q) = %q, want %q", tt.archive, got, want)
		}
	}
}

func TestExtract_MissingArchiveIsIOError(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "missing.zip"), "")
	if !errors.Is(err, ErrIO) {
		t.Fatalf("error = %v, want ErrIO", err)
	}
}

func TestExtract_CorruptArchiveIsFormatError(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "corrupt.zip")
	if err := os.WriteFile(archivePath, []byte("PK\x03\x04 definitely not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewExtractor().Extract(context.Background(), t.TempDir(), archivePath, "")
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("error = %v, want ErrFormat", err)
	}

	if _, err := NewExtractor().List(context.Background(), archivePath); !errors.Is(err, ErrFormat) {
		t.Errorf("List error = %v, want ErrFormat", err)
	}
}

func TestExtract_UnsupportedEncodingIsFormatError(t *testing.T) {
	archivePath := buildRoundTripArchive(t, NewCompressor())
	_, err := NewExtractor(WithExtractEncoding("klingon-8")).Extract(context.Background(), t.TempDir(), archivePath, "")
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("error = %v, want ErrFormat", err)
	}
}

func TestExtract_Canceled(t *testing.T) {
	archivePath := buildRoundTripArchive(t, NewCompressor())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor().Extract(ctx, t.TempDir(), archivePath, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestRoundTrip_ShiftJISNames(t *testing.T) {
	src := t.TempDir()
	makeTree(t, src, map[string]string{"書類/報告書.txt": "内容"})

	out := filepath.Join(t.TempDir(), "sjis.zip")
	c := NewCompressor(WithEncoding("Shift_JIS"))
	if _, err := c.Compress(context.Background(), out, filepath.Join(src, "書類")); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	dst := t.TempDir()
	if _, err := NewExtractor(WithExtractEncoding("Shift_JIS")).Extract(context.Background(), dst, out, ""); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dst, "書類", "報告書.txt"))
	if err != nil || string(data) != "内容" {
		t.Errorf("書類/報告書.txt = %q, %v", data, err)
	}
}
