package codec

import (
	"errors"
	"testing"
)

func TestLookupCharset(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantUTF8 bool
	}{
		{"UTF-8", "UTF-8", true},
		{"utf-8", "UTF-8", true},
		{"utf8", "UTF-8", true},
		{"Shift_JIS", "", false},
		{"SJIS", "", false},
		{"CP437", "IBM437", false},
		{"ISO-8859-1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cs, err := LookupCharset(tt.in)
			if err != nil {
				t.Fatalf("LookupCharset(%q): %v", tt.in, err)
			}
			if tt.wantName != "" && cs.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", cs.Name(), tt.wantName)
			}
			if cs.IsUTF8() != tt.wantUTF8 {
				t.Errorf("IsUTF8() = %v, want %v", cs.IsUTF8(), tt.wantUTF8)
			}
		})
	}
}

func TestLookupCharset_WindowsAliases(t *testing.T) {
	for _, name := range []string{"Windows-31J", "MS932", "cp932"} {
		cs, err := LookupCharset(name)
		if err != nil {
			t.Fatalf("LookupCharset(%q): %v", name, err)
		}
		if cs.IsUTF8() {
			t.Errorf("%s: IsUTF8() = true", name)
		}
	}
}

func TestLookupCharset_Unknown(t *testing.T) {
	for _, name := range []string{"", "   ", "no-such-charset"} {
		_, err := LookupCharset(name)
		if !errors.Is(err, ErrUnsupportedCharset) {
			t.Errorf("LookupCharset(%q) error = %v, want ErrUnsupportedCharset", name, err)
		}
		if !errors.Is(err, ErrFormat) {
			t.Errorf("LookupCharset(%q) error does not match ErrFormat", name)
		}
	}
}

func TestCharset_EncodeDecode(t *testing.T) {
	cs, err := LookupCharset("Shift_JIS")
	if err != nil {
		t.Fatalf("LookupCharset: %v", err)
	}

	name := "資料/日本語.txt"
	raw, err := cs.Encode(name)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if raw == name {
		t.Fatal("Encode returned the UTF-8 name unchanged")
	}

	got, err := cs.Decode(raw, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != name {
		t.Errorf("Decode = %q, want %q", got, name)
	}

	// A writer that flagged the name as UTF-8 wins over the configured charset.
	if got, _ := cs.Decode(name, utf8NameFlag); got != name {
		t.Errorf("Decode with UTF-8 flag = %q, want %q", got, name)
	}
}

func TestCharset_ASCIIPassthrough(t *testing.T) {
	cs, err := LookupCharset("IBM437")
	if err != nil {
		t.Fatalf("LookupCharset: %v", err)
	}
	raw, err := cs.Encode("dir/file.txt")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if raw != "dir/file.txt" {
		t.Errorf("Encode = %q", raw)
	}
}

func TestCharset_EncodeUnrepresentable(t *testing.T) {
	cs, err := LookupCharset("ISO-8859-1")
	if err != nil {
		t.Fatalf("LookupCharset: %v", err)
	}
	if _, err := cs.Encode("日本語.txt"); !errors.Is(err, ErrFormat) {
		t.Errorf("Encode error = %v, want ErrFormat", err)
	}
}
