package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "a", "b")
	if err := EnsureDir(target); err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("stat error: %v", err)
	}
	if err := EnsureDir(""); err == nil {
		t.Fatalf("expected empty dir error")
	}
}

func TestKey(t *testing.T) {
	cases := map[string]string{
		"uploads/2024/stock.csv": "output/stock.txt",
		"stock.CSV":              "output/stock.txt",
		"input/Stock Mai.xlsx":   "output/Stock Mai.txt",
		"input/export":           "output/export.txt",
		"a/b.c/d.tar.csv":        "output/d.tar.txt",
		"input/.hidden":          "output/.hidden.txt",
	}
	for in, want := range cases {
		got, err := Key(in)
		if err != nil {
			t.Fatalf("Key(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyRejectsFolderKeys(t *testing.T) {
	for _, in := range []string{"input/", "", "a/b/ "} {
		if _, err := Key(in); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("Key(%q) err = %v, want ErrEmptyName", in, err)
		}
	}
}

func TestDecodeEventKey(t *testing.T) {
	got, err := DecodeEventKey("input/Stock+Mai+%C3%A9t%C3%A9.csv")
	if err != nil {
		t.Fatalf("DecodeEventKey error: %v", err)
	}
	if got != "input/Stock Mai été.csv" {
		t.Fatalf("unexpected key: %q", got)
	}
	if _, err := DecodeEventKey("bad%zz"); err == nil {
		t.Fatalf("expected decode error")
	}
}
