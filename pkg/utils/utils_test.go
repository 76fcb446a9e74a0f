package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Sci-Fi":          "Sci-Fi",
		"Sci-Fi/Fantasy":  "Sci-Fi_Fantasy",
		`a\b:c`:           "a_b_c",
		"../../etc":       "____etc",
		"  Slice of Life": "Slice of Life",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLimitStr(t *testing.T) {
	if got := LimitStr("abcdef", 3); got != "abc..." {
		t.Fatalf("LimitStr = %q", got)
	}
	if got := LimitStr("✒️✒️", 10); got != "✒️✒️" {
		t.Fatalf("LimitStr = %q", got)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")
	in := map[string]string{"Poetry": "x"}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists(path) {
		t.Fatal("expected file to exist after Save")
	}
	out, err := Load[map[string]string](path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out["Poetry"] != "x" {
		t.Fatalf("Load = %v", out)
	}
	if _, err := Load[map[string]string](filepath.Join(t.TempDir(), "missing.json")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
