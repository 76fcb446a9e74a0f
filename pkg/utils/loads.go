package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates the parent directory of path when path has one.
func EnsureDir(path string) error {
	if strings.Contains(filepath.Clean(path), string(os.PathSeparator)) {
		return os.MkdirAll(filepath.Dir(path), 0o755)
	}
	return nil
}

func Load[T any](path string) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&zero); err != nil {
		return zero, err
	}
	return zero, nil
}

func Save[T any](path string, v T) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
