package persist

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"storycraft/pkg/schema"
	"storycraft/pkg/utils"
)

// Archive is the append-only creation log. Each line is written with a
// single O_APPEND write, so lines never interleave; the mutex keeps lines
// from this process in call order.
type Archive struct {
	path string
	mu   sync.Mutex
}

func NewArchive(path string) *Archive {
	return &Archive{path: path}
}

func (a *Archive) Path() string { return a.path }

// Append writes exactly one line, creating the file and its directory on demand.
func (a *Archive) Append(line schema.LogLine) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := utils.EnsureDir(a.path); err != nil {
		return err
	}
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line.String()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read returns the raw log. A log that was never written yields an error
// matching os.ErrNotExist.
func (a *Archive) Read() ([]byte, error) {
	return os.ReadFile(a.path)
}

// Entries parses the log. Lines that do not parse are skipped.
func (a *Archive) Entries() ([]schema.LogLine, error) {
	data, err := a.Read()
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []schema.LogLine
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		line, err := schema.ParseLogLine(sc.Text())
		if err != nil {
			log.Warn("skipping creation log line", "error", err)
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
