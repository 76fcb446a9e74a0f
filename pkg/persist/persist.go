// Package persist writes the three artifacts of a creation: the raw text,
// a paginated PDF and one line in the cumulative creation log.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"storycraft/pkg/schema"
	"storycraft/pkg/utils"
)

// Artifact names used in errors and metrics.
const (
	ArtifactText     = "text"
	ArtifactDocument = "document"
	ArtifactLog      = "log"
)

// Error is the failure of a single artifact write.
type Error struct {
	Artifact string
	Path     string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("write %s artifact %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result reports each write separately. A failed artifact has its path
// cleared and its error set; the others are unaffected.
type Result struct {
	ID           string `json:"id"`
	TextPath     string `json:"text_path,omitempty"`
	DocumentPath string `json:"document_path,omitempty"`

	TextErr     error `json:"-"`
	DocumentErr error `json:"-"`
	LogErr      error `json:"-"`
}

// Errors returns the failed writes in text, document, log order.
func (r Result) Errors() []error {
	var out []error
	for _, err := range []error{r.TextErr, r.DocumentErr, r.LogErr} {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

// Err joins every failed write, or returns nil.
func (r Result) Err() error {
	return errors.Join(r.Errors()...)
}

type Persister struct {
	TextDir     string
	DocumentDir string
	Archive     *Archive
	Document    DocumentWriter
}

func New(textDir, documentDir string, archive *Archive) *Persister {
	return &Persister{
		TextDir:     textDir,
		DocumentDir: documentDir,
		Archive:     archive,
		Document:    PDFWriter{},
	}
}

// Identifier is the name shared by the text and document artifacts:
// "{category}_{style}_{timestamp}". Path separators in the style are replaced.
func Identifier(a schema.GeneratedArtifact) string {
	return fmt.Sprintf("%s_%s_%s", a.Category, utils.SanitizeFilename(a.StyleKey), a.Stamp())
}

func (p *Persister) TextPath(id string) string {
	return filepath.Join(p.TextDir, id+".txt")
}

func (p *Persister) DocumentPath(id string) string {
	return filepath.Join(p.DocumentDir, id+".pdf")
}

// Persist performs the three writes independently. It never stops early:
// a failed write is recorded in the Result and the next one still runs.
func (p *Persister) Persist(a schema.GeneratedArtifact) Result {
	id := Identifier(a)
	res := Result{
		ID:           id,
		TextPath:     p.TextPath(id),
		DocumentPath: p.DocumentPath(id),
	}

	if err := writeText(res.TextPath, a.Text); err != nil {
		res.TextErr = &Error{Artifact: ArtifactText, Path: res.TextPath, Err: err}
		res.TextPath = ""
	}

	if err := p.writeDocument(res.DocumentPath, NewDocument(id, a)); err != nil {
		res.DocumentErr = &Error{Artifact: ArtifactDocument, Path: res.DocumentPath, Err: err}
		res.DocumentPath = ""
	}

	if p.Archive == nil {
		res.LogErr = &Error{Artifact: ArtifactLog, Err: errors.New("no creation log configured")}
	} else if err := p.Archive.Append(schema.LogLine{
		Timestamp: a.Stamp(),
		Category:  a.Category,
		StyleKey:  a.StyleKey,
		Tone:      a.Tone,
	}); err != nil {
		res.LogErr = &Error{Artifact: ArtifactLog, Path: p.Archive.Path(), Err: err}
	}

	for _, err := range res.Errors() {
		log.Error("artifact write failed", "id", id, "error", err)
	}
	return res
}

func writeText(path, text string) error {
	if err := utils.EnsureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

func (p *Persister) writeDocument(path string, doc Document) error {
	if p.Document == nil {
		return errors.New("no document writer configured")
	}
	if err := utils.EnsureDir(path); err != nil {
		return err
	}
	return p.Document.WriteDocument(path, doc)
}
