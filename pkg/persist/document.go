package persist

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"storycraft/pkg/schema"
)

// DocumentCaption heads every generated document.
const DocumentCaption = "Your Literary Masterpiece"

// Document is the layout-independent content of a paginated artifact.
type Document struct {
	Title    string
	Caption  string
	Metadata []string
	Body     string
}

// NewDocument builds the title block and body for an artifact.
func NewDocument(id string, a schema.GeneratedArtifact) Document {
	return Document{
		Title:   id,
		Caption: DocumentCaption,
		Metadata: []string{
			"Protagonist: " + a.Protagonist,
			"Setting: " + a.Setting,
			fmt.Sprintf("Type: %s | Genre: %s | Tone: %s", a.Category, a.StyleKey, a.Tone),
		},
		Body: a.Text,
	}
}

// DocumentWriter renders a Document to path.
type DocumentWriter interface {
	WriteDocument(path string, doc Document) error
}

// PDFWriter lays documents out on A4 pages with the core Times font. Text is
// translated to cp1252; runes outside it cannot be rendered by core fonts.
type PDFWriter struct{}

func (PDFWriter) WriteDocument(path string, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("storycraft", true)
	pdf.AddPage()

	pdf.SetFont("Times", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Caption), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Times", "I", 12)
	for _, line := range doc.Metadata {
		pdf.CellFormat(0, 10, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(15)

	// MultiCell wraps at the right margin and breaks pages automatically.
	pdf.SetFont("Times", "", 12)
	pdf.MultiCell(0, 10, tr(doc.Body), "", "L", false)

	return pdf.OutputFileAndClose(path)
}
