package schema

import (
	"fmt"
	"strings"
	"time"
)

// Category is the top-level creation kind.
type Category string

const (
	Story Category = "Story"
	Poem  Category = "Poem"
)

// Categories lists every category in form order.
var Categories = []Category{Story, Poem}

// ParseCategory accepts the category name in any case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Narrator is the narrative perspective requested for a creation.
type Narrator string

const (
	FirstPerson  Narrator = "First Person"
	SecondPerson Narrator = "Second Person"
	ThirdPerson  Narrator = "Third Person"
)

var Narrators = []Narrator{FirstPerson, SecondPerson, ThirdPerson}

// ParseNarrator accepts "First Person", "first" or "1st" style values.
// An empty string selects ThirdPerson.
func ParseNarrator(s string) (Narrator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return ThirdPerson, nil
	case "first person", "first", "1st":
		return FirstPerson, nil
	case "second person", "second", "2nd":
		return SecondPerson, nil
	case "third person", "third", "3rd":
		return ThirdPerson, nil
	}
	return "", fmt.Errorf("unknown narrator %q", s)
}

// Selector values offered by the creation form.
var (
	PoemStyles = []string{"default", "romantic", "epic", "haiku", "sonnet"}
	Tones      = []string{"Whimsical", "Dark", "Romantic", "Suspenseful", "Humorous", "Epic"}
)

// CreationRequest is one form submission. It is built once and passed by value.
type CreationRequest struct {
	Category           Category `json:"category" jsonschema:"enum=Story,enum=Poem" jsonschema_description:"Creation kind"`
	StyleKey           string   `json:"style" jsonschema_description:"Story genre or poetry style"`
	Tone               string   `json:"tone" jsonschema_description:"Tone of the piece, e.g. Whimsical or Dark"`
	Protagonist        string   `json:"protagonist" jsonschema_description:"Main character"`
	Setting            string   `json:"setting" jsonschema_description:"Where the piece takes place"`
	Narrator           Narrator `json:"narrator" jsonschema:"enum=First Person,enum=Second Person,enum=Third Person"`
	SpecialRequirement string   `json:"special_requirement,omitempty" jsonschema_description:"Optional free-text requirements"`
}

// GeneratedArtifact is the backend output plus the fields needed to persist it.
type GeneratedArtifact struct {
	Text        string
	Category    Category
	StyleKey    string
	Tone        string
	Protagonist string
	Setting     string
	Timestamp   time.Time
}

// TimestampLayout is shared by artifact identifiers and log lines.
const TimestampLayout = "20060102_150405"

// Stamp formats the artifact timestamp.
func (a GeneratedArtifact) Stamp() string {
	return a.Timestamp.Format(TimestampLayout)
}

// LogLine is one record of the creation log.
type LogLine struct {
	Timestamp string   `json:"timestamp"`
	Category  Category `json:"category"`
	StyleKey  string   `json:"style"`
	Tone      string   `json:"tone"`
}

const logSeparator = " | "

// String renders the line including its trailing newline.
func (l LogLine) String() string {
	return l.Timestamp + logSeparator + string(l.Category) + logSeparator + l.StyleKey + logSeparator + l.Tone + "\n"
}

// ParseLogLine reverses LogLine.String.
func ParseLogLine(s string) (LogLine, error) {
	s = strings.TrimRight(s, "\r\n")
	parts := strings.SplitN(s, logSeparator, 4)
	if len(parts) != 4 {
		return LogLine{}, fmt.Errorf("malformed log line %q", s)
	}
	return LogLine{
		Timestamp: parts[0],
		Category:  Category(parts[1]),
		StyleKey:  parts[2],
		Tone:      parts[3],
	}, nil
}
