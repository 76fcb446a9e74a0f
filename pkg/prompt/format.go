package prompt

import (
	"fmt"
	"strings"
)

// TemplateError means a template could not be expanded. The placeholder set
// is fixed, so this points at a broken template rather than bad user input.
type TemplateError struct {
	Template string
	Field    string
	Reason   string
}

func (e *TemplateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("template placeholder {%s}: %s", e.Field, e.Reason)
	}
	return "template: " + e.Reason
}

// Format expands {name} placeholders from values. "{{" and "}}" produce
// literal braces. Conversion and format suffixes ("{tone!s}", "{tone:>8}")
// are accepted and ignored.
func Format(template string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch ch {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", &TemplateError{Template: template, Reason: "single '{' encountered"}
			}
			field := template[i+1 : i+1+end]
			if cut := strings.IndexAny(field, "!:"); cut >= 0 {
				field = field[:cut]
			}
			if field == "" {
				return "", &TemplateError{Template: template, Reason: "positional placeholder"}
			}
			v, ok := values[field]
			if !ok {
				return "", &TemplateError{Template: template, Field: field, Reason: "no value supplied"}
			}
			b.WriteString(v)
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", &TemplateError{Template: template, Reason: "single '}' encountered"}
		default:
			b.WriteByte(ch)
		}
	}
	return b.String(), nil
}
