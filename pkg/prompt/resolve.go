// Package prompt validates creation requests and turns them into the final
// prompt string using the template catalog.
package prompt

import (
	"strings"

	"storycraft/pkg/catalog"
	"storycraft/pkg/schema"
)

// FallbackStoryTemplate is used for story genres the catalog does not know.
const FallbackStoryTemplate = "Write a {tone} story about {protagonist} in {setting}"

// Resolver picks and expands templates. It holds no state besides the
// read-only catalog, so Resolve is safe for concurrent use.
type Resolver struct {
	catalog *catalog.Catalog
}

func NewResolver(c *catalog.Catalog) *Resolver {
	if c == nil {
		c = catalog.New()
	}
	return &Resolver{catalog: c}
}

// Template returns the unexpanded template for the request.
func (r *Resolver) Template(req schema.CreationRequest) string {
	var entry catalog.Entry
	if req.Category == schema.Poem {
		poetry := r.catalog.Poetry()
		if t, ok := poetry.Lookup(req.StyleKey); ok {
			entry = catalog.Flat(t)
		} else {
			entry = catalog.Flat(poetry.Select(catalog.DefaultKey))
		}
	} else if e, ok := r.catalog.Get(req.StyleKey); ok {
		entry = e
	} else {
		entry = catalog.Flat(FallbackStoryTemplate)
	}

	return entry.Select(strings.ToLower(req.Tone))
}

// Resolve returns the expanded prompt. A *TemplateError here is an internal
// fault in the catalog, not a user error.
func (r *Resolver) Resolve(req schema.CreationRequest) (string, error) {
	return Format(r.Template(req), Values(req))
}

// Values maps every placeholder name to its value for req.
func Values(req schema.CreationRequest) map[string]string {
	return map[string]string{
		"protagonist":         req.Protagonist,
		"setting":             req.Setting,
		"tone":                req.Tone,
		"narrator":            string(req.Narrator),
		"special_requirement": req.SpecialRequirement,
	}
}
