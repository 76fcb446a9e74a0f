// Package catalog holds the prompt templates keyed by story genre, plus the
// Poetry entry keyed by poem style.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"storycraft/pkg/schema"
)

// PoetryKey names the entry consulted for the Poem category.
const PoetryKey = "Poetry"

// Built-in Poetry templates, used when the resource does not define Poetry.
var defaultPoetry = mustToned(map[string]string{
	DefaultKey: "Compose a {tone} poem about {protagonist} in {setting}. Use {narrator} perspective. {special_requirement}",
	"romantic": "Write a romantic poem about {protagonist}'s longing in {setting}. Use vivid imagery and emotional language.",
	"epic":     "Create an epic poem chronicling {protagonist}'s journey through {setting}. Use grand, heroic language.",
})

// Catalog is an ordered, read-only set of entries. It is populated once by
// Load and never mutated afterwards.
type Catalog struct {
	entries map[string]Entry
	order   []string
}

func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

func (c *Catalog) set(key string, e Entry) {
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = e
}

func (c *Catalog) Get(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Keys returns the entry names in resource order.
func (c *Catalog) Keys() []string {
	return slices.Clone(c.order)
}

func (c *Catalog) Len() int { return len(c.order) }

// StoryGenres lists every key except Poetry, in resource order.
func (c *Catalog) StoryGenres() []string {
	out := make([]string, 0, len(c.order))
	for _, k := range c.order {
		if k != PoetryKey {
			out = append(out, k)
		}
	}
	return out
}

// PoemStyles lists the poem styles offered to users. Styles without a
// Poetry template resolve to the Poetry default.
func (c *Catalog) PoemStyles() []string {
	return slices.Clone(schema.PoemStyles)
}

// Poetry returns the Poetry entry. Load guarantees it exists.
func (c *Catalog) Poetry() Entry {
	if e, ok := c.entries[PoetryKey]; ok {
		return e
	}
	return defaultPoetry
}

func (c *Catalog) ensurePoetry() {
	if _, ok := c.entries[PoetryKey]; !ok {
		c.set(PoetryKey, defaultPoetry)
	}
}

// MarshalJSON keeps resource order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LoadError reports a missing or malformed template resource. It is a
// warning: Load still returns a usable catalog alongside it.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load template catalog %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the template resource at path. A missing or malformed resource
// yields an empty catalog and a *LoadError. Either way the returned catalog
// contains Poetry.
func Load(path string) (*Catalog, error) {
	c, err := load(path)
	if err != nil {
		c = New()
		err = &LoadError{Path: path, Err: err}
	}
	c.ensurePoetry()
	return c, err
}

func load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("template resource must be a JSON object")
	}

	c := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		c.set(key, e)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeYAML(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("template resource must be a YAML mapping")
	}

	root := doc.Content[0]
	c := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			if val.Tag == "!!null" {
				return nil, fmt.Errorf("entry %q must not be null", key)
			}
			c.set(key, Flat(val.Value))
		case yaml.MappingNode:
			var m map[string]string
			if err := val.Decode(&m); err != nil {
				return nil, fmt.Errorf("entry %q: %w", key, err)
			}
			e, err := Toned(m)
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", key, err)
			}
			c.set(key, e)
		default:
			return nil, fmt.Errorf("entry %q must be a string or a mapping of strings", key)
		}
	}
	return c, nil
}
