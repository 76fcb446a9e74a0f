package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"slices"
)

// DefaultKey is the mandatory fallback key of a toned entry.
const DefaultKey = "default"

var errNoDefault = errors.New(`toned entry has no "default" template`)

// Entry is either a single template string or a set of templates keyed by
// tone (or, for Poetry, by style) with a mandatory "default".
type Entry struct {
	flat  string
	toned map[string]string
}

// Flat returns an entry that uses one template regardless of key.
func Flat(template string) Entry {
	return Entry{flat: template}
}

// Toned returns a keyed entry. The map is copied.
func Toned(templates map[string]string) (Entry, error) {
	if _, ok := templates[DefaultKey]; !ok {
		return Entry{}, errNoDefault
	}
	return Entry{toned: maps.Clone(templates)}, nil
}

func mustToned(templates map[string]string) Entry {
	e, err := Toned(templates)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Entry) IsToned() bool { return e.toned != nil }

// Lookup returns the template stored under key without falling back.
// A flat entry has no keys.
func (e Entry) Lookup(key string) (string, bool) {
	if e.toned == nil {
		return "", false
	}
	t, ok := e.toned[key]
	return t, ok
}

// Select returns the template for key, falling back to "default".
// A flat entry always returns its single template.
func (e Entry) Select(key string) string {
	if e.toned == nil {
		return e.flat
	}
	if t, ok := e.toned[key]; ok {
		return t
	}
	return e.toned[DefaultKey]
}

// Keys lists the keys of a toned entry in sorted order.
func (e Entry) Keys() []string {
	return slices.Sorted(maps.Keys(e.toned))
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.toned != nil {
		return json.Marshal(e.toned)
	}
	return json.Marshal(e.flat)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return errors.New("entry must not be null")
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Flat(s)
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.New("entry must be a string or an object of strings")
	}
	toned, err := Toned(m)
	if err != nil {
		return err
	}
	*e = toned
	return nil
}
