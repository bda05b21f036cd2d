// Package importance holds the static per-variant feature-importance table
// used to explain predictions.
package importance

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sort"

	"bodyfat/pkg/errors"
)

const (
	// KeyWithDensity labels the importance ranking of the density model
	KeyWithDensity = "Accuracy-focused (with Density)"
	// KeyWithoutDensity labels the importance ranking of the density-free model
	KeyWithoutDensity = "Explainability-focused (no Density)"
)

// Item is one feature and its importance weight
type Item struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Table maps a variant label to its ordered importance items.
// It is read-only after load and safe for concurrent use.
type Table struct {
	keys    []string
	entries map[string][]Item
}

// NewTable builds a table from in-memory entries. Keys are reported sorted.
func NewTable(entries map[string][]Item) *Table {
	t := &Table{entries: make(map[string][]Item, len(entries))}
	for k, items := range entries {
		t.keys = append(t.keys, k)
		t.entries[k] = append([]Item(nil), items...)
	}
	sort.Strings(t.keys)
	return t
}

// Load reads the importance table from a JSON file
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read feature importance %s", path)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes {"<label>": {"<feature>": <weight>, ...}, ...} keeping the
// file order of features within each label.
func Parse(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	t := &Table{entries: map[string][]Item{}}

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		items, err := readItems(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "importance entry %q", key)
		}
		if _, dup := t.entries[key]; !dup {
			t.keys = append(t.keys, key)
		}
		t.entries[key] = items
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return t, nil
}

func readItems(dec *json.Decoder) ([]Item, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var items []Item
	for dec.More() {
		feature, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var weight float64
		if err := dec.Decode(&weight); err != nil {
			return nil, errors.Wrapf(err, "weight of %q", feature)
		}
		items = append(items, Item{Feature: feature, Weight: weight})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return items, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", errors.Wrap(err, "decode feature importance")
	}
	key, ok := tok.(string)
	if !ok {
		return "", errors.Newf("decode feature importance: expected key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "decode feature importance")
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.Newf("decode feature importance: expected %q, got %v", want, tok)
	}
	return nil
}

// Keys returns the labels present in the table
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Has reports whether the label exists
func (t *Table) Has(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// Lookup returns a copy of the items for key in their stored order
func (t *Table) Lookup(key string) ([]Item, bool) {
	items, ok := t.entries[key]
	if !ok {
		return nil, false
	}
	return append([]Item(nil), items...), true
}

// Ascending returns the items for key sorted by weight, ties keeping stored order.
// A missing key is a configuration error.
func (t *Table) Ascending(key string) ([]Item, error) {
	items, ok := t.Lookup(key)
	if !ok {
		return nil, errors.Wrapf(errors.ErrConfiguration, "feature importance key %q not found", key)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Weight < items[j].Weight
	})
	return items, nil
}
