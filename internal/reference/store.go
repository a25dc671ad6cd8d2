// Package reference holds the labelled card images recognition compares against.
//
// A Store is ordered and immutable once built. Loaders produce stores from a
// directory of images or from a sqlite database; Build creates entries from
// photographs of single cards.
package reference

import (
	"context"
	"image"
	"path/filepath"
	"strings"
)

// Entry is one labelled reference image.
type Entry struct {
	Label string
	Image image.Image
}

// Store is an ordered, read-only collection of reference entries. Order is
// significant: matching ties resolve to the earlier entry.
type Store struct {
	entries []Entry
}

// NewStore returns a store holding a copy of entries in the given order.
func NewStore(entries []Entry) *Store {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Store{entries: cp}
}

// Entries returns a copy of the store's entries in order.
func (s *Store) Entries() []Entry {
	if s == nil {
		return nil
	}
	cp := make([]Entry, len(s.entries))
	copy(cp, s.entries)
	return cp
}

// Len returns the number of entries.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Labels returns the entry labels in store order.
func (s *Store) Labels() []string {
	labels := make([]string, 0, s.Len())
	for _, e := range s.Entries() {
		labels = append(labels, e.Label)
	}
	return labels
}

// Loader produces a Store.
type Loader interface {
	Load(ctx context.Context) (*Store, error)
}

// LabelFromPath derives an entry label from a file name: the base name without
// its extension.
func LabelFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
