// Package search provides a flat substring index over the navigation catalog.
package search

import (
	"strings"

	"github.com/dgallion1/docview/internal/catalog"
)

// Entry is one searchable catalog item.
type Entry struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Section string `json:"section"`

	lowerTitle   string
	lowerSection string
}

// Index is built once from a catalog and is read-only afterwards.
// Rebuild it when the catalog changes.
type Index struct {
	entries []Entry
}

// Build flattens cat into one entry per item in catalog order.
func Build(cat *catalog.Catalog) *Index {
	idx := &Index{}
	for _, section := range cat.Sections() {
		for _, item := range section.Items {
			idx.entries = append(idx.entries, Entry{
				Title:        item.Title,
				Path:         item.Path,
				Section:      section.Title,
				lowerTitle:   strings.ToLower(item.Title),
				lowerSection: strings.ToLower(section.Title),
			})
		}
	}
	return idx
}

// Search returns every entry whose title or section title contains query,
// case-insensitively, in catalog order. An empty query matches everything;
// callers suppress it.
func (idx *Index) Search(query string) []Entry {
	q := strings.ToLower(query)
	var out []Entry
	for _, e := range idx.entries {
		if strings.Contains(e.lowerTitle, q) || strings.Contains(e.lowerSection, q) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}
