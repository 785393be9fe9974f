// Package catalog holds the ordered section/item tree of navigable documents.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docview/internal/fetch"
)

// Item is one navigable document.
type Item struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Section groups items under a heading. Item order is display order.
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Match is the result of a path lookup.
type Match struct {
	Section Section
	Item    Item
}

// Catalog is immutable once built.
type Catalog struct {
	sections []Section
}

func New(sections []Section) *Catalog {
	return &Catalog{sections: cloneSections(sections)}
}

// Sections returns a copy of the section tree.
func (c *Catalog) Sections() []Section {
	return cloneSections(c.sections)
}

// FindItemByPath returns the first item whose path equals path, with its
// owning section.
func (c *Catalog) FindItemByPath(path string) (Match, bool) {
	for _, section := range c.sections {
		for _, item := range section.Items {
			if item.Path == path {
				return Match{Section: section, Item: item}, true
			}
		}
	}
	return Match{}, false
}

// FirstItem returns the first item of the first section. It is the
// default route when no fragment is present.
func (c *Catalog) FirstItem() (Item, bool) {
	if len(c.sections) == 0 || len(c.sections[0].Items) == 0 {
		return Item{}, false
	}
	return c.sections[0].Items[0], true
}

// Len returns the total number of items.
func (c *Catalog) Len() int {
	n := 0
	for _, s := range c.sections {
		n += len(s.Items)
	}
	return n
}

// Manifest is the navigation.json wire format.
type Manifest struct {
	Sections []ManifestSection `json:"sections"`
}

type ManifestSection struct {
	Title string         `json:"title"`
	Items []ManifestItem `json:"items"`
}

type ManifestItem struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

// Load fetches the manifest at manifestPath and joins every file with
// docsRoot. Any failure falls back to Default; Load never fails.
func Load(ctx context.Context, src fetch.Source, manifestPath, docsRoot string, log *slog.Logger) *Catalog {
	log = log.With("manifest", manifestPath)

	raw, err := src.Fetch(ctx, manifestPath)
	if err != nil {
		log.Warn("navigation manifest unavailable, using default catalog", "error", err)
		return Default()
	}

	cat, err := Parse([]byte(raw), docsRoot)
	if err != nil {
		log.Warn("navigation manifest rejected, using default catalog", "error", err)
		return Default()
	}

	log.Info("loaded navigation manifest", "sections", len(cat.sections), "items", cat.Len())
	return cat
}

// Parse decodes a manifest and builds a catalog from it. Item paths must
// be unique across the whole catalog.
func Parse(data []byte, docsRoot string) (*Catalog, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Sections == nil {
		return nil, fmt.Errorf("manifest has no sections field")
	}

	root := strings.Trim(docsRoot, "/")
	seen := make(map[string]bool)
	sections := make([]Section, 0, len(m.Sections))
	for _, ms := range m.Sections {
		s := Section{Title: ms.Title, Items: make([]Item, 0, len(ms.Items))}
		for _, mi := range ms.Items {
			path := joinRoot(root, mi.File)
			if seen[path] {
				return nil, fmt.Errorf("duplicate item path %q", path)
			}
			seen[path] = true
			s.Items = append(s.Items, Item{Title: mi.Title, Path: path})
		}
		sections = append(sections, s)
	}
	return &Catalog{sections: sections}, nil
}

func joinRoot(root, file string) string {
	file = strings.TrimLeft(file, "/")
	if root == "" {
		return file
	}
	return root + "/" + file
}

func cloneSections(in []Section) []Section {
	out := make([]Section, len(in))
	for i, s := range in {
		out[i] = Section{Title: s.Title, Items: append([]Item(nil), s.Items...)}
	}
	return out
}
