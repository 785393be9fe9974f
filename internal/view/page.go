// Package view is the headless page model: content area, table of
// contents, breadcrumbs, navigation links, history and the controls a
// viewer interacts with. A Page is not safe for concurrent use; its owner
// serializes access.
package view

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docview/internal/render"
)

// State of the content area.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Theme is the page color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// NoResultsMessage is shown in the search panel when nothing matches.
const NoResultsMessage = "No results found"

// Crumb is one breadcrumb segment. The last segment is the current page.
type Crumb struct {
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// NavLink is a navigation menu entry. Href is "#" followed by the path.
type NavLink struct {
	Href    string `json:"href"`
	Title   string `json:"title"`
	Section string `json:"section"`
}

// SearchResult is one entry in the search panel.
type SearchResult struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Section string `json:"section"`
}

// SearchPanel is the search dropdown state.
type SearchPanel struct {
	Visible bool           `json:"visible"`
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Message string         `json:"message,omitempty"`
}

// Option configures a Page.
type Option func(*Page)

// WithClipboard sets the clipboard copy controls write to.
func WithClipboard(c Clipboard) Option {
	return func(p *Page) { p.clip = c }
}

// WithAckDuration sets how long copy controls show "Copied!".
func WithAckDuration(d time.Duration) Option {
	return func(p *Page) { p.ackFor = d }
}

// WithTheme sets the initial theme.
func WithTheme(t Theme) Option {
	return func(p *Page) { p.theme = t }
}

// Page is the state of one viewer's page.
type Page struct {
	path    string
	state   State
	content string
	doc     *render.Document
	loadErr *render.LoadError
	toc     string

	history *History
	crumbs  []Crumb
	links   []NavLink
	active  int

	search SearchPanel
	copies []*CopyControl
	clip   Clipboard
	ackFor time.Duration

	theme        Theme
	scrollTarget string

	log *slog.Logger
}

// NewPage builds a page with the given menu links. fragment is the URL
// fragment the viewer arrived with; it seeds the history stack.
func NewPage(links []NavLink, fragment string, log *slog.Logger, opts ...Option) *Page {
	p := &Page{
		state:   StateIdle,
		history: NewHistory(fragment),
		links:   append([]NavLink(nil), links...),
		active:  -1,
		ackFor:  AckDuration,
		theme:   ThemeLight,
		log:     log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ShowLoading replaces the content area with the loading indicator.
func (p *Page) ShowLoading(path string) {
	p.path = path
	p.state = StateLoading
	p.content = render.LoadingHTML
	p.doc = nil
	p.loadErr = nil
	p.scrollTarget = ""
	p.resetCopies(nil)
}

// ShowDocument inserts a rendered document and its table of contents.
func (p *Page) ShowDocument(doc *render.Document) {
	p.path = doc.Path
	p.state = StateReady
	p.content = doc.HTML
	p.doc = doc
	p.loadErr = nil
	p.toc = doc.TOC
	p.resetCopies(doc.CodeBlocks)
}

// ShowError replaces the content area with the error panel. The table of
// contents is left as it was.
func (p *Page) ShowError(err *render.LoadError) {
	p.path = err.Path
	p.state = StateError
	p.content = render.ErrorPanelHTML(err)
	p.doc = nil
	p.loadErr = err
	p.resetCopies(nil)
}

// PushHistory records path as a new history entry and sets the fragment.
func (p *Page) PushHistory(path string) {
	p.history.Push(path)
}

func (p *Page) resetCopies(blocks []render.CodeBlock) {
	for _, c := range p.copies {
		c.stop()
	}
	p.copies = p.copies[:0]
	for _, b := range blocks {
		p.copies = append(p.copies, newCopyControl(b, p.clip, p.ackFor, p.log))
	}
}

// Path is the route currently shown (or being loaded).
func (p *Page) Path() string { return p.path }

// State is the content area state.
func (p *Page) State() State { return p.state }

// Content is the HTML currently in the content area.
func (p *Page) Content() string { return p.content }

// TOC is the HTML of the table-of-contents panel.
func (p *Page) TOC() string { return p.toc }

// Document is the shown document, or nil when none is shown.
func (p *Page) Document() *render.Document { return p.doc }

// LoadError is the failure shown in the error panel, or nil.
func (p *Page) LoadError() *render.LoadError { return p.loadErr }

// Fragment is the URL fragment, which is always the current history entry.
func (p *Page) Fragment() string { return p.history.Current() }

// History exposes the page's history stack.
func (p *Page) History() *History { return p.history }

// SetBreadcrumb replaces the breadcrumb trail.
func (p *Page) SetBreadcrumb(labels ...string) {
	p.crumbs = p.crumbs[:0]
	for i, l := range labels {
		p.crumbs = append(p.crumbs, Crumb{Label: l, Current: i == len(labels)-1})
	}
}

// Breadcrumb returns a copy of the breadcrumb trail.
func (p *Page) Breadcrumb() []Crumb {
	return append([]Crumb(nil), p.crumbs...)
}

// SetActiveLink marks the link with the given href active and clears all
// others. An href that matches no link leaves none active.
func (p *Page) SetActiveLink(href string) {
	p.active = -1
	for i, l := range p.links {
		if l.Href == href {
			p.active = i
			return
		}
	}
}

// ActiveLink returns the active navigation link, if any.
func (p *Page) ActiveLink() (NavLink, bool) {
	if p.active < 0 {
		return NavLink{}, false
	}
	return p.links[p.active], true
}

// Links returns a copy of the navigation links.
func (p *Page) Links() []NavLink {
	return append([]NavLink(nil), p.links...)
}

// ShowSearch opens the search panel with results for query.
func (p *Page) ShowSearch(query string, results []SearchResult) {
	p.search = SearchPanel{Visible: true, Query: query, Results: results}
	if len(results) == 0 {
		p.search.Message = NoResultsMessage
	}
}

// HideSearch closes the search panel. clearQuery also empties the input.
func (p *Page) HideSearch(clearQuery bool) {
	q := p.search.Query
	if clearQuery {
		q = ""
	}
	p.search = SearchPanel{Query: q}
}

// Search returns the search panel state.
func (p *Page) Search() SearchPanel { return p.search }

// CopyControls returns the copy controls of the shown document.
func (p *Page) CopyControls() []*CopyControl {
	return append([]*CopyControl(nil), p.copies...)
}

// Copy clicks the copy control of block index. It reports whether the
// clipboard accepted the text.
func (p *Page) Copy(index int) (bool, error) {
	if index < 0 || index >= len(p.copies) {
		return false, fmt.Errorf("no code block %d", index)
	}
	return p.copies[index].Click(), nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (p *Page) ToggleTheme() Theme {
	if p.theme == ThemeDark {
		p.theme = ThemeLight
	} else {
		p.theme = ThemeDark
	}
	return p.theme
}

// Theme is the current color scheme.
func (p *Page) Theme() Theme { return p.theme }

// ScrollTo scrolls to the heading with the given id. The fragment does
// not change. It reports false when the document has no such heading.
func (p *Page) ScrollTo(id string) bool {
	if p.doc == nil {
		return false
	}
	for _, h := range p.doc.Headings {
		if h.ID == id {
			p.scrollTarget = id
			return true
		}
	}
	return false
}

// ScrollTarget is the heading last scrolled to.
func (p *Page) ScrollTarget() string { return p.scrollTarget }

// Close stops pending copy acknowledgments.
func (p *Page) Close() {
	p.resetCopies(nil)
}

// Snapshot is a serializable copy of the page state.
type Snapshot struct {
	Path         string            `json:"path"`
	State        State             `json:"state"`
	Content      string            `json:"content"`
	TOC          string            `json:"toc"`
	Fragment     string            `json:"fragment"`
	History      []string          `json:"history"`
	HistoryIndex int               `json:"history_index"`
	Breadcrumb   []Crumb           `json:"breadcrumb"`
	ActiveLink   *NavLink          `json:"active_link,omitempty"`
	Search       SearchPanel       `json:"search"`
	CopyLabels   []string          `json:"copy_labels"`
	Theme        Theme             `json:"theme"`
	ScrollTarget string            `json:"scroll_target,omitempty"`
	Error        *render.LoadError `json:"error,omitempty"`
	FromCache    bool              `json:"from_cache"`
}

// Snapshot captures the page state.
func (p *Page) Snapshot() Snapshot {
	entries, cursor := p.history.Entries()
	s := Snapshot{
		Path:         p.path,
		State:        p.state,
		Content:      p.content,
		TOC:          p.toc,
		Fragment:     p.Fragment(),
		History:      entries,
		HistoryIndex: cursor,
		Breadcrumb:   p.Breadcrumb(),
		Search:       p.search,
		CopyLabels:   make([]string, 0, len(p.copies)),
		Theme:        p.theme,
		ScrollTarget: p.scrollTarget,
		Error:        p.loadErr,
	}
	if l, ok := p.ActiveLink(); ok {
		s.ActiveLink = &l
	}
	for _, c := range p.copies {
		s.CopyLabels = append(s.CopyLabels, c.Label())
	}
	if p.doc != nil {
		s.FromCache = p.doc.FromCache
	}
	return s
}
