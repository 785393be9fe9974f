// Package router turns navigation requests into loads and keeps the
// page's breadcrumb, active link and history consistent with the route.
package router

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dgallion1/docview/internal/catalog"
	"github.com/dgallion1/docview/internal/render"
	"github.com/dgallion1/docview/internal/search"
	"github.com/dgallion1/docview/internal/view"
)

// Router owns one page. Methods are safe for concurrent use; loads run
// without holding the lock and only the newest navigation may change the
// page.
type Router struct {
	cat      *catalog.Catalog
	idx      *search.Index
	renderer *render.Renderer
	log      *slog.Logger

	mu         sync.Mutex
	page       *view.Page
	gen        uint64
	lastFailed string
}

// New builds a router and its page. fragment is the URL fragment the
// viewer arrived with.
func New(cat *catalog.Catalog, idx *search.Index, renderer *render.Renderer, log *slog.Logger, fragment string, opts ...view.Option) *Router {
	return &Router{
		cat:      cat,
		idx:      idx,
		renderer: renderer,
		log:      log,
		page:     view.NewPage(NavLinks(cat), fragment, log, opts...),
	}
}

// NavLinks flattens the catalog into menu links.
func NavLinks(cat *catalog.Catalog) []view.NavLink {
	var links []view.NavLink
	for _, s := range cat.Sections() {
		for _, item := range s.Items {
			links = append(links, view.NavLink{Href: "#" + item.Path, Title: item.Title, Section: s.Title})
		}
	}
	return links
}

// Navigate loads path and, if no newer navigation started meanwhile,
// updates the breadcrumb and the active link. link is the href of the
// menu link that triggered the navigation, or empty. A load failure is
// shown on the page and returned for logging; it is not fatal.
func (r *Router) Navigate(ctx context.Context, path, link string) error {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	r.log.Debug("navigate", "path", path, "generation", gen)
	_, err := r.renderer.Load(ctx, path, &navSurface{r: r, gen: gen})

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		r.log.Debug("stale navigation discarded", "path", path, "generation", gen, "current", r.gen)
		return err
	}
	if err != nil {
		r.lastFailed = path
	} else {
		r.lastFailed = ""
	}
	r.page.SetBreadcrumb(r.breadcrumb(path)...)
	if link == "" {
		link = "#" + path
	}
	r.page.SetActiveLink(link)
	return err
}

func (r *Router) breadcrumb(path string) []string {
	if m, ok := r.cat.FindItemByPath(path); ok {
		return []string{m.Section.Title, m.Item.Title}
	}
	name := path
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return []string{strings.TrimSuffix(name, ".md")}
}

// ResolveInitialRoute navigates to the fragment, or to the first catalog
// item when the fragment is empty. With neither it does nothing.
func (r *Router) ResolveInitialRoute(ctx context.Context) error {
	r.mu.Lock()
	fragment := r.page.Fragment()
	r.mu.Unlock()

	if fragment != "" {
		return r.Navigate(ctx, fragment, "")
	}
	if item, ok := r.cat.FirstItem(); ok {
		return r.Navigate(ctx, item.Path, "")
	}
	return nil
}

// Back pops one history entry and loads the resulting fragment. It
// reports false at the start of history.
func (r *Router) Back(ctx context.Context) (bool, error) {
	r.mu.Lock()
	moved := r.page.History().Back()
	r.mu.Unlock()
	if !moved {
		return false, nil
	}
	return true, r.ResolveInitialRoute(ctx)
}

// Forward moves one history entry forward and loads it.
func (r *Router) Forward(ctx context.Context) (bool, error) {
	r.mu.Lock()
	moved := r.page.History().Forward()
	r.mu.Unlock()
	if !moved {
		return false, nil
	}
	return true, r.ResolveInitialRoute(ctx)
}

// Retry re-navigates to the path whose load last failed. It reports
// false when the current page is not an error.
func (r *Router) Retry(ctx context.Context) (bool, error) {
	r.mu.Lock()
	path := r.lastFailed
	r.mu.Unlock()
	if path == "" {
		return false, nil
	}
	return true, r.Navigate(ctx, path, "")
}

// Search updates the search panel for query. A blank query hides it.
func (r *Router) Search(query string) view.SearchPanel {
	q := strings.TrimSpace(query)

	r.mu.Lock()
	defer r.mu.Unlock()
	if q == "" {
		r.page.HideSearch(false)
		return r.page.Search()
	}
	entries := r.idx.Search(q)
	results := make([]view.SearchResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, view.SearchResult{Title: e.Title, Path: e.Path, Section: e.Section})
	}
	r.page.ShowSearch(q, results)
	return r.page.Search()
}

// DismissSearch hides the search panel, keeping the query.
func (r *Router) DismissSearch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.page.HideSearch(false)
}

// SelectSearchResult hides the panel, clears the query and navigates.
func (r *Router) SelectSearchResult(ctx context.Context, path string) error {
	r.mu.Lock()
	r.page.HideSearch(true)
	r.mu.Unlock()
	return r.Navigate(ctx, path, "")
}

// ScrollTo scrolls to a heading of the shown document without changing
// the fragment.
func (r *Router) ScrollTo(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page.ScrollTo(id)
}

// Copy clicks the copy control of code block index.
func (r *Router) Copy(index int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page.Copy(index)
}

// ToggleTheme switches the page theme.
func (r *Router) ToggleTheme() view.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page.ToggleTheme()
}

// Snapshot returns the current page state.
func (r *Router) Snapshot() view.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page.Snapshot()
}

// Close releases page timers.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.page.Close()
}

// navSurface applies a load's effects only while its generation is the
// newest one.
type navSurface struct {
	r   *Router
	gen uint64
}

func (s *navSurface) apply(fn func(p *view.Page)) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	if s.gen != s.r.gen {
		return
	}
	fn(s.r.page)
}

func (s *navSurface) ShowLoading(path string) {
	s.apply(func(p *view.Page) { p.ShowLoading(path) })
}

func (s *navSurface) ShowDocument(doc *render.Document) {
	s.apply(func(p *view.Page) { p.ShowDocument(doc) })
}

func (s *navSurface) ShowError(err *render.LoadError) {
	s.apply(func(p *view.Page) { p.ShowError(err) })
}

func (s *navSurface) PushHistory(path string) {
	s.apply(func(p *view.Page) { p.PushHistory(path) })
}
