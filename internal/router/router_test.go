package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/docview/internal/catalog"
	"github.com/dgallion1/docview/internal/doccache"
	"github.com/dgallion1/docview/internal/fetch"
	"github.com/dgallion1/docview/internal/render"
	"github.com/dgallion1/docview/internal/search"
	"github.com/dgallion1/docview/internal/view"
)

type blockingSource struct {
	mu      sync.Mutex
	docs    map[string]string
	blocked map[string]chan struct{}
	started chan string
	calls   map[string]int
}

func newSource(docs map[string]string) *blockingSource {
	return &blockingSource{
		docs:    docs,
		blocked: map[string]chan struct{}{},
		started: make(chan string, 8),
		calls:   map[string]int{},
	}
}

func (s *blockingSource) block(path string) chan struct{} {
	ch := make(chan struct{})
	s.mu.Lock()
	s.blocked[path] = ch
	s.mu.Unlock()
	return ch
}

func (s *blockingSource) Fetch(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	s.calls[path]++
	ch := s.blocked[path]
	body, ok := s.docs[path]
	s.mu.Unlock()

	select {
	case s.started <- path:
	default:
	}
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return "", &fetch.TransportError{Path: path, Err: ctx.Err()}
		}
	}
	if !ok {
		return "", &fetch.StatusError{Path: path, Status: http.StatusNotFound}
	}
	return body, nil
}

func (s *blockingSource) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *blockingSource) setDoc(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = body
}

var testCatalog = catalog.New([]catalog.Section{
	{Title: "Getting Started", Items: []catalog.Item{
		{Title: "Introduction", Path: "documents/introduction.md"},
		{Title: "Installation", Path: "documents/installation.md"},
	}},
	{Title: "Examples", Items: []catalog.Item{
		{Title: "Basic VR App", Path: "documents/examples/basic-vr.md"},
	}},
})

var testDocs = map[string]string{
	"documents/introduction.md":       "# Introduction\n\nWelcome.\n",
	"documents/installation.md":       "# Installation\n\n```sh\nmake\n```\n",
	"documents/examples/basic-vr.md":  "# Basic VR\n",
	"documents/unlisted/changelog.md": "# Changelog\n",
}

func newTestRouter(t *testing.T, src fetch.Source, fragment string, opts ...view.Option) (*Router, *render.Renderer) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rend := render.New(doccache.New(), src, render.NewMarkdownConverter(), render.NewSanitizer(), log)
	r := New(testCatalog, search.Build(testCatalog), rend, log, fragment, opts...)
	t.Cleanup(r.Close)
	return r, rend
}

func cloneDocs() map[string]string {
	out := make(map[string]string, len(testDocs))
	for k, v := range testDocs {
		out[k] = v
	}
	return out
}

func TestResolveInitialRoute_FirstItem(t *testing.T) {
	r, _ := newTestRouter(t, newSource(cloneDocs()), "")
	if err := r.ResolveInitialRoute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := r.Snapshot()
	if s.Path != "documents/introduction.md" || s.Fragment != "documents/introduction.md" {
		t.Errorf("expected first item loaded, got path %q fragment %q", s.Path, s.Fragment)
	}
	if s.ActiveLink == nil || s.ActiveLink.Title != "Introduction" {
		t.Errorf("expected Introduction active, got %+v", s.ActiveLink)
	}
}

func TestResolveInitialRoute_Fragment(t *testing.T) {
	r, _ := newTestRouter(t, newSource(cloneDocs()), "documents/installation.md")
	if err := r.ResolveInitialRoute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := r.Snapshot()
	if s.Path != "documents/installation.md" {
		t.Errorf("expected fragment route, got %q", s.Path)
	}
	if len(s.Breadcrumb) != 2 || s.Breadcrumb[0].Label != "Getting Started" || s.Breadcrumb[1].Label != "Installation" {
		t.Errorf("unexpected breadcrumb %+v", s.Breadcrumb)
	}
}

func TestResolveInitialRoute_EmptyCatalogNoop(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	empty := catalog.New(nil)
	src := newSource(cloneDocs())
	rend := render.New(doccache.New(), src, render.NewMarkdownConverter(), render.NewSanitizer(), log)
	r := New(empty, search.Build(empty), rend, log, "")

	if err := r.ResolveInitialRoute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := r.Snapshot(); s.State != view.StateIdle {
		t.Errorf("expected idle page, got %s", s.State)
	}
}

func TestNavigate_BreadcrumbFallback(t *testing.T) {
	r, _ := newTestRouter(t, newSource(cloneDocs()), "")
	if err := r.Navigate(context.Background(), "documents/unlisted/changelog.md", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := r.Snapshot()
	if len(s.Breadcrumb) != 1 || s.Breadcrumb[0].Label != "changelog" || !s.Breadcrumb[0].Current {
		t.Errorf("expected file-name crumb, got %+v", s.Breadcrumb)
	}
	if s.ActiveLink != nil {
		t.Errorf("expected no active link for unlisted path, got %+v", s.ActiveLink)
	}
}

func TestNavigate_ExplicitLink(t *testing.T) {
	r, _ := newTestRouter(t, newSource(cloneDocs()), "")
	err := r.OnNavigate(context.Background(), "documents/examples/basic-vr.md", "#documents/examples/basic-vr.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := r.Snapshot()
	if s.ActiveLink == nil || s.ActiveLink.Section != "Examples" {
		t.Errorf("expected Examples link active, got %+v", s.ActiveLink)
	}
}

func TestNavigate_NotFoundShowsErrorAndRetry(t *testing.T) {
	src := newSource(cloneDocs())
	r, rend := newTestRouter(t, src, "")
	ctx := context.Background()

	if err := r.Navigate(ctx, "documents/introduction.md", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.Navigate(ctx, "documents/missing.md", "")
	var le *render.LoadError
	if !errors.As(err, &le) || le.Status != http.StatusNotFound {
		t.Fatalf("expected 404 load error, got %v", err)
	}

	s := r.Snapshot()
	if s.State != view.StateError || !strings.Contains(s.Content, "documents/missing.md") || !strings.Contains(s.Content, "retry-btn") {
		t.Errorf("expected error panel, got %s %q", s.State, s.Content)
	}
	if s.Fragment != "documents/introduction.md" {
		t.Errorf("failed load must not change the fragment, got %q", s.Fragment)
	}
	if _, ok := rend.Cache().Peek("documents/missing.md"); ok {
		t.Error("failed load must not be cached")
	}

	src.setDoc("documents/missing.md", "# Found now\n")
	retried, err := r.Retry(ctx)
	if err != nil || !retried {
		t.Fatalf("expected retry to succeed, got %v %v", retried, err)
	}
	if s := r.Snapshot(); s.State != view.StateReady || s.Fragment != "documents/missing.md" {
		t.Errorf("expected retried document shown, got %s %q", s.State, s.Fragment)
	}
	if again, _ := r.Retry(ctx); again {
		t.Error("retry with nothing failed should report false")
	}
}

func TestBackForward_RoundTrip(t *testing.T) {
	src := newSource(cloneDocs())
	r, _ := newTestRouter(t, src, "")
	ctx := context.Background()

	for _, p := range []string{"documents/introduction.md", "documents/installation.md", "documents/examples/basic-vr.md"} {
		if err := r.Navigate(ctx, p, ""); err != nil {
			t.Fatalf("navigate %s: %v", p, err)
		}
	}

	if moved, err := r.Back(ctx); !moved || err != nil {
		t.Fatalf("expected back, got %v %v", moved, err)
	}
	if s := r.Snapshot(); s.Path != "documents/installation.md" || s.Fragment != "documents/installation.md" {
		t.Errorf("expected installation after back, got %q %q", s.Path, s.Fragment)
	}

	if moved, err := r.Forward(ctx); !moved || err != nil {
		t.Fatalf("expected forward, got %v %v", moved, err)
	}
	s := r.Snapshot()
	if s.Path != "documents/examples/basic-vr.md" {
		t.Errorf("expected basic-vr after forward, got %q", s.Path)
	}
	if len(s.History) != 4 || s.HistoryIndex != 3 {
		t.Errorf("expected history preserved, got %v at %d", s.History, s.HistoryIndex)
	}
	if !s.FromCache {
		t.Error("expected revisited document from cache")
	}
	if n := src.count("documents/examples/basic-vr.md"); n != 1 {
		t.Errorf("expected one fetch for revisited document, got %d", n)
	}
}

func TestBack_AtStart(t *testing.T) {
	r, _ := newTestRouter(t, newSource(cloneDocs()), "")
	moved, err := r.Back(context.Background())
	if moved || err != nil {
		t.Errorf("expected no movement, got %v %v", moved, err)
	}
}

func TestNavigate_StaleGenerationDiscarded(t *testing.T) {
	src := newSource(cloneDocs())
	release := src.block("documents/introduction.md")
	r, rend := newTestRouter(t, src, "")
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- r.Navigate(ctx, "documents/introduction.md", "") }()

	select {
	case p := <-src.started:
		if p != "documents/introduction.md" {
			t.Fatalf("unexpected fetch %q", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch never started")
	}

	if err := r.Navigate(ctx, "documents/installation.md", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale load should still succeed, got %v", err)
	}

	s := r.Snapshot()
	if s.Path != "documents/installation.md" || !strings.Contains(s.Content, "Installation") {
		t.Errorf("expected newer document shown, got %q", s.Path)
	}
	for _, h := range s.History {
		if h == "documents/introduction.md" {
			t.Errorf("stale load pushed history: %v", s.History)
		}
	}
	if s.Breadcrumb[len(s.Breadcrumb)-1].Label != "Installation" {
		t.Errorf("stale load changed breadcrumb: %+v", s.Breadcrumb)
	}
	if s.ActiveLink == nil || s.ActiveLink.Title != "Installation" {
		t.Errorf("stale load changed active link: %+v", s.ActiveLink)
	}
	if _, ok := rend.Cache().Peek("documents/introduction.md"); !ok {
		t.Error("stale load should still populate the cache")
	}
}

func TestSearch_Panel(t *testing.T) {
	r, _ := newTestRouter(t, newSource(cloneDocs()), "")

	panel := r.Search("  INSTALL ")
	if !panel.Visible || len(panel.Results) != 1 || panel.Results[0].Path != "documents/installation.md" {
		t.Errorf("unexpected panel %+v", panel)
	}
	if panel.Query != "INSTALL" {
		t.Errorf("expected trimmed query, got %q", panel.Query)
	}

	panel = r.Search("examples")
	if len(panel.Results) != 1 || panel.Results[0].Section != "Examples" {
		t.Errorf("expected section-title match, got %+v", panel.Results)
	}

	panel = r.Search("zzz")
	if !panel.Visible || panel.Message != view.NoResultsMessage {
		t.Errorf("expected empty-state panel, got %+v", panel)
	}

	if panel = r.Search("   "); panel.Visible {
		t.Errorf("expected blank query to hide panel, got %+v", panel)
	}
}

func TestSelectSearchResult(t *testing.T) {
	r, _ := newTestRouter(t, newSource(cloneDocs()), "")
	ctx := context.Background()
	r.Search("intro")

	if err := r.Dispatch(ctx, Event{Name: EventSearchResultSelected, Path: "documents/introduction.md"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := r.Snapshot()
	if s.Search.Visible || s.Search.Query != "" {
		t.Errorf("expected panel hidden and cleared, got %+v", s.Search)
	}
	if s.Path != "documents/introduction.md" {
		t.Errorf("expected navigation, got %q", s.Path)
	}
}

type countingClipboard struct {
	mu    sync.Mutex
	texts []string
}

func (c *countingClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, text)
	return nil
}

func TestDispatch_CopyThemeScroll(t *testing.T) {
	clip := &countingClipboard{}
	r, _ := newTestRouter(t, newSource(cloneDocs()), "documents/installation.md", view.WithClipboard(clip))
	ctx := context.Background()
	if err := r.ResolveInitialRoute(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Dispatch(ctx, Event{Name: EventCopyRequested, Index: 0}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if len(clip.texts) != 1 || clip.texts[0] != "make\n" {
		t.Errorf("unexpected clipboard writes %q", clip.texts)
	}
	if s := r.Snapshot(); s.CopyLabels[0] != render.CopiedLabel {
		t.Errorf("expected acknowledgment label, got %q", s.CopyLabels[0])
	}

	if err := r.Dispatch(ctx, Event{Name: EventThemeToggled}); err != nil {
		t.Fatalf("theme: %v", err)
	}
	if err := r.Dispatch(ctx, Event{Name: EventTOCEntryActivated, Target: "heading-0"}); err != nil {
		t.Fatalf("toc: %v", err)
	}
	s := r.Snapshot()
	if s.Theme != view.ThemeDark {
		t.Errorf("expected dark theme, got %s", s.Theme)
	}
	if s.ScrollTarget != "heading-0" || s.Fragment != "documents/installation.md" {
		t.Errorf("expected scroll without fragment change, got %q %q", s.ScrollTarget, s.Fragment)
	}
}

func TestDispatch_HistoryPopped(t *testing.T) {
	r, _ := newTestRouter(t, newSource(cloneDocs()), "")
	ctx := context.Background()
	r.Navigate(ctx, "documents/introduction.md", "")
	r.Navigate(ctx, "documents/installation.md", "")

	if err := r.Dispatch(ctx, Event{Name: EventHistoryPopped, Direction: DirectionBack}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := r.Snapshot(); s.Path != "documents/introduction.md" {
		t.Errorf("expected introduction after pop, got %q", s.Path)
	}
}

func TestDispatch_UnknownEvent(t *testing.T) {
	r, _ := newTestRouter(t, newSource(cloneDocs()), "")
	err := r.Dispatch(context.Background(), Event{Name: "bogus"})
	var ue *UnknownEventError
	if !errors.As(err, &ue) || ue.Name != "bogus" {
		t.Errorf("expected unknown event error, got %v", err)
	}
}

func TestDispatch_NavigationWithoutPathRejected(t *testing.T) {
	src := newSource(cloneDocs())
	r, _ := newTestRouter(t, src, "")
	ctx := context.Background()
	r.Navigate(ctx, "documents/introduction.md", "")

	for _, name := range []string{EventDocumentRequested, EventMenuItemActivated, EventSearchResultSelected, EventDropdownItemSelected} {
		err := r.Dispatch(ctx, Event{Name: name})
		var mp *MissingPathError
		if !errors.As(err, &mp) || mp.Name != name {
			t.Errorf("%s: expected missing path error, got %v", name, err)
		}
	}
	if s := r.Snapshot(); s.Path != "documents/introduction.md" {
		t.Errorf("expected page unchanged, got %q", s.Path)
	}
	if n := src.count(""); n != 0 {
		t.Errorf("expected no fetch for an empty path, got %d", n)
	}
}
