package view

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/docview/internal/render"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

func (m *memClipboard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

func (m *memClipboard) contents() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

var testLinks = []NavLink{
	{Href: "#documents/introduction.md", Title: "Introduction", Section: "Getting Started"},
	{Href: "#documents/install.md", Title: "Install", Section: "Getting Started"},
}

func testDoc(path string) *render.Document {
	return &render.Document{
		Path:       path,
		HTML:       `<div id="content"><h1 id="heading-0">T</h1></div>`,
		TOC:        render.TOCHTML([]render.Heading{{Level: 1, Text: "T", ID: "heading-0"}}),
		Headings:   []render.Heading{{Level: 1, Text: "T", ID: "heading-0"}},
		CodeBlocks: []render.CodeBlock{{Index: 0, Language: "go", Text: "x := 1\n"}},
	}
}

func TestHistory_PushBackForward(t *testing.T) {
	h := NewHistory("")
	h.Push("a")
	h.Push("b")
	if h.Current() != "b" {
		t.Fatalf("expected b, got %q", h.Current())
	}
	if !h.Back() || h.Current() != "a" {
		t.Fatalf("expected back to a, got %q", h.Current())
	}
	// Re-pushing the current entry keeps the forward stack.
	h.Push("a")
	if !h.Forward() || h.Current() != "b" {
		t.Fatalf("expected forward to b, got %q", h.Current())
	}
	if h.Forward() {
		t.Error("forward at end should report false")
	}

	h.Back()
	h.Push("c")
	entries, cursor := h.Entries()
	if strings.Join(entries, ",") != ",a,c" || cursor != 2 {
		t.Errorf("expected forward entries truncated, got %v at %d", entries, cursor)
	}
}

func TestHistory_BackAtStart(t *testing.T) {
	h := NewHistory("x")
	if h.Back() {
		t.Error("back at start should report false")
	}
	if h.Current() != "x" {
		t.Errorf("expected x, got %q", h.Current())
	}
}

func TestPage_LoadingThenDocument(t *testing.T) {
	p := NewPage(testLinks, "", testLogger())
	p.ShowLoading("documents/a.md")
	if p.State() != StateLoading || p.Content() != render.LoadingHTML {
		t.Fatalf("expected loading state, got %s %q", p.State(), p.Content())
	}

	p.ShowDocument(testDoc("documents/a.md"))
	p.PushHistory("documents/a.md")
	if p.State() != StateReady {
		t.Errorf("expected ready, got %s", p.State())
	}
	if p.Fragment() != "documents/a.md" {
		t.Errorf("expected fragment set by history push, got %q", p.Fragment())
	}
	if len(p.CopyControls()) != 1 {
		t.Errorf("expected 1 copy control, got %d", len(p.CopyControls()))
	}
}

func TestPage_ErrorKeepsTOC(t *testing.T) {
	p := NewPage(testLinks, "", testLogger())
	p.ShowDocument(testDoc("documents/a.md"))
	toc := p.TOC()

	p.ShowError(&render.LoadError{Path: "documents/b.md", Status: 404, Message: "Failed to load documents/b.md: 404"})
	if p.State() != StateError {
		t.Fatalf("expected error state, got %s", p.State())
	}
	if p.TOC() != toc {
		t.Error("error panel must not replace the table of contents")
	}
	if !strings.Contains(p.Content(), "documents/b.md") || !strings.Contains(p.Content(), "retry-btn") {
		t.Errorf("unexpected error panel %q", p.Content())
	}
	if len(p.CopyControls()) != 0 {
		t.Error("error panel has no copy controls")
	}
}

func TestPage_ActiveLinkExclusive(t *testing.T) {
	p := NewPage(testLinks, "", testLogger())
	p.SetActiveLink("#documents/install.md")
	l, ok := p.ActiveLink()
	if !ok || l.Title != "Install" {
		t.Fatalf("expected Install active, got %+v %v", l, ok)
	}
	p.SetActiveLink("#documents/unknown.md")
	if _, ok := p.ActiveLink(); ok {
		t.Error("unmatched href should leave no link active")
	}
}

func TestPage_Breadcrumb(t *testing.T) {
	p := NewPage(nil, "", testLogger())
	p.SetBreadcrumb("Getting Started", "Install")
	crumbs := p.Breadcrumb()
	if len(crumbs) != 2 || crumbs[0].Current || !crumbs[1].Current {
		t.Errorf("unexpected crumbs %+v", crumbs)
	}
}

func TestPage_SearchPanel(t *testing.T) {
	p := NewPage(nil, "", testLogger())
	p.ShowSearch("zzz", nil)
	s := p.Search()
	if !s.Visible || s.Message != NoResultsMessage {
		t.Errorf("expected visible empty-state panel, got %+v", s)
	}
	p.HideSearch(true)
	if p.Search().Visible || p.Search().Query != "" {
		t.Errorf("expected hidden cleared panel, got %+v", p.Search())
	}
}

func TestPage_ScrollToKeepsFragment(t *testing.T) {
	p := NewPage(nil, "", testLogger())
	p.ShowDocument(testDoc("documents/a.md"))
	p.PushHistory("documents/a.md")

	if !p.ScrollTo("heading-0") {
		t.Fatal("expected heading found")
	}
	if p.ScrollTarget() != "heading-0" {
		t.Errorf("expected scroll target, got %q", p.ScrollTarget())
	}
	if p.Fragment() != "documents/a.md" {
		t.Errorf("scroll must not change the fragment, got %q", p.Fragment())
	}
	if p.ScrollTo("heading-9") {
		t.Error("expected missing heading to report false")
	}
}

func TestPage_ToggleTheme(t *testing.T) {
	p := NewPage(nil, "", testLogger())
	if p.ToggleTheme() != ThemeDark || p.ToggleTheme() != ThemeLight {
		t.Error("expected light -> dark -> light")
	}
}

func TestCopy_AcknowledgesThenReverts(t *testing.T) {
	clip := &memClipboard{}
	p := NewPage(nil, "", testLogger(), WithClipboard(clip), WithAckDuration(20*time.Millisecond))
	defer p.Close()
	p.ShowDocument(testDoc("documents/a.md"))

	ok, err := p.Copy(0)
	if err != nil || !ok {
		t.Fatalf("expected copy accepted, got %v %v", ok, err)
	}
	if clip.contents() != "x := 1\n" {
		t.Errorf("unexpected clipboard %q", clip.contents())
	}
	c := p.CopyControls()[0]
	if c.Label() != render.CopiedLabel {
		t.Errorf("expected %q, got %q", render.CopiedLabel, c.Label())
	}

	deadline := time.Now().Add(time.Second)
	for c.Label() != render.CopyLabel && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Label() != render.CopyLabel {
		t.Errorf("expected label to revert, got %q", c.Label())
	}
}

func TestCopy_FailureSwallowed(t *testing.T) {
	clip := &memClipboard{err: errors.New("denied")}
	p := NewPage(nil, "", testLogger(), WithClipboard(clip))
	defer p.Close()
	p.ShowDocument(testDoc("documents/a.md"))

	ok, err := p.Copy(0)
	if err != nil {
		t.Fatalf("clipboard failure must not surface, got %v", err)
	}
	if ok {
		t.Error("expected copy to report not accepted")
	}
	if got := p.CopyControls()[0].Label(); got != render.CopyLabel {
		t.Errorf("expected label unchanged, got %q", got)
	}
}

func TestCopy_IndexOutOfRange(t *testing.T) {
	p := NewPage(nil, "", testLogger())
	if _, err := p.Copy(3); err == nil {
		t.Error("expected error for missing block")
	}
}

func TestSnapshot(t *testing.T) {
	p := NewPage(testLinks, "", testLogger())
	p.ShowDocument(testDoc("documents/introduction.md"))
	p.PushHistory("documents/introduction.md")
	p.SetActiveLink("#documents/introduction.md")
	p.SetBreadcrumb("Getting Started", "Introduction")

	s := p.Snapshot()
	if s.Fragment != "documents/introduction.md" || s.HistoryIndex != 1 {
		t.Errorf("unexpected history in snapshot %+v", s)
	}
	if s.ActiveLink == nil || s.ActiveLink.Title != "Introduction" {
		t.Errorf("unexpected active link %+v", s.ActiveLink)
	}
	if len(s.CopyLabels) != 1 || s.CopyLabels[0] != render.CopyLabel {
		t.Errorf("unexpected copy labels %v", s.CopyLabels)
	}
}
