// Package render resolves document paths to sanitized, enhanced HTML.
package render

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/dgallion1/docview/internal/doccache"
	"github.com/dgallion1/docview/internal/fetch"
)

// Document is a rendered, enhanced document.
type Document struct {
	Path       string      `json:"path"`
	HTML       string      `json:"html"`
	TOC        string      `json:"toc"`
	Headings   []Heading   `json:"headings"`
	CodeBlocks []CodeBlock `json:"code_blocks"`
	FromCache  bool        `json:"from_cache"`
}

// LoadError is a document load failure. It never escapes Load as a panic
// or a fatal condition; the surface shows it with a retry control.
type LoadError struct {
	Path    string `json:"path"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`

	cause error
}

func (e *LoadError) Error() string {
	return e.Message
}

// Unwrap returns the fetch or render error behind the load failure.
func (e *LoadError) Unwrap() error {
	return e.cause
}

// Surface receives the visible effects of a load. Implementations decide
// whether an effect still applies (for example, after a newer navigation).
type Surface interface {
	ShowLoading(path string)
	ShowDocument(doc *Document)
	ShowError(err *LoadError)
	PushHistory(path string)
}

// Renderer fetches-or-reuses raw text, converts, sanitizes and enhances it.
type Renderer struct {
	cache     *doccache.Cache
	src       fetch.Source
	converter Converter
	sanitizer Sanitizer
	log       *slog.Logger

	inflight singleflight.Group
}

func New(cache *doccache.Cache, src fetch.Source, conv Converter, san Sanitizer, log *slog.Logger) *Renderer {
	return &Renderer{
		cache:     cache,
		src:       src,
		converter: conv,
		sanitizer: san,
		log:       log,
	}
}

// Cache returns the document cache backing the renderer.
func (r *Renderer) Cache() *doccache.Cache {
	return r.cache
}

// Load resolves path and drives s through loading, then either the
// rendered document followed by a history push, or the error panel.
func (r *Renderer) Load(ctx context.Context, path string, s Surface) (*Document, error) {
	s.ShowLoading(path)

	raw, cached, err := r.obtain(ctx, path)
	if err != nil {
		le := asLoadError(path, err)
		r.log.Warn("document load failed", "path", path, "status", le.Status, "error", le.Message)
		s.ShowError(le)
		return nil, le
	}

	doc, err := r.Render(path, raw)
	if err != nil {
		le := asLoadError(path, err)
		r.log.Error("document render failed", "path", path, "error", err)
		s.ShowError(le)
		return nil, le
	}
	doc.FromCache = cached

	s.ShowDocument(doc)
	s.PushHistory(path)
	return doc, nil
}

// Obtain returns the raw text for path from the cache or the source.
func (r *Renderer) Obtain(ctx context.Context, path string) (string, error) {
	raw, _, err := r.obtain(ctx, path)
	if err != nil {
		return "", asLoadError(path, err)
	}
	return raw, nil
}

func (r *Renderer) obtain(ctx context.Context, path string) (string, bool, error) {
	if raw, ok := r.cache.Get(path); ok {
		return raw, true, nil
	}

	// Concurrent misses for one path share a single fetch. It is detached
	// from any one caller's cancellation; each caller stops waiting on its
	// own context.
	shared := context.WithoutCancel(ctx)
	ch := r.inflight.DoChan(path, func() (any, error) {
		if raw, ok := r.cache.Peek(path); ok {
			return raw, nil
		}
		raw, err := r.src.Fetch(shared, path)
		if err != nil {
			return nil, err
		}
		r.cache.Put(path, raw)
		r.log.Debug("document cached", "path", path, "bytes", len(raw))
		return raw, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", false, res.Err
		}
		return res.Val.(string), false, nil
	case <-ctx.Done():
		return "", false, &fetch.TransportError{Path: path, Err: ctx.Err()}
	}
}

// Render converts raw Markdown to sanitized HTML and runs enhancement.
// Only the sanitizer's output is ever handed to enhancement.
func (r *Renderer) Render(path, raw string) (*Document, error) {
	unsafe, err := r.converter.Convert(raw)
	if err != nil {
		return nil, err
	}
	safe := r.sanitizer.Sanitize(unsafe)

	out, headings, blocks, err := enhance(safe)
	if err != nil {
		return nil, err
	}
	return &Document{
		Path:       path,
		HTML:       out,
		TOC:        TOCHTML(headings),
		Headings:   headings,
		CodeBlocks: blocks,
	}, nil
}

func asLoadError(path string, err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{Path: path, Status: fetch.StatusOf(err), Message: err.Error(), cause: err}
}
