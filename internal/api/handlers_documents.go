package api

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docview/internal/fetch"
	"github.com/dgallion1/docview/internal/render"
)

// handleDocument renders one document without touching any session.
// ?format=html returns the content fragment instead of JSON.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	docPath, ok := cleanDocPath(chi.URLParam(r, "*"))
	if !ok {
		jsonError(w, "invalid document path", http.StatusBadRequest)
		return
	}

	raw, err := s.renderer.Obtain(r.Context(), docPath)
	if err != nil {
		s.writeLoadError(w, docPath, err)
		return
	}
	doc, err := s.renderer.Render(docPath, raw)
	if err != nil {
		s.writeLoadError(w, docPath, err)
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64String(doc.HTML))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(doc.HTML))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) writeLoadError(w http.ResponseWriter, docPath string, err error) {
	var le *render.LoadError
	if !errors.As(err, &le) {
		le = &render.LoadError{Path: docPath, Message: err.Error()}
	}
	var te *fetch.TransportError
	code := http.StatusInternalServerError
	switch {
	case le.Status == http.StatusNotFound || le.Status == http.StatusBadRequest:
		code = le.Status
	case le.Status != 0 || errors.As(err, &te):
		code = http.StatusBadGateway
	}
	s.log.Warn("document request failed", "path", docPath, "status", le.Status, "error", le.Message)
	writeJSON(w, code, map[string]any{
		"error":  le.Message,
		"path":   le.Path,
		"status": le.Status,
		"panel":  render.ErrorPanelHTML(le),
	})
}

// cleanDocPath rejects absolute and escaping paths.
func cleanDocPath(p string) (string, bool) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", false
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}
