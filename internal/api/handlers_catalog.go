package api

import (
	"net/http"
	"strings"

	"github.com/dgallion1/docview/internal/search"
	"github.com/dgallion1/docview/internal/view"
)

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": s.catalog.Sections(),
	})
}

// handleSearch mirrors the search panel: a blank query hides it.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"results": []search.Entry{},
			"visible": false,
		})
		return
	}

	results := s.index.Search(q)
	if results == nil {
		results = []search.Entry{}
	}
	resp := map[string]any{
		"query":   q,
		"results": results,
		"visible": true,
	}
	if len(results) == 0 {
		resp["message"] = view.NoResultsMessage
	}
	writeJSON(w, http.StatusOK, resp)
}
