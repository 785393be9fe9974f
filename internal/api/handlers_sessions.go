package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docview/internal/render"
	"github.com/dgallion1/docview/internal/router"
	"github.com/dgallion1/docview/internal/session"
)

const maxEventBytes = 64 << 10

type createSessionRequest struct {
	Fragment string `json:"fragment"`
}

type navigateRequest struct {
	Path string `json:"path"`
	Link string `json:"link"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess := s.sessions.Create(r.Context(), req.Fragment)
	w.Header().Set("Location", fmt.Sprintf("/api/sessions/%s", sess.ID))
	writeJSON(w, http.StatusCreated, sessionBody(sess, nil))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionBody(sess, nil))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "sessionID")) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var ev router.Event
	if err := decodeBody(w, r, &ev); err != nil {
		jsonError(w, "invalid event: "+err.Error(), http.StatusBadRequest)
		return
	}

	err := sess.Router.Dispatch(r.Context(), ev)
	var unknown *router.UnknownEventError
	var missing *router.MissingPathError
	if errors.As(err, &unknown) || errors.As(err, &missing) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.respondAfterLoad(w, sess, err)
}

func (s *Server) handleSessionNavigate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req navigateRequest
	if err := decodeBody(w, r, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}
	s.respondAfterLoad(w, sess, sess.Router.Navigate(r.Context(), req.Path, req.Link))
}

func (s *Server) handleSessionBack(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	moved, err := sess.Router.Back(r.Context())
	s.respondMoved(w, sess, moved, err)
}

func (s *Server) handleSessionForward(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	moved, err := sess.Router.Forward(r.Context())
	s.respondMoved(w, sess, moved, err)
}

func (s *Server) handleSessionRetry(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	retried, err := sess.Router.Retry(r.Context())
	if !retried {
		jsonError(w, "nothing to retry", http.StatusConflict)
		return
	}
	s.respondAfterLoad(w, sess, err)
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// respondAfterLoad reports the page state. Load failures are part of the
// page (the error panel), so they do not change the response status.
func (s *Server) respondAfterLoad(w http.ResponseWriter, sess *session.Session, err error) {
	var le *render.LoadError
	if err != nil && !errors.As(err, &le) {
		s.log.Error("session event failed", "session_id", sess.ID, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, sessionBody(sess, le))
}

func (s *Server) respondMoved(w http.ResponseWriter, sess *session.Session, moved bool, err error) {
	var le *render.LoadError
	errors.As(err, &le)
	body := sessionBody(sess, le)
	body["moved"] = moved
	writeJSON(w, http.StatusOK, body)
}

func sessionBody(sess *session.Session, le *render.LoadError) map[string]any {
	body := map[string]any{
		"session": sess.Info(),
		"page":    sess.Router.Snapshot(),
	}
	if le != nil {
		body["load_error"] = le
	}
	return body
}

// decodeBody decodes an optional JSON body. An empty body leaves v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
