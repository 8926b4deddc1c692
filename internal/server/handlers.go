package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-changenotice/internal/editor"
	"github.com/goliatone/go-changenotice/pkg/apidoc"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) state(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	doc := s.editor.Document()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "action")

	var payload editor.Payload
	body := http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	if err := json.NewDecoder(body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, newError("invalid_json", fmt.Sprintf("decode payload: %v", err), http.StatusBadRequest))
		return
	}

	outcome, err := s.run(ctx, name, payload)
	if err != nil {
		writeError(ctx, w, classify(err))
		return
	}
	status := http.StatusOK
	if outcome.Refused || outcome.Rejected() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, outcome)
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	outcome, err := s.run(ctx, editor.ActionPreview, editor.Payload{})
	if err != nil {
		writeError(ctx, w, classify(err))
		return
	}
	if outcome.Rejected() {
		writeJSON(w, http.StatusUnprocessableEntity, outcome.Validation)
		return
	}
	w.Header().Set("Content-Type", outcome.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(outcome.Body)
}

func (s *Server) export(action, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		outcome, err := s.run(ctx, action, editor.Payload{})
		if err != nil {
			writeError(ctx, w, classify(err))
			return
		}
		w.Header().Set("Content-Type", outcome.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(outcome.Body)
	}
}

func (s *Server) openapi(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(apidoc.Raw())
}
