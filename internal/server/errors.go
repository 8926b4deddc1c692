package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-changenotice/internal/editor"
	"github.com/goliatone/go-changenotice/internal/observability"
	"github.com/goliatone/go-changenotice/pkg/draft"
	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/schedule"
)

// apiError is the JSON error envelope.
type apiError struct {
	Code    string
	Message string
	Status  int
	Issues  map[string][]string
}

func newError(code, message string, status int) apiError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return apiError{Code: code, Message: sanitize(message, 512), Status: status}
}

// classify maps controller and storage errors onto HTTP statuses.
func classify(err error) apiError {
	switch {
	case errors.Is(err, editor.ErrUnknownAction):
		return newError("unknown_action", err.Error(), http.StatusNotFound)
	case errors.Is(err, draft.ErrNoDraft):
		return newError("no_draft", "no saved draft", http.StatusNotFound)
	case errors.Is(err, draft.ErrQuotaExceeded):
		return newError("quota_exceeded", err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, draft.ErrMalformedDraft):
		return newError("malformed_draft", err.Error(), http.StatusInternalServerError)
	case errors.Is(err, notice.ErrRowIndex),
		errors.Is(err, notice.ErrUnknownField),
		errors.Is(err, notice.ErrInvalidValue),
		errors.Is(err, schedule.ErrInvalidSelection),
		errors.Is(err, schedule.ErrOutOfRange),
		errors.Is(err, schedule.ErrInvalidCanonical):
		return newError("invalid_payload", err.Error(), http.StatusBadRequest)
	}
	var storageErr *draft.StorageError
	if errors.As(err, &storageErr) {
		return newError("storage_error", err.Error(), http.StatusInternalServerError)
	}
	return newError("internal_error", "internal server error", http.StatusInternalServerError)
}

func writeError(ctx context.Context, w http.ResponseWriter, apiErr apiError) {
	payload := map[string]any{
		"error":   apiErr.Code,
		"message": apiErr.Message,
		"status":  apiErr.Status,
	}
	if id := middleware.GetReqID(ctx); id != "" {
		payload["request_id"] = sanitize(id, 80)
	}
	if len(apiErr.Issues) > 0 {
		payload["issues"] = apiErr.Issues
	}
	if apiErr.Status >= http.StatusInternalServerError {
		observability.FromContext(ctx).Error("request failed", zap.String("code", apiErr.Code), zap.String("message", apiErr.Message))
	}
	writeJSON(w, apiErr.Status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func sanitize(value string, limit int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
