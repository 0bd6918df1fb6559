package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/garage-inventory/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorClass maps a sentinel to its HTTP status and code.
type errorClass struct {
	target error
	status int
	code   string
}

// errorClasses is checked in order; the first match wins.
var errorClasses = []errorClass{
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{domain.ErrSlotIndexInvalid, http.StatusUnprocessableEntity, "slot_index_invalid"},
	{domain.ErrIndexOutOfRange, http.StatusUnprocessableEntity, "slot_index_invalid"},
	{domain.ErrSourceEmpty, http.StatusUnprocessableEntity, "source_empty"},
	{domain.ErrTargetEmpty, http.StatusUnprocessableEntity, "target_empty"},
	{domain.ErrBothEmpty, http.StatusUnprocessableEntity, "both_empty"},
	{domain.ErrSelfSwap, http.StatusUnprocessableEntity, "self_swap"},
	{domain.ErrSlotOccupied, http.StatusConflict, "slot_occupied"},
	{domain.ErrWorkflowBusy, http.StatusConflict, "workflow_busy"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
}

// classify returns the status and code for err. Persistence failures win
// over any sentinel they wrap.
func classify(err error) (int, string) {
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		return http.StatusServiceUnavailable, "persistence_error"
	}
	for _, c := range errorClasses {
		if errors.Is(err, c.target) {
			return c.status, c.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError translates a service error into an ErrorResponse.
// Unclassified errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := unwrapMessage(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
		msg = "internal server error"
	} else if status == http.StatusServiceUnavailable {
		slog.WarnContext(r.Context(), "storage unavailable", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: msg}})
}

// requestError reports input rejected before reaching the service layer
// (e.g. missing or malformed body, unparseable path parameter).
func requestError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{
			Code: "request_too_large", Message: err.Error(),
		}})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
		Code: "validation_error", Message: err.Error(),
	}})
}

// unwrapMessage drops the "pkg.Type.Op: " prefixes that layers add while
// wrapping, leaving the human-readable part.
// A leading "validation error: " is dropped too.
// e.g. "service.GarageService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || !isOpPrefix(head) {
			return strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
		}
		msg = rest
	}
}

// isOpPrefix reports whether s looks like "pkg.Type.Op".
func isOpPrefix(s string) bool {
	return strings.Count(s, ".") == 2 && !strings.ContainsAny(s, " \t")
}
