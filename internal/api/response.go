package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/orgball2608/omnipost/internal/repositories/draft"
	"github.com/orgball2608/omnipost/internal/repositories/template"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
)

const (
	codeBadRequest  = "bad_request"
	codeRateLimited = "rate_limited"
	codeInternal    = "internal"
)

type apiError struct {
	Status string    `json:"status"`
	Error  errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"status":  "success",
		"message": message,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status: "error",
		Error:  errorBody{Code: code, Message: message},
	})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	status, code, msg := mapDomainError(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		h.logger.Error("Request failed", "error", err)
	}
	writeError(w, status, code, msg)
}

func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, draft.ErrNotFound), errors.Is(err, template.ErrNotFound), apperrors.IsNotFound(err):
		return http.StatusNotFound, apperrors.CodeNotFound, err.Error()
	case errors.Is(err, template.ErrAlreadyExists), apperrors.IsConflict(err):
		return http.StatusConflict, apperrors.CodeConflict, err.Error()
	case apperrors.IsValidation(err):
		return http.StatusBadRequest, apperrors.CodeValidation, err.Error()
	case apperrors.IsNotConnected(err):
		return http.StatusFailedDependency, apperrors.CodeNotConnected, err.Error()
	case apperrors.IsGeneration(err):
		return http.StatusBadGateway, apperrors.CodeGeneration, err.Error()
	case apperrors.IsPublish(err):
		return http.StatusBadGateway, apperrors.CodePublish, err.Error()
	default:
		return http.StatusInternalServerError, codeInternal, "internal server error"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid json body: "+err.Error())
		return false
	}
	return true
}
