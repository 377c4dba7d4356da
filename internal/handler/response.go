package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/logger"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// Error writes an error JSON response, using AppError status codes when available.
// Wrapped causes are logged, never returned.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	if appErr, ok := domain.AsAppError(err); ok {
		if appErr.Code >= http.StatusInternalServerError {
			log.Error("request failed", "kind", appErr.Kind, "error", err)
		}
		JSON(w, appErr.Code, map[string]string{"error": appErr.Message, "kind": string(appErr.Kind)})
		return
	}
	log.Error("unhandled error", "error", err)
	JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error", "kind": string(domain.KindInternal)})
}

// DecodeJSON decodes a JSON request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrBadRequest("invalid JSON body")
	}
	return nil
}
