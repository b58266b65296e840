package httputils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tush00nka/bbbab_chat/api/response"
	"tush00nka/bbbab_chat/internal/pkg/apperr"
)

func ResponseError(w http.ResponseWriter, errorCode int, errorMessage string) {
	ResponseJSON(w, errorCode, response.ErrorResponse{
		Message: errorMessage,
	})
}

// ResponseAppError maps a classified error to its status code. Internal
// errors are logged in full and answered with a generic message.
func ResponseAppError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}

	ResponseError(w, status, apperr.PublicMessage(err))
}

func ResponseJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
