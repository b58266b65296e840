package httputils

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"tush00nka/bbbab_chat/internal/pkg/apperr"
)

func TestResponseAppError(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", apperr.Validation("bad input"), http.StatusBadRequest, `{"message":"bad input"}`},
		{"forbidden", apperr.Forbidden("not yours"), http.StatusForbidden, `{"message":"not yours"}`},
		{"internal hides cause", apperr.Internal(errors.New("pq: password leaked"), "failed"),
			http.StatusInternalServerError, `{"message":"internal server error"}`},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, `{"message":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			ResponseAppError(rr, log, tt.err)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			require.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}
