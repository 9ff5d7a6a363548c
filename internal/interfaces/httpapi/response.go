package httpapi

import (
	"context"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

type responseEnvelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(_ context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, responseEnvelope{Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := usecase.KindOf(err)
	writeJSON(ctx, w, statusFor(kind), responseEnvelope{
		Error: &errorBody{Kind: string(kind), Message: err.Error()},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, responseEnvelope{
		Error: &errorBody{Kind: string(usecase.KindInternal), Message: "internal server error"},
	})
}

func statusFor(kind usecase.Kind) int {
	switch kind {
	case usecase.KindInvalidArgument:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindUnauthorized:
		return http.StatusUnauthorized
	case usecase.KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
