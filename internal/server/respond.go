package server

import (
	"encoding/json"
	"net/http"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

// errorResponse is the JSON error envelope returned by every endpoint.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{
		Error: errorBody{
			Code:    string(code),
			Message: errors.UserMessage(err),
		},
	})
}

// statusFor maps structured error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidPortfolio,
		errors.ErrCodeInvalidPosition,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidGrouping,
		errors.ErrCodeInvalidBounds,
		errors.ErrCodeInvalidPayload:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeChartNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
