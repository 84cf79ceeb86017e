// Package httputil holds the JSON envelope helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "intake/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// ToHTTPStatus maps a domain error code to an HTTP status.
// Payload errors stay on 500 so the public form keeps a single failure path.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case dErrors.CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a JSON error envelope. Descriptions are only
// returned for client errors; server errors expose the code alone.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := ToHTTPStatus(code)
	resp := ErrorResponse{Error: string(code)}
	if status < http.StatusInternalServerError {
		resp.Description = dErrors.MessageOf(err)
	}
	WriteJSON(w, status, resp)
}

// WriteGenericError writes a server failure with a fixed, caller-safe
// description. The error code is normalized to internal_error so no detail
// about the failing stage leaks.
func WriteGenericError(w http.ResponseWriter, description string) {
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:       string(dErrors.CodeInternal),
		Description: description,
	})
}

// DecodeJSON decodes a size-limited JSON body into T. Any read or syntax
// failure is returned as a payload error.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (*T, error) {
	if r.Body == nil {
		return nil, dErrors.New(dErrors.CodePayload, "request body is required")
	}
	body := io.Reader(r.Body)
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	var v T
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, dErrors.Wrap(err, dErrors.CodePayload, "request body too large")
		}
		return nil, dErrors.Wrap(err, dErrors.CodePayload, "invalid request body")
	}
	return &v, nil
}
