package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"lumina/internal/entity"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Meta    any  `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    any               `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func buildMeta(r *http.Request, customMeta map[string]any) any {
	requestID := RequestIDFrom(r)
	if requestID == "" && len(customMeta) == 0 {
		return nil
	}
	meta := make(map[string]any, len(customMeta)+1)
	for k, v := range customMeta {
		meta[k] = v
	}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	return meta
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func JSONSuccess(w http.ResponseWriter, r *http.Request, data any, meta map[string]any) {
	writeJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    buildMeta(r, meta),
	})
}

func JSONCreated(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusCreated, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    buildMeta(r, nil),
	})
}

func JSONNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	writeJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r, nil),
	})
}

// DecodeJSON reads a single JSON object from the request body. Unknown
// fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &entity.ValidationError{Field: "body", Message: "request body is empty"}
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &entity.ValidationError{Field: "body", Message: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
		}
		return &entity.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// WriteError maps the shared error taxonomy to a response. Packages with
// their own sentinels handle those first and fall back to this.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *entity.ValidationError
	var re *entity.ReferentialError
	switch {
	case errors.As(err, &ve):
		JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", []ErrorDetail{{Field: ve.Field, Message: ve.Message}})
	case errors.Is(err, entity.ErrValidation):
		JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.As(err, &re):
		JSONError(w, r, http.StatusNotFound, "NOT_FOUND", re.Error(), nil)
	case errors.Is(err, entity.ErrNotFound):
		JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, entity.ErrConflict):
		JSONError(w, r, http.StatusConflict, "CONFLICT", err.Error(), nil)
	default:
		JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// WriteValidation writes a 400 listing every failed field.
func WriteValidation(w http.ResponseWriter, r *http.Request, details []ErrorDetail) {
	JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
}
