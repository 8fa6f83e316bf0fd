package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/jeopardy/internal/errors"
)

// Error codes for standardized API error responses
const (
	ErrCodeBadRequest             = "BAD_REQUEST"
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeConflict               = "CONFLICT"
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeInternalServer         = "INTERNAL_SERVER_ERROR"
	ErrCodeMalformedValue         = "MALFORMED_VALUE"
	ErrCodeInsufficientCategories = "INSUFFICIENT_CATEGORIES"
	ErrCodeInvalidBoard           = "INVALID_GENERATED_BOARD"
	ErrCodeOracle                 = "ORACLE_ERROR"
	ErrCodeOracleUnavailable      = "ORACLE_UNAVAILABLE"
)

// APIError represents an error with an HTTP status code and error code
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrBadRequest     = &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: "Bad request"}
	ErrNotFound       = &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: "Not found"}
	ErrInternalServer = &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
)

// NewAPIError creates a new API error with custom message and code
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// BadRequest creates a 400 error with custom message and auto-assigned error code
func BadRequest(message string) *APIError {
	code := ErrCodeBadRequest
	if strings.Contains(strings.ToLower(message), "invalid") {
		code = ErrCodeValidation
	}
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// NotFound creates a 404 error with custom message
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// Conflict creates a 409 error with custom message
func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: ErrCodeConflict, Message: message}
}

// InternalError creates a 500 error, logs the original error
func InternalError(err error) *APIError {
	log.Printf("Internal error: %v", err)
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondCreated writes a 201 Created JSON response
func respondCreated(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusCreated, data)
}

// respondDeleted writes a 204 No Content response
func respondDeleted(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*APIError); ok {
		respondJSON(w, apiErr.Status, apiErr)
		return
	}
	apiErr := ToAPIError(err)
	respondJSON(w, apiErr.Status, apiErr)
}

// decodeJSON decodes JSON from request body into the target
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if err == io.EOF {
			return BadRequest("Request body is empty")
		}
		return BadRequest("Invalid JSON: " + err.Error())
	}
	return nil
}

// gameIDParam extracts the gameID URL parameter
func gameIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "gameID")
	if id == "" {
		return "", BadRequest("Missing gameID parameter")
	}
	return id, nil
}

// ToAPIError converts service errors to appropriate API errors
func ToAPIError(err error) *APIError {
	var appErr *errors.Error
	if !stderrors.As(err, &appErr) {
		return InternalError(err)
	}

	switch appErr.Kind {
	case errors.ErrNotFound:
		return NotFound(appErr.Message)
	case errors.ErrValidation, errors.ErrInvalidInput:
		return &APIError{Status: http.StatusBadRequest, Code: ErrCodeValidation, Message: appErr.Message}
	case errors.ErrMalformedValue:
		return &APIError{Status: http.StatusBadRequest, Code: ErrCodeMalformedValue, Message: appErr.Message}
	case errors.ErrInvalidBoardShape:
		return &APIError{Status: http.StatusBadRequest, Code: ErrCodeInvalidBoard, Message: appErr.Message}
	case errors.ErrConflict:
		return Conflict(appErr.Message)
	case errors.ErrInsufficientCategories:
		return &APIError{Status: http.StatusConflict, Code: ErrCodeInsufficientCategories, Message: appErr.Message}
	case errors.ErrOracleContractViolation:
		return &APIError{Status: http.StatusBadGateway, Code: ErrCodeOracle, Message: appErr.Message}
	case errors.ErrOracleTransport:
		return &APIError{Status: http.StatusBadGateway, Code: ErrCodeOracleUnavailable, Message: appErr.Message}
	default:
		return InternalError(err)
	}
}
