package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents the type of error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrValidation
	ErrConflict
	ErrInvalidInput
	ErrMalformedValue          // unparsable dollar value in the corpus
	ErrInsufficientCategories  // curated pool too small to deal a board
	ErrOracleContractViolation // oracle reply did not start with a verdict marker
	ErrOracleTransport         // network or timeout talking to the oracle
	ErrInvalidBoardShape       // generated board failed shape validation
)

var kindNames = map[Kind]string{
	ErrInternal:                "internal",
	ErrNotFound:                "not_found",
	ErrValidation:              "validation",
	ErrConflict:                "conflict",
	ErrInvalidInput:            "invalid_input",
	ErrMalformedValue:          "malformed_value",
	ErrInsufficientCategories:  "insufficient_categories",
	ErrOracleContractViolation: "oracle_contract_violation",
	ErrOracleTransport:         "oracle_transport",
	ErrInvalidBoardShape:       "invalid_generated_board_shape",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

func MalformedValuef(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrMalformedValue, Message: fmt.Sprintf(format, args...)}
}

func InsufficientCategoriesf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInsufficientCategories, Message: fmt.Sprintf(format, args...)}
}

func OracleContractViolationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrOracleContractViolation, Message: fmt.Sprintf(format, args...)}
}

func InvalidBoardShapef(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidBoardShape, Message: fmt.Sprintf(format, args...)}
}

func OracleTransport(err error, msg string) *Error {
	return &Error{Kind: ErrOracleTransport, Message: msg, Err: err}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the Kind of the outermost *Error in err's chain,
// or ErrInternal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

// Is reports whether any *Error in err's chain has the given kind
func Is(err error, kind Kind) bool {
	for err != nil {
		var appErr *Error
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Kind == kind {
			return true
		}
		err = appErr.Err
	}
	return false
}
