// Package domainerrors classifies failures with stable codes so transport
// layers can map them to responses without inspecting messages.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of failure. Codes are part of the API contract and
// must stay stable once published.
type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeTimeout      Code = "STORE_TIMEOUT"
	CodeInternal     Code = "INTERNAL"
)

// FieldViolation is a single accumulated validation failure. Reason carries
// the machine-readable kind (MISSING_FIELD, INVALID_PHONE, ...); Field is
// empty for record-level violations such as MISSING_VARIANT.
type FieldViolation struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// Violation reasons. Field-level format reasons are produced by the format
// validators; record-level reasons by variant selection and the service.
const (
	ReasonMissingVariant   = "MISSING_VARIANT"
	ReasonAmbiguousVariant = "AMBIGUOUS_VARIANT"
	ReasonVariantImmutable = "VARIANT_IMMUTABLE"
	ReasonMissingField     = "MISSING_FIELD"
	ReasonInvalidPhone     = "INVALID_PHONE"
	ReasonInvalidPAN       = "INVALID_PAN"
	ReasonInvalidGST       = "INVALID_GST"
	ReasonInvalidEmail     = "INVALID_EMAIL"
	ReasonInvalidRelation  = "INVALID_RELATIONSHIP"
)

// Error is the concrete domain error. Violations is populated only for
// CodeValidation and always carries the complete accumulated set.
type Error struct {
	Code       Code
	Message    string
	Violations []FieldViolation
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// NewValidation builds the accumulated validation error. Callers pass every
// violation found; the error is never used to report a single failure when
// more are known.
func NewValidation(violations []FieldViolation) *Error {
	return &Error{
		Code:       CodeValidation,
		Message:    "validation failed",
		Violations: violations,
	}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the domain code, defaulting to CodeInternal for foreign
// errors so callers always get a mappable value.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ViolationsOf returns the accumulated violations, or nil when err is not a
// validation error.
func ViolationsOf(err error) []FieldViolation {
	var de *Error
	if errors.As(err, &de) {
		return de.Violations
	}
	return nil
}

// ToHTTPStatus maps a code to the HTTP status the transport layer should use.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
