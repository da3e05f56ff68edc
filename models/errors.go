// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound                   = errors.New("not found")
	ErrAlreadyVoted               = errors.New("voter has already voted")
	ErrDuplicateIdentifier        = errors.New("email or voter id already registered")
	ErrValidationFailed           = errors.New("validation failed")
	ErrTransactionAborted         = errors.New("transaction aborted")
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
	ErrInvalidCredentials         = errors.New("invalid email or password")
)

// Error codes reported to clients
const (
	CodeValidationFailed   = "validation_failed"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeAlreadyVoted       = "already_voted"
	CodeDuplicate          = "duplicate_identifier"
	CodeRateLimited        = "rate_limited"
	CodeTxAborted          = "transaction_aborted"
	CodeUnavailable        = "external_service_unavailable"
	CodeInternal           = "internal"
)

// ErrorCode maps an error to its client-facing code, HTTP status and
// whether the caller may retry.
func ErrorCode(err error) (code string, status int, retryable bool) {
	switch {
	case errors.Is(err, ErrValidationFailed):
		return CodeValidationFailed, http.StatusBadRequest, false
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials, http.StatusUnauthorized, false
	case errors.Is(err, ErrNotFound):
		return CodeNotFound, http.StatusNotFound, false
	case errors.Is(err, ErrAlreadyVoted):
		return CodeAlreadyVoted, http.StatusConflict, false
	case errors.Is(err, ErrDuplicateIdentifier):
		return CodeDuplicate, http.StatusConflict, false
	case errors.Is(err, ErrTransactionAborted):
		return CodeTxAborted, http.StatusServiceUnavailable, true
	case errors.Is(err, ErrExternalServiceUnavailable):
		return CodeUnavailable, http.StatusServiceUnavailable, true
	}
	return CodeInternal, http.StatusInternalServerError, false
}
