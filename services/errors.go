package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed = errors.New("validation failed")

	ErrBrktNotFound      = errors.New("bracket not found")
	ErrBrktEntryNotFound = errors.New("bracket entry not found")

	ErrBracketLocked    = errors.New("brackets are locked")
	ErrBracketNotLocked = errors.New("brackets have not been locked")

	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
)
