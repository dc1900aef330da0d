package services

import "errors"

// Sentinel errors returned by the service layer. Controllers map these onto
// HTTP status codes with errors.Is.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrProviderUnavailable = errors.New("provider unavailable")
)
