// Package services holds the business logic between the HTTP surface
// and the flat-file stores.
// File: services/errors.go
package services

import "errors"

// sentinel errors the controllers translate into HTTP responses.
// Wrap with fmt.Errorf("%w: detail", ...) and test with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("invalid username or password")
)
