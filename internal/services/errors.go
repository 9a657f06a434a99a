package services

import "errors"

// Error kinds returned by the services. Handlers match them with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrInvalidToken    = errors.New("invalid token")
	ErrNotFound        = errors.New("not found")
)
