// Package apperr holds the sentinel errors the HTTP layer maps to
// response status codes.
package apperr

import "errors"

var (
	ErrConflict      = errors.New("name already in use")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("not the message owner")
	ErrUnknownSender = errors.New("unknown sender")
	ErrInvalidLimit  = errors.New("limit must be a positive integer")
)
