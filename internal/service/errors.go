package service

import "errors"

// Precondition violations. These are caller programming errors: the request
// aborts before any network call and the port maps them to a 4xx response.
var (
	ErrEmptyLines    = errors.New("cart action requires at least one line")
	ErrInvalidLines  = errors.New("invalid cart line input")
	ErrMissingCartID = errors.New("no cart id in session for an action that requires one")
)
