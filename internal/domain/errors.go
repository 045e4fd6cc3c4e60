package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// segment does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing destination, malformed date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUpstream is returned when an external collaborator (the geocoding API)
// fails or answers with something we cannot use.
// Handlers should map this to HTTP 502 Bad Gateway.
var ErrUpstream = errors.New("upstream failure")

// ErrUnauthorized is returned when a request token is missing, malformed,
// badly signed or expired.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
