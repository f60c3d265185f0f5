package api

import "errors"

var ErrBadRequest = errors.New("invalid request")
var ErrNotFound = errors.New("requested item not found")
var ErrConflict = errors.New("item already exists or conflict")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrForbidden = errors.New("action forbidden")

// ErrProviderUnavailable marks an upstream provider that could not be reached;
// callers fall back to the next provider in priority order.
var ErrProviderUnavailable = errors.New("upstream provider unavailable")

// ErrBadLocation marks an invalid or unsupported location parameter.
var ErrBadLocation = errors.New("invalid or unsupported location")
