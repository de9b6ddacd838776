package api

import "errors"

var (
	// ErrUnavailable marks network-level failures: the server could not be
	// reached or did not produce a response.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized maps a 401 response. The transport has already evicted
	// the stored credentials by the time callers see this error.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound maps a 404 response.
	ErrNotFound = errors.New("not found")
)
