package domain

import "errors"

var (
	// ErrNotFound signals an unknown session id.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidArgument signals a malformed or blank input value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProviderUnavailable signals that the generative provider is
	// unconfigured or its call failed. It never crosses the resolver
	// boundary; the resolver absorbs it into the fallback path.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
