package provider

import "errors"

var (
	// ErrUnknownKind is returned when no constructor is registered for a backend kind
	ErrUnknownKind = errors.New("unknown backend kind")

	// ErrEmptyResponse is returned when the backend returns an empty response
	ErrEmptyResponse = errors.New("empty response from provider")
)
