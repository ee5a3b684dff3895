package domain

import "errors"

var (
	// ErrMissingCredential is returned when a chat request carries no API key.
	ErrMissingCredential = errors.New("missing API key")

	// ErrInvalidRequest is returned when a required request parameter is absent.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMalformedResponse is returned when the listing API body does not contain a urls array.
	ErrMalformedResponse = errors.New("malformed listing response")

	// ErrUpstreamListing is returned when the listing API cannot be reached or answers non-2xx.
	ErrUpstreamListing = errors.New("listing API request failed")

	// ErrUpstreamLLM is returned when the language model call fails.
	ErrUpstreamLLM = errors.New("language model request failed")
)
