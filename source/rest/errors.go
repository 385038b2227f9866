package rest

import "errors"

var (
	// ErrEndpointRequired is returned when a client is created without an endpoint.
	ErrEndpointRequired = errors.New("endpoint is required")

	// ErrInvalidEndpoint is returned when the endpoint cannot be parsed as a URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrHTTPClientRequired is returned when WithHTTPClient receives nil.
	ErrHTTPClientRequired = errors.New("http client is required")

	// ErrUnexpectedStatus is returned when a backend answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrDecodeFailed is returned when a response body is not the expected JSON.
	ErrDecodeFailed = errors.New("failed to decode response")

	// ErrIDRequired is returned when a task or network id argument is empty.
	ErrIDRequired = errors.New("id is required")
)
