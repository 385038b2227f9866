// Package rest implements the source client interfaces over HTTP/JSON.
//
// EnrichmentClient, InteractomeClient and NDExClient share one transport
// that sets the user agent, optional basic auth and JSON headers, and turns
// non-2xx responses into ErrUnexpectedStatus carrying the status code and
// an excerpt of the response body.
package rest
