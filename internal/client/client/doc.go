// Package client talks to the money tracker REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     accounts, people, transactions and statement export.
//  2. A concrete HTTP implementation (see HTTPClient) that keeps the session
//     tokens, sends the bearer header, transparently refreshes an expired
//     access token once, and maps HTTP failures to errors.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable and rejected tokens as
// ErrUnauthorized; both can be matched with errors.Is. Any other non-2xx
// response becomes an *APIError carrying the server's message.
//
// See Also
//
//   - Interface:  Client
//   - HTTP impl:  HTTPClient
//   - Errors:     ErrUnavailable, ErrUnauthorized, APIError
package client
