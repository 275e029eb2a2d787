// Package client is the HTTP/JSON transport for the UrGuide API.
//
// # Overview
//
// The package provides:
//  1. The Client interface: a generic Request call plus typed helpers for
//     the login, signup, user, guide and match resources.
//  2. HTTPClient, the net/http implementation. It attaches the bearer token
//     passed to each call, decodes the response envelope and normalizes
//     failures into *APIError.
//
// # Error Handling
//
// Non-2xx responses become *APIError whose Messages are always a slice,
// even when the server sent a single string. Use Messages(err) to render
// any error as user-facing text. APIError matches the sentinels with
// errors.Is: 401/403 match ErrUnauthorized, 502/503/504 match
// ErrUnavailable. Transport-level failures also wrap ErrUnavailable.
//
// # Retries
//
// No request is retried unless WithRetry is given, and then only GET
// requests failing with ErrUnavailable.
package client
