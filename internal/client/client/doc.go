// Package client contains the transport half of the Ananta client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the backend: SendOTP/VerifyOTP, GetProfile/UpdateProfile, Ping.
//  2. A concrete REST implementation (see HTTPClient) that attaches the
//     bearer token and an X-Request-ID to each call, decodes the
//     {success, data, message} envelope, and maps failures to sentinel
//     errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable (transport failure, timeout, 5xx), ErrUnauthorized
// (401/403), ErrTokenNotIssued, ErrInvalidResponse. Other rejections surface as
// *APIError carrying the HTTP status and the server message.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept context.Context
// and honor cancellation; every request is additionally bounded by
// Config.Timeout (DefaultTimeout when unset).
package client
