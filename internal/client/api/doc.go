// Package api contains the client-side transport for the scalehub API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     whole hub surface: register/login, device CRUD, product fetch/cache/
//     patch/push, and auto-update settings.
//  2. A concrete HTTP implementation (see HTTPClient) that injects the
//     bearer token from a TokenSource on every request, paces requests with
//     a rate limiter, and maps HTTP statuses and {detail} error bodies to
//     sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable and ErrUnauthorized here, plus the shared
// common.ErrorNotFound, common.ErrorAlreadyExists and common.ErrorValidation
// for resource-level failures. A 401 from the hub additionally clears the
// TokenSource, so one rejected token logs the whole client out.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package api
