// Package api is the client's single outbound-request chokepoint and the
// resource wrappers built on it.
//
// # Gateway
//
// Every call goes through Gateway.Do, which runs two explicit stages around
// the HTTP transport:
//
//  1. attach: reads the credential from the TokenStore and, when present,
//     sets "Authorization: Bearer <token>". A missing credential is not an
//     error (login and register are unauthenticated).
//  2. observe: inspects the response. A 401 for a request that carried a
//     credential clears that credential from the store and notifies every
//     registered InvalidationFunc exactly once, before the error is returned
//     to the caller, unless the request context was marked with
//     WithoutInvalidation. Other statuses are returned unchanged as *Error.
//
// The gateway never retries.
//
// # Resources
//
// AuthAPI, CampaignsAPI, BotsAPI, DashboardAPI and WebhooksAPI map one
// method to one fixed verb and path.
//
// # Errors
//
// Failures are *Error values wrapping ErrUnauthorized, ErrUnavailable or
// ErrMalformedResponse; match them with errors.Is. MessageOf extracts the
// server's human-readable message.
package api
