// Package auth authenticates requests to the admin surface.
//
// Two schemes are supported: bearer JWTs signed with a shared HMAC
// secret, and a static API key header. The probe and tool-execution
// endpoints are unauthenticated; only the cache administration routes
// sit behind an Authenticator.
package auth
