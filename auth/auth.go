package auth

import (
	"context"
	"errors"
	"net/http"
)

// Sentinel errors for authentication.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Principal identifies an authenticated caller.
type Principal struct {
	// Subject is the caller identity (JWT sub claim, or "apikey").
	Subject string

	// Method names the scheme that authenticated the caller.
	Method string
}

// Authenticator validates the credentials on an HTTP request.
//
// Implementations must be safe for concurrent use.
type Authenticator interface {
	// Authenticate returns the caller's principal, or
	// ErrMissingCredentials / ErrInvalidCredentials.
	Authenticate(r *http.Request) (Principal, error)
}

// AllowAll authenticates every request as an anonymous principal.
type AllowAll struct{}

// Authenticate implements Authenticator.
func (AllowAll) Authenticate(*http.Request) (Principal, error) {
	return Principal{Subject: "anonymous", Method: "none"}, nil
}

type principalKey struct{}

// WithPrincipal attaches a principal to the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the request principal, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Require wraps next so it only runs for authenticated requests. The
// principal is attached to the request context.
func Require(a Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.Authenticate(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

var _ Authenticator = AllowAll{}
