package auth

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the header carrying the static admin key.
const APIKeyHeader = "X-API-Key"

// APIKeyAuthenticator validates a static API key header using a
// constant-time comparison.
type APIKeyAuthenticator struct {
	key []byte
}

// NewAPIKeyAuthenticator creates an API key authenticator.
func NewAPIKeyAuthenticator(key string) *APIKeyAuthenticator {
	return &APIKeyAuthenticator{key: []byte(key)}
}

// Authenticate implements Authenticator.
func (a *APIKeyAuthenticator) Authenticate(r *http.Request) (Principal, error) {
	presented := r.Header.Get(APIKeyHeader)
	if presented == "" {
		return Principal{}, ErrMissingCredentials
	}
	if subtle.ConstantTimeCompare([]byte(presented), a.key) != 1 {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Subject: "apikey", Method: "apikey"}, nil
}

var _ Authenticator = (*APIKeyAuthenticator)(nil)
