package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// JWTAuthenticator validates bearer tokens signed with a shared HMAC
// secret.
type JWTAuthenticator struct {
	secret []byte
	issuer string
}

// NewJWTAuthenticator creates a JWT authenticator. Issuer is optional;
// when set, tokens with a different iss claim are rejected.
func NewJWTAuthenticator(secret []byte, issuer string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret, issuer: issuer}
}

// Authenticate implements Authenticator.
func (a *JWTAuthenticator) Authenticate(r *http.Request) (Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Principal{}, ErrMissingCredentials
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return Principal{}, fmt.Errorf("%w: not a bearer token", ErrInvalidCredentials)
	}
	raw := strings.TrimPrefix(header, bearerPrefix)

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	subject, _ := claims.GetSubject()
	if subject == "" {
		subject = "unknown"
	}
	return Principal{Subject: subject, Method: "jwt"}, nil
}

var _ Authenticator = (*JWTAuthenticator)(nil)
