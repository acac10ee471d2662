// Package authtest signs provider-shaped tokens for tests.
package authtest

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"
)

// TokenOpts describes the token to mint. Zero TTL defaults to one hour.
type TokenOpts struct {
	Secret   string
	Subject  string
	Issuer   string
	Audience string
	Email    string
	Name     string
	Phone    string
	IsAdmin  bool
	Now      time.Time
	TTL      time.Duration
}

// SignedToken builds and signs an HS256 token the way the identity
// provider does, including the user_metadata claim.
func SignedToken(t *testing.T, opts TokenOpts) string {
	t.Helper()
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = time.Hour
	}

	builder := jwt.NewBuilder().
		Subject(opts.Subject).
		Issuer(opts.Issuer).
		Audience([]string{opts.Audience}).
		IssuedAt(opts.Now).
		Expiration(opts.Now.Add(ttl))
	if opts.Email != "" {
		builder = builder.Claim("email", opts.Email)
	}
	meta := map[string]any{}
	if opts.Name != "" {
		meta["full_name"] = opts.Name
	}
	if opts.Phone != "" {
		meta["phone"] = opts.Phone
	}
	if opts.IsAdmin {
		meta["is_admin"] = true
	}
	if len(meta) > 0 {
		builder = builder.Claim("user_metadata", meta)
	}

	built, err := builder.Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, []byte(opts.Secret)))
	require.NoError(t, err)
	return string(signed)
}
