package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/sabordafe/backend-loja/internal/auth/authtest"
)

const testSecret = "test-secret-test-secret-test-secret"

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v := NewVerifier(testSecret, "https://auth.sabordafe.test", "backend-loja")
	v.now = func() time.Time { return time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC) }
	return v
}

func TestVerifyValidToken(t *testing.T) {
	v := newTestVerifier(t)
	token := authtest.SignedToken(t, authtest.TokenOpts{
		Secret:   testSecret,
		Subject:  "user-123",
		Issuer:   "https://auth.sabordafe.test",
		Audience: "backend-loja",
		Email:    "maria@example.com",
		Name:     "Maria Silva",
		Phone:    "+55 11 91234-5678",
		Now:      v.now(),
	})

	id, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", id.UserID)
	require.Equal(t, "maria@example.com", id.Email)
	require.Equal(t, "Maria Silva", id.Name)
	require.Equal(t, "+55 11 91234-5678", id.Phone)
	require.Equal(t, RoleCustomer, id.Role)
}

func TestVerifyAdminFlag(t *testing.T) {
	v := newTestVerifier(t)
	token := authtest.SignedToken(t, authtest.TokenOpts{
		Secret:   testSecret,
		Subject:  "admin-1",
		Issuer:   "https://auth.sabordafe.test",
		Audience: "backend-loja",
		IsAdmin:  true,
		Now:      v.now(),
	})

	id, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, id.Role)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := newTestVerifier(t)
	token := authtest.SignedToken(t, authtest.TokenOpts{
		Secret:   testSecret,
		Subject:  "user-123",
		Issuer:   "https://auth.sabordafe.test",
		Audience: "backend-loja",
		Now:      v.now().Add(-2 * time.Hour),
		TTL:      time.Hour,
	})

	_, err := v.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := newTestVerifier(t)
	token := authtest.SignedToken(t, authtest.TokenOpts{
		Secret:   "another-secret-another-secret-12",
		Subject:  "user-123",
		Issuer:   "https://auth.sabordafe.test",
		Audience: "backend-loja",
		Now:      v.now(),
	})

	_, err := v.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsWrongIssuerOrAudience(t *testing.T) {
	v := newTestVerifier(t)

	badIssuer := authtest.SignedToken(t, authtest.TokenOpts{
		Secret:   testSecret,
		Subject:  "user-123",
		Issuer:   "https://evil.example.com",
		Audience: "backend-loja",
		Now:      v.now(),
	})
	_, err := v.Verify(badIssuer)
	require.Error(t, err)

	badAudience := authtest.SignedToken(t, authtest.TokenOpts{
		Secret:   testSecret,
		Subject:  "user-123",
		Issuer:   "https://auth.sabordafe.test",
		Audience: "some-other-api",
		Now:      v.now(),
	})
	_, err = v.Verify(badAudience)
	require.Error(t, err)
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	v := newTestVerifier(t)
	built, err := jwt.NewBuilder().
		Subject("user-123").
		Issuer("https://auth.sabordafe.test").
		Audience([]string{"backend-loja"}).
		IssuedAt(v.now()).
		Expiration(v.now().Add(time.Hour)).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS384, []byte(testSecret)))
	require.NoError(t, err)

	_, err = v.Verify(string(signed))
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := newTestVerifier(t)
	for _, raw := range []string{"", "   ", "not-a-token", "a.b.c"} {
		_, err := v.Verify(raw)
		require.Error(t, err, "raw=%q", raw)
	}
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	v := newTestVerifier(t)
	built, err := jwt.NewBuilder().
		Issuer("https://auth.sabordafe.test").
		Audience([]string{"backend-loja"}).
		IssuedAt(v.now()).
		Expiration(v.now().Add(time.Hour)).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, []byte(testSecret)))
	require.NoError(t, err)

	_, err = v.Verify(string(signed))
	require.Error(t, err)
}
