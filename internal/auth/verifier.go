// Package auth verifies bearer tokens issued by the external identity
// provider and exposes the caller's identity to handlers. The API never
// issues tokens itself.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/sabordafe/backend-loja/internal/common"
)

// Roles attached to verified identities.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Verifier checks provider-signed HS256 tokens against the shared secret
// and the configured issuer and audience.
type Verifier struct {
	secret    []byte
	algorithm jwa.SignatureAlgorithm
	issuer    string
	audience  string
	clockSkew time.Duration
	now       func() time.Time
}

// NewVerifier builds a Verifier. Issuer and audience checks are skipped
// when the corresponding value is empty.
func NewVerifier(secret, issuer, audience string) *Verifier {
	return &Verifier{
		secret:    []byte(secret),
		algorithm: jwa.HS256,
		issuer:    issuer,
		audience:  audience,
		clockSkew: 30 * time.Second,
		now:       time.Now,
	}
}

func unauthorized(err error) *common.AppError {
	return common.NewAppError("UNAUTHORIZED", "missing or invalid token", http.StatusUnauthorized, err)
}

// Verify validates raw and returns the identity carried in its claims.
func (v *Verifier) Verify(raw string) (common.Identity, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return common.Identity{}, unauthorized(errors.New("auth: empty token"))
	}
	algorithm, err := tokenAlgorithm(trimmed)
	if err != nil {
		return common.Identity{}, unauthorized(err)
	}
	if algorithm != v.algorithm {
		return common.Identity{}, unauthorized(fmt.Errorf("auth: unexpected token algorithm %s", algorithm))
	}

	parsed, err := jwt.ParseString(trimmed,
		jwt.WithKey(algorithm, v.secret),
		jwt.WithClock(jwt.ClockFunc(v.now)),
		jwt.WithAcceptableSkew(v.clockSkew),
	)
	if err != nil {
		return common.Identity{}, unauthorized(err)
	}

	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(v.now)),
		jwt.WithAcceptableSkew(v.clockSkew),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		options = append(options, jwt.WithAudience(v.audience))
	}
	if err := jwt.Validate(parsed, options...); err != nil {
		return common.Identity{}, unauthorized(err)
	}

	if parsed.Subject() == "" {
		return common.Identity{}, unauthorized(errors.New("auth: token missing subject"))
	}
	return identityFromClaims(parsed), nil
}

// identityFromClaims maps the provider's claim layout onto Identity. The
// provider keeps profile fields under user_metadata, including the
// is_admin flag.
func identityFromClaims(tok jwt.Token) common.Identity {
	id := common.Identity{UserID: tok.Subject(), Role: RoleCustomer}
	if email, ok := tok.Get("email"); ok {
		if s, ok := email.(string); ok {
			id.Email = s
		}
	}
	if raw, ok := tok.Get("user_metadata"); ok {
		if meta, ok := raw.(map[string]any); ok {
			if s, ok := meta["full_name"].(string); ok {
				id.Name = s
			}
			if s, ok := meta["phone"].(string); ok {
				id.Phone = s
			}
			if isAdmin, ok := meta["is_admin"].(bool); ok && isAdmin {
				id.Role = RoleAdmin
			}
		}
	}
	return id
}

// tokenAlgorithm extracts the signing algorithm from the protected headers
// before any key is applied, so alg=none and algorithm confusion are
// rejected up front.
func tokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", errors.New("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}
