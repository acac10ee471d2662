// Package cep resolves Brazilian postal codes to street-level addresses
// through the public ViaCEP API, with a Redis read-through cache in front.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sabordafe/backend-loja/internal/obs"
)

// ErrInvalidCEP is returned by Normalize when the input does not contain
// exactly eight digits.
var ErrInvalidCEP = errors.New("cep: must contain exactly 8 digits")

// Address is the subset of the ViaCEP payload the shop cares about. Found
// is false when the code is well-formed but unassigned; that is not a
// transport error.
type Address struct {
	CEP          string `json:"cep"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Found        bool   `json:"found"`
}

// Resolver looks up a normalized 8-digit postal code.
type Resolver interface {
	Resolve(ctx context.Context, code string) (Address, error)
}

// Normalize strips formatting (dashes, spaces, anything non-digit) and
// validates that exactly eight digits remain.
func Normalize(raw string) (string, error) {
	digits := make([]byte, 0, 8)
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) != 8 {
		return "", ErrInvalidCEP
	}
	return string(digits), nil
}

// Doer is the http client surface the resolver needs. The resilience
// wrapper satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client resolves codes against ViaCEP and caches hits in Redis so repeat
// estimates for the same code skip the upstream round trip.
type Client struct {
	baseURL string
	http    Doer
	rdb     *redis.Client
	ttl     time.Duration
	log     zerolog.Logger
}

// NewClient builds a ViaCEP resolver. rdb may be nil, in which case every
// call goes upstream.
func NewClient(baseURL string, httpClient Doer, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *Client {
	return &Client{baseURL: baseURL, http: httpClient, rdb: rdb, ttl: ttl, log: log}
}

// viaCEPPayload mirrors the upstream response. ViaCEP signals an unassigned
// code with {"erro": true} and HTTP 200.
type viaCEPPayload struct {
	CEP        string `json:"cep"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

func cacheKey(code string) string { return "cep:" + code }

// Resolve returns the address for code, which must already be normalized.
func (c *Client) Resolve(ctx context.Context, code string) (Address, error) {
	start := time.Now()
	if addr, ok := c.fromCache(ctx, code); ok {
		observeLookup("cache", time.Since(start))
		return addr, nil
	}

	addr, err := c.fetch(ctx, code)
	observeLookup("upstream", time.Since(start))
	if err != nil {
		return Address{}, err
	}

	c.toCache(ctx, code, addr)
	return addr, nil
}

func observeLookup(source string, d time.Duration) {
	if obs.CEPLookupLatency == nil {
		return
	}
	obs.CEPLookupLatency.WithLabelValues(source).Observe(obs.DurationMillis(d))
}

func (c *Client) fetch(ctx context.Context, code string) (Address, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, fmt.Errorf("cep: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("cep: viacep request: %w", err)
	}
	defer resp.Body.Close()

	// ViaCEP answers 400 for malformed codes; anything non-200 is treated
	// as upstream failure since we validate format before calling.
	if resp.StatusCode != http.StatusOK {
		return Address{}, fmt.Errorf("cep: viacep status %d", resp.StatusCode)
	}

	var payload viaCEPPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Address{}, fmt.Errorf("cep: decode response: %w", err)
	}
	if payload.Erro {
		return Address{CEP: code, Found: false}, nil
	}
	return Address{
		CEP:          code,
		Neighborhood: payload.Bairro,
		City:         payload.Localidade,
		State:        payload.UF,
		Found:        true,
	}, nil
}

func (c *Client) fromCache(ctx context.Context, code string) (Address, bool) {
	if c.rdb == nil {
		return Address{}, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(code)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Str("cep", code).Msg("cep cache read failed")
		}
		return Address{}, false
	}
	var addr Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return Address{}, false
	}
	return addr, true
}

func (c *Client) toCache(ctx context.Context, code string, addr Address) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(addr)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(code), raw, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("cep", code).Msg("cep cache write failed")
	}
}
