package cep

import "context"

// Static is a fixed-table resolver for tests and local development without
// outbound network access.
type Static map[string]Address

func (s Static) Resolve(_ context.Context, code string) (Address, error) {
	if addr, ok := s[code]; ok {
		return addr, nil
	}
	return Address{CEP: code, Found: false}, nil
}
