package identity

import (
	"context"
	"errors"
)

// ErrUnauthenticated covers every failure to turn a bearer credential
// into a known user: missing token, failed verification, unknown subject.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// Identity is the normalized claim set returned by the external
// provider. Facts only, no decisions.
type Identity struct {
	Subject string `json:"subject"` // provider-scoped stable user id
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// TokenVerifier checks an opaque bearer credential against the external
// identity provider. Injected so the core is testable without network
// access.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}
