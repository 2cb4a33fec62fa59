// Package identity supplies the acting landlord's identity as an explicit
// value. Components that stamp ownership take an Identity parameter
// instead of reading ambient auth state.
package identity

import "context"

// Identity is the stable identifier of the acting user.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Provider resolves the current acting identity.
type Provider interface {
	Current(ctx context.Context) (Identity, error)
}

// Static is a Provider that always returns the same identity. Used when
// the deployment fronts a single landlord account.
type Static struct {
	identity Identity
}

// NewStatic creates a Static provider.
func NewStatic(id, name string) *Static {
	return &Static{identity: Identity{ID: id, Name: name}}
}

func (s *Static) Current(context.Context) (Identity, error) {
	return s.identity, nil
}
