package auth

import (
	"context"

	"github.com/csemotors/dealer/types"
)

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	AccountID int
	FirstName string
	LastName  string
	Email     string
	Role      types.Role
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a copy of ctx carrying the identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the identity stored in ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok || identity.AccountID < 1 {
		return Identity{}, false
	}
	return identity, true
}

// Capability decides whether an identity may perform a gated action.
type Capability func(Identity) bool

// HasRole allows identities whose role is one of roles.
func HasRole(roles ...types.Role) Capability {
	return func(identity Identity) bool {
		for _, role := range roles {
			if identity.Role == role {
				return true
			}
		}
		return false
	}
}

// CanManageInventory allows employees and admins.
func CanManageInventory(identity Identity) bool {
	return identity.Role.Elevated()
}

// CanManageAccount allows the account owner, or any employee or admin.
func CanManageAccount(identity Identity, accountID int) bool {
	if accountID < 1 {
		return false
	}
	return identity.AccountID == accountID || identity.Role.Elevated()
}
