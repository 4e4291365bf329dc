package auth

import (
	"sort"

	jwt "github.com/golang-jwt/jwt/v5"
)

// PermissionSet is the set of permission strings carried by a verified token.
// Membership is an exact, case-sensitive match.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from a permission list, dropping duplicates.
func NewPermissionSet(perms []string) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the permission is in the set.
func (s PermissionSet) Has(permission string) bool {
	_, ok := s[permission]
	return ok
}

// List returns the permissions in sorted order.
func (s PermissionSet) List() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Claims is the token payload this service reads. Permissions stays nil when
// the claim is absent from the payload, which is distinct from an empty list:
// an absent claim means the issuer never enabled RBAC for the token.
type Claims struct {
	jwt.RegisteredClaims
	Permissions []string `json:"permissions"`
}

// PermissionSet returns the permissions claim as a set.
func (c *Claims) PermissionSet() PermissionSet {
	return NewPermissionSet(c.Permissions)
}
