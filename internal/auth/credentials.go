// Package auth is the credential and authorization module. It replaces the
// framework-provided password and permission mixins with explicit functions.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the salted bcrypt hash of the plaintext. The
// plaintext is never stored.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Capability names one permission an account holds.
type Capability string

const (
	// CapManageCatalog allows access to the unrestricted catalog accessor.
	CapManageCatalog Capability = "catalog:manage"

	// CapAdminAll is the superuser capability implying everything else.
	CapAdminAll Capability = "admin:all"
)

// CapabilitySet is the set of capabilities derived from the account's
// status flags.
type CapabilitySet map[Capability]struct{}

// CapabilitiesFor maps the is_staff / is_superuser flags to capabilities.
func CapabilitiesFor(isStaff, isSuperuser bool) CapabilitySet {
	caps := make(CapabilitySet)
	if isStaff {
		caps[CapManageCatalog] = struct{}{}
	}
	if isSuperuser {
		caps[CapAdminAll] = struct{}{}
		caps[CapManageCatalog] = struct{}{}
	}
	return caps
}

// Has reports whether the set grants the capability, with CapAdminAll
// granting everything.
func (s CapabilitySet) Has(cap Capability) bool {
	if _, ok := s[CapAdminAll]; ok {
		return true
	}
	_, ok := s[cap]
	return ok
}
