// Package auth models sessions and the closed set of actor roles.
//
// Roles form a closed union: each variant carries its capability set, resolved
// once when the session token is validated rather than re-derived per check.
package auth

import (
	dErrors "suratdesa/pkg/domain-errors"
)

// Capability names an action a role is permitted to perform.
type Capability string

const (
	CapSubmitLetter      Capability = "submit_letter"
	CapResolveAutofill   Capability = "resolve_autofill"
	CapDecideTier1       Capability = "decide_tier1"
	CapDecideTier2       Capability = "decide_tier2"
	CapManageLetterTypes Capability = "manage_letter_types"
	CapViewAllLetters    Capability = "view_all_letters"
)

// Role is one variant of the closed role union.
type Role struct {
	name         string
	capabilities map[Capability]struct{}
}

func newRole(name string, caps ...Capability) Role {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return Role{name: name, capabilities: set}
}

// The closed set of role variants.
var (
	// RoleApplicant is a citizen requesting letters for themselves.
	RoleApplicant = newRole("applicant", CapSubmitLetter, CapResolveAutofill)

	// RoleTier1Verifier decides letters at sub-unit level.
	RoleTier1Verifier = newRole("tier1_verifier", CapDecideTier1)

	// RoleTier2Verifier decides letters at unit level, across all sub-units of that unit.
	RoleTier2Verifier = newRole("tier2_verifier", CapDecideTier2)

	// RoleAdmin authors letter types and sees everything.
	RoleAdmin = newRole("admin", CapManageLetterTypes, CapViewAllLetters, CapResolveAutofill)
)

var rolesByName = map[string]Role{
	RoleApplicant.name:     RoleApplicant,
	RoleTier1Verifier.name: RoleTier1Verifier,
	RoleTier2Verifier.name: RoleTier2Verifier,
	RoleAdmin.name:         RoleAdmin,
}

// RoleByName resolves a role variant from its wire name.
// Unknown names are rejected; the union is closed.
func RoleByName(name string) (Role, error) {
	role, ok := rolesByName[name]
	if !ok {
		return Role{}, dErrors.New(dErrors.CodeUnauthorized, "unknown role: "+name)
	}
	return role, nil
}

// Name returns the wire name of the role.
func (r Role) Name() string { return r.name }

// Can reports whether the role carries the given capability.
func (r Role) Can(c Capability) bool {
	_, ok := r.capabilities[c]
	return ok
}

// IsZero reports whether the role is the uninitialized variant.
func (r Role) IsZero() bool { return r.name == "" }
