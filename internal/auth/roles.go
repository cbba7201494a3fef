package auth

import (
	"errors"
	"fmt"
	"slices"
)

// Role is the single role an account holds.
type Role string

const (
	// RoleAdmin satisfies every capability check by definition.
	RoleAdmin Role = "Admin"
	// RoleManager runs the floor and administers accounts.
	RoleManager Role = "Manager"
	// RoleSupervisor oversees production data.
	RoleSupervisor Role = "Supervisor"
	// RoleWorker records production data.
	RoleWorker Role = "Worker"
)

// ErrUnknownRole is returned when a string is not one of the known roles.
var ErrUnknownRole = errors.New("unknown role")

var roles = []Role{RoleAdmin, RoleManager, RoleSupervisor, RoleWorker}

// defaultsByRole maps every non-Admin role to the capabilities granted on provisioning.
// Admin is absent: it holds every capability at evaluation time and stores none.
// The FABRIC group has no other source of grants, so fabric access is part of the defaults.
var defaultsByRole = map[Role][]Capability{
	RoleManager: Expand(
		GroupUser,
		GroupDashboard,
		GroupReports,
		GroupBelt,
		GroupCompoundType,
		GroupCompoundBatch,
		GroupRating,
		GroupFabricType,
		GroupFabricStrength,
		GroupFabricWidth,
		GroupFabric,
	),
	RoleSupervisor: append(
		[]Capability{
			CapUserView,
			CapDashboardView,
			CapDashboardReverseTracking,
			CapReportsView,
		},
		Expand(
			GroupBelt,
			GroupCompoundType,
			GroupCompoundBatch,
			GroupRating,
			GroupFabricType,
			GroupFabricStrength,
			GroupFabricWidth,
			GroupFabric,
		)...,
	),
	RoleWorker: {
		CapBeltView,
		CapBeltUpdate,
		CapDashboardView,
		CapCompoundMasterView,
		CapCompoundBatchView,
		CapCompoundBatchUpdate,
		CapRatingView,
		CapRatingCreate,
		CapRatingUpdate,
		CapFabricView,
	},
}

// validateRoleDefaults panics when a role lacks a defaults entry or a default is outside the catalog.
// It runs at init so that a new role or capability cannot silently miss its mapping.
func validateRoleDefaults() {
	for _, r := range roles {
		caps, ok := defaultsByRole[r]

		switch {
		case r == RoleAdmin && ok:
			panic("role defaults must not list the Admin role")
		case r != RoleAdmin && !ok:
			panic("role " + string(r) + " has no default capabilities")
		}

		for _, c := range caps {
			if !c.Valid() {
				panic("role " + string(r) + " defaults to unknown capability " + string(c))
			}
		}
	}

	if len(defaultsByRole) != len(roles)-1 {
		panic("role defaults list a role outside the role set")
	}
}

// Roles returns all roles, Admin first.
func Roles() []Role {
	return slices.Clone(roles)
}

// ParseRole converts a string into a known role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !slices.Contains(roles, r) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}

	return r, nil
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(roles, r)
}

// DefaultCapabilities returns the capabilities a new account of the role starts with.
// For Admin it returns the full catalog, which is informational only.
func DefaultCapabilities(r Role) []Capability {
	if IsPrivileged(r) {
		return AllCapabilities()
	}

	return slices.Clone(defaultsByRole[r])
}

// ProvisionCapabilities returns what is stored for a new account of the role.
// Admin stores nothing; other roles store their defaults.
func ProvisionCapabilities(r Role) []Capability {
	if IsPrivileged(r) {
		return []Capability{}
	}

	return DefaultCapabilities(r)
}
