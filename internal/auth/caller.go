package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/fabricstock/fabricstock/internal/db/models"
)

const callerLocalsKey = "auth.caller"

// Caller is the authorization view of the account behind a request.
// It is a snapshot taken when the request is resolved and is never mutated.
type Caller struct {
	ID      uint64
	Name    string
	Role    Role
	Granted CapabilitySet
	Active  bool
}

// CallerResolver resolves the caller of the current request.
// Implementations return ErrAuthenticationRequired when no valid caller exists.
type CallerResolver interface {
	ResolveCaller(c *fiber.Ctx) (*Caller, error)
}

// CallerResolverFunc adapts a function to CallerResolver.
type CallerResolverFunc func(c *fiber.Ctx) (*Caller, error)

// ResolveCaller implements CallerResolver.
func (f CallerResolverFunc) ResolveCaller(c *fiber.Ctx) (*Caller, error) {
	return f(c)
}

// CallerFromAccount builds a caller from a stored account.
func CallerFromAccount(a *models.Account) (*Caller, error) {
	role, err := ParseRole(a.Role)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", a.ID, err)
	}

	return &Caller{
		ID:      a.ID,
		Name:    a.Name,
		Role:    role,
		Granted: CapabilitySetFromStrings(a.Permissions),
		Active:  a.Active,
	}, nil
}

// Can reports whether the caller holds the capability.
func (c *Caller) Can(required Capability) bool {
	return SatisfiesOne(c.Role, c.Granted, required)
}

// CanAny reports whether the caller holds at least one of the capabilities.
func (c *Caller) CanAny(required ...Capability) bool {
	return SatisfiesAny(c.Role, c.Granted, required)
}

// Effective lists the capabilities the caller may exercise.
func (c *Caller) Effective() []Capability {
	return EffectiveCapabilities(c.Role, c.Granted)
}

// CallerFromContext returns the caller stored by a guard.
func CallerFromContext(c *fiber.Ctx) (*Caller, bool) {
	caller, ok := c.Locals(callerLocalsKey).(*Caller)

	return caller, ok && caller != nil
}

func setCaller(c *fiber.Ctx, caller *Caller) {
	c.Locals(callerLocalsKey, caller)
}

// CheckSelfAction refuses actions of the caller on their own account.
func CheckSelfAction(caller *Caller, targetID uint64) error {
	if caller.ID == targetID {
		return ErrSelfAction
	}

	return nil
}

// CheckEscalation refuses changes to granted capabilities unless the caller
// holds user:manage_permissions.
func CheckEscalation(caller *Caller) error {
	if !SatisfiesOne(caller.Role, caller.Granted, CapUserManagePermissions) {
		return ErrEscalation
	}

	return nil
}
