package auth

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// DecisionFunc evaluates a requirement list for a role and its grants.
type DecisionFunc func(role Role, granted CapabilitySet, required []Capability) bool

// ParamsHandler is a route handler that receives the route parameter bag.
type ParamsHandler func(c *fiber.Ctx, params map[string]string) error

// Option configures a Guard.
type Option func(*Guard)

// WithDecision replaces the decision function. The default is SatisfiesAny.
func WithDecision(f DecisionFunc) Option {
	return func(g *Guard) {
		g.decide = f
	}
}

// WithMetrics counts every decision.
func WithMetrics(m *Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

// Guard builds fiber handlers that admit a request only when its caller is
// authenticated, active and holds one of the required capabilities.
//
// The admitted caller is stored in the request locals, see CallerFromContext.
type Guard struct {
	resolver CallerResolver
	decide   DecisionFunc
	metrics  *Metrics
}

// NewGuard creates a guard resolving callers with resolver.
func NewGuard(resolver CallerResolver, opts ...Option) *Guard {
	if resolver == nil {
		panic("auth: nil caller resolver")
	}

	g := &Guard{resolver: resolver, decide: SatisfiesAny}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// denial is the body of every guard rejection.
type denial struct {
	Success            bool         `json:"success"`
	Message            string       `json:"message"`
	RequiredPermission []Capability `json:"requiredPermission,omitempty"`
}

func recovered(r any) error {
	return fmt.Errorf("%w: panic: %v", ErrInternal, r)
}

// authenticate resolves the caller and refuses deactivated accounts.
func (g *Guard) authenticate(c *fiber.Ctx) (caller *Caller, err error) {
	defer func() {
		if r := recover(); r != nil {
			caller, err = nil, recovered(r)
		}
	}()

	caller, err = g.resolver.ResolveCaller(c)

	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	case caller == nil:
		return nil, ErrAuthenticationRequired
	case !caller.Active:
		return caller, ErrAccountDeactivated
	}

	return caller, nil
}

// authorize runs authenticate and then the capability decision.
func (g *Guard) authorize(c *fiber.Ctx, required []Capability) (caller *Caller, err error) {
	caller, err = g.authenticate(c)
	if err != nil {
		return caller, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()

	if !g.decide(caller.Role, caller.Granted, required) {
		return caller, ErrInsufficientPermissions
	}

	return caller, nil
}

func (g *Guard) reject(c *fiber.Ctx, caller *Caller, err error, required []Capability) error {
	status := StatusCode(err)

	g.metrics.observe(outcomeOf(err))

	ev := log.Warn()
	if status >= fiber.StatusInternalServerError {
		ev = log.Error()
	}

	ev = ev.Err(err).Str("method", c.Method()).Str("path", c.Path())
	if caller != nil {
		ev = ev.Uint64("account_id", caller.ID).Str("role", string(caller.Role))
	}

	if len(required) > 0 {
		ev = ev.Strs("required", Strings(required))
	}

	ev.Msg("request denied")

	body := denial{Message: Message(err)}
	if errors.Is(err, ErrInsufficientPermissions) {
		body.RequiredPermission = required
	}

	return c.Status(status).JSON(body)
}

func (g *Guard) admit(c *fiber.Ctx, caller *Caller) {
	g.metrics.observe(OutcomeAllowed)
	setCaller(c, caller)
}

func normalize(required []Capability) []Capability {
	if len(required) == 0 {
		log.Warn().Msg("guard registered without capabilities; only privileged roles will pass")
	}

	return slices.Clone(required)
}

// Require returns middleware admitting callers holding any of the capabilities.
func (g *Guard) Require(required ...Capability) fiber.Handler {
	required = normalize(required)

	return func(c *fiber.Ctx) error {
		caller, err := g.authorize(c, required)
		if err != nil {
			return g.reject(c, caller, err, required)
		}

		g.admit(c, caller)

		return c.Next()
	}
}

// RequireParams wraps a handler for routes with path parameters. The handler
// gets the route parameter bag as fiber parsed it.
func (g *Guard) RequireParams(h ParamsHandler, required ...Capability) fiber.Handler {
	required = normalize(required)

	return func(c *fiber.Ctx) error {
		caller, err := g.authorize(c, required)
		if err != nil {
			return g.reject(c, caller, err, required)
		}

		g.admit(c, caller)

		return h(c, c.AllParams())
	}
}

// RequireAuth returns middleware admitting any active caller.
func (g *Guard) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := g.authenticate(c)
		if err != nil {
			return g.reject(c, caller, err, nil)
		}

		g.admit(c, caller)

		return c.Next()
	}
}

// RequireAdmin returns middleware admitting only active privileged callers.
func (g *Guard) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := g.authenticate(c)
		if err == nil && !IsPrivileged(caller.Role) {
			err = ErrAdminRequired
		}

		if err != nil {
			return g.reject(c, caller, err, nil)
		}

		g.admit(c, caller)

		return c.Next()
	}
}
