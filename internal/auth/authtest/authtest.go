// Package authtest provides a header based caller resolver for handler tests.
package authtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/fabricstock/fabricstock/internal/auth"
)

// Header selects the caller of a test request.
const Header = "X-Test-Caller"

// Resolver resolves the caller registered under the request's Header value.
// Requests without a known key are unauthenticated.
type Resolver struct {
	mu      sync.Mutex
	callers map[string]*auth.Caller
	calls   int
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{callers: make(map[string]*auth.Caller)}
}

// Add registers a caller under key.
func (r *Resolver) Add(key string, c *auth.Caller) *Resolver {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.callers[key] = c

	return r
}

// Calls returns how often ResolveCaller ran.
func (r *Resolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}

// ResolveCaller implements auth.CallerResolver.
func (r *Resolver) ResolveCaller(c *fiber.Ctx) (*auth.Caller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++

	caller, ok := r.callers[c.Get(Header)]
	if !ok {
		return nil, auth.ErrAuthenticationRequired
	}

	cp := *caller

	return &cp, nil
}

// Caller builds a caller with the given grants.
func Caller(id uint64, role auth.Role, active bool, granted ...auth.Capability) *auth.Caller {
	return &auth.Caller{
		ID:      id,
		Name:    string(role),
		Role:    role,
		Granted: auth.NewCapabilitySet(granted...),
		Active:  active,
	}
}

// Request builds a JSON test request as the caller registered under key.
func Request(method, target, key string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	if key != "" {
		req.Header.Set(Header, key)
	}

	return req
}
