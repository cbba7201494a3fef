package auth_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/auth/authtest"
)

type denialBody struct {
	Success            bool     `json:"success"`
	Message            string   `json:"message"`
	RequiredPermission []string `json:"requiredPermission"`
}

func countingDecision(calls *atomic.Int64) auth.DecisionFunc {
	return func(r auth.Role, g auth.CapabilitySet, req []auth.Capability) bool {
		calls.Add(1)
		return auth.SatisfiesAny(r, g, req)
	}
}

func testResolver() *authtest.Resolver {
	return authtest.NewResolver().
		Add("admin", authtest.Caller(1, auth.RoleAdmin, true)).
		Add("admin-off", authtest.Caller(2, auth.RoleAdmin, false)).
		Add("worker", authtest.Caller(3, auth.RoleWorker, true, auth.CapBeltView)).
		Add("supervisor", authtest.Caller(4, auth.RoleSupervisor, true, auth.CapFabricTypeView, auth.CapFabricTypeCreate)).
		Add("manager", authtest.Caller(5, auth.RoleManager, true, auth.CapUserUpdate))
}

func ok(c *fiber.Ctx) error {
	caller, found := auth.CallerFromContext(c)
	if !found {
		return errors.New("caller missing from locals")
	}

	return c.JSON(fiber.Map{"id": caller.ID})
}

func do(t *testing.T, app *fiber.App, method, target, key string) (*http.Response, denialBody) {
	t.Helper()

	resp, err := app.Test(authtest.Request(method, target, key, nil), -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body denialBody
	if resp.StatusCode != fiber.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}

	return resp, body
}

func TestRequire(t *testing.T) {
	var calls atomic.Int64

	g := auth.NewGuard(testResolver(), auth.WithDecision(countingDecision(&calls)))

	app := fiber.New()
	app.Put("/belts", g.Require(auth.CapBeltUpdate), ok)
	app.Post("/fabric-types", g.Require(auth.CapFabricTypeCreate, auth.CapFabricTypeUpdate), ok)

	tests := []struct {
		name        string
		method      string
		path        string
		key         string
		status      int
		message     string
		required    []string
		wantDecided bool
	}{
		{
			name:    "no session",
			method:  fiber.MethodPut,
			path:    "/belts",
			status:  fiber.StatusUnauthorized,
			message: "Unauthorized: Authentication required",
		},
		{
			name:    "unknown session",
			method:  fiber.MethodPut,
			path:    "/belts",
			key:     "expired",
			status:  fiber.StatusUnauthorized,
			message: "Unauthorized: Authentication required",
		},
		{
			name:    "deactivated admin",
			method:  fiber.MethodPut,
			path:    "/belts",
			key:     "admin-off",
			status:  fiber.StatusForbidden,
			message: "Unauthorized: Account is deactivated",
		},
		{
			name:        "worker lacks belt update",
			method:      fiber.MethodPut,
			path:        "/belts",
			key:         "worker",
			status:      fiber.StatusForbidden,
			message:     "Forbidden: Insufficient permissions",
			required:    []string{"belt:update"},
			wantDecided: true,
		},
		{
			name:        "supervisor any-of",
			method:      fiber.MethodPost,
			path:        "/fabric-types",
			key:         "supervisor",
			status:      fiber.StatusOK,
			wantDecided: true,
		},
		{
			name:        "admin without grants",
			method:      fiber.MethodPut,
			path:        "/belts",
			key:         "admin",
			status:      fiber.StatusOK,
			wantDecided: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls.Store(0)

			resp, body := do(t, app, tt.method, tt.path, tt.key)

			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status != fiber.StatusOK {
				assert.False(t, body.Success)
				assert.Equal(t, tt.message, body.Message)
				assert.Equal(t, tt.required, body.RequiredPermission)
			}

			if tt.wantDecided {
				assert.Equal(t, int64(1), calls.Load())
			} else {
				assert.Zero(t, calls.Load(), "capability evaluation must not run")
			}
		})
	}
}

func TestRequireInternalErrors(t *testing.T) {
	tests := []struct {
		name     string
		resolver auth.CallerResolver
		decide   auth.DecisionFunc
	}{
		{
			name: "resolver error",
			resolver: auth.CallerResolverFunc(func(*fiber.Ctx) (*auth.Caller, error) {
				return nil, errors.New("dial tcp 10.0.0.1:3306: connection refused")
			}),
		},
		{
			name: "resolver panic",
			resolver: auth.CallerResolverFunc(func(*fiber.Ctx) (*auth.Caller, error) {
				panic("nil map")
			}),
		},
		{
			name:     "decision panic",
			resolver: testResolver(),
			decide: func(auth.Role, auth.CapabilitySet, []auth.Capability) bool {
				panic("boom")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []auth.Option
			if tt.decide != nil {
				opts = append(opts, auth.WithDecision(tt.decide))
			}

			g := auth.NewGuard(tt.resolver, opts...)

			app := fiber.New()
			app.Get("/fabrics", g.Require(auth.CapFabricView), ok)

			resp, body := do(t, app, fiber.MethodGet, "/fabrics", "worker")

			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, "Internal server error during authorization", body.Message)
			assert.Nil(t, body.RequiredPermission)
		})
	}
}

func TestRequireParams(t *testing.T) {
	g := auth.NewGuard(testResolver())

	var got map[string]string

	app := fiber.New()
	app.Get("/fabrics/:id/parts/:part", g.RequireParams(func(c *fiber.Ctx, params map[string]string) error {
		got = params
		return c.SendStatus(fiber.StatusOK)
	}, auth.CapBeltView))

	resp, _ := do(t, app, fiber.MethodGet, "/fabrics/42/parts/edge", "worker")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"id": "42", "part": "edge"}, got)

	got = nil

	resp, body := do(t, app, fiber.MethodGet, "/fabrics/42/parts/edge", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized: Authentication required", body.Message)
	assert.Nil(t, got, "handler must not run")
}

func TestRequireEmptyList(t *testing.T) {
	g := auth.NewGuard(testResolver())

	app := fiber.New()
	app.Get("/", g.Require(), ok)

	resp, _ := do(t, app, fiber.MethodGet, "/", "manager")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, fiber.MethodGet, "/", "admin")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthAndAdmin(t *testing.T) {
	g := auth.NewGuard(testResolver())

	app := fiber.New()
	app.Get("/session", g.RequireAuth(), ok)
	app.Get("/settings", g.RequireAdmin(), ok)

	tests := []struct {
		path    string
		key     string
		status  int
		message string
	}{
		{path: "/session", key: "worker", status: fiber.StatusOK},
		{path: "/session", key: "", status: fiber.StatusUnauthorized, message: "Unauthorized: Authentication required"},
		{path: "/session", key: "admin-off", status: fiber.StatusForbidden, message: "Unauthorized: Account is deactivated"},
		{path: "/settings", key: "admin", status: fiber.StatusOK},
		{path: "/settings", key: "manager", status: fiber.StatusForbidden, message: "Forbidden: Admin access required"},
		{path: "/settings", key: "admin-off", status: fiber.StatusForbidden, message: "Unauthorized: Account is deactivated"},
	}

	for _, tt := range tests {
		t.Run(tt.path+" "+tt.key, func(t *testing.T) {
			resp, body := do(t, app, fiber.MethodGet, tt.path, tt.key)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestGuardMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := auth.NewMetrics(reg)
	g := auth.NewGuard(testResolver(), auth.WithMetrics(m))

	app := fiber.New()
	app.Put("/belts", g.Require(auth.CapBeltUpdate), ok)

	do(t, app, fiber.MethodPut, "/belts", "admin")
	do(t, app, fiber.MethodPut, "/belts", "worker")
	do(t, app, fiber.MethodPut, "/belts", "worker")
	do(t, app, fiber.MethodPut, "/belts", "")
	do(t, app, fiber.MethodPut, "/belts", "admin-off")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "authorization_decisions_total", families[0].GetName())

	want := `
# HELP authorization_decisions_total Number of authorization decisions made by request guards, by outcome.
# TYPE authorization_decisions_total counter
authorization_decisions_total{outcome="allowed"} 1
authorization_decisions_total{outcome="deactivated"} 1
authorization_decisions_total{outcome="forbidden"} 2
authorization_decisions_total{outcome="unauthenticated"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "authorization_decisions_total"))
}
