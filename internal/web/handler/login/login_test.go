package login_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/db/controller/account"
	"github.com/fabricstock/fabricstock/internal/db/dbtest"
	"github.com/fabricstock/fabricstock/internal/db/models"
	"github.com/fabricstock/fabricstock/internal/web/handler/login"
	"github.com/fabricstock/fabricstock/internal/web/handler/logout"
	"github.com/fabricstock/fabricstock/internal/web/session"
)

type envelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    login.Profile `json:"data"`
}

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute, CookieName: "session"},
		},
	}
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := dbtest.Open(t)
	cfg := newTestConfig()
	sessions := session.New(session.NewGormStorage(db), cfg.Webserver.Session)
	guard := auth.NewGuard(auth.NewSessionResolver(sessions, db))

	app := fiber.New()

	var (
		in  login.Service
		out logout.Service
	)

	require.NoError(t, in.Init(app, cfg, db, guard, sessions))
	require.NoError(t, out.Init(app, cfg, sessions))

	return app, db
}

func seedAccount(t *testing.T, db *gorm.DB, mobile string, role auth.Role, active bool) *models.Account {
	t.Helper()

	a := &models.Account{
		Name:         "Asha",
		MobileNumber: mobile,
		Role:         string(role),
		Permissions:  auth.Strings(auth.ProvisionCapabilities(role)),
		Active:       active,
	}
	require.NoError(t, account.Create(db, a, "secret123"))

	return a
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp, out
}

func signIn(mobile, password string) *http.Request {
	body := `{"mobileNumber":"` + mobile + `","password":"` + password + `"}`
	req := httptest.NewRequest(fiber.MethodPost, login.Path+"/sign-in", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return req
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c
		}
	}

	return nil
}

func TestSignInErrors(t *testing.T) {
	app, db := newTestApp(t)

	seedAccount(t, db, "9876543210", auth.RoleWorker, true)
	seedAccount(t, db, "9000000001", auth.RoleWorker, false)

	tests := []struct {
		name       string
		mobile     string
		password   string
		wantStatus int
		wantMsg    string
	}{
		{"unknown number", "1111111111", "secret123", fiber.StatusUnauthorized, "No user found with this mobile number"},
		{"deactivated", "9000000001", "secret123", fiber.StatusForbidden, "Your account has been deactivated"},
		{"wrong password", "9876543210", "nope", fiber.StatusUnauthorized, "Incorrect password"},
		{"malformed number", "98765", "secret123", fiber.StatusBadRequest, "mobileNumber must be 10-15 digits"},
		{"missing password", "9876543210", "", fiber.StatusBadRequest, "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := do(t, app, signIn(tt.mobile, tt.password))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.False(t, out.Success)
			assert.Equal(t, tt.wantMsg, out.Message)
			assert.Nil(t, sessionCookie(resp))
		})
	}
}

func TestSignInSessionSignOut(t *testing.T) {
	app, db := newTestApp(t)

	a := seedAccount(t, db, "9876543210", auth.RoleWorker, true)

	resp, out := do(t, app, signIn("9876543210", "secret123"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	assert.Equal(t, a.ID, out.Data.ID)
	assert.Equal(t, auth.RoleWorker, out.Data.Role)
	assert.ElementsMatch(t, auth.DefaultCapabilities(auth.RoleWorker), out.Data.Permissions)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Len(t, cookie.Value, 64)

	get := func() (*http.Response, envelope) {
		req := httptest.NewRequest(fiber.MethodGet, login.Path+"/session", nil)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})

		return do(t, app, req)
	}

	resp, out = get()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "9876543210", out.Data.MobileNumber)

	req := httptest.NewRequest(fiber.MethodPost, login.Path+"/sign-out", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	resp, out = do(t, app, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Signed out successfully", out.Message)

	resp, out = get()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized: Authentication required", out.Message)
}

func TestSessionAdminHasFullCatalog(t *testing.T) {
	app, db := newTestApp(t)

	seedAccount(t, db, "9999999999", auth.RoleAdmin, true)

	resp, out := do(t, app, signIn("9999999999", "secret123"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, auth.AllCapabilities(), out.Data.Permissions)
}

func TestInitRejectsNil(t *testing.T) {
	var s login.Service
	require.Error(t, s.Init(nil, nil, nil, nil, nil))
}
