package user_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/auth/authtest"
	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/db/controller/account"
	"github.com/fabricstock/fabricstock/internal/db/dbtest"
	"github.com/fabricstock/fabricstock/internal/db/models"
	"github.com/fabricstock/fabricstock/internal/web/handler/user"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := dbtest.Open(t)

	resolver := authtest.NewResolver().
		Add("admin", authtest.Caller(5, auth.RoleAdmin, true)).
		Add("manager", authtest.Caller(20, auth.RoleManager, true, auth.CapUserUpdate)).
		Add("manager-full", authtest.Caller(21, auth.RoleManager, true,
			auth.CapUserView, auth.CapUserCreate, auth.CapUserUpdate, auth.CapUserManagePermissions)).
		Add("worker", authtest.Caller(30, auth.RoleWorker, true, auth.CapFabricView))

	app := fiber.New()

	var s user.Service
	require.NoError(t, s.Init(app, &config.Config{}, db, auth.NewGuard(resolver)))

	return app, db
}

func seed(t *testing.T, db *gorm.DB, id uint64, mobile string) *models.Account {
	t.Helper()

	a := &models.Account{
		ID:           id,
		Name:         "Asha",
		MobileNumber: mobile,
		Role:         string(auth.RoleWorker),
		Permissions:  []string{string(auth.CapFabricView)},
		Active:       true,
	}
	require.NoError(t, account.Create(db, a, "secret123"))

	return a
}

func call(t *testing.T, app *fiber.App, method, target, key, body string) (*http.Response, envelope) {
	t.Helper()

	resp, err := app.Test(authtest.Request(method, target, key, strings.NewReader(body)), -1)
	require.NoError(t, err)

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp, out
}

func TestDeleteSelfProtection(t *testing.T) {
	app, db := newTestApp(t)
	seed(t, db, 6, "9876543210")

	// refused before the lookup, so no account 5 is needed
	resp, out := call(t, app, fiber.MethodDelete, user.Path+"/5", "admin", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You cannot delete your own account", out.Message)

	resp, out = call(t, app, fiber.MethodDelete, user.Path+"/6", "admin", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)

	_, err := account.GetByID(db, 6)
	require.ErrorIs(t, err, account.ErrAccountNotFound)

	resp, out = call(t, app, fiber.MethodDelete, user.Path+"/6", "admin", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", out.Message)
}

func TestDeleteRequiresCapability(t *testing.T) {
	app, db := newTestApp(t)
	seed(t, db, 6, "9876543210")

	resp, out := call(t, app, fiber.MethodDelete, user.Path+"/6", "manager", "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden: Insufficient permissions", out.Message)

	resp, _ = call(t, app, fiber.MethodDelete, user.Path+"/6", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateEscalationGuard(t *testing.T) {
	app, db := newTestApp(t)
	target := seed(t, db, 0, "9876543210")
	path := user.Path + "/" + strconv.FormatUint(target.ID, 10)

	resp, out := call(t, app, fiber.MethodPatch, path, "manager", `{"permissions":["user:delete"]}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Insufficient permissions to update user permissions", out.Message)

	// an explicit empty list is a permissions change too
	resp, _ = call(t, app, fiber.MethodPatch, path, "manager", `{"permissions":[]}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out = call(t, app, fiber.MethodPatch, path, "manager", `{"name":"Asha K"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)

	stored, err := account.GetByID(db, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", stored.Name)
	assert.Equal(t, []string{"fabric:view"}, stored.Permissions)

	resp, _ = call(t, app, fiber.MethodPatch, path, "manager-full", `{"permissions":["user:view","fabric:view"]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored, err = account.GetByID(db, target.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user:view", "fabric:view"}, stored.Permissions)

	resp, _ = call(t, app, fiber.MethodPatch, path, "admin", `{"permissions":["fabric:fly"]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateDeactivateAndConflict(t *testing.T) {
	app, db := newTestApp(t)
	a := seed(t, db, 0, "9876543210")
	seed(t, db, 0, "9876543211")

	path := user.Path + "/" + strconv.FormatUint(a.ID, 10)

	resp, out := call(t, app, fiber.MethodPatch, path, "admin", `{"mobileNumber":"9876543211"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Another user has this mobile number", out.Message)

	resp, _ = call(t, app, fiber.MethodPatch, path, "admin", `{"isActive":false}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored, err := account.GetByID(db, a.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	resp, _ = call(t, app, fiber.MethodPatch, user.Path+"/999", "admin", `{"name":"x"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreate(t *testing.T) {
	app, db := newTestApp(t)

	resp, out := call(t, app, fiber.MethodPost, user.Path, "manager-full",
		`{"name":"Ravi","mobileNumber":"9123456789","password":"secret123"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotContains(t, string(out.Data), "password")

	var created models.Account
	require.NoError(t, json.Unmarshal(out.Data, &created))
	assert.Equal(t, "Worker", created.Role)
	assert.True(t, created.Active)
	assert.Equal(t, auth.Strings(auth.DefaultCapabilities(auth.RoleWorker)), created.Permissions)

	stored, err := account.GetByID(db, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifyPassword("secret123"))

	resp, out = call(t, app, fiber.MethodPost, user.Path, "manager-full",
		`{"name":"Ravi","mobileNumber":"9123456789","password":"secret123"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User with this mobile number already exists", out.Message)

	resp, out = call(t, app, fiber.MethodPost, user.Path, "manager-full",
		`{"name":"","mobileNumber":"12","password":"abc"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t,
		"name is required, mobileNumber must be 10-15 digits, password must be at least 6 characters",
		out.Message)

	resp, out = call(t, app, fiber.MethodPost, user.Path, "admin",
		`{"name":"Mina","mobileNumber":"9123456780","password":"secret123","role":"Supervisor","permissions":["belt:view"],"isActive":false}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(out.Data, &created))
	assert.Equal(t, []string{"belt:view"}, created.Permissions)
	assert.False(t, created.Active)
}

func TestListAndGet(t *testing.T) {
	app, db := newTestApp(t)
	a := seed(t, db, 0, "9876543210")

	resp, out := call(t, app, fiber.MethodGet, user.Path, "manager-full", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []models.Account
	require.NoError(t, json.Unmarshal(out.Data, &list))
	assert.Len(t, list, 1)

	resp, _ = call(t, app, fiber.MethodGet, user.Path+"/"+strconv.FormatUint(a.ID, 10), "manager-full", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, fiber.MethodGet, user.Path+"/abc", "manager-full", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, fiber.MethodGet, user.Path, "worker", "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
