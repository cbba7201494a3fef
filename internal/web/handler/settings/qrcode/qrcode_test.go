package qrcode_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricstock/fabricstock/internal/auth"
	"github.com/fabricstock/fabricstock/internal/auth/authtest"
	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/db/controller/qrsettings"
	"github.com/fabricstock/fabricstock/internal/db/dbtest"
	"github.com/fabricstock/fabricstock/internal/web/handler/settings/qrcode"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		qrsettings.Settings
		EffectiveBaseURL string `json:"effectiveBaseUrl"`
	} `json:"data"`
}

func TestQRCodeSettings(t *testing.T) {
	db := dbtest.Open(t)

	resolver := authtest.NewResolver().
		Add("admin", authtest.Caller(1, auth.RoleAdmin, true)).
		Add("manager", authtest.Caller(2, auth.RoleManager, true, auth.DefaultCapabilities(auth.RoleManager)...))

	cfg := &config.Config{Webserver: config.Webserver{URL: "http://localhost:8080"}}

	app := fiber.New()

	var s qrcode.Service
	require.NoError(t, s.Init(app, cfg, db, auth.NewGuard(resolver)))

	call := func(method, key, body string) (*http.Response, envelope) {
		resp, err := app.Test(authtest.Request(method, qrcode.Path, key, strings.NewReader(body)), -1)
		require.NoError(t, err)

		var out envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

		return resp, out
	}

	resp, out := call(fiber.MethodGet, "admin", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, qrsettings.DefaultSize, out.Data.Size)
	assert.Equal(t, qrsettings.DefaultMargin, out.Data.Margin)
	assert.Equal(t, "http://localhost:8080", out.Data.EffectiveBaseURL)

	resp, out = call(fiber.MethodGet, "manager", "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden: Admin access required", out.Message)

	resp, out = call(fiber.MethodPut, "admin", `{"size":10,"margin":2}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, qrsettings.ErrInvalidSize.Error(), out.Message)

	resp, out = call(fiber.MethodPut, "admin", `{"baseUrl":"not a url","size":256}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "baseUrl must be a valid URL", out.Message)

	resp, _ = call(fiber.MethodPut, "admin", `{"baseUrl":"https://qr.example.com","size":512,"margin":4}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored, err := qrsettings.Load(db)
	require.NoError(t, err)
	assert.Equal(t, qrsettings.Settings{BaseURL: "https://qr.example.com", Size: 512, Margin: 4}, stored)

	_, out = call(fiber.MethodGet, "admin", "")
	assert.Equal(t, "https://qr.example.com", out.Data.EffectiveBaseURL)
}
