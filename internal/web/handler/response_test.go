package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUp struct {
	Name         string  `json:"name" validate:"required"`
	MobileNumber string  `json:"mobileNumber" validate:"required,mobile"`
	Password     string  `json:"password" validate:"required,min=6"`
	Role         string  `json:"role" validate:"omitempty,oneof=Admin Worker"`
	Weight       float64 `json:"weight" validate:"gte=0"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   signUp
		want []string
	}{
		{
			name: "valid",
			in:   signUp{Name: "Asha", MobileNumber: "9876543210", Password: "secret"},
		},
		{
			name: "missing fields",
			in:   signUp{},
			want: []string{"name is required", "mobileNumber is required", "password is required"},
		},
		{
			name: "bad values",
			in:   signUp{Name: "Asha", MobileNumber: "12ab", Password: "abc", Role: "Owner", Weight: -1},
			want: []string{
				"mobileNumber must be 10-15 digits",
				"password must be at least 6 characters",
				"role must be one of: Admin, Worker",
				"weight must be at least 0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.want, ve.Messages)
			assert.Equal(t, strings.Join(tt.want, ", "), err.Error())
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID(map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		_, err = ParseID(map[string]string{"id": raw})
		require.ErrorIs(t, err, ErrInvalidID, raw)
	}
}

func decode(t *testing.T, r io.Reader) Response {
	t.Helper()

	var out Response
	require.NoError(t, json.NewDecoder(r).Decode(&out))

	return out
}

func TestBindAndErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	app.Post("/", func(c *fiber.Ctx) error {
		var in signUp
		if ok, err := Bind(c, &in); !ok {
			return err
		}

		return JSONData(c, fiber.StatusCreated, in.Name, "created")
	})
	app.Get("/boom", func(*fiber.Ctx) error {
		return errors.New("database exploded")
	})
	app.Get("/teapot", func(*fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	post := func(body string) (int, Response) {
		req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		return resp.StatusCode, decode(t, resp.Body)
	}

	status, out := post(`{"name":"Asha","mobileNumber":"9876543210","password":"secret"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, out.Success)
	assert.Equal(t, "Asha", out.Data)

	status, out = post(`{"name":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, InvalidBodyMessage, out.Message)

	status, out = post(`{"name":"Asha","mobileNumber":"1","password":"secret"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, out.Success)
	assert.Equal(t, "mobileNumber must be 10-15 digits", out.Message)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", decode(t, resp.Body).Message)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/teapot", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", decode(t, resp.Body).Message)
}
