package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Response is the JSON envelope of every API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSONData writes a successful envelope.
func JSONData(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// JSONError writes a failed envelope.
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Message: message})
}

// ParseID parses a positive integer id from the route parameter bag.
func ParseID(params map[string]string) (uint64, error) {
	id, err := strconv.ParseUint(params["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}

	return id, nil
}

// ErrorHandler renders errors returned by handlers as the JSON envelope.
// fiber errors keep their status, everything else becomes 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return JSONError(c, code, message)
}
