package server

import (
	"studyhub/core/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHeader carries the acting user id. Handlers fall back to the local
// profile when it is absent.
const UserHeader = "X-User-ID"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SendError writes err with the status its kind maps to. Internal errors are
// logged; domain errors are the caller's business.
func SendError(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := apperr.StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.String("code", apperr.CodeOf(err)), zap.Error(err))
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error(), Code: apperr.CodeOf(err)})
}

// BadRequest writes a validation failure for an unreadable request body.
func BadRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error(), Code: "invalid_request"})
}
