package serverutils

import (
	"errors"

	"contract-review-fe/internal/session"
	"contract-review-fe/pkg/analyzer"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns domain errors escaping the controllers into
// the JSON error envelope. Session errors carry their own status semantics:
// validation is 400, the busy gate is 409, preconditions are 409, backend
// failures are 502.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		msg := err.Error()

		var fiberErr *fiber.Error
		var backendErr *analyzer.BackendError
		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			msg = fiberErr.Message
		case errors.Is(err, session.ErrInvalidFileType), errors.Is(err, session.ErrFileTooLarge):
			status = fiber.StatusBadRequest
		case errors.Is(err, session.ErrBusy),
			errors.Is(err, session.ErrNoDocument),
			errors.Is(err, session.ErrDocumentActive),
			errors.Is(err, session.ErrNothingToExport):
			status = fiber.StatusConflict
		case errors.Is(err, session.ErrClosed):
			status = fiber.StatusGone
		case errors.As(err, &backendErr):
			status = fiber.StatusBadGateway
			if m := backendErr.Message; m != "" {
				msg = m
			}
		}

		return c.Status(status).JSON(ErrorResponse(status, msg))
	}
}
