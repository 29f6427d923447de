package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

func ok(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// writeError renders any error as the standard envelope. Causes of 5xx
// responses are kept for the request log and never sent to the caller.
func writeError(c *fiber.Ctx, err error) error {
	status := utils.HTTPStatus(err)
	body := fiber.Map{"success": false}

	var ae *utils.AppError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ae):
		body["code"] = ae.Code
		body["message"] = ae.Message
		if len(ae.Fields) > 0 {
			body["errors"] = ae.Fields
		}
	case errors.As(err, &fe):
		status = fe.Code
		body["code"] = utils.CodeFromStatus(fe.Code)
		body["message"] = fe.Message
	default:
		body["code"] = utils.CodeInternal
		body["message"] = "internal server error"
	}
	if status >= fiber.StatusInternalServerError {
		c.Locals(middleware.LocalError, err.Error())
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler is the fiber app error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return utils.Invalid("", utils.FieldErrors{"body": {"invalid request body"}})
	}
	return nil
}

// authUserID returns the caller id stored by AttachJWTLocals.
func authUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(middleware.LocalUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return id, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, utils.Invalid("", utils.FieldErrors{name: {name + " must be a valid id"}})
	}
	return id, nil
}
