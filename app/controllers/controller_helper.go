package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PayFox/internal/pkg/normalize"
)

const msgSomethingWentWrong = "Something went wrong"

// sendSuccess writes the {message, data} envelope. Unset fields of data are
// dropped from the response.
func sendSuccess(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"message": message}
	if d := normalize.Value(data); d != nil {
		body["data"] = d
	}
	return c.Status(status).JSON(body)
}

// sendError writes the {message, type, detail} envelope for err.
func sendError(c *fiber.Ctx, err error) error {
	status := statusFor(err)

	message := msgSomethingWentWrong
	detail := err.Error()
	var ae *apperror.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperror.KindValidation, apperror.KindConflict, apperror.KindNotFound:
			message = ae.Message
		case apperror.KindRemote:
			if ae.Message != "" {
				detail = ae.Message
			} else if ae.Err != nil {
				detail = ae.Err.Error()
			}
		}
	}

	if status >= fiber.StatusInternalServerError {
		fiberlog.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
		if apperror.KindOf(err) == apperror.KindInternal {
			detail = "internal error"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"type":    apperror.TypeOf(err),
		"detail":  detail,
	})
}

// statusFor maps an error kind to its HTTP status unless the error carries
// an explicit status.
func statusFor(err error) int {
	if s := apperror.StatusOf(err); s != 0 {
		return s
	}
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return fiber.StatusUnprocessableEntity
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// parseBody decodes the JSON request body into dst.
func parseBody(c *fiber.Ctx, op string, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.Validation(op, "invalid request body: "+err.Error())
	}
	return nil
}
