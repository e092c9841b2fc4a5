package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"petcare/internal/domain"
	applog "petcare/internal/log"
)

// statusFor maps workflow errors to the status shown to the user. Zero means
// the error is unexpected and belongs to the app error handler.
func statusFor(err error) int {
	if _, ok := domain.IsValidation(err); ok {
		return fiber.StatusBadRequest
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotAvailable),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict
	}
	return 0
}

func userMessage(err error) string {
	if ve, ok := domain.IsValidation(err); ok {
		return ve.Reason
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "We couldn't find what you were looking for."
	case errors.Is(err, domain.ErrNotAvailable):
		return "This animal is no longer available for adoption."
	case errors.Is(err, domain.ErrOutOfStock):
		return "Sorry, this product is out of stock."
	case errors.Is(err, domain.ErrIllegalTransition):
		return "That status change is not allowed."
	case errors.Is(err, domain.ErrConflict):
		return "This record was changed by someone else. Please reload and try again."
	case errors.Is(err, domain.ErrDuplicate):
		return "That username or email is already registered."
	}
	return "Something went wrong. Please try again."
}

// reject renders a known rejection with its status, or passes anything else
// on to the app error handler.
func reject(c *fiber.Ctx, action string, err error) error {
	code := statusFor(err)
	if code == 0 {
		return err
	}
	applog.Info(c, action+".rejected", map[string]any{"reason": err.Error()})
	return message(c, code, userMessage(err))
}
