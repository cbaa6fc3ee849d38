package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// errorStatus traduce un error de dominio a código HTTP y código de error de la API.
// El orden importa: MissingProductCodeError también es un GenerationError.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrMissingProductCode):
		return fiber.StatusBadRequest, "MISSING_PRODUCT_CODE"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidRequestLine),
		errors.Is(err, domain.ErrInvalidDeliveryLine),
		errors.Is(err, domain.ErrInconsistentUnit):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrFutureDate):
		return fiber.StatusBadRequest, "FUTURE_DATE"
	case errors.Is(err, domain.ErrAlreadySold):
		return fiber.StatusConflict, "ALREADY_SOLD"
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		return fiber.StatusConflict, "ALREADY_CONFIRMED"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return fiber.StatusConflict, "CONCURRENT_UPDATE"
	case errors.Is(err, domain.ErrGeneration):
		return fiber.StatusConflict, "SERIAL_GENERATION"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe el error con el formato dto.ErrorResponse. Los 5xx se registran y
// no exponen el detalle interno.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:    code,
		Message: err.Error(),
		Field:   domain.FieldOf(err),
	})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// validationFailed responde 400 con el primer campo rechazado por validator.
func validationFailed(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: fe.Field() + " no cumple la regla " + fe.Tag(),
			Field:   fe.Field(),
		})
	}
	return badRequest(c, "VALIDATION", err.Error())
}
