package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/domain"
	"github.com/jhoicas/stockpro/pkg/logger"
)

// retryAfterSeconds valor del header Retry-After en respuestas TRANSIENT.
const retryAfterSeconds = 1

// ErrorHandler traduce los errores de dominio a respuestas HTTP. Es el único punto donde se
// decide el código de estado; los handlers solo devuelven el error.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError && status != fiber.StatusServiceUnavailable {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", requestID(c)).
				Msg("error interno")
		}
		if status == fiber.StatusServiceUnavailable {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		rejected   *domain.SaleRejectedError
		reference  *domain.ReferenceError
		validation *domain.ValidationError
		bind       *bindError
		fe         *fiber.Error
	)
	switch {
	case errors.As(err, &bind):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: bind.message, Fields: bind.fields}
	case errors.As(err, &rejected):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code:     "SALE_REJECTED",
			Message:  "la venta fue rechazada; no se aplicó ningún cambio",
			Failures: lineFailures(rejected.Failures),
		}
	case errors.As(err, &reference):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:       "REFERENTIAL_CONSTRAINT",
			Message:    reference.Error(),
			Dependents: reference.Dependents,
		}
	case errors.As(err, &validation):
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: validation.Error()}
		if validation.Field != "" {
			resp.Fields = []dto.FieldError{{Field: validation.Field, Message: validation.Message}}
		}
		return fiber.StatusBadRequest, resp
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrReferentialConstraint):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "REFERENTIAL_CONSTRAINT", Message: err.Error()}
	case errors.Is(err, domain.ErrTransient):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "TRANSIENT", Message: "operación en conflicto con otra, reintente"}
	case errors.As(err, &fe):
		return fe.Code, dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
}

func lineFailures(in []domain.LineFailure) []dto.LineFailure {
	out := make([]dto.LineFailure, len(in))
	for i, f := range in {
		out[i] = dto.LineFailure{
			Index:     f.Index,
			ProductID: f.ProductID,
			Reason:    f.Reason,
			Requested: f.Requested,
			Available: f.Available,
		}
	}
	return out
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "INVALID_BODY"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}
