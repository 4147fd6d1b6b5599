package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/validation"
)

// LocalLang key del idioma negociado para los mensajes de validación.
const LocalLang = "lang"

// errBadBody el cuerpo no es JSON válido para el DTO.
var errBadBody = errors.New("cuerpo inválido")

// errBadQuery parámetro de query o de ruta mal formado.
var errBadQuery = errors.New("parámetro inválido")

// LanguageMiddleware negocia el idioma con Accept-Language; sin coincidencia usa fallback.
func LanguageMiddleware(fallback language.Tag) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalLang, validation.MatchLanguage(c.Get(fiber.HeaderAcceptLanguage), fallback))
		return c.Next()
	}
}

func requestLanguage(c *fiber.Ctx) language.Tag {
	if tag, ok := c.Locals(LocalLang).(language.Tag); ok {
		return tag
	}
	return validation.MatchLanguage(c.Get(fiber.HeaderAcceptLanguage), language.Indonesian)
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	if ve, ok := domain.AsValidationError(err); ok {
		localized := validation.Localize(ve.Issues, requestLanguage(c))
		out := dto.ValidationErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Errors:  make([]dto.FieldErrorResponse, 0, len(localized)),
		}
		for _, l := range localized {
			out.Errors = append(out.Errors, dto.FieldErrorResponse{Field: l.Field, Code: l.Code, Message: l.Message})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(out)
	}

	switch {
	case errors.Is(err, errBadBody):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	case errors.Is(err, errBadQuery):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "parámetro inválido"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "acción no permitida en el estado actual"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
