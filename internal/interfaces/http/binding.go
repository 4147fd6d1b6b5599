package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/validation"
)

var validate = newValidator()

// newValidator usa el nombre JSON de cada campo para que las rutas de error
// coincidan con las del cuerpo ("items.0.stock_id").
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindBody parsea el JSON y aplica las reglas `validate:` del DTO.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errBadBody
	}
	return validateStruct(out)
}

func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errBadBody
	}
	var errs validation.Errors
	for _, fe := range verrs {
		code := validation.CodeInvalid
		if fe.Tag() == "required" {
			code = validation.CodeRequired
		}
		errs.Add(&validation.FieldError{Field: fieldPath(fe.Namespace()), Code: code})
	}
	return errs.Err()
}

// fieldPath "CreateTransactionsRequest.items[0].stock_id" → "items.0.stock_id".
func fieldPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	rest = strings.ReplaceAll(rest, "[", ".")
	return strings.ReplaceAll(rest, "]", "")
}

// parseFilter lee los filtros de la query en out; un valor mal formado es 400 INVALID_PARAM.
func parseFilter(c *fiber.Ctx, out interface{}) error {
	if err := c.QueryParser(out); err != nil {
		return errBadQuery
	}
	return nil
}

// pageFromQuery limit/offset con límites (20 por defecto, máximo 100).
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return dto.PageRequest{Limit: limit, Offset: offset}
}
