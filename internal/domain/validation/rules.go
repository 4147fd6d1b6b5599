// Package validation contiene las reglas de cantidad como predicados puros.
// Cada regla devuelve *FieldError o nil; los validadores compuestos las combinan por campo.
package validation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
)

// Códigos de error por campo.
const (
	CodeRequired       = "required"
	CodeNonNegative    = "non_negative"
	CodeMultipleOf     = "multiple_of"
	CodeMaxAvailable   = "max_available"
	CodeVialExactMatch = "vial_exact_match"
	CodeNotEqual       = "not_equal"
	CodeInvalid        = "invalid"
)

// FieldError error asociado a un campo (ruta estable, p. ej. "items.12.stocks.3.discard_qty").
type FieldError = domain.FieldIssue

// Errors lista ordenada de errores por campo.
type Errors struct {
	list []FieldError
}

// Add agrega el error si no es nil.
func (e *Errors) Add(fe *FieldError) {
	if fe != nil {
		e.list = append(e.list, *fe)
	}
}

// Merge agrega los errores de other anteponiendo prefix a cada campo.
func (e *Errors) Merge(prefix string, other Errors) {
	for _, fe := range other.list {
		if prefix != "" {
			fe.Field = prefix + "." + fe.Field
		}
		e.list = append(e.list, fe)
	}
}

// HasErrors indica si hay al menos un error.
func (e Errors) HasErrors() bool { return len(e.list) > 0 }

// List devuelve una copia de los errores.
func (e Errors) List() []FieldError {
	out := make([]FieldError, len(e.list))
	copy(out, e.list)
	return out
}

// For errores de un campo concreto.
func (e Errors) For(field string) []FieldError {
	var out []FieldError
	for _, fe := range e.list {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// Err devuelve *domain.ValidationError o nil si no hay errores.
func (e Errors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return &domain.ValidationError{Issues: e.List()}
}

func newError(field, code string, params map[string]any) *FieldError {
	return &FieldError{Field: field, Code: code, Params: params}
}

// anyNonZero true si alguna de las cantidades hermanas es distinta de cero.
func anyNonZero(siblings ...decimal.Decimal) bool {
	for _, s := range siblings {
		if !s.IsZero() {
			return true
		}
	}
	return false
}

// RequiredIfActive: el campo es obligatorio solo si alguna cantidad hermana es distinta de cero.
// Con todas las hermanas en cero el campo es opcional.
func RequiredIfActive(field string, present bool, siblings ...decimal.Decimal) *FieldError {
	if present || !anyNonZero(siblings...) {
		return nil
	}
	return newError(field, CodeRequired, nil)
}

// Required: el campo es obligatorio siempre.
func Required(field string, present bool) *FieldError {
	if present {
		return nil
	}
	return newError(field, CodeRequired, nil)
}

// NonNegative rechaza cantidades negativas.
func NonNegative(field string, qty decimal.Decimal) *FieldError {
	if qty.IsNegative() {
		return newError(field, CodeNonNegative, nil)
	}
	return nil
}

// MultipleOfUnit: qty debe ser divisible entre la unidad de empaque.
// Una unidad <= 1 significa sin restricción.
func MultipleOfUnit(field string, qty, unit decimal.Decimal) *FieldError {
	if unit.LessThanOrEqual(decimal.NewFromInt(1)) {
		return nil
	}
	if qty.Mod(unit).IsZero() {
		return nil
	}
	return newError(field, CodeMultipleOf, map[string]any{"unit": unit.String()})
}

// NotExceeding: qty no puede superar max.
func NotExceeding(field string, qty, max decimal.Decimal) *FieldError {
	if qty.GreaterThan(max) {
		return newError(field, CodeMaxAvailable, map[string]any{"max": max.String()})
	}
	return nil
}

// MaxAvailable: para transacciones de salida qty no puede superar lo disponible.
// Para tipos de entrada (add_stock, return) la regla no aplica.
func MaxAvailable(field string, qty, available decimal.Decimal, t entity.TransactionType) *FieldError {
	if t.IsInbound() {
		return nil
	}
	return NotExceeding(field, qty, available)
}

// VialExactMatch: en descartes de vial abierto la cantidad debe ser exactamente el máximo
// de viales abiertos (no se permite descartar parcialmente un vial abierto).
func VialExactMatch(field string, openQty, maxOpenQty decimal.Decimal) *FieldError {
	if openQty.Equal(maxOpenQty) {
		return nil
	}
	return newError(field, CodeVialExactMatch, map[string]any{"max": maxOpenQty.String()})
}
