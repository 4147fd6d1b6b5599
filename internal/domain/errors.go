package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)

// FieldIssue describe un error de validación asociado a un campo concreto.
// Se mantiene aquí (sin depender de validation) para que los handlers lo serialicen.
type FieldIssue struct {
	Field  string
	Code   string
	Params map[string]any
}

// ValidationError agrupa errores por campo. Unwrap devuelve ErrInvalidInput para que
// errors.Is siga funcionando en los callers que solo distinguen entrada inválida.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return ErrInvalidInput.Error()
	}
	return fmt.Sprintf("%s: %d campo(s) con error, primero %s (%s)",
		ErrInvalidInput.Error(), len(e.Issues), e.Issues[0].Field, e.Issues[0].Code)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// AsValidationError extrae el *ValidationError de una cadena de errores.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
