package inventory

import (
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/validation"
)

// TxRunner alias del runner transaccional; el motor de inventario aplica cada envío
// de forma atómica (todas las líneas o ninguna).
type TxRunner = repository.TxRunner

// CodeDuplicate el mismo stock aparece más de una vez en un envío.
const CodeDuplicate = "duplicate"

func fieldError(field, code string) *validation.FieldError {
	return &validation.FieldError{Field: field, Code: code}
}
