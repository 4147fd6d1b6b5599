package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia de un material (opcionalmente por lote) en una entidad.
type Stock struct {
	ID           int64
	EntityID     string
	MaterialID   int64
	Batch        *Batch // nil si el material no se maneja por lote
	Qty          decimal.Decimal
	AllocatedQty decimal.Decimal // reservado por órdenes asignadas
	OpenVialQty  decimal.Decimal
	UpdatedAt    time.Time
}

// AvailableQty cantidad disponible para transacciones de salida.
func (s *Stock) AvailableQty() decimal.Decimal {
	return s.Qty.Sub(s.AllocatedQty)
}
