package entity

import "github.com/shopspring/decimal"

// Material representa un insumo o vacuna del catálogo.
type Material struct {
	ID             int64
	Code           string
	Name           string
	Unit           string          // unidad de distribución (vial, caja, dosis)
	PiecesPerUnit  decimal.Decimal // tamaño del empaque; las cantidades deben ser múltiplo
	IsOpenVial     bool            // se registra el consumo de viales abiertos por separado
	ManagedInBatch bool
	TrackStatus    bool // exige estado de calidad (VVM) al registrar cantidades
}

// PackagingUnit devuelve el tamaño de empaque efectivo (1 si no está configurado).
func (m *Material) PackagingUnit() decimal.Decimal {
	if m == nil || !m.PiecesPerUnit.GreaterThan(decimal.Zero) {
		return decimal.NewFromInt(1)
	}
	return m.PiecesPerUnit
}
