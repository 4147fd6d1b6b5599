package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipo de transacción de stock.
type TransactionType string

// Tipos de transacción.
const (
	TransactionAddStock    TransactionType = "add_stock"    // entrada
	TransactionReduceStock TransactionType = "reduce_stock" // salida
	TransactionDiscard     TransactionType = "discard"      // descarte (pasa a stock de disposición)
	TransactionConsumption TransactionType = "consumption"  // consumo / aplicación
	TransactionReturn      TransactionType = "return"       // devolución de consumo
)

// Valid indica si el tipo es conocido.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionAddStock, TransactionReduceStock, TransactionDiscard, TransactionConsumption, TransactionReturn:
		return true
	}
	return false
}

// IsInbound true para los tipos que suman stock.
func (t TransactionType) IsInbound() bool {
	return t == TransactionAddStock || t == TransactionReturn
}

// RequiresReason tipos donde el motivo es obligatorio cuando hay cantidad.
func (t TransactionType) RequiresReason() bool {
	return t == TransactionAddStock || t == TransactionReduceStock || t == TransactionDiscard
}

// TransactionReason motivo de transacción (catálogo).
type TransactionReason struct {
	ID         int64
	Type       TransactionType
	Title      string
	IsOther    bool // exige texto libre en OtherReason
	IsPurchase bool
}

// Transaction registro de una transacción aplicada sobre un stock.
type Transaction struct {
	ID           string
	EntityID     string
	MaterialID   int64
	StockID      int64
	Type         TransactionType
	ReasonID     *int64
	OtherReason  string
	StatusID     *int64 // estado de calidad (VVM) si el material lo exige
	ChangeQty    decimal.Decimal
	OpenVialQty  decimal.Decimal
	CloseVialQty decimal.Decimal
	StockBefore  decimal.Decimal
	StockAfter   decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
}
