package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/disposal"
)

// TransactionDraft borrador del formulario de transacción de un material.
type TransactionDraft struct {
	Type  string                   `json:"transaction_type" validate:"required,oneof=add_stock reduce_stock discard consumption return"`
	Items []TransactionItemRequest `json:"items" validate:"dive"`
}

// DisposalDraft borrador de disposición de un material.
type DisposalDraft struct {
	Discard  []disposal.LineItemEntry `json:"discard"`
	Received []disposal.LineItemEntry `json:"received"`
}

// OrderDraft borrador de ítem de pedido.
type OrderDraft struct {
	Qty            decimal.Decimal `json:"qty"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
}
