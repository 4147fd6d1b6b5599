package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
)

// StockResponse stock de un material en la entidad.
type StockResponse struct {
	ID           int64           `json:"id"`
	MaterialID   int64           `json:"material_id"`
	Batch        *entity.Batch   `json:"batch"`
	Qty          decimal.Decimal `json:"qty"`
	AllocatedQty decimal.Decimal `json:"allocated_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	OpenVialQty  decimal.Decimal `json:"open_vial_qty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TransactionReasonResponse motivo de transacción.
type TransactionReasonResponse struct {
	ID         int64  `json:"id"`
	Type       string `json:"transaction_type"`
	Title      string `json:"title"`
	IsOther    bool   `json:"is_other"`
	IsPurchase bool   `json:"is_purchase"`
}

// TransactionItemRequest una línea del formulario de transacción (un stock).
type TransactionItemRequest struct {
	StockID      int64           `json:"stock_id" validate:"required"`
	ChangeQty    decimal.Decimal `json:"change_qty"`
	OpenVialQty  decimal.Decimal `json:"open_vial_qty"`
	CloseVialQty decimal.Decimal `json:"close_vial_qty"`
	ReasonID     *int64          `json:"transaction_reason_id,omitempty"`
	OtherReason  string          `json:"other_reason,omitempty" validate:"max=255"`
	StatusID     *int64          `json:"material_status,omitempty"`
}

// CreateTransactionsRequest body para POST /api/transactions.
type CreateTransactionsRequest struct {
	Type  string                   `json:"transaction_type" validate:"required,oneof=add_stock reduce_stock discard consumption return"`
	Items []TransactionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransactionResponse transacción registrada.
type TransactionResponse struct {
	ID           string          `json:"id"`
	MaterialID   int64           `json:"material_id"`
	StockID      int64           `json:"stock_id"`
	Type         string          `json:"transaction_type"`
	ReasonID     *int64          `json:"transaction_reason_id,omitempty"`
	OtherReason  string          `json:"other_reason,omitempty"`
	StatusID     *int64          `json:"material_status,omitempty"`
	ChangeQty    decimal.Decimal `json:"change_qty"`
	OpenVialQty  decimal.Decimal `json:"open_vial_qty"`
	CloseVialQty decimal.Decimal `json:"close_vial_qty"`
	StockBefore  decimal.Decimal `json:"stock_before"`
	StockAfter   decimal.Decimal `json:"stock_after"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionListResponse listado paginado.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// MaterialFilter filtro opcional ?material_id= de los listados de stock.
type MaterialFilter struct {
	MaterialID *int64 `query:"material_id"`
}
