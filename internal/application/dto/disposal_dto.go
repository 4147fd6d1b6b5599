package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
)

// DisposalItemRequest entradas capturadas para un material: descartes y recibidos por stock/motivo.
type DisposalItemRequest struct {
	MaterialID int64                    `json:"material_id" validate:"required"`
	Discard    []disposal.LineItemEntry `json:"discard"`
	Received   []disposal.LineItemEntry `json:"received"`
}

// CreateSelfDisposalRequest body para POST /api/disposals/self.
type CreateSelfDisposalRequest struct {
	Method       string                `json:"method" validate:"required,max=100"`
	ReportNumber string                `json:"report_number" validate:"required,max=100"`
	Comment      string                `json:"comment" validate:"max=500"`
	Items        []DisposalItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateShipmentRequest body para POST /api/disposals/shipments.
type CreateShipmentRequest struct {
	ReceiverID   string                `json:"receiver_id" validate:"required"`
	ReportNumber string                `json:"report_number" validate:"required,max=100"`
	Comment      string                `json:"comment" validate:"max=500"`
	Items        []DisposalItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CancelRequest body para cancelar envíos y pedidos.
type CancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// DisposalStockResponse pendiente de disposición por stock/motivo.
type DisposalStockResponse struct {
	StockID     int64           `json:"stock_id"`
	MaterialID  int64           `json:"material_id"`
	Batch       *entity.Batch   `json:"batch"`
	ReasonID    int64           `json:"transaction_reason_id"`
	DiscardQty  decimal.Decimal `json:"disposal_discard_qty"`
	ReceivedQty decimal.Decimal `json:"disposal_received_qty"`
	TotalQty    decimal.Decimal `json:"total_qty"`
}

// DisposalPreviewResponse resultado de agregar+ensamblar sin persistir.
type DisposalPreviewResponse struct {
	Items    []entity.DisposalItem `json:"items"`
	TotalQty decimal.Decimal       `json:"total_qty"`
}

// SelfDisposalResponse disposición propia creada.
type SelfDisposalResponse struct {
	ID           string                `json:"id"`
	Method       string                `json:"method"`
	ReportNumber string                `json:"report_number"`
	Comment      string                `json:"comment,omitempty"`
	Items        []entity.DisposalItem `json:"items"`
	TotalQty     decimal.Decimal       `json:"total_qty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ShipmentResponse envío de disposición.
type ShipmentResponse struct {
	ID           string                `json:"id"`
	SenderID     string                `json:"sender_id"`
	ReceiverID   string                `json:"receiver_id"`
	Status       string                `json:"status"`
	ReportNumber string                `json:"report_number"`
	Comment      string                `json:"comment,omitempty"`
	CancelReason string                `json:"cancel_reason,omitempty"`
	Items        []entity.DisposalItem `json:"items"`
	TotalQty     decimal.Decimal       `json:"total_qty"`
	ShippedAt    time.Time             `json:"shipped_at"`
	ReceivedAt   *time.Time            `json:"received_at,omitempty"`
	CancelledAt  *time.Time            `json:"cancelled_at,omitempty"`
}

// ShipmentListResponse listado paginado de envíos.
type ShipmentListResponse struct {
	Items []ShipmentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
