package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
)

// OrderItemRequest ítem solicitado.
type OrderItemRequest struct {
	MaterialID int64           `json:"material_id" validate:"required"`
	Qty        decimal.Decimal `json:"qty"`
}

// CreateOrderRequest body para POST /api/orders. La entidad del usuario es el cliente en
// pedidos de solicitud y el proveedor en distribuciones.
type CreateOrderRequest struct {
	Type           string             `json:"type" validate:"required,oneof=request distribution return"`
	CounterpartyID string             `json:"counterparty_id" validate:"required"`
	Items          []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ConfirmItemRequest cantidad confirmada por el proveedor.
type ConfirmItemRequest struct {
	MaterialID   int64           `json:"material_id" validate:"required"`
	ConfirmedQty decimal.Decimal `json:"confirmed_qty"`
}

// ConfirmOrderRequest body para confirmar.
type ConfirmOrderRequest struct {
	Items []ConfirmItemRequest `json:"items" validate:"dive"`
}

// AllocationRequest asignación de un stock a un ítem.
type AllocationRequest struct {
	StockID int64           `json:"stock_id" validate:"required"`
	Qty     decimal.Decimal `json:"allocated_qty"`
}

// AllocateItemRequest asignaciones de un ítem.
type AllocateItemRequest struct {
	MaterialID  int64               `json:"material_id" validate:"required"`
	Allocations []AllocationRequest `json:"allocations" validate:"required,min=1,dive"`
}

// AllocateOrderRequest body para asignar.
type AllocateOrderRequest struct {
	Items []AllocateItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReceiveAllocationRequest cantidad recibida de una asignación.
type ReceiveAllocationRequest struct {
	MaterialID  int64           `json:"material_id" validate:"required"`
	StockID     int64           `json:"stock_id" validate:"required"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
}

// ReceiveOrderRequest body para recibir.
type ReceiveOrderRequest struct {
	Items []ReceiveAllocationRequest `json:"items" validate:"dive"`
}

// AllocationResponse asignación.
type AllocationResponse struct {
	StockID     int64           `json:"stock_id"`
	Batch       *entity.Batch   `json:"batch"`
	Qty         decimal.Decimal `json:"allocated_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
}

// OrderItemResponse ítem del pedido.
type OrderItemResponse struct {
	MaterialID   int64                `json:"material_id"`
	RequestedQty decimal.Decimal      `json:"requested_qty"`
	ConfirmedQty decimal.Decimal      `json:"confirmed_qty"`
	AllocatedQty decimal.Decimal      `json:"allocated_qty"`
	ReceivedQty  decimal.Decimal      `json:"received_qty"`
	Allocations  []AllocationResponse `json:"allocations"`
}

// OrderResponse pedido.
type OrderResponse struct {
	ID           string              `json:"id"`
	Type         string              `json:"type"`
	Status       string              `json:"status"`
	VendorID     string              `json:"vendor_id"`
	CustomerID   string              `json:"customer_id"`
	Items        []OrderItemResponse `json:"items"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	Actions      []string            `json:"actions"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	ShippedAt    *time.Time          `json:"shipped_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
}

// OrderListResponse listado paginado.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// EditOrderRequest body para PUT /api/orders/:id (reemplaza los ítems del borrador).
type EditOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}
