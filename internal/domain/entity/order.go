package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de orden.
const (
	OrderTypeRequest      = "request"      // el cliente solicita al proveedor
	OrderTypeDistribution = "distribution" // el proveedor distribuye al cliente
	OrderTypeReturn       = "return"
)

// Order pedido entre una entidad proveedora (vendor) y una cliente (customer).
type Order struct {
	ID           string
	Type         string
	Status       string
	VendorID     string
	CustomerID   string
	Items        []OrderItem
	CancelReason string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ShippedAt    *time.Time
	ReceivedAt   *time.Time
}

// OrderItem línea del pedido.
type OrderItem struct {
	MaterialID   int64
	RequestedQty decimal.Decimal
	ConfirmedQty decimal.Decimal
	Allocations  []Allocation
}

// AllocatedQty suma de las asignaciones del ítem.
func (i *OrderItem) AllocatedQty() decimal.Decimal {
	total := decimal.Zero
	for _, a := range i.Allocations {
		total = total.Add(a.Qty)
	}
	return total
}

// ReceivedQty suma de lo recibido en las asignaciones.
func (i *OrderItem) ReceivedQty() decimal.Decimal {
	total := decimal.Zero
	for _, a := range i.Allocations {
		total = total.Add(a.ReceivedQty)
	}
	return total
}

// Allocation cantidad de un stock concreto del proveedor asignada a un ítem.
type Allocation struct {
	StockID     int64
	Batch       *Batch
	Qty         decimal.Decimal
	ReceivedQty decimal.Decimal
}
