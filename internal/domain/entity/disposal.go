package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un envío de disposición.
const (
	ShipmentStatusShipped   = "shipped"
	ShipmentStatusReceived  = "received"
	ShipmentStatusCancelled = "cancelled"
)

// DisposalStock material pendiente de disposición en una entidad, por stock y motivo.
// DiscardQty proviene de descartes propios; ReceivedQty de envíos recibidos de otras entidades.
type DisposalStock struct {
	StockID     int64
	EntityID    string
	MaterialID  int64
	Batch       *Batch
	ReasonID    int64
	DiscardQty  decimal.Decimal
	ReceivedQty decimal.Decimal
	UpdatedAt   time.Time
}

// Total cantidad total pendiente de disposición.
func (d *DisposalStock) Total() decimal.Decimal {
	return d.DiscardQty.Add(d.ReceivedQty)
}

// DisposalItemStock línea por stock/motivo dentro de un ítem de disposición.
type DisposalItemStock struct {
	StockID     int64           `json:"disposal_stock_id"`
	Batch       *Batch          `json:"batch"`
	ReasonID    int64           `json:"transaction_reason_id"`
	DiscardQty  decimal.Decimal `json:"disposal_discard_qty"`
	ReceivedQty decimal.Decimal `json:"disposal_received_qty"`
}

// DisposalItem ítem agrupado por material listo para enviarse o persistirse.
type DisposalItem struct {
	MaterialID int64               `json:"material_id"`
	TotalQty   decimal.Decimal     `json:"qty"`
	Stocks     []DisposalItemStock `json:"disposal_stocks"`
}

// SelfDisposal disposición realizada por la misma entidad.
type SelfDisposal struct {
	ID           string
	EntityID     string
	Method       string // incineración, autoclave, etc.
	ReportNumber string
	Comment      string
	Items        []DisposalItem
	CreatedBy    string
	CreatedAt    time.Time
}

// DisposalShipment envío de material de disposición a otra entidad.
type DisposalShipment struct {
	ID           string
	SenderID     string
	ReceiverID   string
	Status       string
	ReportNumber string
	Comment      string
	CancelReason string
	Items        []DisposalItem
	CreatedBy    string
	ShippedAt    time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
}
