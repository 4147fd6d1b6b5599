// Package disposal agrupa las líneas de descarte/recepción capturadas por stock y motivo
// y las transforma en los ítems que se envían o persisten.
//
// Flujo: entradas por motivo → Aggregate (GroupKey stock_motivo) → validación →
// Assemble (total por material, lote sin cambios) → persistencia.
package disposal

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// LineItemEntry cantidad capturada para un stock y un motivo.
type LineItemEntry struct {
	StockID  int64           `json:"stock_id"`
	ReasonID int64           `json:"transaction_reason_id"`
	Qty      decimal.Decimal `json:"qty"`
}

// GroupKey identifica un bucket de agregación: "<stock_id>_<transaction_reason_id>".
func GroupKey(stockID, reasonID int64) string {
	return strconv.FormatInt(stockID, 10) + "_" + strconv.FormatInt(reasonID, 10)
}

// Bucket totales agregados para un par (stock, motivo).
type Bucket struct {
	StockID     int64
	ReasonID    int64
	DiscardQty  decimal.Decimal
	ReceivedQty decimal.Decimal
}

// Total descarte + recibido.
func (b *Bucket) Total() decimal.Decimal {
	return b.DiscardQty.Add(b.ReceivedQty)
}

// Buckets mapa GroupKey → Bucket que conserva el orden de primera aparición.
type Buckets struct {
	keys  []string
	byKey map[string]*Bucket
}

// NewBuckets crea un mapa vacío.
func NewBuckets() *Buckets {
	return &Buckets{byKey: make(map[string]*Bucket)}
}

// Aggregate recorre una vez cada secuencia y suma cada entrada en el bucket de su par
// (stock, motivo). Los pares repetidos se fusionan sumando; nunca se sobrescriben.
// No filtra cantidades negativas: eso corresponde a la validación.
func Aggregate(discard, received []LineItemEntry) *Buckets {
	b := NewBuckets()
	for _, e := range discard {
		bucket := b.bucket(e.StockID, e.ReasonID)
		bucket.DiscardQty = bucket.DiscardQty.Add(e.Qty)
	}
	for _, e := range received {
		bucket := b.bucket(e.StockID, e.ReasonID)
		bucket.ReceivedQty = bucket.ReceivedQty.Add(e.Qty)
	}
	return b
}

func (b *Buckets) bucket(stockID, reasonID int64) *Bucket {
	key := GroupKey(stockID, reasonID)
	if bucket, ok := b.byKey[key]; ok {
		return bucket
	}
	bucket := &Bucket{
		StockID:     stockID,
		ReasonID:    reasonID,
		DiscardQty:  decimal.Zero,
		ReceivedQty: decimal.Zero,
	}
	b.byKey[key] = bucket
	b.keys = append(b.keys, key)
	return bucket
}

// Len número de buckets.
func (b *Buckets) Len() int { return len(b.keys) }

// Keys claves en orden de primera aparición.
func (b *Buckets) Keys() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Get devuelve el bucket de la clave, o nil.
func (b *Buckets) Get(key string) *Bucket {
	return b.byKey[key]
}

// All buckets en orden de primera aparición.
func (b *Buckets) All() []*Bucket {
	out := make([]*Bucket, 0, len(b.keys))
	for _, k := range b.keys {
		out = append(out, b.byKey[k])
	}
	return out
}

// TotalDiscard suma de DiscardQty de todos los buckets.
func (b *Buckets) TotalDiscard() decimal.Decimal {
	total := decimal.Zero
	for _, bucket := range b.byKey {
		total = total.Add(bucket.DiscardQty)
	}
	return total
}

// TotalReceived suma de ReceivedQty de todos los buckets.
func (b *Buckets) TotalReceived() decimal.Decimal {
	total := decimal.Zero
	for _, bucket := range b.byKey {
		total = total.Add(bucket.ReceivedQty)
	}
	return total
}
