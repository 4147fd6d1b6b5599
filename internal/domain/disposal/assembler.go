package disposal

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
)

// MaterialBuckets buckets agregados de un material más el lote conocido de cada stock.
type MaterialBuckets struct {
	MaterialID int64
	Buckets    *Buckets
	Batches    map[int64]*entity.Batch // stock_id → lote (ausente = sin lote)
}

// Assemble convierte los buckets de cada material en los ítems de disposición.
// TotalQty = Σ(descarte + recibido) de los buckets del material. El lote se copia tal cual
// y queda nil cuando el stock no tiene lote. El orden de salida es el de la entrada.
func Assemble(materials []MaterialBuckets) []entity.DisposalItem {
	items := make([]entity.DisposalItem, 0, len(materials))
	for _, m := range materials {
		item := entity.DisposalItem{
			MaterialID: m.MaterialID,
			TotalQty:   decimal.Zero,
			Stocks:     []entity.DisposalItemStock{},
		}
		if m.Buckets != nil {
			for _, b := range m.Buckets.All() {
				item.TotalQty = item.TotalQty.Add(b.Total())
				item.Stocks = append(item.Stocks, entity.DisposalItemStock{
					StockID:     b.StockID,
					Batch:       m.Batches[b.StockID],
					ReasonID:    b.ReasonID,
					DiscardQty:  b.DiscardQty,
					ReceivedQty: b.ReceivedQty,
				})
			}
		}
		items = append(items, item)
	}
	return items
}

// TotalQty suma de TotalQty de todos los ítems.
func TotalQty(items []entity.DisposalItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalQty)
	}
	return total
}
