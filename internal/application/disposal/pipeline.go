package disposal

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	dispdomain "github.com/jhoicas/Logistica-vacunas-api/internal/domain/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/validation"
)

// pendingLookup devuelve el pendiente de disposición de (stock, motivo); nunca nil.
type pendingLookup func(ctx context.Context, stockID, reasonID int64) (*entity.DisposalStock, error)

// consumed bucket validado junto al registro pendiente del que se descuenta.
type consumed struct {
	bucket  *dispdomain.Bucket
	pending *entity.DisposalStock
}

// plan resultado de agregar+validar+ensamblar.
type plan struct {
	items []entity.DisposalItem
	used  []consumed
}

func (p *plan) total() decimal.Decimal {
	return dispdomain.TotalQty(p.items)
}

// consume descuenta de cada pendiente lo que se dispone.
func (p *plan) consume(ctx context.Context, r repository.Repos, now time.Time) error {
	for _, c := range p.used {
		c.pending.DiscardQty = c.pending.DiscardQty.Sub(c.bucket.DiscardQty)
		c.pending.ReceivedQty = c.pending.ReceivedQty.Sub(c.bucket.ReceivedQty)
		if c.pending.DiscardQty.IsNegative() || c.pending.ReceivedQty.IsNegative() {
			return domain.ErrInsufficientStock
		}
		c.pending.UpdatedAt = now
		if err := r.DisposalStocks.Upsert(ctx, c.pending); err != nil {
			return err
		}
	}
	return nil
}

// buildLocked arma el plan bloqueando cada pendiente (SELECT FOR UPDATE) dentro de la tx.
func (uc *UseCase) buildLocked(ctx context.Context, r repository.Repos, entityID string, items []dto.DisposalItemRequest) (*plan, error) {
	return uc.build(ctx, func(ctx context.Context, stockID, reasonID int64) (*entity.DisposalStock, error) {
		return r.DisposalStocks.GetForUpdate(ctx, entityID, stockID, reasonID)
	}, items)
}

// materialEntries entradas de un material (las repeticiones del mismo material se concatenan).
type materialEntries struct {
	materialID int64
	discard    []dispdomain.LineItemEntry
	received   []dispdomain.LineItemEntry
}

func groupByMaterial(items []dto.DisposalItemRequest) []*materialEntries {
	var out []*materialEntries
	index := make(map[int64]*materialEntries)
	for _, it := range items {
		m, ok := index[it.MaterialID]
		if !ok {
			m = &materialEntries{materialID: it.MaterialID}
			index[it.MaterialID] = m
			out = append(out, m)
		}
		m.discard = append(m.discard, it.Discard...)
		m.received = append(m.received, it.Received...)
	}
	return out
}

// build: Aggregate por material → validación de cada bucket contra su pendiente → Assemble.
// Los errores de campo usan rutas "items.<material_id>.stocks.<stock_motivo>.<campo>".
func (uc *UseCase) build(ctx context.Context, lookup pendingLookup, items []dto.DisposalItemRequest) (*plan, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	groups := groupByMaterial(items)
	ids := make([]int64, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.materialID)
	}
	materials, err := uc.materials.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var errs validation.Errors
	p := &plan{}
	assembled := make([]dispdomain.MaterialBuckets, 0, len(groups))
	for _, g := range groups {
		prefix := "items." + strconv.FormatInt(g.materialID, 10)
		material, ok := materials[g.materialID]
		if !ok {
			errs.Add(&validation.FieldError{Field: prefix + ".material_id", Code: validation.CodeInvalid})
			continue
		}

		buckets := dispdomain.Aggregate(g.discard, g.received)
		batches := make(map[int64]*entity.Batch, buckets.Len())
		total := decimal.Zero
		for _, b := range buckets.All() {
			bucketPrefix := prefix + ".stocks." + dispdomain.GroupKey(b.StockID, b.ReasonID)
			pending, err := lookup(ctx, b.StockID, b.ReasonID)
			if err != nil {
				return nil, err
			}
			if pending.MaterialID != 0 && pending.MaterialID != g.materialID {
				errs.Add(&validation.FieldError{Field: bucketPrefix + ".stock_id", Code: validation.CodeInvalid})
				continue
			}
			errs.Merge(bucketPrefix, validation.ValidateDisposalStock(validation.DisposalStockInput{
				DiscardQty:        b.DiscardQty,
				ReceivedQty:       b.ReceivedQty,
				AvailableDiscard:  pending.DiscardQty,
				AvailableReceived: pending.ReceivedQty,
				PackagingUnit:     material.PackagingUnit(),
			}))
			if pending.Batch != nil {
				batches[b.StockID] = pending.Batch
			}
			pending.MaterialID = g.materialID
			total = total.Add(b.Total())
			p.used = append(p.used, consumed{bucket: b, pending: pending})
		}
		if !total.IsPositive() {
			errs.Add(&validation.FieldError{Field: prefix + ".qty", Code: validation.CodeRequired})
		}
		assembled = append(assembled, dispdomain.MaterialBuckets{
			MaterialID: g.materialID,
			Buckets:    buckets,
			Batches:    batches,
		})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	p.items = dispdomain.Assemble(assembled)
	return p, nil
}
