package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

var _ repository.DisposalStockRepository = (*DisposalStockRepo)(nil)

// DisposalStockRepo pendiente de disposición por (entidad, stock, motivo).
type DisposalStockRepo struct {
	q Querier
}

// NewDisposalStockRepository construye el adaptador.
func NewDisposalStockRepository(q Querier) *DisposalStockRepo {
	return &DisposalStockRepo{q: q}
}

const disposalStockSelect = `
	SELECT d.entity_id, d.stock_id, d.material_id, d.transaction_reason_id, d.discard_qty, d.received_qty, d.updated_at,
	       b.id, b.code, b.expired_date, b.production_date, b.manufacturer
	FROM disposal_stocks d
	JOIN stocks s ON s.id = d.stock_id
	LEFT JOIN batches b ON b.id = s.batch_id`

func scanDisposalStock(s scanner) (*entity.DisposalStock, error) {
	var ds entity.DisposalStock
	var b batchColumns
	dest := append([]any{&ds.EntityID, &ds.StockID, &ds.MaterialID, &ds.ReasonID,
		&ds.DiscardQty, &ds.ReceivedQty, &ds.UpdatedAt}, b.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	ds.Batch = b.batch()
	return &ds, nil
}

// List pendientes con cantidad > 0 de la entidad.
func (r *DisposalStockRepo) List(ctx context.Context, entityID string, materialID *int64) ([]*entity.DisposalStock, error) {
	query := disposalStockSelect + `
		WHERE d.entity_id = $1 AND ($2::bigint IS NULL OR d.material_id = $2)
		  AND (d.discard_qty > 0 OR d.received_qty > 0)
		ORDER BY d.material_id, d.stock_id, d.transaction_reason_id`
	rows, err := r.q.Query(ctx, query, entityID, materialID)
	if err != nil {
		return nil, fmt.Errorf("list disposal stocks: %w", err)
	}
	defer rows.Close()
	var out []*entity.DisposalStock
	for rows.Next() {
		ds, err := scanDisposalStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan disposal stock: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// GetForUpdate bloquea el registro; si no existe devuelve uno en cero (se crea en Upsert).
func (r *DisposalStockRepo) GetForUpdate(ctx context.Context, entityID string, stockID, reasonID int64) (*entity.DisposalStock, error) {
	query := disposalStockSelect + `
		WHERE d.entity_id = $1 AND d.stock_id = $2 AND d.transaction_reason_id = $3
		FOR UPDATE OF d`
	ds, err := scanDisposalStock(r.q.QueryRow(ctx, query, entityID, stockID, reasonID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.DisposalStock{
				EntityID:    entityID,
				StockID:     stockID,
				ReasonID:    reasonID,
				DiscardQty:  decimal.Zero,
				ReceivedQty: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get disposal stock for update: %w", err)
	}
	return ds, nil
}

// Upsert inserta o actualiza las cantidades pendientes.
func (r *DisposalStockRepo) Upsert(ctx context.Context, ds *entity.DisposalStock) error {
	query := `
		INSERT INTO disposal_stocks (entity_id, stock_id, transaction_reason_id, material_id, discard_qty, received_qty, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (entity_id, stock_id, transaction_reason_id)
		DO UPDATE SET discard_qty = EXCLUDED.discard_qty, received_qty = EXCLUDED.received_qty,
		              updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, ds.EntityID, ds.StockID, ds.ReasonID, ds.MaterialID,
		ds.DiscardQty, ds.ReceivedQty, ds.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert disposal stock: %w", err)
	}
	return nil
}
