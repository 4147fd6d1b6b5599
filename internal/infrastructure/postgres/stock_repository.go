package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockSelect = `
	SELECT s.id, s.entity_id, s.material_id, s.qty, s.allocated_qty, s.open_vial_qty, s.updated_at,
	       b.id, b.code, b.expired_date, b.production_date, b.manufacturer
	FROM stocks s
	LEFT JOIN batches b ON b.id = s.batch_id`

// batchColumns destinos nulos del LEFT JOIN de lotes.
type batchColumns struct {
	id           *int64
	code         *string
	expired      *time.Time
	production   *time.Time
	manufacturer *string
}

func (b *batchColumns) dest() []any {
	return []any{&b.id, &b.code, &b.expired, &b.production, &b.manufacturer}
}

func (b *batchColumns) batch() *entity.Batch {
	if b.id == nil {
		return nil
	}
	out := &entity.Batch{ID: *b.id, ExpiredDate: b.expired, ProductionDate: b.production}
	if b.code != nil {
		out.Code = *b.code
	}
	if b.manufacturer != nil {
		out.Manufacturer = *b.manufacturer
	}
	return out
}

func scanStock(s scanner) (*entity.Stock, error) {
	var st entity.Stock
	var b batchColumns
	dest := append([]any{&st.ID, &st.EntityID, &st.MaterialID, &st.Qty, &st.AllocatedQty,
		&st.OpenVialQty, &st.UpdatedAt}, b.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	st.Batch = b.batch()
	return &st, nil
}

func (r *StockRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Stock, error) {
	st, err := scanStock(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return st, nil
}

// GetByID obtiene un stock. Devuelve nil, nil si no existe.
func (r *StockRepo) GetByID(ctx context.Context, id int64) (*entity.Stock, error) {
	return r.getOne(ctx, stockSelect+` WHERE s.id = $1`, id)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Stock, error) {
	return r.getOne(ctx, stockSelect+` WHERE s.id = $1 FOR UPDATE OF s`, id)
}

// List stock de la entidad ordenado por material y vencimiento del lote (FEFO).
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter) ([]*entity.Stock, error) {
	query := stockSelect + ` WHERE s.entity_id = $1 AND ($2::bigint IS NULL OR s.material_id = $2)
		ORDER BY s.material_id, b.expired_date NULLS LAST, s.id`
	rows, err := r.q.Query(ctx, query, f.EntityID, f.MaterialID)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	var out []*entity.Stock
	for rows.Next() {
		st, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Update guarda cantidades del stock.
func (r *StockRepo) Update(ctx context.Context, stock *entity.Stock) error {
	query := `
		UPDATE stocks SET qty = $2, allocated_qty = $3, open_vial_qty = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, stock.ID, stock.Qty, stock.AllocatedQty, stock.OpenVialQty, stock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock %d: %w", stock.ID, pgx.ErrNoRows)
	}
	return nil
}

// FindOrCreate obtiene (bloqueando) el stock del material/lote en la entidad o lo crea en cero.
func (r *StockRepo) FindOrCreate(ctx context.Context, entityID string, materialID int64, batch *entity.Batch) (*entity.Stock, error) {
	var batchID *int64
	if batch != nil {
		batchID = &batch.ID
	}
	st, err := r.getOne(ctx, stockSelect+`
		WHERE s.entity_id = $1 AND s.material_id = $2 AND s.batch_id IS NOT DISTINCT FROM $3
		FOR UPDATE OF s`, entityID, materialID, batchID)
	if err != nil || st != nil {
		return st, err
	}

	query := `
		INSERT INTO stocks (entity_id, material_id, batch_id, qty, allocated_qty, open_vial_qty, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, now())
		RETURNING id, qty, allocated_qty, open_vial_qty, updated_at`
	st = &entity.Stock{EntityID: entityID, MaterialID: materialID, Batch: batch}
	if err := r.q.QueryRow(ctx, query, entityID, materialID, batchID).Scan(
		&st.ID, &st.Qty, &st.AllocatedQty, &st.OpenVialQty, &st.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}
	return st, nil
}
