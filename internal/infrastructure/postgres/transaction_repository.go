package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo historial de transacciones de stock.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de transacciones.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste una transacción aplicada.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, entity_id, material_id, stock_id, transaction_type, transaction_reason_id, other_reason,
			material_status, change_qty, open_vial_qty, close_vial_qty, stock_before, stock_after,
			created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.EntityID, t.MaterialID, t.StockID, t.Type, t.ReasonID, t.OtherReason,
		t.StatusID, t.ChangeQty, t.OpenVialQty, t.CloseVialQty, t.StockBefore, t.StockAfter,
		t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List transacciones de la entidad (más recientes primero) y el total sin paginar.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	where := `WHERE entity_id = $1
		AND ($2::bigint IS NULL OR material_id = $2)
		AND ($3::text = '' OR transaction_type = $3)`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM transactions `+where,
		f.EntityID, f.MaterialID, string(f.Type)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `
		SELECT id, entity_id, material_id, stock_id, transaction_type, transaction_reason_id,
		       COALESCE(other_reason, ''), material_status, change_qty, open_vial_qty, close_vial_qty,
		       stock_before, stock_after, created_by, created_at
		FROM transactions ` + where + `
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.EntityID, f.MaterialID, string(f.Type), f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var out []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(
			&t.ID, &t.EntityID, &t.MaterialID, &t.StockID, &t.Type, &t.ReasonID,
			&t.OtherReason, &t.StatusID, &t.ChangeQty, &t.OpenVialQty, &t.CloseVialQty,
			&t.StockBefore, &t.StockAfter, &t.CreatedBy, &t.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, &t)
	}
	return out, total, rows.Err()
}
