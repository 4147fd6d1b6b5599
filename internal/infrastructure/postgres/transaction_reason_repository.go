package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

var _ repository.TransactionReasonRepository = (*TransactionReasonRepo)(nil)

// TransactionReasonRepo catálogo de motivos (sembrado por cmd/seed_reasons).
type TransactionReasonRepo struct {
	q Querier
}

// NewTransactionReasonRepository construye el adaptador de motivos.
func NewTransactionReasonRepository(q Querier) *TransactionReasonRepo {
	return &TransactionReasonRepo{q: q}
}

// GetByID obtiene un motivo. Devuelve nil, nil si no existe.
func (r *TransactionReasonRepo) GetByID(ctx context.Context, id int64) (*entity.TransactionReason, error) {
	var tr entity.TransactionReason
	err := r.q.QueryRow(ctx, `
		SELECT id, transaction_type, title, is_other, is_purchase
		FROM transaction_reasons WHERE id = $1`, id,
	).Scan(&tr.ID, &tr.Type, &tr.Title, &tr.IsOther, &tr.IsPurchase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction reason: %w", err)
	}
	return &tr, nil
}

// ListByType motivos de un tipo; "otro" siempre al final.
func (r *TransactionReasonRepo) ListByType(ctx context.Context, t entity.TransactionType) ([]*entity.TransactionReason, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, transaction_type, title, is_other, is_purchase
		FROM transaction_reasons WHERE transaction_type = $1
		ORDER BY is_other, id`, t)
	if err != nil {
		return nil, fmt.Errorf("list transaction reasons: %w", err)
	}
	defer rows.Close()
	var out []*entity.TransactionReason
	for rows.Next() {
		var tr entity.TransactionReason
		if err := rows.Scan(&tr.ID, &tr.Type, &tr.Title, &tr.IsOther, &tr.IsPurchase); err != nil {
			return nil, fmt.Errorf("scan transaction reason: %w", err)
		}
		out = append(out, &tr)
	}
	return out, rows.Err()
}
