package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

var _ repository.DisposalRepository = (*DisposalRepo)(nil)

// isDuplicateReport el número de acta ya existe para la entidad (unique_violation 23505).
func isDuplicateReport(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// DisposalRepo disposiciones propias y envíos. Los ítems se guardan como JSONB con la misma
// forma que se expone en la API (material, total, stocks por motivo).
type DisposalRepo struct {
	q Querier
}

// NewDisposalRepository construye el adaptador.
func NewDisposalRepository(q Querier) *DisposalRepo {
	return &DisposalRepo{q: q}
}

// CreateSelfDisposal persiste una disposición propia.
func (r *DisposalRepo) CreateSelfDisposal(ctx context.Context, d *entity.SelfDisposal) error {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return fmt.Errorf("marshal disposal items: %w", err)
	}
	query := `
		INSERT INTO self_disposals (id, entity_id, method, report_number, comment, items, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.q.Exec(ctx, query, d.ID, d.EntityID, d.Method, d.ReportNumber, d.Comment,
		items, d.CreatedBy, d.CreatedAt); err != nil {
		if isDuplicateReport(err) {
			return fmt.Errorf("insert self disposal: report %q duplicado: %w", d.ReportNumber, domain.ErrConflict)
		}
		return fmt.Errorf("insert self disposal: %w", err)
	}
	return nil
}

// CreateShipment persiste un envío en estado shipped.
func (r *DisposalRepo) CreateShipment(ctx context.Context, s *entity.DisposalShipment) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("marshal shipment items: %w", err)
	}
	query := `
		INSERT INTO disposal_shipments (
			id, sender_id, receiver_id, status, report_number, comment, items, created_by, shipped_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.SenderID, s.ReceiverID, s.Status, s.ReportNumber,
		s.Comment, items, s.CreatedBy, s.ShippedAt); err != nil {
		if isDuplicateReport(err) {
			return fmt.Errorf("insert shipment: report %q duplicado: %w", s.ReportNumber, domain.ErrConflict)
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

const shipmentSelect = `
	SELECT id, sender_id, receiver_id, status, report_number, COALESCE(comment, ''), COALESCE(cancel_reason, ''),
	       items, created_by, shipped_at, received_at, cancelled_at
	FROM disposal_shipments`

func scanShipment(s scanner) (*entity.DisposalShipment, error) {
	var sh entity.DisposalShipment
	var items []byte
	if err := s.Scan(&sh.ID, &sh.SenderID, &sh.ReceiverID, &sh.Status, &sh.ReportNumber, &sh.Comment,
		&sh.CancelReason, &items, &sh.CreatedBy, &sh.ShippedAt, &sh.ReceivedAt, &sh.CancelledAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &sh.Items); err != nil {
		return nil, fmt.Errorf("unmarshal shipment items: %w", err)
	}
	return &sh, nil
}

func (r *DisposalRepo) getShipment(ctx context.Context, query string, id string) (*entity.DisposalShipment, error) {
	sh, err := scanShipment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return sh, nil
}

// GetShipment obtiene un envío. Devuelve nil, nil si no existe.
func (r *DisposalRepo) GetShipment(ctx context.Context, id string) (*entity.DisposalShipment, error) {
	return r.getShipment(ctx, shipmentSelect+` WHERE id = $1`, id)
}

// GetShipmentForUpdate obtiene y bloquea un envío.
func (r *DisposalRepo) GetShipmentForUpdate(ctx context.Context, id string) (*entity.DisposalShipment, error) {
	return r.getShipment(ctx, shipmentSelect+` WHERE id = $1 FOR UPDATE`, id)
}

// UpdateShipmentStatus guarda estado, motivo de cancelación y fechas.
func (r *DisposalRepo) UpdateShipmentStatus(ctx context.Context, s *entity.DisposalShipment) error {
	query := `
		UPDATE disposal_shipments
		SET status = $2, cancel_reason = NULLIF($3, ''), received_at = $4, cancelled_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Status, s.CancelReason, s.ReceivedAt, s.CancelledAt)
	if err != nil {
		return fmt.Errorf("update shipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update shipment %s: %w", s.ID, pgx.ErrNoRows)
	}
	return nil
}

// ListShipments envíos donde la entidad es emisora o receptora, más recientes primero.
func (r *DisposalRepo) ListShipments(ctx context.Context, entityID string, limit, offset int) ([]*entity.DisposalShipment, int, error) {
	var total int
	if err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM disposal_shipments WHERE sender_id = $1 OR receiver_id = $1`, entityID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count shipments: %w", err)
	}
	rows, err := r.q.Query(ctx, shipmentSelect+`
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY shipped_at DESC, id
		LIMIT $2 OFFSET $3`, entityID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	var out []*entity.DisposalShipment
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan shipment: %w", err)
		}
		out = append(out, sh)
	}
	return out, total, rows.Err()
}
