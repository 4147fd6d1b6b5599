package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo catálogo de materiales sobre PostgreSQL.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de materiales.
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, code, name, unit, pieces_per_unit, is_open_vial, managed_in_batch, track_status`

func scanMaterial(s scanner) (*entity.Material, error) {
	var m entity.Material
	if err := s.Scan(&m.ID, &m.Code, &m.Name, &m.Unit, &m.PiecesPerUnit,
		&m.IsOpenVial, &m.ManagedInBatch, &m.TrackStatus); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID obtiene un material. Devuelve nil, nil si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// GetByIDs materiales encontrados indexados por id; los ids inexistentes se omiten.
func (r *MaterialRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Material, error) {
	out := make(map[int64]*entity.Material, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out[m.ID] = m
	}
	return out, rows.Err()
}
