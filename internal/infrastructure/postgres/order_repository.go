package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos con ítems (order_items) y asignaciones por stock (order_allocations).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderSelect = `
	SELECT id, order_type, status, vendor_id, customer_id, COALESCE(cancel_reason, ''), created_by,
	       created_at, updated_at, shipped_at, received_at
	FROM orders`

func scanOrder(s scanner) (*entity.Order, error) {
	var o entity.Order
	if err := s.Scan(&o.ID, &o.Type, &o.Status, &o.VendorID, &o.CustomerID, &o.CancelReason,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt, &o.ShippedAt, &o.ReceivedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta el pedido y sus ítems.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (
			id, order_type, status, vendor_id, customer_id, cancel_reason, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)`
	if _, err := r.q.Exec(ctx, query, o.ID, o.Type, o.Status, o.VendorID, o.CustomerID,
		o.CancelReason, o.CreatedBy, o.CreatedAt, o.UpdatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItems(ctx, o)
}

func (r *OrderRepo) insertItems(ctx context.Context, o *entity.Order) error {
	for _, it := range o.Items {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO order_items (order_id, material_id, requested_qty, confirmed_qty)
			VALUES ($1, $2, $3, $4)`, o.ID, it.MaterialID, it.RequestedQty, it.ConfirmedQty); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		for _, a := range it.Allocations {
			if _, err := r.q.Exec(ctx, `
				INSERT INTO order_allocations (order_id, material_id, stock_id, qty, received_qty)
				VALUES ($1, $2, $3, $4, $5)`, o.ID, it.MaterialID, a.StockID, a.Qty, a.ReceivedQty); err != nil {
				return fmt.Errorf("insert order allocation: %w", err)
			}
		}
	}
	return nil
}

func (r *OrderRepo) getOne(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID obtiene el pedido con ítems y asignaciones. Devuelve nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea el pedido.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, orderSelect+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) loadItems(ctx context.Context, o *entity.Order) error {
	rows, err := r.q.Query(ctx, `
		SELECT material_id, requested_qty, confirmed_qty
		FROM order_items WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	index := make(map[int64]int)
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.MaterialID, &it.RequestedQty, &it.ConfirmedQty); err != nil {
			rows.Close()
			return fmt.Errorf("scan order item: %w", err)
		}
		index[it.MaterialID] = len(o.Items)
		o.Items = append(o.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list order items: %w", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT a.material_id, a.stock_id, a.qty, a.received_qty,
		       b.id, b.code, b.expired_date, b.production_date, b.manufacturer
		FROM order_allocations a
		JOIN stocks s ON s.id = a.stock_id
		LEFT JOIN batches b ON b.id = s.batch_id
		WHERE a.order_id = $1
		ORDER BY a.position`, o.ID)
	if err != nil {
		return fmt.Errorf("list order allocations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var materialID int64
		var a entity.Allocation
		var b batchColumns
		dest := append([]any{&materialID, &a.StockID, &a.Qty, &a.ReceivedQty}, b.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan order allocation: %w", err)
		}
		a.Batch = b.batch()
		if i, ok := index[materialID]; ok {
			o.Items[i].Allocations = append(o.Items[i].Allocations, a)
		}
	}
	return rows.Err()
}

// Update reescribe cabecera, ítems y asignaciones.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $2, cancel_reason = NULLIF($3, ''), updated_at = $4, shipped_at = $5, received_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, o.Status, o.CancelReason, o.UpdatedAt, o.ShippedAt, o.ReceivedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order %s: %w", o.ID, pgx.ErrNoRows)
	}
	// order_allocations cae en cascada
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return r.insertItems(ctx, o)
}

// List pedidos donde la entidad es proveedor o cliente, sin ítems. Los borradores solo los ve
// la parte que los crea: el cliente en solicitudes, el proveedor en el resto.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	where := ` WHERE (vendor_id = $1 OR customer_id = $1) AND ($2::text = '' OR status = $2)
		AND (status <> 'draft'
			OR (type = 'request' AND customer_id = $1)
			OR (type <> 'request' AND vendor_id = $1))`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM orders`+where, f.EntityID, f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	rows, err := r.q.Query(ctx, orderSelect+where+`
		ORDER BY updated_at DESC, id
		LIMIT $3 OFFSET $4`, f.EntityID, f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}
