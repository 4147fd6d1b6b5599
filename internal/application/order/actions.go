package order

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	orderdomain "github.com/jhoicas/Logistica-vacunas-api/internal/domain/order"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/validation"
)

// lockedStocks stocks ya bloqueados en la tx, por id.
type lockedStocks struct {
	r    repository.Repos
	byID map[int64]*entity.Stock
}

func newLockedStocks(r repository.Repos) *lockedStocks {
	return &lockedStocks{r: r, byID: make(map[int64]*entity.Stock)}
}

func (l *lockedStocks) get(ctx context.Context, id int64) (*entity.Stock, error) {
	if s, ok := l.byID[id]; ok {
		return s, nil
	}
	s, err := l.r.Stocks.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	l.byID[id] = s
	return s, nil
}

// save persiste todos los stocks modificados.
func (l *lockedStocks) save(ctx context.Context, o *entity.Order) error {
	for _, s := range l.byID {
		if s.Qty.IsNegative() || s.AllocatedQty.IsNegative() {
			return domain.ErrInsufficientStock
		}
		s.UpdatedAt = o.UpdatedAt
		if err := l.r.Stocks.Update(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// release libera las reservas de todas las asignaciones del pedido.
func (l *lockedStocks) release(ctx context.Context, o *entity.Order) error {
	for _, it := range o.Items {
		for _, a := range it.Allocations {
			s, err := l.get(ctx, a.StockID)
			if err != nil {
				return err
			}
			s.AllocatedQty = s.AllocatedQty.Sub(a.Qty)
		}
	}
	return nil
}

// Edit reemplaza los ítems de un borrador.
func (uc *UseCase) Edit(ctx context.Context, entityID, id string, items []dto.OrderItemRequest) (*dto.OrderResponse, error) {
	var errs validation.Errors
	if len(items) == 0 {
		errs.Add(&validation.FieldError{Field: "items", Code: validation.CodeRequired})
	}
	built, err := uc.buildItems(ctx, items, &errs)
	if err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return uc.transition(ctx, entityID, id, orderdomain.ActionEdit, func(_ repository.Repos, o *entity.Order) error {
		o.Items = built
		return nil
	})
}

// Submit envía el borrador a la contraparte (draft → pending).
func (uc *UseCase) Submit(ctx context.Context, entityID, id string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, entityID, id, orderdomain.ActionSubmit, func(_ repository.Repos, o *entity.Order) error {
		if len(o.Items) == 0 {
			return domain.ErrInvalidInput
		}
		return nil
	})
}

// Confirm el proveedor fija la cantidad confirmada de cada ítem; los ítems no enviados
// conservan la cantidad solicitada.
func (uc *UseCase) Confirm(ctx context.Context, entityID, id string, in dto.ConfirmOrderRequest) (*dto.OrderResponse, error) {
	return uc.transition(ctx, entityID, id, orderdomain.ActionConfirm, func(_ repository.Repos, o *entity.Order) error {
		materials, err := uc.orderMaterials(ctx, o)
		if err != nil {
			return err
		}
		confirmed := make(map[int64]decimal.Decimal, len(in.Items))
		var errs validation.Errors
		for _, c := range in.Items {
			prefix := itemPrefix(c.MaterialID)
			if _, dup := confirmed[c.MaterialID]; dup {
				errs.Add(&validation.FieldError{Field: prefix + ".material_id", Code: CodeDuplicate})
				continue
			}
			confirmed[c.MaterialID] = c.ConfirmedQty
			material, ok := materials[c.MaterialID]
			if !ok || findItem(o, c.MaterialID) == nil {
				errs.Add(&validation.FieldError{Field: prefix + ".material_id", Code: validation.CodeInvalid})
				continue
			}
			var itemErrs validation.Errors
			itemErrs.Add(validation.NonNegative("confirmed_qty", c.ConfirmedQty))
			itemErrs.Add(validation.MultipleOfUnit("confirmed_qty", c.ConfirmedQty, material.PackagingUnit()))
			errs.Merge(prefix, itemErrs)
		}
		if err := errs.Err(); err != nil {
			return err
		}
		for i := range o.Items {
			it := &o.Items[i]
			if q, ok := confirmed[it.MaterialID]; ok {
				it.ConfirmedQty = q
			} else {
				it.ConfirmedQty = it.RequestedQty
			}
		}
		return nil
	})
}

// Allocate el proveedor asigna stock propio a cada ítem y lo reserva. Reasignar libera
// primero las reservas anteriores. La suma asignada de cada ítem debe igualar lo confirmado.
func (uc *UseCase) Allocate(ctx context.Context, entityID, id string, in dto.AllocateOrderRequest) (*dto.OrderResponse, error) {
	return uc.transition(ctx, entityID, id, orderdomain.ActionAllocate, func(r repository.Repos, o *entity.Order) error {
		materials, err := uc.orderMaterials(ctx, o)
		if err != nil {
			return err
		}
		stocks := newLockedStocks(r)
		if err := stocks.release(ctx, o); err != nil {
			return err
		}

		byMaterial := make(map[int64]dto.AllocateItemRequest, len(in.Items))
		var errs validation.Errors
		for _, req := range in.Items {
			prefix := itemPrefix(req.MaterialID)
			if _, dup := byMaterial[req.MaterialID]; dup {
				errs.Add(&validation.FieldError{Field: prefix + ".material_id", Code: CodeDuplicate})
				continue
			}
			if findItem(o, req.MaterialID) == nil {
				errs.Add(&validation.FieldError{Field: prefix + ".material_id", Code: validation.CodeInvalid})
				continue
			}
			byMaterial[req.MaterialID] = req
		}

		for i := range o.Items {
			it := &o.Items[i]
			prefix := itemPrefix(it.MaterialID)
			req := byMaterial[it.MaterialID]
			allocations := make([]entity.Allocation, 0, len(req.Allocations))
			seen := make(map[int64]bool, len(req.Allocations))
			total := decimal.Zero
			for _, a := range req.Allocations {
				allocPrefix := prefix + ".allocations." + strconv.FormatInt(a.StockID, 10)
				if seen[a.StockID] {
					errs.Add(&validation.FieldError{Field: allocPrefix + ".stock_id", Code: CodeDuplicate})
					continue
				}
				seen[a.StockID] = true
				s, err := stocks.get(ctx, a.StockID)
				if err != nil {
					return err
				}
				if s.EntityID != o.VendorID || s.MaterialID != it.MaterialID {
					errs.Add(&validation.FieldError{Field: allocPrefix + ".stock_id", Code: validation.CodeInvalid})
					continue
				}
				errs.Merge(allocPrefix, validation.ValidateAllocation(validation.AllocationInput{
					Qty:           a.Qty,
					Available:     s.AvailableQty(),
					PackagingUnit: materials[it.MaterialID].PackagingUnit(),
				}))
				s.AllocatedQty = s.AllocatedQty.Add(a.Qty)
				total = total.Add(a.Qty)
				allocations = append(allocations, entity.Allocation{StockID: s.ID, Batch: s.Batch, Qty: a.Qty})
			}
			errs.Add(validation.ConfirmedTotal(prefix+".allocated_qty", total, it.ConfirmedQty))
			it.Allocations = allocations
		}
		if err := errs.Err(); err != nil {
			return err
		}
		o.UpdatedAt = uc.now()
		return stocks.save(ctx, o)
	})
}

// Ship el proveedor despacha: lo asignado sale de su stock y deja de estar reservado.
func (uc *UseCase) Ship(ctx context.Context, entityID, id string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, entityID, id, orderdomain.ActionShip, func(r repository.Repos, o *entity.Order) error {
		stocks := newLockedStocks(r)
		for _, it := range o.Items {
			for _, a := range it.Allocations {
				s, err := stocks.get(ctx, a.StockID)
				if err != nil {
					return err
				}
				s.Qty = s.Qty.Sub(a.Qty)
				s.AllocatedQty = s.AllocatedQty.Sub(a.Qty)
			}
		}
		now := uc.now()
		o.ShippedAt = &now
		o.UpdatedAt = now
		return stocks.save(ctx, o)
	})
}

// Receive el cliente registra lo recibido por asignación (≤ lo enviado) y lo suma a su stock
// del mismo lote. Asignaciones no informadas se reciben completas. Lo no recibido vuelve al
// stock de origen del proveedor.
func (uc *UseCase) Receive(ctx context.Context, entityID, id string, in dto.ReceiveOrderRequest) (*dto.OrderResponse, error) {
	return uc.transition(ctx, entityID, id, orderdomain.ActionReceive, func(r repository.Repos, o *entity.Order) error {
		type key struct{ material, stock int64 }
		received := make(map[key]decimal.Decimal, len(in.Items))
		for _, rq := range in.Items {
			received[key{rq.MaterialID, rq.StockID}] = rq.ReceivedQty
		}

		var errs validation.Errors
		now := uc.now()
		for i := range o.Items {
			it := &o.Items[i]
			for j := range it.Allocations {
				a := &it.Allocations[j]
				k := key{it.MaterialID, a.StockID}
				qty, ok := received[k]
				if !ok {
					qty = a.Qty
				}
				delete(received, k)
				var allocErrs validation.Errors
				allocErrs.Add(validation.NonNegative("received_qty", qty))
				allocErrs.Add(validation.NotExceeding("received_qty", qty, a.Qty))
				errs.Merge(itemPrefix(it.MaterialID)+".allocations."+strconv.FormatInt(a.StockID, 10), allocErrs)
				a.ReceivedQty = qty
			}
		}
		for k := range received {
			errs.Add(&validation.FieldError{
				Field: itemPrefix(k.material) + ".allocations." + strconv.FormatInt(k.stock, 10) + ".stock_id",
				Code:  validation.CodeInvalid,
			})
		}
		if err := errs.Err(); err != nil {
			return err
		}

		vendorStocks := newLockedStocks(r)
		for _, it := range o.Items {
			for _, a := range it.Allocations {
				if shortfall := a.Qty.Sub(a.ReceivedQty); shortfall.IsPositive() {
					s, err := vendorStocks.get(ctx, a.StockID)
					if err != nil {
						return err
					}
					s.Qty = s.Qty.Add(shortfall)
				}
				if a.ReceivedQty.IsZero() {
					continue
				}
				s, err := r.Stocks.FindOrCreate(ctx, o.CustomerID, it.MaterialID, a.Batch)
				if err != nil {
					return err
				}
				s.Qty = s.Qty.Add(a.ReceivedQty)
				s.UpdatedAt = now
				if err := r.Stocks.Update(ctx, s); err != nil {
					return err
				}
			}
		}
		o.ReceivedAt = &now
		o.UpdatedAt = now
		return vendorStocks.save(ctx, o)
	})
}

// Cancel cancela el pedido con motivo obligatorio. Libera reservas si estaba asignado y
// devuelve la mercancía al proveedor si ya se había despachado.
func (uc *UseCase) Cancel(ctx context.Context, entityID, id, reason string) (*dto.OrderResponse, error) {
	if reason == "" {
		var errs validation.Errors
		errs.Add(validation.Required("reason", false))
		return nil, errs.Err()
	}
	return uc.transition(ctx, entityID, id, orderdomain.ActionCancel, func(r repository.Repos, o *entity.Order) error {
		stocks := newLockedStocks(r)
		switch o.Status {
		case orderdomain.StatusAllocated:
			if err := stocks.release(ctx, o); err != nil {
				return err
			}
		case orderdomain.StatusShipped:
			for _, it := range o.Items {
				for _, a := range it.Allocations {
					s, err := stocks.get(ctx, a.StockID)
					if err != nil {
						return err
					}
					s.Qty = s.Qty.Add(a.Qty)
				}
			}
		}
		o.CancelReason = reason
		o.UpdatedAt = uc.now()
		return stocks.save(ctx, o)
	})
}

func (uc *UseCase) orderMaterials(ctx context.Context, o *entity.Order) (map[int64]*entity.Material, error) {
	ids := make([]int64, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.MaterialID)
	}
	return uc.materials.GetByIDs(ctx, ids)
}

func findItem(o *entity.Order, materialID int64) *entity.OrderItem {
	for i := range o.Items {
		if o.Items[i].MaterialID == materialID {
			return &o.Items[i]
		}
	}
	return nil
}
