// Package order casos de uso del ciclo de vida de pedidos entre entidades.
// Cada acción se valida contra el grafo de estados y el papel (proveedor/cliente) del usuario.
package order

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	orderdomain "github.com/jhoicas/Logistica-vacunas-api/internal/domain/order"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/validation"
	"github.com/jhoicas/Logistica-vacunas-api/pkg/logger"
)

// CodeDuplicate material o stock repetido en la misma petición.
const CodeDuplicate = "duplicate"

// UseCase casos de uso de pedidos.
type UseCase struct {
	txRunner  repository.TxRunner
	materials repository.MaterialRepository
	orders    repository.OrderRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner repository.TxRunner,
	materials repository.MaterialRepository,
	orders repository.OrderRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		materials: materials,
		orders:    orders,
		log:       log.Component("order"),
		now:       time.Now,
	}
}

func itemPrefix(materialID int64) string {
	return "items." + strconv.FormatInt(materialID, 10)
}

// CreateDraft crea un pedido en borrador. En solicitudes la entidad del usuario es el cliente;
// en distribuciones y devoluciones es quien envía (proveedor).
func (uc *UseCase) CreateDraft(ctx context.Context, entityID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	var errs validation.Errors
	if in.CounterpartyID == "" || in.CounterpartyID == entityID {
		errs.Add(&validation.FieldError{Field: "counterparty_id", Code: validation.CodeInvalid})
	}
	vendor, customer := in.CounterpartyID, entityID
	switch in.Type {
	case entity.OrderTypeRequest:
	case entity.OrderTypeDistribution, entity.OrderTypeReturn:
		vendor, customer = entityID, in.CounterpartyID
	default:
		errs.Add(&validation.FieldError{Field: "type", Code: validation.CodeInvalid})
	}
	if len(in.Items) == 0 {
		errs.Add(&validation.FieldError{Field: "items", Code: validation.CodeRequired})
	}

	items, err := uc.buildItems(ctx, in.Items, &errs)
	if err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	now := uc.now()
	o := &entity.Order{
		ID:         uuid.New().String(),
		Type:       in.Type,
		Status:     orderdomain.StatusDraft,
		VendorID:   vendor,
		CustomerID: customer,
		Items:      items,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		return r.Orders.Create(ctx, o)
	}); err != nil {
		return nil, err
	}
	uc.log.Info().Str("entity_id", entityID).Str("id", o.ID).Str("type", o.Type).Msg("pedido creado")
	return toOrderResponse(o, entityID), nil
}

// buildItems valida los ítems solicitados (material existente, sin repetir, cantidad > 0 y
// múltiplo del empaque) acumulando errores en errs.
func (uc *UseCase) buildItems(ctx context.Context, reqs []dto.OrderItemRequest, errs *validation.Errors) ([]entity.OrderItem, error) {
	ids := make([]int64, 0, len(reqs))
	for _, it := range reqs {
		ids = append(ids, it.MaterialID)
	}
	materials, err := uc.materials.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]entity.OrderItem, 0, len(reqs))
	seen := make(map[int64]bool, len(reqs))
	for _, it := range reqs {
		prefix := itemPrefix(it.MaterialID)
		if seen[it.MaterialID] {
			errs.Add(&validation.FieldError{Field: prefix + ".material_id", Code: CodeDuplicate})
			continue
		}
		seen[it.MaterialID] = true
		material, ok := materials[it.MaterialID]
		if !ok {
			errs.Add(&validation.FieldError{Field: prefix + ".material_id", Code: validation.CodeInvalid})
			continue
		}
		var itemErrs validation.Errors
		itemErrs.Add(validation.NonNegative("qty", it.Qty))
		itemErrs.Add(validation.Required("qty", !it.Qty.IsZero()))
		itemErrs.Add(validation.MultipleOfUnit("qty", it.Qty, material.PackagingUnit()))
		errs.Merge(prefix, itemErrs)
		items = append(items, entity.OrderItem{
			MaterialID:   it.MaterialID,
			RequestedQty: it.Qty,
			ConfirmedQty: decimal.Zero,
		})
	}
	return items, nil
}

// Get pedido visible para proveedor o cliente, con las acciones que el usuario puede ejecutar.
// El borrador de la contraparte responde como inexistente.
func (uc *UseCase) Get(ctx context.Context, entityID, id string) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if orderdomain.RoleOf(o, entityID) == orderdomain.RoleNone {
		return nil, domain.ErrForbidden
	}
	if !orderdomain.Visible(o, entityID) {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(o, entityID), nil
}

// Actions acciones disponibles del usuario sobre el pedido.
func (uc *UseCase) Actions(ctx context.Context, entityID, id string) ([]string, error) {
	res, err := uc.Get(ctx, entityID, id)
	if err != nil {
		return nil, err
	}
	return res.Actions, nil
}

// List pedidos de la entidad (como proveedor o cliente), opcionalmente por estado.
func (uc *UseCase) List(ctx context.Context, entityID, status string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	if status != "" && !orderdomain.IsValidStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	list, total, err := uc.orders.List(ctx, repository.OrderFilter{
		EntityID: entityID,
		Status:   status,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		if !orderdomain.Visible(o, entityID) {
			continue
		}
		items = append(items, *toOrderResponse(o, entityID))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// transition bloquea el pedido, comprueba papel y estado, ejecuta fn y guarda el nuevo estado.
func (uc *UseCase) transition(
	ctx context.Context,
	entityID, id string,
	action orderdomain.Action,
	fn func(r repository.Repos, o *entity.Order) error,
) (*dto.OrderResponse, error) {
	var o *entity.Order
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		o, err = r.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		role := orderdomain.RoleOf(o, entityID)
		if role == orderdomain.RoleNone {
			return domain.ErrForbidden
		}
		if !orderdomain.Visible(o, entityID) {
			return domain.ErrNotFound
		}
		if !orderdomain.Allowed(o.Status, role, action) {
			return domain.ErrInvalidTransition
		}
		target, changes := orderdomain.Target(action)
		if changes && target != o.Status && !orderdomain.CanTransition(o.Status, target) {
			return domain.ErrInvalidTransition
		}
		if fn != nil {
			if err := fn(r, o); err != nil {
				return err
			}
		}
		if changes {
			o.Status = target
		}
		o.UpdatedAt = uc.now()
		return r.Orders.Update(ctx, o)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("entity_id", entityID).Str("id", id).Str("action", string(action)).Msg("acción de pedido rechazada")
		return nil, err
	}
	uc.log.Info().Str("entity_id", entityID).Str("id", id).Str("action", string(action)).Str("status", o.Status).Msg("pedido actualizado")
	return toOrderResponse(o, entityID), nil
}

func toOrderResponse(o *entity.Order, entityID string) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		allocs := make([]dto.AllocationResponse, 0, len(it.Allocations))
		for _, a := range it.Allocations {
			allocs = append(allocs, dto.AllocationResponse{
				StockID:     a.StockID,
				Batch:       a.Batch,
				Qty:         a.Qty,
				ReceivedQty: a.ReceivedQty,
			})
		}
		items = append(items, dto.OrderItemResponse{
			MaterialID:   it.MaterialID,
			RequestedQty: it.RequestedQty,
			ConfirmedQty: it.ConfirmedQty,
			AllocatedQty: it.AllocatedQty(),
			ReceivedQty:  it.ReceivedQty(),
			Allocations:  allocs,
		})
	}
	actions := orderdomain.ActionsOn(o, entityID)
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	return &dto.OrderResponse{
		ID:           o.ID,
		Type:         o.Type,
		Status:       o.Status,
		VendorID:     o.VendorID,
		CustomerID:   o.CustomerID,
		Items:        items,
		CancelReason: o.CancelReason,
		Actions:      names,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		ShippedAt:    o.ShippedAt,
		ReceivedAt:   o.ReceivedAt,
	}
}
