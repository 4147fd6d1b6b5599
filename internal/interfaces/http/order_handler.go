package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/order"
)

// OrderHandler pedidos entre entidades (protegido).
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func orderResult(c *fiber.Ctx, out *dto.OrderResponse, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear pedido en borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "type, counterparty_id, items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateDraft(c.UserContext(), GetEntityID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Pedidos de la entidad
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Máximo 100"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetEntityID(c), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetEntityID(c), c.Params("id"))
	return orderResult(c, out, err)
}

// Actions godoc
// @Summary      Acciones disponibles
// @Description  Según el estado del pedido y el papel de la entidad (proveedor o cliente).
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {array}   string
// @Router       /api/orders/{id}/actions [get]
func (h *OrderHandler) Actions(c *fiber.Ctx) error {
	out, err := h.uc.Actions(c.UserContext(), GetEntityID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Edit godoc
// @Summary      Reemplazar ítems del borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del pedido"
// @Param        body  body  dto.EditOrderRequest  true  "items"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Edit(c *fiber.Ctx) error {
	var in dto.EditOrderRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Edit(c.UserContext(), GetEntityID(c), c.Params("id"), in.Items)
	return orderResult(c, out, err)
}

// Submit godoc
// @Summary      Enviar pedido (draft → pending)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/submit [post]
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.UserContext(), GetEntityID(c), c.Params("id"))
	return orderResult(c, out, err)
}

// Confirm godoc
// @Summary      Confirmar cantidades (proveedor)
// @Description  Los ítems sin entrada se confirman con la cantidad solicitada.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.ConfirmOrderRequest  false  "cantidades confirmadas"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmOrderRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	out, err := h.uc.Confirm(c.UserContext(), GetEntityID(c), c.Params("id"), in)
	return orderResult(c, out, err)
}

// Allocate godoc
// @Summary      Asignar stock (proveedor)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del pedido"
// @Param        body  body  dto.AllocateOrderRequest  true  "asignaciones por ítem"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/orders/{id}/allocate [post]
func (h *OrderHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateOrderRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Allocate(c.UserContext(), GetEntityID(c), c.Params("id"), in)
	return orderResult(c, out, err)
}

// Ship godoc
// @Summary      Despachar (proveedor)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	out, err := h.uc.Ship(c.UserContext(), GetEntityID(c), c.Params("id"))
	return orderResult(c, out, err)
}

// Receive godoc
// @Summary      Recibir (cliente)
// @Description  Sin entrada para una asignación se recibe completa.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.ReceiveOrderRequest  false "cantidades recibidas"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveOrderRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	out, err := h.uc.Receive(c.UserContext(), GetEntityID(c), c.Params("id"), in)
	return orderResult(c, out, err)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del pedido"
// @Param        body  body  dto.CancelRequest  true  "reason"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), GetEntityID(c), c.Params("id"), in.Reason)
	return orderResult(c, out, err)
}
