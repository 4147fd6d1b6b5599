package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/inventory"
)

// InventoryHandler stock, motivos y transacciones de la entidad (protegido).
type InventoryHandler struct {
	uc *inventory.TransactionUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.TransactionUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// ListStocks godoc
// @Summary      Stock de la entidad
// @Description  Ordenado por vencimiento (FEFO).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  int  false  "Filtrar por material"
// @Success      200  {array}   dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stocks [get]
func (h *InventoryHandler) ListStocks(c *fiber.Ctx) error {
	var filter dto.MaterialFilter
	if err := parseFilter(c, &filter); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListStocks(c.UserContext(), GetEntityID(c), filter.MaterialID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListReasons godoc
// @Summary      Motivos de transacción
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  true  "add_stock | reduce_stock | discard | consumption | return"
// @Success      200  {array}   dto.TransactionReasonResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transaction-reasons [get]
func (h *InventoryHandler) ListReasons(c *fiber.Ctx) error {
	out, err := h.uc.ListReasons(c.UserContext(), c.Query("type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateTransactions godoc
// @Summary      Registrar transacciones
// @Description  Una transacción por stock. Todo o nada: si un ítem falla no se aplica ninguno.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionsRequest  true  "transaction_type + items"
// @Success      201   {array}   dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/transactions [post]
func (h *InventoryHandler) CreateTransactions(c *fiber.Ctx) error {
	var in dto.CreateTransactionsRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateTransactions(c.UserContext(), GetEntityID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransactions godoc
// @Summary      Historial de transacciones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  int     false  "Filtrar por material"
// @Param        type         query  string  false  "Filtrar por tipo"
// @Param        limit        query  int     false  "Máximo 100"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	var filter dto.MaterialFilter
	if err := parseFilter(c, &filter); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListTransactions(c.UserContext(), GetEntityID(c), filter.MaterialID, c.Query("type"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
