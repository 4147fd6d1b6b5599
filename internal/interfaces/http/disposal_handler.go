package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
)

// DisposalHandler disposición propia y envíos de material a disponer (protegido).
type DisposalHandler struct {
	uc *disposal.UseCase
}

// NewDisposalHandler construye el handler.
func NewDisposalHandler(uc *disposal.UseCase) *DisposalHandler {
	return &DisposalHandler{uc: uc}
}

// ListStocks godoc
// @Summary      Pendiente de disposición
// @Tags         disposals
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  int  false  "Filtrar por material"
// @Success      200  {array}   dto.DisposalStockResponse
// @Router       /api/disposals/stocks [get]
func (h *DisposalHandler) ListStocks(c *fiber.Ctx) error {
	var filter dto.MaterialFilter
	if err := parseFilter(c, &filter); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListDisposalStocks(c.UserContext(), GetEntityID(c), filter.MaterialID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSelf godoc
// @Summary      Registrar disposición propia
// @Tags         disposals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSelfDisposalRequest  true  "method, report_number, items"
// @Success      201   {object}  dto.SelfDisposalResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/disposals/self [post]
func (h *DisposalHandler) CreateSelf(c *fiber.Ctx) error {
	var in dto.CreateSelfDisposalRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateSelfDisposal(c.UserContext(), GetEntityID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateShipment godoc
// @Summary      Enviar material a disponer a otra entidad
// @Tags         disposals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "receiver_id, report_number, items"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/disposals/shipments [post]
func (h *DisposalHandler) CreateShipment(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateShipment(c.UserContext(), GetEntityID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListShipments godoc
// @Summary      Envíos enviados o recibidos por la entidad
// @Tags         disposals
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo 100"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ShipmentListResponse
// @Router       /api/disposals/shipments [get]
func (h *DisposalHandler) ListShipments(c *fiber.Ctx) error {
	out, err := h.uc.ListShipments(c.UserContext(), GetEntityID(c), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetShipment godoc
// @Summary      Detalle de envío
// @Tags         disposals
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/disposals/shipments/{id} [get]
func (h *DisposalHandler) GetShipment(c *fiber.Ctx) error {
	out, err := h.uc.GetShipment(c.UserContext(), GetEntityID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReceiveShipment godoc
// @Summary      Recibir envío
// @Description  Solo la entidad receptora; suma las cantidades a su pendiente de disposición.
// @Tags         disposals
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/disposals/shipments/{id}/receive [post]
func (h *DisposalHandler) ReceiveShipment(c *fiber.Ctx) error {
	out, err := h.uc.ReceiveShipment(c.UserContext(), GetEntityID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CancelShipment godoc
// @Summary      Cancelar envío
// @Description  Solo el emisor y mientras esté enviado; devuelve las cantidades a su pendiente.
// @Tags         disposals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del envío"
// @Param        body  body  dto.CancelRequest  true  "reason"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/disposals/shipments/{id}/cancel [post]
func (h *DisposalHandler) CancelShipment(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CancelShipment(c.UserContext(), GetEntityID(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ManifestPDF godoc
// @Summary      Acta del envío en PDF
// @Tags         disposals
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del envío"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/disposals/shipments/{id}/manifest.pdf [get]
func (h *DisposalHandler) ManifestPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.ShipmentManifestPDF(c.UserContext(), GetEntityID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="manifest-`+id+`.pdf"`)
	return c.Send(pdf)
}
