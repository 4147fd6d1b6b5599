package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/draft"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
)

// Slices del almacén de borradores.
const (
	SliceTransaction = "transaction"
	SliceDisposal    = "disposal"
	SliceOrder       = "order"
)

// DraftStores un store por slice; los borradores son por usuario.
type DraftStores struct {
	Transaction *draft.Store[dto.TransactionDraft]
	Disposal    *draft.Store[dto.DisposalDraft]
	Order       *draft.Store[dto.OrderDraft]
}

// NewDraftStores crea los tres stores con el mismo ttl.
func NewDraftStores(ttl time.Duration) DraftStores {
	return DraftStores{
		Transaction: draft.NewStore[dto.TransactionDraft](ttl),
		Disposal:    draft.NewStore[dto.DisposalDraft](ttl),
		Order:       draft.NewStore[dto.OrderDraft](ttl),
	}
}

// Sweepers para draft.RunSweeper.
func (s DraftStores) Sweepers() []draft.Sweeper {
	return []draft.Sweeper{s.Transaction, s.Disposal, s.Order}
}

// DraftHandler borradores efímeros de formularios (protegido).
type DraftHandler struct {
	stores   DraftStores
	disposal *disposal.UseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(stores DraftStores, disposalUC *disposal.UseCase) *DraftHandler {
	return &DraftHandler{stores: stores, disposal: disposalUC}
}

func notFoundSlice(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_SLICE", Message: "slice de borrador desconocido"})
}

func draftMaterial(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("material_id")
	if err != nil || id <= 0 {
		return 0, errBadQuery
	}
	return int64(id), nil
}

// List godoc
// @Summary      Borradores del usuario
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        slice  path  string  true  "transaction | disposal | order"
// @Success      200  {array}   object
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{slice} [get]
func (h *DraftHandler) List(c *fiber.Ctx) error {
	owner := GetUserID(c)
	switch c.Params("slice") {
	case SliceTransaction:
		return c.JSON(h.stores.Transaction.List(owner))
	case SliceDisposal:
		return c.JSON(h.stores.Disposal.List(owner))
	case SliceOrder:
		return c.JSON(h.stores.Order.List(owner))
	}
	return notFoundSlice(c)
}

// Get godoc
// @Summary      Borrador de un material
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        slice        path  string  true  "transaction | disposal | order"
// @Param        material_id  path  int     true  "ID del material"
// @Success      200  {object}  object
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{slice}/{material_id} [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	materialID, err := draftMaterial(c)
	if err != nil {
		return writeError(c, err)
	}
	owner := GetUserID(c)
	switch c.Params("slice") {
	case SliceTransaction:
		return getDraft(c, h.stores.Transaction, owner, materialID)
	case SliceDisposal:
		return getDraft(c, h.stores.Disposal, owner, materialID)
	case SliceOrder:
		return getDraft(c, h.stores.Order, owner, materialID)
	}
	return notFoundSlice(c)
}

// Put godoc
// @Summary      Guardar borrador de un material
// @Description  Crea o reemplaza; el borrador conserva su posición en la lista.
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        slice        path  string  true  "transaction | disposal | order"
// @Param        material_id  path  int     true  "ID del material"
// @Success      200  {object}  object
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/drafts/{slice}/{material_id} [put]
func (h *DraftHandler) Put(c *fiber.Ctx) error {
	materialID, err := draftMaterial(c)
	if err != nil {
		return writeError(c, err)
	}
	owner := GetUserID(c)
	switch c.Params("slice") {
	case SliceTransaction:
		return putDraft(c, h.stores.Transaction, owner, materialID)
	case SliceDisposal:
		return putDraft(c, h.stores.Disposal, owner, materialID)
	case SliceOrder:
		return putDraft(c, h.stores.Order, owner, materialID)
	}
	return notFoundSlice(c)
}

// Delete godoc
// @Summary      Descartar borrador de un material
// @Tags         drafts
// @Security     Bearer
// @Param        slice        path  string  true  "transaction | disposal | order"
// @Param        material_id  path  int     true  "ID del material"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{slice}/{material_id} [delete]
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	materialID, err := draftMaterial(c)
	if err != nil {
		return writeError(c, err)
	}
	owner := GetUserID(c)
	var removed bool
	switch c.Params("slice") {
	case SliceTransaction:
		removed = h.stores.Transaction.Remove(owner, materialID)
	case SliceDisposal:
		removed = h.stores.Disposal.Remove(owner, materialID)
	case SliceOrder:
		removed = h.stores.Order.Remove(owner, materialID)
	default:
		return notFoundSlice(c)
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "borrador no encontrado"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear godoc
// @Summary      Borrar todos los borradores del slice
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        slice  path  string  true  "transaction | disposal | order"
// @Success      200  {object}  map[string]int
// @Router       /api/drafts/{slice} [delete]
func (h *DraftHandler) Clear(c *fiber.Ctx) error {
	owner := GetUserID(c)
	var n int
	switch c.Params("slice") {
	case SliceTransaction:
		n = h.stores.Transaction.Clear(owner)
	case SliceDisposal:
		n = h.stores.Disposal.Clear(owner)
	case SliceOrder:
		n = h.stores.Order.Clear(owner)
	default:
		return notFoundSlice(c)
	}
	return c.JSON(fiber.Map{"removed": n})
}

// DisposalPreview godoc
// @Summary      Vista previa de los borradores de disposición
// @Description  Agrega, valida y ensambla los borradores del usuario sin persistir.
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DisposalPreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/drafts/disposal/preview [get]
func (h *DraftHandler) DisposalPreview(c *fiber.Ctx) error {
	entries := h.stores.Disposal.List(GetUserID(c))
	items := make([]dto.DisposalItemRequest, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.DisposalItemRequest{
			MaterialID: e.MaterialID,
			Discard:    e.Value.Discard,
			Received:   e.Value.Received,
		})
	}
	out, err := h.disposal.Preview(c.UserContext(), GetEntityID(c), items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func getDraft[T any](c *fiber.Ctx, s *draft.Store[T], owner string, materialID int64) error {
	e, ok := s.Get(owner, materialID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "borrador no encontrado"})
	}
	return c.JSON(e)
}

func putDraft[T any](c *fiber.Ctx, s *draft.Store[T], owner string, materialID int64) error {
	var v T
	if err := bindBody(c, &v); err != nil {
		return writeError(c, err)
	}
	return c.JSON(s.Put(owner, materialID, v))
}
