package disposal

import (
	"context"
	"fmt"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	dispdomain "github.com/jhoicas/Logistica-vacunas-api/internal/domain/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

// ReceiveShipment la entidad receptora acepta el envío: todo lo enviado pasa a su pendiente
// de disposición como recibido.
func (uc *UseCase) ReceiveShipment(ctx context.Context, entityID, id string) (*dto.ShipmentResponse, error) {
	var s *entity.DisposalShipment
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		s, err = lockShipment(ctx, r, id)
		if err != nil {
			return err
		}
		if s.ReceiverID != entityID {
			return domain.ErrForbidden
		}
		if s.Status != entity.ShipmentStatusShipped {
			return domain.ErrInvalidTransition
		}
		now := uc.now()
		for _, item := range s.Items {
			for _, st := range item.Stocks {
				ds, err := r.DisposalStocks.GetForUpdate(ctx, entityID, st.StockID, st.ReasonID)
				if err != nil {
					return err
				}
				ds.MaterialID = item.MaterialID
				ds.Batch = st.Batch
				ds.ReceivedQty = ds.ReceivedQty.Add(st.DiscardQty).Add(st.ReceivedQty)
				ds.UpdatedAt = now
				if err := r.DisposalStocks.Upsert(ctx, ds); err != nil {
					return err
				}
			}
		}
		s.Status = entity.ShipmentStatusReceived
		s.ReceivedAt = &now
		return r.Disposals.UpdateShipmentStatus(ctx, s)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("entity_id", entityID).Str("id", id).Msg("recepción rechazada")
		return nil, err
	}
	uc.log.Info().Str("entity_id", entityID).Str("id", id).Msg("envío recibido")
	return toShipmentResponse(s), nil
}

// CancelShipment el emisor cancela un envío aún no recibido; las cantidades vuelven a su pendiente.
func (uc *UseCase) CancelShipment(ctx context.Context, entityID, id, reason string) (*dto.ShipmentResponse, error) {
	var s *entity.DisposalShipment
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		s, err = lockShipment(ctx, r, id)
		if err != nil {
			return err
		}
		if s.SenderID != entityID {
			return domain.ErrForbidden
		}
		if s.Status != entity.ShipmentStatusShipped {
			return domain.ErrInvalidTransition
		}
		now := uc.now()
		for _, item := range s.Items {
			for _, st := range item.Stocks {
				ds, err := r.DisposalStocks.GetForUpdate(ctx, entityID, st.StockID, st.ReasonID)
				if err != nil {
					return err
				}
				ds.MaterialID = item.MaterialID
				ds.DiscardQty = ds.DiscardQty.Add(st.DiscardQty)
				ds.ReceivedQty = ds.ReceivedQty.Add(st.ReceivedQty)
				ds.UpdatedAt = now
				if err := r.DisposalStocks.Upsert(ctx, ds); err != nil {
					return err
				}
			}
		}
		s.Status = entity.ShipmentStatusCancelled
		s.CancelReason = reason
		s.CancelledAt = &now
		return r.Disposals.UpdateShipmentStatus(ctx, s)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("entity_id", entityID).Str("id", id).Msg("cancelación rechazada")
		return nil, err
	}
	uc.log.Info().Str("entity_id", entityID).Str("id", id).Msg("envío cancelado")
	return toShipmentResponse(s), nil
}

func lockShipment(ctx context.Context, r repository.Repos, id string) (*entity.DisposalShipment, error) {
	s, err := r.Disposals.GetShipmentForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// GetShipment envío visible para emisor o receptor.
func (uc *UseCase) GetShipment(ctx context.Context, entityID, id string) (*dto.ShipmentResponse, error) {
	s, err := uc.visibleShipment(ctx, entityID, id)
	if err != nil {
		return nil, err
	}
	return toShipmentResponse(s), nil
}

func (uc *UseCase) visibleShipment(ctx context.Context, entityID, id string) (*entity.DisposalShipment, error) {
	s, err := uc.disposals.GetShipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.SenderID != entityID && s.ReceiverID != entityID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// ListShipments envíos enviados o recibidos por la entidad.
func (uc *UseCase) ListShipments(ctx context.Context, entityID string, page dto.PageRequest) (*dto.ShipmentListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.disposals.ListShipments(ctx, entityID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ShipmentResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toShipmentResponse(s))
	}
	return &dto.ShipmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ShipmentManifestPDF PDF del manifiesto del envío.
func (uc *UseCase) ShipmentManifestPDF(ctx context.Context, entityID, id string) ([]byte, error) {
	if uc.manifest == nil {
		return nil, fmt.Errorf("generador de manifiesto no configurado")
	}
	s, err := uc.visibleShipment(ctx, entityID, id)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(s.Items))
	for _, it := range s.Items {
		ids = append(ids, it.MaterialID)
	}
	materials, err := uc.materials.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.manifest.GenerateShipmentManifest(s, materials)
	if err != nil {
		return nil, fmt.Errorf("generar manifiesto: %w", err)
	}
	return pdf, nil
}

func toShipmentResponse(s *entity.DisposalShipment) *dto.ShipmentResponse {
	return &dto.ShipmentResponse{
		ID:           s.ID,
		SenderID:     s.SenderID,
		ReceiverID:   s.ReceiverID,
		Status:       s.Status,
		ReportNumber: s.ReportNumber,
		Comment:      s.Comment,
		CancelReason: s.CancelReason,
		Items:        s.Items,
		TotalQty:     dispdomain.TotalQty(s.Items),
		ShippedAt:    s.ShippedAt,
		ReceivedAt:   s.ReceivedAt,
		CancelledAt:  s.CancelledAt,
	}
}
