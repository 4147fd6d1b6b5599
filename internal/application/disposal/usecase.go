// Package disposal orquesta disposiciones propias y envíos de material descartado.
package disposal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	dispdomain "github.com/jhoicas/Logistica-vacunas-api/internal/domain/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/validation"
	"github.com/jhoicas/Logistica-vacunas-api/pkg/logger"
)

// ManifestGenerator genera el PDF del manifiesto de un envío.
type ManifestGenerator interface {
	GenerateShipmentManifest(s *entity.DisposalShipment, materials map[int64]*entity.Material) ([]byte, error)
}

// UseCase casos de uso de disposición.
type UseCase struct {
	txRunner       repository.TxRunner
	materials      repository.MaterialRepository
	disposalStocks repository.DisposalStockRepository
	disposals      repository.DisposalRepository
	manifest       ManifestGenerator
	log            *logger.Logger
	now            func() time.Time
}

// NewUseCase construye el caso de uso. manifest puede ser nil (sin PDF).
func NewUseCase(
	txRunner repository.TxRunner,
	materials repository.MaterialRepository,
	disposalStocks repository.DisposalStockRepository,
	disposals repository.DisposalRepository,
	manifest ManifestGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:       txRunner,
		materials:      materials,
		disposalStocks: disposalStocks,
		disposals:      disposals,
		manifest:       manifest,
		log:            log.Component("disposal"),
		now:            time.Now,
	}
}

// ListDisposalStocks pendiente de disposición de la entidad.
func (uc *UseCase) ListDisposalStocks(ctx context.Context, entityID string, materialID *int64) ([]dto.DisposalStockResponse, error) {
	list, err := uc.disposalStocks.List(ctx, entityID, materialID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DisposalStockResponse, 0, len(list))
	for _, ds := range list {
		out = append(out, dto.DisposalStockResponse{
			StockID:     ds.StockID,
			MaterialID:  ds.MaterialID,
			Batch:       ds.Batch,
			ReasonID:    ds.ReasonID,
			DiscardQty:  ds.DiscardQty,
			ReceivedQty: ds.ReceivedQty,
			TotalQty:    ds.Total(),
		})
	}
	return out, nil
}

// Preview agrega, valida y ensambla las entradas sin persistir (vista previa del borrador).
func (uc *UseCase) Preview(ctx context.Context, entityID string, items []dto.DisposalItemRequest) (*dto.DisposalPreviewResponse, error) {
	list, err := uc.disposalStocks.List(ctx, entityID, nil)
	if err != nil {
		return nil, err
	}
	pending := make(map[int64]map[int64]*entity.DisposalStock)
	for _, ds := range list {
		if pending[ds.StockID] == nil {
			pending[ds.StockID] = make(map[int64]*entity.DisposalStock)
		}
		pending[ds.StockID][ds.ReasonID] = ds
	}
	lookup := func(_ context.Context, stockID, reasonID int64) (*entity.DisposalStock, error) {
		if ds := pending[stockID][reasonID]; ds != nil {
			return ds, nil
		}
		return &entity.DisposalStock{EntityID: entityID, StockID: stockID, ReasonID: reasonID}, nil
	}
	p, err := uc.build(ctx, lookup, items)
	if err != nil {
		return nil, err
	}
	return &dto.DisposalPreviewResponse{Items: p.items, TotalQty: p.total()}, nil
}

// CreateSelfDisposal registra una disposición propia y descuenta el pendiente.
func (uc *UseCase) CreateSelfDisposal(ctx context.Context, entityID, userID string, in dto.CreateSelfDisposalRequest) (*dto.SelfDisposalResponse, error) {
	var d *entity.SelfDisposal
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		p, err := uc.buildLocked(ctx, r, entityID, in.Items)
		if err != nil {
			return err
		}
		now := uc.now()
		d = &entity.SelfDisposal{
			ID:           uuid.New().String(),
			EntityID:     entityID,
			Method:       in.Method,
			ReportNumber: in.ReportNumber,
			Comment:      in.Comment,
			Items:        p.items,
			CreatedBy:    userID,
			CreatedAt:    now,
		}
		if err := p.consume(ctx, r, now); err != nil {
			return err
		}
		return r.Disposals.CreateSelfDisposal(ctx, d)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("entity_id", entityID).Msg("disposición rechazada")
		return nil, err
	}
	uc.log.Info().Str("entity_id", entityID).Str("id", d.ID).Int("items", len(d.Items)).Msg("disposición registrada")
	return &dto.SelfDisposalResponse{
		ID:           d.ID,
		Method:       d.Method,
		ReportNumber: d.ReportNumber,
		Comment:      d.Comment,
		Items:        d.Items,
		TotalQty:     dispdomain.TotalQty(d.Items),
		CreatedAt:    d.CreatedAt,
	}, nil
}

// CreateShipment envía material pendiente a otra entidad (estado shipped).
func (uc *UseCase) CreateShipment(ctx context.Context, entityID, userID string, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	if in.ReceiverID == entityID {
		var errs validation.Errors
		errs.Add(&validation.FieldError{Field: "receiver_id", Code: validation.CodeInvalid})
		return nil, errs.Err()
	}
	var s *entity.DisposalShipment
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		p, err := uc.buildLocked(ctx, r, entityID, in.Items)
		if err != nil {
			return err
		}
		now := uc.now()
		s = &entity.DisposalShipment{
			ID:           uuid.New().String(),
			SenderID:     entityID,
			ReceiverID:   in.ReceiverID,
			Status:       entity.ShipmentStatusShipped,
			ReportNumber: in.ReportNumber,
			Comment:      in.Comment,
			Items:        p.items,
			CreatedBy:    userID,
			ShippedAt:    now,
		}
		if err := p.consume(ctx, r, now); err != nil {
			return err
		}
		return r.Disposals.CreateShipment(ctx, s)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("entity_id", entityID).Str("receiver_id", in.ReceiverID).Msg("envío rechazado")
		return nil, err
	}
	uc.log.Info().Str("entity_id", entityID).Str("id", s.ID).Str("receiver_id", s.ReceiverID).Msg("envío registrado")
	return toShipmentResponse(s), nil
}
