package inventory

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/validation"
	"github.com/jhoicas/Logistica-vacunas-api/pkg/logger"
)

// TransactionUseCase registra transacciones de stock (entrada, salida, descarte, consumo,
// devolución) de forma transaccional con bloqueo de fila (SELECT FOR UPDATE).
type TransactionUseCase struct {
	txRunner     TxRunner
	materials    repository.MaterialRepository
	reasons      repository.TransactionReasonRepository
	stocks       repository.StockRepository
	transactions repository.TransactionRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(
	txRunner TxRunner,
	materials repository.MaterialRepository,
	reasons repository.TransactionReasonRepository,
	stocks repository.StockRepository,
	transactions repository.TransactionRepository,
	log *logger.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		txRunner:     txRunner,
		materials:    materials,
		reasons:      reasons,
		stocks:       stocks,
		transactions: transactions,
		log:          log.Component("inventory"),
		now:          time.Now,
	}
}

// lockedItem línea ya validada con su stock bloqueado.
type lockedItem struct {
	req      dto.TransactionItemRequest
	stock    *entity.Stock
	material *entity.Material
}

// CreateTransactions valida todas las líneas contra el stock bloqueado y, si no hay errores,
// aplica los cambios y guarda una transacción por línea. Los errores de campo se devuelven
// como *domain.ValidationError con rutas "items.<stock_id>.<campo>".
func (uc *TransactionUseCase) CreateTransactions(ctx context.Context, entityID, userID string, in dto.CreateTransactionsRequest) ([]dto.TransactionResponse, error) {
	txType := entity.TransactionType(in.Type)
	if !txType.Valid() || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var out []dto.TransactionResponse
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		items, err := uc.lockAndValidate(ctx, r, entityID, txType, in.Items)
		if err != nil {
			return err
		}
		now := uc.now()
		out = make([]dto.TransactionResponse, 0, len(items))
		for _, it := range items {
			tx, err := uc.apply(ctx, r, txType, it, userID, now)
			if err != nil {
				return err
			}
			out = append(out, toTransactionResponse(tx))
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("entity_id", entityID).Str("type", in.Type).Msg("transacciones rechazadas")
		return nil, err
	}
	uc.log.Info().Str("entity_id", entityID).Str("type", in.Type).Int("items", len(out)).Msg("transacciones registradas")
	return out, nil
}

func (uc *TransactionUseCase) lockAndValidate(
	ctx context.Context,
	r repository.Repos,
	entityID string,
	txType entity.TransactionType,
	reqs []dto.TransactionItemRequest,
) ([]lockedItem, error) {
	var errs validation.Errors
	seen := make(map[int64]bool, len(reqs))
	items := make([]lockedItem, 0, len(reqs))

	for _, req := range reqs {
		prefix := "items." + strconv.FormatInt(req.StockID, 10)
		if seen[req.StockID] {
			errs.Add(fieldError(prefix+".stock_id", CodeDuplicate))
			continue
		}
		seen[req.StockID] = true

		// Bloquea la fila del stock para evitar condiciones de carrera
		stock, err := r.Stocks.GetForUpdate(ctx, req.StockID)
		if err != nil {
			return nil, err
		}
		if stock == nil {
			return nil, domain.ErrNotFound
		}
		if stock.EntityID != entityID {
			return nil, domain.ErrForbidden
		}
		material, err := uc.materials.GetByID(ctx, stock.MaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil {
			return nil, domain.ErrNotFound
		}

		input := validation.TransactionItemInput{
			Type:           txType,
			ChangeQty:      req.ChangeQty,
			OpenVialQty:    req.OpenVialQty,
			CloseVialQty:   req.CloseVialQty,
			ReasonID:       req.ReasonID,
			OtherReason:    req.OtherReason,
			StatusID:       req.StatusID,
			Available:      stock.AvailableQty(),
			PackagingUnit:  material.PackagingUnit(),
			IsOpenVial:     material.IsOpenVial,
			TrackStatus:    material.TrackStatus,
			MaxOpenVialQty: stock.OpenVialQty,
		}
		if req.ReasonID != nil {
			reason, err := uc.reasons.GetByID(ctx, *req.ReasonID)
			if err != nil {
				return nil, err
			}
			if reason == nil || reason.Type != txType {
				errs.Add(fieldError(prefix+".transaction_reason_id", validation.CodeInvalid))
				continue
			}
			input.ReasonIsOther = reason.IsOther
		}

		errs.Merge(prefix, validation.ValidateTransactionItem(input))
		items = append(items, lockedItem{req: req, stock: stock, material: material})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// apply actualiza stock (y stock de disposición en descartes) y guarda la transacción.
func (uc *TransactionUseCase) apply(
	ctx context.Context,
	r repository.Repos,
	txType entity.TransactionType,
	it lockedItem,
	userID string,
	now time.Time,
) (*entity.Transaction, error) {
	stock := it.stock
	before := stock.Qty
	change := it.req.ChangeQty

	switch {
	case txType.IsInbound():
		stock.Qty = stock.Qty.Add(change)
	default:
		if stock.AvailableQty().LessThan(change) {
			return nil, domain.ErrInsufficientStock
		}
		stock.Qty = stock.Qty.Sub(change)
	}

	if it.material.IsOpenVial {
		switch txType {
		case entity.TransactionConsumption:
			stock.OpenVialQty = stock.OpenVialQty.Add(it.req.OpenVialQty)
		case entity.TransactionDiscard:
			stock.OpenVialQty = stock.OpenVialQty.Sub(it.req.OpenVialQty)
		}
	}
	stock.UpdatedAt = now
	if err := r.Stocks.Update(ctx, stock); err != nil {
		return nil, err
	}

	if txType == entity.TransactionDiscard {
		discarded := change
		if it.material.IsOpenVial {
			discarded = discarded.Add(it.req.OpenVialQty)
		}
		if err := addDisposal(ctx, r, stock, *it.req.ReasonID, discarded, now); err != nil {
			return nil, err
		}
	}

	tx := &entity.Transaction{
		ID:           uuid.New().String(),
		EntityID:     stock.EntityID,
		MaterialID:   stock.MaterialID,
		StockID:      stock.ID,
		Type:         txType,
		ReasonID:     it.req.ReasonID,
		OtherReason:  it.req.OtherReason,
		StatusID:     it.req.StatusID,
		ChangeQty:    change,
		OpenVialQty:  it.req.OpenVialQty,
		CloseVialQty: it.req.CloseVialQty,
		StockBefore:  before,
		StockAfter:   stock.Qty,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	if err := r.Transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// addDisposal suma lo descartado al pendiente de disposición del stock bajo el motivo.
func addDisposal(ctx context.Context, r repository.Repos, stock *entity.Stock, reasonID int64, qty decimal.Decimal, now time.Time) error {
	ds, err := r.DisposalStocks.GetForUpdate(ctx, stock.EntityID, stock.ID, reasonID)
	if err != nil {
		return err
	}
	ds.MaterialID = stock.MaterialID
	ds.Batch = stock.Batch
	ds.DiscardQty = ds.DiscardQty.Add(qty)
	ds.UpdatedAt = now
	return r.DisposalStocks.Upsert(ctx, ds)
}

func toTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           t.ID,
		MaterialID:   t.MaterialID,
		StockID:      t.StockID,
		Type:         string(t.Type),
		ReasonID:     t.ReasonID,
		OtherReason:  t.OtherReason,
		StatusID:     t.StatusID,
		ChangeQty:    t.ChangeQty,
		OpenVialQty:  t.OpenVialQty,
		CloseVialQty: t.CloseVialQty,
		StockBefore:  t.StockBefore,
		StockAfter:   t.StockAfter,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}
