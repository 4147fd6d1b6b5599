package inventory

import (
	"context"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

// ListStocks stock de la entidad, opcionalmente filtrado por material.
func (uc *TransactionUseCase) ListStocks(ctx context.Context, entityID string, materialID *int64) ([]dto.StockResponse, error) {
	stocks, err := uc.stocks.List(ctx, repository.StockFilter{EntityID: entityID, MaterialID: materialID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, dto.StockResponse{
			ID:           s.ID,
			MaterialID:   s.MaterialID,
			Batch:        s.Batch,
			Qty:          s.Qty,
			AllocatedQty: s.AllocatedQty,
			AvailableQty: s.AvailableQty(),
			OpenVialQty:  s.OpenVialQty,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	return out, nil
}

// ListReasons motivos del tipo de transacción.
func (uc *TransactionUseCase) ListReasons(ctx context.Context, txType string) ([]dto.TransactionReasonResponse, error) {
	t := entity.TransactionType(txType)
	if !t.Valid() {
		return nil, domain.ErrInvalidInput
	}
	reasons, err := uc.reasons.ListByType(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionReasonResponse, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, dto.TransactionReasonResponse{
			ID:         r.ID,
			Type:       string(r.Type),
			Title:      r.Title,
			IsOther:    r.IsOther,
			IsPurchase: r.IsPurchase,
		})
	}
	return out, nil
}

// ListTransactions historial de transacciones de la entidad.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, entityID string, materialID *int64, txType string, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	page.DefaultPage()
	t := entity.TransactionType(txType)
	if txType != "" && !t.Valid() {
		return nil, domain.ErrInvalidInput
	}
	list, total, err := uc.transactions.List(ctx, repository.TransactionFilter{
		EntityID:   entityID,
		MaterialID: materialID,
		Type:       t,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		items = append(items, toTransactionResponse(tx))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}
