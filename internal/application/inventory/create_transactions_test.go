package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/inventory"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-vacunas-api/internal/mocks"
	"github.com/jhoicas/Logistica-vacunas-api/pkg/logger"
)

const entityID = "ent-1"

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptr(v int64) *int64 { return &v }

type fixture struct {
	tx        *mocks.TxRunner
	materials *mocks.MaterialRepository
	reasons   *mocks.TransactionReasonRepository
	stocks    *mocks.StockRepository
	txs       *mocks.TransactionRepository
	uc        *inventory.TransactionUseCase
}

func newFixture() *fixture {
	f := &fixture{
		tx:        mocks.NewTxRunner(),
		materials: &mocks.MaterialRepository{},
		reasons:   &mocks.TransactionReasonRepository{},
		stocks:    &mocks.StockRepository{},
		txs:       &mocks.TransactionRepository{},
	}
	f.uc = inventory.NewTransactionUseCase(f.tx, f.materials, f.reasons, f.stocks, f.txs, logger.Nop())
	return f
}

func bcg() *entity.Material {
	return &entity.Material{ID: 7, Code: "BCG", Name: "BCG", PiecesPerUnit: d(10)}
}

func stock(id int64, qty int64) *entity.Stock {
	return &entity.Stock{ID: id, EntityID: entityID, MaterialID: 7, Qty: d(qty)}
}

func TestCreateTransactions_ReduceStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := stock(1, 100)

	f.tx.Stocks().On("GetForUpdate", ctx, int64(1)).Return(s, nil)
	f.materials.On("GetByID", ctx, int64(7)).Return(bcg(), nil)
	f.reasons.On("GetByID", ctx, int64(3)).Return(&entity.TransactionReason{ID: 3, Type: entity.TransactionReduceStock}, nil)
	f.tx.Stocks().On("Update", ctx, s).Return(nil)
	f.tx.Transactions().On("Create", ctx, mock.MatchedBy(func(tx *entity.Transaction) bool {
		return tx.StockBefore.Equal(d(100)) && tx.StockAfter.Equal(d(70)) && tx.CreatedBy == "u-1"
	})).Return(nil)

	out, err := f.uc.CreateTransactions(ctx, entityID, "u-1", dto.CreateTransactionsRequest{
		Type:  string(entity.TransactionReduceStock),
		Items: []dto.TransactionItemRequest{{StockID: 1, ChangeQty: d(30), ReasonID: ptr(3)}},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].StockAfter.Equal(d(70)))
	assert.True(t, s.Qty.Equal(d(70)))
	assert.True(t, f.tx.Committed)
	f.tx.Stocks().AssertExpectations(t)
	f.tx.Transactions().AssertExpectations(t)
}

func TestCreateTransactions_ErroresPorCampoConRutaEstable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tx.Stocks().On("GetForUpdate", ctx, int64(1)).Return(stock(1, 100), nil)
	f.tx.Stocks().On("GetForUpdate", ctx, int64(2)).Return(stock(2, 5), nil)
	f.materials.On("GetByID", ctx, int64(7)).Return(bcg(), nil)
	f.reasons.On("GetByID", ctx, int64(3)).Return(&entity.TransactionReason{ID: 3, Type: entity.TransactionReduceStock}, nil)

	_, err := f.uc.CreateTransactions(ctx, entityID, "u-1", dto.CreateTransactionsRequest{
		Type: string(entity.TransactionReduceStock),
		Items: []dto.TransactionItemRequest{
			{StockID: 1, ChangeQty: d(15), ReasonID: ptr(3)},
			{StockID: 2, ChangeQty: d(10)},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	fields := make([]string, 0, len(ve.Issues))
	for _, is := range ve.Issues {
		fields = append(fields, is.Field+":"+is.Code)
	}
	assert.Contains(t, fields, "items.1.change_qty:multiple_of")
	assert.Contains(t, fields, "items.2.transaction_reason_id:required")
	assert.Contains(t, fields, "items.2.change_qty:max_available")
	assert.False(t, f.tx.Committed)
	f.tx.Stocks().AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreateTransactions_StockDuplicado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.tx.Stocks().On("GetForUpdate", ctx, int64(1)).Return(stock(1, 100), nil).Once()
	f.materials.On("GetByID", ctx, int64(7)).Return(bcg(), nil)

	_, err := f.uc.CreateTransactions(ctx, entityID, "u-1", dto.CreateTransactionsRequest{
		Type: string(entity.TransactionConsumption),
		Items: []dto.TransactionItemRequest{
			{StockID: 1, ChangeQty: d(10)},
			{StockID: 1, ChangeQty: d(20)},
		},
	})
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok, "err=%v", err)
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, "items.1.stock_id", ve.Issues[0].Field)
	assert.Equal(t, inventory.CodeDuplicate, ve.Issues[0].Code)
	f.tx.Stocks().AssertNumberOfCalls(t, "GetForUpdate", 1)
}

func TestCreateTransactions_StockDeOtraEntidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	other := stock(1, 100)
	other.EntityID = "ent-2"
	f.tx.Stocks().On("GetForUpdate", ctx, int64(1)).Return(other, nil)

	_, err := f.uc.CreateTransactions(ctx, entityID, "u-1", dto.CreateTransactionsRequest{
		Type:  string(entity.TransactionConsumption),
		Items: []dto.TransactionItemRequest{{StockID: 1, ChangeQty: d(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateTransactions_DescarteAcumulaDisposicion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := stock(1, 100)
	s.OpenVialQty = d(2)
	mat := bcg()
	mat.IsOpenVial = true

	f.tx.Stocks().On("GetForUpdate", ctx, int64(1)).Return(s, nil)
	f.materials.On("GetByID", ctx, int64(7)).Return(mat, nil)
	f.reasons.On("GetByID", ctx, int64(9)).Return(&entity.TransactionReason{ID: 9, Type: entity.TransactionDiscard}, nil)
	f.tx.Stocks().On("Update", ctx, s).Return(nil)

	pending := &entity.DisposalStock{EntityID: entityID, StockID: 1, ReasonID: 9, DiscardQty: d(5)}
	f.tx.DisposalStocks().On("GetForUpdate", ctx, entityID, int64(1), int64(9)).Return(pending, nil)
	f.tx.DisposalStocks().On("Upsert", ctx, pending).Return(nil)
	f.tx.Transactions().On("Create", ctx, mock.Anything).Return(nil)

	_, err := f.uc.CreateTransactions(ctx, entityID, "u-1", dto.CreateTransactionsRequest{
		Type:  string(entity.TransactionDiscard),
		Items: []dto.TransactionItemRequest{{StockID: 1, ChangeQty: d(10), OpenVialQty: d(2), ReasonID: ptr(9)}},
	})
	require.NoError(t, err)
	assert.True(t, s.Qty.Equal(d(90)))
	assert.True(t, s.OpenVialQty.IsZero())
	assert.True(t, pending.DiscardQty.Equal(d(17)), "5 previos + 10 cerrados + 2 abiertos")
	f.tx.DisposalStocks().AssertExpectations(t)
}

func TestCreateTransactions_TipoInvalido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CreateTransactions(context.Background(), entityID, "u-1", dto.CreateTransactionsRequest{
		Type:  "transfer",
		Items: []dto.TransactionItemRequest{{StockID: 1, ChangeQty: d(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListTransactions_Paginacion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.txs.On("List", ctx, repository.TransactionFilter{EntityID: entityID, Limit: 20}).
		Return([]*entity.Transaction{{ID: "t1", Type: entity.TransactionAddStock}}, 1, nil)

	res, err := f.uc.ListTransactions(ctx, entityID, nil, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page.Total)
	assert.Equal(t, 20, res.Page.Limit)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "add_stock", res.Items[0].Type)
}

func TestListReasons_TipoInvalido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.ListReasons(context.Background(), "foo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
