package disposal_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	dispdomain "github.com/jhoicas/Logistica-vacunas-api/internal/domain/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/mocks"
	"github.com/jhoicas/Logistica-vacunas-api/pkg/logger"
)

const (
	sender   = "ent-a"
	receiver = "ent-b"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func entry(stock, reason, qty int64) dispdomain.LineItemEntry {
	return dispdomain.LineItemEntry{StockID: stock, ReasonID: reason, Qty: d(qty)}
}

type stubManifest struct{ calls int }

func (s *stubManifest) GenerateShipmentManifest(_ *entity.DisposalShipment, _ map[int64]*entity.Material) ([]byte, error) {
	s.calls++
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	tx        *mocks.TxRunner
	materials *mocks.MaterialRepository
	pending   *mocks.DisposalStockRepository
	disposals *mocks.DisposalRepository
	manifest  *stubManifest
	uc        *disposal.UseCase
}

func newFixture() *fixture {
	f := &fixture{
		tx:        mocks.NewTxRunner(),
		materials: &mocks.MaterialRepository{},
		pending:   &mocks.DisposalStockRepository{},
		disposals: &mocks.DisposalRepository{},
		manifest:  &stubManifest{},
	}
	f.uc = disposal.NewUseCase(f.tx, f.materials, f.pending, f.disposals, f.manifest, logger.Nop())
	return f
}

func materials(ids ...int64) map[int64]*entity.Material {
	out := make(map[int64]*entity.Material)
	for _, id := range ids {
		out[id] = &entity.Material{ID: id, PiecesPerUnit: d(1)}
	}
	return out
}

func TestCreateSelfDisposal_AgregaYDescuenta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	batch := &entity.Batch{ID: 4, Code: "B-4"}
	pending := &entity.DisposalStock{EntityID: sender, StockID: 1, MaterialID: 7, ReasonID: 21,
		Batch: batch, DiscardQty: d(10), ReceivedQty: d(1)}

	f.materials.On("GetByIDs", ctx, []int64{7}).Return(materials(7), nil)
	f.tx.DisposalStocks().On("GetForUpdate", ctx, sender, int64(1), int64(21)).Return(pending, nil).Once()
	f.tx.DisposalStocks().On("Upsert", ctx, pending).Return(nil).Once()
	f.tx.Disposals().On("CreateSelfDisposal", ctx, mock.AnythingOfType("*entity.SelfDisposal")).Return(nil)

	res, err := f.uc.CreateSelfDisposal(ctx, sender, "u-1", dto.CreateSelfDisposalRequest{
		Method:       "incineration",
		ReportNumber: "BA-001",
		Items: []dto.DisposalItemRequest{{
			MaterialID: 7,
			Discard:    []dispdomain.LineItemEntry{entry(1, 21, 2), entry(1, 21, 3)},
			Received:   []dispdomain.LineItemEntry{entry(1, 21, 1)},
		}},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assert.True(t, item.TotalQty.Equal(d(6)))
	require.Len(t, item.Stocks, 1)
	assert.Same(t, batch, item.Stocks[0].Batch)
	assert.True(t, item.Stocks[0].DiscardQty.Equal(d(5)))
	assert.True(t, item.Stocks[0].ReceivedQty.Equal(d(1)))
	assert.True(t, res.TotalQty.Equal(d(6)))

	assert.True(t, pending.DiscardQty.Equal(d(5)), "10 - 5")
	assert.True(t, pending.ReceivedQty.IsZero(), "1 - 1")
	assert.True(t, f.tx.Committed)
	f.tx.DisposalStocks().AssertExpectations(t)
}

func TestCreateSelfDisposal_ExcedePendiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.materials.On("GetByIDs", ctx, []int64{7}).Return(materials(7), nil)
	f.tx.DisposalStocks().On("GetForUpdate", ctx, sender, int64(1), int64(21)).
		Return(&entity.DisposalStock{EntityID: sender, StockID: 1, MaterialID: 7, ReasonID: 21, DiscardQty: d(3)}, nil)

	_, err := f.uc.CreateSelfDisposal(ctx, sender, "u-1", dto.CreateSelfDisposalRequest{
		Method:       "incineration",
		ReportNumber: "BA-002",
		Items: []dto.DisposalItemRequest{{
			MaterialID: 7,
			Discard:    []dispdomain.LineItemEntry{entry(1, 21, 4)},
		}},
	})
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok, "err=%v", err)
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, "items.7.stocks.1_21.discard_qty", ve.Issues[0].Field)
	f.tx.DisposalStocks().AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	f.tx.Disposals().AssertNotCalled(t, "CreateSelfDisposal", mock.Anything, mock.Anything)
}

func TestCreateShipment_ReceptorDistinto(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CreateShipment(context.Background(), sender, "u-1", dto.CreateShipmentRequest{
		ReceiverID:   sender,
		ReportNumber: "BA-003",
		Items:        []dto.DisposalItemRequest{{MaterialID: 7, Discard: []dispdomain.LineItemEntry{entry(1, 21, 1)}}},
	})
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "receiver_id", ve.Issues[0].Field)
}

func TestPreview_SinPersistir(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.pending.On("List", ctx, sender, (*int64)(nil)).Return([]*entity.DisposalStock{
		{EntityID: sender, StockID: 1, MaterialID: 7, ReasonID: 21, DiscardQty: d(5)},
		{EntityID: sender, StockID: 2, MaterialID: 8, ReasonID: 22, DiscardQty: d(2)},
	}, nil)
	f.materials.On("GetByIDs", ctx, []int64{8, 7}).Return(materials(7, 8), nil)

	res, err := f.uc.Preview(ctx, sender, []dto.DisposalItemRequest{
		{MaterialID: 8, Discard: []dispdomain.LineItemEntry{entry(2, 22, 2)}},
		{MaterialID: 7, Discard: []dispdomain.LineItemEntry{entry(1, 21, 5)}},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(8), res.Items[0].MaterialID, "conserva el orden de entrada")
	assert.True(t, res.TotalQty.Equal(d(7)))
	assert.False(t, f.tx.Committed)
}

func shipment() *entity.DisposalShipment {
	return &entity.DisposalShipment{
		ID: "sh-1", SenderID: sender, ReceiverID: receiver, Status: entity.ShipmentStatusShipped,
		ShippedAt: time.Now(),
		Items: []entity.DisposalItem{{
			MaterialID: 7, TotalQty: d(6),
			Stocks: []entity.DisposalItemStock{{StockID: 1, ReasonID: 21, DiscardQty: d(5), ReceivedQty: d(1)}},
		}},
	}
}

func TestReceiveShipment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sh := shipment()
	got := &entity.DisposalStock{EntityID: receiver, StockID: 1, ReasonID: 21, ReceivedQty: d(2)}

	f.tx.Disposals().On("GetShipmentForUpdate", ctx, "sh-1").Return(sh, nil)
	f.tx.DisposalStocks().On("GetForUpdate", ctx, receiver, int64(1), int64(21)).Return(got, nil)
	f.tx.DisposalStocks().On("Upsert", ctx, got).Return(nil)
	f.tx.Disposals().On("UpdateShipmentStatus", ctx, sh).Return(nil)

	res, err := f.uc.ReceiveShipment(ctx, receiver, "sh-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusReceived, res.Status)
	assert.NotNil(t, res.ReceivedAt)
	assert.True(t, got.ReceivedQty.Equal(d(8)), "2 previos + 6 recibidos")
	assert.Equal(t, int64(7), got.MaterialID)
}

func TestReceiveShipment_SoloReceptor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.tx.Disposals().On("GetShipmentForUpdate", ctx, "sh-1").Return(shipment(), nil)

	_, err := f.uc.ReceiveShipment(ctx, sender, "sh-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCancelShipment_DevuelvePendiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sh := shipment()
	back := &entity.DisposalStock{EntityID: sender, StockID: 1, ReasonID: 21, MaterialID: 7}

	f.tx.Disposals().On("GetShipmentForUpdate", ctx, "sh-1").Return(sh, nil)
	f.tx.DisposalStocks().On("GetForUpdate", ctx, sender, int64(1), int64(21)).Return(back, nil)
	f.tx.DisposalStocks().On("Upsert", ctx, back).Return(nil)
	f.tx.Disposals().On("UpdateShipmentStatus", ctx, sh).Return(nil)

	res, err := f.uc.CancelShipment(ctx, sender, "sh-1", "error de destino")
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusCancelled, res.Status)
	assert.Equal(t, "error de destino", res.CancelReason)
	assert.True(t, back.DiscardQty.Equal(d(5)))
	assert.True(t, back.ReceivedQty.Equal(d(1)))
}

func TestCancelShipment_YaRecibido(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sh := shipment()
	sh.Status = entity.ShipmentStatusReceived
	f.tx.Disposals().On("GetShipmentForUpdate", ctx, "sh-1").Return(sh, nil)

	_, err := f.uc.CancelShipment(ctx, sender, "sh-1", "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestShipmentManifestPDF(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.disposals.On("GetShipment", ctx, "sh-1").Return(shipment(), nil)
	f.materials.On("GetByIDs", ctx, []int64{7}).Return(materials(7), nil)

	pdf, err := f.uc.ShipmentManifestPDF(ctx, receiver, "sh-1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))
	assert.Equal(t, 1, f.manifest.calls)

	_, err = f.uc.ShipmentManifestPDF(ctx, "ent-x", "sh-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
