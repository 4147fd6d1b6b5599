// Package mocks dobles de los puertos de repositorio (testify/mock) para tests de casos de uso.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
)

var (
	_ repository.UserRepository              = (*UserRepository)(nil)
	_ repository.MaterialRepository          = (*MaterialRepository)(nil)
	_ repository.StockRepository             = (*StockRepository)(nil)
	_ repository.TransactionReasonRepository = (*TransactionReasonRepository)(nil)
	_ repository.TransactionRepository       = (*TransactionRepository)(nil)
	_ repository.DisposalStockRepository     = (*DisposalStockRepository)(nil)
	_ repository.DisposalRepository          = (*DisposalRepository)(nil)
	_ repository.OrderRepository             = (*OrderRepository)(nil)
	_ repository.TxRunner                    = (*TxRunner)(nil)
)

// UserRepository mock.
type UserRepository struct{ mock.Mock }

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

// MaterialRepository mock.
type MaterialRepository struct{ mock.Mock }

func (m *MaterialRepository) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	args := m.Called(ctx, id)
	mat, _ := args.Get(0).(*entity.Material)
	return mat, args.Error(1)
}

func (m *MaterialRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Material, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).(map[int64]*entity.Material)
	return out, args.Error(1)
}

// StockRepository mock.
type StockRepository struct{ mock.Mock }

func (m *StockRepository) GetByID(ctx context.Context, id int64) (*entity.Stock, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.Stock)
	return s, args.Error(1)
}

func (m *StockRepository) GetForUpdate(ctx context.Context, id int64) (*entity.Stock, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.Stock)
	return s, args.Error(1)
}

func (m *StockRepository) List(ctx context.Context, f repository.StockFilter) ([]*entity.Stock, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).([]*entity.Stock)
	return out, args.Error(1)
}

func (m *StockRepository) Update(ctx context.Context, stock *entity.Stock) error {
	return m.Called(ctx, stock).Error(0)
}

func (m *StockRepository) FindOrCreate(ctx context.Context, entityID string, materialID int64, batch *entity.Batch) (*entity.Stock, error) {
	args := m.Called(ctx, entityID, materialID, batch)
	s, _ := args.Get(0).(*entity.Stock)
	return s, args.Error(1)
}

// TransactionReasonRepository mock.
type TransactionReasonRepository struct{ mock.Mock }

func (m *TransactionReasonRepository) GetByID(ctx context.Context, id int64) (*entity.TransactionReason, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*entity.TransactionReason)
	return r, args.Error(1)
}

func (m *TransactionReasonRepository) ListByType(ctx context.Context, t entity.TransactionType) ([]*entity.TransactionReason, error) {
	args := m.Called(ctx, t)
	out, _ := args.Get(0).([]*entity.TransactionReason)
	return out, args.Error(1)
}

// TransactionRepository mock.
type TransactionRepository struct{ mock.Mock }

func (m *TransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *TransactionRepository) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).([]*entity.Transaction)
	return out, args.Int(1), args.Error(2)
}

// DisposalStockRepository mock.
type DisposalStockRepository struct{ mock.Mock }

func (m *DisposalStockRepository) List(ctx context.Context, entityID string, materialID *int64) ([]*entity.DisposalStock, error) {
	args := m.Called(ctx, entityID, materialID)
	out, _ := args.Get(0).([]*entity.DisposalStock)
	return out, args.Error(1)
}

func (m *DisposalStockRepository) GetForUpdate(ctx context.Context, entityID string, stockID, reasonID int64) (*entity.DisposalStock, error) {
	args := m.Called(ctx, entityID, stockID, reasonID)
	ds, _ := args.Get(0).(*entity.DisposalStock)
	return ds, args.Error(1)
}

func (m *DisposalStockRepository) Upsert(ctx context.Context, ds *entity.DisposalStock) error {
	return m.Called(ctx, ds).Error(0)
}

// DisposalRepository mock.
type DisposalRepository struct{ mock.Mock }

func (m *DisposalRepository) CreateSelfDisposal(ctx context.Context, d *entity.SelfDisposal) error {
	return m.Called(ctx, d).Error(0)
}

func (m *DisposalRepository) CreateShipment(ctx context.Context, s *entity.DisposalShipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *DisposalRepository) GetShipment(ctx context.Context, id string) (*entity.DisposalShipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.DisposalShipment)
	return s, args.Error(1)
}

func (m *DisposalRepository) GetShipmentForUpdate(ctx context.Context, id string) (*entity.DisposalShipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.DisposalShipment)
	return s, args.Error(1)
}

func (m *DisposalRepository) UpdateShipmentStatus(ctx context.Context, s *entity.DisposalShipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *DisposalRepository) ListShipments(ctx context.Context, entityID string, limit, offset int) ([]*entity.DisposalShipment, int, error) {
	args := m.Called(ctx, entityID, limit, offset)
	out, _ := args.Get(0).([]*entity.DisposalShipment)
	return out, args.Int(1), args.Error(2)
}

// OrderRepository mock.
type OrderRepository struct{ mock.Mock }

func (m *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*entity.Order)
	return o, args.Error(1)
}

func (m *OrderRepository) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*entity.Order)
	return o, args.Error(1)
}

func (m *OrderRepository) Update(ctx context.Context, o *entity.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *OrderRepository) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).([]*entity.Order)
	return out, args.Int(1), args.Error(2)
}

// TxRunner ejecuta fn directamente con los mocks de Repos (sin BD). Committed indica si fn
// terminó sin error.
type TxRunner struct {
	Repos     repository.Repos
	Committed bool
}

// NewTxRunner runner con un mock nuevo por repositorio.
func NewTxRunner() *TxRunner {
	return &TxRunner{Repos: repository.Repos{
		Stocks:         &StockRepository{},
		Transactions:   &TransactionRepository{},
		DisposalStocks: &DisposalStockRepository{},
		Disposals:      &DisposalRepository{},
		Orders:         &OrderRepository{},
	}}
}

func (r *TxRunner) Run(_ context.Context, fn func(repository.Repos) error) error {
	r.Committed = false
	if err := fn(r.Repos); err != nil {
		return err
	}
	r.Committed = true
	return nil
}

// Stocks mock de stock atado a la tx.
func (r *TxRunner) Stocks() *StockRepository { return r.Repos.Stocks.(*StockRepository) }

// Transactions mock de transacciones atado a la tx.
func (r *TxRunner) Transactions() *TransactionRepository {
	return r.Repos.Transactions.(*TransactionRepository)
}

// DisposalStocks mock de stock de disposición atado a la tx.
func (r *TxRunner) DisposalStocks() *DisposalStockRepository {
	return r.Repos.DisposalStocks.(*DisposalStockRepository)
}

// Disposals mock de disposiciones atado a la tx.
func (r *TxRunner) Disposals() *DisposalRepository { return r.Repos.Disposals.(*DisposalRepository) }

// Orders mock de pedidos atado a la tx.
func (r *TxRunner) Orders() *OrderRepository { return r.Repos.Orders.(*OrderRepository) }
