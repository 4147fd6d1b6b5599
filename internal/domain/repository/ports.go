package repository

import (
	"context"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// MaterialRepository catálogo de materiales.
type MaterialRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	// GetByIDs devuelve los materiales encontrados indexados por id.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Material, error)
}

// StockFilter filtros de listado de stock.
type StockFilter struct {
	EntityID   string
	MaterialID *int64
}

// StockRepository define el puerto para consultar/actualizar stock por entidad+material+lote.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Stock, error)
	List(ctx context.Context, f StockFilter) ([]*entity.Stock, error)
	Update(ctx context.Context, stock *entity.Stock) error
	// FindOrCreate obtiene (bloqueando) o crea el stock del material/lote en la entidad.
	FindOrCreate(ctx context.Context, entityID string, materialID int64, batch *entity.Batch) (*entity.Stock, error)
}

// TransactionReasonRepository catálogo de motivos.
type TransactionReasonRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.TransactionReason, error)
	ListByType(ctx context.Context, t entity.TransactionType) ([]*entity.TransactionReason, error)
}

// TransactionFilter filtros de listado de transacciones.
type TransactionFilter struct {
	EntityID   string
	MaterialID *int64
	Type       entity.TransactionType
	Limit      int
	Offset     int
}

// TransactionRepository persistencia de transacciones de stock.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	List(ctx context.Context, f TransactionFilter) ([]*entity.Transaction, int, error)
}

// DisposalStockRepository material pendiente de disposición por entidad/stock/motivo.
type DisposalStockRepository interface {
	List(ctx context.Context, entityID string, materialID *int64) ([]*entity.DisposalStock, error)
	// GetForUpdate devuelve el registro bloqueado o uno en cero si no existe.
	GetForUpdate(ctx context.Context, entityID string, stockID, reasonID int64) (*entity.DisposalStock, error)
	Upsert(ctx context.Context, ds *entity.DisposalStock) error
}

// DisposalRepository disposiciones propias y envíos.
type DisposalRepository interface {
	CreateSelfDisposal(ctx context.Context, d *entity.SelfDisposal) error
	CreateShipment(ctx context.Context, s *entity.DisposalShipment) error
	GetShipment(ctx context.Context, id string) (*entity.DisposalShipment, error)
	GetShipmentForUpdate(ctx context.Context, id string) (*entity.DisposalShipment, error)
	UpdateShipmentStatus(ctx context.Context, s *entity.DisposalShipment) error
	ListShipments(ctx context.Context, entityID string, limit, offset int) ([]*entity.DisposalShipment, int, error)
}

// OrderFilter filtros de listado de pedidos.
type OrderFilter struct {
	EntityID string // como proveedor o cliente
	Status   string
	Limit    int
	Offset   int
}

// OrderRepository persistencia de pedidos con sus ítems y asignaciones.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update reescribe estado, ítems y asignaciones.
	Update(ctx context.Context, o *entity.Order) error
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, int, error)
}
