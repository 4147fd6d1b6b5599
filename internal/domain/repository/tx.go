package repository

import "context"

// Repos repositorios atados a una misma transacción de BD.
type Repos struct {
	Stocks         StockRepository
	Transactions   TransactionRepository
	DisposalStocks DisposalStockRepository
	Disposals      DisposalRepository
	Orders         OrderRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
