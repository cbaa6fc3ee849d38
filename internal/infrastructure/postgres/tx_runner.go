package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn inventory.TxFunc) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	unitRepo := NewUnitRepository(tx)
	requestRepo := NewRequestRepository(tx)
	deliveryRepo := NewDeliveryRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(unitRepo, requestRepo, deliveryRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

// Readers repositorios sobre el pool para las consultas fuera de transacción.
func Readers(pool *pgxpool.Pool) inventory.Readers {
	return inventory.Readers{
		Units:      NewUnitRepository(pool),
		Requests:   NewRequestRepository(pool),
		Deliveries: NewDeliveryRepository(pool),
		Products:   NewProductRepository(pool),
		Suppliers:  NewSupplierRepository(pool),
	}
}
