package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxFunc recibe los repositorios atados a la transacción en curso.
type TxFunc func(
	unitRepo repository.UnitRepository,
	requestRepo repository.RequestRepository,
	deliveryRepo repository.DeliveryRepository,
	productRepo repository.ProductRepository,
) error

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn TxFunc) error
}

// Locker toma un bloqueo con nombre compartido entre réplicas de la API.
// release debe llamarse siempre que err sea nil.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// Clock reloj inyectable; los tests usan una fecha fija.
type Clock func() time.Time

// Readers repositorios fuera de transacción para las consultas.
type Readers struct {
	Units      repository.UnitRepository
	Requests   repository.RequestRepository
	Deliveries repository.DeliveryRepository
	Products   repository.ProductRepository
	Suppliers  repository.SupplierRepository
}
