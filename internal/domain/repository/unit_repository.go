package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// UnitFilter criterios de listado de unidades. Campos vacíos no filtran.
type UnitFilter struct {
	Statuses  []entity.UnitStatus
	ProductID string
	RequestID string // unidades ligadas a cualquier posición de esa solicitud
	Limit     int
	Offset    int
}

// UnitRepository define el puerto de persistencia para ProductUnit.
// Los métodos Lock* bloquean las filas devueltas hasta el fin de la transacción
// (SELECT ... FOR UPDATE) para que cada unidad la tome una sola posición.
type UnitRepository interface {
	// Create inserta la unidad; domain.ErrDuplicate si el serial ya existe.
	Create(ctx context.Context, unit *entity.ProductUnit) error
	Update(ctx context.Context, unit *entity.ProductUnit) error
	GetByID(ctx context.Context, id string) (*entity.ProductUnit, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ProductUnit, error)
	SerialExists(ctx context.Context, serial string) (bool, error)
	SerialsWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// LockCandidates devuelve hasta limit unidades candidate_in_request del producto sin posición de solicitud.
	LockCandidates(ctx context.Context, productID string, limit int) ([]*entity.ProductUnit, error)
	// LockInRequest devuelve hasta limit unidades in_request del producto; si requestItemID no es nil,
	// solo las ligadas a esa posición. Nunca devuelve menos filas de las disponibles por contención:
	// en ese caso falla con domain.ErrConcurrentUpdate.
	LockInRequest(ctx context.Context, productID string, requestItemID *string, limit int) ([]*entity.ProductUnit, error)

	ListByRequestItem(ctx context.Context, requestItemID string) ([]*entity.ProductUnit, error)
	ListByDeliveryItem(ctx context.Context, deliveryItemID string) ([]*entity.ProductUnit, error)
	List(ctx context.Context, filter UnitFilter) ([]*entity.ProductUnit, error)
}
