package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SupplierRepository define el puerto de consulta de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
}
