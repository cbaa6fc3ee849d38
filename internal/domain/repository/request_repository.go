package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RequestRepository define el puerto de persistencia para solicitudes y sus posiciones.
type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	// GetForUpdate bloquea la cabecera mientras se agregan posiciones o cambia su estado.
	GetForUpdate(ctx context.Context, id string) (*entity.Request, error)
	Update(ctx context.Context, request *entity.Request) error
	// Delete borra la solicitud y sus posiciones; las unidades quedan con RequestItemID = nil.
	Delete(ctx context.Context, id string) error

	CreateItem(ctx context.Context, item *entity.RequestItem) error
	GetItem(ctx context.Context, id string) (*entity.RequestItem, error)
	ListItems(ctx context.Context, requestID string) ([]*entity.RequestItem, error)
}
