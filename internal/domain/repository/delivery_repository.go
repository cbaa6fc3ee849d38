package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// DeliveryRepository define el puerto de persistencia para entregas y sus posiciones.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.Delivery) error
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) durante la confirmación.
	GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error)
	Update(ctx context.Context, delivery *entity.Delivery) error
	// Delete borra la entrega y sus posiciones; las unidades quedan con DeliveryItemID = nil.
	Delete(ctx context.Context, id string) error

	CreateItem(ctx context.Context, item *entity.DeliveryItem) error
	GetItem(ctx context.Context, id string) (*entity.DeliveryItem, error)
	UpdateItem(ctx context.Context, item *entity.DeliveryItem) error
	ListItems(ctx context.Context, deliveryID string) ([]*entity.DeliveryItem, error)
}
