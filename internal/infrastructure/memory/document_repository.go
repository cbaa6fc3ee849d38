package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var (
	_ repository.RequestRepository  = (*RequestRepo)(nil)
	_ repository.DeliveryRepository = (*DeliveryRepo)(nil)
)

// RequestRepo solicitudes y posiciones en memoria.
type RequestRepo struct {
	db access
}

// NewRequestRepository construye el repositorio.
func NewRequestRepository(db access) *RequestRepo {
	return &RequestRepo{db: db}
}

func (r *RequestRepo) Create(_ context.Context, request *entity.Request) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.requests[request.ID]; ok {
			return domain.ErrDuplicate
		}
		c := *request
		st.requests[c.ID] = &c
		return nil
	})
}

func (r *RequestRepo) GetByID(_ context.Context, id string) (*entity.Request, error) {
	var out *entity.Request
	err := r.db.read(func(st *state) error {
		if req, ok := st.requests[id]; ok {
			c := *req
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *RequestRepo) Update(_ context.Context, request *entity.Request) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.requests[request.ID]; !ok {
			return domain.ErrNotFound
		}
		c := *request
		st.requests[c.ID] = &c
		return nil
	})
}

// Delete borra en cascada las posiciones y desliga sus unidades (ON DELETE SET NULL).
func (r *RequestRepo) Delete(_ context.Context, id string) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.requests[id]; !ok {
			return domain.ErrNotFound
		}
		for itemID, it := range st.requestItems {
			if it.RequestID != id {
				continue
			}
			delete(st.requestItems, itemID)
			for unitID, u := range st.units {
				if u.RequestItemID != nil && *u.RequestItemID == itemID {
					c := u.Clone()
					c.RequestItemID = nil
					st.units[unitID] = c
				}
			}
			for diID, di := range st.deliveryItems {
				if di.RequestItemID != nil && *di.RequestItemID == itemID {
					c := cloneDeliveryItem(di)
					c.RequestItemID = nil
					st.deliveryItems[diID] = c
				}
			}
		}
		delete(st.requests, id)
		return nil
	})
}

func (r *RequestRepo) CreateItem(_ context.Context, item *entity.RequestItem) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.requests[item.RequestID]; !ok {
			return domain.ErrNotFound
		}
		st.requestItems[item.ID] = cloneRequestItem(item)
		return nil
	})
}

func (r *RequestRepo) GetItem(_ context.Context, id string) (*entity.RequestItem, error) {
	var out *entity.RequestItem
	err := r.db.read(func(st *state) error {
		if it, ok := st.requestItems[id]; ok {
			out = cloneRequestItem(it)
		}
		return nil
	})
	return out, err
}

func (r *RequestRepo) ListItems(_ context.Context, requestID string) ([]*entity.RequestItem, error) {
	var out []*entity.RequestItem
	err := r.db.read(func(st *state) error {
		for _, it := range st.requestItems {
			if it.RequestID == requestID {
				out = append(out, cloneRequestItem(it))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// DeliveryRepo entregas y posiciones en memoria.
type DeliveryRepo struct {
	db access
}

// NewDeliveryRepository construye el repositorio.
func NewDeliveryRepository(db access) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

func (r *DeliveryRepo) Create(_ context.Context, delivery *entity.Delivery) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.deliveries[delivery.ID]; ok {
			return domain.ErrDuplicate
		}
		st.deliveries[delivery.ID] = cloneDelivery(delivery)
		return nil
	})
}

func (r *DeliveryRepo) GetByID(_ context.Context, id string) (*entity.Delivery, error) {
	var out *entity.Delivery
	err := r.db.read(func(st *state) error {
		if d, ok := st.deliveries[id]; ok {
			out = cloneDelivery(d)
		}
		return nil
	})
	return out, err
}

func (r *DeliveryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.GetByID(ctx, id)
}

func (r *DeliveryRepo) Update(_ context.Context, delivery *entity.Delivery) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.deliveries[delivery.ID]; !ok {
			return domain.ErrNotFound
		}
		st.deliveries[delivery.ID] = cloneDelivery(delivery)
		return nil
	})
}

// Delete borra en cascada las posiciones y desliga sus unidades.
func (r *DeliveryRepo) Delete(_ context.Context, id string) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.deliveries[id]; !ok {
			return domain.ErrNotFound
		}
		for itemID, it := range st.deliveryItems {
			if it.DeliveryID != id {
				continue
			}
			delete(st.deliveryItems, itemID)
			for unitID, u := range st.units {
				if u.DeliveryItemID != nil && *u.DeliveryItemID == itemID {
					c := u.Clone()
					c.DeliveryItemID = nil
					st.units[unitID] = c
				}
			}
		}
		delete(st.deliveries, id)
		return nil
	})
}

func (r *DeliveryRepo) CreateItem(_ context.Context, item *entity.DeliveryItem) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.deliveries[item.DeliveryID]; !ok {
			return domain.ErrNotFound
		}
		st.deliveryItems[item.ID] = cloneDeliveryItem(item)
		return nil
	})
}

func (r *DeliveryRepo) GetItem(_ context.Context, id string) (*entity.DeliveryItem, error) {
	var out *entity.DeliveryItem
	err := r.db.read(func(st *state) error {
		if it, ok := st.deliveryItems[id]; ok {
			out = cloneDeliveryItem(it)
		}
		return nil
	})
	return out, err
}

func (r *DeliveryRepo) UpdateItem(_ context.Context, item *entity.DeliveryItem) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.deliveryItems[item.ID]; !ok {
			return domain.ErrNotFound
		}
		st.deliveryItems[item.ID] = cloneDeliveryItem(item)
		return nil
	})
}

func (r *DeliveryRepo) ListItems(_ context.Context, deliveryID string) ([]*entity.DeliveryItem, error) {
	var out []*entity.DeliveryItem
	err := r.db.read(func(st *state) error {
		for _, it := range st.deliveryItems {
			if it.DeliveryID == deliveryID {
				out = append(out, cloneDeliveryItem(it))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func cloneRequestItem(it *entity.RequestItem) *entity.RequestItem {
	c := *it
	if it.SupplierID != nil {
		s := *it.SupplierID
		c.SupplierID = &s
	}
	return &c
}

func cloneDelivery(d *entity.Delivery) *entity.Delivery {
	c := *d
	if d.ConfirmedAt != nil {
		t := *d.ConfirmedAt
		c.ConfirmedAt = &t
	}
	return &c
}

func cloneDeliveryItem(it *entity.DeliveryItem) *entity.DeliveryItem {
	c := *it
	if it.RequestItemID != nil {
		s := *it.RequestItemID
		c.RequestItemID = &s
	}
	return &c
}
