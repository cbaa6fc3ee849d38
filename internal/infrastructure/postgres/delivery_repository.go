package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

const (
	deliveryColumns     = `id, supplier_id, delivery_date, is_confirmed, confirmed_at, notes, created_at, updated_at`
	deliveryItemColumns = `id, delivery_id, product_id, request_item_id, quantity_expected, quantity_received, price_per_unit, created_at`
)

// DeliveryRepo adaptador de entregas y sus posiciones.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

func (r *DeliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	query := `INSERT INTO deliveries (` + deliveryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.SupplierID, d.DeliveryDate, d.IsConfirmed, d.ConfirmedAt, d.Notes, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return wrap("insert delivery", err)
	}
	return nil
}

func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.getOne(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE); una segunda confirmación concurrente
// espera aquí y luego ve IsConfirmed = true.
func (r *DeliveryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error) {
	return r.getOne(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1 FOR UPDATE`, id)
}

func (r *DeliveryRepo) getOne(ctx context.Context, query, id string) (*entity.Delivery, error) {
	var d entity.Delivery
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.SupplierID, &d.DeliveryDate, &d.IsConfirmed, &d.ConfirmedAt, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get delivery", err)
	}
	return &d, nil
}

func (r *DeliveryRepo) Update(ctx context.Context, d *entity.Delivery) error {
	query := `
		UPDATE deliveries SET supplier_id = $2, delivery_date = $3, is_confirmed = $4, confirmed_at = $5,
			notes = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, d.ID, d.SupplierID, d.DeliveryDate, d.IsConfirmed, d.ConfirmedAt, d.Notes, d.UpdatedAt)
	if err != nil {
		return wrap("update delivery", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la entrega; posiciones en cascada, unidades desligadas por ON DELETE SET NULL.
func (r *DeliveryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return wrap("delete delivery", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DeliveryRepo) CreateItem(ctx context.Context, it *entity.DeliveryItem) error {
	query := `INSERT INTO delivery_items (` + deliveryItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.DeliveryID, it.ProductID, it.RequestItemID, it.QuantityExpected, it.QuantityReceived, it.PricePerUnit, it.CreatedAt)
	if err != nil {
		return wrap("insert delivery item", err)
	}
	return nil
}

func (r *DeliveryRepo) GetItem(ctx context.Context, id string) (*entity.DeliveryItem, error) {
	it, err := scanDeliveryItem(r.q.QueryRow(ctx, `SELECT `+deliveryItemColumns+` FROM delivery_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get delivery item", err)
	}
	return it, nil
}

func (r *DeliveryRepo) UpdateItem(ctx context.Context, it *entity.DeliveryItem) error {
	query := `
		UPDATE delivery_items SET request_item_id = $2, quantity_expected = $3, quantity_received = $4, price_per_unit = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, it.ID, it.RequestItemID, it.QuantityExpected, it.QuantityReceived, it.PricePerUnit)
	if err != nil {
		return wrap("update delivery item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DeliveryRepo) ListItems(ctx context.Context, deliveryID string) ([]*entity.DeliveryItem, error) {
	query := `SELECT ` + deliveryItemColumns + ` FROM delivery_items WHERE delivery_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, deliveryID)
	if err != nil {
		return nil, wrap("list delivery items", err)
	}
	defer rows.Close()
	var out []*entity.DeliveryItem
	for rows.Next() {
		it, err := scanDeliveryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanDeliveryItem(row pgx.Row) (*entity.DeliveryItem, error) {
	var it entity.DeliveryItem
	err := row.Scan(&it.ID, &it.DeliveryID, &it.ProductID, &it.RequestItemID,
		&it.QuantityExpected, &it.QuantityReceived, &it.PricePerUnit, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
