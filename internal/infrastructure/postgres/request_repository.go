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

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestItemColumns = `id, request_id, product_id, quantity, price_per_unit, supplier_id, created_at`

// RequestRepo adaptador de solicitudes y sus posiciones.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO requests (id, is_completed, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, req.ID, req.IsCompleted, req.Notes, req.CreatedAt, req.UpdatedAt); err != nil {
		return wrap("insert request", err)
	}
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	return r.getOne(ctx, `SELECT id, is_completed, notes, created_at, updated_at FROM requests WHERE id = $1`, id)
}

// GetForUpdate obtiene la cabecera y bloquea la fila (SELECT FOR UPDATE).
func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.getOne(ctx, `SELECT id, is_completed, notes, created_at, updated_at FROM requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *RequestRepo) getOne(ctx context.Context, query, id string) (*entity.Request, error) {
	var req entity.Request
	err := r.q.QueryRow(ctx, query, id).Scan(&req.ID, &req.IsCompleted, &req.Notes, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get request", err)
	}
	return &req, nil
}

func (r *RequestRepo) Update(ctx context.Context, req *entity.Request) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE requests SET is_completed = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		req.ID, req.IsCompleted, req.Notes, req.UpdatedAt)
	if err != nil {
		return wrap("update request", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la solicitud; las posiciones caen por ON DELETE CASCADE y las unidades
// quedan desligadas por ON DELETE SET NULL.
func (r *RequestRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return wrap("delete request", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RequestRepo) CreateItem(ctx context.Context, it *entity.RequestItem) error {
	query := `INSERT INTO request_items (` + requestItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, it.ID, it.RequestID, it.ProductID, it.Quantity, it.PricePerUnit, it.SupplierID, it.CreatedAt)
	if err != nil {
		return wrap("insert request item", err)
	}
	return nil
}

func (r *RequestRepo) GetItem(ctx context.Context, id string) (*entity.RequestItem, error) {
	query := `SELECT ` + requestItemColumns + ` FROM request_items WHERE id = $1`
	it, err := scanRequestItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get request item", err)
	}
	return it, nil
}

func (r *RequestRepo) ListItems(ctx context.Context, requestID string) ([]*entity.RequestItem, error) {
	query := `SELECT ` + requestItemColumns + ` FROM request_items WHERE request_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, requestID)
	if err != nil {
		return nil, wrap("list request items", err)
	}
	defer rows.Close()
	var out []*entity.RequestItem
	for rows.Next() {
		it, err := scanRequestItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanRequestItem(row pgx.Row) (*entity.RequestItem, error) {
	var it entity.RequestItem
	if err := row.Scan(&it.ID, &it.RequestID, &it.ProductID, &it.Quantity, &it.PricePerUnit, &it.SupplierID, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
