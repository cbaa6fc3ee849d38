package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

const unitColumns = `id, product_id, serial_number, status, is_extra_add_delivery_item, request_item_id,
	delivery_item_id, delivery_date, store_arrival_at, sale_ref, sale_date, sale_price, created_at, updated_at`

// UnitRepo adaptador de unidades de producto.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Create inserta la unidad; ErrDuplicate si el serial ya existe.
func (r *UnitRepo) Create(ctx context.Context, u *entity.ProductUnit) error {
	query := `INSERT INTO product_units (` + unitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.ProductID, u.SerialNumber, string(u.Status), u.IsExtraAddDeliveryItem, u.RequestItemID,
		u.DeliveryItemID, u.DeliveryDate, u.StoreArrivalAt, u.SaleRef, u.SaleDate, u.SalePrice, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert product unit", err)
	}
	return nil
}

// Update guarda todos los campos mutables. ProductID y el serial no cambian.
func (r *UnitRepo) Update(ctx context.Context, u *entity.ProductUnit) error {
	query := `
		UPDATE product_units SET status = $2, is_extra_add_delivery_item = $3, request_item_id = $4,
			delivery_item_id = $5, delivery_date = $6, store_arrival_at = $7, sale_ref = $8,
			sale_date = $9, sale_price = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, string(u.Status), u.IsExtraAddDeliveryItem, u.RequestItemID, u.DeliveryItemID,
		u.DeliveryDate, u.StoreArrivalAt, u.SaleRef, u.SaleDate, u.SalePrice, u.UpdatedAt,
	)
	if err != nil {
		return wrap("update product unit", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.ProductUnit, error) {
	return r.getOne(ctx, `SELECT `+unitColumns+` FROM product_units WHERE id = $1`, id)
}

// GetForUpdate obtiene la unidad y bloquea la fila (SELECT FOR UPDATE).
func (r *UnitRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductUnit, error) {
	return r.getOne(ctx, `SELECT `+unitColumns+` FROM product_units WHERE id = $1 FOR UPDATE`, id)
}

func (r *UnitRepo) getOne(ctx context.Context, query, id string) (*entity.ProductUnit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get product unit", err)
	}
	return u, nil
}

func (r *UnitRepo) SerialExists(ctx context.Context, serial string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM product_units WHERE serial_number = $1)`, serial).Scan(&exists)
	if err != nil {
		return false, wrap("serial exists", err)
	}
	return exists, nil
}

func (r *UnitRepo) SerialsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT serial_number FROM product_units WHERE starts_with(serial_number, $1) ORDER BY serial_number`, prefix)
	if err != nil {
		return nil, wrap("serials with prefix", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan serial: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LockCandidates candidatas libres del producto; las filas ya tomadas por otra transacción se saltan.
func (r *UnitRepo) LockCandidates(ctx context.Context, productID string, limit int) ([]*entity.ProductUnit, error) {
	query := `
		SELECT ` + unitColumns + `
		FROM product_units
		WHERE product_id = $1 AND status = $2 AND request_item_id IS NULL
		ORDER BY created_at, serial_number
		LIMIT $3
		FOR UPDATE SKIP LOCKED`
	return r.list(ctx, "lock candidates", query, productID, string(entity.UnitStatusCandidate), limit)
}

// LockInRequest unidades in_request del producto, opcionalmente solo las de una posición.
//
// Con posición las filas son de esa posición y se espera por ellas (FOR UPDATE, acotado por
// lock_timeout). Sin posición se saltan las bloqueadas; si por eso faltan filas se devuelve
// ErrConcurrentUpdate para que la transacción se reintente en lugar de recibir de menos.
func (r *UnitRepo) LockInRequest(ctx context.Context, productID string, requestItemID *string, limit int) ([]*entity.ProductUnit, error) {
	status := string(entity.UnitStatusInRequest)
	if requestItemID != nil {
		query := `
			SELECT ` + unitColumns + `
			FROM product_units
			WHERE product_id = $1 AND status = $2 AND request_item_id = $3
			ORDER BY created_at, serial_number
			LIMIT $4
			FOR UPDATE`
		return r.list(ctx, "lock request item units", query, productID, status, *requestItemID, limit)
	}

	query := `
		SELECT ` + unitColumns + `
		FROM product_units
		WHERE product_id = $1 AND status = $2
		ORDER BY created_at, serial_number
		LIMIT $3
		FOR UPDATE SKIP LOCKED`
	units, err := r.list(ctx, "lock in request", query, productID, status, limit)
	if err != nil || len(units) >= limit {
		return units, err
	}
	var available int
	err = r.q.QueryRow(ctx,
		`SELECT count(*) FROM product_units WHERE product_id = $1 AND status = $2`, productID, status).Scan(&available)
	if err != nil {
		return nil, wrap("count in request", err)
	}
	if available > len(units) {
		return nil, fmt.Errorf("lock in request: %d de %d unidades bloqueadas por otra transacción: %w",
			available-len(units), available, domain.ErrConcurrentUpdate)
	}
	return units, nil
}

func (r *UnitRepo) ListByRequestItem(ctx context.Context, requestItemID string) ([]*entity.ProductUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM product_units WHERE request_item_id = $1 ORDER BY created_at, serial_number`
	return r.list(ctx, "list units by request item", query, requestItemID)
}

func (r *UnitRepo) ListByDeliveryItem(ctx context.Context, deliveryItemID string) ([]*entity.ProductUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM product_units WHERE delivery_item_id = $1 ORDER BY created_at, serial_number`
	return r.list(ctx, "list units by delivery item", query, deliveryItemID)
}

// List consulta con filtros opcionales; el WHERE se arma solo con los filtros presentes.
func (r *UnitRepo) List(ctx context.Context, f repository.UnitFilter) ([]*entity.ProductUnit, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		conds = append(conds, "status = ANY("+arg(statuses)+")")
	}
	if f.ProductID != "" {
		conds = append(conds, "product_id = "+arg(f.ProductID))
	}
	if f.RequestID != "" {
		conds = append(conds, "request_item_id IN (SELECT id FROM request_items WHERE request_id = "+arg(f.RequestID)+")")
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + unitColumns + ` FROM product_units`)
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at, serial_number")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	if f.Offset > 0 {
		b.WriteString(" OFFSET " + arg(f.Offset))
	}
	return r.list(ctx, "list units", b.String(), args...)
}

func (r *UnitRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.ProductUnit, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var out []*entity.ProductUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product unit: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func scanUnit(row pgx.Row) (*entity.ProductUnit, error) {
	var (
		u      entity.ProductUnit
		status string
	)
	err := row.Scan(
		&u.ID, &u.ProductID, &u.SerialNumber, &status, &u.IsExtraAddDeliveryItem, &u.RequestItemID,
		&u.DeliveryItemID, &u.DeliveryDate, &u.StoreArrivalAt, &u.SaleRef, &u.SaleDate, &u.SalePrice,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Status = entity.UnitStatus(status)
	return &u, nil
}
