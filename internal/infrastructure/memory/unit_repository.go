package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo unidades en memoria. Los Lock* no bloquean nada: las transacciones del Store
// ya son serializadas.
type UnitRepo struct {
	db access
}

// NewUnitRepository construye el repositorio.
func NewUnitRepository(db access) *UnitRepo {
	return &UnitRepo{db: db}
}

func (r *UnitRepo) Create(_ context.Context, unit *entity.ProductUnit) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.units[unit.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, u := range st.units {
			if u.SerialNumber == unit.SerialNumber {
				return domain.ErrDuplicate
			}
		}
		st.units[unit.ID] = unit.Clone()
		return nil
	})
}

func (r *UnitRepo) Update(_ context.Context, unit *entity.ProductUnit) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.units[unit.ID]; !ok {
			return domain.ErrNotFound
		}
		st.units[unit.ID] = unit.Clone()
		return nil
	})
}

func (r *UnitRepo) GetByID(_ context.Context, id string) (*entity.ProductUnit, error) {
	var out *entity.ProductUnit
	err := r.db.read(func(st *state) error {
		out = st.units[id].Clone()
		return nil
	})
	return out, err
}

func (r *UnitRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductUnit, error) {
	return r.GetByID(ctx, id)
}

func (r *UnitRepo) SerialExists(_ context.Context, serial string) (bool, error) {
	found := false
	err := r.db.read(func(st *state) error {
		for _, u := range st.units {
			if u.SerialNumber == serial {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *UnitRepo) SerialsWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var out []string
	err := r.db.read(func(st *state) error {
		for _, u := range st.units {
			if strings.HasPrefix(u.SerialNumber, prefix) {
				out = append(out, u.SerialNumber)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *UnitRepo) LockCandidates(_ context.Context, productID string, limit int) ([]*entity.ProductUnit, error) {
	return r.selectUnits(limit, func(u *entity.ProductUnit) bool {
		return u.ProductID == productID && u.Status == entity.UnitStatusCandidate && u.RequestItemID == nil
	})
}

func (r *UnitRepo) LockInRequest(_ context.Context, productID string, requestItemID *string, limit int) ([]*entity.ProductUnit, error) {
	return r.selectUnits(limit, func(u *entity.ProductUnit) bool {
		if u.ProductID != productID || u.Status != entity.UnitStatusInRequest {
			return false
		}
		return requestItemID == nil || (u.RequestItemID != nil && *u.RequestItemID == *requestItemID)
	})
}

func (r *UnitRepo) ListByRequestItem(_ context.Context, requestItemID string) ([]*entity.ProductUnit, error) {
	return r.selectUnits(0, func(u *entity.ProductUnit) bool {
		return u.RequestItemID != nil && *u.RequestItemID == requestItemID
	})
}

func (r *UnitRepo) ListByDeliveryItem(_ context.Context, deliveryItemID string) ([]*entity.ProductUnit, error) {
	return r.selectUnits(0, func(u *entity.ProductUnit) bool {
		return u.DeliveryItemID != nil && *u.DeliveryItemID == deliveryItemID
	})
}

func (r *UnitRepo) List(_ context.Context, filter repository.UnitFilter) ([]*entity.ProductUnit, error) {
	var requestItems map[string]bool
	if filter.RequestID != "" {
		requestItems = map[string]bool{}
		err := r.db.read(func(st *state) error {
			for id, it := range st.requestItems {
				if it.RequestID == filter.RequestID {
					requestItems[id] = true
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	statuses := map[entity.UnitStatus]bool{}
	for _, s := range filter.Statuses {
		statuses[s] = true
	}
	units, err := r.selectUnits(0, func(u *entity.ProductUnit) bool {
		if len(statuses) > 0 && !statuses[u.Status] {
			return false
		}
		if filter.ProductID != "" && u.ProductID != filter.ProductID {
			return false
		}
		if requestItems != nil && (u.RequestItemID == nil || !requestItems[*u.RequestItemID]) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return page(units, filter.Limit, filter.Offset), nil
}

// selectUnits copias de las unidades que cumplen match, en orden de alta (y serial).
// limit <= 0 no limita.
func (r *UnitRepo) selectUnits(limit int, match func(u *entity.ProductUnit) bool) ([]*entity.ProductUnit, error) {
	var out []*entity.ProductUnit
	err := r.db.read(func(st *state) error {
		for _, u := range st.units {
			if match(u) {
				out = append(out, u.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].SerialNumber < out[j].SerialNumber
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
