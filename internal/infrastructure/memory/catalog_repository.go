package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// ProductRepo productos en memoria. El código, si no está vacío, es único.
type ProductRepo struct {
	db access
}

// NewProductRepository construye el repositorio sobre el Store o una transacción.
func NewProductRepository(db access) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		if codeTaken(st, product) {
			return domain.ErrDuplicate
		}
		p := *product
		st.products[p.ID] = &p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			c := *p
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.read(func(st *state) error {
		for _, p := range st.products {
			if p.Code == code {
				c := *p
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.products[product.ID]; !ok {
			return domain.ErrNotFound
		}
		if codeTaken(st, product) {
			return domain.ErrDuplicate
		}
		p := *product
		st.products[p.ID] = &p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.db.read(func(st *state) error {
		for _, p := range st.products {
			c := *p
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

func codeTaken(st *state, product *entity.Product) bool {
	if product.Code == "" {
		return false
	}
	for _, p := range st.products {
		if p.ID != product.ID && p.Code == product.Code {
			return true
		}
	}
	return false
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct {
	db access
}

// NewSupplierRepository construye el repositorio.
func NewSupplierRepository(db access) *SupplierRepo {
	return &SupplierRepo{db: db}
}

func (r *SupplierRepo) Create(_ context.Context, supplier *entity.Supplier) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.suppliers[supplier.ID]; ok {
			return domain.ErrDuplicate
		}
		s := *supplier
		st.suppliers[s.ID] = &s
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.db.read(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			c := *s
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.db.read(func(st *state) error {
		for _, s := range st.suppliers {
			c := *s
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

// page aplica limit/offset a un listado ya ordenado. limit <= 0 no limita.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
