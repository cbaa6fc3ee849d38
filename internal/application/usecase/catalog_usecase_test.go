package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog() (*usecase.ProductUseCase, *usecase.SupplierUseCase) {
	r := memory.NewStore().Readers()
	return usecase.NewProductUseCase(r.Products, r.Suppliers), usecase.NewSupplierUseCase(r.Suppliers)
}

func TestProductUseCase_CodigoDuplicado(t *testing.T) {
	products, _ := newCatalog()
	ctx := context.Background()

	_, err := products.Create(ctx, dto.CreateProductRequest{Code: "ABC", Name: "Bici"})
	require.NoError(t, err)
	_, err = products.Create(ctx, dto.CreateProductRequest{Code: " ABC ", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// varios productos sin código conviven
	_, err = products.Create(ctx, dto.CreateProductRequest{Name: "Sin código 1"})
	require.NoError(t, err)
	_, err = products.Create(ctx, dto.CreateProductRequest{Name: "Sin código 2"})
	require.NoError(t, err)

	list, err := products.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
	assert.Equal(t, 20, list.Page.Limit)
	assert.Equal(t, 3, list.Page.Count)
}

func TestProductUseCase_ProveedorHabitual(t *testing.T) {
	products, suppliers := newCatalog()
	ctx := context.Background()

	_, err := products.Create(ctx, dto.CreateProductRequest{Name: "X", MainSupplierID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s, err := suppliers.Create(ctx, dto.CreateSupplierRequest{Name: "Proveedor"})
	require.NoError(t, err)
	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "X", MainSupplierID: s.ID})
	require.NoError(t, err)
	assert.Equal(t, s.ID, p.MainSupplierID)
}

func TestProductUseCase_Update(t *testing.T) {
	products, _ := newCatalog()
	ctx := context.Background()
	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "X"})
	require.NoError(t, err)

	code, name := "XYZ", "Nuevo"
	got, err := products.Update(ctx, p.ID, dto.UpdateProductRequest{Code: &code, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "XYZ", got.Code)
	assert.Equal(t, "Nuevo", got.Name)

	_, err = products.Update(ctx, "no-existe", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = products.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
