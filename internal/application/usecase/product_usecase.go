package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos. Las unidades se manejan en inventory.
type ProductUseCase struct {
	repo      repository.ProductRepository
	suppliers repository.SupplierRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, suppliers repository.SupplierRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, suppliers: suppliers}
}

// Create crea un nuevo producto. El código, si viene, debe ser único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code != "" {
		existing, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if err := uc.checkSupplier(ctx, in.MainSupplierID); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Code:           code,
		Name:           in.Name,
		Description:    in.Description,
		CategoryID:     in.CategoryID,
		MainSupplierID: in.MainSupplierID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Cambiar el código no toca los seriales ya emitidos.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != nil {
		product.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.MainSupplierID != nil {
		if err := uc.checkSupplier(ctx, *in.MainSupplierID); err != nil {
			return nil, err
		}
		product.MainSupplierID = *in.MainSupplierID
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  page.Page(len(items)),
	}, nil
}

func (uc *ProductUseCase) checkSupplier(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	s, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		MainSupplierID: p.MainSupplierID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
