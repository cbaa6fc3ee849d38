package dto

import "time"

// CreateProductRequest entrada para crear un producto. Sin código el producto no puede generar unidades.
type CreateProductRequest struct {
	Code           string `json:"code" validate:"omitempty,max=50"`
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Description    string `json:"description"`
	CategoryID     string `json:"category_id" validate:"omitempty,max=100"`
	MainSupplierID string `json:"main_supplier_id" validate:"omitempty,uuid"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Code           *string `json:"code" validate:"omitempty,max=50"`
	Name           *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string `json:"description"`
	CategoryID     *string `json:"category_id" validate:"omitempty,max=100"`
	MainSupplierID *string `json:"main_supplier_id" validate:"omitempty,uuid"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CategoryID     string    `json:"category_id,omitempty"`
	MainSupplierID string    `json:"main_supplier_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
