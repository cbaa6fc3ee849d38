package http

import (
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
)

func toUnitResponse(u *entity.ProductUnit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:                     u.ID,
		ProductID:              u.ProductID,
		SerialNumber:           u.SerialNumber,
		Status:                 string(u.Status),
		StatusLabel:            dominv.StatusLabel(u.Status),
		IsExtraAddDeliveryItem: u.IsExtraAddDeliveryItem,
		RequestItemID:          u.RequestItemID,
		DeliveryItemID:         u.DeliveryItemID,
		DeliveryDate:           u.DeliveryDate,
		StoreArrivalAt:         u.StoreArrivalAt,
		SaleRef:                u.SaleRef,
		SaleDate:               u.SaleDate,
		SalePrice:              u.SalePrice,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func toUnitList(units []*entity.ProductUnit) []dto.UnitResponse {
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, toUnitResponse(u))
	}
	return out
}

func toRequestItemResponse(it *entity.RequestItem) dto.RequestItemResponse {
	return dto.RequestItemResponse{
		ID:           it.ID,
		RequestID:    it.RequestID,
		ProductID:    it.ProductID,
		Quantity:     it.Quantity,
		PricePerUnit: it.PricePerUnit,
		TotalCost:    it.TotalCost(),
		SupplierID:   it.SupplierID,
		CreatedAt:    it.CreatedAt,
	}
}

func toRequestResponse(d *inventory.RequestDetail) dto.RequestResponse {
	items := make([]dto.RequestItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, toRequestItemResponse(it))
	}
	return dto.RequestResponse{
		ID:          d.Request.ID,
		IsCompleted: d.Request.IsCompleted,
		Notes:       d.Request.Notes,
		Items:       items,
		TotalUnits:  d.TotalUnits,
		TotalAmount: d.TotalAmount,
		CreatedAt:   d.Request.CreatedAt,
		UpdatedAt:   d.Request.UpdatedAt,
	}
}

func toDeliveryItemResponse(it *entity.DeliveryItem) dto.DeliveryItemResponse {
	return dto.DeliveryItemResponse{
		ID:               it.ID,
		DeliveryID:       it.DeliveryID,
		ProductID:        it.ProductID,
		RequestItemID:    it.RequestItemID,
		QuantityExpected: it.QuantityExpected,
		QuantityReceived: it.QuantityReceived,
		PricePerUnit:     it.PricePerUnit,
		ReceiptStatus:    it.ReceiptStatus(),
		CreatedAt:        it.CreatedAt,
	}
}

func toDeliveryResponse(d *inventory.DeliveryDetail) dto.DeliveryResponse {
	items := make([]dto.DeliveryItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, toDeliveryItemResponse(it))
	}
	return dto.DeliveryResponse{
		ID:           d.Delivery.ID,
		SupplierID:   d.Delivery.SupplierID,
		DeliveryDate: d.Delivery.DeliveryDate,
		IsConfirmed:  d.Delivery.IsConfirmed,
		ConfirmedAt:  d.Delivery.ConfirmedAt,
		Notes:        d.Delivery.Notes,
		Items:        items,
		CreatedAt:    d.Delivery.CreatedAt,
		UpdatedAt:    d.Delivery.UpdatedAt,
	}
}

func toDeliveryItemInput(in dto.DeliveryItemRequest) inventory.DeliveryItemInput {
	return inventory.DeliveryItemInput{
		ProductID:        in.ProductID,
		RequestItemID:    in.RequestItemID,
		QuantityExpected: in.QuantityExpected,
		QuantityReceived: in.QuantityReceived,
		PricePerUnit:     in.PricePerUnit,
	}
}
