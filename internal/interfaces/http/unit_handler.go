package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// UnitHandler maneja las peticiones HTTP de unidades de producto.
type UnitHandler struct {
	registry *inventory.UnitRegistry
	sales    *inventory.SaleUseCase
}

// NewUnitHandler construye el handler.
func NewUnitHandler(registry *inventory.UnitRegistry, sales *inventory.SaleUseCase) *UnitHandler {
	return &UnitHandler{registry: registry, sales: sales}
}

// Create godoc
// @Summary      Registrar unidad vacía
// @Description  La unidad nace en estado created con un serial RF-{código}-{ddMMHHmmss}-{micro}.
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnitRequest  true  "Producto"
// @Success      201   {object}  dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/units [post]
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	unit, err := h.registry.CreateUnit(c.UserContext(), in.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUnitResponse(unit))
}

// Ventana de listado de unidades: más amplia que la de catálogo.
const (
	unitPageLimit = 50
	unitPageMax   = 500
)

// List godoc
// @Summary      Listar unidades por estado
// @Tags         units
// @Produce      json
// @Param        status      query  string  false  "Estados separados por coma"
// @Param        group       query  string  false  "available | in_process | completed"
// @Param        product_id  query  string  false  "Producto"
// @Param        request_id  query  string  false  "Solicitud"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.UnitListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/units [get]
func (h *UnitHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", unitPageLimit), Offset: c.QueryInt("offset", 0)}.
		Clamp(unitPageLimit, unitPageMax)
	q := inventory.UnitQuery{
		Group:     c.Query("group"),
		ProductID: c.Query("product_id"),
		RequestID: c.Query("request_id"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	for _, s := range strings.Split(c.Query("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			q.Statuses = append(q.Statuses, entity.UnitStatus(s))
		}
	}
	units, err := h.registry.ListUnitsByStatus(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UnitListResponse{
		Items: toUnitList(units),
		Page:  page.Page(len(units)),
	})
}

// GetByID godoc
// @Summary      Obtener unidad
// @Tags         units
// @Produce      json
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.UnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [get]
func (h *UnitHandler) GetByID(c *fiber.Ctx) error {
	unit, err := h.registry.GetUnit(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUnitResponse(unit))
}

// PurchasePrice godoc
// @Summary      Precio de compra de la unidad
// @Description  Precio de la posición de entrega que trajo la unidad, con fecha y proveedor.
// @Tags         units
// @Produce      json
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.PurchasePriceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id}/purchase-price [get]
func (h *UnitHandler) PurchasePrice(c *fiber.Ctx) error {
	id := c.Params("id")
	price, found, err := h.registry.GetPurchasePrice(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.PurchasePriceResponse{UnitID: id, Found: found}
	if found {
		out.Price = &price
	}
	info, err := h.registry.GetDeliveryInfo(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if info != nil {
		out.Delivery = &dto.DeliveryInfoResponse{
			DeliveryID:   info.DeliveryID,
			DeliveryDate: info.DeliveryDate,
			SupplierID:   info.SupplierID,
			SupplierName: info.SupplierName,
			Price:        info.Price,
		}
	}
	return c.JSON(out)
}

// MarkCandidates godoc
// @Summary      Marcar unidades como candidatas
// @Description  Solo cambian las unidades en created o in_request_cancelled; las demás se cuentan como omitidas.
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MarkCandidatesRequest  true  "IDs de unidades"
// @Success      200   {object}  dto.MarkCandidatesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/units/candidates [post]
func (h *UnitHandler) MarkCandidates(c *fiber.Ctx) error {
	var in dto.MarkCandidatesRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	updated, skipped, err := h.registry.MarkAsCandidates(c.UserContext(), in.UnitIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MarkCandidatesResponse{Updated: updated, Skipped: skipped})
}

// Reset godoc
// @Summary      Devolver unidades a created
// @Description  Solo cambian las candidatas y las in_request_cancelled; las demás se cuentan como omitidas.
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetUnitsRequest  true  "IDs de unidades"
// @Success      200   {object}  dto.MarkCandidatesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/units/reset [post]
func (h *UnitHandler) Reset(c *fiber.Ctx) error {
	var in dto.ResetUnitsRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	updated, skipped, err := h.registry.ResetToCreated(c.UserContext(), in.UnitIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MarkCandidatesResponse{Updated: updated, Skipped: skipped})
}

// MarkException godoc
// @Summary      Sacar unidad del flujo
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la unidad"
// @Param        body  body  dto.MarkExceptionRequest  true  "broken | lost | transferred"
// @Success      200   {object}  dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units/{id}/exception [post]
func (h *UnitHandler) MarkException(c *fiber.Ctx) error {
	var in dto.MarkExceptionRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	unit, err := h.registry.MarkException(c.UserContext(), c.Params("id"), entity.UnitStatus(in.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUnitResponse(unit))
}

// RecordSale godoc
// @Summary      Registrar venta
// @Description  sale_date vacío toma la fecha de hoy. Una unidad aún en solicitud no puede venderse.
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la unidad"
// @Param        body  body  dto.RecordSaleRequest  true  "Datos de la venta"
// @Success      200   {object}  dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units/{id}/sale [post]
func (h *UnitHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	unit, err := h.sales.RecordSale(c.UserContext(), inventory.RecordSaleInput{
		UnitID:   c.Params("id"),
		SaleRef:  in.SaleRef,
		SaleDate: in.SaleDate,
		Price:    in.Price,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUnitResponse(unit))
}
