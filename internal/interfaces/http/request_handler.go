package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/shopspring/decimal"
)

// RequestHandler maneja solicitudes de compra y sus posiciones.
type RequestHandler struct {
	uc *inventory.RequestUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *inventory.RequestUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  false  "Notas"
// @Success      201   {object}  dto.RequestResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	req, err := h.uc.CreateRequest(c.UserContext(), in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequestResponse(&inventory.RequestDetail{
		Request:     req,
		TotalAmount: decimal.Zero,
	}))
}

// GetByID godoc
// @Summary      Obtener solicitud con totales
// @Tags         requests
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.uc.GetRequest(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequestResponse(detail))
}

// CreateLine godoc
// @Summary      Agregar posición a la solicitud
// @Description  Reutiliza candidatas libres del producto y fabrica el faltante con seriales de lote.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.CreateRequestLineRequest  true  "Posición"
// @Success      201   {object}  dto.RequestItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/lines [post]
func (h *RequestHandler) CreateLine(c *fiber.Ctx) error {
	var in dto.CreateRequestLineRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	item, err := h.uc.CreateRequestLine(c.UserContext(), inventory.CreateRequestLineInput{
		RequestID:    c.Params("id"),
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		PricePerUnit: in.PricePerUnit,
		SupplierID:   in.SupplierID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequestItemResponse(item))
}

// AddUnit godoc
// @Summary      Ligar una unidad existente a la solicitud
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.AddUnitRequest  true  "Unidad y precio"
// @Success      201   {object}  dto.RequestItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/units [post]
func (h *RequestHandler) AddUnit(c *fiber.Ctx) error {
	var in dto.AddUnitRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	item, err := h.uc.AddUnitToRequest(c.UserContext(), inventory.AddUnitInput{
		RequestID:    c.Params("id"),
		UnitID:       in.UnitID,
		PricePerUnit: in.PricePerUnit,
		SupplierID:   in.SupplierID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequestItemResponse(item))
}

// FromCandidates godoc
// @Summary      Crear solicitud a partir de candidatas
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FromCandidatesRequest  true  "Unidades candidatas"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests/from-candidates [post]
func (h *RequestHandler) FromCandidates(c *fiber.Ctx) error {
	var in dto.FromCandidatesRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	detail, err := h.uc.CreateRequestFromCandidates(c.UserContext(), inventory.FromCandidatesInput{
		UnitIDs:             in.UnitIDs,
		Notes:               in.Notes,
		DefaultPricePerUnit: in.DefaultPricePerUnit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequestResponse(detail))
}

// LinkCandidates godoc
// @Summary      Ligar candidatas a una solicitud abierta
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.LinkCandidatesRequest  true  "Unidades candidatas"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/candidates [post]
func (h *RequestHandler) LinkCandidates(c *fiber.Ctx) error {
	var in dto.LinkCandidatesRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	detail, err := h.uc.LinkCandidatesToRequest(c.UserContext(), inventory.LinkCandidatesInput{
		RequestID:           c.Params("id"),
		UnitIDs:             in.UnitIDs,
		DefaultPricePerUnit: in.DefaultPricePerUnit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequestResponse(detail))
}

// SetCompleted godoc
// @Summary      Marcar solicitud como completada
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.SetCompletedRequest  true  "completed"
// @Success      200   {object}  dto.RequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/complete [post]
func (h *RequestHandler) SetCompleted(c *fiber.Ctx) error {
	var in dto.SetCompletedRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	ctx := c.UserContext()
	if _, err := h.uc.SetRequestCompleted(ctx, c.Params("id"), in.Completed); err != nil {
		return respondError(c, err)
	}
	detail, err := h.uc.GetRequest(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequestResponse(detail))
}

// Delete godoc
// @Summary      Borrar solicitud
// @Description  Borra sus posiciones; las unidades quedan sin posición.
// @Tags         requests
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [delete]
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteRequest(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CancelLine godoc
// @Summary      Cancelar posición de solicitud
// @Description  Sus unidades in_request pasan a in_request_cancelled.
// @Tags         requests
// @Produce      json
// @Param        id   path  string  true  "ID de la posición"
// @Success      200  {object}  dto.CancelLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/request-items/{id}/cancel [post]
func (h *RequestHandler) CancelLine(c *fiber.Ctx) error {
	id := c.Params("id")
	n, err := h.uc.CancelRequestLine(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CancelLineResponse{RequestItemID: id, Cancelled: n})
}

// LineUnits godoc
// @Summary      Unidades de una posición de solicitud
// @Tags         requests
// @Produce      json
// @Param        id   path  string  true  "ID de la posición"
// @Success      200  {array}   dto.UnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/request-items/{id}/units [get]
func (h *RequestHandler) LineUnits(c *fiber.Ctx) error {
	units, err := h.uc.ListLineUnits(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUnitList(units))
}
