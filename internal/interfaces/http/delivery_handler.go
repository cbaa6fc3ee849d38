package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
)

const dateLayout = "2006-01-02"

// DeliveryHandler maneja entregas de proveedores y su confirmación.
type DeliveryHandler struct {
	uc *inventory.DeliveryUseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *inventory.DeliveryUseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar entrega
// @Description  delivery_date no puede estar en el futuro. Las posiciones ligadas a una solicitud
//
//	toman de ella la cantidad esperada si viene en 0.
//
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "Entrega y posiciones"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	date, err := time.Parse(dateLayout, in.DeliveryDate)
	if err != nil {
		return badRequest(c, "VALIDATION", "delivery_date debe tener formato YYYY-MM-DD")
	}
	items := make([]inventory.DeliveryItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, toDeliveryItemInput(it))
	}
	detail, err := h.uc.CreateDelivery(c.UserContext(), inventory.CreateDeliveryInput{
		SupplierID:   in.SupplierID,
		DeliveryDate: date,
		Notes:        in.Notes,
		Items:        items,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDeliveryResponse(detail))
}

// GetByID godoc
// @Summary      Obtener entrega
// @Tags         deliveries
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.uc.GetDelivery(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDeliveryResponse(detail))
}

// AddItem godoc
// @Summary      Agregar posición a una entrega sin confirmar
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrega"
// @Param        body  body  dto.DeliveryItemRequest  true  "Posición"
// @Success      201   {object}  dto.DeliveryItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/items [post]
func (h *DeliveryHandler) AddItem(c *fiber.Ctx) error {
	var in dto.DeliveryItemRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	item, err := h.uc.AddDeliveryItem(c.UserContext(), c.Params("id"), toDeliveryItemInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDeliveryItemResponse(item))
}

// UpdateReceived godoc
// @Summary      Actualizar cantidad recibida
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la posición de entrega"
// @Param        body  body  dto.UpdateReceivedRequest  true  "Cantidad recibida"
// @Success      200   {object}  dto.DeliveryItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/delivery-items/{id} [put]
func (h *DeliveryHandler) UpdateReceived(c *fiber.Ctx) error {
	var in dto.UpdateReceivedRequest
	if handled, err := parseBody(c, &in); handled {
		return err
	}
	item, err := h.uc.UpdateReceived(c.UserContext(), c.Params("id"), in.QuantityReceived)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDeliveryItemResponse(item))
}

// Confirm godoc
// @Summary      Confirmar entrega
// @Description  Pasa las unidades en solicitud a tienda, crea las excedentes y marca la entrega como confirmada.
// @Tags         deliveries
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.ConfirmDeliveryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/confirm [post]
func (h *DeliveryHandler) Confirm(c *fiber.Ctx) error {
	res, err := h.uc.ConfirmDelivery(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ConfirmDeliveryResponse{
		DeliveryID: res.DeliveryID,
		Received:   res.Received,
		Extras:     res.Extras,
		InStore:    res.InStore,
	})
}

// Delete godoc
// @Summary      Borrar entrega sin confirmar
// @Tags         deliveries
// @Param        id   path  string  true  "ID de la entrega"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [delete]
func (h *DeliveryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteDelivery(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
