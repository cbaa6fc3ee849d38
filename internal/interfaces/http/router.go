package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	SupplierUC *usecase.SupplierUseCase
	Units      *inventory.UnitRegistry
	Requests   *inventory.RequestUseCase
	Deliveries *inventory.DeliveryUseCase
	Sales      *inventory.SaleUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Unidades: /candidates y /reset antes de /:id
	units := api.Group("/units")
	unitHandler := NewUnitHandler(deps.Units, deps.Sales)
	units.Post("/", unitHandler.Create)
	units.Get("/", unitHandler.List)
	units.Post("/candidates", unitHandler.MarkCandidates)
	units.Post("/reset", unitHandler.Reset)
	units.Get("/:id", unitHandler.GetByID)
	units.Get("/:id/purchase-price", unitHandler.PurchasePrice)
	units.Post("/:id/exception", unitHandler.MarkException)
	units.Post("/:id/sale", unitHandler.RecordSale)

	requests := api.Group("/requests")
	requestHandler := NewRequestHandler(deps.Requests)
	requests.Post("/", requestHandler.Create)
	requests.Post("/from-candidates", requestHandler.FromCandidates)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Delete("/:id", requestHandler.Delete)
	requests.Post("/:id/lines", requestHandler.CreateLine)
	requests.Post("/:id/units", requestHandler.AddUnit)
	requests.Post("/:id/candidates", requestHandler.LinkCandidates)
	requests.Post("/:id/complete", requestHandler.SetCompleted)

	requestItems := api.Group("/request-items")
	requestItems.Post("/:id/cancel", requestHandler.CancelLine)
	requestItems.Get("/:id/units", requestHandler.LineUnits)

	deliveries := api.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.Deliveries)
	deliveries.Post("/", deliveryHandler.Create)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Delete("/:id", deliveryHandler.Delete)
	deliveries.Post("/:id/items", deliveryHandler.AddItem)
	deliveries.Post("/:id/confirm", deliveryHandler.Confirm)

	api.Put("/delivery-items/:id", deliveryHandler.UpdateReceived)
}
