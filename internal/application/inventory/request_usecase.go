package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// RequestUseCase solicitudes de compra: alta de cabecera, posiciones y su reconciliación
// con las unidades candidatas.
type RequestUseCase struct {
	txRunner TxRunner
	read     Readers
	serials  *dominv.SerialGenerator
	clock    Clock
	log      *logger.Logger
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(txRunner TxRunner, read Readers, serials *dominv.SerialGenerator, clock Clock, log *logger.Logger) *RequestUseCase {
	return &RequestUseCase{
		txRunner: txRunner,
		read:     read,
		serials:  serials,
		clock:    clock,
		log:      log.Named("request"),
	}
}

// CreateRequestLineInput entrada de CreateRequestLine.
type CreateRequestLineInput struct {
	RequestID    string
	ProductID    string
	Quantity     int
	PricePerUnit decimal.Decimal
	SupplierID   *string
}

// AddUnitInput entrada de AddUnitToRequest: una posición ligada a una unidad existente.
type AddUnitInput struct {
	RequestID    string
	UnitID       string
	PricePerUnit decimal.Decimal
	SupplierID   *string
}

// FromCandidatesInput entrada de CreateRequestFromCandidates. DefaultPricePerUnit se usa
// cuando la unidad no tiene precio de compra conocido.
type FromCandidatesInput struct {
	UnitIDs             []string
	Notes               string
	DefaultPricePerUnit decimal.Decimal
}

// LinkCandidatesInput entrada de LinkCandidatesToRequest.
type LinkCandidatesInput struct {
	RequestID           string
	UnitIDs             []string
	DefaultPricePerUnit decimal.Decimal
}

// RequestDetail solicitud con sus posiciones y totales derivados.
type RequestDetail struct {
	Request     *entity.Request
	Items       []*entity.RequestItem
	TotalUnits  int
	TotalAmount decimal.Decimal
}

// CreateRequest crea la cabecera de una solicitud vacía.
func (uc *RequestUseCase) CreateRequest(ctx context.Context, notes string) (*entity.Request, error) {
	now := uc.clock()
	req := &entity.Request{ID: uuid.New().String(), Notes: notes, CreatedAt: now, UpdatedAt: now}
	err := runTx(ctx, uc.txRunner, func(
		_ repository.UnitRepository,
		requestRepo repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		return requestRepo.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// CreateRequestLine crea una posición de Quantity unidades del producto. Primero reutiliza las
// candidatas libres (bloqueadas con FOR UPDATE SKIP LOCKED), fabrica el faltante como candidatas
// con seriales de lote y deja todas in_request ligadas a la posición. Todo en una transacción.
func (uc *RequestUseCase) CreateRequestLine(ctx context.Context, in CreateRequestLineInput) (*entity.RequestItem, error) {
	if err := validateRequestLine(in.Quantity, in.PricePerUnit); err != nil {
		return nil, err
	}
	product, err := uc.read.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	var (
		item                 *entity.RequestItem
		reused, manufactured int
	)
	err = runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		requestRepo repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		now := uc.clock()
		if err := openRequest(ctx, requestRepo, in.RequestID); err != nil {
			return err
		}

		candidates, err := unitRepo.LockCandidates(ctx, product.ID, in.Quantity)
		if err != nil {
			return err
		}
		shortfall := in.Quantity - len(candidates)
		var serials []string
		if shortfall > 0 {
			if !product.HasCode() {
				return &domain.MissingProductCodeError{ProductID: product.ID}
			}
			prefix := dominv.BatchPrefix(product.Code, now)
			existing, err := unitRepo.SerialsWithPrefix(ctx, prefix)
			if err != nil {
				return err
			}
			serials = dominv.BatchSerials(prefix, existing, shortfall)
		}

		item = &entity.RequestItem{
			ID:           uuid.New().String(),
			RequestID:    in.RequestID,
			ProductID:    product.ID,
			Quantity:     in.Quantity,
			PricePerUnit: in.PricePerUnit,
			SupplierID:   in.SupplierID,
			CreatedAt:    now,
		}
		if err := requestRepo.CreateItem(ctx, item); err != nil {
			return err
		}

		w := newUnitWriter(unitRepo, uc.serials, now)
		units := candidates
		for _, serial := range serials {
			u := &entity.ProductUnit{SerialNumber: serial, Status: entity.UnitStatusCandidate}
			if err := w.create(ctx, product, u); err != nil {
				return err
			}
			units = append(units, u)
		}
		for _, u := range units {
			u.RequestItemID = &item.ID
			if err := w.move(ctx, u, entity.UnitStatusInRequest); err != nil {
				return err
			}
		}
		reused, manufactured = len(candidates), len(serials)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("request_id", in.RequestID).
		Str("request_item_id", item.ID).
		Int("reused", reused).
		Int("manufactured", manufactured).
		Msg("posición de solicitud creada")
	return item, nil
}

// AddUnitToRequest liga una unidad existente a la solicitud con una posición de cantidad 1
// y fuerza su estado a in_request. Solo admite unidades created, candidate_in_request o
// in_request_cancelled.
func (uc *RequestUseCase) AddUnitToRequest(ctx context.Context, in AddUnitInput) (*entity.RequestItem, error) {
	if err := validateRequestLine(1, in.PricePerUnit); err != nil {
		return nil, err
	}
	if err := uc.checkSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}
	var item *entity.RequestItem
	err := runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		requestRepo repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		now := uc.clock()
		if err := openRequest(ctx, requestRepo, in.RequestID); err != nil {
			return err
		}
		unit, err := unitRepo.GetForUpdate(ctx, in.UnitID)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrNotFound
		}
		if err := requestable(unit); err != nil {
			return err
		}
		item, err = bindUnit(ctx, requestRepo, newUnitWriter(unitRepo, uc.serials, now), unit, in.RequestID, in.PricePerUnit, in.SupplierID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("request_id", in.RequestID).Str("unit_id", in.UnitID).Msg("unidad agregada a la solicitud")
	return item, nil
}

// CreateRequestFromCandidates crea una solicitud con una posición por cada unidad candidata
// indicada. Las unidades que no son candidatas se ignoran; si no queda ninguna, ErrInvalidInput.
// Proveedor: el habitual del producto.
func (uc *RequestUseCase) CreateRequestFromCandidates(ctx context.Context, in FromCandidatesInput) (*RequestDetail, error) {
	if len(in.UnitIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var (
		req   *entity.Request
		bound int
	)
	err := runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		requestRepo repository.RequestRepository,
		deliveryRepo repository.DeliveryRepository,
		productRepo repository.ProductRepository,
	) error {
		now := uc.clock()
		candidates, err := lockFreeCandidates(ctx, unitRepo, in.UnitIDs)
		if err != nil {
			return err
		}

		req = &entity.Request{
			ID:        uuid.New().String(),
			Notes:     in.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if req.Notes == "" {
			req.Notes = "Creada automáticamente a partir de candidatas"
		}
		if err := requestRepo.Create(ctx, req); err != nil {
			return err
		}
		binder := candidateBinder{requests: requestRepo, deliveries: deliveryRepo, products: productRepo, w: newUnitWriter(unitRepo, uc.serials, now)}
		bound, err = binder.bindAll(ctx, candidates, req.ID, in.DefaultPricePerUnit)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("request_id", req.ID).
		Int("units", bound).
		Int("ignored", len(in.UnitIDs)-bound).
		Msg("solicitud creada desde candidatas")
	return uc.GetRequest(ctx, req.ID)
}

// LinkCandidatesToRequest liga varias candidatas libres a una solicitud abierta existente,
// una posición de cantidad 1 por unidad, con el mismo precio y proveedor que
// CreateRequestFromCandidates. Las demás unidades se ignoran; si no queda ninguna, ErrInvalidInput.
func (uc *RequestUseCase) LinkCandidatesToRequest(ctx context.Context, in LinkCandidatesInput) (*RequestDetail, error) {
	if len(in.UnitIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var bound int
	err := runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		requestRepo repository.RequestRepository,
		deliveryRepo repository.DeliveryRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := openRequest(ctx, requestRepo, in.RequestID); err != nil {
			return err
		}
		candidates, err := lockFreeCandidates(ctx, unitRepo, in.UnitIDs)
		if err != nil {
			return err
		}
		binder := candidateBinder{requests: requestRepo, deliveries: deliveryRepo, products: productRepo, w: newUnitWriter(unitRepo, uc.serials, uc.clock())}
		bound, err = binder.bindAll(ctx, candidates, in.RequestID, in.DefaultPricePerUnit)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("request_id", in.RequestID).
		Int("units", bound).
		Int("ignored", len(in.UnitIDs)-bound).
		Msg("candidatas ligadas a la solicitud")
	return uc.GetRequest(ctx, in.RequestID)
}

// CancelRequestLine pasa a in_request_cancelled las unidades in_request de la posición.
// Devuelve cuántas unidades cambiaron.
func (uc *RequestUseCase) CancelRequestLine(ctx context.Context, itemID string) (int, error) {
	var cancelled int
	err := runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		requestRepo repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		cancelled = 0
		item, err := requestRepo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		units, err := unitRepo.ListByRequestItem(ctx, item.ID)
		if err != nil {
			return err
		}
		w := newUnitWriter(unitRepo, uc.serials, uc.clock())
		for _, u := range units {
			locked, err := unitRepo.GetForUpdate(ctx, u.ID)
			if err != nil {
				return err
			}
			if locked == nil || locked.Status != entity.UnitStatusInRequest {
				continue
			}
			if err := w.move(ctx, locked, entity.UnitStatusInRequestCancelled); err != nil {
				return err
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Str("request_item_id", itemID).Int("cancelled", cancelled).Msg("posición de solicitud cancelada")
	return cancelled, nil
}

// SetRequestCompleted marca la solicitud como completada o la devuelve a trabajo.
func (uc *RequestUseCase) SetRequestCompleted(ctx context.Context, requestID string, completed bool) (*entity.Request, error) {
	var req *entity.Request
	err := runTx(ctx, uc.txRunner, func(
		_ repository.UnitRepository,
		requestRepo repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		req, err = requestRepo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		req.IsCompleted = completed
		req.UpdatedAt = uc.clock()
		return requestRepo.Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// DeleteRequest borra la solicitud y sus posiciones. Las unidades no se borran: su
// referencia a la posición queda en nil.
func (uc *RequestUseCase) DeleteRequest(ctx context.Context, requestID string) error {
	err := runTx(ctx, uc.txRunner, func(
		_ repository.UnitRepository,
		requestRepo repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		req, err := requestRepo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		return requestRepo.Delete(ctx, requestID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("request_id", requestID).Msg("solicitud eliminada")
	return nil
}

// GetRequest devuelve la solicitud con posiciones, total de unidades y monto total.
func (uc *RequestUseCase) GetRequest(ctx context.Context, requestID string) (*RequestDetail, error) {
	req, err := uc.read.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.read.Requests.ListItems(ctx, requestID)
	if err != nil {
		return nil, err
	}
	detail := &RequestDetail{Request: req, Items: items, TotalAmount: decimal.Zero}
	for _, it := range items {
		detail.TotalUnits += it.Quantity
		detail.TotalAmount = detail.TotalAmount.Add(it.TotalCost())
	}
	return detail, nil
}

// ListLineUnits unidades ligadas a una posición de solicitud.
func (uc *RequestUseCase) ListLineUnits(ctx context.Context, itemID string) ([]*entity.ProductUnit, error) {
	item, err := uc.read.Requests.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return uc.read.Units.ListByRequestItem(ctx, itemID)
}

func (uc *RequestUseCase) checkSupplier(ctx context.Context, supplierID *string) error {
	if supplierID == nil || *supplierID == "" {
		return nil
	}
	s, err := uc.read.Suppliers.GetByID(ctx, *supplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return nil
}

func validateRequestLine(quantity int, price decimal.Decimal) error {
	if quantity < 1 {
		return &domain.InvalidRequestLineError{Field: "quantity", Reason: "la cantidad no puede ser menor que 1"}
	}
	if !price.GreaterThan(decimal.Zero) {
		return &domain.InvalidRequestLineError{Field: "price_per_unit", Reason: "el precio debe ser positivo"}
	}
	return nil
}

// openRequest verifica que la solicitud exista y siga abierta.
func openRequest(ctx context.Context, requestRepo repository.RequestRepository, requestID string) error {
	req, err := requestRepo.GetForUpdate(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return domain.ErrNotFound
	}
	if req.IsCompleted {
		return domain.ErrConflict
	}
	return nil
}

// requestable: solo unidades aún no comprometidas pueden entrar en una solicitud.
func requestable(u *entity.ProductUnit) error {
	switch u.Status {
	case entity.UnitStatusCreated, entity.UnitStatusInRequestCancelled:
		return nil
	case entity.UnitStatusCandidate:
		if u.RequestItemID == nil {
			return nil
		}
		return domain.ErrConflict
	}
	return &domain.InvalidTransitionError{From: string(u.Status), To: string(entity.UnitStatusInRequest)}
}

// bindUnit crea la posición de cantidad 1 para la unidad y la deja in_request ligada a ella.
func bindUnit(
	ctx context.Context,
	requestRepo repository.RequestRepository,
	w unitWriter,
	unit *entity.ProductUnit,
	requestID string,
	price decimal.Decimal,
	supplierID *string,
) (*entity.RequestItem, error) {
	item := &entity.RequestItem{
		ID:           uuid.New().String(),
		RequestID:    requestID,
		ProductID:    unit.ProductID,
		Quantity:     1,
		PricePerUnit: price,
		SupplierID:   supplierID,
		CreatedAt:    w.now,
	}
	if err := requestRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	unit.RequestItemID = &item.ID
	if err := w.move(ctx, unit, entity.UnitStatusInRequest); err != nil {
		return nil, err
	}
	return item, nil
}

// lockFreeCandidates bloquea las unidades indicadas y se queda con las candidatas sin posición.
// Un id inexistente es ErrNotFound; ninguna candidata, ErrInvalidInput.
func lockFreeCandidates(ctx context.Context, unitRepo repository.UnitRepository, ids []string) ([]*entity.ProductUnit, error) {
	var candidates []*entity.ProductUnit
	for _, id := range ids {
		unit, err := unitRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, domain.ErrNotFound
		}
		if unit.Status == entity.UnitStatusCandidate && unit.RequestItemID == nil {
			candidates = append(candidates, unit)
		}
	}
	if len(candidates) == 0 {
		return nil, domain.ErrInvalidInput
	}
	return candidates, nil
}

// candidateBinder liga candidatas a una solicitud con precio de su entrega (o el por defecto)
// y el proveedor habitual del producto.
type candidateBinder struct {
	requests   repository.RequestRepository
	deliveries repository.DeliveryRepository
	products   repository.ProductRepository
	w          unitWriter
}

func (b candidateBinder) bindAll(ctx context.Context, units []*entity.ProductUnit, requestID string, defaultPrice decimal.Decimal) (int, error) {
	for _, unit := range units {
		price := defaultPrice
		if unit.DeliveryItemID != nil {
			di, err := b.deliveries.GetItem(ctx, *unit.DeliveryItemID)
			if err != nil {
				return 0, err
			}
			if di != nil {
				price = di.PricePerUnit
			}
		}
		if err := validateRequestLine(1, price); err != nil {
			return 0, err
		}
		var supplierID *string
		product, err := b.products.GetByID(ctx, unit.ProductID)
		if err != nil {
			return 0, err
		}
		if product != nil && product.MainSupplierID != "" {
			s := product.MainSupplierID
			supplierID = &s
		}
		if _, err := bindUnit(ctx, b.requests, b.w, unit, requestID, price, supplierID); err != nil {
			return 0, err
		}
	}
	return len(units), nil
}
