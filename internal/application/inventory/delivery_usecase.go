package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// DeliveryUseCase entregas de proveedor: alta, edición previa a la confirmación y la cascada
// de confirmación que mueve las unidades a tienda.
type DeliveryUseCase struct {
	txRunner TxRunner
	read     Readers
	locker   Locker
	serials  *dominv.SerialGenerator
	clock    Clock
	log      *logger.Logger
}

// NewDeliveryUseCase construye el caso de uso. locker puede ser un no-op.
func NewDeliveryUseCase(txRunner TxRunner, read Readers, locker Locker, serials *dominv.SerialGenerator, clock Clock, log *logger.Logger) *DeliveryUseCase {
	return &DeliveryUseCase{
		txRunner: txRunner,
		read:     read,
		locker:   locker,
		serials:  serials,
		clock:    clock,
		log:      log.Named("delivery"),
	}
}

// DeliveryItemInput posición de entrega. QuantityExpected = 0 con RequestItemID se toma de la solicitud.
type DeliveryItemInput struct {
	ProductID        string
	RequestItemID    *string
	QuantityExpected int
	QuantityReceived int
	PricePerUnit     decimal.Decimal
}

// CreateDeliveryInput entrada de CreateDelivery.
type CreateDeliveryInput struct {
	SupplierID   string
	DeliveryDate time.Time
	Notes        string
	Items        []DeliveryItemInput
}

// DeliveryDetail entrega con sus posiciones.
type DeliveryDetail struct {
	Delivery *entity.Delivery
	Items    []*entity.DeliveryItem
}

// ConfirmResult resumen de la confirmación.
type ConfirmResult struct {
	DeliveryID string
	Received   int // unidades de solicitud recibidas
	Extras     int // unidades creadas por excedente
	InStore    int // unidades promovidas a tienda
}

// CreateDelivery crea la entrega y sus posiciones sin tocar unidades.
func (uc *DeliveryUseCase) CreateDelivery(ctx context.Context, in CreateDeliveryInput) (*DeliveryDetail, error) {
	if in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkDate(in.DeliveryDate); err != nil {
		return nil, err
	}
	supplier, err := uc.read.Suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	var detail *DeliveryDetail
	err = runTx(ctx, uc.txRunner, func(
		_ repository.UnitRepository,
		requestRepo repository.RequestRepository,
		deliveryRepo repository.DeliveryRepository,
		productRepo repository.ProductRepository,
	) error {
		now := uc.clock()
		d := &entity.Delivery{
			ID:           uuid.New().String(),
			SupplierID:   in.SupplierID,
			DeliveryDate: in.DeliveryDate,
			Notes:        in.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := deliveryRepo.Create(ctx, d); err != nil {
			return err
		}
		detail = &DeliveryDetail{Delivery: d}
		for _, itemIn := range in.Items {
			item, err := newDeliveryItem(ctx, requestRepo, productRepo, d.ID, itemIn, now)
			if err != nil {
				return err
			}
			if err := deliveryRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			detail.Items = append(detail.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("delivery_id", detail.Delivery.ID).Int("items", len(detail.Items)).Msg("entrega creada")
	return detail, nil
}

// AddDeliveryItem agrega una posición a una entrega aún no confirmada.
func (uc *DeliveryUseCase) AddDeliveryItem(ctx context.Context, deliveryID string, in DeliveryItemInput) (*entity.DeliveryItem, error) {
	var item *entity.DeliveryItem
	err := runTx(ctx, uc.txRunner, func(
		_ repository.UnitRepository,
		requestRepo repository.RequestRepository,
		deliveryRepo repository.DeliveryRepository,
		productRepo repository.ProductRepository,
	) error {
		if _, err := openDelivery(ctx, deliveryRepo, deliveryID); err != nil {
			return err
		}
		var err error
		item, err = newDeliveryItem(ctx, requestRepo, productRepo, deliveryID, in, uc.clock())
		if err != nil {
			return err
		}
		return deliveryRepo.CreateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateReceived corrige la cantidad recibida de una posición antes de confirmar.
func (uc *DeliveryUseCase) UpdateReceived(ctx context.Context, itemID string, quantity int) (*entity.DeliveryItem, error) {
	if quantity < 0 {
		return nil, &domain.InvalidDeliveryLineError{Field: "quantity_received", Reason: "la cantidad recibida no puede ser negativa"}
	}
	var item *entity.DeliveryItem
	err := runTx(ctx, uc.txRunner, func(
		_ repository.UnitRepository,
		_ repository.RequestRepository,
		deliveryRepo repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		item, err = deliveryRepo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if _, err := openDelivery(ctx, deliveryRepo, item.DeliveryID); err != nil {
			return err
		}
		item.QuantityReceived = quantity
		return deliveryRepo.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ConfirmDelivery confirma la entrega en una sola transacción. Por cada posición toma hasta
// min(recibido, esperado) unidades in_request (primero las de la posición de solicitud ligada,
// luego cualquiera del producto) y las pasa a in_delivery; el excedente crea unidades
// extra_add_delivery. Después promueve todo lo recibido a in_store.
func (uc *DeliveryUseCase) ConfirmDelivery(ctx context.Context, deliveryID string) (*ConfirmResult, error) {
	release, err := uc.locker.Lock(ctx, "delivery:"+deliveryID)
	if err != nil {
		return nil, fmt.Errorf("lock delivery %s: %w", deliveryID, err)
	}
	defer release()

	var res *ConfirmResult
	err = runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		_ repository.RequestRepository,
		deliveryRepo repository.DeliveryRepository,
		productRepo repository.ProductRepository,
	) error {
		res = &ConfirmResult{DeliveryID: deliveryID}
		now := uc.clock()
		d, err := openDelivery(ctx, deliveryRepo, deliveryID)
		if err != nil {
			return err
		}
		if err := uc.checkDate(d.DeliveryDate); err != nil {
			return err
		}
		items, err := deliveryRepo.ListItems(ctx, deliveryID)
		if err != nil {
			return err
		}
		w := newUnitWriter(unitRepo, uc.serials, now)
		for _, item := range items {
			received, extras, err := uc.receiveItem(ctx, unitRepo, productRepo, w, d, item)
			if err != nil {
				return fmt.Errorf("delivery item %s: %w", item.ID, err)
			}
			res.Received += received
			res.Extras += extras
		}
		for _, item := range items {
			promoted, err := promoteItem(ctx, unitRepo, w, item.ID, now)
			if err != nil {
				return fmt.Errorf("delivery item %s: %w", item.ID, err)
			}
			res.InStore += promoted
		}

		d.IsConfirmed = true
		d.ConfirmedAt = &now
		d.UpdatedAt = now
		return deliveryRepo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("delivery_id", deliveryID).
		Int("received", res.Received).
		Int("extras", res.Extras).
		Int("in_store", res.InStore).
		Msg("entrega confirmada")
	return res, nil
}

// receiveItem primera fase de una posición: unidades de solicitud a in_delivery y excedentes.
func (uc *DeliveryUseCase) receiveItem(
	ctx context.Context,
	unitRepo repository.UnitRepository,
	productRepo repository.ProductRepository,
	w unitWriter,
	d *entity.Delivery,
	item *entity.DeliveryItem,
) (received, extras int, err error) {
	want := item.QuantityReceived
	if item.QuantityExpected < want {
		want = item.QuantityExpected
	}
	stamp := func(u *entity.ProductUnit) {
		id := item.ID
		date := d.DeliveryDate
		u.DeliveryItemID = &id
		u.DeliveryDate = &date
	}

	if want > 0 && item.RequestItemID != nil {
		units, err := unitRepo.LockInRequest(ctx, item.ProductID, item.RequestItemID, want)
		if err != nil {
			return 0, 0, err
		}
		for _, u := range units {
			stamp(u)
			if err := w.move(ctx, u, entity.UnitStatusInDelivery); err != nil {
				return 0, 0, err
			}
		}
		received = len(units)
	}
	if received < want {
		units, err := unitRepo.LockInRequest(ctx, item.ProductID, nil, want-received)
		if err != nil {
			return 0, 0, err
		}
		for _, u := range units {
			stamp(u)
			if err := w.move(ctx, u, entity.UnitStatusInDelivery); err != nil {
				return 0, 0, err
			}
		}
		received += len(units)
	}

	surplus := item.Surplus()
	if surplus == 0 {
		return received, 0, nil
	}
	product, err := productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return 0, 0, err
	}
	if product == nil {
		return 0, 0, domain.ErrNotFound
	}
	for i := 0; i < surplus; i++ {
		u := &entity.ProductUnit{
			Status:                 entity.UnitStatusExtraAddDelivery,
			IsExtraAddDeliveryItem: true,
		}
		stamp(u)
		if err := w.create(ctx, product, u); err != nil {
			return 0, 0, err
		}
	}
	return received, surplus, nil
}

// promoteItem segunda fase: in_delivery y extra_add_delivery de la posición pasan a in_store.
func promoteItem(ctx context.Context, unitRepo repository.UnitRepository, w unitWriter, itemID string, now time.Time) (int, error) {
	units, err := unitRepo.ListByDeliveryItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	promoted := 0
	for _, u := range units {
		if u.Status != entity.UnitStatusInDelivery && u.Status != entity.UnitStatusExtraAddDelivery {
			continue
		}
		arrival := now
		u.StoreArrivalAt = &arrival
		if err := w.move(ctx, u, entity.UnitStatusInStore); err != nil {
			return 0, err
		}
		promoted++
	}
	return promoted, nil
}

// DeleteDelivery borra una entrega no confirmada con sus posiciones.
func (uc *DeliveryUseCase) DeleteDelivery(ctx context.Context, deliveryID string) error {
	err := runTx(ctx, uc.txRunner, func(
		_ repository.UnitRepository,
		_ repository.RequestRepository,
		deliveryRepo repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		if _, err := openDelivery(ctx, deliveryRepo, deliveryID); err != nil {
			return err
		}
		return deliveryRepo.Delete(ctx, deliveryID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("delivery_id", deliveryID).Msg("entrega eliminada")
	return nil
}

// GetDelivery devuelve la entrega con sus posiciones.
func (uc *DeliveryUseCase) GetDelivery(ctx context.Context, deliveryID string) (*DeliveryDetail, error) {
	d, err := uc.read.Deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.read.Deliveries.ListItems(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	return &DeliveryDetail{Delivery: d, Items: items}, nil
}

// checkDate compara solo fechas: hoy es válido sin importar la hora.
func (uc *DeliveryUseCase) checkDate(date time.Time) error {
	if date.IsZero() {
		return &domain.InvalidDeliveryLineError{Field: "delivery_date", Reason: "la fecha de entrega es obligatoria"}
	}
	now := uc.clock()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dy, dm, dd := date.In(now.Location()).Date()
	if time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location()).After(today) {
		return domain.ErrFutureDate
	}
	return nil
}

// openDelivery bloquea la cabecera y verifica que exista y no esté confirmada.
func openDelivery(ctx context.Context, deliveryRepo repository.DeliveryRepository, deliveryID string) (*entity.Delivery, error) {
	d, err := deliveryRepo.GetForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.IsConfirmed {
		return nil, domain.ErrAlreadyConfirmed
	}
	return d, nil
}

func newDeliveryItem(
	ctx context.Context,
	requestRepo repository.RequestRepository,
	productRepo repository.ProductRepository,
	deliveryID string,
	in DeliveryItemInput,
	now time.Time,
) (*entity.DeliveryItem, error) {
	if in.QuantityReceived < 0 {
		return nil, &domain.InvalidDeliveryLineError{Field: "quantity_received", Reason: "la cantidad recibida no puede ser negativa"}
	}
	if in.QuantityExpected < 0 {
		return nil, &domain.InvalidDeliveryLineError{Field: "quantity_expected", Reason: "la cantidad esperada no puede ser negativa"}
	}
	if in.PricePerUnit.IsNegative() {
		return nil, &domain.InvalidDeliveryLineError{Field: "price_per_unit", Reason: "el precio no puede ser negativo"}
	}
	product, err := productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	item := &entity.DeliveryItem{
		ID:               uuid.New().String(),
		DeliveryID:       deliveryID,
		ProductID:        in.ProductID,
		QuantityExpected: in.QuantityExpected,
		QuantityReceived: in.QuantityReceived,
		PricePerUnit:     in.PricePerUnit,
		CreatedAt:        now,
	}
	if in.RequestItemID != nil && *in.RequestItemID != "" {
		ri, err := requestRepo.GetItem(ctx, *in.RequestItemID)
		if err != nil {
			return nil, err
		}
		if ri == nil {
			return nil, domain.ErrNotFound
		}
		if ri.ProductID != in.ProductID {
			return nil, &domain.InvalidDeliveryLineError{Field: "request_item_id", Reason: "la posición de solicitud es de otro producto"}
		}
		switch {
		case in.QuantityExpected == 0:
			item.QuantityExpected = ri.Quantity
		case in.QuantityExpected != ri.Quantity:
			return nil, &domain.InvalidDeliveryLineError{Field: "quantity_expected", Reason: "no coincide con la cantidad solicitada"}
		}
		id := ri.ID
		item.RequestItemID = &id
		if item.PricePerUnit.IsZero() {
			item.PricePerUnit = ri.PricePerUnit
		}
	}
	return item, nil
}
