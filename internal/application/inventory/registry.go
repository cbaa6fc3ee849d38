package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// UnitRegistry registro de unidades: alta, consultas y cambios de estado laterales.
// No inicia transiciones del flujo principal; esas las piden solicitud, entrega y venta.
type UnitRegistry struct {
	txRunner TxRunner
	read     Readers
	serials  *dominv.SerialGenerator
	clock    Clock
	log      *logger.Logger
}

// NewUnitRegistry construye el caso de uso.
func NewUnitRegistry(txRunner TxRunner, read Readers, serials *dominv.SerialGenerator, clock Clock, log *logger.Logger) *UnitRegistry {
	return &UnitRegistry{
		txRunner: txRunner,
		read:     read,
		serials:  serials,
		clock:    clock,
		log:      log.Named("unit_registry"),
	}
}

// UnitQuery filtros de ListUnitsByStatus. Group es un grupo con nombre (available, in_process,
// completed) que se suma a Statuses.
type UnitQuery struct {
	Statuses  []entity.UnitStatus
	Group     string
	ProductID string
	RequestID string
	Limit     int
	Offset    int
}

// DeliveryInfo datos de la entrega que trajo una unidad.
type DeliveryInfo struct {
	DeliveryID   string
	DeliveryDate time.Time
	SupplierID   string
	SupplierName string
	Price        decimal.Decimal
}

// CreateUnit registra una unidad vacía (estado created) con serial generado.
func (uc *UnitRegistry) CreateUnit(ctx context.Context, productID string) (*entity.ProductUnit, error) {
	product, err := uc.read.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.HasCode() {
		return nil, &domain.MissingProductCodeError{ProductID: product.ID}
	}

	var unit *entity.ProductUnit
	err = runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		_ repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		unit = &entity.ProductUnit{Status: entity.UnitStatusCreated}
		return newUnitWriter(unitRepo, uc.serials, uc.clock()).create(ctx, product, unit)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("unit_id", unit.ID).Str("serial", unit.SerialNumber).Msg("unidad registrada")
	return unit, nil
}

// GetUnit obtiene una unidad por ID.
func (uc *UnitRegistry) GetUnit(ctx context.Context, id string) (*entity.ProductUnit, error) {
	unit, err := uc.read.Units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return unit, nil
}

// GetPurchasePrice precio de compra de la unidad: el de la posición de entrega ligada.
// found=false si la unidad no tiene entrega.
func (uc *UnitRegistry) GetPurchasePrice(ctx context.Context, unitID string) (price decimal.Decimal, found bool, err error) {
	unit, err := uc.GetUnit(ctx, unitID)
	if err != nil {
		return decimal.Zero, false, err
	}
	if unit.DeliveryItemID == nil {
		return decimal.Zero, false, nil
	}
	item, err := uc.read.Deliveries.GetItem(ctx, *unit.DeliveryItemID)
	if err != nil {
		return decimal.Zero, false, err
	}
	if item == nil {
		return decimal.Zero, false, nil
	}
	return item.PricePerUnit, true, nil
}

// GetDeliveryInfo fecha, proveedor y precio de la entrega de la unidad; nil si no tiene.
func (uc *UnitRegistry) GetDeliveryInfo(ctx context.Context, unitID string) (*DeliveryInfo, error) {
	unit, err := uc.GetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit.DeliveryItemID == nil {
		return nil, nil
	}
	item, err := uc.read.Deliveries.GetItem(ctx, *unit.DeliveryItemID)
	if err != nil || item == nil {
		return nil, err
	}
	delivery, err := uc.read.Deliveries.GetByID(ctx, item.DeliveryID)
	if err != nil || delivery == nil {
		return nil, err
	}
	info := &DeliveryInfo{
		DeliveryID:   delivery.ID,
		DeliveryDate: delivery.DeliveryDate,
		SupplierID:   delivery.SupplierID,
		Price:        item.PricePerUnit,
	}
	supplier, err := uc.read.Suppliers.GetByID(ctx, delivery.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier != nil {
		info.SupplierName = supplier.Name
	}
	return info, nil
}

// ListUnitsByStatus lista unidades (solo lectura) para los filtros del panel.
func (uc *UnitRegistry) ListUnitsByStatus(ctx context.Context, q UnitQuery) ([]*entity.ProductUnit, error) {
	statuses := append([]entity.UnitStatus(nil), q.Statuses...)
	for _, s := range statuses {
		if !s.Valid() {
			return nil, domain.ErrInvalidInput
		}
	}
	if q.Group != "" {
		group, ok := dominv.StatusGroup(q.Group)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		statuses = append(statuses, group...)
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return uc.read.Units.List(ctx, repository.UnitFilter{
		Statuses:  statuses,
		ProductID: q.ProductID,
		RequestID: q.RequestID,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
}

// MarkAsCandidates pasa a candidate_in_request las unidades en created o in_request_cancelled.
// Las demás se omiten y se cuentan en skipped.
func (uc *UnitRegistry) MarkAsCandidates(ctx context.Context, unitIDs []string) (updated, skipped int, err error) {
	if len(unitIDs) == 0 {
		return 0, 0, domain.ErrInvalidInput
	}
	err = runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		_ repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		updated, skipped = 0, 0
		w := newUnitWriter(unitRepo, uc.serials, uc.clock())
		for _, id := range unitIDs {
			unit, err := unitRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if unit == nil {
				return domain.ErrNotFound
			}
			if unit.Status != entity.UnitStatusCreated && unit.Status != entity.UnitStatusInRequestCancelled {
				skipped++
				continue
			}
			if unit.Status == entity.UnitStatusInRequestCancelled {
				unit.RequestItemID = nil
			}
			if err := w.move(ctx, unit, entity.UnitStatusCandidate); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	uc.log.Info().Int("updated", updated).Int("skipped", skipped).Msg("unidades marcadas como candidatas")
	return updated, skipped, nil
}

// ResetToCreated devuelve a created las unidades que aún no se comprometieron con un pedido:
// candidatas e in_request_cancelled, soltando su posición. Las unidades in_request se cancelan
// antes por su posición; las que ya llegaron o salieron conservan su historia. Las omitidas se
// cuentan en skipped.
func (uc *UnitRegistry) ResetToCreated(ctx context.Context, unitIDs []string) (updated, skipped int, err error) {
	if len(unitIDs) == 0 {
		return 0, 0, domain.ErrInvalidInput
	}
	err = runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		_ repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		updated, skipped = 0, 0
		w := newUnitWriter(unitRepo, uc.serials, uc.clock())
		for _, id := range unitIDs {
			unit, err := unitRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if unit == nil {
				return domain.ErrNotFound
			}
			if unit.Status != entity.UnitStatusCandidate && unit.Status != entity.UnitStatusInRequestCancelled {
				skipped++
				continue
			}
			unit.RequestItemID = nil
			if err := w.move(ctx, unit, entity.UnitStatusCreated); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	uc.log.Info().Int("updated", updated).Int("skipped", skipped).Msg("unidades devueltas a created")
	return updated, skipped, nil
}

// MarkException mueve la unidad a un estado lateral: broken, lost o transferred.
// Una unidad vendida no puede salir por aquí (tabla de transiciones).
func (uc *UnitRegistry) MarkException(ctx context.Context, unitID string, status entity.UnitStatus) (*entity.ProductUnit, error) {
	if !dominv.IsException(status) {
		return nil, domain.ErrInvalidInput
	}
	var unit *entity.ProductUnit
	err := runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		_ repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		unit, err = unitRepo.GetForUpdate(ctx, unitID)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrNotFound
		}
		return newUnitWriter(unitRepo, uc.serials, uc.clock()).move(ctx, unit, status)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("unit_id", unit.ID).Str("status", string(status)).Msg("unidad fuera de flujo")
	return unit, nil
}
