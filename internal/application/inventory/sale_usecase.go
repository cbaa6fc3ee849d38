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

// SaleUseCase registro de ventas de unidades individuales.
type SaleUseCase struct {
	txRunner TxRunner
	serials  *dominv.SerialGenerator
	clock    Clock
	log      *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner TxRunner, serials *dominv.SerialGenerator, clock Clock, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, serials: serials, clock: clock, log: log.Named("sale")}
}

// RecordSaleInput entrada de RecordSale. SaleDate nil = hoy.
type RecordSaleInput struct {
	UnitID   string
	SaleRef  string
	SaleDate *time.Time
	Price    decimal.Decimal
}

// RecordSale marca la unidad como vendida con referencia, fecha y precio.
// Una unidad que aún no llegó (created, candidata, en solicitud) no se puede vender, y una
// rota, perdida o transferida tampoco: esos estados no vuelven al flujo de venta.
func (uc *SaleUseCase) RecordSale(ctx context.Context, in RecordSaleInput) (*entity.ProductUnit, error) {
	var unit *entity.ProductUnit
	err := runTx(ctx, uc.txRunner, func(
		unitRepo repository.UnitRepository,
		_ repository.RequestRepository,
		_ repository.DeliveryRepository,
		_ repository.ProductRepository,
	) error {
		now := uc.clock()
		var err error
		unit, err = unitRepo.GetForUpdate(ctx, in.UnitID)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrNotFound
		}
		if unit.Status == entity.UnitStatusSold {
			return domain.ErrAlreadySold
		}
		if dominv.IsException(unit.Status) {
			return &domain.InvalidTransitionError{From: string(unit.Status), To: string(entity.UnitStatusSold)}
		}
		if err := dominv.ValidateTransition(unit.Status, entity.UnitStatusSold); err != nil {
			return err
		}

		date := now
		if in.SaleDate != nil {
			date = *in.SaleDate
		}
		price := in.Price
		unit.SaleRef = in.SaleRef
		unit.SaleDate = &date
		unit.SalePrice = &price
		return newUnitWriter(unitRepo, uc.serials, now).markSold(ctx, unit)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("unit_id", unit.ID).
		Str("sale_ref", unit.SaleRef).
		Str("price", unit.SalePrice.String()).
		Msg("venta registrada")
	return unit, nil
}
