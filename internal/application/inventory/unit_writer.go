package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// maxSerialAttempts intentos de generar un serial libre antes de devolver GenerationError.
const maxSerialAttempts = 3

// unitWriter concentra las escrituras de unidades dentro de una transacción:
// asigna seriales, valida la tabla de transiciones y las invariantes antes de persistir.
// Es el único camino de escritura de ProductUnit.
type unitWriter struct {
	units   repository.UnitRepository
	serials *dominv.SerialGenerator
	now     time.Time
}

func newUnitWriter(units repository.UnitRepository, serials *dominv.SerialGenerator, now time.Time) unitWriter {
	return unitWriter{units: units, serials: serials, now: now}
}

// create registra una unidad nueva del producto. Si no trae serial se genera uno único.
func (w unitWriter) create(ctx context.Context, product *entity.Product, u *entity.ProductUnit) error {
	if u.SerialNumber == "" {
		serial, err := w.uniqueSerial(ctx, product)
		if err != nil {
			return err
		}
		u.SerialNumber = serial
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Status == "" {
		u.Status = entity.UnitStatusCreated
	}
	u.ProductID = product.ID
	u.CreatedAt = w.now
	u.UpdatedAt = w.now
	if err := dominv.ValidateUnit(u); err != nil {
		return err
	}
	if err := w.units.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// otro proceso tomó el mismo serial entre la comprobación y el insert
			return fmt.Errorf("serial %s: %w", u.SerialNumber, domain.ErrConcurrentUpdate)
		}
		return err
	}
	return nil
}

func (w unitWriter) uniqueSerial(ctx context.Context, product *entity.Product) (string, error) {
	if !product.HasCode() {
		return "", &domain.MissingProductCodeError{ProductID: product.ID}
	}
	for i := 0; i < maxSerialAttempts; i++ {
		serial := w.serials.Next(product.Code)
		exists, err := w.units.SerialExists(ctx, serial)
		if err != nil {
			return "", err
		}
		if !exists {
			return serial, nil
		}
	}
	return "", &domain.GenerationError{ProductID: product.ID, Reason: "colisión con un serial existente"}
}

// move cambia el estado de la unidad. Nunca lleva a sold: eso solo lo hace markSold.
func (w unitWriter) move(ctx context.Context, u *entity.ProductUnit, to entity.UnitStatus) error {
	if to == entity.UnitStatusSold {
		return &domain.InvalidTransitionError{From: string(u.Status), To: string(to)}
	}
	return w.save(ctx, u, to)
}

// markSold único punto de entrada al estado sold.
func (w unitWriter) markSold(ctx context.Context, u *entity.ProductUnit) error {
	return w.save(ctx, u, entity.UnitStatusSold)
}

func (w unitWriter) save(ctx context.Context, u *entity.ProductUnit, to entity.UnitStatus) error {
	if err := dominv.ValidateTransition(u.Status, to); err != nil {
		return err
	}
	u.Status = to
	u.UpdatedAt = w.now
	if err := dominv.ValidateUnit(u); err != nil {
		return err
	}
	return w.units.Update(ctx, u)
}
