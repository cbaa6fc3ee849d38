package inventory

import (
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// forbiddenFrom: estado destino -> estados de origen desde los que no se puede llegar.
// Cualquier transición que no figure aquí está permitida.
var forbiddenFrom = map[entity.UnitStatus][]entity.UnitStatus{
	entity.UnitStatusSold: {
		entity.UnitStatusCreated,
		entity.UnitStatusCandidate,
		entity.UnitStatusInRequest,
		entity.UnitStatusInRequestCancelled,
	},
	entity.UnitStatusBroken:      {entity.UnitStatusSold},
	entity.UnitStatusLost:        {entity.UnitStatusSold},
	entity.UnitStatusTransferred: {entity.UnitStatusSold},
}

// ValidateTransition verifica el cambio from -> to contra la tabla de transiciones prohibidas.
// Mantener el mismo estado siempre es válido.
func ValidateTransition(from, to entity.UnitStatus) error {
	if !to.Valid() {
		return &domain.InvalidTransitionError{From: string(from), To: string(to)}
	}
	if from == to {
		return nil
	}
	for _, f := range forbiddenFrom[to] {
		if f == from {
			return &domain.InvalidTransitionError{From: string(from), To: string(to)}
		}
	}
	return nil
}
