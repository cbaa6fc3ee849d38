package entity

// UnitStatus estado del ciclo de vida de una unidad física.
type UnitStatus string

// Estados de ProductUnit.
const (
	UnitStatusCreated            UnitStatus = "created"              // creada vacía
	UnitStatusCandidate          UnitStatus = "candidate_in_request" // candidata a solicitud
	UnitStatusInRequest          UnitStatus = "in_request"
	UnitStatusInRequestCancelled UnitStatus = "in_request_cancelled"
	UnitStatusInDelivery         UnitStatus = "in_delivery" // recibida, pendiente de pasar a tienda
	UnitStatusInStore            UnitStatus = "in_store"
	UnitStatusSold               UnitStatus = "sold"
	UnitStatusBroken             UnitStatus = "broken"
	UnitStatusLost               UnitStatus = "lost"
	UnitStatusTransferred        UnitStatus = "transferred"
	UnitStatusExtraAddDelivery   UnitStatus = "extra_add_delivery" // excedente de una entrega
)

// AllUnitStatuses devuelve todos los estados en orden del ciclo de vida.
func AllUnitStatuses() []UnitStatus {
	return []UnitStatus{
		UnitStatusCreated,
		UnitStatusCandidate,
		UnitStatusInRequest,
		UnitStatusInRequestCancelled,
		UnitStatusInDelivery,
		UnitStatusInStore,
		UnitStatusSold,
		UnitStatusBroken,
		UnitStatusLost,
		UnitStatusTransferred,
		UnitStatusExtraAddDelivery,
	}
}

// Valid indica si s es un estado conocido.
func (s UnitStatus) Valid() bool {
	for _, st := range AllUnitStatuses() {
		if st == s {
			return true
		}
	}
	return false
}
