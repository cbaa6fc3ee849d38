// Package inventory contiene las reglas de dominio del ciclo de vida de las unidades:
// etiquetas de estado, tabla de transiciones prohibidas, validación de consistencia
// y generación de números de serie.
package inventory

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// StatusLabel etiqueta legible de un estado. El switch es exhaustivo sobre
// entity.AllUnitStatuses(); un estado nuevo sin etiqueta devuelve "" y el test lo detecta.
func StatusLabel(s entity.UnitStatus) string {
	switch s {
	case entity.UnitStatusCreated:
		return "Creada vacía"
	case entity.UnitStatusCandidate:
		return "Candidata a solicitud"
	case entity.UnitStatusInRequest:
		return "En solicitud"
	case entity.UnitStatusInRequestCancelled:
		return "En solicitud - cancelada"
	case entity.UnitStatusInDelivery:
		return "En entrega"
	case entity.UnitStatusInStore:
		return "En tienda"
	case entity.UnitStatusSold:
		return "Vendida"
	case entity.UnitStatusBroken:
		return "Rota"
	case entity.UnitStatusLost:
		return "Perdida"
	case entity.UnitStatusTransferred:
		return "Transferida"
	case entity.UnitStatusExtraAddDelivery:
		return "Agregada de urgencia a la entrega"
	}
	return ""
}

// Grupos de estados usados por el filtro del panel de administración.
const (
	GroupAvailable = "available"
	GroupInProcess = "in_process"
	GroupCompleted = "completed"
)

// StatusGroup devuelve los estados de un grupo con nombre; ok=false si el grupo no existe.
func StatusGroup(name string) (statuses []entity.UnitStatus, ok bool) {
	switch name {
	case GroupAvailable:
		return []entity.UnitStatus{entity.UnitStatusCreated, entity.UnitStatusCandidate}, true
	case GroupInProcess:
		return []entity.UnitStatus{entity.UnitStatusInRequest, entity.UnitStatusInDelivery}, true
	case GroupCompleted:
		return []entity.UnitStatus{entity.UnitStatusInStore, entity.UnitStatusSold, entity.UnitStatusTransferred}, true
	}
	return nil, false
}

// IsException indica los estados de salida lateral (rota, perdida, transferida).
func IsException(s entity.UnitStatus) bool {
	return s == entity.UnitStatusBroken || s == entity.UnitStatusLost || s == entity.UnitStatusTransferred
}
