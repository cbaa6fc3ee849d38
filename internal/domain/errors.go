package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrConcurrentUpdate    = errors.New("conflicto de concurrencia, reintentar")
	ErrGeneration          = errors.New("no se pudo generar el número de serie")
	ErrMissingProductCode  = errors.New("el producto no tiene código")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrInconsistentUnit    = errors.New("estado de la unidad inconsistente")
	ErrInvalidRequestLine  = errors.New("posición de solicitud inválida")
	ErrInvalidDeliveryLine = errors.New("posición de entrega inválida")
	ErrFutureDate          = errors.New("la fecha de entrega no puede estar en el futuro")
	ErrAlreadySold         = errors.New("la unidad ya fue vendida")
	ErrAlreadyConfirmed    = errors.New("la entrega ya fue confirmada")
)

// GenerationError indica que no se pudo obtener un número de serie único.
type GenerationError struct {
	ProductID string
	Reason    string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s (producto %s): %s", ErrGeneration.Error(), e.ProductID, e.Reason)
}

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// MissingProductCodeError: sin código de producto no se pueden derivar seriales.
// También es un GenerationError para errors.Is.
type MissingProductCodeError struct {
	ProductID string
}

func (e *MissingProductCodeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingProductCode.Error(), e.ProductID)
}

func (e *MissingProductCodeError) Is(target error) bool {
	return target == ErrMissingProductCode || target == ErrGeneration
}

// InvalidTransitionError nombra el estado de origen y el de destino rechazados.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %q -> %q", ErrInvalidTransition.Error(), e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// InconsistentUnitStateError nombra el campo que rompe la invariante.
type InconsistentUnitStateError struct {
	Field  string
	Reason string
}

func (e *InconsistentUnitStateError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInconsistentUnit.Error(), e.Field, e.Reason)
}

func (e *InconsistentUnitStateError) Is(target error) bool { return target == ErrInconsistentUnit }

// InvalidRequestLineError error de validación de una posición de solicitud.
type InvalidRequestLineError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestLineError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRequestLine.Error(), e.Field, e.Reason)
}

func (e *InvalidRequestLineError) Is(target error) bool { return target == ErrInvalidRequestLine }

// InvalidDeliveryLineError error de validación de una posición de entrega.
type InvalidDeliveryLineError struct {
	Field  string
	Reason string
}

func (e *InvalidDeliveryLineError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidDeliveryLine.Error(), e.Field, e.Reason)
}

func (e *InvalidDeliveryLineError) Is(target error) bool { return target == ErrInvalidDeliveryLine }

// FieldOf devuelve el campo señalado por un error de validación, o "" si no aplica.
func FieldOf(err error) string {
	var (
		inc *InconsistentUnitStateError
		req *InvalidRequestLineError
		del *InvalidDeliveryLineError
	)
	switch {
	case errors.As(err, &inc):
		return inc.Field
	case errors.As(err, &req):
		return req.Field
	case errors.As(err, &del):
		return del.Field
	case errors.Is(err, ErrFutureDate):
		return "delivery_date"
	case errors.Is(err, ErrInvalidTransition):
		return "status"
	}
	return ""
}
