package dto

// Límites de paginación de los listados de catálogo.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest ventana limit/offset de un listado.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Clamp acota la ventana: Limit <= 0 pasa a def, Limit > ceiling a ceiling y un Offset
// negativo a 0.
func (p PageRequest) Clamp(def, ceiling int) PageRequest {
	switch {
	case p.Limit <= 0:
		p.Limit = def
	case p.Limit > ceiling:
		p.Limit = ceiling
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// DefaultPage acota con los límites de catálogo.
func (p *PageRequest) DefaultPage() {
	*p = p.Clamp(DefaultPageLimit, MaxPageLimit)
}

// Page arma los metadatos de respuesta para count elementos devueltos.
func (p PageRequest) Page(count int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Count: count}
}

// PageResponse ventana aplicada y cantidad de elementos en la página.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (NOT_FOUND, INVALID_TRANSITION...);
// Field nombra el campo rechazado cuando el error es de validación.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
