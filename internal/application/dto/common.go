package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta textual de las operaciones del agente.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse envoltorio de listados con su total.
type ListResponse[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

// NewListResponse construye la respuesta; nunca serializa items como null.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Total: len(items), Items: items}
}
