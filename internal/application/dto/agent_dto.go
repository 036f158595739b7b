package dto

// AskRequest body para POST /ask.
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse respuesta del agente.
type AskResponse struct {
	Response string `json:"response"`
}

// SKURequest body para POST /stock y POST /history.
type SKURequest struct {
	SKU   string `json:"sku"`
	Limit int    `json:"limit,omitempty"`
}

// TransactionRequest body para POST /inbound y POST /outbound. Args tiene el
// formato "sku,qty,wh,by,note"; si viene vacío se usan los campos explícitos.
type TransactionRequest struct {
	Args      string `json:"args,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Quantity  *int64 `json:"quantity,omitempty"` // nil: el agente pregunta la cantidad
	Warehouse string `json:"warehouse,omitempty"`
	Actor     string `json:"actor,omitempty"`
	Note      string `json:"note,omitempty"`
}

// SearchRequest body para POST /search_transactions: Query es un filtro JSON
// como {"by":"bob","wh":"W1","sku":"A1","limit":5}.
type SearchRequest struct {
	Query string `json:"query"`
}

// ConfirmRequest body para las operaciones que reconstruyen el inventario.
type ConfirmRequest struct {
	Confirm string `json:"confirm"`
}
