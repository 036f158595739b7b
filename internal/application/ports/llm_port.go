package ports

import "context"

// Roles de los mensajes de conversación con el LLM.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message turno de conversación enviado al modelo.
type Message struct {
	Role    string
	Content string
}

// LLMService define el puerto de salida hacia el servicio de completado de texto.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz;
// el agente solo conoce este contrato.
type LLMService interface {
	// Complete envía el prompt de sistema y la conversación y devuelve el texto generado.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}
