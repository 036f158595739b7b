package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/application/ports"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	anthropicModel   = "claude-3-5-haiku-20241022"
)

// stopSequences corta la generación antes de que el modelo invente la observación.
var stopSequences = []string{"\nObservation:"}

// AnthropicService adaptador que implementa LLMService usando la API REST de Anthropic (Claude).
type AnthropicService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador. Si model está vacío se usa claude-3-5-haiku.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	if model == "" {
		model = anthropicModel
	}
	return &AnthropicService{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicBaseURL,
		httpClient: &http.Client{
			// Timeout de red; el agente impone además un context.WithTimeout por llamada.
			Timeout: 30 * time.Second,
		},
	}
}

// WithBaseURL cambia el endpoint (tests o proxies).
func (s *AnthropicService) WithBaseURL(url string) *AnthropicService {
	s.baseURL = strings.TrimRight(url, "/")
	return s
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model         string             `json:"model"`
	MaxTokens     int                `json:"max_tokens"`
	System        string             `json:"system"`
	Messages      []anthropicMessage `json:"messages"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
	Temperature   float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Complete envía la conversación a Claude y devuelve el texto generado.
func (s *AnthropicService) Complete(ctx context.Context, system string, messages []ports.Message) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: LLM_API_KEY no configurado")
	}

	payload := anthropicRequest{
		Model:         s.model,
		MaxTokens:     1024,
		System:        system,
		Messages:      toAnthropicMessages(messages),
		StopSequences: stopSequences,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}

	var out strings.Builder
	for _, block := range anthResp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}
	return out.String(), nil
}

// toAnthropicMessages fusiona turnos consecutivos del mismo rol: la API exige alternancia.
func toAnthropicMessages(messages []ports.Message) []anthropicMessage {
	out := make([]anthropicMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != ports.RoleAssistant {
			role = ports.RoleUser
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n" + m.Content
			continue
		}
		out = append(out, anthropicMessage{Role: role, Content: m.Content})
	}
	return out
}
