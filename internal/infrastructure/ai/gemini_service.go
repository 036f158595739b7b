package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jhoicas/smart-warehouse/internal/application/ports"
)

// Verificar en tiempo de compilación que GeminiService implementa LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

const geminiModel = "gemini-2.0-flash"

// GeminiService adaptador que implementa LLMService con el SDK google.golang.org/genai.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService construye el cliente de la Gemini API. model suele ser "gemini-2.0-flash".
func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AI: LLM_API_KEY no configurado")
	}
	if model == "" {
		model = geminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AI: crear cliente Gemini: %w", err)
	}
	return &GeminiService{client: client, model: model}, nil
}

// Complete envía la conversación a Gemini. Temperatura 0 para que el formato ReAct sea estable.
func (s *GeminiService) Complete(ctx context.Context, system string, messages []ports.Message) (string, error) {
	contents := toGeminiContents(messages)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		StopSequences:     stopSequences,
		MaxOutputTokens:   1024,
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: Gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	return text, nil
}

func toGeminiContents(messages []ports.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		if m.Role == ports.RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Content, role))
	}
	return out
}
