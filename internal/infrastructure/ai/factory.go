package ai

import (
	"context"
	"fmt"

	"github.com/jhoicas/smart-warehouse/internal/application/ports"
	"github.com/jhoicas/smart-warehouse/pkg/config"
)

// NewLLMService elige el adaptador según LLM_PROVIDER. Devuelve (nil, nil) cuando
// no hay proveedor: el agente trabaja entonces solo con el enrutador por reglas.
func NewLLMService(ctx context.Context, cfg config.LLMConfig) (ports.LLMService, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	switch cfg.Provider {
	case "anthropic", "claude":
		return NewAnthropicService(cfg.APIKey, cfg.Model), nil
	case "gemini", "google":
		svc, err := NewGeminiService(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	return nil, fmt.Errorf("AI: proveedor LLM desconocido %q", cfg.Provider)
}
