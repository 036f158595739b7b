// Package bootstrap es la raíz de composición compartida por cmd/api y cmd/whctl:
// crea el almacén, los casos de uso y el agente a partir de la configuración.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/internal/application/tasks"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	infraai "github.com/jhoicas/smart-warehouse/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/smart-warehouse/internal/infrastructure/pdf"
	"github.com/jhoicas/smart-warehouse/internal/infrastructure/storage"
	"github.com/jhoicas/smart-warehouse/pkg/config"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// App dependencias ya conectadas.
type App struct {
	Config    *config.Config
	Log       *logger.Logger
	Store     repository.Store
	Stock     *inventory.StockUseCase
	Movements *inventory.MovementUseCase
	Rebuild   *inventory.RebuildUseCase
	Reports   *inventory.ReportUseCase
	Tasks     *tasks.UseCase
	Tools     *agent.Registry
	Agent     *agent.Agent
}

// Build abre el almacén configurado y arma el grafo de dependencias.
// El llamador debe invocar Close al terminar.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	store, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		return nil, fmt.Errorf("abrir almacén: %w", err)
	}
	return Wire(ctx, cfg, log, store)
}

// Wire arma los casos de uso sobre un almacén ya abierto.
func Wire(ctx context.Context, cfg *config.Config, log *logger.Logger, store repository.Store) (*App, error) {
	stock := inventory.NewStockUseCase(store.Movements(), store.Snapshots())
	movements := inventory.NewMovementUseCase(store.Movements(), stock, log.Component("movements"))
	rebuild := inventory.NewRebuildUseCase(store.Movements(), store.Snapshots(), stock, cfg.Rebuild.Concurrency, log.Component("rebuild"))
	taskUC := tasks.NewUseCase(store.Tasks())

	registry := agent.NewRegistry(agent.Deps{
		Stock:        stock,
		Movements:    movements,
		Rebuild:      rebuild,
		Tasks:        taskUC,
		ConfirmToken: cfg.Rebuild.ConfirmToken,
		Log:          log.Component("tools"),
	})

	llm, err := infraai.NewLLMService(ctx, cfg.LLM)
	if err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("proveedor LLM: %w", err)
	}
	if llm == nil {
		log.Info().Msg("sin LLM configurado: /ask usa el enrutador por reglas")
	} else {
		log.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).Msg("LLM configurado")
	}
	ag := agent.NewAgent(llm, registry, nil, agent.Options{
		MaxSteps:    cfg.LLM.MaxSteps,
		CallTimeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, log.Component("agent"))

	return &App{
		Config:    cfg,
		Log:       log,
		Store:     store,
		Stock:     stock,
		Movements: movements,
		Rebuild:   rebuild,
		Reports:   inventory.NewReportUseCase(stock, infrapdf.NewMarotoReportRenderer()),
		Tasks:     taskUC,
		Tools:     registry,
		Agent:     ag,
	}, nil
}

// Close libera el almacén.
func (a *App) Close(ctx context.Context) error {
	return a.Store.Close(ctx)
}
