package agent_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/internal/application/ports"
	"github.com/jhoicas/smart-warehouse/internal/application/tasks"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/infrastructure/memory"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

const testConfirm = "CONFIRM"

type env struct {
	store    *memory.Store
	registry *agent.Registry
	tasks    *tasks.UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := memory.NewStore()
	stock := inventory.NewStockUseCase(st.Movements(), st.Snapshots())
	taskUC := tasks.NewUseCase(st.Tasks())
	reg := agent.NewRegistry(agent.Deps{
		Stock:        stock,
		Movements:    inventory.NewMovementUseCase(st.Movements(), stock, logger.Nop()),
		Rebuild:      inventory.NewRebuildUseCase(st.Movements(), st.Snapshots(), stock, 2, logger.Nop()),
		Tasks:        taskUC,
		ConfirmToken: testConfirm,
		Log:          logger.Nop(),
	})
	return &env{store: st, registry: reg, tasks: taskUC}
}

func (e *env) run(t *testing.T, tool, input string) string {
	t.Helper()
	tl, ok := e.registry.Get(tool)
	require.True(t, ok, "herramienta %s no registrada", tool)
	return tl.Run(context.Background(), input)
}

func (e *env) seedMovement(t *testing.T, sku string, kind entity.MovementKind, qty int64) {
	t.Helper()
	require.NoError(t, e.store.Movements().Insert(context.Background(), &entity.Movement{
		SKU: sku, Kind: kind, Quantity: qty, Warehouse: "W1", Actor: "seed", At: time.Now(),
	}))
}

func (e *env) seedTask(t *testing.T, sku, wh, assignee string) *entity.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), tasks.CreateInput{Type: entity.TaskCycleCount, SKU: sku, Warehouse: wh, Assignee: assignee})
	require.NoError(t, err)
	return task
}

// scriptedLLM devuelve respuestas predefinidas en orden y guarda lo que recibió.
type scriptedLLM struct {
	mu       sync.Mutex
	replies  []string
	err      error
	calls    int
	system   string
	received [][]ports.Message
}

func (s *scriptedLLM) Complete(_ context.Context, system string, messages []ports.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.system = system
	cp := make([]ports.Message, len(messages))
	copy(cp, messages)
	s.received = append(s.received, cp)
	if s.err != nil {
		return "", s.err
	}
	i := s.calls
	s.calls++
	if i >= len(s.replies) {
		return s.replies[len(s.replies)-1], nil
	}
	return s.replies[i], nil
}
