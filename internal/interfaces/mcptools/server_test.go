package mcptools

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/internal/application/tasks"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/infrastructure/memory"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*agent.Registry, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	stock := inventory.NewStockUseCase(store.Movements(), store.Snapshots())
	return agent.NewRegistry(agent.Deps{
		Stock:     stock,
		Movements: inventory.NewMovementUseCase(store.Movements(), stock, nil),
		Rebuild:   inventory.NewRebuildUseCase(store.Movements(), store.Snapshots(), stock, 1, nil),
		Tasks:     tasks.NewUseCase(store.Tasks()),
	}), store
}

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestDefinition_SingleRequiredInput(t *testing.T) {
	reg, _ := newRegistry(t)
	tool, ok := reg.Get(agent.ToolStockBySKU)
	require.True(t, ok)

	def := Definition(tool)
	assert.Equal(t, agent.ToolStockBySKU, def.Name)
	assert.Equal(t, tool.Description, def.Description)
	assert.Contains(t, def.InputSchema.Properties, "input")
	assert.Equal(t, []string{"input"}, def.InputSchema.Required)
}

func TestHandler_RunsTool(t *testing.T) {
	reg, store := newRegistry(t)
	require.NoError(t, store.Movements().Insert(context.Background(), &entity.Movement{
		SKU: "A1", Kind: entity.MovementInbound, Quantity: 4, Warehouse: "W1", Actor: "bob", At: time.Now(),
	}))
	tool, _ := reg.Get(agent.ToolStockBySKU)

	res, err := Handler(tool)(context.Background(), makeReq(map[string]any{"input": "A1"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "SKU A1 currently has 4 units in stock.", resultText(res))
}

func TestHandler_MissingInputAsksBack(t *testing.T) {
	reg, _ := newRegistry(t)
	tool, _ := reg.Get(agent.ToolTransactionHistory)

	res, err := Handler(tool)(context.Background(), makeReq(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(res), "which SKU?")
}

func TestAskHandler_UsesDispatcherWithoutLLM(t *testing.T) {
	reg, _ := newRegistry(t)
	a := agent.NewAgent(nil, reg, nil, agent.Options{}, nil)

	res, err := askHandler(a)(context.Background(), makeReq(map[string]any{"input": "list open tasks"}))
	require.NoError(t, err)
	assert.Equal(t, agent.MsgNoOpenTasks, resultText(res))
}

func TestNewServer_Builds(t *testing.T) {
	reg, _ := newRegistry(t)
	assert.NotNil(t, NewServer(reg, nil, "test"))
}
