package bootstrap

import (
	"context"
	"testing"

	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/jhoicas/smart-warehouse/internal/infrastructure/memory"
	"github.com/jhoicas/smart-warehouse/pkg/config"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Store:   config.StoreConfig{Driver: config.DriverMemory},
		LLM:     config.LLMConfig{Provider: "none", MaxSteps: 6, TimeoutSeconds: 5},
		Rebuild: config.RebuildConfig{ConfirmToken: "YES", Concurrency: 2},
	}
}

func TestBuild_MemoryStoreWithoutLLM(t *testing.T) {
	app, err := Build(context.Background(), testConfig(), logger.Nop())
	require.NoError(t, err)
	defer app.Close(context.Background())

	assert.IsType(t, &memory.Store{}, app.Store)
	assert.False(t, app.Agent.UsesLLM())
	assert.Len(t, app.Tools.All(), 12)

	rebuild, ok := app.Tools.Get(agent.ToolRebuildInventory)
	require.True(t, ok)
	assert.Contains(t, rebuild.Run(context.Background(), ""), `"YES"`)
}

func TestWire_UnknownLLMProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Provider = "mystery"
	_, err := Wire(context.Background(), cfg, logger.Nop(), memory.NewStore())
	assert.Error(t, err)
}
