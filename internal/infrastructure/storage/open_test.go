package storage

import (
	"context"
	"testing"

	"github.com/jhoicas/smart-warehouse/internal/infrastructure/memory"
	"github.com/jhoicas/smart-warehouse/pkg/config"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}
	store, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.NoError(t, store.Close(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "redis"}}
	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.ErrorContains(t, err, "redis")
}
