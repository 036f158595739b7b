// Package storage elige el backend de persistencia según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"github.com/jhoicas/smart-warehouse/internal/infrastructure/memory"
	"github.com/jhoicas/smart-warehouse/internal/infrastructure/mongodb"
	"github.com/jhoicas/smart-warehouse/internal/infrastructure/postgres"
	"github.com/jhoicas/smart-warehouse/pkg/config"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// Open abre el almacén configurado. Con postgres además aplica el esquema.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Str("db", cfg.Mongo.Database).Msg("almacén conectado")
		return store, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Str("db", cfg.DB.DBName).Msg("almacén conectado")
		return postgres.NewStore(pool), nil

	case config.DriverMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Store.Driver)
}
