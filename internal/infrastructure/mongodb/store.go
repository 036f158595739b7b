// Package mongodb implementa los puertos de repositorio sobre MongoDB con las
// colecciones transactions, inventories y tasks.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"github.com/jhoicas/smart-warehouse/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var _ repository.Store = (*Store)(nil)

// Store agrupa los repositorios sobre un mismo cliente.
type Store struct {
	client    *mongo.Client
	movements *MovementRepo
	snapshots *SnapshotRepo
	tasks     *TaskRepo
}

// Connect abre el cliente, verifica la conexión y asegura los índices.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("MONGO_URI vacío")
	}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("conectar mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(cfg.Database)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &Store{
		client:    client,
		movements: NewMovementRepository(db),
		snapshots: NewSnapshotRepository(db),
		tasks:     NewTaskRepository(db),
	}, nil
}

func (s *Store) Movements() repository.MovementRepository { return s.movements }
func (s *Store) Snapshots() repository.SnapshotRepository { return s.snapshots }
func (s *Store) Tasks() repository.TaskRepository         { return s.tasks }

// Close desconecta el cliente.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		collTransactions: {
			{Keys: bson.D{{Key: "sku", Value: 1}, {Key: "at", Value: -1}}},
			{Keys: bson.D{{Key: "by", Value: 1}}},
		},
		collInventories: {
			{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collTasks: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("índices %s: %w", coll, err)
		}
	}
	return nil
}
