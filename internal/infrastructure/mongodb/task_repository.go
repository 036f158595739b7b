package mongodb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo tareas sobre la colección tasks; sku y bodega viven en payload.
type TaskRepo struct {
	coll *mongo.Collection
}

// NewTaskRepository construye el adaptador sobre la base dada.
func NewTaskRepository(db *mongo.Database) *TaskRepo {
	return &TaskRepo{coll: db.Collection(collTasks)}
}

func (r *TaskRepo) Insert(ctx context.Context, t *entity.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, taskToDoc(t)); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepo) Find(ctx context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	filter := bson.D{}
	filter = appendEq(filter, "payload.sku", f.SKU)
	filter = appendEq(filter, "payload.wh", f.Warehouse)
	filter = appendEq(filter, "assignee", f.Assignee)
	filter = appendEq(filter, "status", string(f.Status))

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	out := make([]*entity.Task, len(docs))
	for i, d := range docs {
		out[i] = d.toEntity()
	}
	return out, nil
}

func (r *TaskRepo) SetAssignee(ctx context.Context, id, assignee string) (bool, error) {
	return r.set(ctx, id, "assignee", assignee)
}

func (r *TaskRepo) SetStatus(ctx context.Context, id string, status entity.TaskStatus) (bool, error) {
	return r.set(ctx, id, "status", string(status))
}

// set devuelve true solo si el documento cambió (ModifiedCount).
func (r *TaskRepo) set(ctx context.Context, id, field, value string) (bool, error) {
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idCandidates(id)}}}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: field, Value: value}}}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("update task %s %s: %w", id, field, err)
	}
	return res.ModifiedCount > 0, nil
}
