package mongodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo log de movimientos sobre la colección transactions.
type MovementRepo struct {
	coll *mongo.Collection
}

// NewMovementRepository construye el adaptador sobre la base dada.
func NewMovementRepository(db *mongo.Database) *MovementRepo {
	return &MovementRepo{coll: db.Collection(collTransactions)}
}

func (r *MovementRepo) Insert(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, movementToDoc(m)); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// Find ordena por fecha descendente; los campos vacíos del filtro no se comparan.
func (r *MovementRepo) Find(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	filter := bson.D{}
	filter = appendEq(filter, "sku", f.SKU)
	filter = appendEq(filter, "wh", f.Warehouse)
	filter = appendEq(filter, "by", f.Actor)

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find movements: %w", err)
	}
	var docs []movementDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}
	out := make([]*entity.Movement, len(docs))
	for i, d := range docs {
		out[i] = d.toEntity()
	}
	return out, nil
}

// SumBySKU agrupa entradas y salidas del SKU con $cond sobre el tipo.
func (r *MovementRepo) SumBySKU(ctx context.Context, sku string) (repository.MovementTotals, bool, error) {
	sumIf := func(kind entity.MovementKind) bson.D {
		return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$type", string(kind)}}}, "$qty", 0,
		}}}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "sku", Value: sku}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$sku"},
			{Key: "inbound", Value: sumIf(entity.MovementInbound)},
			{Key: "outbound", Value: sumIf(entity.MovementOutbound)},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return repository.MovementTotals{}, false, fmt.Errorf("aggregate %s: %w", sku, err)
	}
	var rows []struct {
		Inbound  int64 `bson:"inbound"`
		Outbound int64 `bson:"outbound"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return repository.MovementTotals{}, false, fmt.Errorf("decode aggregate %s: %w", sku, err)
	}
	if len(rows) == 0 {
		return repository.MovementTotals{}, false, nil
	}
	return repository.MovementTotals{Inbound: rows[0].Inbound, Outbound: rows[0].Outbound}, true, nil
}

func (r *MovementRepo) DistinctSKUs(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "sku", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct skus: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func appendEq(filter bson.D, key, value string) bson.D {
	if value == "" {
		return filter
	}
	return append(filter, bson.E{Key: key, Value: value})
}
