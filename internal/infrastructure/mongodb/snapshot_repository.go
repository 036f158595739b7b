package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo caché de inventario sobre la colección inventories.
type SnapshotRepo struct {
	coll *mongo.Collection
}

// NewSnapshotRepository construye el adaptador sobre la base dada.
func NewSnapshotRepository(db *mongo.Database) *SnapshotRepo {
	return &SnapshotRepo{coll: db.Collection(collInventories)}
}

func (r *SnapshotRepo) Get(ctx context.Context, sku string) (*entity.Snapshot, error) {
	return r.findOne(ctx, bson.D{{Key: "sku", Value: sku}})
}

// FindByName compara el nombre completo sin distinguir mayúsculas.
func (r *SnapshotRepo) FindByName(ctx context.Context, name string) (*entity.Snapshot, error) {
	return r.findOne(ctx, bson.D{{Key: "name", Value: exactInsensitive(name)}})
}

func (r *SnapshotRepo) Search(ctx context.Context, f repository.SnapshotFilter) ([]*entity.Snapshot, error) {
	filter := bson.D{}
	filter = appendEq(filter, "sku", f.SKU)
	filter = appendEq(filter, "wh", f.Warehouse)
	if f.Name != "" {
		filter = append(filter, bson.E{Key: "name", Value: primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}})
	}
	opts := options.Find().SetSort(bson.D{{Key: "sku", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search snapshots: %w", err)
	}
	var docs []snapshotDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode snapshots: %w", err)
	}
	out := make([]*entity.Snapshot, len(docs))
	for i, d := range docs {
		out[i] = d.toEntity()
	}
	return out, nil
}

// UpsertQuantity: $set para cantidad y fecha, $setOnInsert para los metadatos de relleno.
func (r *SnapshotRepo) UpsertQuantity(ctx context.Context, s *entity.Snapshot) (bool, error) {
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "qty", Value: s.Quantity},
			{Key: "updatedAt", Value: s.UpdatedAt},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "name", Value: s.Name},
			{Key: "uom", Value: s.UoM},
			{Key: "wh", Value: s.Warehouse},
			{Key: "location", Value: s.Location},
			{Key: "imageUrl", Value: s.ImageURL},
		}},
	}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "sku", Value: s.SKU}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("upsert snapshot %s: %w", s.SKU, err)
	}
	return res.UpsertedCount > 0, nil
}

// SaveMetadata actualiza los datos descriptivos; qty solo se fija al crear.
func (r *SnapshotRepo) SaveMetadata(ctx context.Context, s *entity.Snapshot) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: s.Name},
			{Key: "uom", Value: s.UoM},
			{Key: "wh", Value: s.Warehouse},
			{Key: "location", Value: s.Location},
			{Key: "imageUrl", Value: s.ImageURL},
			{Key: "updatedAt", Value: s.UpdatedAt},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "qty", Value: int64(0)}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc snapshotDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "sku", Value: s.SKU}}, update, opts).Decode(&doc)
	if err != nil {
		return fmt.Errorf("save snapshot metadata %s: %w", s.SKU, err)
	}
	s.Quantity = doc.Qty
	return nil
}

func (r *SnapshotRepo) findOne(ctx context.Context, filter bson.D) (*entity.Snapshot, error) {
	var doc snapshotDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	return doc.toEntity(), nil
}

func exactInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}
