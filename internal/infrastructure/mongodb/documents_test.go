package mongodb

import (
	"testing"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMovementDoc_UsesOriginalFieldNames(t *testing.T) {
	at := time.Date(2025, 8, 24, 8, 30, 0, 0, time.UTC)
	m := &entity.Movement{ID: "m1", SKU: "A1", Kind: entity.MovementInbound, Quantity: 50, Warehouse: "WH01", Actor: "admin", Note: "x", At: at}

	raw, err := bson.Marshal(movementToDoc(m))
	require.NoError(t, err)
	var generic bson.M
	require.NoError(t, bson.Unmarshal(raw, &generic))

	assert.Equal(t, "inbound", generic["type"])
	assert.Equal(t, int64(50), generic["qty"])
	assert.Equal(t, "WH01", generic["wh"])
	assert.Equal(t, "admin", generic["by"])

	var back movementDoc
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, m, back.toEntity())
}

func TestTaskDoc_ObjectIDFromLegacyData(t *testing.T) {
	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: oid},
		{Key: "type", Value: "cycle_count"},
		{Key: "status", Value: "open"},
		{Key: "payload", Value: bson.D{{Key: "sku", Value: "SP001"}, {Key: "wh", Value: "WH01"}}},
	})
	require.NoError(t, err)

	var doc taskDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	task := doc.toEntity()

	assert.Equal(t, oid.Hex(), task.ID)
	assert.Equal(t, "SP001", task.SKU)
	assert.Equal(t, "WH01", task.Warehouse)
	assert.Equal(t, entity.PriorityNormal, task.Priority)
}

func TestIDCandidates(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, []any{oid.Hex(), oid}, idCandidates(oid.Hex()))
	assert.Equal(t, []any{"task-1"}, idCandidates("task-1"))
}

func TestExactInsensitive_QuotesMeta(t *testing.T) {
	re := exactInsensitive("Pipe (1/2)")
	assert.Equal(t, `^Pipe \(1/2\)$`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}
