package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhere_OmitsEmptyValues(t *testing.T) {
	var w where
	w.eq("sku", "A1")
	w.eq("warehouse", "")
	w.eq("actor", "bob")
	lim := w.limit(5)

	assert.Equal(t, " WHERE sku = $1 AND actor = $2", w.String())
	assert.Equal(t, " LIMIT $3", lim)
	assert.Equal(t, []any{"A1", "bob", 5}, w.args)
}

func TestWhere_NoConditionsNoLimit(t *testing.T) {
	var w where
	w.eq("sku", "")
	assert.Empty(t, w.String())
	assert.Empty(t, w.limit(0))
	assert.Empty(t, w.args)
}

func TestWhere_ILikeEscapesWildcards(t *testing.T) {
	var w where
	w.ilike("name", "50%_off")
	assert.Equal(t, " WHERE name ILIKE $1", w.String())
	assert.Equal(t, []any{`%50\%\_off%`}, w.args)
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS movements")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS snapshots")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS tasks")
}
