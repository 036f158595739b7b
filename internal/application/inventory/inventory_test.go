package inventory_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/internal/domain"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"github.com/jhoicas/smart-warehouse/internal/infrastructure/memory"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	stock    *inventory.StockUseCase
	movement *inventory.MovementUseCase
	rebuild  *inventory.RebuildUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	stock := inventory.NewStockUseCase(st.Movements(), st.Snapshots())
	return &fixture{
		store:    st,
		stock:    stock,
		movement: inventory.NewMovementUseCase(st.Movements(), stock, logger.Nop()),
		rebuild:  inventory.NewRebuildUseCase(st.Movements(), st.Snapshots(), stock, 4, logger.Nop()),
	}
}

// seed inserta movimientos directo en el log, sin pasar por el reductor.
func seed(t *testing.T, st *memory.Store, sku string, kind entity.MovementKind, qty int64) {
	t.Helper()
	err := st.Movements().Insert(context.Background(), &entity.Movement{
		SKU: sku, Kind: kind, Quantity: qty, Warehouse: "W1", Actor: "seed", At: time.Now(),
	})
	require.NoError(t, err)
}

// failingSnapshots falla UpsertQuantity para los SKUs indicados.
type failingSnapshots struct {
	repository.SnapshotRepository
	fail map[string]bool
}

func (f *failingSnapshots) UpsertQuantity(ctx context.Context, snap *entity.Snapshot) (bool, error) {
	if f.fail[snap.SKU] {
		return false, errors.New("escritura rechazada")
	}
	return f.SnapshotRepository.UpsertQuantity(ctx, snap)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reductor
// ──────────────────────────────────────────────────────────────────────────────

func TestRecompute_InboundMinusOutbound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed(t, f.store, "A1", entity.MovementInbound, 10)
	seed(t, f.store, "A1", entity.MovementOutbound, 3)

	level, err := f.stock.Recompute(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), level.Quantity)
	assert.Equal(t, entity.DefaultUoM, level.UoM)

	snap, err := f.store.Snapshots().Get(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(7), snap.Quantity)
}

func TestRecompute_UnknownSKULeavesSnapshotsUntouched(t *testing.T) {
	f := newFixture(t)

	_, err := f.stock.Recompute(context.Background(), "ZZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, f.store.SnapshotCount(), "no debe crearse snapshot para un SKU sin movimientos")
}

func TestRecompute_EmptySKU(t *testing.T) {
	f := newFixture(t)
	_, err := f.stock.Recompute(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecompute_NegativeIsNotFloored(t *testing.T) {
	f := newFixture(t)
	seed(t, f.store, "B2", entity.MovementInbound, 2)
	seed(t, f.store, "B2", entity.MovementOutbound, 5)

	level, err := f.stock.Recompute(context.Background(), "B2")
	require.NoError(t, err)
	assert.Equal(t, int64(-3), level.Quantity)
}

func TestRecompute_KeepsMetadataAndUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.stock.SaveMetadata(ctx, &entity.Snapshot{SKU: "C3", Name: "Tornillo", UoM: "boxes", Warehouse: "W2"}))
	seed(t, f.store, "C3", entity.MovementInbound, 4)

	level, err := f.stock.Recompute(ctx, "C3")
	require.NoError(t, err)
	assert.Equal(t, "boxes", level.UoM)

	snap, _ := f.store.Snapshots().Get(ctx, "C3")
	assert.Equal(t, "Tornillo", snap.Name)
	assert.Equal(t, "W2", snap.Warehouse)
}

func TestRecompute_MatchesSignedSumOfRandomLog(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(42))
	var want int64
	for i := 0; i < 200; i++ {
		qty := int64(rng.Intn(50) + 1)
		kind := entity.MovementInbound
		if rng.Intn(2) == 0 {
			kind = entity.MovementOutbound
			want -= qty
		} else {
			want += qty
		}
		seed(t, f.store, "R1", kind, qty)
	}

	level, err := f.stock.Recompute(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, want, level.Quantity)
}

func TestStockByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.stock.SaveMetadata(ctx, &entity.Snapshot{SKU: "SP001", Name: "Steel Pipe"}))
	seed(t, f.store, "SP001", entity.MovementInbound, 12)

	level, err := f.stock.StockByName(ctx, "steel pipe")
	require.NoError(t, err)
	assert.Equal(t, "SP001", level.SKU)
	assert.Equal(t, int64(12), level.Quantity)

	_, err = f.stock.StockByName(ctx, "nothing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_UpdatesSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.movement.Record(ctx, inventory.MovementInput{SKU: "A1", Kind: entity.MovementInbound, Quantity: 10, Warehouse: "W1", Actor: "bob"})
	require.NoError(t, err)
	require.NotNil(t, res.Level)
	assert.Equal(t, int64(10), res.Level.Quantity)
	assert.NotEmpty(t, res.Movement.ID)

	res, err = f.movement.Record(ctx, inventory.MovementInput{SKU: "A1", Kind: entity.MovementOutbound, Quantity: 3, Warehouse: "W1", Actor: "bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Level.Quantity)
}

func TestRecord_RejectsNonPositiveQuantityBeforeInsert(t *testing.T) {
	for _, qty := range []int64{0, -4} {
		f := newFixture(t)
		_, err := f.movement.Record(context.Background(), inventory.MovementInput{SKU: "A1", Kind: entity.MovementInbound, Quantity: qty, Warehouse: "W1", Actor: "bob"})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.Equal(t, 0, f.store.MovementCount())
	}
}

func TestRecord_PartialFailureKeepsLogEntry(t *testing.T) {
	st := memory.NewStore()
	snaps := &failingSnapshots{SnapshotRepository: st.Snapshots(), fail: map[string]bool{"A1": true}}
	stock := inventory.NewStockUseCase(st.Movements(), snaps)
	uc := inventory.NewMovementUseCase(st.Movements(), stock, logger.Nop())

	res, err := uc.Record(context.Background(), inventory.MovementInput{SKU: "A1", Kind: entity.MovementInbound, Quantity: 5, Warehouse: "W1", Actor: "bob"})
	require.NoError(t, err, "el fallo del recálculo no es error de la operación")
	assert.Error(t, res.RecomputeErr)
	assert.Nil(t, res.Level)
	assert.Equal(t, 1, st.MovementCount())
	assert.Equal(t, 0, st.SnapshotCount())
}

func TestHistory_NewestFirstWithDefaultLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		require.NoError(t, f.store.Movements().Insert(ctx, &entity.Movement{
			SKU: "A1", Kind: entity.MovementInbound, Quantity: int64(i + 1), Warehouse: "W1", Actor: "bob",
			At: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := f.movement.History(ctx, "A1", 0)
	require.NoError(t, err)
	require.Len(t, got, inventory.DefaultHistoryLimit)
	assert.Equal(t, int64(8), got[0].Quantity)
	assert.Equal(t, int64(4), got[4].Quantity)
}

func TestSearchMovements_ByActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, actor := range []string{"bob", "ana", "bob"} {
		_, err := f.movement.Record(ctx, inventory.MovementInput{SKU: "A1", Kind: entity.MovementInbound, Quantity: 1, Warehouse: "W1", Actor: actor})
		require.NoError(t, err)
	}

	got, err := f.movement.Search(ctx, repository.MovementFilter{Actor: "bob"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rebuild
// ──────────────────────────────────────────────────────────────────────────────

func TestRebuildAll_InsertsPlaceholders(t *testing.T) {
	f := newFixture(t)
	seed(t, f.store, "A1", entity.MovementInbound, 10)
	seed(t, f.store, "B2", entity.MovementInbound, 4)
	seed(t, f.store, "B2", entity.MovementOutbound, 1)

	report, err := f.rebuild.RebuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 2, report.Inserted)
	assert.Empty(t, report.Failed)

	snap, _ := f.store.Snapshots().Get(context.Background(), "B2")
	require.NotNil(t, snap)
	assert.Equal(t, int64(3), snap.Quantity)
	assert.Equal(t, entity.UnknownPlace, snap.Warehouse)
	assert.Equal(t, entity.UnknownPlace, snap.Location)
	assert.Equal(t, "B2", snap.Name)
	assert.Empty(t, snap.ImageURL)
}

func TestRebuildAll_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed(t, f.store, "A1", entity.MovementInbound, 10)
	seed(t, f.store, "A1", entity.MovementOutbound, 3)
	seed(t, f.store, "C3", entity.MovementOutbound, 2)

	first, err := f.rebuild.RebuildAll(ctx)
	require.NoError(t, err)
	dump1 := f.store.DumpSnapshots()

	second, err := f.rebuild.RebuildAll(ctx)
	require.NoError(t, err)
	dump2 := f.store.DumpSnapshots()

	assert.Equal(t, first.Processed, second.Processed)
	assert.Empty(t, second.Drift, "sin movimientos nuevos no debe haber drift")
	if diff := cmp.Diff(dump1, dump2, cmpopts.IgnoreFields(entity.Snapshot{}, "UpdatedAt")); diff != "" {
		t.Errorf("snapshots distintos tras el segundo rebuild (-primero +segundo):\n%s", diff)
	}
}

func TestRebuildAll_ReportsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed(t, f.store, "A1", entity.MovementInbound, 10)
	_, err := f.stock.Recompute(ctx, "A1")
	require.NoError(t, err)

	// Movimiento insertado sin recalcular: el snapshot queda desactualizado.
	seed(t, f.store, "A1", entity.MovementOutbound, 4)

	report, err := f.rebuild.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []inventory.Drift{{SKU: "A1", Before: 10, After: 6}}, report.Drift)
	assert.Equal(t, 1, report.Updated)
}

func TestRebuildAll_PartialFailure(t *testing.T) {
	st := memory.NewStore()
	seed(t, st, "A1", entity.MovementInbound, 1)
	seed(t, st, "B2", entity.MovementInbound, 2)
	snaps := &failingSnapshots{SnapshotRepository: st.Snapshots(), fail: map[string]bool{"B2": true}}
	stock := inventory.NewStockUseCase(st.Movements(), snaps)
	uc := inventory.NewRebuildUseCase(st.Movements(), snaps, stock, 2, logger.Nop())

	report, err := uc.RebuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, []string{"B2"}, report.Failed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte
// ──────────────────────────────────────────────────────────────────────────────

type fakeRenderer struct {
	title string
	count int
}

func (r *fakeRenderer) RenderInventory(_ context.Context, title string, snaps []*entity.Snapshot, _ time.Time) ([]byte, error) {
	r.title = title
	r.count = len(snaps)
	return []byte("%PDF"), nil
}

func TestReportGenerate(t *testing.T) {
	f := newFixture(t)
	seed(t, f.store, "A1", entity.MovementInbound, 1)
	seed(t, f.store, "B2", entity.MovementInbound, 1)
	_, err := f.rebuild.RebuildAll(context.Background())
	require.NoError(t, err)

	r := &fakeRenderer{}
	out, err := inventory.NewReportUseCase(f.stock, r).Generate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)
	assert.Equal(t, "Inventario", r.title)
	assert.Equal(t, 2, r.count)
}
