package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Drift diferencia detectada entre el snapshot en caché y el valor recalculado.
type Drift struct {
	SKU     string `json:"sku"`
	Before  int64  `json:"before"`
	After   int64  `json:"after"`
	Missing bool   `json:"missing"` // no existía snapshot antes del rebuild
}

// RebuildReport resumen de una reconstrucción completa.
type RebuildReport struct {
	Processed  int       `json:"processed"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	Drift      []Drift   `json:"drift"`
	Failed     []string  `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// RebuildUseCase recalcula todos los SKUs presentes en el log.
type RebuildUseCase struct {
	movements   repository.MovementRepository
	snapshots   repository.SnapshotRepository
	stock       *StockUseCase
	concurrency int
	log         *logger.Logger
}

// NewRebuildUseCase construye el caso de uso; concurrency <= 0 se trata como 1.
func NewRebuildUseCase(movements repository.MovementRepository, snapshots repository.SnapshotRepository, stock *StockUseCase, concurrency int, log *logger.Logger) *RebuildUseCase {
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RebuildUseCase{movements: movements, snapshots: snapshots, stock: stock, concurrency: concurrency, log: log}
}

// RebuildAll recorre los SKUs distintos del log y recalcula cada uno.
// Es idempotente: sin movimientos nuevos, una segunda ejecución deja los mismos snapshots.
// Un fallo por SKU se reporta en Failed y no aborta el resto; solo un fallo al listar
// SKUs se devuelve como error.
func (uc *RebuildUseCase) RebuildAll(ctx context.Context) (*RebuildReport, error) {
	report := &RebuildReport{StartedAt: time.Now().UTC(), Drift: []Drift{}, Failed: []string{}}

	skus, err := uc.movements.DistinctSKUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar SKUs: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for _, sku := range skus {
		g.Go(func() error {
			before, after, err := uc.rebuildOne(gctx, sku)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.log.Warn().Err(err).Str("sku", sku).Msg("rebuild: falló el recálculo del SKU")
				report.Failed = append(report.Failed, sku)
				return nil
			}
			report.Processed++
			if before == nil {
				report.Inserted++
				report.Drift = append(report.Drift, Drift{SKU: sku, After: after, Missing: true})
				return nil
			}
			report.Updated++
			if *before != after {
				report.Drift = append(report.Drift, Drift{SKU: sku, Before: *before, After: after})
			}
			return nil
		})
	}
	// Las goroutines nunca devuelven error; los fallos quedan en el reporte.
	_ = g.Wait()

	sort.Slice(report.Drift, func(i, j int) bool { return report.Drift[i].SKU < report.Drift[j].SKU })
	sort.Strings(report.Failed)
	report.FinishedAt = time.Now().UTC()

	uc.log.Info().
		Int("processed", report.Processed).
		Int("inserted", report.Inserted).
		Int("updated", report.Updated).
		Int("drift", len(report.Drift)).
		Int("failed", len(report.Failed)).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("rebuild de inventario completado")
	return report, nil
}

// rebuildOne devuelve la cantidad previa en caché (nil si no había snapshot) y la recalculada.
func (uc *RebuildUseCase) rebuildOne(ctx context.Context, sku string) (*int64, int64, error) {
	prev, err := uc.snapshots.Get(ctx, sku)
	if err != nil {
		return nil, 0, err
	}
	level, err := uc.stock.Recompute(ctx, sku)
	if err != nil {
		return nil, 0, err
	}
	if prev == nil {
		return nil, level.Quantity, nil
	}
	before := prev.Quantity
	return &before, level.Quantity, nil
}
