package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/application/ports"
)

// ReportUseCase genera el reporte PDF de inventario a partir de los snapshots en caché.
type ReportUseCase struct {
	stock    *StockUseCase
	renderer ports.ReportRenderer
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(stock *StockUseCase, renderer ports.ReportRenderer) *ReportUseCase {
	return &ReportUseCase{stock: stock, renderer: renderer}
}

// Generate devuelve los bytes del PDF.
func (uc *ReportUseCase) Generate(ctx context.Context, title string) ([]byte, error) {
	snaps, err := uc.stock.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar snapshots: %w", err)
	}
	if title == "" {
		title = "Inventario"
	}
	return uc.renderer.RenderInventory(ctx, title, snaps, time.Now())
}
