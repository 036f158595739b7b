// Package pdf genera el reporte de inventario en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                 │  Fecha de generación      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Nombre | Cantidad | Unidad | Bodega | Ubic.   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: SKUs / unidades totales / SKUs en negativo        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/smart-warehouse/internal/application/ports"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
)

var _ ports.ReportRenderer = (*MarotoReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNegative = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// MarotoReportRenderer implementa ports.ReportRenderer usando Maroto v2.
type MarotoReportRenderer struct{}

// NewMarotoReportRenderer construye el renderer.
func NewMarotoReportRenderer() *MarotoReportRenderer { return &MarotoReportRenderer{} }

// RenderInventory genera el PDF de snapshots y devuelve sus bytes.
func (r *MarotoReportRenderer) RenderInventory(
	_ context.Context,
	title string,
	snapshots []*entity.Snapshot,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, rw := range snapshotRows(snapshots) {
		m.AddRows(rw)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(snapshots))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Nombre", 4, align.Left),
		h("Cantidad", 2, align.Right),
		h("Unidad", 1, align.Center),
		h("Bodega", 1, align.Center),
		h("Ubicación", 2, align.Center),
	)
}

func snapshotRows(snapshots []*entity.Snapshot) []core.Row {
	result := make([]core.Row, 0, len(snapshots))
	for _, s := range snapshots {
		qtyProps := props.Text{Size: 8, Align: align.Right, Top: 1}
		if s.Quantity < 0 {
			qtyProps.Color = colorNegative
			qtyProps.Style = fontstyle.Bold
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(s.SKU, props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(s.Name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", s.Quantity), qtyProps)),
			col.New(1).Add(text.New(s.UnitOrDefault(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(s.Warehouse, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(s.Location, props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return result
}

func summaryRow(snapshots []*entity.Snapshot) core.Row {
	var total int64
	negative := 0
	for _, s := range snapshots {
		total += s.Quantity
		if s.Quantity < 0 {
			negative++
		}
	}
	return row.New(10).Add(
		col.New(12).Add(text.New(
			fmt.Sprintf("SKUs: %d   |   Unidades totales: %d   |   SKUs en negativo: %d", len(snapshots), total, negative),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 3},
		)),
	)
}
