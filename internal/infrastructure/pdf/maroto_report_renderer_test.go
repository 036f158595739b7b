package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/infrastructure/pdf"
)

func TestRenderInventory(t *testing.T) {
	snaps := []*entity.Snapshot{
		{SKU: "A1", Name: "Steel Pipe", Quantity: 7, UoM: "units", Warehouse: "W1", Location: "R1"},
		entity.NewPlaceholderSnapshot("B2", -3, time.Now()),
	}
	out, err := pdf.NewMarotoReportRenderer().RenderInventory(context.Background(), "Inventario", snaps, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe producir un documento PDF")
}
