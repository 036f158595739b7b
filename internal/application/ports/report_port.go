package ports

import (
	"context"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
)

// ReportRenderer genera la representación imprimible del inventario materializado.
type ReportRenderer interface {
	RenderInventory(ctx context.Context, title string, snapshots []*entity.Snapshot, generatedAt time.Time) ([]byte, error)
}
