package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// Límites por defecto de las consultas al log.
const (
	DefaultHistoryLimit = 5
	DefaultSearchLimit  = 10
)

// MovementUseCase registra entradas y salidas en el log y dispara el reductor.
// No hay transacción entre la inserción y el recálculo: si el recálculo falla,
// el log queda correcto y el snapshot desactualizado hasta el próximo rebuild.
type MovementUseCase struct {
	movements repository.MovementRepository
	stock     *StockUseCase
	log       *logger.Logger
	now       func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(movements repository.MovementRepository, stock *StockUseCase, log *logger.Logger) *MovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MovementUseCase{movements: movements, stock: stock, log: log, now: time.Now}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	SKU       string
	Kind      entity.MovementKind
	Quantity  int64
	Warehouse string
	Actor     string
	Note      string
}

// MovementResult resultado del registro. Level es nil si el recálculo falló;
// en ese caso RecomputeErr trae la causa (fallo parcial aceptado, sin reintento).
type MovementResult struct {
	Movement     *entity.Movement
	Level        *entity.StockLevel
	RecomputeErr error
}

// Record valida, inserta el movimiento y recalcula el stock del SKU.
// Una cantidad no positiva se rechaza antes de insertar.
func (uc *MovementUseCase) Record(ctx context.Context, in MovementInput) (*MovementResult, error) {
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		SKU:       strings.TrimSpace(in.SKU),
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Warehouse: strings.TrimSpace(in.Warehouse),
		Actor:     strings.TrimSpace(in.Actor),
		Note:      strings.TrimSpace(in.Note),
		At:        uc.now().UTC(),
	}
	if err := mov.Validate(); err != nil {
		return nil, err
	}
	if err := uc.movements.Insert(ctx, mov); err != nil {
		return nil, fmt.Errorf("insertar movimiento: %w", err)
	}

	res := &MovementResult{Movement: mov}
	level, err := uc.stock.Recompute(ctx, mov.SKU)
	if err != nil {
		uc.log.Warn().Err(err).
			Str("sku", mov.SKU).
			Str("movement_id", mov.ID).
			Msg("movimiento registrado pero el snapshot quedó desactualizado")
		res.RecomputeErr = err
		return res, nil
	}
	res.Level = level
	return res, nil
}

// History devuelve los últimos movimientos de un SKU (por defecto 5).
func (uc *MovementUseCase) History(ctx context.Context, sku string, limit int) ([]*entity.Movement, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return uc.movements.Find(ctx, repository.MovementFilter{SKU: strings.TrimSpace(sku), Limit: limit})
}

// Search filtra el log por actor, bodega y/o SKU (por defecto 10 resultados).
func (uc *MovementUseCase) Search(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultSearchLimit
	}
	return uc.movements.Find(ctx, filter)
}
