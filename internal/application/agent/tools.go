package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/internal/application/tasks"
	"github.com/jhoicas/smart-warehouse/internal/domain"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// Nombres de las herramientas registradas.
const (
	ToolStockBySKU         = "stock_by_sku"
	ToolStockByName        = "stock_by_name"
	ToolInventorySearch    = "inventory_search"
	ToolTransactionHistory = "transaction_history"
	ToolRecordInbound      = "record_inbound"
	ToolRecordOutbound     = "record_outbound"
	ToolTransactionSearch  = "transaction_search"
	ToolOpenTasks          = "open_tasks"
	ToolTaskAssign         = "task_assign"
	ToolTaskComplete       = "task_complete"
	ToolTaskSearch         = "task_search"
	ToolRebuildInventory   = "rebuild_inventory"
)

// Deps casos de uso que respaldan las herramientas.
type Deps struct {
	Stock        *inventory.StockUseCase
	Movements    *inventory.MovementUseCase
	Rebuild      *inventory.RebuildUseCase
	Tasks        *tasks.UseCase
	ConfirmToken string
	Log          *logger.Logger
}

type toolset struct {
	Deps
}

// NewRegistry arma el conjunto fijo de herramientas de bodega.
func NewRegistry(deps Deps) *Registry {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.ConfirmToken == "" {
		deps.ConfirmToken = "CONFIRM"
	}
	ts := &toolset{Deps: deps}
	r := NewEmptyRegistry()
	add := func(name, description string, run RunFunc) {
		r.MustRegister(Tool{Name: name, Description: description, Run: ts.guard(name, run)})
	}
	add(ToolStockBySKU, "Returns the current stock of a SKU, recomputed from the transaction log. Input: the SKU, e.g. A1.", ts.stockBySKU)
	add(ToolStockByName, "Finds a product by its exact name and returns its current stock. Input: the product name.", ts.stockByName)
	add(ToolInventorySearch, `Searches inventory snapshots. Input: JSON with optional sku, name (partial, case-insensitive), wh and limit, e.g. {"name": "pipe"}.`, ts.inventorySearch)
	add(ToolTransactionHistory, `Shows the latest transactions of a SKU, newest first. Input: the SKU, or JSON {"sku": "A1", "limit": 5}.`, ts.transactionHistory)
	add(ToolRecordInbound, `Records an inbound (receipt) transaction and refreshes the stock. Input: "sku,qty,wh,by,note" or JSON {"sku","qty","wh","by","note"}.`, ts.recordInbound)
	add(ToolRecordOutbound, `Records an outbound (shipment) transaction and refreshes the stock. Input: "sku,qty,wh,by,note" or JSON {"sku","qty","wh","by","note"}.`, ts.recordOutbound)
	add(ToolTransactionSearch, `Searches transactions. Input: JSON with optional by, wh, sku and limit, e.g. {"by": "bob"}.`, ts.transactionSearch)
	add(ToolOpenTasks, "Lists open warehouse tasks, newest first. Input: optional limit.", ts.openTasks)
	add(ToolTaskAssign, `Assigns a task to a person. Input: JSON {"task_id": "...", "assignee": "..."}.`, ts.taskAssign)
	add(ToolTaskComplete, "Marks a task as done. Input: the task ID.", ts.taskComplete)
	add(ToolTaskSearch, `Searches tasks. Input: JSON with optional sku, wh, assignee, status and limit.`, ts.taskSearch)
	add(ToolRebuildInventory, "Recomputes every stock snapshot from the transaction log. Input: the confirmation word; without it the tool asks for confirmation.", ts.rebuildInventory)
	return r
}

// argsError traduce un error de extracción al mensaje para el usuario.
func argsError(err error) string {
	if errors.Is(err, errMalformedInput) {
		return MsgMalformedInput
	}
	return MsgNotUnderstood
}

// guard convierte un panic de la herramienta en el texto genérico de fallo.
func (ts *toolset) guard(name string, run RunFunc) RunFunc {
	return func(ctx context.Context, input string) (out string) {
		defer func() {
			if p := recover(); p != nil {
				ts.Log.Error().Str("tool", name).Interface("panic", p).Msg("panic en herramienta")
				out = faultMessage("handling the request")
			}
		}()
		return run(ctx, input)
	}
}

// fault registra el error inesperado y devuelve el texto genérico.
func (ts *toolset) fault(tool, action string, err error) string {
	ts.Log.Error().Err(err).Str("tool", tool).Msg("fallo inesperado en herramienta")
	return faultMessage(action)
}

func (ts *toolset) stockBySKU(ctx context.Context, input string) string {
	a, err := ParseSKUArgs(input)
	if err != nil {
		return argsError(err)
	}
	if a.SKU == "" {
		return askFor("SKU")
	}
	level, err := ts.Stock.Recompute(ctx, a.SKU)
	if errors.Is(err, domain.ErrNotFound) {
		return skuNotFoundMessage(a.SKU)
	}
	if err != nil {
		return ts.fault(ToolStockBySKU, "reading the stock", err)
	}
	return stockMessage(level)
}

func (ts *toolset) stockByName(ctx context.Context, input string) string {
	name := cleanInput(input)
	if obj, structured, err := decodeObject(name); structured {
		if err != nil {
			return MsgMalformedInput
		}
		name, _ = pick(obj, "name")
	}
	if name == "" {
		return askFor("product name")
	}
	level, err := ts.Stock.StockByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return productNotFoundMessage(name)
	}
	if err != nil {
		return ts.fault(ToolStockByName, "reading the stock", err)
	}
	return stockMessage(level)
}

func (ts *toolset) inventorySearch(ctx context.Context, input string) string {
	f, err := ParseFilterArgs(input)
	if err != nil {
		return argsError(err)
	}
	snaps, err := ts.Stock.Search(ctx, repository.SnapshotFilter{
		SKU:       f["sku"],
		Name:      f["name"],
		Warehouse: f["warehouse"],
		Limit:     f.Limit(10),
	})
	if err != nil {
		return ts.fault(ToolInventorySearch, "searching the inventory", err)
	}
	if len(snaps) == 0 {
		return MsgNoProducts
	}
	return snapshotLines(snaps)
}

func (ts *toolset) transactionHistory(ctx context.Context, input string) string {
	a, err := ParseSKUArgs(input)
	if err != nil {
		return argsError(err)
	}
	if a.SKU == "" {
		return askFor("SKU")
	}
	movs, err := ts.Movements.History(ctx, a.SKU, a.Limit)
	if err != nil {
		return ts.fault(ToolTransactionHistory, "reading the transaction history", err)
	}
	if len(movs) == 0 {
		return noHistoryMessage(a.SKU)
	}
	return historyLines(movs, false)
}

func (ts *toolset) recordInbound(ctx context.Context, input string) string {
	return ts.record(ctx, ToolRecordInbound, entity.MovementInbound, input)
}

func (ts *toolset) recordOutbound(ctx context.Context, input string) string {
	return ts.record(ctx, ToolRecordOutbound, entity.MovementOutbound, input)
}

func (ts *toolset) record(ctx context.Context, tool string, kind entity.MovementKind, input string) string {
	a, err := ParseMovementArgs(input)
	if err != nil {
		return argsError(err)
	}
	if field := a.Missing(); field != "" {
		return askFor(field)
	}
	res, err := ts.Movements.Record(ctx, inventory.MovementInput{
		SKU:       a.SKU,
		Kind:      kind,
		Quantity:  a.Quantity,
		Warehouse: a.Warehouse,
		Actor:     a.Actor,
		Note:      a.Note,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return MsgInvalidQuantity
	case errors.Is(err, domain.ErrInvalidInput):
		return MsgNotUnderstood
	case err != nil:
		return ts.fault(tool, "recording the transaction", err)
	}
	return movementMessage(res.Movement, res)
}

func (ts *toolset) transactionSearch(ctx context.Context, input string) string {
	f, err := ParseFilterArgs(input)
	if err != nil {
		return argsError(err)
	}
	movs, err := ts.Movements.Search(ctx, repository.MovementFilter{
		SKU:       f["sku"],
		Warehouse: f["warehouse"],
		Actor:     f["actor"],
		Limit:     f.Limit(inventory.DefaultSearchLimit),
	})
	if err != nil {
		return ts.fault(ToolTransactionSearch, "searching transactions", err)
	}
	if len(movs) == 0 {
		return MsgNoTransactions
	}
	return historyLines(movs, true)
}

func (ts *toolset) openTasks(ctx context.Context, input string) string {
	items, err := ts.Tasks.Open(ctx, parseLimit(input, tasks.DefaultLimit))
	if err != nil {
		return ts.fault(ToolOpenTasks, "listing open tasks", err)
	}
	if len(items) == 0 {
		return MsgNoOpenTasks
	}
	return openTaskLines(items)
}

func (ts *toolset) taskAssign(ctx context.Context, input string) string {
	a, err := ParseAssignArgs(input)
	if err != nil {
		return argsError(err)
	}
	if field := a.Missing(); field != "" {
		return askFor(field)
	}
	ok, err := ts.Tasks.Assign(ctx, a.TaskID, a.Assignee)
	if err != nil {
		return ts.fault(ToolTaskAssign, "assigning the task", err)
	}
	if !ok {
		return fmt.Sprintf("Task %s was not found (or it was already assigned to %s).", a.TaskID, a.Assignee)
	}
	return fmt.Sprintf("Task %s assigned to %s.", a.TaskID, a.Assignee)
}

func (ts *toolset) taskComplete(ctx context.Context, input string) string {
	id, err := ParseTaskID(input)
	if err != nil {
		return argsError(err)
	}
	if id == "" {
		return askFor("task ID")
	}
	ok, err := ts.Tasks.Complete(ctx, id)
	if err != nil {
		return ts.fault(ToolTaskComplete, "completing the task", err)
	}
	if !ok {
		return fmt.Sprintf("Task %s was not found (or it was already done).", id)
	}
	return fmt.Sprintf("Task %s marked as done.", id)
}

func (ts *toolset) taskSearch(ctx context.Context, input string) string {
	f, err := ParseFilterArgs(input)
	if err != nil {
		return argsError(err)
	}
	items, err := ts.Tasks.Search(ctx, repository.TaskFilter{
		SKU:       f["sku"],
		Warehouse: f["warehouse"],
		Assignee:  f["assignee"],
		Status:    entity.TaskStatus(strings.ToLower(f["status"])),
		Limit:     f.Limit(tasks.DefaultLimit),
	})
	if err != nil {
		return ts.fault(ToolTaskSearch, "searching tasks", err)
	}
	if len(items) == 0 {
		return MsgNoTasks
	}
	return taskLines(items)
}

func (ts *toolset) rebuildInventory(ctx context.Context, input string) string {
	if !ts.confirmed(input) {
		return confirmMessage(ts.ConfirmToken)
	}
	report, err := ts.Rebuild.RebuildAll(ctx)
	if err != nil {
		return ts.fault(ToolRebuildInventory, "rebuilding the inventory", err)
	}
	return RebuildSummary(report)
}

// confirmed acepta la palabra de confirmación como texto suelto, como palabra
// dentro de la frase o en JSON {"confirm": "..."}.
func (ts *toolset) confirmed(input string) bool {
	input = cleanInput(input)
	if obj, structured, err := decodeObject(input); structured {
		if err != nil {
			return false
		}
		v, _ := pick(obj, "confirm")
		return strings.EqualFold(v, ts.ConfirmToken)
	}
	for _, w := range strings.FieldsFunc(input, func(r rune) bool { return r == ' ' || r == ',' || r == '.' || r == '!' }) {
		if strings.EqualFold(w, ts.ConfirmToken) {
			return true
		}
	}
	return false
}
