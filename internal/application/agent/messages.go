package agent

import (
	"fmt"
	"strings"

	"github.com/jhoicas/smart-warehouse/internal/application/inventory"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
)

// Respuestas fijas que ve el usuario final.
const (
	MsgNotUnderstood   = "Sorry, I could not understand that request. Try something like: receive 10 of sku A1 into warehouse W1 by bob."
	MsgMalformedInput  = "I could not read that input: it looks like JSON but it is not valid. Please check the format and try again."
	MsgInvalidQuantity = "The quantity must be a positive whole number."
	MsgNoOpenTasks     = "There are no open tasks."
	MsgNoTasks         = "No matching tasks found."
	MsgNoProducts      = "No matching products found."
	MsgNoTransactions  = "No matching transactions found."
	MsgStepLimit       = "Sorry, I could not finish that request within the allowed number of steps. Please rephrase or split it."
	MsgAgentFailure    = "Sorry, the assistant is unavailable right now. Please try again later."
)

const timeLayout = "2006-01-02 15:04:05"

func askFor(field string) string {
	return fmt.Sprintf("I need a bit more information: which %s?", field)
}

func faultMessage(action string) string {
	return fmt.Sprintf("Sorry, something went wrong while %s. Please try again later.", action)
}

func stockMessage(l *entity.StockLevel) string {
	return fmt.Sprintf("SKU %s currently has %d %s in stock.", l.SKU, l.Quantity, l.UoM)
}

func skuNotFoundMessage(sku string) string {
	return fmt.Sprintf("SKU %s was not found in the transaction log.", sku)
}

func productNotFoundMessage(name string) string {
	return fmt.Sprintf("No product named %q was found in the inventory.", name)
}

func noHistoryMessage(sku string) string {
	return fmt.Sprintf("There are no transactions for %s.", sku)
}

func movementMessage(m *entity.Movement, res *inventory.MovementResult) string {
	var b strings.Builder
	if m.Kind == entity.MovementInbound {
		fmt.Fprintf(&b, "Recorded inbound of %d units (SKU %s) into warehouse %s by %s.", m.Quantity, m.SKU, m.Warehouse, m.Actor)
	} else {
		fmt.Fprintf(&b, "Recorded outbound of %d units (SKU %s) from warehouse %s by %s.", m.Quantity, m.SKU, m.Warehouse, m.Actor)
	}
	if res.Level != nil {
		fmt.Fprintf(&b, " Current stock: %d %s.", res.Level.Quantity, res.Level.UoM)
	} else {
		b.WriteString(" The stock snapshot could not be refreshed; it will be corrected on the next rebuild.")
	}
	return b.String()
}

func snapshotLines(snaps []*entity.Snapshot) string {
	lines := make([]string, len(snaps))
	for i, s := range snaps {
		lines[i] = fmt.Sprintf("%s - %s (%d %s at %s)", s.SKU, s.Name, s.Quantity, s.UnitOrDefault(), s.Warehouse)
	}
	return strings.Join(lines, "\n")
}

func historyLines(movs []*entity.Movement, withSKU bool) string {
	lines := make([]string, len(movs))
	for i, m := range movs {
		sku := ""
		if withSKU {
			sku = m.SKU + " - "
		}
		lines[i] = fmt.Sprintf("%s - %s%s %d (by %s, wh: %s, note: %s)",
			m.At.UTC().Format(timeLayout), sku, m.Kind, m.Quantity, m.Actor, m.Warehouse, m.Note)
	}
	return strings.Join(lines, "\n")
}

func openTaskLines(items []*entity.Task) string {
	lines := make([]string, len(items))
	for i, t := range items {
		lines[i] = fmt.Sprintf("%s - %s (sku=%s, wh=%s)", t.ID, t.Type, t.SKU, t.Warehouse)
	}
	return strings.Join(lines, "\n")
}

func taskLines(items []*entity.Task) string {
	lines := make([]string, len(items))
	for i, t := range items {
		assignee := t.Assignee
		if assignee == "" {
			assignee = "unassigned"
		}
		lines[i] = fmt.Sprintf("%s - %s (%s, sku=%s, wh=%s, assignee=%s)", t.ID, t.Type, t.Status, t.SKU, t.Warehouse, assignee)
	}
	return strings.Join(lines, "\n")
}

// RebuildSummary resume el informe de reconstrucción en una línea.
func RebuildSummary(r *inventory.RebuildReport) string {
	return fmt.Sprintf("Inventory rebuilt: %d SKUs processed (%d inserted, %d updated, %d with drift, %d failed).",
		r.Processed, r.Inserted, r.Updated, len(r.Drift), len(r.Failed))
}

func confirmMessage(token string) string {
	return fmt.Sprintf("Rebuilding the inventory rewrites every stock snapshot. Repeat the request including the confirmation word %q to proceed.", token)
}
