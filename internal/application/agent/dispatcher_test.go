package agent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

func TestDispatcher_Route(t *testing.T) {
	d := agent.NewDispatcher(newEnv(t).registry, logger.Nop())
	cases := []struct {
		text string
		tool string
	}{
		{"receive 10 of sku A1 into warehouse W1 by bob", agent.ToolRecordInbound},
		{"ship 3 units of A1 from W1 by bob", agent.ToolRecordOutbound},
		{"nhập 10 SP001 vào kho WH01 bởi student01", agent.ToolRecordInbound},
		{"xuất kho 5 SP001 từ kho WH01 bởi student01", agent.ToolRecordOutbound},
		{"What is the stock of A1?", agent.ToolStockBySKU},
		{"tồn kho SP001", agent.ToolStockBySKU},
		{"stock of the product named Steel Pipe", agent.ToolStockByName},
		{"show history of SP001", agent.ToolTransactionHistory},
		{"show transactions by bob", agent.ToolTransactionSearch},
		{"search inventory name=pipe", agent.ToolInventorySearch},
		{"list open tasks", agent.ToolOpenTasks},
		{"tasks for student01", agent.ToolTaskSearch},
		{"assign task T1 to ana", agent.ToolTaskAssign},
		{"complete task T1", agent.ToolTaskComplete},
		{"mark task T1 as done", agent.ToolTaskComplete},
		{"rebuild inventory CONFIRM", agent.ToolRebuildInventory},
		// Las notas libres no cambian la intención del registro.
		{"receive 10 of sku A1 into warehouse W1 by bob, note for task 42", agent.ToolRecordInbound},
		{"ship 3 units of A1 from W1 by bob, note rebuild shelf", agent.ToolRecordOutbound},
		{"please receive 2 of A1 into W1 by bob, note history of stock", agent.ToolRecordInbound},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			tool, _, ok := d.Route(tc.text)
			assert.True(t, ok)
			assert.Equal(t, tc.tool, tool)
		})
	}

	_, input, _ := d.Route("stock of the product named Steel Pipe")
	assert.Equal(t, "Steel Pipe", input)
}

func TestDispatcher_UnknownIntent(t *testing.T) {
	d := agent.NewDispatcher(newEnv(t).registry, nil)
	_, _, ok := d.Route("tell me a joke")
	assert.False(t, ok)
	assert.Equal(t, agent.MsgNotUnderstood, d.Dispatch(context.Background(), "tell me a joke"))
}

func TestDispatcher_EndToEnd(t *testing.T) {
	e := newEnv(t)
	d := agent.NewDispatcher(e.registry, logger.Nop())
	ctx := context.Background()

	assert.Contains(t, d.Dispatch(ctx, "receive 10 of sku A1 into warehouse W1 by bob"), "Current stock: 10 units.")
	assert.Contains(t, d.Dispatch(ctx, "ship 3 units of A1 from W1 by bob, note damaged box"), "Current stock: 7 units.")
	assert.Equal(t, "SKU A1 currently has 7 units in stock.", d.Dispatch(ctx, "What is the stock of A1?"))
	assert.Equal(t, "I need a bit more information: which actor?", d.Dispatch(ctx, "nhập 10 cái SP001 vào kho WH01"))
	assert.Contains(t, d.Dispatch(ctx, "receive 5 of sku A1 into warehouse W1 by bob, note for task 42"), "Current stock: 12 units.")
	assert.Contains(t, d.Dispatch(ctx, "ship 2 units of A1 from W1 by bob, note rebuild shelf"), "Current stock: 10 units.")
}
