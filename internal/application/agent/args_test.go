package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-warehouse/internal/application/agent"
)

func TestParseMovementArgs(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  agent.MovementArgs
	}{
		{
			name:  "json con alias cortos",
			input: `{"sku":"A1","qty":"10","wh":"W1","by":"bob"}`,
			want:  agent.MovementArgs{SKU: "A1", Quantity: 10, QuantitySet: true, Warehouse: "W1", Actor: "bob"},
		},
		{
			name:  "json con nombres largos",
			input: `{"sku":"A1","quantity":3,"warehouse":"W1","actor":"bob","note":"urgent"}`,
			want:  agent.MovementArgs{SKU: "A1", Quantity: 3, QuantitySet: true, Warehouse: "W1", Actor: "bob", Note: "urgent"},
		},
		{
			name:  "posicional con nota que tiene comas",
			input: "A1, 10, W1, bob, first batch, pallet 2",
			want:  agent.MovementArgs{SKU: "A1", Quantity: 10, QuantitySet: true, Warehouse: "W1", Actor: "bob", Note: "first batch, pallet 2"},
		},
		{
			name:  "frase en inglés con nota",
			input: "receive 10 of sku A1 into warehouse W1 by bob, note x",
			want:  agent.MovementArgs{SKU: "A1", Quantity: 10, QuantitySet: true, Warehouse: "W1", Actor: "bob", Note: "x"},
		},
		{
			name:  "frase de salida",
			input: "ship 3 units of A1 from W1 by bob",
			want:  agent.MovementArgs{SKU: "A1", Quantity: 3, QuantitySet: true, Warehouse: "W1", Actor: "bob"},
		},
		{
			name:  "frase en vietnamita",
			input: "nhập 10 SP001 vào kho WH01 bởi student01",
			want:  agent.MovementArgs{SKU: "SP001", Quantity: 10, QuantitySet: true, Warehouse: "WH01", Actor: "student01"},
		},
		{
			name:  "palabras clave sin actor",
			input: "nhập 10 cái SP001 vào kho WH01",
			want:  agent.MovementArgs{SKU: "SP001", Quantity: 10, QuantitySet: true, Warehouse: "WH01"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := agent.ParseMovementArgs(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseMovementArgs_Failures(t *testing.T) {
	_, err := agent.ParseMovementArgs(`{"sku": "A1", "qty": 10`)
	assert.Error(t, err, "JSON truncado no debe caer a otros matchers")

	_, err = agent.ParseMovementArgs("A1, 10")
	assert.Error(t, err)

	_, err = agent.ParseMovementArgs("A1, ten, W1, bob")
	assert.Error(t, err)
}

func TestMovementArgs_Missing(t *testing.T) {
	got, err := agent.ParseMovementArgs(`{"sku":"A1","wh":"W1","by":"bob"}`)
	require.NoError(t, err)
	assert.Equal(t, "quantity", got.Missing())

	got, err = agent.ParseMovementArgs("nhập 10 cái SP001 vào kho WH01")
	require.NoError(t, err)
	assert.Equal(t, "actor", got.Missing())

	assert.Equal(t, "SKU", agent.MovementArgs{}.Missing())
}

func TestParseFilterArgs(t *testing.T) {
	cases := []struct {
		input string
		want  agent.FilterArgs
	}{
		{`{"by":"bob","wh":"W1","limit":3}`, agent.FilterArgs{"actor": "bob", "warehouse": "W1", "limit": "3"}},
		{"sku=A1, status: open", agent.FilterArgs{"sku": "A1", "status": "open"}},
		{"transactions by bob in warehouse W2", agent.FilterArgs{"actor": "bob", "warehouse": "W2"}},
		{"tasks for student01", agent.FilterArgs{"actor": "student01", "assignee": "student01"}},
		{"", agent.FilterArgs{}},
		{"{}", agent.FilterArgs{}},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := agent.ParseFilterArgs(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := agent.ParseFilterArgs(`{"by": `)
	assert.Error(t, err)
	assert.Equal(t, 3, agent.FilterArgs{"limit": "3"}.Limit(10))
	assert.Equal(t, 10, agent.FilterArgs{"limit": "x"}.Limit(10))
}

func TestParseSKUArgs(t *testing.T) {
	cases := map[string]agent.SKUArgs{
		"A1":                         {SKU: "A1"},
		`"A1"`:                       {SKU: "A1"},
		`{"sku":"A1","limit":3}`:     {SKU: "A1", Limit: 3},
		"A1, 2":                      {SKU: "A1", Limit: 2},
		"what is the stock of A1?":   {SKU: "A1"},
		"show history for sku B-200": {SKU: "B-200"},
		"tồn kho SP001":              {SKU: "SP001"},
	}
	for input, want := range cases {
		got, err := agent.ParseSKUArgs(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseAssignArgs(t *testing.T) {
	cases := map[string]agent.AssignArgs{
		`{"task_id":"T1","assignee":"ana"}`: {TaskID: "T1", Assignee: "ana"},
		"T1, ana":                           {TaskID: "T1", Assignee: "ana"},
		"assign task T1 to ana":             {TaskID: "T1", Assignee: "ana"},
		"giao task T1 cho student01":        {TaskID: "T1", Assignee: "student01"},
		`{"task_id":"T1"}`:                  {TaskID: "T1"},
	}
	for input, want := range cases {
		got, err := agent.ParseAssignArgs(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	assert.Equal(t, "assignee", agent.AssignArgs{TaskID: "T1"}.Missing())
}

func TestParseTaskID(t *testing.T) {
	cases := map[string]string{
		"T1":                   "T1",
		`{"task_id":"T1"}`:     "T1",
		"complete task T1":     "T1",
		"mark task T1 as done": "T1",
		"hoàn thành task T1":   "T1",
		"":                     "",
	}
	for input, want := range cases {
		got, err := agent.ParseTaskID(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "nhap kho", agent.Fold("nhập kho"))
	assert.Equal(t, "xuat kho", agent.Fold("xuất kho"))
	assert.Equal(t, "Ton kho SP001", agent.Fold("Tồn kho SP001"))
	assert.Equal(t, "dong bo", agent.Fold("đồng bộ"))
}

func TestParseMovementArgs_KeepsAccentedActorAndNote(t *testing.T) {
	cases := map[string]agent.MovementArgs{
		"nhập 10 SP001 vào kho WH01 bởi Nguyễn Văn An, ghi chú: hàng mới về": {
			SKU: "SP001", Quantity: 10, QuantitySet: true, Warehouse: "WH01", Actor: "Nguyễn Văn An", Note: "hàng mới về",
		},
		"receive 10 of sku A1 into warehouse W1 by José Müller, note café crème": {
			SKU: "A1", Quantity: 10, QuantitySet: true, Warehouse: "W1", Actor: "José Müller", Note: "café crème",
		},
		// Forma descompuesta (NFD): las marcas combinantes quedan dentro del texto recortado.
		"ship 2 of A1 from W1 by Jose\u0301, note ni\u0303o": {
			SKU: "A1", Quantity: 2, QuantitySet: true, Warehouse: "W1", Actor: "Jose\u0301", Note: "ni\u0303o",
		},
	}
	for input, want := range cases {
		got, err := agent.ParseMovementArgs(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseArgs_EmptyInputAsksForRequiredField(t *testing.T) {
	sku, err := agent.ParseSKUArgs("")
	require.NoError(t, err)
	assert.Equal(t, agent.SKUArgs{}, sku)

	assign, err := agent.ParseAssignArgs("  ")
	require.NoError(t, err)
	assert.Equal(t, "task ID", assign.Missing())

	mov, err := agent.ParseMovementArgs("")
	require.NoError(t, err)
	assert.Equal(t, "SKU", mov.Missing())
}

func TestParseMovementArgs_QuantityOutOfRange(t *testing.T) {
	for _, q := range []string{"1e20", "9223372036854775808", "-1e19"} {
		got, err := agent.ParseMovementArgs(`{"sku":"A1","qty":` + q + `,"wh":"W1","by":"bob"}`)
		require.NoError(t, err, q)
		assert.False(t, got.QuantitySet, q)
		assert.Equal(t, "quantity", got.Missing(), q)
	}

	got, err := agent.ParseMovementArgs(`{"sku":"A1","qty":1e3,"wh":"W1","by":"bob"}`)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Quantity)
}

func TestParseAssignArgs_KeepsAccentedAssignee(t *testing.T) {
	got, err := agent.ParseAssignArgs("giao việc T1 cho Trần Thị Bình")
	require.NoError(t, err)
	assert.Equal(t, agent.AssignArgs{TaskID: "T1", Assignee: "Trần Thị Bình"}, got)
}
