package agent_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/jhoicas/smart-warehouse/internal/application/ports"
	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

func lastObservation(t *testing.T, msgs []ports.Message) string {
	t.Helper()
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, ports.RoleUser, last.Role)
	return last.Content
}

func TestAgent_ToolThenFinalAnswer(t *testing.T) {
	e := newEnv(t)
	e.seedMovement(t, "A1", entity.MovementInbound, 10)
	e.seedMovement(t, "A1", entity.MovementOutbound, 3)
	llm := &scriptedLLM{replies: []string{
		"Thought: I should check the stock.\nAction: stock_by_sku\nAction Input: A1",
		"Thought: I now know the final answer\nFinal Answer: A1 has 7 units.",
	}}
	a := agent.NewAgent(llm, e.registry, nil, agent.Options{}, logger.Nop())

	answer, err := a.Ask(context.Background(), "how many A1 do we have?")
	require.NoError(t, err)
	assert.Equal(t, "A1 has 7 units.", answer)
	assert.True(t, a.UsesLLM())

	require.Len(t, llm.received, 2)
	assert.Equal(t, "Question: how many A1 do we have?", llm.received[0][0].Content)
	assert.Equal(t, "Observation: SKU A1 currently has 7 units in stock.", lastObservation(t, llm.received[1]))
	assert.Contains(t, llm.system, "stock_by_sku: ")
	assert.Contains(t, llm.system, "Final Answer:")
}

func TestAgent_InvalidFormatIsFedBack(t *testing.T) {
	e := newEnv(t)
	llm := &scriptedLLM{replies: []string{
		"I think the answer is five.",
		"Action: stock_by_sku",
		"Final Answer: I need the SKU.",
	}}
	a := agent.NewAgent(llm, e.registry, nil, agent.Options{}, logger.Nop())

	answer, err := a.Ask(context.Background(), "stock?")
	require.NoError(t, err)
	assert.Equal(t, "I need the SKU.", answer)
	assert.True(t, strings.HasPrefix(lastObservation(t, llm.received[1]), "Observation: Invalid Format: Missing 'Action:'"))
	assert.True(t, strings.HasPrefix(lastObservation(t, llm.received[2]), "Observation: Invalid Format: Missing 'Action Input:'"))
}

func TestAgent_UnknownToolAndHallucinatedObservation(t *testing.T) {
	e := newEnv(t)
	llm := &scriptedLLM{replies: []string{
		"Action: teleport\nAction Input: A1",
		"Action: open_tasks\nAction Input: 5\nObservation: there are 99 tasks",
		"Final Answer: none",
	}}
	a := agent.NewAgent(llm, e.registry, nil, agent.Options{}, logger.Nop())

	_, err := a.Ask(context.Background(), "do something")
	require.NoError(t, err)
	assert.Contains(t, lastObservation(t, llm.received[1]), "teleport is not a valid tool")

	// La observación inventada se descarta del turno del asistente.
	assistant := llm.received[2][len(llm.received[2])-2]
	assert.Equal(t, ports.RoleAssistant, assistant.Role)
	assert.NotContains(t, assistant.Content, "99 tasks")
	assert.Equal(t, "Observation: "+agent.MsgNoOpenTasks, lastObservation(t, llm.received[2]))
}

func TestAgent_StepLimit(t *testing.T) {
	e := newEnv(t)
	llm := &scriptedLLM{replies: []string{"Action: open_tasks\nAction Input: 1"}}
	a := agent.NewAgent(llm, e.registry, nil, agent.Options{MaxSteps: 3}, logger.Nop())

	answer, err := a.Ask(context.Background(), "loop forever")
	require.NoError(t, err)
	assert.Equal(t, agent.MsgStepLimit, answer)
	assert.Equal(t, 3, llm.calls)
}

func TestAgent_LLMErrorStillReturnsText(t *testing.T) {
	e := newEnv(t)
	llm := &scriptedLLM{err: errors.New("503 from provider")}
	a := agent.NewAgent(llm, e.registry, nil, agent.Options{}, logger.Nop())

	answer, err := a.Ask(context.Background(), "stock of A1")
	assert.Error(t, err)
	assert.Equal(t, agent.MsgAgentFailure, answer)
}

func TestAgent_WithoutLLMUsesDispatcher(t *testing.T) {
	e := newEnv(t)
	a := agent.NewAgent(nil, e.registry, nil, agent.Options{}, logger.Nop())
	assert.False(t, a.UsesLLM())

	answer, err := a.Ask(context.Background(), "receive 4 of sku B2 into warehouse W1 by ana")
	require.NoError(t, err)
	assert.Contains(t, answer, "Recorded inbound of 4 units (SKU B2)")

	answer, err = a.Ask(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "I need a bit more information: which question?", answer)
}
