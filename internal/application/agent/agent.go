package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/application/ports"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// Valores por defecto del bucle ReAct.
const (
	DefaultMaxSteps    = 6
	DefaultCallTimeout = 20 * time.Second
)

const systemPromptTemplate = `You are a warehouse management assistant. Always use the tools to answer questions about stock, transactions and tasks. Never make up information. If a required value is missing, ask the user for it.

You have access to the following tools:

%s

Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [%s]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original question

Begin!`

// Mensajes de corrección que recibe el modelo cuando no respeta el formato.
const (
	obsInvalidFormat = "Invalid Format: Missing 'Action:' after 'Thought:'. Reply with an Action and Action Input, or with a Final Answer."
	obsMissingInput  = "Invalid Format: Missing 'Action Input:' after 'Action:'."
)

var (
	actionRe      = regexp.MustCompile(`(?m)^\s*Action\s*\d*\s*:\s*(.+?)\s*$`)
	actionInputRe = regexp.MustCompile(`(?s)Action\s*\d*\s*Input\s*\d*\s*:\s*(.*)`)
	finalAnswerRe = regexp.MustCompile(`(?s)Final Answer\s*:\s*(.*)`)
)

// Options ajustes del agente.
type Options struct {
	MaxSteps    int
	CallTimeout time.Duration
}

// Agent bucle ReAct: el LLM elige herramienta, se ejecuta y la observación vuelve
// como siguiente turno, hasta una respuesta final o el límite de pasos.
type Agent struct {
	llm        ports.LLMService
	registry   *Registry
	dispatcher *Dispatcher
	opts       Options
	system     string
	log        *logger.Logger
}

// NewAgent construye el agente. llm puede ser nil: en ese caso todas las preguntas
// van al Dispatcher por reglas.
func NewAgent(llm ports.LLMService, registry *Registry, dispatcher *Dispatcher, opts Options, log *logger.Logger) *Agent {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher(registry, log)
	}
	return &Agent{
		llm:        llm,
		registry:   registry,
		dispatcher: dispatcher,
		opts:       opts,
		system:     fmt.Sprintf(systemPromptTemplate, registry.Describe(), strings.Join(registry.Names(), ", ")),
		log:        log,
	}
}

// UsesLLM indica si hay un proveedor de LLM configurado.
func (a *Agent) UsesLLM() bool { return a.llm != nil }

// Ask responde una pregunta en lenguaje natural. El error solo se devuelve cuando
// falla el LLM; el texto devuelto es siempre mostrable al usuario.
func (a *Agent) Ask(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return askFor("question"), nil
	}
	if a.llm == nil {
		return a.dispatcher.Dispatch(ctx, query), nil
	}

	messages := []ports.Message{{Role: ports.RoleUser, Content: "Question: " + query}}
	for step := 1; step <= a.opts.MaxSteps; step++ {
		out, err := a.complete(ctx, messages)
		if err != nil {
			a.log.Error().Err(err).Int("step", step).Msg("agente: fallo en la llamada al LLM")
			return MsgAgentFailure, fmt.Errorf("llm paso %d: %w", step, err)
		}

		action, input, hasAction := parseAction(out)
		if !hasAction {
			if m := finalAnswerRe.FindStringSubmatch(out); m != nil {
				return strings.TrimSpace(m[1]), nil
			}
		}

		var observation string
		switch {
		case !hasAction && actionRe.MatchString(out):
			observation = obsMissingInput
		case !hasAction:
			observation = obsInvalidFormat
		default:
			observation = a.runTool(ctx, action, input)
			a.log.Debug().Int("step", step).Str("tool", action).Str("input", input).Msg("agente: herramienta ejecutada")
		}

		messages = append(messages,
			ports.Message{Role: ports.RoleAssistant, Content: truncateAfterInput(out)},
			ports.Message{Role: ports.RoleUser, Content: "Observation: " + observation},
		)
	}

	a.log.Warn().Int("max_steps", a.opts.MaxSteps).Str("query", query).Msg("agente: límite de pasos alcanzado")
	return MsgStepLimit, nil
}

func (a *Agent) complete(ctx context.Context, messages []ports.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.CallTimeout)
	defer cancel()
	return a.llm.Complete(ctx, a.system, messages)
}

func (a *Agent) runTool(ctx context.Context, name, input string) string {
	tool, ok := a.registry.Get(name)
	if !ok {
		return fmt.Sprintf("%s is not a valid tool, try one of [%s].", name, strings.Join(a.registry.Names(), ", "))
	}
	return tool.Run(ctx, input)
}

// parseAction busca "Action:" seguido de "Action Input:". La acción tiene prioridad
// sobre una "Final Answer" en la misma salida.
func parseAction(out string) (action, input string, ok bool) {
	am := actionRe.FindStringSubmatchIndex(out)
	if am == nil {
		return "", "", false
	}
	action = strings.Trim(strings.TrimSpace(out[am[2]:am[3]]), "`*\"'")
	rest := out[am[1]:]
	im := actionInputRe.FindStringSubmatch(rest)
	if im == nil {
		return "", "", false
	}
	input = im[1]
	if i := strings.Index(input, "\nObservation"); i >= 0 {
		input = input[:i]
	}
	if i := strings.Index(input, "\nFinal Answer"); i >= 0 {
		input = input[:i]
	}
	return action, strings.TrimSpace(input), true
}

// truncateAfterInput descarta observaciones inventadas por el modelo después de la acción.
func truncateAfterInput(out string) string {
	if i := strings.Index(out, "\nObservation"); i >= 0 {
		return strings.TrimSpace(out[:i])
	}
	return strings.TrimSpace(out)
}
