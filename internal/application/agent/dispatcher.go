package agent

import (
	"context"
	"regexp"
	"strings"

	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

// intent regla de enrutamiento: si el patrón coincide con el texto normalizado,
// se invoca la herramienta con la entrada que devuelve input.
type intent struct {
	tool    string
	pattern *regexp.Regexp
	input   func(raw, folded string) string
}

func passRaw(raw, _ string) string { return raw }

var stockNamePattern = regexp.MustCompile(`(?i)\b(?:named|called|name|ten)\s+"?([^"?]+?)"?\s*\??$`)

// intents en orden de prioridad. Las órdenes ancladas al inicio van primero: así una
// nota que menciona "task" o "rebuild" no desvía un registro de movimiento.
var intents = []intent{
	{ToolRecordInbound, regexp.MustCompile(`^(please )?(receive|received|inbound|nhap)\b`), passRaw},
	{ToolRecordOutbound, regexp.MustCompile(`^(please )?(ship|shipped|outbound|dispatch|send|xuat)\b`), passRaw},
	{ToolRebuildInventory, regexp.MustCompile(`\b(rebuild|resync|sync inventory|dong bo)\b`), passRaw},
	{ToolTaskAssign, regexp.MustCompile(`^(assign|giao)\b`), passRaw},
	{ToolTaskComplete, regexp.MustCompile(`^(complete|finish|close|hoan thanh)\b|\bas (done|complete|completed)\b`), passRaw},
	{ToolOpenTasks, regexp.MustCompile(`\bopen tasks?\b|\btasks? (dang )?mo\b`), passRaw},
	{ToolTaskSearch, regexp.MustCompile(`\btasks?\b|\bviec\b`), passRaw},
	{ToolRecordInbound, regexp.MustCompile(`\bnhap kho\b`), passRaw},
	{ToolRecordOutbound, regexp.MustCompile(`\bxuat kho\b`), passRaw},
	{ToolTransactionHistory, regexp.MustCompile(`\b(history|lich su)\b`), passRaw},
	{ToolTransactionSearch, regexp.MustCompile(`\b(transactions?|movements?|giao dich)\b`), passRaw},
	{ToolStockByName, regexp.MustCompile(`\b(stock|ton kho|how many|on hand)\b.*\b(named|called|name|ten)\b`), func(raw, folded string) string {
		if m := findRaw(stockNamePattern, raw); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}},
	{ToolInventorySearch, regexp.MustCompile(`\b(search|find|list|show|tim)\b.*\b(inventory|products?|items?|san pham)\b|^inventory\b`), passRaw},
	{ToolStockBySKU, regexp.MustCompile(`\b(stock|ton kho|how many|on hand|con bao nhieu)\b`), passRaw},
}

// Dispatcher enruta texto libre a una herramienta por reglas, sin LLM.
// Es el camino de /ask cuando no hay proveedor configurado.
type Dispatcher struct {
	registry *Registry
	log      *logger.Logger
}

// NewDispatcher construye el enrutador sobre el registro dado.
func NewDispatcher(registry *Registry, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{registry: registry, log: log}
}

// Route devuelve la herramienta elegida y su entrada; ok=false si ninguna regla aplica.
func (d *Dispatcher) Route(text string) (tool, input string, ok bool) {
	raw := strings.TrimSpace(text)
	folded := foldLower(raw)
	for _, in := range intents {
		if in.pattern.MatchString(folded) {
			return in.tool, in.input(raw, folded), true
		}
	}
	return "", "", false
}

// Dispatch ejecuta la herramienta elegida. Nunca falla: una intención
// desconocida devuelve el mensaje fijo de "no entendí".
func (d *Dispatcher) Dispatch(ctx context.Context, text string) string {
	name, input, ok := d.Route(text)
	if !ok {
		d.log.Debug().Str("text", text).Msg("dispatcher: intención no reconocida")
		return MsgNotUnderstood
	}
	tool, ok := d.registry.Get(name)
	if !ok {
		return MsgNotUnderstood
	}
	d.log.Debug().Str("tool", name).Msg("dispatcher: herramienta elegida")
	return tool.Run(ctx, input)
}
