package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Errores de extracción; las herramientas los traducen a preguntas o mensajes fijos.
var (
	errMalformedInput    = errors.New("entrada estructurada mal formada")
	errUnrecognizedInput = errors.New("entrada no reconocida")
)

// looksStructured indica si el texto pretende ser JSON.
func looksStructured(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// cleanInput recorta espacios, comillas y backticks que suelen agregar los LLM.
func cleanInput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// decodeObject decodifica un objeto JSON. ok=false si no es JSON;
// err != nil si parece JSON pero no se puede leer.
func decodeObject(s string) (map[string]any, bool, error) {
	if !looksStructured(s) {
		return nil, false, nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, true, errMalformedInput
	}
	return obj, true, nil
}

// pick devuelve el primer valor no vacío entre las claves dadas, como texto.
func pick(obj map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch x := v.(type) {
		case string:
			s = strings.TrimSpace(x)
		case float64:
			s = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(x)
		default:
			s = strings.TrimSpace(fmt.Sprint(x))
		}
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// parseQuantity acepta enteros con signo; rechaza decimales.
func parseQuantity(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	// 2^63 ya no cabe; la conversión fuera de rango depende de la plataforma.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

// MovementArgs argumentos de record_inbound / record_outbound.
type MovementArgs struct {
	SKU         string
	Quantity    int64
	QuantitySet bool
	Warehouse   string
	Actor       string
	Note        string
}

// Missing devuelve el primer campo obligatorio ausente ("" si están todos).
func (a MovementArgs) Missing() string {
	switch {
	case a.SKU == "":
		return "SKU"
	case !a.QuantitySet:
		return "quantity"
	case a.Warehouse == "":
		return "warehouse"
	case a.Actor == "":
		return "actor"
	}
	return ""
}

var movementChain = Chain[MovementArgs]{
	MatcherFunc[MovementArgs](matchMovementJSON),
	MatcherFunc[MovementArgs](matchMovementPositional),
	MatcherFunc[MovementArgs](matchMovementPattern),
	MatcherFunc[MovementArgs](matchMovementKeywords),
}

// ParseMovementArgs resuelve la entrada con la cadena JSON -> posicional -> patrón -> palabras clave.
// Un JSON inválido corta la cadena con errMalformedInput.
func ParseMovementArgs(input string) (MovementArgs, error) {
	input = cleanInput(input)
	if input == "" {
		return MovementArgs{}, nil
	}
	if _, structured, err := decodeObject(input); structured && err != nil {
		return MovementArgs{}, err
	}
	args, ok := movementChain.Resolve(input)
	if !ok {
		return MovementArgs{}, errUnrecognizedInput
	}
	return args, nil
}

func matchMovementJSON(input string) (MovementArgs, bool) {
	obj, structured, err := decodeObject(input)
	if !structured || err != nil {
		return MovementArgs{}, false
	}
	var a MovementArgs
	a.SKU, _ = pick(obj, "sku")
	if q, ok := pick(obj, "qty", "quantity"); ok {
		a.Quantity, a.QuantitySet = parseQuantity(q)
	}
	a.Warehouse, _ = pick(obj, "wh", "warehouse")
	a.Actor, _ = pick(obj, "by", "actor")
	a.Note, _ = pick(obj, "note")
	return a, true
}

// matchMovementPositional "sku, qty, wh, by[, note]"; la nota puede contener comas.
func matchMovementPositional(input string) (MovementArgs, bool) {
	if looksStructured(input) {
		return MovementArgs{}, false
	}
	raw := strings.Split(input, ",")
	if len(raw) < 4 {
		return MovementArgs{}, false
	}
	parts := make([]string, len(raw))
	for i := range raw {
		parts[i] = strings.TrimSpace(raw[i])
	}
	qty, ok := parseQuantity(parts[1])
	if !ok {
		return MovementArgs{}, false
	}
	a := MovementArgs{
		SKU:         parts[0],
		Quantity:    qty,
		QuantitySet: true,
		Warehouse:   parts[2],
		Actor:       parts[3],
	}
	if len(parts) > 4 {
		a.Note = strings.TrimSpace(strings.Join(raw[4:], ","))
	}
	if strings.ContainsAny(a.SKU, " \t") || strings.ContainsAny(a.Warehouse, " \t") {
		return MovementArgs{}, false
	}
	return a, true
}

// movementPattern frases del tipo "receive 10 of sku A1 into warehouse W1 by bob, note x"
// o "nhap 10 SP001 vao kho WH01 boi student01" (sobre texto sin tildes).
var movementPattern = regexp.MustCompile(`(?i)^\s*(?:(?:please\s+)?(?:receive|received|record|add|inbound|ship|shipped|send|outbound|dispatch|nhap(?:\s+kho)?|xuat(?:\s+kho)?)\s+)?` +
	`(?:(?:qty|quantity|so luong)\s+)?(-?\d+)\s*(?:units?|pcs|ea|cai|items?)?\s+(?:of\s+)?(?:(?:sku|ma)\s+)?([a-z0-9][\w-]*)\s+` +
	`(?:into|to|in|from|out of|vao|tu)\s+(?:the\s+)?(?:(?:warehouse|wh|kho)\s+)?([a-z0-9][\w-]*)\s+` +
	`(?:by|boi)\s+(?:actor\s+)?([^,]+?)\s*(?:,\s*(?:(?:note|ghi chu)\s*:?\s*)?(.*?))?\s*$`)

func matchMovementPattern(input string) (MovementArgs, bool) {
	m := findRaw(movementPattern, input)
	if m == nil {
		return MovementArgs{}, false
	}
	qty, ok := parseQuantity(m[1])
	if !ok {
		return MovementArgs{}, false
	}
	return MovementArgs{
		SKU:         m[2],
		Quantity:    qty,
		QuantitySet: true,
		Warehouse:   m[3],
		Actor:       strings.TrimSpace(m[4]),
		Note:        strings.TrimSpace(m[5]),
	}, true
}

// Códigos internos de la bodega (SP001, WH01, student01) y cantidades con unidad.
var (
	skuCodePattern       = regexp.MustCompile(`(?i)\bSP\d{3}\b`)
	warehouseCodePattern = regexp.MustCompile(`(?i)\bWH\d{2}\b`)
	actorCodePattern     = regexp.MustCompile(`(?i)\bstudent\d{2}\b`)
	unitQtyPattern       = regexp.MustCompile(`(?i)\b(\d+)\s*(?:cai|ea|pcs|units?)\b`)
)

// matchMovementKeywords reconoce mensajes sueltos con códigos; exige al menos SKU y cantidad
// para que el resto se pregunte como dato faltante.
func matchMovementKeywords(input string) (MovementArgs, bool) {
	sku := findRawString(skuCodePattern, input)
	q := findRaw(unitQtyPattern, input)
	if sku == "" || q == nil {
		return MovementArgs{}, false
	}
	qty, ok := parseQuantity(q[1])
	if !ok {
		return MovementArgs{}, false
	}
	return MovementArgs{
		SKU:         strings.ToUpper(sku),
		Quantity:    qty,
		QuantitySet: true,
		Warehouse:   strings.ToUpper(findRawString(warehouseCodePattern, input)),
		Actor:       strings.ToLower(findRawString(actorCodePattern, input)),
	}, true
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtros
// ──────────────────────────────────────────────────────────────────────────────

// FilterArgs filtros opcionales con claves canónicas:
// sku, name, warehouse, actor, assignee, status, limit.
type FilterArgs map[string]string

// Limit devuelve el límite pedido o def si no hay uno válido.
func (f FilterArgs) Limit(def int) int {
	if n, err := strconv.Atoi(f["limit"]); err == nil && n > 0 {
		return n
	}
	return def
}

var filterAliases = map[string]string{
	"sku":       "sku",
	"ma":        "sku",
	"name":      "name",
	"ten":       "name",
	"wh":        "warehouse",
	"warehouse": "warehouse",
	"kho":       "warehouse",
	"by":        "actor",
	"actor":     "actor",
	"boi":       "actor",
	"assignee":  "assignee",
	"status":    "status",
	"limit":     "limit",
}

var filterChain = Chain[FilterArgs]{
	MatcherFunc[FilterArgs](matchFilterJSON),
	MatcherFunc[FilterArgs](matchFilterPairs),
	MatcherFunc[FilterArgs](matchFilterWords),
	MatcherFunc[FilterArgs](matchFilterKeywords),
}

// ParseFilterArgs resuelve filtros. Vacío, "all" o "{}" significan sin filtros.
func ParseFilterArgs(input string) (FilterArgs, error) {
	input = cleanInput(input)
	switch strings.ToLower(input) {
	case "", "all", "*", "none", "{}":
		return FilterArgs{}, nil
	}
	if _, structured, err := decodeObject(input); structured && err != nil {
		return nil, err
	}
	f, ok := filterChain.Resolve(input)
	if !ok {
		return nil, errUnrecognizedInput
	}
	return f, nil
}

func matchFilterJSON(input string) (FilterArgs, bool) {
	obj, structured, err := decodeObject(input)
	if !structured || err != nil {
		return nil, false
	}
	f := FilterArgs{}
	for k := range obj {
		canon, ok := filterAliases[strings.ToLower(k)]
		if !ok {
			continue
		}
		if v, ok := pick(obj, k); ok {
			f[canon] = v
		}
	}
	return f, true
}

var filterPairPattern = regexp.MustCompile(`(?i)\b([a-z]+)\s*[:=]\s*("[^"]*"|'[^']*'|[^,;\s]+)`)

func matchFilterPairs(input string) (FilterArgs, bool) {
	return collectFilters(filterPairPattern, input)
}

var filterWordPattern = regexp.MustCompile(`(?i)\b(sku|ma|name|ten|warehouse|wh|kho|by|actor|boi|assignee|status|limit)\s+("[^"]*"|[^,;\s]+)`)

func matchFilterWords(input string) (FilterArgs, bool) {
	return collectFilters(filterWordPattern, input)
}

func collectFilters(re *regexp.Regexp, text string) (FilterArgs, bool) {
	f := FilterArgs{}
	for _, m := range findAllRaw(re, text) {
		canon, ok := filterAliases[strings.ToLower(Fold(m[1]))]
		if !ok {
			continue
		}
		f[canon] = strings.Trim(m[2], `"'`)
	}
	return f, len(f) > 0
}

func matchFilterKeywords(input string) (FilterArgs, bool) {
	f := FilterArgs{}
	if s := findRawString(skuCodePattern, input); s != "" {
		f["sku"] = strings.ToUpper(s)
	}
	if w := findRawString(warehouseCodePattern, input); w != "" {
		f["warehouse"] = strings.ToUpper(w)
	}
	if a := findRawString(actorCodePattern, input); a != "" {
		f["actor"] = strings.ToLower(a)
		f["assignee"] = strings.ToLower(a)
	}
	return f, len(f) > 0
}

// ──────────────────────────────────────────────────────────────────────────────
// SKU, tareas
// ──────────────────────────────────────────────────────────────────────────────

// SKUArgs argumentos de stock_by_sku / transaction_history.
type SKUArgs struct {
	SKU   string
	Limit int
}

var (
	skuWordPattern  = regexp.MustCompile(`(?i)\b(?:sku|ma)\s+([a-z0-9][\w-]*)`)
	skuAfterPattern = regexp.MustCompile(`(?i)\b(?:of|for|cua)\s+(?:item\s+|product\s+)?([a-z0-9][\w-]*)`)
	singleToken     = regexp.MustCompile(`^[A-Za-z0-9][\w-]*$`)
	skuLimitPattern = regexp.MustCompile(`^([A-Za-z0-9][\w-]*)\s*,\s*(\d+)$`)
)

var skuChain = Chain[SKUArgs]{
	MatcherFunc[SKUArgs](func(input string) (SKUArgs, bool) {
		obj, structured, err := decodeObject(input)
		if !structured || err != nil {
			return SKUArgs{}, false
		}
		var a SKUArgs
		a.SKU, _ = pick(obj, "sku")
		if l, ok := pick(obj, "limit"); ok {
			a.Limit, _ = strconv.Atoi(l)
		}
		return a, true
	}),
	MatcherFunc[SKUArgs](func(input string) (SKUArgs, bool) {
		if singleToken.MatchString(input) {
			return SKUArgs{SKU: input}, true
		}
		if m := skuLimitPattern.FindStringSubmatch(input); m != nil {
			n, _ := strconv.Atoi(m[2])
			return SKUArgs{SKU: m[1], Limit: n}, true
		}
		return SKUArgs{}, false
	}),
	MatcherFunc[SKUArgs](func(input string) (SKUArgs, bool) {
		if m := findRaw(skuWordPattern, input); m != nil {
			return SKUArgs{SKU: m[1]}, true
		}
		if s := findRawString(skuCodePattern, input); s != "" {
			return SKUArgs{SKU: strings.ToUpper(s)}, true
		}
		if m := findRaw(skuAfterPattern, input); m != nil {
			return SKUArgs{SKU: m[1]}, true
		}
		return SKUArgs{}, false
	}),
}

// ParseSKUArgs extrae el SKU (y un límite opcional).
// Sin entrada devuelve SKUArgs vacío para que la herramienta pregunte por el SKU.
func ParseSKUArgs(input string) (SKUArgs, error) {
	input = cleanInput(input)
	if input == "" {
		return SKUArgs{}, nil
	}
	if _, structured, err := decodeObject(input); structured && err != nil {
		return SKUArgs{}, err
	}
	a, ok := skuChain.Resolve(input)
	if !ok {
		return SKUArgs{}, errUnrecognizedInput
	}
	return a, nil
}

// AssignArgs argumentos de task_assign.
type AssignArgs struct {
	TaskID   string
	Assignee string
}

// Missing devuelve el primer campo obligatorio ausente.
func (a AssignArgs) Missing() string {
	switch {
	case a.TaskID == "":
		return "task ID"
	case a.Assignee == "":
		return "assignee"
	}
	return ""
}

var assignPattern = regexp.MustCompile(`(?i)^(?:assign|giao)\s+(?:(?:task|viec)\s+)?(\S+)\s+(?:to|cho)\s+(.+?)\s*$`)

var assignChain = Chain[AssignArgs]{
	MatcherFunc[AssignArgs](func(input string) (AssignArgs, bool) {
		obj, structured, err := decodeObject(input)
		if !structured || err != nil {
			return AssignArgs{}, false
		}
		var a AssignArgs
		a.TaskID, _ = pick(obj, "task_id", "id")
		a.Assignee, _ = pick(obj, "assignee", "to")
		return a, true
	}),
	MatcherFunc[AssignArgs](func(input string) (AssignArgs, bool) {
		parts := strings.Split(input, ",")
		if len(parts) != 2 || looksStructured(input) {
			return AssignArgs{}, false
		}
		return AssignArgs{TaskID: strings.TrimSpace(parts[0]), Assignee: strings.TrimSpace(parts[1])}, true
	}),
	MatcherFunc[AssignArgs](func(input string) (AssignArgs, bool) {
		m := findRaw(assignPattern, input)
		if m == nil {
			return AssignArgs{}, false
		}
		return AssignArgs{TaskID: m[1], Assignee: m[2]}, true
	}),
}

// ParseAssignArgs resuelve JSON {task_id, assignee}, "id, assignee" o "assign task X to Y".
func ParseAssignArgs(input string) (AssignArgs, error) {
	input = cleanInput(input)
	if input == "" {
		return AssignArgs{}, nil
	}
	if _, structured, err := decodeObject(input); structured && err != nil {
		return AssignArgs{}, err
	}
	a, ok := assignChain.Resolve(input)
	if !ok {
		return AssignArgs{}, errUnrecognizedInput
	}
	return a, nil
}

var completePattern = regexp.MustCompile(`(?i)^(?:(?:complete|finish|close|mark|hoan thanh)\s+)?(?:(?:task|viec)\s+)?(\S+?)(?:\s+(?:as\s+)?(?:done|complete|completed|finished))?\s*$`)

// ParseTaskID extrae el ID de la tarea a completar ("" si no hay).
func ParseTaskID(input string) (string, error) {
	input = cleanInput(input)
	obj, structured, err := decodeObject(input)
	if err != nil {
		return "", err
	}
	if structured {
		id, _ := pick(obj, "task_id", "id")
		return id, nil
	}
	if input == "" {
		return "", nil
	}
	m := findRaw(completePattern, input)
	if m == nil {
		return "", errUnrecognizedInput
	}
	return m[1], nil
}

var trailingNumber = regexp.MustCompile(`\b(\d+)\b`)

// parseLimit acepta un entero suelto, JSON {"limit": n} o el primer número del texto.
func parseLimit(input string, def int) int {
	input = cleanInput(input)
	if obj, structured, err := decodeObject(input); structured && err == nil {
		if l, ok := pick(obj, "limit"); ok {
			if n, err := strconv.Atoi(l); err == nil && n > 0 {
				return n
			}
		}
		return def
	}
	if m := trailingNumber.FindStringSubmatch(input); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return def
}
