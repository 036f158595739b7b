// Package agent expone las operaciones de bodega como herramientas de texto
// (string in / string out) para el agente conversacional, y contiene el
// enrutador por reglas y el bucle ReAct contra el LLM.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrToolAlreadyRegistered se devuelve al registrar dos herramientas con el mismo nombre.
var ErrToolAlreadyRegistered = errors.New("herramienta ya registrada")

// RunFunc ejecuta una herramienta. Nunca devuelve error: los fallos se
// traducen a texto para que el agente siempre tenga algo que mostrar.
type RunFunc func(ctx context.Context, input string) string

// Tool operación con nombre expuesta al agente.
type Tool struct {
	Name        string
	Description string
	Run         RunFunc
}

// Registry conjunto ordenado de herramientas con nombres únicos.
type Registry struct {
	tools []Tool
	index map[string]int
}

// NewEmptyRegistry crea un registro sin herramientas.
func NewEmptyRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register agrega una herramienta al final del registro.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" || t.Run == nil {
		return fmt.Errorf("herramienta inválida: nombre y función son obligatorios")
	}
	if _, ok := r.index[t.Name]; ok {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, t.Name)
	}
	r.index[t.Name] = len(r.tools)
	r.tools = append(r.tools, t)
	return nil
}

// MustRegister igual que Register pero entra en pánico; solo para el armado inicial.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get busca por nombre exacto y, si no existe, sin distinguir mayúsculas.
func (r *Registry) Get(name string) (Tool, bool) {
	name = strings.TrimSpace(name)
	if i, ok := r.index[name]; ok {
		return r.tools[i], true
	}
	for _, t := range r.tools {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Tool{}, false
}

// All devuelve una copia de las herramientas en orden de registro.
func (r *Registry) All() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names devuelve los nombres en orden de registro.
func (r *Registry) Names() []string {
	out := make([]string, len(r.tools))
	for i, t := range r.tools {
		out[i] = t.Name
	}
	return out
}

// Describe lista "nombre: descripción", una por línea, para el prompt del sistema.
func (r *Registry) Describe() string {
	var b strings.Builder
	for _, t := range r.tools {
		fmt.Fprintf(&b, "%s: %s\n", t.Name, t.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
