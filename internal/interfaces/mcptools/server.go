// Package mcptools publica las herramientas del agente de bodega como un
// servidor MCP: cada herramienta recibe un único argumento de texto "input" y
// devuelve texto, igual que cuando la invoca el agente.
package mcptools

import (
	"context"

	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolAsk herramienta extra que delega la pregunta completa al agente.
const ToolAsk = "ask"

const instructions = "Warehouse assistant tools. Every tool takes a single string argument named input " +
	"and returns plain text. Use stock_by_sku before answering stock questions; never guess quantities."

// Definition construye la definición MCP de una herramienta del registro.
func Definition(t agent.Tool) mcp.Tool {
	return mcp.NewTool(t.Name,
		mcp.WithDescription(t.Description),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("Tool input as described above (plain text or JSON). May be empty for tools that ask back."),
		),
	)
}

// Handler adapta RunFunc a la firma de mcp-go. Las herramientas nunca fallan:
// cualquier problema ya viene como texto.
func Handler(t agent.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(t.Run(ctx, req.GetString("input", ""))), nil
	}
}

// NewServer registra todas las herramientas. Con a != nil agrega también "ask".
func NewServer(registry *agent.Registry, a *agent.Agent, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"smart-warehouse",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	for _, t := range registry.All() {
		s.AddTool(Definition(t), Handler(t))
	}
	if a != nil {
		s.AddTool(askDefinition(), askHandler(a))
	}
	return s
}

func askDefinition() mcp.Tool {
	return mcp.NewTool(ToolAsk,
		mcp.WithDescription("Ask the warehouse assistant a question in natural language; it picks and runs the right tools."),
		mcp.WithString("input", mcp.Required(), mcp.Description("The question")),
	)
}

func askHandler(a *agent.Agent) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		answer, err := a.Ask(ctx, req.GetString("input", ""))
		if err != nil {
			return mcp.NewToolResultError(answer), nil
		}
		return mcp.NewToolResultText(answer), nil
	}
}
