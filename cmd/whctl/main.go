package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/smart-warehouse/internal/application/agent"
	"github.com/jhoicas/smart-warehouse/internal/application/dto"
	"github.com/jhoicas/smart-warehouse/internal/bootstrap"
	"github.com/jhoicas/smart-warehouse/internal/domain/repository"
	"github.com/jhoicas/smart-warehouse/internal/interfaces/mcptools"
	"github.com/jhoicas/smart-warehouse/pkg/config"
	"github.com/jhoicas/smart-warehouse/pkg/jwt"
	"github.com/jhoicas/smart-warehouse/pkg/logger"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "whctl",
	Short: "Smart warehouse CLI",
	Long: `whctl opera el almacén sin pasar por HTTP.
- stock / snapshots: consultas sobre el caché de inventario.
- rebuild: recalcula todos los snapshots desde el log de transacciones.
- ask: pregunta en lenguaje natural al agente (LLM o enrutador por reglas).
- token: emite un JWT de desarrollo para la API.
- mcp: expone las herramientas del agente como servidor MCP sobre stdio.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("WHCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("driver", "", "store driver (mongo, postgres, memory); overrides STORE_DRIVER")
	rootCmd.PersistentFlags().Bool("verbose", false, "log to stderr")
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("driver", rootCmd.PersistentFlags().Lookup("driver"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands() {
	rootCmd.AddCommand(stockCmd())
	rootCmd.AddCommand(snapshotsCmd())
	rootCmd.AddCommand(rebuildCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(mcpCmd())
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if d := viper.GetString("driver"); d != "" {
		cfg.Store.Driver = strings.ToLower(d)
	}
	return cfg, nil
}

// withApp abre el almacén, ejecuta fn y lo cierra.
func withApp(ctx context.Context, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Nop()
	if viper.GetBool("verbose") {
		log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})
	}
	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())
	return fn(ctx, app)
}

func stockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock <sku>",
		Short: "Recompute and show the stock of a SKU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				level, err := app.Stock.Recompute(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(dto.StockLevelFromEntity(level))
				}
				fmt.Printf("%s: %d %s\n", level.SKU, level.Quantity, level.UoM)
				return nil
			})
		},
	}
	return cmd
}

func snapshotsCmd() *cobra.Command {
	var name, warehouse string
	var limit int
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List inventory snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.Stock.Search(ctx, repository.SnapshotFilter{Name: name, Warehouse: warehouse, Limit: limit})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					out := make([]dto.SnapshotDTO, len(items))
					for i, s := range items {
						out[i] = dto.SnapshotFromEntity(s)
					}
					return printJSON(dto.NewListResponse(out))
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"SKU", "Name", "Qty", "UoM", "Warehouse", "Location", "Updated"})
				for _, s := range items {
					tw.AppendRow(table.Row{s.SKU, s.Name, s.Quantity, s.UnitOrDefault(), s.Warehouse, s.Location, s.UpdatedAt.UTC().Format("2006-01-02 15:04")})
				}
				tw.AppendFooter(table.Row{"", "Total", len(items)})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "partial product name")
	cmd.Flags().StringVar(&warehouse, "wh", "", "warehouse")
	cmd.Flags().IntVar(&limit, "limit", -1, "max rows (-1 = no limit)")
	return cmd
}

func rebuildCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild every snapshot from the transaction log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("rebuild rewrites every snapshot: pass --confirm to proceed")
			}
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				report, err := app.Rebuild.RebuildAll(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(dto.RebuildResponse{Message: agent.RebuildSummary(report), Report: report})
				}
				fmt.Println(agent.RebuildSummary(report))
				if len(report.Drift) == 0 {
					return nil
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"SKU", "Before", "After", "Missing"})
				for _, d := range report.Drift {
					tw.AppendRow(table.Row{d.SKU, d.Before, d.After, d.Missing})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm the rebuild")
	return cmd
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the warehouse agent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				answer, err := app.Agent.Ask(ctx, strings.Join(args, " "))
				if viper.GetBool("json") {
					if perr := printJSON(dto.AskResponse{Response: answer}); perr != nil {
						return perr
					}
				} else {
					fmt.Println(answer)
				}
				return err
			})
		},
	}
	return cmd
}

func tokenCmd() *cobra.Command {
	var actor, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development JWT for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT_SECRET is empty")
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, actor, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]string{"token": tok, "actor": actor, "role": role})
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "local-user", "actor recorded on transactions")
	cmd.Flags().StringVar(&role, "role", jwt.RoleOperator, "role (admin, operator)")
	return cmd
}

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the agent tools over MCP (stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				s := mcptools.NewServer(app.Tools, app.Agent, version)
				return server.ServeStdio(s)
			})
		},
	}
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
