// SmartSteel CLI - alloy design and dosing workbench
//
// Usage:
//   smartsteel design --element C=0.25 --element Cr=1.0 --melt-mass 10 --export
//   smartsteel serve --port 5000
//   smartsteel optimize --target-strength 600
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	srv "smartsteel/api"
	"smartsteel/internal/client"
	"smartsteel/internal/composition"
	"smartsteel/internal/dosing"
	"smartsteel/internal/furnace"
	"smartsteel/internal/history"
	"smartsteel/internal/inventory"
	"smartsteel/internal/reconcile"
	"smartsteel/internal/research"
	"smartsteel/internal/workflow"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.App{
		Name:    "smartsteel",
		Usage:   "Alloy design, dosing and inventory reconciliation workbench",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   client.DefaultBaseURL,
				Usage:   "SmartSteel service base URL",
				EnvVars: []string{"SMARTSTEEL_API_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"SMARTSTEEL_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},

		Commands: []*cli.Command{
			designCommand(),
			serveCommand(),
			inventoryCommand(),
			optimizeCommand(),
			researchCommand(),
			ingestCommand(),
			historyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// DESIGN COMMAND
// =============================================================================

func designCommand() *cli.Command {
	return &cli.Command{
		Name:  "design",
		Usage: "Calculate properties and dosing for a target composition",
		Flags: append(historyFlags(),
			&cli.StringSliceFlag{
				Name:    "element",
				Aliases: []string{"e"},
				Usage:   "Element override as SYMBOL=PERCENT (repeatable)",
			},
			&cli.Float64Flag{
				Name:    "melt-mass",
				Aliases: []string{"m"},
				Value:   10,
				Usage:   "Melt mass in tons",
			},
			&cli.BoolFlag{
				Name:  "export",
				Usage: "Write the experiment plan file after calculating",
			},
			&cli.StringFlag{
				Name:  "out",
				Value: ".",
				Usage: "Directory for the exported experiment plan",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
			&cli.BoolFlag{
				Name:    "record",
				Usage:   "Record the run in the experiment history (ClickHouse)",
				EnvVars: []string{"SMARTSTEEL_RECORD_HISTORY"},
			},
		),
		Action: runDesign,
	}
}

func runDesign(c *cli.Context) error {
	ctx := context.Background()

	model := composition.Default()
	model.SetMeltMass(c.Float64("melt-mass"))
	for _, arg := range c.StringSlice("element") {
		symbol, value, err := parseElementFlag(arg)
		if err != nil {
			return err
		}
		model.SetElement(symbol, value)
	}

	svc := client.New(c.String("api-url"))
	session := workflow.NewSession(model, svc, svc)

	result := session.Calculate(ctx)
	switch result.State {
	case workflow.StateFailed:
		return fmt.Errorf("calculation failed at %s stage: %w", result.FailedStage, result.Err)
	case workflow.StateDiscarded:
		return fmt.Errorf("calculation superseded by a newer request")
	}

	vm := session.ViewModel()
	if c.String("format") == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(vm); err != nil {
			return err
		}
	} else {
		printViewModel(vm)
	}

	// Planning extras: furnace energy and raw material cost for the melt.
	energyKWh, co2Tons := furnace.Estimate(model.MeltMassTons() * 1000)
	cost := dosing.AlloyCost(dosing.PlanMasses(result.Dosing), nil)
	log.Info().
		Float64("energy_kwh", energyKWh).
		Float64("co2_tons", co2Tons).
		Str("alloy_cost", cost.Total.StringFixed(2)).
		Msg("Melt estimates")

	if c.Bool("export") {
		path, err := session.ExportReport(c.String("out"))
		if err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("Experiment plan exported")
	}

	if c.Bool("record") {
		if err := recordRun(ctx, c, session, c.Bool("export")); err != nil {
			// History is an audit convenience, not part of the workflow.
			log.Warn().Err(err).Msg("Failed to record experiment run")
		}
	}

	return nil
}

func parseElementFlag(arg string) (string, float64, error) {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid --element %q, want SYMBOL=PERCENT", arg)
	}
	value, ok := composition.ParseValue(parts[1])
	if !ok {
		return "", 0, fmt.Errorf("invalid --element value %q", parts[1])
	}
	return strings.TrimSpace(parts[0]), value, nil
}

func printViewModel(vm reconcile.ViewModel) {
	if vm.Predicted != nil {
		fmt.Println("\nPREDICTED PROPERTIES")
		fmt.Printf("  Tensile Strength: %g MPa\n", vm.Predicted.TensileStrength)
		fmt.Printf("  Hardness:         %g HV\n", vm.Predicted.Hardness)
		fmt.Printf("  Corrosion Rate:   %g mm/yr\n", vm.Predicted.CorrosionRate)
		fmt.Printf("  Density:          %g g/cm³\n", vm.Predicted.Density)
	}

	fmt.Println("\nCOMPOSITION (Target vs Actual/100)")
	for _, p := range vm.Chart {
		fmt.Printf("  %-4s target %-8g actual %g\n", p.Name, p.Target, p.Actual)
	}

	if len(vm.Rows) > 0 {
		fmt.Println("\nDOSING PLAN")
		fmt.Printf("  %-7s %-12s %-12s %-13s %-24s %s\n",
			"Element", "Target (kg)", "Recovery", "Required (kg)", "Material", "Status")
		for _, row := range vm.Rows {
			fmt.Printf("  %-7s %-12g %-12g %-13g %-24s %s\n",
				row.Element, row.TargetMassKg, row.RecoveryRate, row.RequiredDosingKg,
				row.Material, row.Status)
		}
	}
	fmt.Println()
}

func recordRun(ctx context.Context, c *cli.Context, session *workflow.Session, exported bool) error {
	store, err := history.NewStore(historyConfig(c))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	predicted, dosingRows := session.Results()
	run := history.Run{
		Composition:  session.Model().Composition(),
		MeltMassTons: session.Model().MeltMassTons(),
		DosingRows:   int32(len(dosingRows)),
		Exported:     exported,
	}
	if predicted != nil {
		run.TensileStrength = predicted.TensileStrength
		run.Hardness = predicted.Hardness
		run.CorrosionRate = predicted.CorrosionRate
		run.Density = predicted.Density
	}
	return store.Record(ctx, run)
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the SmartSteel service",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   5000,
				Usage:   "Service port",
				EnvVars: []string{"SMARTSTEEL_PORT"},
			},
			&cli.StringFlag{
				Name:    "inventory-dsn",
				Usage:   "Plant database DSN (postgres://...); empty selects the seeded in-memory store",
				EnvVars: []string{"SMARTSTEEL_INVENTORY_DSN"},
			},
			&cli.StringFlag{
				Name:    "docs",
				Usage:   "Knowledge-base documents directory to index at startup",
				EnvVars: []string{"SMARTSTEEL_DOCS_DIR"},
			},
			&cli.StringFlag{
				Name:    "index",
				Usage:   "Prebuilt knowledge-base index file (overrides --docs)",
				EnvVars: []string{"SMARTSTEEL_INDEX_FILE"},
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	ctx := context.Background()

	var store inventory.Store
	if dsn := c.String("inventory-dsn"); dsn != "" {
		pg, err := inventory.NewPostgresStore(dsn)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		store = pg
		log.Info().Msg("Using plant database inventory")
	} else {
		store = inventory.NewMemoryStore()
		log.Info().Msg("Using seeded in-memory inventory")
	}

	server := srv.NewServer(store, &srv.Config{
		Port:         c.Int("port"),
		ReadTimeout:  srv.DefaultConfig().ReadTimeout,
		WriteTimeout: srv.DefaultConfig().WriteTimeout,
	})

	if engine, err := loadResearch(c); err != nil {
		log.Warn().Err(err).Msg("Knowledge base unavailable")
	} else if engine != nil {
		server.WithResearch(engine)
		log.Info().Int("chunks", engine.Chunks()).Msg("Knowledge base loaded")
	}

	return server.Start()
}

func loadResearch(c *cli.Context) (*research.Engine, error) {
	if path := c.String("index"); path != "" {
		return research.Load(path)
	}
	if dir := c.String("docs"); dir != "" {
		return research.IngestDir(dir)
	}
	return nil, nil
}

// =============================================================================
// INVENTORY / OPTIMIZE / RESEARCH COMMANDS
// =============================================================================

func inventoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "inventory",
		Usage: "List the material inventory",
		Action: func(c *cli.Context) error {
			materials, err := client.New(c.String("api-url")).Inventory(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("%-8s %-26s %-8s %-8s %-10s %s\n",
				"ID", "Name", "Element", "Purity", "Recovery", "Stock (kg)")
			for _, m := range materials {
				fmt.Printf("%-8s %-26s %-8s %-8.2f %-10.2f %g\n",
					m.ID, m.Name, m.MainElement, m.Purity, m.Recovery, m.StockKg)
			}
			return nil
		},
	}
}

func optimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Search for the best composition against property targets",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "target-strength",
				Value: 600,
				Usage: "Tensile strength target (MPa)",
			},
			&cli.Float64Flag{
				Name:  "weight-strength",
				Value: 50,
				Usage: "Strength weight (0-100)",
			},
			&cli.Float64Flag{
				Name:  "weight-cost",
				Value: 50,
				Usage: "Cost weight (0-100)",
			},
		},
		Action: func(c *cli.Context) error {
			resp, err := client.New(c.String("api-url")).OptimizeAlloy(context.Background(),
				map[string]float64{"strength": c.Float64("target-strength")},
				map[string]float64{
					"strength": c.Float64("weight-strength"),
					"cost":     c.Float64("weight-cost"),
				})
			if err != nil {
				return err
			}
			fmt.Println("OPTIMIZED COMPOSITION")
			for el, v := range resp.OptimizedComposition {
				fmt.Printf("  %s: %g%%\n", el, v)
			}
			fmt.Println("PREDICTED PROPERTIES")
			fmt.Printf("  Tensile Strength: %g MPa\n", resp.PredictedProperties.TensileStrength)
			fmt.Printf("  Hardness:         %g HV\n", resp.PredictedProperties.Hardness)
			fmt.Printf("  Corrosion Rate:   %g mm/yr\n", resp.PredictedProperties.CorrosionRate)
			fmt.Printf("  Density:          %g g/cm³\n", resp.PredictedProperties.Density)
			return nil
		},
	}
}

func researchCommand() *cli.Command {
	return &cli.Command{
		Name:      "research",
		Usage:     "Ask the metallurgy knowledge base a question",
		ArgsUsage: "<question>",
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				return fmt.Errorf("a question is required")
			}
			answer, results, err := client.New(c.String("api-url")).ResearchQuery(context.Background(), query)
			if err != nil {
				return err
			}
			fmt.Println(answer)
			for _, r := range results {
				log.Debug().Str("source", r.Source).Float64("score", r.Score).Msg("Source chunk")
			}
			return nil
		},
	}
}

// =============================================================================
// INGEST COMMAND
// =============================================================================

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Build the knowledge-base index from a documents directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "docs",
				Usage:    "Documents directory (*.txt)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "index",
				Value: "knowledge_index.json",
				Usage: "Output index file",
			},
		},
		Action: func(c *cli.Context) error {
			engine, err := research.IngestDir(c.String("docs"))
			if err != nil {
				return err
			}
			if err := engine.Save(c.String("index")); err != nil {
				return err
			}
			log.Info().
				Int("chunks", engine.Chunks()).
				Str("index", c.String("index")).
				Msg("Ingestion complete")
			return nil
		},
	}
}

// =============================================================================
// HISTORY COMMAND
// =============================================================================

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent experiment runs",
		Flags: append(historyFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "Maximum runs to list",
			}),
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			store, err := history.NewStore(historyConfig(c))
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(ctx, c.Int("limit"))
			if err != nil {
				return err
			}
			for _, run := range runs {
				comp, _ := json.Marshal(run.Composition)
				fmt.Printf("%s  %s  melt %gt  strength %g MPa  rows %d  exported %v  %s\n",
					run.RunAt.Format("2006-01-02 15:04:05"), run.ID, run.MeltMassTons,
					run.TensileStrength, run.DosingRows, run.Exported, comp)
			}
			return nil
		},
	}
}

func historyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "clickhouse-host",
			Value:   "localhost",
			Usage:   "ClickHouse host",
			EnvVars: []string{"CLICKHOUSE_HOST"},
		},
		&cli.IntFlag{
			Name:    "clickhouse-port",
			Value:   9000,
			Usage:   "ClickHouse native port",
			EnvVars: []string{"CLICKHOUSE_PORT"},
		},
		&cli.StringFlag{
			Name:    "clickhouse-database",
			Value:   "smartsteel",
			Usage:   "ClickHouse database",
			EnvVars: []string{"CLICKHOUSE_DATABASE"},
		},
		&cli.StringFlag{
			Name:    "clickhouse-user",
			Value:   "default",
			Usage:   "ClickHouse user",
			EnvVars: []string{"CLICKHOUSE_USER"},
		},
		&cli.StringFlag{
			Name:    "clickhouse-password",
			Value:   "",
			Usage:   "ClickHouse password",
			EnvVars: []string{"CLICKHOUSE_PASSWORD"},
		},
	}
}

func historyConfig(c *cli.Context) *history.Config {
	return &history.Config{
		Host:     c.String("clickhouse-host"),
		Port:     c.Int("clickhouse-port"),
		Database: c.String("clickhouse-database"),
		Username: c.String("clickhouse-user"),
		Password: c.String("clickhouse-password"),
	}
}
