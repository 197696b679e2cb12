package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/andresuchdata/safetystock-sim/internal/config"
	"github.com/andresuchdata/safetystock-sim/internal/domain"
	"github.com/andresuchdata/safetystock-sim/internal/render"
	"github.com/andresuchdata/safetystock-sim/internal/scenario"
	"github.com/andresuchdata/safetystock-sim/internal/simulation"
	"github.com/andresuchdata/safetystock-sim/pkg/logger"
	"github.com/urfave/cli/v2"
)

var errStatusReached = errors.New("stock status threshold reached")

func newApp() *cli.App {
	return &cli.App{
		Name:  "simctl",
		Usage: "Project weekly stock levels against a safety stock threshold",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Derive a trajectory from flags and/or a scenario file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "scenario",
						Aliases: []string{"s"},
						Usage:   "YAML scenario file; flags override its values",
						EnvVars: []string{"SIM_SCENARIO"},
					},
					&cli.IntFlag{
						Name:  "demand",
						Usage: "Weekly demand in units",
					},
					&cli.IntFlag{
						Name:  "safety-weeks",
						Usage: "Safety stock expressed in weeks of demand",
					},
					&cli.IntFlag{
						Name:  "initial-stock",
						Usage: "Stock on hand at week 1",
					},
					&cli.IntSliceFlag{
						Name:  "receiving",
						Usage: "Inbound quantity per week, one value per week",
					},
					&cli.IntFlag{
						Name:  "receiving-all",
						Usage: "Inbound quantity applied to every week",
					},
					&cli.StringFlag{
						Name:    "fail-on",
						Usage:   "Exit with an error when the status is this bad or worse (stockout, below_safety or a label)",
						EnvVars: []string{"SIM_FAIL_ON"},
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text or json",
						Value:   "text",
						EnvVars: []string{"SIM_OUTPUT_FORMAT"},
					},
				},
				Action: runSimulation,
			},
			{
				Name:  "template",
				Usage: "Print a scenario file populated with the configured defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Scenario name",
						Value: "baseline",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: writeTemplate,
			},
		},
	}
}

func runSimulation(c *cli.Context) error {
	format := c.String("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q, want text or json", format)
	}

	var failOn domain.StockStatus
	if raw := c.String("fail-on"); raw != "" {
		status, ok := domain.ParseStockStatus(raw)
		if !ok {
			return fmt.Errorf("unknown status %q for --fail-on", raw)
		}
		failOn = status
	}

	limits, defaults, err := simulationSettings()
	if err != nil {
		return err
	}
	h := simulation.NewHolder(limits, defaults)

	if path := c.String("scenario"); path != "" {
		file, err := scenario.Load(path)
		if err != nil {
			return err
		}
		if err := file.Apply(h); err != nil {
			return fmt.Errorf("apply scenario %s: %w", path, err)
		}
	}

	if err := scenarioFromFlags(c).Apply(h); err != nil {
		return fmt.Errorf("apply flags: %w", err)
	}

	inputs := h.Inputs()
	derivation, err := simulation.NewEngine(limits.Weeks).Derive(inputs)
	if err != nil {
		return err
	}

	notices := h.DrainNotices()
	for _, n := range notices {
		logger.Log.Warn().Str("field", n.Field).Int("requested", n.Requested).Int("applied", n.Applied).Msg("input clamped")
	}
	view := simulation.BuildView("", h.Version(), inputs, h.Chart(), derivation, notices)

	if format == "json" {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		err = enc.Encode(view)
	} else {
		_, err = fmt.Fprintln(c.App.Writer, render.Report(view))
	}
	if err != nil {
		return err
	}

	if failOn != "" && view.Status.AtLeast(failOn) {
		return fmt.Errorf("%w: %s (lowest stock %d)", errStatusReached, view.StatusLabel, view.MinStockLevel)
	}
	return nil
}

func writeTemplate(c *cli.Context) error {
	limits, defaults, err := simulationSettings()
	if err != nil {
		return err
	}
	file := scenario.Template(c.String("name"), simulation.NewHolder(limits, defaults).Inputs())

	out := c.String("out")
	if out == "" {
		return scenario.Write(c.App.Writer, file)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := scenario.Write(f, file); err != nil {
		return err
	}
	logger.Log.Info().Str("path", out).Msg("scenario template written")
	return nil
}

// scenarioFromFlags collects only the flags the user actually set.
func scenarioFromFlags(c *cli.Context) *scenario.File {
	file := &scenario.File{}
	if c.IsSet("demand") {
		v := c.Int("demand")
		file.WeeklyDemand = &v
	}
	if c.IsSet("safety-weeks") {
		v := c.Int("safety-weeks")
		file.SafetyStockWeeks = &v
	}
	if c.IsSet("initial-stock") {
		v := c.Int("initial-stock")
		file.InitialStock = &v
	}
	if c.IsSet("receiving-all") {
		v := c.Int("receiving-all")
		file.ReceivingAll = &v
	}
	if c.IsSet("receiving") {
		file.WeeklyReceiving = c.IntSlice("receiving")
	}
	return file
}

func simulationSettings() (domain.Limits, domain.Defaults, error) {
	cfg := config.Load()
	limits := cfg.Simulation.Limits()
	if err := limits.Validate(); err != nil {
		return domain.Limits{}, domain.Defaults{}, err
	}
	return limits, cfg.Simulation.Defaults(), nil
}
