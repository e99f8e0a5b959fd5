package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/config"
	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/rpgo/retirement-runway/internal/output"
)

type simulateOptions struct {
	configPath string
	scenario   string
	format     string
	outputDir  string
	months     int
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the 30-year runway projection",
		Long: `Run the monthly projection for the configured household and print a report.

Without --config the stored settings (see "runway config import") are used.
Stress scenarios: ` + strings.Join(scenarioIDs(), ", ") + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "Stress scenario to apply")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "console", "Report format ("+strings.Join(output.AvailableFormatterNames(), ", ")+", all)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Write the report to a timestamped file in this directory instead of stdout")
	cmd.Flags().IntVar(&opts.months, "months", 0, "Single pass of this many months (1-1200) instead of the standard run")
	return cmd
}

func scenarioIDs() []string {
	ids := make([]string, 0, len(calculation.Scenarios))
	for _, s := range calculation.Scenarios {
		ids = append(ids, strings.ToLower(s))
	}
	return ids
}

func runSimulate(cmd *cobra.Command, root *rootOptions, opts *simulateOptions) error {
	logger := root.logger(cmd.ErrOrStderr())
	parser := config.NewInputParser()

	cfg, err := root.loadConfiguration(parser, opts.configPath)
	if err != nil {
		return err
	}
	assets, params, err := parser.BuildParams(cfg)
	if err != nil {
		return fmt.Errorf("cannot simulate: %w", err)
	}
	if opts.scenario != "" {
		params = calculation.NewStressTestEngine().ApplyScenario(params, opts.scenario)
		logger.Info().Str("scenario", params.ActiveStressScenario).Msg("stress scenario applied")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	engine := calculation.NewProjectionEngine(nil, nil, nil, calculation.NewZerologLogger(logger))
	var result *domain.SimulationResult
	if opts.months > 0 {
		result, err = engine.RunMonths(ctx, assets, params, opts.months)
	} else {
		result, err = engine.Run30YearSimulation(ctx, assets, params)
	}
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	result.Assumptions = output.GenerateAssumptions(params)

	if opts.outputDir != "" {
		paths, err := output.GenerateReport(result, opts.format, opts.outputDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", p)
		}
		return nil
	}

	f := output.GetFormatterByName(opts.format)
	if f == nil {
		return fmt.Errorf("%w: %q. Try one of: %s", output.ErrUnsupportedFormat, opts.format, strings.Join(output.AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
