package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/config"
	"github.com/rpgo/retirement-runway/internal/output"
)

func newCompareCmd(root *rootOptions) *cobra.Command {
	var (
		configPath string
		assetsFlag string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare corporate and personal holding of the corporate assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			cfg, err := root.loadConfiguration(parser, configPath)
			if err != nil {
				return err
			}
			assets, params, err := parser.BuildParams(cfg)
			if err != nil {
				return fmt.Errorf("cannot compare: %w", err)
			}

			base := assets.Corp
			if assetsFlag != "" {
				base, err = decimal.NewFromString(assetsFlag)
				if err != nil {
					return fmt.Errorf("invalid --assets %q: %w", assetsFlag, err)
				}
			}

			cmp := calculation.NewTaxEngine(params.Tax).CompareParams(base, params)
			if asJSON {
				data, err := json.MarshalIndent(cmp, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			_, err = cmd.OutOrStdout().Write(output.FormatEntityComparison(cmp))
			return err
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (YAML or JSON)")
	cmd.Flags().StringVar(&assetsFlag, "assets", "", "Asset base to compare (defaults to the corporate assets)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the comparison as JSON")
	return cmd
}
