package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/output"
)

func newFrictionCmd() *cobra.Command {
	var sell, costBasis, price string
	cmd := &cobra.Command{
		Use:   "friction",
		Short: "Estimate the tax cost of selling corporate holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]decimal.Decimal, 3)
			for i, raw := range []string{sell, costBasis, price} {
				if raw == "" {
					continue
				}
				v, err := decimal.NewFromString(raw)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", raw, err)
				}
				values[i] = v
			}
			cost := calculation.NewRebalanceEngine().FrictionCost(values[0], values[1], values[2])
			fmt.Fprintf(cmd.OutOrStdout(), "Selling %s costs about %s in corporate tax\n",
				output.FormatCurrency(values[0]), output.FormatCurrency(cost))
			return nil
		},
	}
	cmd.Flags().StringVar(&sell, "sell", "", "Amount to sell")
	cmd.Flags().StringVar(&costBasis, "cost-basis", "", "Cost basis of the position")
	cmd.Flags().StringVar(&price, "price", "", "Current price")
	_ = cmd.MarkFlagRequired("sell")
	return cmd
}
