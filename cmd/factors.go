package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"golang-quant/internal/dto"
	"golang-quant/internal/service"
)

var (
	factorSymbols []string
	factorFreq    string
)

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Recalculate factors from the stored fundamentals and prices",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, services *service.Service) (dto.BatchResult, error) {
			return services.FactorService.Calculate(ctx, dto.CalculateFactorsParam{
				Symbols: factorSymbols,
				Freq:    factorFreq,
			})
		})
	},
}

func init() {
	factorsCmd.Flags().StringSliceVar(&factorSymbols, "symbols", nil, "symbols to process, defaults to all stored fundamentals")
	factorsCmd.Flags().StringVar(&factorFreq, "freq", "", "frequency scope (annual or quarterly), defaults to both")
}
