package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"golang-quant/internal/dto"
	"golang-quant/internal/repository"
	"golang-quant/internal/service"
	"golang-quant/pkg/logger"
)

var (
	ingestSymbols   []string
	ingestTimeframe string
	ingestRange     string
	ingestFreq      string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion batch",
}

var ingestListingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Scrape the NYSE directory and store the listings",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, services *service.Service) (dto.BatchResult, error) {
			return services.IngestService.IngestListings(ctx)
		})
	},
}

var ingestProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Collect asset profiles for the stored listings",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, services *service.Service) (dto.BatchResult, error) {
			return services.IngestService.IngestProfiles(ctx, ingestSymbols)
		})
	},
}

var ingestPricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Fetch price bars and store them",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, services *service.Service) (dto.BatchResult, error) {
			return services.IngestService.IngestPrices(ctx, dto.IngestPricesParam{
				Symbols:   ingestSymbols,
				Timeframe: ingestTimeframe,
				Range:     ingestRange,
			})
		})
	},
}

var ingestFundamentalsCmd = &cobra.Command{
	Use:   "fundamentals",
	Short: "Fetch financial statements and store the snapshot rows",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, services *service.Service) (dto.BatchResult, error) {
			return services.IngestService.IngestFundamentals(ctx, dto.IngestFundamentalsParam{
				Symbols: ingestSymbols,
				Freq:    ingestFreq,
			})
		})
	},
}

func init() {
	ingestCmd.PersistentFlags().StringSliceVar(&ingestSymbols, "symbols", nil, "symbols to process, defaults to all stored listings")
	ingestPricesCmd.Flags().StringVar(&ingestTimeframe, "timeframe", "1d", "bar timeframe (1d or 1mo)")
	ingestPricesCmd.Flags().StringVar(&ingestRange, "range", "", "history range (1y, 2y, 5y, 10y, max); empty adapts to the stored history")
	ingestFundamentalsCmd.Flags().StringVar(&ingestFreq, "freq", "", "statement frequency (annual or quarterly), defaults to both")

	ingestCmd.AddCommand(ingestListingsCmd)
	ingestCmd.AddCommand(ingestProfilesCmd)
	ingestCmd.AddCommand(ingestPricesCmd)
	ingestCmd.AddCommand(ingestFundamentalsCmd)
}

// runBatch wires the dependency graph, runs one batch operation and
// logs the outcome.
func runBatch(fn func(ctx context.Context, services *service.Service) (dto.BatchResult, error)) {
	ctx := context.Background()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	repo, err := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log, appDep.cache)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}
	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.notifier)

	result, err := fn(ctx, services)
	if err != nil {
		appDep.log.Fatal("Batch failed", logger.ErrorField(err))
	}

	appDep.log.Info("Batch finished",
		logger.IntField("processed", result.Processed),
		logger.IntField("upserted", result.Upserted),
		logger.IntField("failed", len(result.Failures)),
	)
	for _, f := range result.Failures {
		appDep.log.Warn("Symbol failed",
			logger.StringField("symbol", f.Symbol),
			logger.StringField("error", f.Err),
		)
	}
}
