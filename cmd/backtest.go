package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"golang-quant/internal/dto"
	"golang-quant/internal/repository"
	"golang-quant/internal/service"
	"golang-quant/pkg/logger"
)

var backtestReq dto.BacktestRequest

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run one backtest and print the summary",
	Run: func(cmd *cobra.Command, args []string) {
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

		if err := appDep.validator.Struct(&backtestReq); err != nil {
			appDep.log.Fatal("Invalid backtest request", logger.ErrorField(err))
		}

		resp, err := services.BacktestService.Run(ctx, backtestReq)
		if err != nil {
			appDep.log.Fatal("Backtest failed", logger.ErrorField(err))
		}

		out, err := json.MarshalIndent(resp.Summary, "", "  ")
		if err != nil {
			appDep.log.Fatal("Failed to render summary", logger.ErrorField(err))
		}
		fmt.Println(string(out))
		if resp.Narrative != nil {
			fmt.Println(*resp.Narrative)
		}
	},
}

func init() {
	backtestCmd.Flags().StringVar(&backtestReq.Name, "name", "", "run name")
	backtestCmd.Flags().StringVar(&backtestReq.Strategy, "strategy", dto.StrategyEqualWeight, "strategy: equal_weight or gtaa")
	backtestCmd.Flags().StringSliceVar(&backtestReq.Tickers, "tickers", nil, "tickers to simulate")
	backtestCmd.Flags().StringVar(&backtestReq.StartDate, "start", "", "start date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestReq.EndDate, "end", "", "end date (YYYY-MM-DD)")
	backtestCmd.Flags().Float64Var(&backtestReq.StartBalance, "balance", 0, "start balance, defaults from config")
	backtestCmd.Flags().StringVar(&backtestReq.SampleFreq, "freq", "M", "sampling frequency: D, M or Y")
	backtestCmd.Flags().IntVar(&backtestReq.RebalanceInterval, "interval", 1, "rebalance every n steps")
	backtestCmd.Flags().IntVar(&backtestReq.Top, "top", 3, "number of assets held (gtaa)")
	backtestCmd.Flags().IntVar(&backtestReq.MAWindow, "ma-window", 10, "moving average filter window (gtaa)")
	backtestCmd.Flags().IntSliceVar(&backtestReq.ScoreIntervals, "score-intervals", nil, "momentum score intervals (gtaa)")
	backtestCmd.Flags().BoolVar(&backtestReq.Narrate, "narrate", false, "narrate the result with the LLM")
}
