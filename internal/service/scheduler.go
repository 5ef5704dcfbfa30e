package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"golang-quant/config"
	"golang-quant/internal/dto"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/utils"
)

// SchedulerService runs the periodic refresh jobs: listings, prices,
// fundamentals and factors, each on its own cron spec.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

type schedulerService struct {
	cfg           *config.Config
	log           *logger.Logger
	cron          *cron.Cron
	ingestService IngestService
	factorService FactorService
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	ingestService IngestService,
	factorService FactorService,
) SchedulerService {
	return &schedulerService{
		cfg:           cfg,
		log:           log,
		cron:          cron.New(),
		ingestService: ingestService,
		factorService: factorService,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) (dto.BatchResult, error)
	}{
		{
			name: "listings",
			spec: s.cfg.Scheduler.ListingsCronSpec,
			run: func(ctx context.Context) (dto.BatchResult, error) {
				return s.ingestService.IngestListings(ctx)
			},
		},
		{
			name: "prices",
			spec: s.cfg.Scheduler.PricesCronSpec,
			run: func(ctx context.Context) (dto.BatchResult, error) {
				return s.ingestService.IngestPrices(ctx, dto.IngestPricesParam{})
			},
		},
		{
			name: "fundamentals",
			spec: s.cfg.Scheduler.FundamentalsCronSpec,
			run: func(ctx context.Context) (dto.BatchResult, error) {
				return s.ingestService.IngestFundamentals(ctx, dto.IngestFundamentalsParam{})
			},
		},
		{
			name: "factors",
			spec: s.cfg.Scheduler.FactorsCronSpec,
			run: func(ctx context.Context) (dto.BatchResult, error) {
				return s.factorService.Calculate(ctx, dto.CalculateFactorsParam{})
			},
		},
	}

	for _, job := range jobs {
		if job.spec == "" {
			s.log.Info("Job has no cron spec, skipping", logger.StringField("job", job.name))
			continue
		}
		job := job
		_, err := s.cron.AddFunc(job.spec, func() {
			utils.GoSafe(func() {
				s.runJob(ctx, job.name, job.run)
			})
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.name, err)
		}
		s.log.Info("Job scheduled",
			logger.StringField("job", job.name),
			logger.StringField("spec", job.spec),
		)
	}

	s.cron.Start()
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

func (s *schedulerService) runJob(ctx context.Context, name string, run func(ctx context.Context) (dto.BatchResult, error)) {
	s.log.InfoContext(ctx, "Job started", logger.StringField("job", name))

	result, err := run(ctx)
	if err != nil {
		s.log.ErrorContextWithAlert(ctx, "Job failed",
			logger.StringField("job", name), logger.ErrorField(err))
		return
	}

	if len(result.Failures) > 0 {
		s.log.ErrorContextWithAlert(ctx, "Job finished with failures",
			logger.StringField("job", name),
			logger.IntField("processed", result.Processed),
			logger.IntField("upserted", result.Upserted),
			logger.IntField("failed", len(result.Failures)),
		)
		return
	}

	s.log.InfoContext(ctx, "Job finished",
		logger.StringField("job", name),
		logger.IntField("processed", result.Processed),
		logger.IntField("upserted", result.Upserted),
	)
}
