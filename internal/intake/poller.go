package intake

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hiringtools/cv-intake/internal/utils"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = 5 * time.Minute

// Observer receives the report of every completed cycle.
type Observer func(CycleReport)

// Poller runs the reconciler on a fixed interval. A failing cycle is logged
// and absorbed; the loop keeps going until the context is canceled. Cycles
// never overlap.
type Poller struct {
	reconciler *Reconciler
	interval   time.Duration
	logger     *zap.Logger
	observer   Observer
}

func NewPoller(reconciler *Reconciler, interval time.Duration, logger *zap.Logger, observer Observer) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		reconciler: reconciler,
		interval:   interval,
		logger:     logger,
		observer:   observer,
	}
}

// Run loops until ctx is canceled and returns the cancellation cause.
func (p *Poller) Run(ctx context.Context) error {
	for {
		report := p.reconciler.RunCycle(ctx)
		p.report(report)

		if err := utils.WaitFor(ctx, p.interval); err != nil {
			return err
		}
	}
}

func (p *Poller) report(report CycleReport) {
	if p.observer != nil {
		p.observer(report)
	}

	fields := []zap.Field{
		zap.Int("fetched", report.Fetched),
		zap.Int("admitted", report.Admitted),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("no_attachment", report.NoAttachment),
		zap.Int("extract_failed", report.ExtractFailed),
		zap.Int("ack_failed", report.AckFailed),
	}

	if report.Err != nil {
		p.logger.Error("cycle aborted", append(fields, zap.Error(report.Err))...)
		return
	}
	p.logger.Info("cycle complete", fields...)
}
