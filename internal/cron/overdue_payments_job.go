package cron

import (
	"context"
	"errors"
	"time"

	"github.com/printdeskhq/printdesk-backend/pkg/logger"
)

const overduePaymentsBatchSize = 200

// overdueMarker is the payment ledger surface the sweep needs.
type overdueMarker interface {
	UpdateOverdueStatus(ctx context.Context, now time.Time, limit int) (int, error)
}

// OverduePaymentsJob flips pending payment requests whose due date has passed
// to overdue. The ledger defines what overdue means; this job only schedules
// the sweep.
type OverduePaymentsJob struct {
	payments overdueMarker
	logg     *logger.Logger
	now      func() time.Time
}

// NewOverduePaymentsJob builds the sweep job.
func NewOverduePaymentsJob(payments overdueMarker, logg *logger.Logger) (*OverduePaymentsJob, error) {
	if payments == nil {
		return nil, errors.New("payments service required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &OverduePaymentsJob{
		payments: payments,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (j *OverduePaymentsJob) Name() string {
	return "overdue_payments"
}

func (j *OverduePaymentsJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	total := 0
	for {
		updated, err := j.payments.UpdateOverdueStatus(ctx, now, overduePaymentsBatchSize)
		total += updated
		if err != nil {
			return err
		}
		if updated < overduePaymentsBatchSize {
			break
		}
	}

	logCtx := j.logg.WithField(ctx, "marked_overdue", total)
	j.logg.Info(logCtx, "overdue payment sweep complete")
	return nil
}
