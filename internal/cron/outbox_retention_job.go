package cron

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/logger"
)

const defaultOutboxRetention = 14 * 24 * time.Hour

// OutboxRetentionJob prunes outbox rows that were published longer ago than
// the retention window. Unpublished rows are never touched.
type OutboxRetentionJob struct {
	db        *gorm.DB
	logg      *logger.Logger
	retention time.Duration
	now       func() time.Time
}

// NewOutboxRetentionJob builds the retention job.
func NewOutboxRetentionJob(db *gorm.DB, logg *logger.Logger, retention time.Duration) (*OutboxRetentionJob, error) {
	if db == nil {
		return nil, errors.New("db required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if retention <= 0 {
		retention = defaultOutboxRetention
	}
	return &OutboxRetentionJob{
		db:        db,
		logg:      logg,
		retention: retention,
		now:       time.Now,
	}, nil
}

func (j *OutboxRetentionJob) Name() string {
	return "outbox_retention"
}

func (j *OutboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)

	result := j.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at < ?", cutoff).
		Delete(&models.OutboxEvent{})
	if result.Error != nil {
		return result.Error
	}

	logCtx := j.logg.WithField(ctx, "deleted", result.RowsAffected)
	j.logg.Info(logCtx, "outbox retention sweep complete")
	return nil
}
