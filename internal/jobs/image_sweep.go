// File: internal/jobs/image_sweep.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"giventake_backend/internal/config"
	"giventake_backend/internal/listing"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ImageSweepJob periodically repairs drift between the object storage bucket
// and the listing_images table left behind by partial failures.
type ImageSweepJob struct {
	listingService listing.Service
	logger         *zap.Logger
	cfg            *config.Config
	cronScheduler  *cron.Cron
}

// NewImageSweepJob creates a new ImageSweepJob.
func NewImageSweepJob(
	listingService listing.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *ImageSweepJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &ImageSweepJob{
		listingService: listingService,
		logger:         logger.Named("ImageSweepJob"),
		cfg:            cfg,
		cronScheduler:  scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *ImageSweepJob) SetupAndStart() error {
	jobSpec := j.cfg.ImageSweepJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Image sweep job schedule not defined (IMAGE_SWEEP_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule image sweep job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Image sweep job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *ImageSweepJob) runJob() {
	j.logger.Info("Starting image sweep job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	removed, err := j.listingService.SweepOrphanedImages(ctx)
	if err != nil {
		j.logger.Error("Image sweep job run failed", zap.Error(err))
	} else {
		j.logger.Info("Image sweep job run completed", zap.Int("orphans_removed", removed))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *ImageSweepJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping image sweep job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Image sweep job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Image sweep job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
