package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tableforge/tableforge/internal/auth"
	"github.com/tableforge/tableforge/internal/credentials"
	jobmetrics "github.com/tableforge/tableforge/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCredentialSweep deactivates credentials past their expiry.
	TaskCredentialSweep = "credentials:sweep"
	// TaskAuditPurge removes expired login audit rows.
	TaskAuditPurge = "audit:purge"
)

// SweepPayload bounds a sweep run to a reference time; a zero value means now.
type SweepPayload struct {
	Before time.Time `json:"before,omitempty"`
}

// NewCredentialSweepTask constructs an Asynq task.
func NewCredentialSweepTask(payload SweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCredentialSweep, data), nil
}

// NewAuditPurgeTask constructs an Asynq task.
func NewAuditPurgeTask(payload SweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPurge, data), nil
}

// NewCredentialSweepHandler processes TaskCredentialSweep tasks. Expired
// credentials never authenticate anyway; the sweep keeps the active flag
// honest for reporting.
func NewCredentialSweepHandler(repo credentials.RepositoryPort, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := defaultJobMetrics.Track(TaskCredentialSweep)
		var payload SweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
		before := payload.Before
		if before.IsZero() {
			before = time.Now()
		}
		swept, err := repo.DeactivateExpired(ctx, before)
		if err != nil {
			return tracker.End(err)
		}
		if logger != nil {
			logger.Info("credential sweep", slog.Int64("deactivated", swept))
		}
		return tracker.End(nil)
	}
}

// NewAuditPurgeHandler processes TaskAuditPurge tasks.
func NewAuditPurgeHandler(repo auth.Repository, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := defaultJobMetrics.Track(TaskAuditPurge)
		var payload SweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
		before := payload.Before
		if before.IsZero() {
			before = time.Now()
		}
		purged, err := repo.PurgeExpiredLoginRecords(ctx, before)
		if err != nil {
			return tracker.End(err)
		}
		if logger != nil {
			logger.Info("audit purge", slog.Int64("purged", purged))
		}
		return tracker.End(nil)
	}
}
