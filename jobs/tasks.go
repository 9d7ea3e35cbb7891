// Package jobs runs background work over Asynq: audit embed delivery and
// the periodic session sweep.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/rolekeeper/rolekeeper/internal/audit"
	"github.com/rolekeeper/rolekeeper/internal/gateway"
	"github.com/rolekeeper/rolekeeper/internal/session"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuditEmit delivers one audit record to a log channel.
	TaskTypeAuditEmit = "audit:emit"
	// TaskTypeSessionSweep drops expired interactive sessions.
	TaskTypeSessionSweep = "session:sweep"
)

// AuditEmitPayload carries a completed audit record and its destination.
type AuditEmitPayload struct {
	ChannelID string       `json:"channel_id"`
	Record    audit.Record `json:"record"`
}

// NewAuditEmitTask constructs an Asynq task for one audit delivery.
func NewAuditEmitTask(payload AuditEmitPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditEmit, data, asynq.MaxRetry(3)), nil
}

// NewAuditEmitHandler returns the handler delivering audit embeds. Delivery
// failures are retried by the queue; malformed payloads are dropped.
func NewAuditEmitHandler(msg gateway.Messenger, log *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditEmitPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			log.Warn("audit task: bad payload", slog.Any("error", err))
			return asynq.SkipRetry
		}
		if payload.ChannelID == "" {
			return asynq.SkipRetry
		}
		if err := audit.Deliver(ctx, msg, payload.ChannelID, payload.Record); err != nil {
			return fmt.Errorf("deliver audit %s: %w", payload.Record.ID, err)
		}
		return nil
	}
}

// NewSessionSweepTask constructs the periodic sweep task.
func NewSessionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypeSessionSweep, nil)
}

// NewSessionSweepHandler returns the handler dropping expired sessions.
func NewSessionSweepHandler(sessions *session.Store, log *slog.Logger) asynq.HandlerFunc {
	return func(context.Context, *asynq.Task) error {
		if n := sessions.Sweep(); n > 0 {
			log.Debug("session sweep", slog.Int("removed", n))
		}
		return nil
	}
}
