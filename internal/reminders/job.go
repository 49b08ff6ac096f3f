package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evergreenlabs/plantcare-backend/internal/notifications"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
)

// RunResult summarizes one reminder batch.
type RunResult struct {
	Success           bool      `json:"success"`
	NotificationsSent int       `json:"notificationsSent"`
	Errors            []string  `json:"errors"`
	DurationMillis    int64     `json:"duration"`
	Timestamp         time.Time `json:"timestamp"`
}

type reminderDispatcher interface {
	Send(ctx context.Context, params notifications.SendParams) (notifications.SendResult, error)
}

// Job runs the due-task reminder batch: scan, then dispatch one task_due
// notification per candidate. Per-candidate failures are collected and the
// batch always runs to completion.
type Job struct {
	scanner    *Scanner
	dispatcher reminderDispatcher
	logg       *logger.Logger
	now        func() time.Time
}

// JobParams bundles the reminder job dependencies.
type JobParams struct {
	Scanner    *Scanner
	Dispatcher reminderDispatcher
	Logger     *logger.Logger
	Now        func() time.Time
}

// NewJob validates dependencies and builds the reminder job.
func NewJob(params JobParams) (*Job, error) {
	if params.Scanner == nil {
		return nil, fmt.Errorf("scanner is required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Job{
		scanner:    params.Scanner,
		dispatcher: params.Dispatcher,
		logg:       params.Logger,
		now:        now,
	}, nil
}

// Name identifies the job in cron registration and logs.
func (j *Job) Name() string { return "task-reminders" }

// Run satisfies the cron job contract.
func (j *Job) Run(ctx context.Context) error {
	result := j.RunOnce(ctx)
	if len(result.Errors) > 0 {
		return fmt.Errorf("reminder batch finished with %d errors: %s",
			len(result.Errors), summarizeErrors(result.Errors))
	}
	return nil
}

// summarizeErrors keeps cron logs readable on large batches.
func summarizeErrors(errs []string) string {
	const maxShown = 3
	if len(errs) <= maxShown {
		return strings.Join(errs, "; ")
	}
	return fmt.Sprintf("%s; and %d more", strings.Join(errs[:maxShown], "; "), len(errs)-maxShown)
}

// RunOnce executes one reminder batch and reports what happened. The sent
// count is the number of channel deliveries recorded, not the number of
// candidates: a send suppressed on every channel contributes zero, a
// multi-channel send contributes one per channel. Success only flips false
// when the scan cannot enumerate users at all.
func (j *Job) RunOnce(ctx context.Context) RunResult {
	started := j.now().UTC()
	result := RunResult{Errors: []string{}, Timestamp: started}

	candidates, scanErrs, err := j.scanner.Scan(ctx, started)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.DurationMillis = j.now().UTC().Sub(started).Milliseconds()
		if j.logg != nil {
			j.logg.Error(ctx, "reminders.batch.failed", err)
		}
		return result
	}
	for _, scanErr := range scanErrs {
		result.Errors = append(result.Errors, scanErr.Error())
	}

	for _, candidate := range candidates {
		sent, err := j.dispatch(ctx, candidate)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("task %s: %v", candidate.TaskID, err))
			continue
		}
		result.NotificationsSent += sent
	}

	result.Success = true
	result.DurationMillis = j.now().UTC().Sub(started).Milliseconds()

	if j.logg != nil {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"candidates":  len(candidates),
			"sent":        result.NotificationsSent,
			"errors":      len(result.Errors),
			"duration_ms": result.DurationMillis,
		})
		j.logg.Info(logCtx, "reminders.batch.complete")
	}
	return result
}

// dispatch sends one reminder and reports how many channels recorded it.
func (j *Job) dispatch(ctx context.Context, candidate Candidate) (int, error) {
	taskID := candidate.TaskID
	plantID := candidate.PlantID
	sendResult, err := j.dispatcher.Send(ctx, notifications.SendParams{
		UserID:  candidate.UserID,
		TaskID:  &taskID,
		PlantID: &plantID,
		Type:    enums.NotificationTypeTaskDue,
		Title:   reminderTitle(candidate),
		Message: reminderMessage(candidate, j.now().UTC()),
		Metadata: map[string]any{
			"task_id":  taskID.String(),
			"plant_id": plantID.String(),
			"due_date": candidate.DueDate.Format(time.RFC3339),
		},
	})
	if err != nil {
		return 0, err
	}
	return len(sendResult.SentChannels), nil
}

func reminderTitle(candidate Candidate) string {
	if candidate.PlantName != "" {
		return fmt.Sprintf("%s: %s", candidate.PlantName, candidate.Title)
	}
	return candidate.Title
}

// reminderMessage phrases the due time in whole hours, clamped at "now" for
// tasks due inside the current hour.
func reminderMessage(candidate Candidate, now time.Time) string {
	hours := int(candidate.DueDate.Sub(now).Hours())
	subject := candidate.Title
	if candidate.PlantName != "" {
		subject = fmt.Sprintf("%s for %s", candidate.Title, candidate.PlantName)
	}
	switch {
	case hours <= 0:
		return fmt.Sprintf("%s is due now.", subject)
	case hours == 1:
		return fmt.Sprintf("%s is due in 1 hour.", subject)
	default:
		return fmt.Sprintf("%s is due in %d hours.", subject, hours)
	}
}
