package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evergreenlabs/plantcare-backend/pkg/config"
	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Candidate is a task that needs a due reminder sent.
type Candidate struct {
	TaskID             uuid.UUID
	UserID             uuid.UUID
	PlantID            uuid.UUID
	Title              string
	PlantName          string
	DueDate            time.Time
	AdvanceNoticeHours int
}

type plantOwnerLister interface {
	ListUserIDsWithPlants(ctx context.Context) ([]uuid.UUID, error)
	FindByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error)
}

type dueTaskLister interface {
	ListDueWithin(ctx context.Context, userID uuid.UUID, from, until time.Time) ([]models.CareTask, error)
}

type recentNotificationChecker interface {
	ExistsRecentTaskDue(ctx context.Context, taskID uuid.UUID, since time.Time) (bool, error)
}

type preferencesLoader interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.NotificationPreferences, error)
}

// Scanner walks every plant owner and collects tasks falling due inside
// their advance notice window. A task already reminded within the trailing
// window is skipped so hourly runs do not re-notify.
type Scanner struct {
	plants        plantOwnerLister
	tasks         dueTaskLister
	notifications recentNotificationChecker
	prefs         preferencesLoader
	defaultHours  int
	logg          *logger.Logger
}

// ScannerParams bundles the scanner dependencies.
type ScannerParams struct {
	Plants        plantOwnerLister
	Tasks         dueTaskLister
	Notifications recentNotificationChecker
	Prefs         preferencesLoader
	Config        config.RemindersConfig
	Logger        *logger.Logger
}

// NewScanner validates dependencies and builds a scanner.
func NewScanner(params ScannerParams) (*Scanner, error) {
	if params.Plants == nil {
		return nil, fmt.Errorf("plant repository is required")
	}
	if params.Tasks == nil {
		return nil, fmt.Errorf("task repository is required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository is required")
	}
	if params.Prefs == nil {
		return nil, fmt.Errorf("preferences repository is required")
	}
	hours := params.Config.DefaultAdvanceNoticeHours
	if hours <= 0 {
		hours = 24
	}
	return &Scanner{
		plants:        params.Plants,
		tasks:         params.Tasks,
		notifications: params.Notifications,
		prefs:         params.Prefs,
		defaultHours:  hours,
		logg:          params.Logger,
	}, nil
}

// Scan returns the reminder candidates across all users as of now. Per-user
// failures come back in the error slice so one broken account does not
// starve the rest of the batch; the final error is non-nil only when the
// scan could not enumerate users at all.
func (s *Scanner) Scan(ctx context.Context, now time.Time) ([]Candidate, []error, error) {
	now = now.UTC()

	userIDs, err := s.plants.ListUserIDsWithPlants(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list plant owners: %w", err)
	}

	var candidates []Candidate
	var errs []error
	for _, userID := range userIDs {
		found, err := s.scanUser(ctx, userID, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		candidates = append(candidates, found...)
	}
	return candidates, errs, nil
}

func (s *Scanner) scanUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]Candidate, error) {
	hours := s.defaultHours
	prefs, err := s.prefs.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if prefs != nil && prefs.AdvanceNoticeHours > 0 {
		hours = prefs.AdvanceNoticeHours
	}

	window := time.Duration(hours) * time.Hour
	notifyBy := now.Add(window)

	tasks, err := s.tasks.ListDueWithin(ctx, userID, now, notifyBy)
	if err != nil {
		return nil, fmt.Errorf("list due tasks: %w", err)
	}

	var candidates []Candidate
	for i := range tasks {
		task := &tasks[i]
		if task.NextDueAt == nil {
			continue
		}

		// The dedup lookback mirrors the advance window, so a task stays
		// suppressed for as long as a single reminder covers it.
		already, err := s.notifications.ExistsRecentTaskDue(ctx, task.ID, now.Add(-window))
		if err != nil {
			return nil, fmt.Errorf("check recent reminder for task %s: %w", task.ID, err)
		}
		if already {
			continue
		}

		plantName := ""
		plant, err := s.plants.FindByID(ctx, userID, task.PlantID)
		if err == nil {
			plantName = plant.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load plant %s: %w", task.PlantID, err)
		}

		candidates = append(candidates, Candidate{
			TaskID:             task.ID,
			UserID:             userID,
			PlantID:            task.PlantID,
			Title:              task.Title,
			PlantName:          plantName,
			DueDate:            task.NextDueAt.UTC(),
			AdvanceNoticeHours: hours,
		})
	}
	return candidates, nil
}
