package tasks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTasksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	careTasks := `
CREATE TABLE IF NOT EXISTS care_tasks (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  plant_id TEXT NOT NULL,
  task_type TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  frequency INTEGER NOT NULL,
  frequency_unit TEXT NOT NULL,
  next_due_at DATETIME,
  last_completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	careEvents := `
CREATE TABLE IF NOT EXISTS care_events (
  id TEXT PRIMARY KEY,
  task_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  plant_id TEXT NOT NULL,
  completed_at DATETIME NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(careTasks).Error)
	require.NoError(t, db.Exec(careEvents).Error)
	return db
}

func newCareTask(t *testing.T, db *gorm.DB, userID, plantID uuid.UUID, nextDue *time.Time) *models.CareTask {
	t.Helper()

	task := &models.CareTask{
		ID:            uuid.New(),
		UserID:        userID,
		PlantID:       plantID,
		TaskType:      enums.TaskTypeWater,
		Title:         "Water",
		Frequency:     7,
		FrequencyUnit: enums.RecurrenceUnitDays,
		NextDueAt:     nextDue,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func timePtr(v time.Time) *time.Time { return &v }

func TestTaskRepositoryFindByIDScopedToOwner(t *testing.T) {
	db := setupTasksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	task := newCareTask(t, db, userID, uuid.New(), nil)

	found, err := repo.FindByID(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)

	_, err = repo.FindByID(ctx, uuid.New(), task.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskRepositoryListDueWithin(t *testing.T) {
	db := setupTasksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	plantID := uuid.New()
	now := time.Date(2026, time.April, 1, 8, 0, 0, 0, time.UTC)
	until := now.Add(24 * time.Hour)

	inWindow := newCareTask(t, db, userID, plantID, timePtr(now.Add(6*time.Hour)))
	atLowerBound := newCareTask(t, db, userID, plantID, timePtr(now))
	newCareTask(t, db, userID, plantID, timePtr(until))                // at upper bound, excluded
	newCareTask(t, db, userID, plantID, timePtr(now.Add(-time.Hour))) // already past
	newCareTask(t, db, userID, plantID, nil)                          // unscheduled
	newCareTask(t, db, uuid.New(), plantID, timePtr(now.Add(6*time.Hour)))

	due, err := repo.ListDueWithin(ctx, userID, now, until)
	require.NoError(t, err)
	require.Len(t, due, 2)

	ids := map[uuid.UUID]bool{}
	for _, task := range due {
		ids[task.ID] = true
	}
	assert.True(t, ids[inWindow.ID])
	assert.True(t, ids[atLowerBound.ID])
}

func TestTaskRepositoryUpdateSchedule(t *testing.T) {
	db := setupTasksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	task := newCareTask(t, db, userID, uuid.New(), timePtr(time.Now().UTC()))

	next := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Second)
	completed := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateSchedule(ctx, task.ID, &next, &completed))

	stored, err := repo.FindByID(ctx, userID, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.NextDueAt)
	require.NotNil(t, stored.LastCompletedAt)
	assert.WithinDuration(t, next, *stored.NextDueAt, time.Second)
	assert.WithinDuration(t, completed, *stored.LastCompletedAt, time.Second)

	// Unscheduling clears the due date.
	require.NoError(t, repo.UpdateSchedule(ctx, task.ID, nil, &completed))
	stored, err = repo.FindByID(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.NextDueAt)
}

func TestTaskRepositoryDelete(t *testing.T) {
	db := setupTasksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	task := newCareTask(t, db, userID, uuid.New(), nil)

	deleted, err := repo.Delete(ctx, uuid.New(), task.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTaskRepositoryEvents(t *testing.T) {
	db := setupTasksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	task := newCareTask(t, db, userID, uuid.New(), nil)
	base := time.Date(2026, time.April, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		event := &models.CareEvent{
			ID:          uuid.New(),
			TaskID:      task.ID,
			UserID:      userID,
			PlantID:     task.PlantID,
			CompletedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.CreateEvent(ctx, event))
	}

	events, err := repo.ListEvents(ctx, userID, task.ID, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].CompletedAt.After(events[1].CompletedAt))

	all, err := repo.ListEvents(ctx, userID, task.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
