package notifications

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

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	notifications := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  task_id TEXT,
  plant_id TEXT,
  type TEXT NOT NULL,
  channel TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  metadata TEXT,
  read INTEGER NOT NULL DEFAULT 0,
  read_at DATETIME,
  sent_at DATETIME NOT NULL,
  created_at DATETIME
);`
	preferences := `
CREATE TABLE IF NOT EXISTS notification_preferences (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  sms_enabled INTEGER NOT NULL DEFAULT 0,
  email_enabled INTEGER NOT NULL DEFAULT 1,
  notify_task_due INTEGER NOT NULL DEFAULT 1,
  notify_task_overdue INTEGER NOT NULL DEFAULT 1,
  notify_task_completed INTEGER NOT NULL DEFAULT 0,
  quiet_hours_start INTEGER NOT NULL DEFAULT 21,
  quiet_hours_end INTEGER NOT NULL DEFAULT 9,
  advance_notice_hours INTEGER NOT NULL DEFAULT 24,
  phone TEXT,
  phone_verified INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(notifications).Error)
	require.NoError(t, db.Exec(preferences).Error)
	return db
}

func newNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, taskID *uuid.UUID, notifType enums.NotificationType, created time.Time, read bool) *models.Notification {
	t.Helper()

	row := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TaskID:    taskID,
		Type:      notifType,
		Channel:   enums.NotificationChannelInApp,
		Title:     "Water your fern",
		Message:   "Boston Fern is due for watering",
		Read:      read,
		SentAt:    created,
		CreatedAt: created,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestRepositoryListPaginates(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		newNotification(t, db, userID, nil, enums.NotificationTypeTaskDue, base.Add(time.Duration(i)*time.Minute), false)
	}
	// Another user's rows never leak in.
	newNotification(t, db, uuid.New(), nil, enums.NotificationTypeTaskDue, base, false)

	rows, next, err := repo.List(ctx, listNotificationsParams{UserID: userID, Limit: 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.NotNil(t, next)
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt) || rows[0].CreatedAt.Equal(rows[1].CreatedAt))

	rest, final, err := repo.List(ctx, listNotificationsParams{UserID: userID, Limit: 3, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Nil(t, final)
}

func TestRepositoryListUnreadOnly(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now().UTC()

	newNotification(t, db, userID, nil, enums.NotificationTypeTaskDue, base, false)
	newNotification(t, db, userID, nil, enums.NotificationTypeTaskDue, base.Add(time.Minute), true)

	rows, _, err := repo.List(ctx, listNotificationsParams{UserID: userID, Limit: 10, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Read)

	count, err := repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryMarkRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	row := newNotification(t, db, userID, nil, enums.NotificationTypeTaskDue, time.Now().UTC(), false)

	now := time.Now().UTC()
	mark, err := repo.MarkRead(ctx, userID, row.ID, now)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.True(t, mark.Updated)

	var stored models.Notification
	require.NoError(t, db.First(&stored, "id = ?", row.ID).Error)
	assert.True(t, stored.Read)
	require.NotNil(t, stored.ReadAt)

	// Second attempt finds the row but updates nothing.
	mark, err = repo.MarkRead(ctx, userID, row.ID, now)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.False(t, mark.Updated)

	// Foreign rows are invisible.
	mark, err = repo.MarkRead(ctx, uuid.New(), row.ID, now)
	require.NoError(t, err)
	assert.False(t, mark.Found)
}

func TestRepositoryMarkAllRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now().UTC()

	newNotification(t, db, userID, nil, enums.NotificationTypeTaskDue, base, false)
	newNotification(t, db, userID, nil, enums.NotificationTypeTaskOverdue, base.Add(time.Minute), false)
	newNotification(t, db, userID, nil, enums.NotificationTypeTaskDue, base.Add(2*time.Minute), true)

	count, err := repo.MarkAllRead(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	unread, err := repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestRepositoryDelete(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	row := newNotification(t, db, userID, nil, enums.NotificationTypeTaskDue, time.Now().UTC(), false)

	deleted, err := repo.Delete(ctx, uuid.New(), row.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, userID, row.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRepositoryExistsRecentTaskDue(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	taskID := uuid.New()
	now := time.Now().UTC()

	// Old reminder outside the lookback window.
	newNotification(t, db, userID, &taskID, enums.NotificationTypeTaskDue, now.Add(-48*time.Hour), false)

	exists, err := repo.ExistsRecentTaskDue(ctx, taskID, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.False(t, exists)

	// A non-due notification for the task does not suppress reminders.
	newNotification(t, db, userID, &taskID, enums.NotificationTypeTaskCompleted, now.Add(-time.Hour), false)
	exists, err = repo.ExistsRecentTaskDue(ctx, taskID, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.False(t, exists)

	newNotification(t, db, userID, &taskID, enums.NotificationTypeTaskDue, now.Add(-time.Hour), false)
	exists, err = repo.ExistsRecentTaskDue(ctx, taskID, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, exists)

	// Other tasks never match.
	otherTask := uuid.New()
	exists, err = repo.ExistsRecentTaskDue(ctx, otherTask, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryDeleteOlderThan(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	newNotification(t, db, userID, nil, enums.NotificationTypeTaskDue, now.Add(-100*24*time.Hour), true)
	newNotification(t, db, userID, nil, enums.NotificationTypeTaskDue, now.Add(-10*24*time.Hour), true)

	removed, err := repo.DeleteOlderThan(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPreferencesRepositoryRoundTrip(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewPreferencesRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.FindByUser(ctx, userID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	created, err := repo.CreateDefaults(ctx, userID, nil)
	require.NoError(t, err)
	assert.True(t, created.EmailEnabled)
	assert.False(t, created.SMSEnabled)
	assert.Equal(t, 24, created.AdvanceNoticeHours)
	assert.Equal(t, 21, created.QuietHoursStart)
	assert.Equal(t, 9, created.QuietHoursEnd)

	created.SMSEnabled = true
	created.AdvanceNoticeHours = 48
	require.NoError(t, repo.Upsert(ctx, created))

	loaded, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, loaded.SMSEnabled)
	assert.Equal(t, 48, loaded.AdvanceNoticeHours)
}
