package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/evergreenlabs/plantcare-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepository struct {
	listFn            func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error)
	countUnreadFn     func(ctx context.Context, userID uuid.UUID) (int64, error)
	markReadFn        func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn     func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	deleteFn          func(ctx context.Context, userID, notificationID uuid.UUID) (bool, error)
	existsRecentFn    func(ctx context.Context, taskID uuid.UUID, since time.Time) (bool, error)
	deleteOlderThanFn func(ctx context.Context, cutoff time.Time) (int64, error)
	createFn          func(ctx context.Context, notification *models.Notification) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, notification)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	if f.countUnreadFn != nil {
		return f.countUnreadFn(ctx, userID)
	}
	return 0, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, userID, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, userID, now)
	}
	return 0, nil
}

func (f *fakeRepository) Delete(ctx context.Context, userID, notificationID uuid.UUID) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, notificationID)
	}
	return false, nil
}

func (f *fakeRepository) ExistsRecentTaskDue(ctx context.Context, taskID uuid.UUID, since time.Time) (bool, error) {
	if f.existsRecentFn != nil {
		return f.existsRecentFn(ctx, taskID, since)
	}
	return false, nil
}

func (f *fakeRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if f.deleteOlderThanFn != nil {
		return f.deleteOlderThanFn(ctx, cutoff)
	}
	return 0, nil
}

func assertErrorCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.Code() != want {
		t.Fatalf("expected code %s, got %s", want, appErr.Code())
	}
}

func TestServiceListReturnsCursorAndUnreadCount(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()
	next := &pagination.Cursor{CreatedAt: now, ID: uuid.New()}
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
			if params.UserID != userID {
				t.Fatalf("unexpected user id %s", params.UserID)
			}
			if !params.UnreadOnly {
				t.Fatal("expected unread filter to pass through")
			}
			return []models.Notification{{ID: uuid.New(), UserID: userID}}, next, nil
		},
		countUnreadFn: func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 3, nil
		},
	}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.List(context.Background(), ListParams{UserID: userID, Limit: 10, UnreadOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.UnreadCount != 3 {
		t.Fatalf("expected unread count 3, got %d", result.UnreadCount)
	}
	if result.Cursor == "" {
		t.Fatal("expected encoded cursor")
	}
	decoded, err := pagination.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("cursor should round trip: %v", err)
	}
	if decoded.ID != next.ID {
		t.Fatalf("expected cursor id %s, got %s", next.ID, decoded.ID)
	}
}

func TestServiceListRejectsBadCursor(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.List(context.Background(), ListParams{UserID: uuid.New(), Cursor: "not-a-cursor"})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceListRequiresUser(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})
	_, err := svc.List(context.Background(), ListParams{})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceListRepoFailure(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
			return nil, nil, errors.New("db down")
		},
	}
	svc, _ := NewService(repo)
	_, err := svc.List(context.Background(), ListParams{UserID: uuid.New()})
	assertErrorCode(t, err, pkgerrors.CodeDependency)
}

func TestServiceMarkRead(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, uid, nid uuid.UUID, now time.Time) (notificationMarkResult, error) {
			if uid != userID || nid != notificationID {
				t.Fatal("arguments not forwarded")
			}
			return notificationMarkResult{Found: true, Updated: true}, nil
		},
	}
	svc, _ := NewService(repo)
	if err := svc.MarkRead(context.Background(), userID, notificationID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceMarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, uid, nid uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{}, nil
		},
	}
	svc, _ := NewService(repo)
	err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	assertErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceMarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, uid uuid.UUID, now time.Time) (int64, error) {
			return 4, nil
		},
	}
	svc, _ := NewService(repo)
	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4, got %d", count)
	}
}

func TestServiceDelete(t *testing.T) {
	repo := &fakeRepository{
		deleteFn: func(ctx context.Context, uid, nid uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc, _ := NewService(repo)
	if err := svc.Delete(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.deleteFn = func(ctx context.Context, uid, nid uuid.UUID) (bool, error) {
		return false, nil
	}
	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assertErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}
