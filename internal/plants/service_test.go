package plants

import (
	"context"
	"testing"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakePlantRepository struct {
	createFn      func(ctx context.Context, plant *models.Plant) error
	findByIDFn    func(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error)
	listByUserFn  func(ctx context.Context, userID uuid.UUID) ([]models.Plant, error)
	listByGroupFn func(ctx context.Context, userID, groupID uuid.UUID) ([]models.Plant, error)
	updateFn      func(ctx context.Context, plant *models.Plant) error
	deleteFn      func(ctx context.Context, userID, plantID uuid.UUID) (bool, error)
	listOwnersFn  func(ctx context.Context) ([]uuid.UUID, error)
}

func (f *fakePlantRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakePlantRepository) Create(ctx context.Context, plant *models.Plant) error {
	if f.createFn != nil {
		return f.createFn(ctx, plant)
	}
	return nil
}

func (f *fakePlantRepository) FindByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, userID, plantID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlantRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Plant, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakePlantRepository) ListByGroup(ctx context.Context, userID, groupID uuid.UUID) ([]models.Plant, error) {
	if f.listByGroupFn != nil {
		return f.listByGroupFn(ctx, userID, groupID)
	}
	return nil, nil
}

func (f *fakePlantRepository) Update(ctx context.Context, plant *models.Plant) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, plant)
	}
	return nil
}

func (f *fakePlantRepository) Delete(ctx context.Context, userID, plantID uuid.UUID) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, plantID)
	}
	return false, nil
}

func (f *fakePlantRepository) ListUserIDsWithPlants(ctx context.Context) ([]uuid.UUID, error) {
	if f.listOwnersFn != nil {
		return f.listOwnersFn(ctx)
	}
	return nil, nil
}

type fakeGroupChecker struct {
	member bool
	err    error
}

func (f *fakeGroupChecker) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return f.member, f.err
}

func newPlantService(t *testing.T, repo Repository, groups groupChecker) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Groups: groups})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func expectCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.Code() != want {
		t.Fatalf("expected code %s, got %s", want, appErr.Code())
	}
}

func TestServiceCreatePlant(t *testing.T) {
	userID := uuid.New()
	var created *models.Plant
	repo := &fakePlantRepository{
		createFn: func(ctx context.Context, plant *models.Plant) error {
			created = plant
			return nil
		},
	}
	svc := newPlantService(t, repo, &fakeGroupChecker{member: true})

	species := "Nephrolepis exaltata"
	dto, err := svc.Create(context.Background(), userID, CreatePlantRequest{
		Name:    "  Boston Fern ",
		Species: &species,
		Notes:   " thrives in humidity ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || created.Name != "Boston Fern" {
		t.Fatalf("name not trimmed: %+v", created)
	}
	if created.ID == uuid.Nil {
		t.Fatal("new plants need an id")
	}
	if dto.Notes != "thrives in humidity" {
		t.Fatalf("notes not trimmed: %q", dto.Notes)
	}
}

func TestServiceCreatePlantValidation(t *testing.T) {
	svc := newPlantService(t, &fakePlantRepository{}, &fakeGroupChecker{member: true})

	_, err := svc.Create(context.Background(), uuid.Nil, CreatePlantRequest{Name: "Fern"})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), uuid.New(), CreatePlantRequest{Name: "   "})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceCreatePlantGroupMembership(t *testing.T) {
	svc := newPlantService(t, &fakePlantRepository{}, &fakeGroupChecker{member: false})

	groupID := uuid.New()
	_, err := svc.Create(context.Background(), uuid.New(), CreatePlantRequest{
		Name:    "Fern",
		GroupID: &groupID,
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestServiceListPlantsByGroup(t *testing.T) {
	userID := uuid.New()
	groupID := uuid.New()
	groupCalled := false
	repo := &fakePlantRepository{
		listByGroupFn: func(ctx context.Context, uid, gid uuid.UUID) ([]models.Plant, error) {
			groupCalled = true
			if gid != groupID {
				t.Fatalf("unexpected group id %s", gid)
			}
			return []models.Plant{{ID: uuid.New(), UserID: uid, GroupID: &groupID, Name: "Fern"}}, nil
		},
	}
	svc := newPlantService(t, repo, &fakeGroupChecker{member: true})

	dtos, err := svc.List(context.Background(), userID, &groupID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !groupCalled || len(dtos) != 1 {
		t.Fatalf("expected group listing, got %+v", dtos)
	}
}

func TestServiceUpdatePlant(t *testing.T) {
	userID := uuid.New()
	plantID := uuid.New()
	groupID := uuid.New()
	stored := &models.Plant{ID: plantID, UserID: userID, Name: "Fern", GroupID: &groupID}
	var saved *models.Plant
	repo := &fakePlantRepository{
		findByIDFn: func(ctx context.Context, uid, pid uuid.UUID) (*models.Plant, error) {
			clone := *stored
			return &clone, nil
		},
		updateFn: func(ctx context.Context, plant *models.Plant) error {
			saved = plant
			return nil
		},
	}
	svc := newPlantService(t, repo, &fakeGroupChecker{member: true})

	location := "kitchen window"
	dto, err := svc.Update(context.Background(), userID, plantID, UpdatePlantRequest{
		Location:   &location,
		ClearGroup: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil || saved.Location == nil || *saved.Location != "kitchen window" {
		t.Fatalf("location not applied: %+v", saved)
	}
	if dto.GroupID != nil {
		t.Fatal("clear_group should detach the plant")
	}
}

func TestServiceUpdatePlantNotFound(t *testing.T) {
	svc := newPlantService(t, &fakePlantRepository{}, &fakeGroupChecker{member: true})
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdatePlantRequest{})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceDeletePlant(t *testing.T) {
	repo := &fakePlantRepository{
		deleteFn: func(ctx context.Context, uid, pid uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc := newPlantService(t, repo, &fakeGroupChecker{member: true})
	if err := svc.Delete(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.deleteFn = func(ctx context.Context, uid, pid uuid.UUID) (bool, error) { return false, nil }
	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}
