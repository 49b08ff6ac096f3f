package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/evergreenlabs/plantcare-backend/internal/plants"
)

type testPlantsService struct {
	createFn func(ctx context.Context, userID uuid.UUID, req plants.CreatePlantRequest) (*plants.PlantDTO, error)
	getFn    func(ctx context.Context, userID, plantID uuid.UUID) (*plants.PlantDTO, error)
	listFn   func(ctx context.Context, userID uuid.UUID, groupID *uuid.UUID) ([]plants.PlantDTO, error)
	updateFn func(ctx context.Context, userID, plantID uuid.UUID, req plants.UpdatePlantRequest) (*plants.PlantDTO, error)
	deleteFn func(ctx context.Context, userID, plantID uuid.UUID) error
}

func (s *testPlantsService) Create(ctx context.Context, userID uuid.UUID, req plants.CreatePlantRequest) (*plants.PlantDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, userID, req)
	}
	return &plants.PlantDTO{}, nil
}

func (s *testPlantsService) Get(ctx context.Context, userID, plantID uuid.UUID) (*plants.PlantDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, userID, plantID)
	}
	return &plants.PlantDTO{}, nil
}

func (s *testPlantsService) List(ctx context.Context, userID uuid.UUID, groupID *uuid.UUID) ([]plants.PlantDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, groupID)
	}
	return nil, nil
}

func (s *testPlantsService) Update(ctx context.Context, userID, plantID uuid.UUID, req plants.UpdatePlantRequest) (*plants.PlantDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, userID, plantID, req)
	}
	return &plants.PlantDTO{}, nil
}

func (s *testPlantsService) Delete(ctx context.Context, userID, plantID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, userID, plantID)
	}
	return nil
}

func TestPlantCreateForwardsPayload(t *testing.T) {
	userID := uuid.New()
	var captured plants.CreatePlantRequest
	svc := &testPlantsService{
		createFn: func(ctx context.Context, uid uuid.UUID, req plants.CreatePlantRequest) (*plants.PlantDTO, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			captured = req
			return &plants.PlantDTO{}, nil
		},
	}

	body := `{"name":"Boston Fern","location":"kitchen window"}`
	req := authedRequest(http.MethodPost, "/api/v1/plants", strings.NewReader(body), userID)
	resp := httptest.NewRecorder()
	PlantCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Name != "Boston Fern" {
		t.Fatalf("payload not forwarded: %+v", captured)
	}
}

func TestPlantCreateRejectsMissingName(t *testing.T) {
	req := authedRequest(http.MethodPost, "/api/v1/plants", strings.NewReader(`{"location":"desk"}`), uuid.New())
	resp := httptest.NewRecorder()
	PlantCreate(&testPlantsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPlantListForwardsGroupFilter(t *testing.T) {
	groupID := uuid.New()
	var captured *uuid.UUID
	svc := &testPlantsService{
		listFn: func(ctx context.Context, userID uuid.UUID, gid *uuid.UUID) ([]plants.PlantDTO, error) {
			captured = gid
			return nil, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/plants?group_id="+groupID.String(), nil, uuid.New())
	resp := httptest.NewRecorder()
	PlantList(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if captured == nil || *captured != groupID {
		t.Fatalf("group filter not forwarded: %v", captured)
	}
}

func TestPlantListRejectsBadGroupFilter(t *testing.T) {
	req := authedRequest(http.MethodGet, "/api/v1/plants?group_id=nonsense", nil, uuid.New())
	resp := httptest.NewRecorder()
	PlantList(&testPlantsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPlantDeleteForwardsIDs(t *testing.T) {
	userID := uuid.New()
	plantID := uuid.New()
	called := false
	svc := &testPlantsService{
		deleteFn: func(ctx context.Context, uid, pid uuid.UUID) error {
			called = true
			if uid != userID || pid != plantID {
				t.Fatalf("unexpected ids %s %s", uid, pid)
			}
			return nil
		},
	}

	req := authedRequest(http.MethodDelete, "/api/v1/plants/"+plantID.String(), nil, userID)
	req = withRouteParam(req, "plantId", plantID.String())
	resp := httptest.NewRecorder()
	PlantDelete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}
