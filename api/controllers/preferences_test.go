package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/evergreenlabs/plantcare-backend/internal/notifications"
)

type testPreferencesService struct {
	getFn    func(ctx context.Context, userID uuid.UUID) (*notifications.PreferencesDTO, error)
	updateFn func(ctx context.Context, userID uuid.UUID, req notifications.UpdatePreferencesRequest) (*notifications.PreferencesDTO, error)
}

func (s *testPreferencesService) Get(ctx context.Context, userID uuid.UUID) (*notifications.PreferencesDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, userID)
	}
	return &notifications.PreferencesDTO{}, nil
}

func (s *testPreferencesService) Update(ctx context.Context, userID uuid.UUID, req notifications.UpdatePreferencesRequest) (*notifications.PreferencesDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, userID, req)
	}
	return &notifications.PreferencesDTO{}, nil
}

func TestPreferencesGetForwardsUser(t *testing.T) {
	userID := uuid.New()
	called := false
	svc := &testPreferencesService{
		getFn: func(ctx context.Context, uid uuid.UUID) (*notifications.PreferencesDTO, error) {
			called = true
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			return &notifications.PreferencesDTO{EmailEnabled: true}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/preferences", nil, userID)
	resp := httptest.NewRecorder()
	PreferencesGet(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestPreferencesUpdateValidatesQuietHours(t *testing.T) {
	body := `{"email_enabled":true,"quiet_hours_start":25,"quiet_hours_end":7,"advance_notice_hours":24}`
	req := authedRequest(http.MethodPut, "/api/v1/preferences", strings.NewReader(body), uuid.New())
	resp := httptest.NewRecorder()
	PreferencesUpdate(&testPreferencesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPreferencesUpdateForwardsPayload(t *testing.T) {
	var captured notifications.UpdatePreferencesRequest
	svc := &testPreferencesService{
		updateFn: func(ctx context.Context, uid uuid.UUID, req notifications.UpdatePreferencesRequest) (*notifications.PreferencesDTO, error) {
			captured = req
			return &notifications.PreferencesDTO{}, nil
		},
	}

	body := `{"sms_enabled":true,"email_enabled":true,"notify_task_due":true,"quiet_hours_start":22,"quiet_hours_end":7,"advance_notice_hours":48,"phone":"+15551234567"}`
	req := authedRequest(http.MethodPut, "/api/v1/preferences", strings.NewReader(body), uuid.New())
	resp := httptest.NewRecorder()
	PreferencesUpdate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !captured.SMSEnabled || captured.QuietHoursStart != 22 || captured.AdvanceNoticeHours != 48 {
		t.Fatalf("payload not forwarded: %+v", captured)
	}
	if captured.Phone == nil || *captured.Phone != "+15551234567" {
		t.Fatalf("phone not forwarded: %v", captured.Phone)
	}
}
