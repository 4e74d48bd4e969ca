package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
)

type fakeModerationAPI struct {
	decideErr error
	decisions []string
	actions   []domain.AdminAction
}

func (f *fakeModerationAPI) Decide(_ context.Context, listingID, adminID string, role domain.UserRole, decision domain.AdminStatus, notes string) error {
	if !role.CanModerate() {
		return domain.ErrForbidden
	}
	if f.decideErr != nil {
		return f.decideErr
	}
	f.decisions = append(f.decisions, listingID+":"+string(decision))
	return nil
}

func (f *fakeModerationAPI) AuditLog(_ context.Context, limit int) ([]domain.AdminAction, error) {
	if limit < len(f.actions) {
		return f.actions[:limit], nil
	}
	return f.actions, nil
}

type fakeCreditAPI struct {
	balance   int64
	adjustErr error
	entries   []domain.LedgerEntry
}

func (f *fakeCreditAPI) Balance(context.Context, string) (int64, error) {
	return f.balance, nil
}

func (f *fakeCreditAPI) Ledger(context.Context, string, int) ([]domain.LedgerEntry, error) {
	return f.entries, nil
}

func (f *fakeCreditAPI) Adjust(_ context.Context, _, _ string, amount int64, _ string) (int64, error) {
	if f.adjustErr != nil {
		return 0, f.adjustErr
	}
	f.balance += amount
	return f.balance, nil
}

func TestAdminModerateApproves(t *testing.T) {
	moderation := &fakeModerationAPI{}
	app := &App{Moderation: moderation, Logger: zerolog.Nop()}

	req := httptest.NewRequest("PATCH", "/admin/listings/listing-1", strings.NewReader(`{"decision":"approved"}`))
	ctx := middleware.ContextWithUserID(req.Context(), "admin-1")
	ctx = middleware.ContextWithRole(ctx, string(domain.UserRoleAdmin))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "listing-1")
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	app.AdminModerate(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status: got %d, body %s", rr.Code, rr.Body.String())
	}
	if len(moderation.decisions) != 1 || moderation.decisions[0] != "listing-1:approved" {
		t.Fatalf("unexpected decisions: %v", moderation.decisions)
	}
}

func TestAdminModerateConflictOnTerminalState(t *testing.T) {
	moderation := &fakeModerationAPI{decideErr: domain.ErrInvalidTransition}
	app := &App{Moderation: moderation, Logger: zerolog.Nop()}

	req := httptest.NewRequest("PATCH", "/admin/listings/listing-1", strings.NewReader(`{"decision":"rejected"}`))
	ctx := middleware.ContextWithUserID(req.Context(), "admin-1")
	ctx = middleware.ContextWithRole(ctx, string(domain.UserRoleAdmin))
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	app.AdminModerate(rr, req)

	if rr.Code != 409 {
		t.Fatalf("unexpected status: got %d want 409", rr.Code)
	}
}

func TestAdminAdjustCreditsReturnsNewBalance(t *testing.T) {
	credits := &fakeCreditAPI{balance: 10}
	app := &App{Credits: credits, Logger: zerolog.Nop()}

	req := httptest.NewRequest("POST", "/admin/credits/adjust", strings.NewReader(`{"user_id":"u1","amount":25,"description":"goodwill"}`))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "admin-1"))
	rr := httptest.NewRecorder()

	app.AdminAdjustCredits(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var payload map[string]int64
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["new_balance"] != 35 {
		t.Fatalf("unexpected balance: %d", payload["new_balance"])
	}
}

func TestAdminAdjustCreditsOverdrawRejected(t *testing.T) {
	credits := &fakeCreditAPI{balance: 10, adjustErr: domain.ErrInsufficientCredits}
	app := &App{Credits: credits, Logger: zerolog.Nop()}

	req := httptest.NewRequest("POST", "/admin/credits/adjust", strings.NewReader(`{"user_id":"u1","amount":-15}`))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "admin-1"))
	rr := httptest.NewRecorder()

	app.AdminAdjustCredits(rr, req)

	if rr.Code != 402 {
		t.Fatalf("unexpected status: got %d want 402", rr.Code)
	}
}

func TestAdminAuditLogNewestFirst(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	moderation := &fakeModerationAPI{actions: []domain.AdminAction{
		{ID: "a2", ActionType: domain.AdminActionRejectPost, CreatedAt: now},
		{ID: "a1", ActionType: domain.AdminActionApprovePost, CreatedAt: now.Add(-time.Hour)},
	}}
	app := &App{Moderation: moderation, Logger: zerolog.Nop()}

	req := httptest.NewRequest("GET", "/admin/audit-log?limit=10", nil)
	rr := httptest.NewRecorder()

	app.AdminAuditLog(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status: got %d", rr.Code)
	}
	var payload struct {
		Items []adminActionDTO `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 2 || payload.Items[0].ID != "a2" {
		t.Fatalf("unexpected items: %+v", payload.Items)
	}
}

func TestCreditsBalance(t *testing.T) {
	app := &App{Credits: &fakeCreditAPI{balance: 42}, Logger: zerolog.Nop()}

	req := httptest.NewRequest("GET", "/me/credits", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "u1"))
	rr := httptest.NewRecorder()

	app.CreditsBalance(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status: got %d", rr.Code)
	}
	var payload map[string]int64
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["credits"] != 42 {
		t.Fatalf("unexpected balance: %d", payload["credits"])
	}
}
