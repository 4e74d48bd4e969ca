package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
)

type moderateRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

type adjustCreditsRequest struct {
	UserID      string `json:"user_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

type adminActionDTO struct {
	ID          string          `json:"id"`
	AdminUserID string          `json:"admin_user_id"`
	ActionType  string          `json:"action_type"`
	TargetType  string          `json:"target_type"`
	TargetID    string          `json:"target_id"`
	Details     json.RawMessage `json:"details"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AdminModerate handles PATCH /admin/listings/{id}.
func (a *App) AdminModerate(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.UserIDFromContext(r.Context())
	role := domain.UserRole(middleware.RoleFromContext(r.Context()))
	var req moderateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	err := a.Moderation.Decide(r.Context(), chi.URLParam(r, "id"), adminID, role, domain.AdminStatus(req.Decision), req.Notes)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}

// AdminAdjustCredits handles POST /admin/credits/adjust.
func (a *App) AdminAdjustCredits(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.UserIDFromContext(r.Context())
	var req adjustCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.UserID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id required")
		return
	}
	newBalance, err := a.Credits.Adjust(r.Context(), adminID, req.UserID, req.Amount, req.Description)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]int64{"new_balance": newBalance})
}

// AdminChangeRole handles POST /admin/users/{id}/role.
func (a *App) AdminChangeRole(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.UserIDFromContext(r.Context())
	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Users.ChangeRole(r.Context(), adminID, chi.URLParam(r, "id"), domain.UserRole(req.Role)); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}

// AdminAuditLog handles GET /admin/audit-log, newest first.
func (a *App) AdminAuditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	actions, err := a.Moderation.AuditLog(r.Context(), limit)
	if err != nil {
		a.domainError(w, err)
		return
	}
	dtos := make([]adminActionDTO, 0, len(actions))
	for _, action := range actions {
		dtos = append(dtos, adminActionDTO{
			ID:          action.ID,
			AdminUserID: action.AdminUserID,
			ActionType:  string(action.ActionType),
			TargetType:  action.TargetType,
			TargetID:    action.TargetID,
			Details:     action.Details,
			CreatedAt:   action.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": dtos})
}

// AdminUserLedger handles GET /admin/users/{id}/ledger.
func (a *App) AdminUserLedger(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := a.Credits.Ledger(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toLedgerDTOs(entries)})
}
