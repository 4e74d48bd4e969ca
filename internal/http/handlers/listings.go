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

type createListingRequest struct {
	ContentType  string          `json:"content_type"`
	Payload      json.RawMessage `json:"payload"`
	DurationDays int             `json:"duration_days"`
}

type editListingRequest struct {
	Payload json.RawMessage `json:"payload"`
}

type listingDTO struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	ContentType string          `json:"content_type"`
	Status      string          `json:"status"`
	AdminStatus string          `json:"admin_status"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

func toListingDTO(l domain.Listing) listingDTO {
	return listingDTO{
		ID:          l.ID,
		UserID:      l.UserID,
		ContentType: string(l.ContentType),
		Status:      string(l.Status),
		AdminStatus: string(l.AdminStatus),
		Payload:     l.Payload,
		CreatedAt:   l.CreatedAt,
		ExpiresAt:   l.ExpiresAt,
	}
}

// ListingsCreate handles POST /listings.
func (a *App) ListingsCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	listing, err := a.Listings.Create(r.Context(), userID, domain.ContentType(req.ContentType), req.Payload, req.DurationDays)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toListingDTO(*listing))
}

// ListingsEdit handles PATCH /listings/{id}. Owner only, payload only.
func (a *App) ListingsEdit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req editListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	listing, err := a.Listings.Edit(r.Context(), chi.URLParam(r, "id"), userID, req.Payload)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toListingDTO(*listing))
}

// ListingsRemove handles DELETE /listings/{id}. Owner or moderator/admin.
func (a *App) ListingsRemove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	role := domain.UserRole(middleware.RoleFromContext(r.Context()))
	if err := a.Listings.Remove(r.Context(), chi.URLParam(r, "id"), userID, role); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListingsGet handles GET /listings/{id} for public readers.
func (a *App) ListingsGet(w http.ResponseWriter, r *http.Request) {
	listing, err := a.Listings.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toListingDTO(*listing))
}

// ListingsPublic handles GET /listings.
func (a *App) ListingsPublic(w http.ResponseWriter, r *http.Request) {
	contentType := domain.ContentType(r.URL.Query().Get("content_type"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := a.Listings.ListPublic(r.Context(), contentType, limit)
	if err != nil {
		a.domainError(w, err)
		return
	}
	dtos := make([]listingDTO, 0, len(items))
	for _, l := range items {
		dtos = append(dtos, toListingDTO(l))
	}
	a.json(w, http.StatusOK, map[string]any{"items": dtos})
}
