package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// ListingAPI is the listing lifecycle surface the handlers consume.
type ListingAPI interface {
	Create(ctx context.Context, ownerID string, contentType domain.ContentType, payload json.RawMessage, durationDays int) (*domain.Listing, error)
	Edit(ctx context.Context, listingID, requesterID string, payload json.RawMessage) (*domain.Listing, error)
	Remove(ctx context.Context, listingID, requesterID string, requesterRole domain.UserRole) error
	GetPublic(ctx context.Context, listingID string) (*domain.Listing, error)
	ListPublic(ctx context.Context, contentType domain.ContentType, limit int) ([]domain.Listing, error)
}

// CreditAPI is the balance-authority surface the handlers consume.
type CreditAPI interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Ledger(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error)
	Adjust(ctx context.Context, adminID, userID string, amount int64, description string) (int64, error)
}

// ModerationAPI is the moderation surface the handlers consume.
type ModerationAPI interface {
	Decide(ctx context.Context, listingID, adminID string, role domain.UserRole, decision domain.AdminStatus, notes string) error
	AuditLog(ctx context.Context, limit int) ([]domain.AdminAction, error)
}

// UserAPI is the account surface the handlers consume.
type UserAPI interface {
	Get(ctx context.Context, id string) (*domain.UserAccount, error)
	ChangeRole(ctx context.Context, adminID, userID string, role domain.UserRole) error
}

// App is the handler container wired up in cmd/api.
type App struct {
	Listings   ListingAPI
	Credits    CreditAPI
	Moderation ModerationAPI
	Users      UserAPI
	Logger     zerolog.Logger
	JWTSecret  string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, codeStr, msg string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": codeStr, "message": msg}})
}

// domainError maps domain sentinels onto the HTTP error envelope.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientCredits):
		a.error(w, http.StatusPaymentRequired, "insufficient_credits", "not enough credits for this action")
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "caller may not perform this action")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing or invalid credentials")
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
