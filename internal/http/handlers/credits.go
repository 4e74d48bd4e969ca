package handlers

import (
	"net/http"
	"strconv"
	"time"

	"server/internal/domain"
	"server/internal/middleware"
)

type ledgerEntryDTO struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLedgerDTOs(entries []domain.LedgerEntry) []ledgerEntryDTO {
	dtos := make([]ledgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, ledgerEntryDTO{
			ID:          e.ID,
			Amount:      e.Amount,
			Kind:        string(e.Kind),
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return dtos
}

// CreditsBalance handles GET /me/credits.
func (a *App) CreditsBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	balance, err := a.Credits.Balance(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]int64{"credits": balance})
}

// LedgerList handles GET /me/ledger, newest first.
func (a *App) LedgerList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := a.Credits.Ledger(r.Context(), userID, limit)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toLedgerDTOs(entries)})
}
