package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// CreditService is the balance authority: every credit mutation in the
// system routes through it, so the ledger stays the complete history of
// the virtual economy. Atomicity of the (balance update, ledger append)
// pair is delegated to the store.
type CreditService struct {
	store  domain.CreditStore
	audit  domain.AuditRepository
	logger zerolog.Logger
}

// NewCreditService creates a new CreditService.
func NewCreditService(store domain.CreditStore, audit domain.AuditRepository, logger zerolog.Logger) *CreditService {
	return &CreditService{store: store, audit: audit, logger: logger}
}

// Balance returns the user's current spendable credits.
func (s *CreditService) Balance(ctx context.Context, userID string) (int64, error) {
	return s.store.Balance(ctx, userID)
}

// Debit spends amount credits. Fails with ErrInsufficientCredits when the
// balance does not cover it; no partial debit is ever applied.
func (s *CreditService) Debit(ctx context.Context, userID string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive", domain.ErrValidation)
	}
	return s.apply(ctx, &domain.LedgerEntry{
		UserID:      userID,
		Amount:      -amount,
		Kind:        domain.LedgerKindDeduction,
		Description: description,
	})
}

// Credit adds amount credits with the given kind (purchase or refund).
func (s *CreditService) Credit(ctx context.Context, userID string, amount int64, kind domain.LedgerKind, description string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", domain.ErrValidation)
	}
	if kind != domain.LedgerKindPurchase && kind != domain.LedgerKindRefund {
		return 0, fmt.Errorf("%w: unsupported credit kind %q", domain.ErrValidation, kind)
	}
	return s.apply(ctx, &domain.LedgerEntry{
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
	})
}

// Adjust applies a signed admin adjustment and records it in the audit
// log. An adjustment that would overdraw the balance is rejected, not
// clamped, so the ledger never carries an amount differing from the one
// requested.
func (s *CreditService) Adjust(ctx context.Context, adminID, userID string, amount int64, description string) (int64, error) {
	if amount == 0 {
		return 0, fmt.Errorf("%w: adjustment amount must not be zero", domain.ErrValidation)
	}
	kind := domain.LedgerKindPurchase
	if amount < 0 {
		kind = domain.LedgerKindDeduction
	}
	newBalance, err := s.apply(ctx, &domain.LedgerEntry{
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
	})
	if err != nil {
		return 0, err
	}

	details, _ := json.Marshal(map[string]any{
		"amount":      amount,
		"description": description,
		"new_balance": newBalance,
	})
	if err := s.audit.Append(ctx, &domain.AdminAction{
		AdminUserID: adminID,
		ActionType:  domain.AdminActionAdjustCredits,
		TargetType:  "users",
		TargetID:    userID,
		Details:     details,
	}); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("credits: adjustment applied but audit append failed")
		return newBalance, fmt.Errorf("record admin action: %w", err)
	}
	return newBalance, nil
}

// Ledger returns the user's ledger entries, newest first.
func (s *CreditService) Ledger(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	return s.store.ListEntries(ctx, userID, clampLimit(limit))
}

func (s *CreditService) apply(ctx context.Context, entry *domain.LedgerEntry) (int64, error) {
	newBalance, err := s.store.ApplyEntry(ctx, entry)
	if err != nil {
		return 0, err
	}
	creditsMoved.WithLabelValues(string(entry.Kind)).Add(float64(abs(entry.Amount)))
	s.logger.Info().
		Str("user_id", entry.UserID).
		Int64("amount", entry.Amount).
		Str("kind", string(entry.Kind)).
		Int64("new_balance", newBalance).
		Msg("credits: ledger entry applied")
	return newBalance, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
