package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*UserAccount, error)
	UpdateRole(ctx context.Context, id string, role UserRole) error
}

// CreditStore is the single source of truth for spendable credits.
// ApplyEntry performs the balance update and the ledger append as one
// atomic unit; a negative amount that would overdraw the balance fails
// with ErrInsufficientCredits and leaves no trace.
type CreditStore interface {
	Balance(ctx context.Context, userID string) (int64, error)
	ApplyEntry(ctx context.Context, entry *LedgerEntry) (newBalance int64, err error)
	ListEntries(ctx context.Context, userID string, limit int) ([]LedgerEntry, error)
}

// ListingRepository persists the shared listing envelope.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	UpdatePayload(ctx context.Context, id string, payload []byte) error
	SetStatus(ctx context.Context, id string, status ListingStatus) error
	// SetModeration updates admin_status; when activate is true the
	// listing's status is forced back to active in the same statement.
	SetModeration(ctx context.Context, id string, status AdminStatus, activate bool) error
	// ListPublic returns listings satisfying the visibility invariant,
	// newest first. contentType may be empty to include all types.
	ListPublic(ctx context.Context, contentType ContentType, limit int) ([]Listing, error)
	// ExpireDue marks active listings past their expiry as expired and
	// returns how many rows changed.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// AuditRepository is the append-only privileged-action log.
type AuditRepository interface {
	Append(ctx context.Context, action *AdminAction) error
	ListRecent(ctx context.Context, limit int) ([]AdminAction, error)
}
