package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// CreditStorePG implements domain.CreditStore backed by PostgreSQL.
// The balance mutation and the ledger append commit in one transaction,
// and the balance check is re-evaluated at write time by a conditional
// UPDATE, so concurrent debits serialize inside the database and can
// never overdraw.
type CreditStorePG struct {
	pool *pgxpool.Pool
}

// NewCreditStore creates a new CreditStorePG.
func NewCreditStore(pool *pgxpool.Pool) *CreditStorePG {
	return &CreditStorePG{pool: pool}
}

// Balance returns the current spendable credits for a user.
func (s *CreditStorePG) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx, `SELECT credits FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

// ApplyEntry moves entry.Amount on the user's balance and appends the
// ledger entry atomically. Returns the balance after the mutation.
func (s *CreditStorePG) ApplyEntry(ctx context.Context, entry *domain.LedgerEntry) (int64, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin credit tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var newBalance int64
	err = tx.QueryRow(ctx, `
UPDATE users
SET credits = credits + $2, updated_at = NOW()
WHERE id = $1 AND credits + $2 >= 0
RETURNING credits;
`, entry.UserID, entry.Amount).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, s.classifyMiss(ctx, tx, entry.UserID)
		}
		return 0, fmt.Errorf("update balance: %w", err)
	}

	err = tx.QueryRow(ctx, `
INSERT INTO ledger_entries (id, user_id, amount, kind, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at;
`, entry.ID, entry.UserID, entry.Amount, entry.Kind, entry.Description).Scan(&entry.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("append ledger entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit credit tx: %w", err)
	}
	return newBalance, nil
}

// classifyMiss distinguishes an unknown user from an overdraw rejection
// after the conditional UPDATE matched no row.
func (s *CreditStorePG) classifyMiss(ctx context.Context, tx pgx.Tx, userID string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInsufficientCredits
}

// ListEntries returns the user's ledger, newest first.
func (s *CreditStorePG) ListEntries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, user_id, amount, kind, description, created_at
FROM ledger_entries
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2;
`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Kind, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
