package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"server/internal/db"
	"server/internal/domain"
)

// ListingRepositoryPG implements domain.ListingRepository backed by
// PostgreSQL. All four content types share the listings table; the
// type-specific attributes live in a JSONB payload column.
type ListingRepositoryPG struct {
	db db.DBTX
}

// NewListingRepository creates a new ListingRepositoryPG.
func NewListingRepository(dbtx db.DBTX) *ListingRepositoryPG {
	return &ListingRepositoryPG{db: dbtx}
}

// Create inserts a new listing row.
func (r *ListingRepositoryPG) Create(ctx context.Context, listing *domain.Listing) error {
	return r.db.QueryRow(ctx, `
INSERT INTO listings (id, user_id, content_type, status, admin_status, payload, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at;
`,
		listing.ID,
		listing.UserID,
		listing.ContentType,
		listing.Status,
		listing.AdminStatus,
		listing.Payload,
		listing.ExpiresAt,
	).Scan(&listing.CreatedAt, &listing.UpdatedAt)
}

// GetByID fetches a listing by UUID regardless of visibility.
func (r *ListingRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	row := r.db.QueryRow(ctx, `
SELECT id, user_id, content_type, status, admin_status, payload, created_at, updated_at, expires_at
FROM listings
WHERE id = $1;
`, id)
	return scanListing(row)
}

// UpdatePayload replaces the type-specific attributes of a listing.
// Lifecycle fields are untouched.
func (r *ListingRepositoryPG) UpdatePayload(ctx context.Context, id string, payload []byte) error {
	tag, err := r.db.Exec(ctx, `
UPDATE listings
SET payload = $2, updated_at = NOW()
WHERE id = $1;
`, id, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus updates the availability lifecycle field. Idempotent.
func (r *ListingRepositoryPG) SetStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	tag, err := r.db.Exec(ctx, `
UPDATE listings
SET status = $2, updated_at = NOW()
WHERE id = $1;
`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetModeration updates admin_status; with activate the availability
// status is forced back to active in the same statement.
func (r *ListingRepositoryPG) SetModeration(ctx context.Context, id string, status domain.AdminStatus, activate bool) error {
	tag, err := r.db.Exec(ctx, `
UPDATE listings
SET admin_status = $2,
    status = CASE WHEN $3 THEN 'active' ELSE status END,
    updated_at = NOW()
WHERE id = $1;
`, id, status, activate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPublic returns publicly visible listings, newest first. The WHERE
// clause is the visibility invariant: active, approved, not expired.
func (r *ListingRepositoryPG) ListPublic(ctx context.Context, contentType domain.ContentType, limit int) ([]domain.Listing, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, user_id, content_type, status, admin_status, payload, created_at, updated_at, expires_at
FROM listings
WHERE status = 'active'
  AND admin_status = 'approved'
  AND (expires_at IS NULL OR expires_at > NOW())
  AND ($1 = '' OR content_type = $1)
ORDER BY created_at DESC
LIMIT $2;
`, string(contentType), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ExpireDue flips active listings past their expiry to expired. The row
// is kept; only public visibility is lost.
func (r *ListingRepositoryPG) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
UPDATE listings
SET status = 'expired', updated_at = NOW()
WHERE status = 'active'
  AND expires_at IS NOT NULL
  AND expires_at <= $1;
`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	if err := row.Scan(&l.ID, &l.UserID, &l.ContentType, &l.Status, &l.AdminStatus, &l.Payload, &l.CreatedAt, &l.UpdatedAt, &l.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}
