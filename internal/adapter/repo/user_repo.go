package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"server/internal/db"
	"server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	db db.DBTX
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(dbtx db.DBTX) *UserRepositoryPG {
	return &UserRepositoryPG{db: dbtx}
}

// GetByID fetches a user account by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.UserAccount, error) {
	row := r.db.QueryRow(ctx, `
SELECT id, email, name, credits, role, created_at, updated_at
FROM users
WHERE id = $1;
`, id)
	return scanUser(row)
}

// UpdateRole changes the role of an existing user.
func (r *UserRepositoryPG) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	tag, err := r.db.Exec(ctx, `
UPDATE users
SET role = $2, updated_at = NOW()
WHERE id = $1;
`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.UserAccount, error) {
	var u domain.UserAccount
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Credits, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
