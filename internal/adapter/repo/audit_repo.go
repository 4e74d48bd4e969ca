package repo

import (
	"context"

	"github.com/google/uuid"

	"server/internal/db"
	"server/internal/domain"
)

// AuditRepositoryPG implements domain.AuditRepository backed by
// PostgreSQL. Inserts only; the table has no update or delete path.
type AuditRepositoryPG struct {
	db db.DBTX
}

// NewAuditRepository creates a new AuditRepositoryPG.
func NewAuditRepository(dbtx db.DBTX) *AuditRepositoryPG {
	return &AuditRepositoryPG{db: dbtx}
}

// Append records a privileged admin action.
func (r *AuditRepositoryPG) Append(ctx context.Context, action *domain.AdminAction) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	details := action.Details
	if len(details) == 0 {
		details = []byte(`{}`)
	}
	return r.db.QueryRow(ctx, `
INSERT INTO admin_actions (id, admin_user_id, action_type, target_type, target_id, details)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at;
`,
		action.ID,
		action.AdminUserID,
		action.ActionType,
		action.TargetType,
		action.TargetID,
		details,
	).Scan(&action.CreatedAt)
}

// ListRecent returns audit entries, newest first.
func (r *AuditRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.AdminAction, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, admin_user_id, action_type, target_type, target_id, details, created_at
FROM admin_actions
ORDER BY created_at DESC
LIMIT $1;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.AdminAction
	for rows.Next() {
		var a domain.AdminAction
		if err := rows.Scan(&a.ID, &a.AdminUserID, &a.ActionType, &a.TargetType, &a.TargetID, &a.Details, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
