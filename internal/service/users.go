package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// UserService covers the one privileged account mutation this system
// owns: role changes, which are audit-logged like every admin action.
type UserService struct {
	users  domain.UserRepository
	audit  domain.AuditRepository
	logger zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, audit domain.AuditRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, audit: audit, logger: logger}
}

// Get returns the account for the given id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.UserAccount, error) {
	return s.users.GetByID(ctx, id)
}

// ChangeRole updates a user's role and appends the audit record.
func (s *UserService) ChangeRole(ctx context.Context, adminID, userID string, role domain.UserRole) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	details, _ := json.Marshal(map[string]any{
		"previous_role": current.Role,
		"new_role":      role,
	})
	if err := s.audit.Append(ctx, &domain.AdminAction{
		AdminUserID: adminID,
		ActionType:  domain.AdminActionChangeUserRole,
		TargetType:  "users",
		TargetID:    userID,
		Details:     details,
	}); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("users: role changed but audit append failed")
		return fmt.Errorf("record admin action: %w", err)
	}
	return nil
}
