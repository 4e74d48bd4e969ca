package domain

import (
	"encoding/json"
	"time"
)

// AdminActionType classifies a privileged admin operation.
type AdminActionType string

const (
	AdminActionApprovePost    AdminActionType = "approve_post"
	AdminActionRejectPost     AdminActionType = "reject_post"
	AdminActionAdjustCredits  AdminActionType = "adjust_credits"
	AdminActionChangeUserRole AdminActionType = "change_user_role"
)

// AdminAction is an immutable audit record of a privileged state change.
// One row is appended per admin operation, including no-op repeats of a
// moderation decision: the log answers "who touched this and when", not
// "what changed".
type AdminAction struct {
	ID          string
	AdminUserID string
	ActionType  AdminActionType
	TargetType  string
	TargetID    string
	Details     json.RawMessage
	CreatedAt   time.Time
}
