package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// ModerationService is the admin approval state machine. Transitions are
// pending to approved and pending to rejected; both targets are terminal.
// Repeating an already-applied decision is a no-op write, but it still
// appends an audit row.
type ModerationService struct {
	listings domain.ListingRepository
	audit    domain.AuditRepository
	logger   zerolog.Logger
}

// NewModerationService creates a new ModerationService.
func NewModerationService(listings domain.ListingRepository, audit domain.AuditRepository, logger zerolog.Logger) *ModerationService {
	return &ModerationService{listings: listings, audit: audit, logger: logger}
}

// Decide applies an approve or reject decision to a listing. The role is
// re-checked here even though the transport layer already gates admin
// routes.
func (s *ModerationService) Decide(ctx context.Context, listingID, adminID string, role domain.UserRole, decision domain.AdminStatus, notes string) error {
	if !role.CanModerate() {
		return domain.ErrForbidden
	}
	if decision != domain.AdminStatusApproved && decision != domain.AdminStatusRejected {
		return fmt.Errorf("%w: decision must be approved or rejected", domain.ErrValidation)
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.AdminStatus != domain.AdminStatusPending && listing.AdminStatus != decision {
		return fmt.Errorf("%w: listing is %s", domain.ErrInvalidTransition, listing.AdminStatus)
	}

	activate := decision == domain.AdminStatusApproved && listing.Status != domain.ListingStatusActive
	if err := s.listings.SetModeration(ctx, listingID, decision, activate); err != nil {
		return err
	}

	actionType := domain.AdminActionApprovePost
	if decision == domain.AdminStatusRejected {
		actionType = domain.AdminActionRejectPost
	}
	details, _ := json.Marshal(map[string]any{
		"previous_status": listing.AdminStatus,
		"notes":           notes,
	})
	if err := s.audit.Append(ctx, &domain.AdminAction{
		AdminUserID: adminID,
		ActionType:  actionType,
		TargetType:  string(listing.ContentType),
		TargetID:    listingID,
		Details:     details,
	}); err != nil {
		s.logger.Error().Err(err).Str("listing_id", listingID).Msg("moderation: decision applied but audit append failed")
		return fmt.Errorf("record admin action: %w", err)
	}

	moderationDecisions.WithLabelValues(string(decision)).Inc()
	s.logger.Info().
		Str("listing_id", listingID).
		Str("admin_id", adminID).
		Str("decision", string(decision)).
		Msg("moderation: decision recorded")
	return nil
}

// AuditLog returns the newest privileged-action records.
func (s *ModerationService) AuditLog(ctx context.Context, limit int) ([]domain.AdminAction, error) {
	return s.audit.ListRecent(ctx, clampLimit(limit))
}
