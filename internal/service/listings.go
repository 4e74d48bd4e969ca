package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// ListingService manages the shared listing lifecycle across the four
// content types: creation (funded by a ledgered debit), owner edits,
// removal, and expiry.
type ListingService struct {
	credits  *CreditService
	listings domain.ListingRepository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewListingService creates a new ListingService.
func NewListingService(credits *CreditService, listings domain.ListingRepository, logger zerolog.Logger) *ListingService {
	return &ListingService{credits: credits, listings: listings, logger: logger, now: time.Now}
}

// Create validates the payload, debits the posting cost, and inserts the
// listing with admin_status pending. The debit commits before the insert;
// when the insert then fails, a compensating refund is issued and a
// refund failure is escalated, never swallowed. No listing row ever
// exists without a successful, ledgered debit.
func (s *ListingService) Create(ctx context.Context, ownerID string, contentType domain.ContentType, payload json.RawMessage, durationDays int) (*domain.Listing, error) {
	if err := domain.ValidatePayload(contentType, payload); err != nil {
		return nil, err
	}
	cost, err := domain.PostingCost(contentType, durationDays)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("%s listing, %d days", contentType, durationDays)
	if contentType.IsProfile() {
		description = "business profile registration"
	}
	if _, err := s.credits.Debit(ctx, ownerID, cost, description); err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		ContentType: contentType,
		Status:      domain.ListingStatusActive,
		AdminStatus: domain.AdminStatusPending,
		Payload:     payload,
	}
	if !contentType.IsProfile() {
		expires := s.now().Add(time.Duration(durationDays) * 24 * time.Hour)
		listing.ExpiresAt = &expires
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, s.compensate(ctx, ownerID, cost, contentType, err)
	}

	listingsCreated.WithLabelValues(string(contentType)).Inc()
	s.logger.Info().
		Str("listing_id", listing.ID).
		Str("owner_id", ownerID).
		Str("content_type", string(contentType)).
		Int64("cost", cost).
		Msg("listings: created pending listing")
	return listing, nil
}

// compensate refunds a debit whose listing insert failed. Both errors are
// reported when the refund itself fails so an operator sees the drift.
func (s *ListingService) compensate(ctx context.Context, ownerID string, cost int64, contentType domain.ContentType, insertErr error) error {
	description := fmt.Sprintf("refund: %s listing creation failed", contentType)
	if _, refundErr := s.credits.Credit(ctx, ownerID, cost, domain.LedgerKindRefund, description); refundErr != nil {
		s.logger.Error().
			Err(refundErr).
			Str("owner_id", ownerID).
			Int64("cost", cost).
			Msg("listings: compensating refund failed, balance and ledger need reconciliation")
		return errors.Join(
			fmt.Errorf("insert listing: %w", insertErr),
			fmt.Errorf("compensating refund of %d credits failed: %w", cost, refundErr),
		)
	}
	refundsIssued.Inc()
	s.logger.Warn().
		Str("owner_id", ownerID).
		Int64("cost", cost).
		Msg("listings: insert failed, debit refunded")
	return fmt.Errorf("insert listing: %w", insertErr)
}

// Edit replaces the payload of an owned listing. Lifecycle fields are
// untouched: no re-charge and no reset of admin_status.
func (s *ListingService) Edit(ctx context.Context, listingID, requesterID string, payload json.RawMessage) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	if err := domain.ValidatePayload(listing.ContentType, payload); err != nil {
		return nil, err
	}
	if err := s.listings.UpdatePayload(ctx, listingID, payload); err != nil {
		return nil, err
	}
	listing.Payload = payload
	return listing, nil
}

// Remove sets status to removed. Owner or moderator/admin only;
// idempotent, the row is never deleted.
func (s *ListingService) Remove(ctx context.Context, listingID, requesterID string, requesterRole domain.UserRole) error {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.UserID != requesterID && !requesterRole.CanModerate() {
		return domain.ErrForbidden
	}
	if listing.Status == domain.ListingStatusRemoved {
		return nil
	}
	return s.listings.SetStatus(ctx, listingID, domain.ListingStatusRemoved)
}

// GetPublic fetches a listing for an unauthenticated reader; anything
// outside the visibility invariant reads as not found.
func (s *ListingService) GetPublic(ctx context.Context, listingID string) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.VisibleAt(s.now()) {
		return nil, domain.ErrNotFound
	}
	return listing, nil
}

// ListPublic returns visible listings, newest first, optionally filtered
// by content type.
func (s *ListingService) ListPublic(ctx context.Context, contentType domain.ContentType, limit int) ([]domain.Listing, error) {
	if contentType != "" && !contentType.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", domain.ErrValidation, contentType)
	}
	return s.listings.ListPublic(ctx, contentType, clampLimit(limit))
}

// ExpireDue marks overdue listings expired and returns the count. Expiry
// is also enforced lazily in every public read, so the sweep only keeps
// the stored rows honest.
func (s *ListingService) ExpireDue(ctx context.Context) (int64, error) {
	n, err := s.listings.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("count", n).Msg("listings: expired overdue listings")
	}
	return n, nil
}
