package domain

import "fmt"

// Posting cost policy. Listings are charged per day of visibility;
// a business profile is a one-time flat fee and ignores duration.
const (
	ListingCreditsPerDay   int64 = 1
	BusinessProfileCredits int64 = 50
	MaxListingDurationDays       = 90
)

// PostingCost returns the credit price of creating a listing of the given
// content type for the requested duration in days. Pure and deterministic;
// unknown content types and non-positive or excessive durations fail with
// ErrValidation.
func PostingCost(contentType ContentType, durationDays int) (int64, error) {
	if !contentType.Valid() {
		return 0, fmt.Errorf("%w: unknown content type %q", ErrValidation, contentType)
	}
	if contentType.IsProfile() {
		return BusinessProfileCredits, nil
	}
	if durationDays <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive, got %d", ErrValidation, durationDays)
	}
	if durationDays > MaxListingDurationDays {
		return 0, fmt.Errorf("%w: duration exceeds %d days", ErrValidation, MaxListingDurationDays)
	}
	return ListingCreditsPerDay * int64(durationDays), nil
}
