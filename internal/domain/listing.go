package domain

import (
	"encoding/json"
	"time"
)

// ContentType tags the four postable listing variants.
type ContentType string

const (
	ContentTypeMarketplace     ContentType = "marketplace"
	ContentTypeJob             ContentType = "job"
	ContentTypeRealEstate      ContentType = "real_estate"
	ContentTypeBusinessProfile ContentType = "business_profile"
)

// Valid reports whether the content type is one of the known values.
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeMarketplace, ContentTypeJob, ContentTypeRealEstate, ContentTypeBusinessProfile:
		return true
	}
	return false
}

// IsProfile reports whether the type is a permanent business profile,
// which carries a flat fee and never expires.
func (c ContentType) IsProfile() bool {
	return c == ContentTypeBusinessProfile
}

// ListingStatus is the content-availability lifecycle of a listing.
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusExpired ListingStatus = "expired"
	ListingStatusRemoved ListingStatus = "removed"
)

// AdminStatus is the moderation gate, independent of ListingStatus.
type AdminStatus string

const (
	AdminStatusPending  AdminStatus = "pending"
	AdminStatusApproved AdminStatus = "approved"
	AdminStatusRejected AdminStatus = "rejected"
)

// Listing is the shared lifecycle envelope over the four content types.
// The type-specific attributes live in Payload; lifecycle fields are
// uniform so moderation and expiry operate generically.
type Listing struct {
	ID          string
	UserID      string
	ContentType ContentType
	Status      ListingStatus
	AdminStatus AdminStatus
	Payload     json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExpiresAt   *time.Time // nil for business profiles
}

// VisibleAt reports whether the listing is publicly visible at the given
// instant: active, approved, and not past its expiry.
func (l Listing) VisibleAt(now time.Time) bool {
	if l.Status != ListingStatusActive || l.AdminStatus != AdminStatusApproved {
		return false
	}
	if l.ExpiresAt != nil && !l.ExpiresAt.After(now) {
		return false
	}
	return true
}
