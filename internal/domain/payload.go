package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MarketplacePayload is the attribute schema for marketplace posts.
type MarketplacePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	City        string `json:"city"`
	ImageURL    string `json:"image_url,omitempty"`
}

// JobPayload is the attribute schema for job posts.
type JobPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	City        string `json:"city"`
	Salary      *int64 `json:"salary,omitempty"`
	ContactURL  string `json:"contact_url,omitempty"`
}

// RealEstatePayload is the attribute schema for real-estate posts.
type RealEstatePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deal        string `json:"deal"` // rent | sale
	Price       int64  `json:"price"`
	Rooms       int    `json:"rooms,omitempty"`
	AreaSqm     int    `json:"area_sqm,omitempty"`
	City        string `json:"city"`
}

// BusinessProfilePayload is the attribute schema for business profiles.
type BusinessProfilePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Address     string `json:"address"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
}

// ValidatePayload checks the raw payload against the schema of the given
// content type. Unknown fields and missing required attributes fail with
// ErrValidation.
func ValidatePayload(contentType ContentType, raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is required", ErrValidation)
	}
	switch contentType {
	case ContentTypeMarketplace:
		var p MarketplacePayload
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		if err := require(map[string]string{"title": p.Title, "description": p.Description, "category": p.Category, "city": p.City}); err != nil {
			return err
		}
		if p.Price < 0 {
			return fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
	case ContentTypeJob:
		var p JobPayload
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		if err := require(map[string]string{"title": p.Title, "description": p.Description, "company": p.Company, "city": p.City}); err != nil {
			return err
		}
	case ContentTypeRealEstate:
		var p RealEstatePayload
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		if err := require(map[string]string{"title": p.Title, "description": p.Description, "city": p.City}); err != nil {
			return err
		}
		if p.Deal != "rent" && p.Deal != "sale" {
			return fmt.Errorf("%w: deal must be rent or sale", ErrValidation)
		}
		if p.Price < 0 {
			return fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
	case ContentTypeBusinessProfile:
		var p BusinessProfilePayload
		if err := decodeStrict(raw, &p); err != nil {
			return err
		}
		if err := require(map[string]string{"name": p.Name, "description": p.Description, "category": p.Category, "address": p.Address}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown content type %q", ErrValidation, contentType)
	}
	return nil
}

func decodeStrict(raw json.RawMessage, dst any) error {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func require(fields map[string]string) error {
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, name)
		}
	}
	return nil
}
