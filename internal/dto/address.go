package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// AddressFields are the location and contact details of an address.
// Content rules are enforced by the validation pipeline so that every problem is reported at once.
type AddressFields struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// ToDomain copies the fields into an address with no identity or dates.
func (f AddressFields) ToDomain() domain.Address {
	return domain.Address{
		Line1:    f.Line1,
		Line2:    f.Line2,
		City:     f.City,
		Region:   f.Region,
		Postcode: f.Postcode,
		Country:  f.Country,
		Email:    f.Email,
		Phone:    f.Phone,
	}
}

// CreateAddressRequest defines the data needed to record an address slice.
type CreateAddressRequest struct {
	AddressType string `json:"addressType" binding:"required"`
	AddressFields
	EffectiveFrom string  `json:"effectiveFrom" binding:"required" example:"2024-01-01"`
	EffectiveTo   *string `json:"effectiveTo,omitempty" example:"2024-12-31"`
}

// UpdateAddressRequest replaces the stored fields of an address. AddressType must match the stored one.
type UpdateAddressRequest struct {
	AddressType string `json:"addressType" binding:"required"`
	AddressFields
	EffectiveFrom string  `json:"effectiveFrom" binding:"required" example:"2024-01-01"`
	EffectiveTo   *string `json:"effectiveTo,omitempty"`
}

// ChangeAddressRequest replaces the current address of a type from EffectiveDate onwards.
type ChangeAddressRequest struct {
	Address       AddressFields `json:"address"`
	EffectiveDate string        `json:"effectiveDate" binding:"required" example:"2024-06-01"`
}

// ValidateAddressRequest is a dry run of the validation pipeline. EffectiveFrom defaults to today.
type ValidateAddressRequest struct {
	CompanyID   string `json:"companyID"`
	AddressType string `json:"addressType"`
	AddressFields
	EffectiveFrom string `json:"effectiveFrom"`
}

// AddressResponse defines the data returned for an address slice.
type AddressResponse struct {
	AddressID     string  `json:"addressID"`
	CompanyID     string  `json:"companyID"`
	AddressType   string  `json:"addressType"`
	Line1         string  `json:"line1"`
	Line2         string  `json:"line2,omitempty"`
	City          string  `json:"city"`
	Region        string  `json:"region,omitempty"`
	Postcode      string  `json:"postcode,omitempty"`
	Country       string  `json:"country"`
	Email         string  `json:"email,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	EffectiveFrom string  `json:"effectiveFrom"`
	EffectiveTo   *string `json:"effectiveTo"`
	IsCurrent     bool    `json:"isCurrent"`

	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// RequirementsResponse lists the address requirements a company does not meet.
type RequirementsResponse struct {
	CompanyID string   `json:"companyID"`
	Compliant bool     `json:"compliant"`
	Missing   []string `json:"missing"`
}

// ParseDate parses a YYYY-MM-DD request value, naming the field on failure.
func ParseDate(field, value string) (time.Time, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format", field)
	}
	return d, nil
}

// ParseOptionalDate parses an optional YYYY-MM-DD value; nil and "" mean open-ended.
func ParseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := ParseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ToAddressResponse converts a domain.Address to AddressResponse DTO.
func ToAddressResponse(a *domain.Address) AddressResponse {
	return AddressResponse{
		AddressID:     a.AddressID,
		CompanyID:     a.CompanyID,
		AddressType:   string(a.AddressType),
		Line1:         a.Line1,
		Line2:         a.Line2,
		City:          a.City,
		Region:        a.Region,
		Postcode:      a.Postcode,
		Country:       a.Country,
		Email:         a.Email,
		Phone:         a.Phone,
		EffectiveFrom: formatDate(a.EffectiveFrom),
		EffectiveTo:   formatOptionalDate(a.EffectiveTo),
		IsCurrent:     a.IsCurrent(),
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

// ToAddressResponses converts a slice of domain.Address to []AddressResponse.
func ToAddressResponses(addresses []domain.Address) []AddressResponse {
	res := make([]AddressResponse, len(addresses))
	for i := range addresses {
		res[i] = ToAddressResponse(&addresses[i])
	}
	return res
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
