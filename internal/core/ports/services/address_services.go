package services

import (
	"context"
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// AddressReaderSvc defines read operations for company addresses
type AddressReaderSvc interface {
	// GetCurrentAddress returns the open-ended address of a company and type.
	GetCurrentAddress(ctx context.Context, companyID string, addressType domain.AddressType) (*domain.Address, error)

	// GetAddressAtDate returns the address in force on date.
	GetAddressAtDate(ctx context.Context, companyID string, addressType domain.AddressType, date time.Time) (*domain.Address, error)

	// GetAddressHistory lists a company's addresses ordered by type and EffectiveFrom.
	// A nil addressType lists every type.
	GetAddressHistory(ctx context.Context, companyID string, addressType *domain.AddressType) ([]domain.Address, error)

	// ValidateCompanyRequiredAddresses returns the unmet address requirements of a company.
	ValidateCompanyRequiredAddresses(ctx context.Context, companyID string) ([]string, error)
}

// AddressWriterSvc defines write operations for company addresses
type AddressWriterSvc interface {
	// CreateAddress validates and inserts a new address.
	CreateAddress(ctx context.Context, address domain.Address, actor string) (*domain.Address, error)

	// UpdateAddress validates and replaces an existing address.
	UpdateAddress(ctx context.Context, address domain.Address, actor string) (*domain.Address, error)

	// ChangeAddress closes the current address the day before effectiveDate and opens newAddress from effectiveDate.
	ChangeAddress(ctx context.Context, companyID string, addressType domain.AddressType, newAddress domain.Address, effectiveDate time.Time, actor string) (*domain.Address, error)
}

// AddressSvcFacade combines all address-related service interfaces
type AddressSvcFacade interface {
	AddressReaderSvc
	AddressWriterSvc
}

// AddressValidatorSvc runs the address validation pipeline.
type AddressValidatorSvc interface {
	// Validate checks a standalone address.
	Validate(ctx context.Context, address domain.Address) domain.ValidationResult

	// ValidateUpdate checks a proposed replacement of current taking effect on effectiveDate.
	ValidateUpdate(ctx context.Context, current, proposed domain.Address, effectiveDate time.Time) domain.ValidationResult
}
