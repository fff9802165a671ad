package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// addressService implements the AddressSvcFacade interface
type addressService struct {
	BaseService
	addressRepo portsrepo.AddressRepositoryFacade
	companyRepo portsrepo.CompanyReader
	validator   portssvc.AddressValidatorSvc
	engine      *TemporalEngine
}

// NewAddressService creates the address lifecycle service. companyRepo may be nil, which skips the
// company existence check.
func NewAddressService(addressRepo portsrepo.AddressRepositoryFacade, companyRepo portsrepo.CompanyReader, validator portssvc.AddressValidatorSvc, opts ...Option) portssvc.AddressSvcFacade {
	return &addressService{
		BaseService: newBaseService(opts),
		addressRepo: addressRepo,
		companyRepo: companyRepo,
		validator:   validator,
		engine:      NewTemporalEngine(opts...),
	}
}

var _ portssvc.AddressSvcFacade = (*addressService)(nil)

// CreateAddress validates and inserts a new address.
func (s *addressService) CreateAddress(ctx context.Context, address domain.Address, actor string) (*domain.Address, error) {
	if err := s.ensureCompany(ctx, address.CompanyID); err != nil {
		return nil, err
	}

	a := address.Normalized()
	if result := s.validator.Validate(ctx, a); !result.IsValid() {
		return nil, toValidationError(result)
	}

	now := s.Now()
	a.AddressID = uuid.NewString()
	a.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: actor, LastUpdatedAt: now, LastUpdatedBy: actor}

	var created *domain.Address
	err := s.addressRepo.WithAddressLock(ctx, a.CompanyID, a.AddressType, func(repo portsrepo.AddressRepository) error {
		var err error
		created, err = s.engine.OpenNew(ctx, repo, a)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrOverlapConflict) {
			s.LogError(ctx, err, "Failed to create address", slog.String("company_id", a.CompanyID), slog.String("address_type", string(a.AddressType)))
		}
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditCreate, domain.ResourceAddress, created.AddressID, actor, addressAuditDetails(*created))
	s.LogInfo(ctx, "Address created", slog.String("address_id", created.AddressID), slog.String("company_id", created.CompanyID))
	return created, nil
}

// UpdateAddress validates and replaces an existing address, excluding itself from the overlap check.
func (s *addressService) UpdateAddress(ctx context.Context, address domain.Address, actor string) (*domain.Address, error) {
	existing, err := s.addressRepo.FindAddressByID(ctx, address.AddressID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find address for update", slog.String("address_id", address.AddressID))
		}
		return nil, err
	}

	a := address.Normalized()
	if a.CompanyID != existing.CompanyID || a.AddressType != existing.AddressType {
		return nil, apperrors.NewValidationError(apperrors.FieldIssue{
			Field:   "addressType",
			Rule:    "immutable",
			Message: "the company and address type of an address cannot be changed",
		})
	}
	if result := s.validator.Validate(ctx, a); !result.IsValid() {
		return nil, toValidationError(result)
	}

	a.CreatedAt = existing.CreatedAt
	a.CreatedBy = existing.CreatedBy
	a.LastUpdatedAt = s.Now()
	a.LastUpdatedBy = actor

	err = s.addressRepo.WithAddressLock(ctx, a.CompanyID, a.AddressType, func(repo portsrepo.AddressRepository) error {
		if err := s.engine.checkOverlap(ctx, repo, a, a.AddressID); err != nil {
			return err
		}
		return repo.UpdateAddress(ctx, a)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrOverlapConflict) {
			s.LogError(ctx, err, "Failed to update address", slog.String("address_id", a.AddressID))
		}
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditUpdate, domain.ResourceAddress, a.AddressID, actor, addressAuditDetails(a))
	s.LogInfo(ctx, "Address updated", slog.String("address_id", a.AddressID))
	return &a, nil
}

// ChangeAddress closes the current address on the day before effectiveDate and opens newAddress from
// effectiveDate. Both writes commit together or not at all.
func (s *addressService) ChangeAddress(ctx context.Context, companyID string, addressType domain.AddressType, newAddress domain.Address, effectiveDate time.Time, actor string) (*domain.Address, error) {
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return nil, err
	}

	a := newAddress.Normalized()
	a.CompanyID = companyID
	a.AddressType = addressType
	a.EffectiveFrom = domain.DateOf(effectiveDate)
	a.EffectiveTo = nil
	if result := s.validator.Validate(ctx, a); !result.IsValid() {
		return nil, toValidationError(result)
	}

	now := s.Now()
	a.AddressID = uuid.NewString()
	a.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: actor, LastUpdatedAt: now, LastUpdatedBy: actor}

	var closed, opened *domain.Address
	err := s.addressRepo.WithAddressLock(ctx, companyID, addressType, func(repo portsrepo.AddressRepository) error {
		var err error
		if closed, err = s.engine.CloseCurrent(ctx, repo, companyID, addressType, a.EffectiveFrom, actor); err != nil {
			return err
		}
		opened, err = s.engine.OpenNew(ctx, repo, a)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrOverlapConflict) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to change address", slog.String("company_id", companyID), slog.String("address_type", string(addressType)))
		}
		return nil, err
	}

	if closed != nil {
		s.RecordAudit(ctx, domain.AuditUpdate, domain.ResourceAddress, closed.AddressID, actor, addressAuditDetails(*closed))
	}
	s.RecordAudit(ctx, domain.AuditCreate, domain.ResourceAddress, opened.AddressID, actor, addressAuditDetails(*opened))
	s.LogInfo(ctx, "Address changed",
		slog.String("company_id", companyID),
		slog.String("address_type", string(addressType)),
		slog.String("address_id", opened.AddressID),
		slog.String("effective_from", opened.EffectiveFrom.Format(time.DateOnly)))
	return opened, nil
}

// GetCurrentAddress returns the open-ended address of a company and type.
func (s *addressService) GetCurrentAddress(ctx context.Context, companyID string, addressType domain.AddressType) (*domain.Address, error) {
	address, err := s.addressRepo.FindCurrent(ctx, companyID, addressType)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find current address", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return address, nil
}

// GetAddressAtDate returns the address in force on date.
func (s *addressService) GetAddressAtDate(ctx context.Context, companyID string, addressType domain.AddressType, date time.Time) (*domain.Address, error) {
	address, err := s.addressRepo.FindAtDate(ctx, companyID, addressType, domain.DateOf(date))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find address at date", slog.String("company_id", companyID), slog.Time("date", date))
		}
		return nil, err
	}
	return address, nil
}

// GetAddressHistory lists a company's addresses ordered by type and EffectiveFrom.
func (s *addressService) GetAddressHistory(ctx context.Context, companyID string, addressType *domain.AddressType) ([]domain.Address, error) {
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return nil, err
	}
	history, err := s.addressRepo.FindHistory(ctx, companyID, addressType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list address history", slog.String("company_id", companyID))
		return nil, err
	}
	if history == nil {
		return []domain.Address{}, nil
	}
	return history, nil
}

// ValidateCompanyRequiredAddresses lists the address requirements the company does not meet.
// A company needs a current REGISTERED and a current SERVICE address, even when both are the same place.
func (s *addressService) ValidateCompanyRequiredAddresses(ctx context.Context, companyID string) ([]string, error) {
	if err := s.ensureCompany(ctx, companyID); err != nil {
		return nil, err
	}
	missing := []string{}
	for _, t := range []domain.AddressType{domain.Registered, domain.Service} {
		_, err := s.addressRepo.FindCurrent(ctx, companyID, t)
		if errors.Is(err, apperrors.ErrNotFound) {
			missing = append(missing, fmt.Sprintf("company must have a current %s address", t))
			continue
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to check required address", slog.String("company_id", companyID), slog.String("address_type", string(t)))
			return nil, err
		}
	}
	return missing, nil
}

func (s *addressService) ensureCompany(ctx context.Context, companyID string) error {
	if s.companyRepo == nil {
		return nil
	}
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("company %s: %w", companyID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to look up company", slog.String("company_id", companyID))
		return err
	}
	return nil
}

// toValidationError converts the blocking issues of a result into a ValidationError.
func toValidationError(result domain.ValidationResult) *apperrors.ValidationError {
	issues := make([]apperrors.FieldIssue, 0, len(result.Errors))
	for _, e := range result.Errors {
		issues = append(issues, apperrors.FieldIssue{Field: e.Field, Rule: e.Rule, Message: e.Message})
	}
	return apperrors.NewValidationError(issues...)
}

func addressAuditDetails(a domain.Address) map[string]any {
	details := map[string]any{
		"company_id":     a.CompanyID,
		"address_type":   string(a.AddressType),
		"effective_from": a.EffectiveFrom.Format(time.DateOnly),
		"country":        a.Country,
	}
	if a.EffectiveTo != nil {
		details["effective_to"] = a.EffectiveTo.Format(time.DateOnly)
	}
	return details
}
