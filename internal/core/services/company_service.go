package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// companyService handles the companies addresses hang off.
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(repo portsrepo.CompanyRepositoryFacade, opts ...Option) portssvc.CompanySvc {
	return &companyService{BaseService: newBaseService(opts), companyRepo: repo}
}

var _ portssvc.CompanySvc = (*companyService)(nil)

// CreateCompany registers a new active company.
func (s *companyService) CreateCompany(ctx context.Context, name, registrationNumber, actor string) (*domain.Company, error) {
	name = strings.TrimSpace(name)
	registrationNumber = strings.TrimSpace(registrationNumber)
	if name == "" || registrationNumber == "" {
		return nil, apperrors.NewValidationError(apperrors.FieldIssue{Field: "name", Rule: "required", Message: "company name and registration number are required"})
	}

	now := s.Now()
	company := domain.Company{
		CompanyID:          uuid.NewString(),
		Name:               name,
		RegistrationNumber: registrationNumber,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save company", slog.String("registration_number", registrationNumber))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Company created", slog.String("company_id", company.CompanyID))
	return &company, nil
}

// GetCompany retrieves a company by its ID.
func (s *companyService) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}
