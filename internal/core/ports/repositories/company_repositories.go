package repositories

import (
	"context"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// CompanyReader defines read operations for companies.
type CompanyReader interface {
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}

// CompanyWriter defines write operations for companies.
type CompanyWriter interface {
	SaveCompany(ctx context.Context, company domain.Company) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
