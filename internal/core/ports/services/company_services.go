package services

import (
	"context"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// CompanySvc manages the companies addresses belong to.
type CompanySvc interface {
	CreateCompany(ctx context.Context, name, registrationNumber, actor string) (*domain.Company, error)
	GetCompany(ctx context.Context, companyID string) (*domain.Company, error)
}
