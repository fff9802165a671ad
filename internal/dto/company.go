package dto

import (
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to register a company.
type CreateCompanyRequest struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registrationNumber" binding:"required,alphanum,max=20"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID          string    `json:"companyID"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registrationNumber"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	CreatedBy          string    `json:"createdBy"`
}

// ToCompanyResponse converts a domain.Company to CompanyResponse DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:          c.CompanyID,
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt,
		CreatedBy:          c.CreatedBy,
	}
}
