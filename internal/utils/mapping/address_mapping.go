package mapping

import (
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/SscSPs/company_register_app/internal/models"
)

// ToModelAddress converts a domain Address to a model Address
func ToModelAddress(d domain.Address) models.Address {
	return models.Address{
		AddressID:     d.AddressID,
		CompanyID:     d.CompanyID,
		AddressType:   string(d.AddressType),
		Line1:         d.Line1,
		Line2:         d.Line2,
		City:          d.City,
		Region:        d.Region,
		Postcode:      d.Postcode,
		Country:       d.Country,
		Email:         d.Email,
		Phone:         d.Phone,
		EffectiveFrom: domain.DateOf(d.EffectiveFrom),
		EffectiveTo:   dateOrNil(d.EffectiveTo),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAddress converts a model Address to a domain Address
func ToDomainAddress(m models.Address) domain.Address {
	return domain.Address{
		AddressID:     m.AddressID,
		CompanyID:     m.CompanyID,
		AddressType:   domain.AddressType(m.AddressType),
		Line1:         m.Line1,
		Line2:         m.Line2,
		City:          m.City,
		Region:        m.Region,
		Postcode:      m.Postcode,
		Country:       m.Country,
		Email:         m.Email,
		Phone:         m.Phone,
		EffectiveFrom: domain.DateOf(m.EffectiveFrom),
		EffectiveTo:   dateOrNil(m.EffectiveTo),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAddressSlice converts a slice of model Addresses to a slice of domain Addresses
func ToDomainAddressSlice(ms []models.Address) []domain.Address {
	ds := make([]domain.Address, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAddress(m)
	}
	return ds
}

func dateOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}
