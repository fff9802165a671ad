package models

import "time"

// Address is a row of the addresses table. Optional text columns are stored as empty strings.
type Address struct {
	AddressID     string     `db:"address_id"`
	CompanyID     string     `db:"company_id"`
	AddressType   string     `db:"address_type"`
	Line1         string     `db:"line1"`
	Line2         string     `db:"line2"`
	City          string     `db:"city"`
	Region        string     `db:"region"`
	Postcode      string     `db:"postcode"`
	Country       string     `db:"country"`
	Email         string     `db:"email"`
	Phone         string     `db:"phone"`
	EffectiveFrom time.Time  `db:"effective_from"`
	EffectiveTo   *time.Time `db:"effective_to"` // NULL while current
	AuditFields
}
