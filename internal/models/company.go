package models

// Company is a row of the companies table.
type Company struct {
	CompanyID          string `db:"company_id"`
	Name               string `db:"name"`
	RegistrationNumber string `db:"registration_number"`
	IsActive           bool   `db:"is_active"`
	AuditFields
}
