package domain

// Company is the registered entity that owns addresses. Its lifecycle is managed outside the address engine;
// the engine only needs to know that it exists.
type Company struct {
	CompanyID          string `json:"companyID"`          // Primary Key (UUID)
	Name               string `json:"name"`               // Registered name
	RegistrationNumber string `json:"registrationNumber"` // Register-issued number
	IsActive           bool   `json:"isActive"`
	AuditFields
}
