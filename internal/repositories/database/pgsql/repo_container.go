package pgsql

import (
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AddressRepo:  newPgxAddressRepository(dbPool),
		CompanyRepo:  newPgxCompanyRepository(dbPool),
		WorkflowRepo: newPgxWorkflowRepository(dbPool),
		AuditRepo:    newPgxAuditLogRepository(dbPool),
	}
}
