package services

import (
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/platform/config"
)

// Collaborators are the external systems the services talk to. Any of them may be nil.
type Collaborators struct {
	Audit        portssvc.AuditSink
	Notifier     portssvc.NotificationDispatcher
	PostalLookup portssvc.PostalReferenceLookup
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab Collaborators, opts ...Option) *portssvc.ServiceContainer {
	opts = append([]Option{WithAuditSink(collab.Audit)}, opts...)

	container := &portssvc.ServiceContainer{}

	var lookup portssvc.PostalReferenceLookup
	if cfg.PostalLookupEnabled {
		lookup = collab.PostalLookup
	}
	container.Validator = NewAddressValidator(lookup, opts...)
	container.Company = NewCompanyService(repos.CompanyRepo, opts...)
	container.Address = NewAddressService(repos.AddressRepo, repos.CompanyRepo, container.Validator, opts...)
	container.Workflow = NewWorkflowService(container.Address, container.Validator, repos.WorkflowRepo, WorkflowConfig{
		Companies:                repos.CompanyRepo,
		Notifier:                 collab.Notifier,
		Recipients:               cfg.ApproverEmails,
		AutoApproveHorizonMonths: cfg.AutoApproveHorizonMonths,
	}, opts...)
	container.History = NewHistoryService(container.Address, opts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AddressSvcFacade    = (*addressService)(nil)
	_ portssvc.AddressValidatorSvc = (*addressValidator)(nil)
	_ portssvc.WorkflowSvcFacade   = (*workflowService)(nil)
	_ portssvc.HistorySvc          = (*historyService)(nil)
	_ portssvc.CompanySvc          = (*companyService)(nil)
)
