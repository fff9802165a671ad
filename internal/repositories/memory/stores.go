package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/company_register_app/internal/utils/pagination"
)

type CompanyStore struct {
	mu        sync.RWMutex
	companies map[string]domain.Company
}

func NewCompanyStore() *CompanyStore {
	return &CompanyStore{companies: make(map[string]domain.Company)}
}

var _ portsrepo.CompanyRepositoryFacade = (*CompanyStore)(nil)

func (s *CompanyStore) SaveCompany(_ context.Context, company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if c.RegistrationNumber == company.RegistrationNumber && c.CompanyID != company.CompanyID {
			return apperrors.ErrDuplicate
		}
	}
	s.companies[company.CompanyID] = company
	return nil
}

func (s *CompanyStore) FindCompanyByID(_ context.Context, companyID string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.companies[companyID]; ok {
		return &c, nil
	}
	return nil, apperrors.ErrNotFound
}

type WorkflowStore struct {
	mu        sync.RWMutex
	workflows map[string]domain.AddressChangeWorkflow
}

func NewWorkflowStore() *WorkflowStore {
	return &WorkflowStore{workflows: make(map[string]domain.AddressChangeWorkflow)}
}

var _ portsrepo.WorkflowRepositoryFacade = (*WorkflowStore)(nil)

func (s *WorkflowStore) SaveWorkflow(_ context.Context, workflow domain.AddressChangeWorkflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.workflows[workflow.WorkflowID]; exists {
		return apperrors.ErrDuplicate
	}
	s.workflows[workflow.WorkflowID] = workflow
	return nil
}

func (s *WorkflowStore) UpdateWorkflow(_ context.Context, workflow domain.AddressChangeWorkflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.workflows[workflow.WorkflowID]; !exists {
		return apperrors.ErrNotFound
	}
	s.workflows[workflow.WorkflowID] = workflow
	return nil
}

func (s *WorkflowStore) FindWorkflowByID(_ context.Context, workflowID string) (*domain.AddressChangeWorkflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if wf, ok := s.workflows[workflowID]; ok {
		return &wf, nil
	}
	return nil, apperrors.ErrNotFound
}

// ListPendingWorkflows pages through pending workflows ordered by RequestedAt, then WorkflowID.
func (s *WorkflowStore) ListPendingWorkflows(_ context.Context, companyID string, limit int, nextToken *string) ([]domain.AddressChangeWorkflow, *string, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}

	s.mu.RLock()
	pending := make([]domain.AddressChangeWorkflow, 0)
	for _, wf := range s.workflows {
		if wf.Status == domain.StatusPendingApproval && (companyID == "" || wf.CompanyID == companyID) {
			pending = append(pending, wf)
		}
	}
	s.mu.RUnlock()

	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].RequestedAt.Equal(pending[j].RequestedAt) {
			return pending[i].RequestedAt.Before(pending[j].RequestedAt)
		}
		return pending[i].WorkflowID < pending[j].WorkflowID
	})

	if nextToken != nil && *nextToken != "" {
		lastAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		start := sort.Search(len(pending), func(i int) bool {
			wf := pending[i]
			return wf.RequestedAt.After(lastAt) || (wf.RequestedAt.Equal(lastAt) && wf.WorkflowID > lastID)
		})
		pending = pending[start:]
	}

	var next *string
	if len(pending) > limit {
		last := pending[limit-1]
		token := pagination.EncodeToken(last.RequestedAt, last.WorkflowID)
		next = &token
		pending = pending[:limit]
	}
	return pending, next, nil
}

type AuditStore struct {
	mu     sync.RWMutex
	events []domain.AuditEvent
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

var _ portsrepo.AuditLogRepositoryFacade = (*AuditStore)(nil)

func (s *AuditStore) SaveAuditEvent(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *AuditStore) ListAuditEvents(_ context.Context, resourceType domain.AuditResourceType, resourceID string) ([]domain.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.AuditEvent{}
	for _, e := range s.events {
		if e.ResourceType == resourceType && e.ResourceID == resourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

// NewRepositoryProvider wires every in-memory store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AddressRepo:  NewAddressStore(),
		CompanyRepo:  NewCompanyStore(),
		WorkflowRepo: NewWorkflowStore(),
		AuditRepo:    NewAuditStore(),
	}
}
